package tickets

import (
	"fmt"
	"time"
)

// Retention is what happens to the ticket row when the ticket is closed.
type Retention string

const (
	// RetentionRetain keeps the row and marks it closed.
	RetentionRetain Retention = "retain"

	// RetentionDelete removes the row.
	RetentionDelete Retention = "delete"
)

// Valid reports whether the retention is known.
func (r Retention) Valid() bool {
	return r == RetentionRetain || r == RetentionDelete
}

// Config holds the tunables of the ticket lifecycle.
type Config struct {
	// PromptTimeout is how long the requester has to answer each intake question.
	PromptTimeout time.Duration `yaml:"prompt_timeout"`

	// MaxSuggestions is the number of matched subjects offered before "Other".
	MaxSuggestions int `yaml:"max_suggestions"`

	// Emoji is the reaction that opens a ticket.
	Emoji string `yaml:"emoji"`

	// Retention is the fate of the ticket row on close.
	Retention Retention `yaml:"retention"`

	// AllowModeratorClose lets holders of the moderator role close tickets they did not open.
	AllowModeratorClose bool `yaml:"allow_moderator_close"`
}

// DefaultConfig returns the default tunables.
func DefaultConfig() Config {
	return Config{
		PromptTimeout:       60 * time.Second,
		MaxSuggestions:      5,
		Emoji:               "🎫",
		Retention:           RetentionRetain,
		AllowModeratorClose: false,
	}
}

// Validate checks the tunables.
func (c Config) Validate() error {
	switch {
	case c.PromptTimeout <= 0:
		return fmt.Errorf("prompt timeout must be positive, got %s", c.PromptTimeout)
	case c.MaxSuggestions < 1 || c.MaxSuggestions > 24:
		// A select menu holds 25 options, one of which is "Other".
		return fmt.Errorf("max suggestions must be between 1 and 24, got %d", c.MaxSuggestions)
	case c.Emoji == "":
		return fmt.Errorf("ticket emoji must be set")
	case !c.Retention.Valid():
		return fmt.Errorf("unknown retention policy %q", c.Retention)
	}
	return nil
}
