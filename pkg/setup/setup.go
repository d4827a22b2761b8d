// Package setup runs the server setup and reset conversations.
package setup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/supportdesk/pkg/conversation"
	"github.com/Jacobbrewer1/supportdesk/pkg/dataaccess"
	"github.com/Jacobbrewer1/supportdesk/pkg/entities"
	"github.com/Jacobbrewer1/supportdesk/pkg/logging"
	"github.com/Jacobbrewer1/supportdesk/pkg/platform"
)

const component = "setup"

const (
	UnclaimedCategoryName = "Unclaimed Tickets"
	ClaimedCategoryName   = "Claimed Tickets"
	HelperRoleName        = "Helper"
	ModeratorRoleName     = "Moderator"

	emojiNewRole      = "🆕"
	emojiExistingRole = "🔗"
)

// Result is how a setup or reset invocation ended without error.
type Result int

const (
	// ResultCompleted means every step ran.
	ResultCompleted Result = iota

	// ResultAlreadySetUp means the server was already set up and nothing was changed.
	ResultAlreadySetUp

	// ResultCancelled means the administrator declined the reset.
	ResultCancelled
)

// Config holds the tunables of the setup and reset conversations.
type Config struct {
	// PromptTimeout is how long the administrator has to answer each question.
	PromptTimeout time.Duration `yaml:"prompt_timeout"`

	// ResetConfirmTimeout is how long the administrator has to confirm a reset.
	ResetConfirmTimeout time.Duration `yaml:"reset_confirm_timeout"`

	// MaxAttempts is the number of invalid answers tolerated per question.
	MaxAttempts int `yaml:"max_attempts"`
}

// DefaultConfig returns the default tunables.
func DefaultConfig() Config {
	return Config{
		PromptTimeout:       60 * time.Second,
		ResetConfirmTimeout: 60 * time.Second,
		MaxAttempts:         3,
	}
}

// Validate checks the tunables.
func (c Config) Validate() error {
	switch {
	case c.PromptTimeout <= 0:
		return fmt.Errorf("setup prompt timeout must be positive, got %s", c.PromptTimeout)
	case c.ResetConfirmTimeout <= 0:
		return fmt.Errorf("reset confirm timeout must be positive, got %s", c.ResetConfirmTimeout)
	case c.MaxAttempts < 1:
		return fmt.Errorf("setup max attempts must be at least 1, got %d", c.MaxAttempts)
	}
	return nil
}

// Prompter asks the administrator questions.
type Prompter interface {
	AskText(ctx context.Context, channelID, userID string, prompt *discordgo.MessageSend, timeout time.Duration) (conversation.Answer, error)
	AskReaction(ctx context.Context, channelID, userID string, prompt *discordgo.MessageSend, emojis []string, timeout time.Duration) (conversation.Answer, error)
}

// Invocation is who ran the command and where.
type Invocation struct {
	GuildID   string
	ChannelID string
	UserID    string
}

// Wizard is the only writer of server configuration rows.
type Wizard struct {
	l           *slog.Logger
	cfg         Config
	client      platform.Client
	store       *dataaccess.Store
	prompter    Prompter
	ticketEmoji string
	now         func() time.Time
}

// NewWizard creates a setup wizard. ticketEmoji is the reaction added to the ticket message.
func NewWizard(l *slog.Logger, cfg Config, client platform.Client, store *dataaccess.Store, prompter Prompter, ticketEmoji string) *Wizard {
	return &Wizard{
		l:           l.With(slog.String(logging.KeyComponent, component)),
		cfg:         cfg,
		client:      client,
		store:       store,
		prompter:    prompter,
		ticketEmoji: ticketEmoji,
		now:         time.Now,
	}
}

// session is the state of one invocation.
type session struct {
	inv   Invocation
	guild *discordgo.Guild
	l     *slog.Logger
}

func (w *Wizard) newSession(inv Invocation) *session {
	l := w.l.With(
		slog.String(logging.KeyGuildID, inv.GuildID),
		slog.String(logging.KeyUserID, inv.UserID),
	)

	guild, err := w.client.Guild(inv.GuildID)
	if err != nil {
		l.Warn("Error getting guild for embeds", slog.String(logging.KeyError, err.Error()))
	}
	return &session{inv: inv, guild: guild, l: l}
}

// say posts a notice in the invocation channel. Failing to deliver a notice does not fail the workflow.
func (w *Wizard) say(s *session, content string) {
	if _, err := w.client.SendMessage(s.inv.ChannelID, &discordgo.MessageSend{
		Content: content,
	}); err != nil {
		s.l.Warn("Error sending notice", slog.String(logging.KeyError, err.Error()))
	}
}

func (w *Wizard) embed(s *session, title, description string) *discordgo.MessageEmbed {
	return platform.Embed(s.guild, title, description, w.now())
}

// persist applies the patch to the stored and the in memory server.
func (w *Wizard) persist(ctx context.Context, server *entities.Server, step string, patch *entities.ServerPatch) error {
	if err := w.store.Servers.UpdateServer(ctx, server.ID, patch); err != nil {
		return remote(step, err)
	}
	patch.Apply(server)
	return nil
}

// notFound reports whether err means the resource is missing on the platform.
func notFound(err error) bool {
	return errors.Is(err, platform.ErrNotFound)
}
