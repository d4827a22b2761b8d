// Package dispatch turns raw reaction events into ticket intents.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Jacobbrewer1/supportdesk/pkg/dataaccess"
	"github.com/Jacobbrewer1/supportdesk/pkg/entities"
	"github.com/Jacobbrewer1/supportdesk/pkg/logging"
	"github.com/Jacobbrewer1/supportdesk/pkg/platform"
	"github.com/Jacobbrewer1/supportdesk/pkg/tickets"
	"golang.org/x/time/rate"
)

// maxLimiters bounds the limiter map before idle entries are pruned.
const maxLimiters = 10_000

// Creator opens tickets.
type Creator interface {
	Create(ctx context.Context, server *entities.Server, r tickets.Reaction) error
	Emoji() string
}

// Reaction is a reaction added to a message.
type Reaction struct {
	GuildID     string
	ChannelID   string
	MessageID   string
	UserID      string
	DisplayName string
	Emoji       string
	Bot         bool
}

// Limit is the per user ticket intent rate.
type Limit struct {
	// Interval is the time it takes to earn one more ticket intent.
	Interval time.Duration `yaml:"interval"`

	// Burst is the number of ticket intents allowed at once.
	Burst int `yaml:"burst"`
}

// DefaultLimit returns the default per user rate.
func DefaultLimit() Limit {
	return Limit{
		Interval: 20 * time.Second,
		Burst:    3,
	}
}

// Dispatcher filters reactions and hands ticket intents to the creator.
type Dispatcher struct {
	l       *slog.Logger
	servers dataaccess.ServerDal
	client  platform.Client
	creator Creator
	limit   Limit

	mtx      sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(l *slog.Logger, servers dataaccess.ServerDal, client platform.Client, creator Creator, limit Limit) *Dispatcher {
	return &Dispatcher{
		l:        l.With(slog.String(logging.KeyComponent, "dispatch")),
		servers:  servers,
		client:   client,
		creator:  creator,
		limit:    limit,
		limiters: make(map[string]*rate.Limiter),
	}
}

// HandleReaction opens a ticket when the reaction is a ticket intent. It reports whether a ticket intake
// was started. Reactions that are not ticket intents are ignored without error.
func (d *Dispatcher) HandleReaction(ctx context.Context, r Reaction) (bool, error) {
	if r.Bot || r.GuildID == "" {
		return false, nil
	} else if r.Emoji != d.creator.Emoji() {
		return false, nil
	}

	server, err := d.servers.GetServer(ctx, r.GuildID)
	if errors.Is(err, dataaccess.ErrNotFound) {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("error getting server: %w", err)
	}

	if !server.Ready() {
		return false, nil
	} else if r.ChannelID != server.TicketChannelID || r.MessageID != server.TicketMessageID {
		return false, nil
	}

	if !d.allow(r.GuildID, r.UserID) {
		d.l.Info("Ticket intent rate limited",
			slog.String(logging.KeyGuildID, r.GuildID),
			slog.String(logging.KeyUserID, r.UserID),
		)
		if err := d.client.RemoveReaction(r.ChannelID, r.MessageID, r.Emoji, r.UserID); err != nil {
			d.l.Warn("Error removing rate limited reaction", slog.String(logging.KeyError, err.Error()))
		}
		return false, nil
	}

	return true, d.creator.Create(ctx, server, tickets.Reaction{
		ChannelID:   r.ChannelID,
		MessageID:   r.MessageID,
		UserID:      r.UserID,
		DisplayName: r.DisplayName,
		Emoji:       r.Emoji,
	})
}

func (d *Dispatcher) allow(guildID, userID string) bool {
	if d.limit.Burst <= 0 {
		return true
	}

	d.mtx.Lock()
	defer d.mtx.Unlock()

	k := guildID + "/" + userID
	lim, ok := d.limiters[k]
	if !ok {
		if len(d.limiters) >= maxLimiters {
			d.prune()
		}
		lim = rate.NewLimiter(rate.Every(d.limit.Interval), d.limit.Burst)
		d.limiters[k] = lim
	}
	return lim.Allow()
}

// prune drops the limiters that have refilled completely. Must be called with the lock held.
func (d *Dispatcher) prune() {
	for k, lim := range d.limiters {
		if lim.Tokens() >= float64(d.limit.Burst) {
			delete(d.limiters, k)
		}
	}
}
