// Package tickets runs the ticket lifecycle: intake, claim and close.
package tickets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/supportdesk/pkg/conversation"
	"github.com/Jacobbrewer1/supportdesk/pkg/custom"
	"github.com/Jacobbrewer1/supportdesk/pkg/dataaccess"
	"github.com/Jacobbrewer1/supportdesk/pkg/entities"
	"github.com/Jacobbrewer1/supportdesk/pkg/logging"
	"github.com/Jacobbrewer1/supportdesk/pkg/matcher"
	"github.com/Jacobbrewer1/supportdesk/pkg/messages"
	"github.com/Jacobbrewer1/supportdesk/pkg/platform"
	"github.com/Jacobbrewer1/supportdesk/pkg/workflow"
	"github.com/google/uuid"
)

const (
	component = "tickets"

	// otherValue is the select menu value of the "Other" choice.
	otherValue = "other"

	// channelTimeLayout is ddmmyyyyHHMMSS.
	channelTimeLayout = "02012006150405"
)

// Event is a lifecycle transition reported to the observer.
type Event string

const (
	EventCreated       Event = "created"
	EventClaimed       Event = "claimed"
	EventClosed        Event = "closed"
	EventIntakeTimeout Event = "intake_timeout"
)

// ObserveFunc is told about every lifecycle transition.
type ObserveFunc func(e Event)

// Prompter asks the requester questions during intake.
type Prompter interface {
	AskText(ctx context.Context, channelID, userID string, prompt *discordgo.MessageSend, timeout time.Duration) (conversation.Answer, error)
	AskSelect(ctx context.Context, channelID, userID string, prompt *discordgo.MessageSend, placeholder string, options []discordgo.SelectMenuOption, timeout time.Duration) (conversation.Answer, error)
}

// Reaction is a qualifying ticket intent.
type Reaction struct {
	ChannelID   string
	MessageID   string
	UserID      string
	DisplayName string
	Emoji       string
}

// Manager is the only writer of ticket rows and the only mover of ticket channels.
type Manager struct {
	l        *slog.Logger
	cfg      Config
	client   platform.Client
	store    *dataaccess.Store
	prompter Prompter
	observe  ObserveFunc
	now      func() time.Time

	// bg tracks the fire and forget side effects.
	bg sync.WaitGroup
}

// NewManager creates a ticket manager.
func NewManager(l *slog.Logger, cfg Config, client platform.Client, store *dataaccess.Store, prompter Prompter, observe ObserveFunc) *Manager {
	if observe == nil {
		observe = func(Event) {}
	}
	return &Manager{
		l:        l.With(slog.String(logging.KeyComponent, component)),
		cfg:      cfg,
		client:   client,
		store:    store,
		prompter: prompter,
		observe:  observe,
		now:      time.Now,
	}
}

// Emoji returns the reaction that opens a ticket.
func (m *Manager) Emoji() string {
	return m.cfg.Emoji
}

// Wait blocks until every background side effect has finished.
func (m *Manager) Wait() {
	m.bg.Wait()
}

// Create runs the intake conversation for the reaction. The reaction is always removed afterwards so that
// the user can react again.
func (m *Manager) Create(ctx context.Context, server *entities.Server, r Reaction) error {
	defer m.removeReaction(r)

	l := m.l.With(
		slog.String(logging.KeyGuildID, server.ID),
		slog.String(logging.KeyUserID, r.UserID),
	)

	guild, err := m.client.Guild(server.ID)
	if err != nil {
		l.Warn("Error getting guild for embeds", slog.String(logging.KeyError, err.Error()))
	}

	ch, err := m.client.CreateChannel(server.ID, discordgo.GuildChannelCreateData{
		Name:                 ChannelName(r.DisplayName, m.now()),
		Type:                 discordgo.ChannelTypeGuildText,
		Topic:                fmt.Sprintf("Ticket opened by %s", r.DisplayName),
		ParentID:             server.UnclaimedCategoryID,
		PermissionOverwrites: overwrites(server, r.UserID),
	})
	if err != nil {
		return workflow.Remote(component, "create channel", "", err)
	}
	l = l.With(slog.String(logging.KeyChannelID, ch.ID))

	m.background(func() {
		err := m.client.SendDirectMessage(r.UserID, &discordgo.MessageSend{
			Content: fmt.Sprintf(messages.TicketCreatedDM, ch.ID),
		})
		if err != nil {
			l.Warn("Error sending ticket created direct message", slog.String(logging.KeyError, err.Error()))
		}
	})

	reply, err := m.prompter.AskText(ctx, ch.ID, r.UserID, &discordgo.MessageSend{
		Content: fmt.Sprintf(messages.TicketWelcome, r.UserID),
	}, m.cfg.PromptTimeout)
	if err != nil {
		m.discard(l, ch.ID)
		return workflow.Remote(component, "subject reply", ch.ID, err)
	} else if reply.TimedOut() {
		m.abandon(l, ch.ID, r.UserID)
		return workflow.Timeout(component, "subject reply", ch.ID)
	}

	subjects, err := m.store.Subjects.ListSubjects(ctx, server.ID)
	if err != nil {
		m.discard(l, ch.ID)
		return workflow.Remote(component, "list subjects", ch.ID, err)
	}

	matched := matcher.Match(subjects, reply.Value, m.cfg.MaxSuggestions)
	choice, err := m.prompter.AskSelect(ctx, ch.ID, r.UserID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{
			platform.Embed(guild, messages.TicketSelectTitle, messages.TicketSelectBody, m.now()),
		},
	}, messages.TicketSelectHint, selectOptions(matched), m.cfg.PromptTimeout)
	if err != nil {
		m.discard(l, ch.ID)
		return workflow.Remote(component, "subject choice", ch.ID, err)
	} else if choice.TimedOut() {
		m.abandon(l, ch.ID, r.UserID)
		return workflow.Timeout(component, "subject choice", ch.ID)
	}

	subject := chosen(matched, choice.Value)
	if err := m.client.RenameChannel(ch.ID, RenamedChannelName(subject.Name)); err != nil {
		l.Warn("Error renaming ticket channel", slog.String(logging.KeyError, err.Error()))
	}

	ticket := &entities.Ticket{
		TicketID:  uuid.NewString(),
		ChannelID: ch.ID,
		ServerID:  server.ID,
		AuthorID:  r.UserID,
		Status:    entities.TicketStatusOpen,
		CreatedAt: custom.NewDatetime(m.now()),
	}
	if !subject.IsOther() {
		id := subject.ID
		ticket.SubjectID = &id
	}

	if err := m.store.Tickets.CreateTicket(ctx, ticket); err != nil {
		m.discard(l, ch.ID)
		return workflow.Remote(component, "save ticket", ch.ID, err)
	}

	if _, err := m.client.SendMessage(ch.ID, &discordgo.MessageSend{
		Content: fmt.Sprintf(messages.TicketCreated, subject.Name),
	}); err != nil {
		return workflow.Remote(component, "confirm ticket", ch.ID, err)
	}

	m.logEntry(l, server, fmt.Sprintf(messages.LogTicketCreated, ch.ID, r.UserID, subject.Name))
	m.observe(EventCreated)
	l.Info("Ticket created", slog.String("ticket_id", ticket.TicketID))
	return nil
}

// Claim moves the ticket channel into the claimed category. It reports false, without error, when the
// caller does not hold the helper role, the channel is not an open ticket or the ticket is already claimed.
func (m *Manager) Claim(ctx context.Context, server *entities.Server, channelID, userID string) (bool, error) {
	l := m.l.With(
		slog.String(logging.KeyGuildID, server.ID),
		slog.String(logging.KeyChannelID, channelID),
		slog.String(logging.KeyUserID, userID),
	)

	if _, err := m.openTicket(ctx, channelID); err != nil {
		if errors.Is(err, dataaccess.ErrNotFound) {
			return false, nil
		}
		return false, workflow.Remote(component, "claim", channelID, err)
	}

	helper, err := m.client.HasRole(server.ID, userID, server.HelperRoleID)
	if err != nil {
		return false, workflow.Remote(component, "claim", channelID, err)
	} else if !helper {
		l.Debug("Claim refused, caller is not a helper")
		return false, nil
	}

	ch, err := m.client.Channel(channelID)
	if err != nil {
		return false, workflow.Remote(component, "claim", channelID, err)
	} else if ch.ParentID == server.ClaimedCategoryID {
		return false, nil
	}

	if err := m.client.MoveChannel(channelID, server.ClaimedCategoryID); err != nil {
		return false, workflow.Remote(component, "claim", channelID, err)
	}

	m.logEntry(l, server, fmt.Sprintf(messages.LogTicketClaimed, channelID, userID))
	m.observe(EventClaimed)
	l.Info("Ticket claimed")
	return true, nil
}

// Close deletes the ticket channel after telling the author. It reports false, without error, when the
// channel is not an open ticket or the caller may not close it.
func (m *Manager) Close(ctx context.Context, server *entities.Server, channelID, userID string) (bool, error) {
	l := m.l.With(
		slog.String(logging.KeyGuildID, server.ID),
		slog.String(logging.KeyChannelID, channelID),
		slog.String(logging.KeyUserID, userID),
	)

	ticket, err := m.openTicket(ctx, channelID)
	if err != nil {
		if errors.Is(err, dataaccess.ErrNotFound) {
			return false, nil
		}
		return false, workflow.Remote(component, "close", channelID, err)
	}

	allowed, err := m.mayClose(server, ticket, userID)
	if err != nil {
		return false, workflow.Remote(component, "close", channelID, err)
	} else if !allowed {
		l.Debug("Close refused, caller is not the author")
		return false, nil
	}

	guild, err := m.client.Guild(server.ID)
	if err != nil {
		l.Warn("Error getting guild for embeds", slog.String(logging.KeyError, err.Error()))
	}

	// Direct messages can be blocked by the user, the ticket is closed regardless.
	if err := m.client.SendDirectMessage(ticket.AuthorID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{
			platform.Embed(guild, messages.TicketClosedTitle, messages.TicketClosedReason, m.now()),
		},
	}); err != nil {
		l.Warn("Error sending ticket closed direct message", slog.String(logging.KeyError, err.Error()))
	}

	if err := m.client.DeleteChannel(channelID); err != nil {
		return false, workflow.Remote(component, "close", channelID, err)
	}

	switch m.cfg.Retention {
	case RetentionDelete:
		err = m.store.Tickets.DeleteTicket(ctx, ticket.TicketID)
	default:
		err = m.store.Tickets.MarkTicketClosed(ctx, ticket.TicketID, userID, custom.NewDatetime(m.now()))
	}
	if err != nil {
		return false, workflow.Remote(component, "close", channelID, err)
	}

	m.logEntry(l, server, fmt.Sprintf(messages.LogTicketClosed, ticket.TicketID, userID))
	m.observe(EventClosed)
	l.Info("Ticket closed", slog.String("ticket_id", ticket.TicketID))
	return true, nil
}

func (m *Manager) openTicket(ctx context.Context, channelID string) (*entities.Ticket, error) {
	ticket, err := m.store.Tickets.GetOpenTicketByChannel(ctx, channelID)
	if err != nil {
		return nil, err
	} else if !ticket.IsOpen() {
		return nil, dataaccess.ErrNotFound
	}
	return ticket, nil
}

func (m *Manager) mayClose(server *entities.Server, ticket *entities.Ticket, userID string) (bool, error) {
	if ticket.AuthorID == userID {
		return true, nil
	} else if !m.cfg.AllowModeratorClose {
		return false, nil
	}
	return m.client.HasRole(server.ID, userID, server.ModeratorRoleID)
}

// abandon deletes the provisional channel and tells the requester the intake timed out.
func (m *Manager) abandon(l *slog.Logger, channelID, userID string) {
	m.observe(EventIntakeTimeout)
	m.discard(l, channelID)

	if err := m.client.SendDirectMessage(userID, &discordgo.MessageSend{
		Content: messages.TicketCreationTimeout,
	}); err != nil {
		l.Warn("Error sending ticket timeout direct message", slog.String(logging.KeyError, err.Error()))
	}
}

func (m *Manager) discard(l *slog.Logger, channelID string) {
	if err := m.client.DeleteChannel(channelID); err != nil {
		l.Error("Error deleting provisional ticket channel", slog.String(logging.KeyError, err.Error()))
	}
}

func (m *Manager) removeReaction(r Reaction) {
	if err := m.client.RemoveReaction(r.ChannelID, r.MessageID, r.Emoji, r.UserID); err != nil {
		m.l.Warn("Error removing ticket reaction",
			slog.String(logging.KeyUserID, r.UserID),
			slog.String(logging.KeyError, err.Error()),
		)
	}
}

func (m *Manager) logEntry(l *slog.Logger, server *entities.Server, content string) {
	if server.LogChannelID == "" {
		return
	}

	m.background(func() {
		if _, err := m.client.SendMessage(server.LogChannelID, &discordgo.MessageSend{
			Content:         content,
			AllowedMentions: &discordgo.MessageAllowedMentions{},
		}); err != nil {
			l.Warn("Error writing log channel entry", slog.String(logging.KeyError, err.Error()))
		}
	})
}

func (m *Manager) background(f func()) {
	m.bg.Add(1)
	go func() {
		defer m.bg.Done()
		f()
	}()
}

// ChannelName is the name of a new ticket channel.
func ChannelName(displayName string, now time.Time) string {
	return fmt.Sprintf("🎫-%s-%s", slug(displayName), now.Format(channelTimeLayout))
}

// RenamedChannelName is the name of a ticket channel once its subject is known.
func RenamedChannelName(subject string) string {
	return "🎫-" + slug(subject)
}

func slug(s string) string {
	b := new(strings.Builder)
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteRune('-')
			dash = true
		}
	}

	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "ticket"
	}
	return out
}

func overwrites(server *entities.Server, authorID string) []*discordgo.PermissionOverwrite {
	return []*discordgo.PermissionOverwrite{
		// Deny @everyone from seeing the ticket.
		{
			ID:   server.ID,
			Type: discordgo.PermissionOverwriteTypeRole,
			Deny: discordgo.PermissionViewChannel,
		},
		{
			ID:    authorID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: discordgo.PermissionAllText,
			Deny:  discordgo.PermissionMentionEveryone,
		},
		{
			ID:    server.HelperRoleID,
			Type:  discordgo.PermissionOverwriteTypeRole,
			Allow: discordgo.PermissionAllText,
		},
		{
			ID:    server.ModeratorRoleID,
			Type:  discordgo.PermissionOverwriteTypeRole,
			Allow: discordgo.PermissionAllText,
		},
	}
}

func selectOptions(matched []*entities.Subject) []discordgo.SelectMenuOption {
	options := make([]discordgo.SelectMenuOption, 0, len(matched)+1)
	for _, s := range matched {
		options = append(options, discordgo.SelectMenuOption{
			Label: s.Name,
			Value: s.ID,
		})
	}
	return append(options, discordgo.SelectMenuOption{
		Label: messages.TicketOtherSubject,
		Value: otherValue,
	})
}

func chosen(matched []*entities.Subject, value string) *entities.Subject {
	for _, s := range matched {
		if s.ID == value {
			return s
		}
	}
	return entities.OtherSubject(messages.TicketOtherSubject)
}
