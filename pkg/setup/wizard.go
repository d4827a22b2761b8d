package setup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/supportdesk/pkg/dataaccess"
	"github.com/Jacobbrewer1/supportdesk/pkg/entities"
	"github.com/Jacobbrewer1/supportdesk/pkg/logging"
	"github.com/Jacobbrewer1/supportdesk/pkg/messages"
	"github.com/Jacobbrewer1/supportdesk/pkg/parser"
	"github.com/Jacobbrewer1/supportdesk/pkg/workflow"
)

const (
	stepTicketChannel     = "ticket channel"
	stepLogChannel        = "log channel"
	stepUnclaimedCategory = "unclaimed category"
	stepClaimedCategory   = "claimed category"
	stepHelperRole        = "helper role"
	stepModeratorRole     = "moderator role"
	stepTicketMessage     = "ticket message"
	stepComplete          = "complete"
)

func remote(step string, err error) error {
	return workflow.Remote(component, step, "", err)
}

// Run configures the server. Every step is persisted as soon as it succeeds and steps that are already
// persisted are skipped, so running again after a timeout resumes where the last run stopped. A server
// that is already set up is left untouched.
func (w *Wizard) Run(ctx context.Context, inv Invocation) (Result, error) {
	server, err := w.store.Servers.GetServer(ctx, inv.GuildID)
	switch {
	case err == nil && server.SetupComplete:
		return ResultAlreadySetUp, nil
	case errors.Is(err, dataaccess.ErrNotFound):
		if err := w.store.Servers.CreateServer(ctx, inv.GuildID); err != nil {
			return ResultCompleted, remote("create server", err)
		}
		server = &entities.Server{ID: inv.GuildID}
	case err != nil:
		return ResultCompleted, remote("get server", err)
	}

	s := w.newSession(inv)
	s.l.Info("Running server setup")

	if server.TicketChannelID == "" {
		s.l.Debug("Setup step", slog.String(logging.KeyStep, stepTicketChannel))
		id, err := w.askChannel(ctx, s, stepTicketChannel, messages.SetupTicketChannel)
		if err != nil {
			return ResultCompleted, err
		}
		if err := w.persist(ctx, server, stepTicketChannel, &entities.ServerPatch{TicketChannelID: &id}); err != nil {
			return ResultCompleted, err
		}
	}

	if server.LogChannelID == "" {
		s.l.Debug("Setup step", slog.String(logging.KeyStep, stepLogChannel))
		id, err := w.askChannel(ctx, s, stepLogChannel, messages.SetupLogChannel)
		if err != nil {
			return ResultCompleted, err
		}
		if err := w.persist(ctx, server, stepLogChannel, &entities.ServerPatch{LogChannelID: &id}); err != nil {
			return ResultCompleted, err
		}
	}

	if server.UnclaimedCategoryID == "" {
		id, err := w.createCategory(s, UnclaimedCategoryName)
		if err != nil {
			return ResultCompleted, remote(stepUnclaimedCategory, err)
		}
		if err := w.persist(ctx, server, stepUnclaimedCategory, &entities.ServerPatch{UnclaimedCategoryID: &id}); err != nil {
			return ResultCompleted, err
		}
	}

	if server.ClaimedCategoryID == "" {
		id, err := w.createCategory(s, ClaimedCategoryName)
		if err != nil {
			return ResultCompleted, remote(stepClaimedCategory, err)
		}
		if err := w.persist(ctx, server, stepClaimedCategory, &entities.ServerPatch{ClaimedCategoryID: &id}); err != nil {
			return ResultCompleted, err
		}
	}

	if server.HelperRoleID == "" {
		s.l.Debug("Setup step", slog.String(logging.KeyStep, stepHelperRole))
		id, err := w.resolveRole(ctx, s, stepHelperRole, "Helper Role", HelperRoleName)
		if err != nil {
			return ResultCompleted, err
		}
		if err := w.persist(ctx, server, stepHelperRole, &entities.ServerPatch{HelperRoleID: &id}); err != nil {
			return ResultCompleted, err
		}
	}

	if server.ModeratorRoleID == "" {
		s.l.Debug("Setup step", slog.String(logging.KeyStep, stepModeratorRole))
		id, err := w.resolveRole(ctx, s, stepModeratorRole, "Moderator Role", ModeratorRoleName)
		if err != nil {
			return ResultCompleted, err
		}
		if err := w.persist(ctx, server, stepModeratorRole, &entities.ServerPatch{ModeratorRoleID: &id}); err != nil {
			return ResultCompleted, err
		}
	}

	if server.TicketMessageID == "" {
		id, err := w.postTicketMessage(s, server.TicketChannelID)
		if err != nil {
			return ResultCompleted, remote(stepTicketMessage, err)
		}
		if err := w.persist(ctx, server, stepTicketMessage, &entities.ServerPatch{TicketMessageID: &id}); err != nil {
			return ResultCompleted, err
		}
	}

	done := true
	if err := w.persist(ctx, server, stepComplete, &entities.ServerPatch{SetupComplete: &done}); err != nil {
		return ResultCompleted, err
	}

	s.l.Info("Server setup complete")
	return ResultCompleted, nil
}

// askChannel asks for a text channel of the guild until a valid one is given.
func (w *Wizard) askChannel(ctx context.Context, s *session, step, question string) (string, error) {
	for attempt := 0; attempt < w.cfg.MaxAttempts; attempt++ {
		ans, err := w.prompter.AskText(ctx, s.inv.ChannelID, s.inv.UserID, &discordgo.MessageSend{
			Content: question,
		}, w.cfg.PromptTimeout)
		if err != nil {
			return "", remote(step, err)
		} else if ans.TimedOut() {
			w.say(s, messages.SetupTimeout)
			return "", workflow.Timeout(component, step, s.inv.ChannelID)
		}

		id, err := parser.ChannelID(ans.Value)
		if err != nil {
			w.say(s, messages.SetupChannelInvalid)
			continue
		}

		ch, err := w.client.Channel(id)
		if notFound(err) || (err == nil && ch.GuildID != s.inv.GuildID) {
			w.say(s, messages.SetupChannelNotFound)
			continue
		} else if err != nil {
			return "", remote(step, err)
		}

		if ch.Type != discordgo.ChannelTypeGuildText && ch.Type != discordgo.ChannelTypeGuildNews {
			w.say(s, messages.SetupChannelNotText)
			continue
		}
		return id, nil
	}

	return "", workflow.Validation(component, step, messages.SetupTooManyAttempts)
}

// resolveRole offers to create a new role or to reuse an existing one.
func (w *Wizard) resolveRole(ctx context.Context, s *session, step, title, name string) (string, error) {
	embed := w.embed(s, title, messages.SetupRoleQuestion)
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: emojiNewRole, Value: messages.SetupCreateNewRole, Inline: true},
		{Name: emojiExistingRole, Value: messages.SetupUseExistingRole, Inline: true},
	}

	ans, err := w.prompter.AskReaction(ctx, s.inv.ChannelID, s.inv.UserID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{embed},
	}, []string{emojiNewRole, emojiExistingRole}, w.cfg.PromptTimeout)
	if err != nil {
		return "", remote(step, err)
	} else if ans.TimedOut() {
		w.say(s, messages.SetupTimeout)
		return "", workflow.Timeout(component, step, s.inv.ChannelID)
	}

	if ans.Value == emojiNewRole {
		role, err := w.client.CreateRole(s.inv.GuildID, name)
		if err != nil {
			return "", remote(step, err)
		}
		s.l.Info("Role created", slog.String("role", name), slog.String("role_id", role.ID))
		return role.ID, nil
	}

	return w.askRole(ctx, s, step, name)
}

// askRole asks for a role mention until an existing role of the guild is given.
func (w *Wizard) askRole(ctx context.Context, s *session, step, name string) (string, error) {
	for attempt := 0; attempt < w.cfg.MaxAttempts; attempt++ {
		ans, err := w.prompter.AskText(ctx, s.inv.ChannelID, s.inv.UserID, &discordgo.MessageSend{
			Embeds: []*discordgo.MessageEmbed{
				w.embed(s, "Select a role", fmt.Sprintf(messages.SetupRoleMention, strings.ToLower(name))),
			},
		}, w.cfg.PromptTimeout)
		if err != nil {
			return "", remote(step, err)
		} else if ans.TimedOut() {
			w.say(s, messages.SetupTimeout)
			return "", workflow.Timeout(component, step, s.inv.ChannelID)
		}

		id, err := parser.RoleID(ans.Value)
		if err != nil {
			w.say(s, messages.SetupRoleInvalid)
			continue
		}

		if _, err := w.client.Role(s.inv.GuildID, id); notFound(err) {
			w.say(s, messages.SetupRoleNotFound)
			continue
		} else if err != nil {
			return "", remote(step, err)
		}
		return id, nil
	}

	return "", workflow.Validation(component, step, messages.SetupTooManyAttempts)
}

func (w *Wizard) createCategory(s *session, name string) (string, error) {
	category, err := w.client.CreateChannel(s.inv.GuildID, discordgo.GuildChannelCreateData{
		Name: name,
		Type: discordgo.ChannelTypeGuildCategory,
		PermissionOverwrites: []*discordgo.PermissionOverwrite{
			// Deny @everyone from seeing the tickets.
			{
				ID:   s.inv.GuildID,
				Type: discordgo.PermissionOverwriteTypeRole,
				Deny: discordgo.PermissionViewChannel,
			},
		},
	})
	if err != nil {
		return "", err
	}

	s.l.Info("Category created", slog.String("category", name), slog.String(logging.KeyChannelID, category.ID))
	return category.ID, nil
}

func (w *Wizard) postTicketMessage(s *session, channelID string) (string, error) {
	id, err := w.client.SendMessage(channelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{
			w.embed(s, messages.TicketMessageTitle, messages.TicketMessageBody),
		},
	})
	if err != nil {
		return "", err
	}

	if err := w.client.React(channelID, id, w.ticketEmoji); err != nil {
		return "", err
	}
	return id, nil
}
