package setup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/supportdesk/pkg/dataaccess"
	"github.com/Jacobbrewer1/supportdesk/pkg/logging"
	"github.com/Jacobbrewer1/supportdesk/pkg/messages"
	"github.com/Jacobbrewer1/supportdesk/pkg/workflow"
)

// ResetConfirmation is what the administrator must type to confirm a reset.
const ResetConfirmation = "CONFIRM"

const (
	emojiYes = "✅"
	emojiNo  = "❌"
)

// Reset deletes the configuration of the server with its subjects and tickets, then offers to delete the
// roles and categories the setup used. The ticket and log channels belong to the administrator and are kept.
func (w *Wizard) Reset(ctx context.Context, inv Invocation) (Result, error) {
	if _, err := w.store.Servers.GetServer(ctx, inv.GuildID); errors.Is(err, dataaccess.ErrNotFound) {
		return ResultCancelled, workflow.Precondition(component, "reset", inv.ChannelID)
	} else if err != nil {
		return ResultCancelled, remote("reset", err)
	}

	s := w.newSession(inv)

	ans, err := w.prompter.AskText(ctx, inv.ChannelID, inv.UserID, &discordgo.MessageSend{
		Content: fmt.Sprintf(messages.ResetConfirm, ResetConfirmation),
	}, w.cfg.ResetConfirmTimeout)
	if err != nil {
		return ResultCancelled, remote("reset confirm", err)
	} else if ans.TimedOut() {
		w.say(s, messages.ResetTimeout)
		return ResultCancelled, workflow.Timeout(component, "reset confirm", inv.ChannelID)
	} else if ans.Value != ResetConfirmation {
		w.say(s, messages.ResetCancelled)
		return ResultCancelled, nil
	}

	server, err := w.store.Servers.DeleteServer(ctx, inv.GuildID)
	if err != nil {
		return ResultCancelled, remote("reset delete server", err)
	}
	if err := w.store.Subjects.DeleteServerSubjects(ctx, inv.GuildID); err != nil {
		return ResultCancelled, remote("reset delete subjects", err)
	}
	if err := w.store.Tickets.DeleteServerTickets(ctx, inv.GuildID); err != nil {
		return ResultCancelled, remote("reset delete tickets", err)
	}
	s.l.Info("Server configuration deleted")

	deletions := []struct {
		question string
		id       string
		del      func(id string) error
	}{
		{messages.ResetDeleteHelperRole, server.HelperRoleID, w.deleteRole(inv.GuildID)},
		{messages.ResetDeleteModeratorRole, server.ModeratorRoleID, w.deleteRole(inv.GuildID)},
		{messages.ResetDeleteUnclaimedCategory, server.UnclaimedCategoryID, w.client.DeleteChannel},
		{messages.ResetDeleteClaimedCategory, server.ClaimedCategoryID, w.client.DeleteChannel},
	}

	for _, d := range deletions {
		if d.id == "" {
			continue
		}

		yes, err := w.askYesNo(ctx, s, d.question)
		if err != nil {
			return ResultCompleted, err
		} else if !yes {
			continue
		}

		if err := d.del(d.id); notFound(err) {
			s.l.Warn("Already deleted", slog.String("id", d.id))
		} else if err != nil {
			return ResultCompleted, remote("reset", err)
		}
	}

	s.l.Info("Server reset")
	return ResultCompleted, nil
}

func (w *Wizard) deleteRole(guildID string) func(string) error {
	return func(id string) error {
		return w.client.DeleteRole(guildID, id)
	}
}

func (w *Wizard) askYesNo(ctx context.Context, s *session, question string) (bool, error) {
	embed := w.embed(s, messages.ResetQuestion, question)
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: emojiYes, Value: messages.ResetYes, Inline: true},
		{Name: emojiNo, Value: messages.ResetNo, Inline: true},
	}

	ans, err := w.prompter.AskReaction(ctx, s.inv.ChannelID, s.inv.UserID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{embed},
	}, []string{emojiYes, emojiNo}, w.cfg.PromptTimeout)
	if err != nil {
		return false, remote("reset question", err)
	} else if ans.TimedOut() {
		w.say(s, messages.ResetTimeout)
		s.l.Debug("Reset question timed out", slog.String(logging.KeyStep, question))
		return false, workflow.Timeout(component, "reset question", s.inv.ChannelID)
	}
	return ans.Value == emojiYes, nil
}
