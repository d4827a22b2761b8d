package main

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/supportdesk/cmd/bot/monitoring"
	"github.com/Jacobbrewer1/supportdesk/pkg/conversation"
	"github.com/Jacobbrewer1/supportdesk/pkg/dispatch"
	"github.com/Jacobbrewer1/supportdesk/pkg/logging"
)

// messageCreateHandler hands typed answers to the prompts waiting for them.
func (a *App) messageCreateHandler() func(s *discordgo.Session, m *discordgo.MessageCreate) {
	return func(_ *discordgo.Session, m *discordgo.MessageCreate) {
		if m.Author == nil || m.Author.Bot {
			return
		}
		a.reg.DeliverText(m.ChannelID, m.Author.ID, m.Content)
	}
}

// reactionAddHandler hands reactions to the prompts waiting for them, then to the dispatcher.
func (a *App) reactionAddHandler() func(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	return func(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
		if a.reg.DeliverChoice(r.ChannelID, r.MessageID, r.UserID, r.Emoji.Name) {
			return
		}

		bot := s.State != nil && s.State.User != nil && s.State.User.ID == r.UserID
		var user *discordgo.User
		if r.Member != nil && r.Member.User != nil {
			user = r.Member.User
			bot = bot || r.Member.User.Bot
		}

		started, err := a.dispatcher.HandleReaction(context.Background(), dispatch.Reaction{
			GuildID:     r.GuildID,
			ChannelID:   r.ChannelID,
			MessageID:   r.MessageID,
			UserID:      r.UserID,
			DisplayName: displayName(r.Member, user),
			Emoji:       r.Emoji.Name,
			Bot:         bot,
		})
		if started {
			monitoring.TicketIntents.Inc()
		}
		if err != nil {
			a.Error("Error handling ticket intent",
				slog.String(logging.KeyGuildID, r.GuildID),
				slog.String(logging.KeyUserID, r.UserID),
				slog.String(logging.KeyError, err.Error()),
			)
		}
	}
}

// interactionHandler routes slash commands and the select menus of prompts.
func (a *App) interactionHandler(commands map[string]command) func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		switch i.Type {
		case discordgo.InteractionApplicationCommand:
			a.slashCommandHandler(context.Background(), i, commands)
		case discordgo.InteractionMessageComponent:
			a.componentHandler(s, i)
		}
	}
}

func (a *App) componentHandler(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.MessageComponentData()
	if !strings.HasPrefix(data.CustomID, conversation.SelectCustomIDPrefix) || len(data.Values) == 0 {
		return
	}

	userID := ""
	if i.Member != nil && i.Member.User != nil {
		userID = i.Member.User.ID
	} else if i.User != nil {
		userID = i.User.ID
	}

	messageID := ""
	if i.Message != nil {
		messageID = i.Message.ID
	}

	a.reg.DeliverChoice(i.ChannelID, messageID, userID, data.Values[0])

	// The menu is left as is, whoever picked.
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
	if err != nil {
		a.Error("Error acknowledging select menu",
			slog.String(logging.KeyChannelID, i.ChannelID),
			slog.String(logging.KeyError, err.Error()),
		)
	}
}
