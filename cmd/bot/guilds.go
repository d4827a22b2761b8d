package main

import (
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/supportdesk/cmd/bot/monitoring"
	"github.com/Jacobbrewer1/supportdesk/pkg/logging"
)

func (a *App) guildJoinedHandler() func(s *discordgo.Session, g *discordgo.GuildCreate) {
	return func(_ *discordgo.Session, g *discordgo.GuildCreate) {
		a.Info(fmt.Sprintf("Joined guild %s", g.Name), slog.String(logging.KeyGuildID, g.ID))

		// Increment the total number of guilds.
		monitoring.TotalDiscordGuilds.Inc()

		// Guilds joined while running need their commands too.
		if err := a.registerGuildCommands(g.ID); err != nil {
			a.Error("Error registering slash commands",
				slog.String(logging.KeyGuildID, g.ID),
				slog.String(logging.KeyError, err.Error()),
			)
		}
	}
}

func (a *App) guildLeaveHandler() func(s *discordgo.Session, g *discordgo.GuildDelete) {
	return func(_ *discordgo.Session, g *discordgo.GuildDelete) {
		if g.Unavailable {
			// An outage, not a removal.
			return
		}

		a.Info(fmt.Sprintf("Left guild %s", g.ID), slog.String(logging.KeyGuildID, g.ID))

		// Decrement the total number of guilds.
		monitoring.TotalDiscordGuilds.Dec()

		a.forgetGuildCommands(g.ID)
	}
}
