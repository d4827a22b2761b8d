package platform

import (
	"time"

	"github.com/Jacobbrewer1/discordgo"
)

// EmbedColour is the colour used for every embed the bot sends.
const EmbedColour = 0x5865F2

// Embed builds a message embed authored by the guild.
func Embed(guild *discordgo.Guild, title, description string, now time.Time) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       EmbedColour,
		Timestamp:   now.UTC().Format(time.RFC3339),
	}

	if guild != nil {
		e.Author = &discordgo.MessageEmbedAuthor{
			Name: guild.Name,
		}
		if guild.Icon != "" {
			e.Author.IconURL = discordgo.EndpointGuildIcon(guild.ID, guild.Icon)
		}
	}
	return e
}
