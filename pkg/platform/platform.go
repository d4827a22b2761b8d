// Package platform is the chat platform surface used by the ticket workflows.
package platform

import (
	"errors"

	"github.com/Jacobbrewer1/discordgo"
)

// ErrNotFound is returned when the platform reports that a guild, channel, role or user does not exist.
var ErrNotFound = errors.New("not found on platform")

// Client is the set of platform capabilities the workflows need. Each call is independent and may fail
// with a remote error.
type Client interface {
	// Guild returns the guild with the given ID.
	Guild(guildID string) (*discordgo.Guild, error)

	// Channel returns the channel with the given ID.
	Channel(channelID string) (*discordgo.Channel, error)

	// CreateChannel creates a channel or category in the guild.
	CreateChannel(guildID string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error)

	// RenameChannel changes the name of a channel.
	RenameChannel(channelID, name string) error

	// MoveChannel moves a channel under the given category.
	MoveChannel(channelID, parentID string) error

	// DeleteChannel deletes a channel or category.
	DeleteChannel(channelID string) error

	// CreateRole creates a role in the guild.
	CreateRole(guildID, name string) (*discordgo.Role, error)

	// DeleteRole deletes a role from the guild.
	DeleteRole(guildID, roleID string) error

	// Role returns the role of the guild with the given ID.
	Role(guildID, roleID string) (*discordgo.Role, error)

	// HasRole reports whether the member holds the role.
	HasRole(guildID, userID, roleID string) (bool, error)

	// User returns the user with the given ID.
	User(userID string) (*discordgo.User, error)

	// SendMessage posts a message and returns its ID.
	SendMessage(channelID string, msg *discordgo.MessageSend) (string, error)

	// SendDirectMessage posts a message in the direct message channel of the user.
	SendDirectMessage(userID string, msg *discordgo.MessageSend) error

	// React adds a reaction from the bot to the message.
	React(channelID, messageID, emoji string) error

	// RemoveReaction removes the reaction of the user from the message.
	RemoveReaction(channelID, messageID, emoji, userID string) error
}
