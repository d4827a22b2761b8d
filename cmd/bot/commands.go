package main

import (
	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/supportdesk/pkg/messages"
)

const (
	// setupCmdName runs the server setup conversation.
	setupCmdName = "setup"

	// resetCmdName removes the server configuration.
	resetCmdName = "reset"

	subjectAddCmdName    = "subjectadd"
	subjectListCmdName   = "subjectlist"
	subjectRemoveCmdName = "subjectremove"

	claimCmdName = "claim"
	closeCmdName = "close"

	// nameOptionName is the subject name option.
	nameOptionName = "name"

	// channelOptionName is the tag channel option. It accepts a channel ID or a link to the channel.
	channelOptionName = "channel"
)

var (
	permissionAdministrator int64 = discordgo.PermissionAdministrator
	permissionManageChannel int64 = discordgo.PermissionManageChannels
)

// slashCommands are the commands registered in every guild.
var slashCommands = []*discordgo.ApplicationCommand{
	{
		Name:                     setupCmdName,
		Type:                     discordgo.ChatApplicationCommand,
		Description:              "Set up the ticket system for this server.",
		DefaultMemberPermissions: &permissionAdministrator,
	},
	{
		Name:                     resetCmdName,
		Type:                     discordgo.ChatApplicationCommand,
		Description:              "Remove the ticket system configuration from this server.",
		DefaultMemberPermissions: &permissionAdministrator,
	},
	{
		Name:                     subjectAddCmdName,
		Type:                     discordgo.ChatApplicationCommand,
		Description:              "Add a ticket subject.",
		DefaultMemberPermissions: &permissionManageChannel,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        nameOptionName,
				Type:        discordgo.ApplicationCommandOptionString,
				Description: "The name of the subject.",
				Required:    true,
				MaxLength:   100,
			},
			{
				Name:        channelOptionName,
				Type:        discordgo.ApplicationCommandOptionString,
				Description: "The channel ID or link tagged with the subject.",
				Required:    false,
			},
		},
	},
	{
		Name:                     subjectListCmdName,
		Type:                     discordgo.ChatApplicationCommand,
		Description:              "List the ticket subjects.",
		DefaultMemberPermissions: &permissionManageChannel,
	},
	{
		Name:                     subjectRemoveCmdName,
		Type:                     discordgo.ChatApplicationCommand,
		Description:              "Remove a ticket subject.",
		DefaultMemberPermissions: &permissionManageChannel,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        nameOptionName,
				Type:        discordgo.ApplicationCommandOptionString,
				Description: "The name of the subject.",
				Required:    true,
			},
		},
	},
	{
		Name:        claimCmdName,
		Type:        discordgo.ChatApplicationCommand,
		Description: "Claim the ticket of this channel.",
	},
	{
		Name:        closeCmdName,
		Type:        discordgo.ChatApplicationCommand,
		Description: "Close the ticket of this channel.",
	},
}

// commandTable maps every slash command to its processor and gates.
func (a *App) commandTable() map[string]command {
	return map[string]command{
		setupCmdName: {
			processor:  a.setupCmd,
			permission: permissionAdministrator,
			denied:     messages.ErrNotAdministrator,
		},
		resetCmdName: {
			processor:  a.resetCmd,
			permission: permissionAdministrator,
			denied:     messages.ErrNotAdministrator,
		},
		subjectAddCmdName: {
			processor:     a.subjectAddCmd,
			permission:    permissionManageChannel,
			denied:        messages.ErrNotManager,
			requiresSetup: true,
		},
		subjectListCmdName: {
			processor:     a.subjectListCmd,
			permission:    permissionManageChannel,
			denied:        messages.ErrNotManager,
			requiresSetup: true,
		},
		subjectRemoveCmdName: {
			processor:     a.subjectRemoveCmd,
			permission:    permissionManageChannel,
			denied:        messages.ErrNotManager,
			requiresSetup: true,
		},
		claimCmdName: {
			processor:     a.claimCmd,
			requiresSetup: true,
		},
		closeCmdName: {
			processor:     a.closeCmd,
			requiresSetup: true,
		},
	}
}
