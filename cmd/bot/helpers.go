package main

import (
	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/supportdesk/pkg/messages"
	"github.com/Jacobbrewer1/supportdesk/pkg/workflow"
)

// errorResponse returns the reply for a failed command and whether the failure should be logged as an error.
// An empty reply means the interaction is dismissed silently.
func errorResponse(err error) (string, bool) {
	switch workflow.KindOf(err) {
	case workflow.KindValidation:
		if msg := workflow.UserMessage(err); msg != "" {
			return msg, false
		}
		return messages.ErrUserErrorProcessing, true
	case workflow.KindTimeout:
		// The user has already been told in the conversation channel.
		return "", false
	case workflow.KindPrecondition:
		return "", false
	default:
		return messages.ErrUserErrorProcessing, true
	}
}

// optionString returns the string value of the named option, or the empty string.
func optionString(options []*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	for _, o := range options {
		if o.Name == name && o.Type == discordgo.ApplicationCommandOptionString {
			return o.StringValue()
		}
	}
	return ""
}

// displayName is the name shown for the member in the guild.
func displayName(m *discordgo.Member, u *discordgo.User) string {
	if m != nil && m.Nick != "" {
		return m.Nick
	} else if m != nil && m.User != nil {
		return m.User.Username
	} else if u != nil {
		return u.Username
	}
	return ""
}
