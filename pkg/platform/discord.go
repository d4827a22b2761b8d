package platform

import (
	"errors"
	"fmt"
	"net/http"
	"slices"

	"github.com/Jacobbrewer1/discordgo"
)

// Discord is the Client backed by a discordgo session.
type Discord struct {
	s *discordgo.Session
}

// NewDiscord wraps the session.
func NewDiscord(s *discordgo.Session) *Discord {
	return &Discord{s: s}
}

func (d *Discord) Guild(guildID string) (*discordgo.Guild, error) {
	if g, err := d.s.State.Guild(guildID); err == nil {
		return g, nil
	}

	g, err := d.s.Guild(guildID)
	if err != nil {
		return nil, translate(fmt.Errorf("error getting guild: %w", err))
	}
	return g, nil
}

func (d *Discord) Channel(channelID string) (*discordgo.Channel, error) {
	if c, err := d.s.State.Channel(channelID); err == nil {
		return c, nil
	}

	c, err := d.s.Channel(channelID)
	if err != nil {
		return nil, translate(fmt.Errorf("error getting channel: %w", err))
	}
	return c, nil
}

func (d *Discord) CreateChannel(guildID string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error) {
	c, err := d.s.GuildChannelCreateComplex(guildID, data)
	if err != nil {
		return nil, translate(fmt.Errorf("error creating channel: %w", err))
	}
	return c, nil
}

func (d *Discord) RenameChannel(channelID, name string) error {
	_, err := d.s.ChannelEditComplex(channelID, &discordgo.ChannelEdit{
		Name: name,
	})
	if err != nil {
		return translate(fmt.Errorf("error renaming channel: %w", err))
	}
	return nil
}

func (d *Discord) MoveChannel(channelID, parentID string) error {
	_, err := d.s.ChannelEditComplex(channelID, &discordgo.ChannelEdit{
		ParentID: parentID,
	})
	if err != nil {
		return translate(fmt.Errorf("error moving channel: %w", err))
	}
	return nil
}

func (d *Discord) DeleteChannel(channelID string) error {
	if _, err := d.s.ChannelDelete(channelID); err != nil {
		return translate(fmt.Errorf("error deleting channel: %w", err))
	}
	return nil
}

func (d *Discord) CreateRole(guildID, name string) (*discordgo.Role, error) {
	mentionable := true
	r, err := d.s.GuildRoleCreate(guildID, &discordgo.RoleParams{
		Name:        name,
		Mentionable: &mentionable,
	})
	if err != nil {
		return nil, translate(fmt.Errorf("error creating role: %w", err))
	}
	return r, nil
}

func (d *Discord) DeleteRole(guildID, roleID string) error {
	if err := d.s.GuildRoleDelete(guildID, roleID); err != nil {
		return translate(fmt.Errorf("error deleting role: %w", err))
	}
	return nil
}

func (d *Discord) Role(guildID, roleID string) (*discordgo.Role, error) {
	if r, err := d.s.State.Role(guildID, roleID); err == nil {
		return r, nil
	}

	roles, err := d.s.GuildRoles(guildID)
	if err != nil {
		return nil, translate(fmt.Errorf("error getting roles: %w", err))
	}

	for _, r := range roles {
		if r.ID == roleID {
			return r, nil
		}
	}
	return nil, ErrNotFound
}

func (d *Discord) HasRole(guildID, userID, roleID string) (bool, error) {
	m, err := d.s.GuildMember(guildID, userID)
	if err != nil {
		return false, translate(fmt.Errorf("error getting member: %w", err))
	}
	return slices.Contains(m.Roles, roleID), nil
}

func (d *Discord) User(userID string) (*discordgo.User, error) {
	u, err := d.s.User(userID)
	if err != nil {
		return nil, translate(fmt.Errorf("error getting user: %w", err))
	}
	return u, nil
}

func (d *Discord) SendMessage(channelID string, msg *discordgo.MessageSend) (string, error) {
	m, err := d.s.ChannelMessageSendComplex(channelID, msg)
	if err != nil {
		return "", translate(fmt.Errorf("error sending message: %w", err))
	}
	return m.ID, nil
}

func (d *Discord) SendDirectMessage(userID string, msg *discordgo.MessageSend) error {
	c, err := d.s.UserChannelCreate(userID)
	if err != nil {
		return translate(fmt.Errorf("error opening direct message channel: %w", err))
	}

	if _, err := d.s.ChannelMessageSendComplex(c.ID, msg); err != nil {
		return translate(fmt.Errorf("error sending direct message: %w", err))
	}
	return nil
}

func (d *Discord) React(channelID, messageID, emoji string) error {
	if err := d.s.MessageReactionAdd(channelID, messageID, emoji); err != nil {
		return translate(fmt.Errorf("error adding reaction: %w", err))
	}
	return nil
}

func (d *Discord) RemoveReaction(channelID, messageID, emoji, userID string) error {
	if err := d.s.MessageReactionRemove(channelID, messageID, emoji, userID); err != nil {
		return translate(fmt.Errorf("error removing reaction: %w", err))
	}
	return nil
}

// translate marks errors for missing resources with ErrNotFound, keeping the original error in the chain.
func translate(err error) error {
	er := new(discordgo.RESTError)
	if !errors.As(err, &er) {
		return err
	}

	notFound := er.Response != nil && er.Response.StatusCode == http.StatusNotFound
	if er.Message != nil {
		switch er.Message.Code {
		case discordgo.ErrCodeUnknownChannel, discordgo.ErrCodeUnknownGuild, discordgo.ErrCodeUnknownRole,
			discordgo.ErrCodeUnknownUser, discordgo.ErrCodeUnknownMember, discordgo.ErrCodeUnknownMessage:
			notFound = true
		}
	}

	if notFound {
		return errors.Join(ErrNotFound, err)
	}
	return err
}
