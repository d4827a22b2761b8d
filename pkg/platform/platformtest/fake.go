// Package platformtest provides an in-memory platform.Client for tests.
package platformtest

import (
	"fmt"
	"slices"
	"sync"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/supportdesk/pkg/platform"
)

// Sent is a message recorded by the fake.
type Sent struct {
	ChannelID string
	MessageID string
	Message   *discordgo.MessageSend
}

// DirectMessage is a direct message recorded by the fake.
type DirectMessage struct {
	UserID  string
	Message *discordgo.MessageSend
}

// Reaction is a reaction added or removed through the fake.
type Reaction struct {
	ChannelID string
	MessageID string
	Emoji     string
	UserID    string
}

// Client is a platform.Client that keeps everything in memory. The zero value is not usable, use New.
type Client struct {
	mtx sync.Mutex

	nextID int

	Guilds   map[string]*discordgo.Guild
	Channels map[string]*discordgo.Channel
	Roles    map[string]*discordgo.Role
	Users    map[string]*discordgo.User

	// MemberRoles maps a user ID to the role IDs it holds.
	MemberRoles map[string][]string

	Messages         []Sent
	DirectMessages   []DirectMessage
	Reactions        []Reaction
	RemovedReactions []Reaction
	DeletedChannels  []string
	DeletedRoles     []string
	Renamed          map[string]string
	Moved            map[string]string

	// Errors forces the named method to fail with the given error.
	Errors map[string]error

	// OnSend is called after every channel message is recorded, outside the lock.
	OnSend func(s Sent)
}

var _ platform.Client = (*Client)(nil)

// New returns an empty fake.
func New() *Client {
	return &Client{
		nextID:      1000,
		Guilds:      make(map[string]*discordgo.Guild),
		Channels:    make(map[string]*discordgo.Channel),
		Roles:       make(map[string]*discordgo.Role),
		Users:       make(map[string]*discordgo.User),
		MemberRoles: make(map[string][]string),
		Renamed:     make(map[string]string),
		Moved:       make(map[string]string),
		Errors:      make(map[string]error),
	}
}

func (c *Client) id() string {
	c.nextID++
	return fmt.Sprintf("%d", c.nextID)
}

func (c *Client) fail(method string) error {
	return c.Errors[method]
}

// AddGuild registers a guild.
func (c *Client) AddGuild(id, name string) *discordgo.Guild {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	g := &discordgo.Guild{ID: id, Name: name}
	c.Guilds[id] = g
	return g
}

// AddChannel registers a channel.
func (c *Client) AddChannel(guildID, id string, typ discordgo.ChannelType) *discordgo.Channel {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	ch := &discordgo.Channel{ID: id, GuildID: guildID, Type: typ, Name: id}
	c.Channels[id] = ch
	return ch
}

// AddRole registers a role.
func (c *Client) AddRole(guildID, id, name string) *discordgo.Role {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	r := &discordgo.Role{ID: id, Name: name}
	c.Roles[guildID+"/"+id] = r
	return r
}

// GrantRole gives the user the role.
func (c *Client) GrantRole(userID, roleID string) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	c.MemberRoles[userID] = append(c.MemberRoles[userID], roleID)
}

// LastMessage returns the latest message sent to the channel.
func (c *Client) LastMessage(channelID string) (Sent, bool) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].ChannelID == channelID {
			return c.Messages[i], true
		}
	}
	return Sent{}, false
}

// MessagesTo returns every message sent to the channel in order.
func (c *Client) MessagesTo(channelID string) []Sent {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	var out []Sent
	for _, m := range c.Messages {
		if m.ChannelID == channelID {
			out = append(out, m)
		}
	}
	return out
}

// DirectMessagesTo returns every direct message sent to the user in order.
func (c *Client) DirectMessagesTo(userID string) []DirectMessage {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	var out []DirectMessage
	for _, m := range c.DirectMessages {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out
}

// ChannelsOfType returns the registered channels of the type.
func (c *Client) ChannelsOfType(typ discordgo.ChannelType) []*discordgo.Channel {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	var out []*discordgo.Channel
	for _, ch := range c.Channels {
		if ch.Type == typ {
			out = append(out, ch)
		}
	}
	return out
}

// Deleted reports whether the channel was deleted.
func (c *Client) Deleted(channelID string) bool {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	return slices.Contains(c.DeletedChannels, channelID)
}

// Added returns the reactions added so far.
func (c *Client) Added() []Reaction {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	return slices.Clone(c.Reactions)
}

// Removed returns the reactions removed so far.
func (c *Client) Removed() []Reaction {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	return slices.Clone(c.RemovedReactions)
}

func (c *Client) Guild(guildID string) (*discordgo.Guild, error) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if err := c.fail("Guild"); err != nil {
		return nil, err
	}
	g, ok := c.Guilds[guildID]
	if !ok {
		return nil, platform.ErrNotFound
	}
	return g, nil
}

func (c *Client) Channel(channelID string) (*discordgo.Channel, error) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if err := c.fail("Channel"); err != nil {
		return nil, err
	}
	ch, ok := c.Channels[channelID]
	if !ok {
		return nil, platform.ErrNotFound
	}
	return ch, nil
}

func (c *Client) CreateChannel(guildID string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if err := c.fail("CreateChannel"); err != nil {
		return nil, err
	}

	ch := &discordgo.Channel{
		ID:                   c.id(),
		GuildID:              guildID,
		Name:                 data.Name,
		Type:                 data.Type,
		ParentID:             data.ParentID,
		PermissionOverwrites: data.PermissionOverwrites,
	}
	c.Channels[ch.ID] = ch
	return ch, nil
}

func (c *Client) RenameChannel(channelID, name string) error {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if err := c.fail("RenameChannel"); err != nil {
		return err
	}
	ch, ok := c.Channels[channelID]
	if !ok {
		return platform.ErrNotFound
	}
	ch.Name = name
	c.Renamed[channelID] = name
	return nil
}

func (c *Client) MoveChannel(channelID, parentID string) error {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if err := c.fail("MoveChannel"); err != nil {
		return err
	}
	ch, ok := c.Channels[channelID]
	if !ok {
		return platform.ErrNotFound
	}
	ch.ParentID = parentID
	c.Moved[channelID] = parentID
	return nil
}

func (c *Client) DeleteChannel(channelID string) error {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if err := c.fail("DeleteChannel"); err != nil {
		return err
	}
	if _, ok := c.Channels[channelID]; !ok {
		return platform.ErrNotFound
	}
	delete(c.Channels, channelID)
	c.DeletedChannels = append(c.DeletedChannels, channelID)
	return nil
}

func (c *Client) CreateRole(guildID, name string) (*discordgo.Role, error) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if err := c.fail("CreateRole"); err != nil {
		return nil, err
	}
	r := &discordgo.Role{ID: c.id(), Name: name}
	c.Roles[guildID+"/"+r.ID] = r
	return r, nil
}

func (c *Client) DeleteRole(guildID, roleID string) error {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if err := c.fail("DeleteRole"); err != nil {
		return err
	}
	key := guildID + "/" + roleID
	if _, ok := c.Roles[key]; !ok {
		return platform.ErrNotFound
	}
	delete(c.Roles, key)
	c.DeletedRoles = append(c.DeletedRoles, roleID)
	return nil
}

func (c *Client) Role(guildID, roleID string) (*discordgo.Role, error) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if err := c.fail("Role"); err != nil {
		return nil, err
	}
	r, ok := c.Roles[guildID+"/"+roleID]
	if !ok {
		return nil, platform.ErrNotFound
	}
	return r, nil
}

func (c *Client) HasRole(_, userID, roleID string) (bool, error) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if err := c.fail("HasRole"); err != nil {
		return false, err
	}
	return slices.Contains(c.MemberRoles[userID], roleID), nil
}

func (c *Client) User(userID string) (*discordgo.User, error) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if err := c.fail("User"); err != nil {
		return nil, err
	}
	u, ok := c.Users[userID]
	if !ok {
		return &discordgo.User{ID: userID, Username: "user" + userID}, nil
	}
	return u, nil
}

func (c *Client) SendMessage(channelID string, msg *discordgo.MessageSend) (string, error) {
	c.mtx.Lock()
	if err := c.fail("SendMessage"); err != nil {
		c.mtx.Unlock()
		return "", err
	}
	s := Sent{ChannelID: channelID, MessageID: c.id(), Message: msg}
	c.Messages = append(c.Messages, s)
	hook := c.OnSend
	c.mtx.Unlock()

	if hook != nil {
		hook(s)
	}
	return s.MessageID, nil
}

func (c *Client) SendDirectMessage(userID string, msg *discordgo.MessageSend) error {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if err := c.fail("SendDirectMessage"); err != nil {
		return err
	}
	c.DirectMessages = append(c.DirectMessages, DirectMessage{UserID: userID, Message: msg})
	return nil
}

func (c *Client) React(channelID, messageID, emoji string) error {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if err := c.fail("React"); err != nil {
		return err
	}
	c.Reactions = append(c.Reactions, Reaction{ChannelID: channelID, MessageID: messageID, Emoji: emoji})
	return nil
}

func (c *Client) RemoveReaction(channelID, messageID, emoji, userID string) error {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if err := c.fail("RemoveReaction"); err != nil {
		return err
	}
	c.RemovedReactions = append(c.RemovedReactions, Reaction{ChannelID: channelID, MessageID: messageID, Emoji: emoji, UserID: userID})
	return nil
}
