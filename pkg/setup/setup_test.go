package setup

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/supportdesk/pkg/conversation"
	"github.com/Jacobbrewer1/supportdesk/pkg/custom"
	"github.com/Jacobbrewer1/supportdesk/pkg/dataaccess"
	"github.com/Jacobbrewer1/supportdesk/pkg/dataaccess/connection"
	"github.com/Jacobbrewer1/supportdesk/pkg/dataaccess/sqlstore"
	"github.com/Jacobbrewer1/supportdesk/pkg/entities"
	"github.com/Jacobbrewer1/supportdesk/pkg/logging"
	"github.com/Jacobbrewer1/supportdesk/pkg/messages"
	"github.com/Jacobbrewer1/supportdesk/pkg/platform/platformtest"
	"github.com/Jacobbrewer1/supportdesk/pkg/workflow"
	"github.com/stretchr/testify/require"
)

const (
	guildID        = "g1"
	adminChannel   = "admin-channel"
	adminID        = "admin"
	requestChannel = "123456789012345678"
	logChannel     = "223456789012345678"
)

// admin answers the wizard. Replies are consumed in order per question. A question without a reply is left
// unanswered.
type admin struct {
	mtx     sync.Mutex
	reg     *conversation.Registry
	replies map[string][]string
	asked   []string
}

func (a *admin) on(question string, replies ...string) {
	a.mtx.Lock()
	defer a.mtx.Unlock()

	a.replies[question] = append(a.replies[question], replies...)
}

func (a *admin) questions() []string {
	a.mtx.Lock()
	defer a.mtx.Unlock()

	return append([]string(nil), a.asked...)
}

func (a *admin) answer(sent platformtest.Sent) {
	if sent.ChannelID != adminChannel {
		return
	}

	question := sent.Message.Content
	choice := false
	if len(sent.Message.Embeds) > 0 {
		question = sent.Message.Embeds[0].Description
		choice = len(sent.Message.Embeds[0].Fields) > 0
	}

	a.mtx.Lock()
	a.asked = append(a.asked, question)
	pending := a.replies[question]
	if len(pending) == 0 {
		a.mtx.Unlock()
		return
	}
	reply := pending[0]
	a.replies[question] = pending[1:]
	a.mtx.Unlock()

	if choice {
		a.reg.DeliverChoice(sent.ChannelID, sent.MessageID, adminID, reply)
		return
	}
	a.reg.DeliverText(sent.ChannelID, adminID, reply)
}

type harness struct {
	ctx    context.Context
	store  *dataaccess.Store
	client *platformtest.Client
	admin  *admin
	wizard *Wizard
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	store, err := sqlstore.Open(logging.Discard(), &connection.SQL{
		Dialect: connection.DialectSqlite,
		DSN:     ":memory:",
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close(context.Background())
	})

	client := platformtest.New()
	client.AddGuild(guildID, "Guild")
	client.AddChannel(guildID, adminChannel, discordgo.ChannelTypeGuildText)
	client.AddChannel(guildID, requestChannel, discordgo.ChannelTypeGuildText)
	client.AddChannel(guildID, logChannel, discordgo.ChannelTypeGuildText)

	reg := conversation.NewRegistry()
	a := &admin{reg: reg, replies: make(map[string][]string)}
	client.OnSend = a.answer

	cfg := DefaultConfig()
	cfg.PromptTimeout = 50 * time.Millisecond
	cfg.ResetConfirmTimeout = 50 * time.Millisecond

	asker := conversation.NewAsker(logging.Discard(), client, reg, nil)
	return &harness{
		ctx:    context.Background(),
		store:  store,
		client: client,
		admin:  a,
		wizard: NewWizard(logging.Discard(), cfg, client, store, asker, "🎫"),
	}
}

func (h *harness) inv() Invocation {
	return Invocation{GuildID: guildID, ChannelID: adminChannel, UserID: adminID}
}

func (h *harness) answerEverything() {
	h.admin.on(messages.SetupTicketChannel, requestChannel)
	h.admin.on(messages.SetupLogChannel, logChannel)
	h.admin.on(messages.SetupRoleQuestion, emojiNewRole, emojiNewRole)
}

func (h *harness) server(t *testing.T) *entities.Server {
	t.Helper()

	server, err := h.store.Servers.GetServer(h.ctx, guildID)
	require.NoError(t, err)
	return server
}

func TestRun_EndToEnd(t *testing.T) {
	h := newHarness(t)
	h.answerEverything()

	res, err := h.wizard.Run(h.ctx, h.inv())
	require.NoError(t, err)
	require.Equal(t, ResultCompleted, res)

	server := h.server(t)
	require.True(t, server.Ready())
	require.Equal(t, requestChannel, server.TicketChannelID)
	require.Equal(t, logChannel, server.LogChannelID)

	categories := h.client.ChannelsOfType(discordgo.ChannelTypeGuildCategory)
	require.Len(t, categories, 2)
	names := []string{categories[0].Name, categories[1].Name}
	require.ElementsMatch(t, []string{UnclaimedCategoryName, ClaimedCategoryName}, names)

	helper, err := h.client.Role(guildID, server.HelperRoleID)
	require.NoError(t, err)
	require.Equal(t, HelperRoleName, helper.Name)
	moderator, err := h.client.Role(guildID, server.ModeratorRoleID)
	require.NoError(t, err)
	require.Equal(t, ModeratorRoleName, moderator.Name)

	posted, ok := h.client.LastMessage(requestChannel)
	require.True(t, ok)
	require.Equal(t, server.TicketMessageID, posted.MessageID)
	require.Equal(t, messages.TicketMessageTitle, posted.Message.Embeds[0].Title)

	var reacted bool
	for _, r := range h.client.Added() {
		if r.MessageID == server.TicketMessageID && r.Emoji == "🎫" {
			reacted = true
		}
	}
	require.True(t, reacted)

	// A second run must not change anything.
	messagesBefore := len(h.client.Messages)
	reactionsBefore := len(h.client.Added())
	channelsBefore := len(h.client.Channels)
	rolesBefore := len(h.client.Roles)

	res, err = h.wizard.Run(h.ctx, h.inv())
	require.NoError(t, err)
	require.Equal(t, ResultAlreadySetUp, res)
	require.Len(t, h.client.Messages, messagesBefore)
	require.Len(t, h.client.Added(), reactionsBefore)
	require.Len(t, h.client.Channels, channelsBefore)
	require.Len(t, h.client.Roles, rolesBefore)
	require.Equal(t, server, h.server(t))
}

func TestRun_ResumesAfterTimeout(t *testing.T) {
	h := newHarness(t)
	h.admin.on(messages.SetupTicketChannel, requestChannel)

	_, err := h.wizard.Run(h.ctx, h.inv())
	require.Error(t, err)
	require.True(t, workflow.IsTimeout(err))
	require.Contains(t, h.admin.questions(), messages.SetupTimeout)

	server := h.server(t)
	require.False(t, server.SetupComplete)
	require.Equal(t, requestChannel, server.TicketChannelID)
	require.Empty(t, server.LogChannelID)

	asked := len(h.admin.questions())
	h.admin.on(messages.SetupLogChannel, logChannel)
	h.admin.on(messages.SetupRoleQuestion, emojiNewRole, emojiNewRole)

	res, err := h.wizard.Run(h.ctx, h.inv())
	require.NoError(t, err)
	require.Equal(t, ResultCompleted, res)
	require.NotContains(t, h.admin.questions()[asked:], messages.SetupTicketChannel)
	require.True(t, h.server(t).Ready())
}

func TestRun_ResumesAfterRoleTimeout(t *testing.T) {
	h := newHarness(t)
	h.admin.on(messages.SetupTicketChannel, requestChannel)
	h.admin.on(messages.SetupLogChannel, logChannel)

	_, err := h.wizard.Run(h.ctx, h.inv())
	require.True(t, workflow.IsTimeout(err))
	require.Len(t, h.client.ChannelsOfType(discordgo.ChannelTypeGuildCategory), 2)

	h.admin.on(messages.SetupRoleQuestion, emojiNewRole, emojiNewRole)
	_, err = h.wizard.Run(h.ctx, h.inv())
	require.NoError(t, err)

	// The categories of the first run are reused.
	require.Len(t, h.client.ChannelsOfType(discordgo.ChannelTypeGuildCategory), 2)
}

func TestRun_ChannelValidation(t *testing.T) {
	h := newHarness(t)
	h.client.AddChannel(guildID, "333", discordgo.ChannelTypeGuildVoice)
	h.client.AddChannel("other-guild", "444", discordgo.ChannelTypeGuildText)

	h.admin.on(messages.SetupTicketChannel, "general", "333")
	h.admin.on(messages.SetupTicketChannel, "https://discord.com/channels/g1/"+requestChannel)
	h.admin.on(messages.SetupLogChannel, "444", logChannel)
	h.admin.on(messages.SetupRoleQuestion, emojiNewRole, emojiNewRole)

	_, err := h.wizard.Run(h.ctx, h.inv())
	require.NoError(t, err)

	asked := h.admin.questions()
	require.Contains(t, asked, messages.SetupChannelInvalid)
	require.Contains(t, asked, messages.SetupChannelNotText)
	require.Contains(t, asked, messages.SetupChannelNotFound)

	server := h.server(t)
	require.Equal(t, requestChannel, server.TicketChannelID)
	require.Equal(t, logChannel, server.LogChannelID)
}

func TestRun_TooManyAttempts(t *testing.T) {
	h := newHarness(t)
	h.admin.on(messages.SetupTicketChannel, "a", "b", "c")

	_, err := h.wizard.Run(h.ctx, h.inv())
	require.Error(t, err)
	require.Equal(t, workflow.KindValidation, workflow.KindOf(err))
	require.Equal(t, messages.SetupTooManyAttempts, workflow.UserMessage(err))

	server := h.server(t)
	require.Empty(t, server.TicketChannelID)
	require.Empty(t, h.client.ChannelsOfType(discordgo.ChannelTypeGuildCategory))
}

func TestRun_ExistingRoles(t *testing.T) {
	h := newHarness(t)
	h.client.AddRole(guildID, "777", "Support")
	h.client.AddRole(guildID, "888", "Mods")

	h.admin.on(messages.SetupTicketChannel, requestChannel)
	h.admin.on(messages.SetupLogChannel, logChannel)
	h.admin.on(messages.SetupRoleQuestion, emojiExistingRole, emojiExistingRole)
	h.admin.on("Please mention the role you want to use as the helper role", "<@&999>", "<@&777>")
	h.admin.on("Please mention the role you want to use as the moderator role", "888")

	_, err := h.wizard.Run(h.ctx, h.inv())
	require.NoError(t, err)
	require.Contains(t, h.admin.questions(), messages.SetupRoleNotFound)

	server := h.server(t)
	require.Equal(t, "777", server.HelperRoleID)
	require.Equal(t, "888", server.ModeratorRoleID)
	require.Len(t, h.client.Roles, 2)
}

func TestReset(t *testing.T) {
	h := newHarness(t)
	h.answerEverything()
	_, err := h.wizard.Run(h.ctx, h.inv())
	require.NoError(t, err)
	server := h.server(t)

	require.NoError(t, h.store.Subjects.CreateSubject(h.ctx, &entities.Subject{
		ID: "s1", ServerID: guildID, Name: "Payments", CreatedAt: custom.NewDatetime(time.Now()),
	}))

	h.admin.on("Are you sure you want to reset the server? Type `CONFIRM` to confirm", ResetConfirmation)
	h.admin.on(messages.ResetDeleteHelperRole, emojiYes)
	h.admin.on(messages.ResetDeleteModeratorRole, emojiNo)
	h.admin.on(messages.ResetDeleteUnclaimedCategory, emojiYes)
	h.admin.on(messages.ResetDeleteClaimedCategory, emojiYes)

	res, err := h.wizard.Reset(h.ctx, h.inv())
	require.NoError(t, err)
	require.Equal(t, ResultCompleted, res)

	_, err = h.store.Servers.GetServer(h.ctx, guildID)
	require.ErrorIs(t, err, dataaccess.ErrNotFound)

	subjects, err := h.store.Subjects.ListSubjects(h.ctx, guildID)
	require.NoError(t, err)
	require.Empty(t, subjects)

	require.Equal(t, []string{server.HelperRoleID}, h.client.DeletedRoles)
	require.ElementsMatch(t, []string{server.UnclaimedCategoryID, server.ClaimedCategoryID}, h.client.DeletedChannels)

	// The channels given by the administrator are kept.
	require.False(t, h.client.Deleted(requestChannel))
	require.False(t, h.client.Deleted(logChannel))
}

func TestReset_Cancelled(t *testing.T) {
	h := newHarness(t)
	h.answerEverything()
	_, err := h.wizard.Run(h.ctx, h.inv())
	require.NoError(t, err)

	h.admin.on("Are you sure you want to reset the server? Type `CONFIRM` to confirm", "confirm")

	res, err := h.wizard.Reset(h.ctx, h.inv())
	require.NoError(t, err)
	require.Equal(t, ResultCancelled, res)
	require.Contains(t, h.admin.questions(), messages.ResetCancelled)
	require.True(t, h.server(t).Ready())
}

func TestReset_Timeout(t *testing.T) {
	h := newHarness(t)
	h.answerEverything()
	_, err := h.wizard.Run(h.ctx, h.inv())
	require.NoError(t, err)

	_, err = h.wizard.Reset(h.ctx, h.inv())
	require.True(t, workflow.IsTimeout(err))
	require.Contains(t, h.admin.questions(), messages.ResetTimeout)
	require.True(t, h.server(t).Ready())
}

func TestReset_NotSetUp(t *testing.T) {
	h := newHarness(t)

	_, err := h.wizard.Reset(h.ctx, h.inv())
	require.Equal(t, workflow.KindPrecondition, workflow.KindOf(err))
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.MaxAttempts = 0
	require.Error(t, cfg.Validate())
}
