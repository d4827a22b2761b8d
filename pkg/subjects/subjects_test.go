package subjects

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/supportdesk/pkg/dataaccess/connection"
	"github.com/Jacobbrewer1/supportdesk/pkg/dataaccess/sqlstore"
	"github.com/Jacobbrewer1/supportdesk/pkg/logging"
	"github.com/Jacobbrewer1/supportdesk/pkg/messages"
	"github.com/Jacobbrewer1/supportdesk/pkg/platform/platformtest"
	"github.com/Jacobbrewer1/supportdesk/pkg/workflow"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (*Service, *platformtest.Client) {
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
	svc := NewService(logging.Discard(), store.Subjects, client)

	// Distinct creation times keep the listing order deterministic.
	tick := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}
	return svc, client
}

func requireValidation(t *testing.T, err error, msg string) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, workflow.KindValidation, workflow.KindOf(err))
	require.Equal(t, msg, workflow.UserMessage(err))
}

func TestAdd(t *testing.T) {
	ctx := context.Background()
	svc, client := newService(t)
	client.AddChannel("g1", "555", discordgo.ChannelTypeGuildText)
	client.AddChannel("g2", "666", discordgo.ChannelTypeGuildText)

	subject, err := svc.Add(ctx, "g1", "  Payments ", "")
	require.NoError(t, err)
	require.Equal(t, "Payments", subject.Name)
	require.NotEmpty(t, subject.ID)

	_, err = svc.Add(ctx, "g1", "Payments", "")
	requireValidation(t, err, messages.SubjectExists)

	// Names are unique per server only.
	_, err = svc.Add(ctx, "g2", "Payments", "")
	require.NoError(t, err)

	_, err = svc.Add(ctx, "g1", "   ", "")
	requireValidation(t, err, messages.SubjectTooShort)

	_, err = svc.Add(ctx, "g1", strings.Repeat("a", 101), "")
	requireValidation(t, err, messages.SubjectTooLong)

	_, err = svc.Add(ctx, "g1", strings.Repeat("é", 100), "")
	require.NoError(t, err)

	subject, err = svc.Add(ctx, "g1", "Bugs", "https://discord.com/channels/g1/555")
	require.NoError(t, err)
	require.Equal(t, "555", subject.ChannelID)

	_, err = svc.Add(ctx, "g1", "Refunds", "not a channel")
	requireValidation(t, err, messages.SubjectChannelBad)

	_, err = svc.Add(ctx, "g1", "Refunds", "999")
	requireValidation(t, err, messages.SubjectChannelBad)

	_, err = svc.Add(ctx, "g1", "Refunds", "666")
	requireValidation(t, err, messages.SubjectChannelBad)
}

func TestList(t *testing.T) {
	ctx := context.Background()
	svc, client := newService(t)
	client.AddChannel("g1", "555", discordgo.ChannelTypeGuildText)

	_, err := svc.List(ctx, "g1")
	requireValidation(t, err, messages.SubjectNoneFound)

	_, err = svc.Add(ctx, "g1", "Payments", "")
	require.NoError(t, err)
	_, err = svc.Add(ctx, "g1", "Bugs", "<#555>")
	require.NoError(t, err)

	out, err := svc.List(ctx, "g1")
	require.NoError(t, err)
	require.Equal(t, "- Payments\n- Bugs - <#555>", out)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	err := svc.Remove(ctx, "g1", "Payments")
	requireValidation(t, err, messages.SubjectNotFound)

	_, err = svc.Add(ctx, "g1", "Payments", "")
	require.NoError(t, err)
	require.NoError(t, svc.Remove(ctx, "g1", "Payments"))

	_, err = svc.List(ctx, "g1")
	requireValidation(t, err, messages.SubjectNoneFound)
}
