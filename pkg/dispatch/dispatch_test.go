package dispatch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Jacobbrewer1/supportdesk/pkg/dataaccess"
	"github.com/Jacobbrewer1/supportdesk/pkg/dataaccess/connection"
	"github.com/Jacobbrewer1/supportdesk/pkg/dataaccess/sqlstore"
	"github.com/Jacobbrewer1/supportdesk/pkg/entities"
	"github.com/Jacobbrewer1/supportdesk/pkg/logging"
	"github.com/Jacobbrewer1/supportdesk/pkg/platform/platformtest"
	"github.com/Jacobbrewer1/supportdesk/pkg/tickets"
	"github.com/stretchr/testify/require"
)

type fakeCreator struct {
	mtx   sync.Mutex
	calls []tickets.Reaction
	err   error
}

func (f *fakeCreator) Create(_ context.Context, _ *entities.Server, r tickets.Reaction) error {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	f.calls = append(f.calls, r)
	return f.err
}

func (f *fakeCreator) Emoji() string {
	return "🎫"
}

func newStore(t *testing.T) *dataaccess.Store {
	t.Helper()

	store, err := sqlstore.Open(logging.Discard(), &connection.SQL{
		Dialect: connection.DialectSqlite,
		DSN:     ":memory:",
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close(context.Background())
	})
	return store
}

func readyServer(t *testing.T, store *dataaccess.Store, id string) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, store.Servers.CreateServer(ctx, id))

	done := true
	ticketChannel, logChannel := "tc", "lc"
	unclaimed, claimed := "cu", "cc"
	message, helper, moderator := "tm", "hr", "mr"
	require.NoError(t, store.Servers.UpdateServer(ctx, id, &entities.ServerPatch{
		SetupComplete:       &done,
		TicketChannelID:     &ticketChannel,
		LogChannelID:        &logChannel,
		UnclaimedCategoryID: &unclaimed,
		ClaimedCategoryID:   &claimed,
		TicketMessageID:     &message,
		HelperRoleID:        &helper,
		ModeratorRoleID:     &moderator,
	}))
}

func intent(guildID, userID string) Reaction {
	return Reaction{
		GuildID:     guildID,
		ChannelID:   "tc",
		MessageID:   "tm",
		UserID:      userID,
		DisplayName: "name",
		Emoji:       "🎫",
	}
}

func TestHandleReaction_Filters(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	readyServer(t, store, "g1")

	// A server that has started but not finished the setup.
	require.NoError(t, store.Servers.CreateServer(ctx, "g2"))

	tests := []struct {
		name   string
		mutate func(r *Reaction)
	}{
		{name: "bot", mutate: func(r *Reaction) { r.Bot = true }},
		{name: "emoji", mutate: func(r *Reaction) { r.Emoji = "👍" }},
		{name: "message", mutate: func(r *Reaction) { r.MessageID = "other" }},
		{name: "channel", mutate: func(r *Reaction) { r.ChannelID = "other" }},
		{name: "unknown server", mutate: func(r *Reaction) { r.GuildID = "nope" }},
		{name: "setup incomplete", mutate: func(r *Reaction) { r.GuildID = "g2" }},
		{name: "direct message", mutate: func(r *Reaction) { r.GuildID = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creator := new(fakeCreator)
			d := NewDispatcher(logging.Discard(), store.Servers, platformtest.New(), creator, DefaultLimit())

			r := intent("g1", "u1")
			tt.mutate(&r)

			started, err := d.HandleReaction(ctx, r)
			require.NoError(t, err)
			require.False(t, started)
			require.Empty(t, creator.calls)
		})
	}
}

func TestHandleReaction_Intent(t *testing.T) {
	store := newStore(t)
	readyServer(t, store, "g1")

	creator := new(fakeCreator)
	d := NewDispatcher(logging.Discard(), store.Servers, platformtest.New(), creator, DefaultLimit())

	started, err := d.HandleReaction(context.Background(), intent("g1", "u1"))
	require.NoError(t, err)
	require.True(t, started)
	require.Len(t, creator.calls, 1)
	require.Equal(t, "u1", creator.calls[0].UserID)
	require.Equal(t, "tm", creator.calls[0].MessageID)
}

func TestHandleReaction_CreateError(t *testing.T) {
	store := newStore(t)
	readyServer(t, store, "g1")

	creator := &fakeCreator{err: errors.New("boom")}
	d := NewDispatcher(logging.Discard(), store.Servers, platformtest.New(), creator, DefaultLimit())

	started, err := d.HandleReaction(context.Background(), intent("g1", "u1"))
	require.Error(t, err)
	require.True(t, started)
}

func TestHandleReaction_RateLimited(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	readyServer(t, store, "g1")

	creator := new(fakeCreator)
	client := platformtest.New()
	d := NewDispatcher(logging.Discard(), store.Servers, client, creator, Limit{Interval: time.Hour, Burst: 3})

	for i := 0; i < 3; i++ {
		started, err := d.HandleReaction(ctx, intent("g1", "u1"))
		require.NoError(t, err)
		require.True(t, started)
	}

	started, err := d.HandleReaction(ctx, intent("g1", "u1"))
	require.NoError(t, err)
	require.False(t, started)
	require.Len(t, creator.calls, 3)

	removed := client.Removed()
	require.Len(t, removed, 1)
	require.Equal(t, "u1", removed[0].UserID)

	// Other users have their own allowance.
	started, err = d.HandleReaction(ctx, intent("g1", "u2"))
	require.NoError(t, err)
	require.True(t, started)
}

func TestHandleReaction_NoLimit(t *testing.T) {
	store := newStore(t)
	readyServer(t, store, "g1")

	creator := new(fakeCreator)
	d := NewDispatcher(logging.Discard(), store.Servers, platformtest.New(), creator, Limit{})

	for i := 0; i < 10; i++ {
		started, err := d.HandleReaction(context.Background(), intent("g1", "u1"))
		require.NoError(t, err)
		require.True(t, started)
	}
}
