package sqlstore

import (
	"context"
	"testing"
	"time"

	"github.com/Jacobbrewer1/supportdesk/pkg/custom"
	"github.com/Jacobbrewer1/supportdesk/pkg/dataaccess"
	"github.com/Jacobbrewer1/supportdesk/pkg/dataaccess/connection"
	"github.com/Jacobbrewer1/supportdesk/pkg/entities"
	"github.com/Jacobbrewer1/supportdesk/pkg/logging"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *dataaccess.Store {
	t.Helper()

	store, err := Open(logging.Discard(), &connection.SQL{
		Dialect: connection.DialectSqlite,
		DSN:     ":memory:",
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close(context.Background())
	})
	return store
}

func TestServerDal(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.Servers.GetServer(ctx, "1")
	require.ErrorIs(t, err, dataaccess.ErrNotFound)

	require.NoError(t, store.Servers.CreateServer(ctx, "1"))

	channel := "100"
	require.NoError(t, store.Servers.UpdateServer(ctx, "1", &entities.ServerPatch{TicketChannelID: &channel}))

	// Creating again must not reset what has been persisted.
	require.NoError(t, store.Servers.CreateServer(ctx, "1"))

	server, err := store.Servers.GetServer(ctx, "1")
	require.NoError(t, err)
	require.Equal(t, "100", server.TicketChannelID)
	require.False(t, server.SetupComplete)

	done := true
	require.NoError(t, store.Servers.UpdateServer(ctx, "1", &entities.ServerPatch{SetupComplete: &done}))
	server, err = store.Servers.GetServer(ctx, "1")
	require.NoError(t, err)
	require.True(t, server.SetupComplete)

	require.ErrorIs(t, store.Servers.UpdateServer(ctx, "2", &entities.ServerPatch{SetupComplete: &done}), dataaccess.ErrNotFound)

	deleted, err := store.Servers.DeleteServer(ctx, "1")
	require.NoError(t, err)
	require.Equal(t, "100", deleted.TicketChannelID)

	_, err = store.Servers.DeleteServer(ctx, "1")
	require.ErrorIs(t, err, dataaccess.ErrNotFound)
}

func TestSubjectDal(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, name := range []string{"Payments", "Account Access", "Bugs"} {
		require.NoError(t, store.Subjects.CreateSubject(ctx, &entities.Subject{
			ID:        name,
			ServerID:  "1",
			Name:      name,
			CreatedAt: custom.NewDatetime(base.Add(time.Duration(i) * time.Minute)),
		}))
	}

	err := store.Subjects.CreateSubject(ctx, &entities.Subject{ID: "dup", ServerID: "1", Name: "Bugs"})
	require.ErrorIs(t, err, dataaccess.ErrDuplicate)

	// The same name is allowed on another server.
	require.NoError(t, store.Subjects.CreateSubject(ctx, &entities.Subject{ID: "other", ServerID: "2", Name: "Bugs"}))

	subjects, err := store.Subjects.ListSubjects(ctx, "1")
	require.NoError(t, err)
	require.Len(t, subjects, 3)
	require.Equal(t, "Payments", subjects[0].Name)
	require.Equal(t, "Account Access", subjects[1].Name)
	require.Equal(t, "Bugs", subjects[2].Name)

	got, err := store.Subjects.GetSubjectByName(ctx, "1", "Bugs")
	require.NoError(t, err)
	require.Equal(t, "Bugs", got.ID)

	require.NoError(t, store.Subjects.DeleteSubject(ctx, "1", "Bugs"))
	require.ErrorIs(t, store.Subjects.DeleteSubject(ctx, "1", "Bugs"), dataaccess.ErrNotFound)

	require.NoError(t, store.Subjects.DeleteServerSubjects(ctx, "1"))
	subjects, err = store.Subjects.ListSubjects(ctx, "1")
	require.NoError(t, err)
	require.Empty(t, subjects)
}

func TestTicketDal(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	subject := "s1"

	ticket := &entities.Ticket{
		TicketID:  "t1",
		ChannelID: "c1",
		ServerID:  "1",
		SubjectID: &subject,
		AuthorID:  "u1",
		Status:    entities.TicketStatusOpen,
		CreatedAt: custom.NewDatetime(time.Now()),
	}
	require.NoError(t, store.Tickets.CreateTicket(ctx, ticket))

	dup := *ticket
	dup.TicketID = "t2"
	require.ErrorIs(t, store.Tickets.CreateTicket(ctx, &dup), dataaccess.ErrDuplicate)

	got, err := store.Tickets.GetOpenTicketByChannel(ctx, "c1")
	require.NoError(t, err)
	require.Equal(t, "u1", got.AuthorID)
	require.NotNil(t, got.SubjectID)
	require.Equal(t, "s1", *got.SubjectID)

	require.NoError(t, store.Tickets.MarkTicketClosed(ctx, "t1", "u1", custom.NewDatetime(time.Now())))
	_, err = store.Tickets.GetOpenTicketByChannel(ctx, "c1")
	require.ErrorIs(t, err, dataaccess.ErrNotFound)

	// Once closed, the channel no longer blocks a new open ticket.
	require.NoError(t, store.Tickets.CreateTicket(ctx, &dup))

	require.NoError(t, store.Tickets.DeleteTicket(ctx, "t2"))
	require.ErrorIs(t, store.Tickets.DeleteTicket(ctx, "t2"), dataaccess.ErrNotFound)
	require.ErrorIs(t, store.Tickets.MarkTicketClosed(ctx, "missing", "u1", custom.NewDatetime(time.Now())), dataaccess.ErrNotFound)

	require.NoError(t, store.Tickets.DeleteServerTickets(ctx, "1"))
}
