package mongostore

import (
	"context"
	"testing"

	"github.com/Jacobbrewer1/supportdesk/pkg/dataaccess"
	"github.com/Jacobbrewer1/supportdesk/pkg/entities"
	"github.com/Jacobbrewer1/supportdesk/pkg/logging"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const testDatabase = "supportdesk_test"

func TestServerDal(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("get found", func(mt *mtest.T) {
		store := New(logging.Discard(), mt.Client, testDatabase)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testDatabase+"."+serversCollection, mtest.FirstBatch, bson.D{
			{Key: "id", Value: "1"},
			{Key: "setup_complete", Value: true},
			{Key: "ticket_channel_id", Value: "2"},
		}))

		server, err := store.Servers.GetServer(context.Background(), "1")
		require.NoError(t, err)
		require.Equal(t, "1", server.ID)
		require.True(t, server.SetupComplete)
		require.Equal(t, "2", server.TicketChannelID)
	})

	mt.Run("get not found", func(mt *mtest.T) {
		store := New(logging.Discard(), mt.Client, testDatabase)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testDatabase+"."+serversCollection, mtest.FirstBatch))

		_, err := store.Servers.GetServer(context.Background(), "1")
		require.ErrorIs(t, err, dataaccess.ErrNotFound)
	})

	mt.Run("update missing server", func(mt *mtest.T) {
		store := New(logging.Discard(), mt.Client, testDatabase)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		id := "3"
		err := store.Servers.UpdateServer(context.Background(), "1", &entities.ServerPatch{LogChannelID: &id})
		require.ErrorIs(t, err, dataaccess.ErrNotFound)
	})

	mt.Run("update empty patch", func(mt *mtest.T) {
		store := New(logging.Discard(), mt.Client, testDatabase)
		require.NoError(t, store.Servers.UpdateServer(context.Background(), "1", &entities.ServerPatch{}))
	})

	mt.Run("delete returns the deleted server", func(mt *mtest.T) {
		store := New(logging.Discard(), mt.Client, testDatabase)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "id", Value: "1"},
			{Key: "helper_role_id", Value: "7"},
		}}))

		server, err := store.Servers.DeleteServer(context.Background(), "1")
		require.NoError(t, err)
		require.Equal(t, "7", server.HelperRoleID)
	})
}

func TestSubjectDal(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("list", func(mt *mtest.T) {
		store := New(logging.Discard(), mt.Client, testDatabase)
		ns := testDatabase + "." + subjectsCollection
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "id", Value: "a"}, {Key: "server_id", Value: "1"}, {Key: "name", Value: "Payments"}},
			bson.D{{Key: "id", Value: "b"}, {Key: "server_id", Value: "1"}, {Key: "name", Value: "Bugs"}},
		))

		subjects, err := store.Subjects.ListSubjects(context.Background(), "1")
		require.NoError(t, err)
		require.Len(t, subjects, 2)
		require.Equal(t, "Payments", subjects[0].Name)
		require.Equal(t, "Bugs", subjects[1].Name)
	})

	mt.Run("create duplicate", func(mt *mtest.T) {
		store := New(logging.Discard(), mt.Client, testDatabase)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		err := store.Subjects.CreateSubject(context.Background(), &entities.Subject{ID: "a", ServerID: "1", Name: "Payments"})
		require.ErrorIs(t, err, dataaccess.ErrDuplicate)
	})

	mt.Run("delete missing", func(mt *mtest.T) {
		store := New(logging.Discard(), mt.Client, testDatabase)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		err := store.Subjects.DeleteSubject(context.Background(), "1", "Payments")
		require.ErrorIs(t, err, dataaccess.ErrNotFound)
	})
}

func TestTicketDal(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("get open ticket", func(mt *mtest.T) {
		store := New(logging.Discard(), mt.Client, testDatabase)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testDatabase+"."+ticketsCollection, mtest.FirstBatch, bson.D{
			{Key: "ticket_id", Value: "t1"},
			{Key: "channel_id", Value: "c1"},
			{Key: "author_id", Value: "u1"},
			{Key: "status", Value: "open"},
			{Key: "subject_id", Value: nil},
		}))

		ticket, err := store.Tickets.GetOpenTicketByChannel(context.Background(), "c1")
		require.NoError(t, err)
		require.Equal(t, "t1", ticket.TicketID)
		require.Nil(t, ticket.SubjectID)
		require.True(t, ticket.IsOpen())
	})

	mt.Run("create", func(mt *mtest.T) {
		store := New(logging.Discard(), mt.Client, testDatabase)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		err := store.Tickets.CreateTicket(context.Background(), &entities.Ticket{
			TicketID:  "t1",
			ChannelID: "c1",
			ServerID:  "1",
			AuthorID:  "u1",
			Status:    entities.TicketStatusOpen,
		})
		require.NoError(t, err)
	})
}
