// Package mongostore implements the data access layers on MongoDB.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/supportdesk/pkg/dataaccess"
	"github.com/Jacobbrewer1/supportdesk/pkg/dataaccess/connection"
	"github.com/Jacobbrewer1/supportdesk/pkg/dataaccess/monitoring"
	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	// DefaultDatabase is the database used when none is configured.
	DefaultDatabase = "supportdesk"

	serversCollection  = "servers"
	subjectsCollection = "subjects"
	ticketsCollection  = "tickets"
)

// New creates the mongo backed store.
func New(l *slog.Logger, client *mongo.Client, database string) *dataaccess.Store {
	if database == "" {
		database = DefaultDatabase
	}

	db := client.Database(database)
	return &dataaccess.Store{
		Servers:  newServerDal(l, db),
		Subjects: newSubjectDal(l, db),
		Tickets:  newTicketDal(l, db),
		Ping: func(ctx context.Context) error {
			return connection.Ping(ctx, client)
		},
		Close: client.Disconnect,
	}
}

// EnsureIndexes creates the indexes backing the uniqueness rules of the schema.
func EnsureIndexes(ctx context.Context, client *mongo.Client, database string) error {
	if database == "" {
		database = DefaultDatabase
	}
	db := client.Database(database)

	if _, err := db.Collection(serversCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("error creating servers index: %w", err)
	}

	if _, err := db.Collection(subjectsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "server_id", Value: 1}, {Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("error creating subjects index: %w", err)
	}

	if _, err := db.Collection(ticketsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "channel_id", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"status": "open"}),
	}); err != nil {
		return fmt.Errorf("error creating tickets index: %w", err)
	}
	return nil
}

// observe starts the prometheus metrics of one query. The returned function stops the timer.
func observe(dal, query, database, collection string) func() {
	monitoring.MongoTotalRequests.WithLabelValues(dal, query, database, collection).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(dal, query, database, collection))
	return func() { t.ObserveDuration() }
}

// translate maps driver errors onto the dataaccess sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return dataaccess.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %s", dataaccess.ErrDuplicate, err.Error())
	}
	return err
}
