package mongostore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/supportdesk/pkg/dataaccess"
	"github.com/Jacobbrewer1/supportdesk/pkg/entities"
	"github.com/Jacobbrewer1/supportdesk/pkg/logging"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const serverDalName = "server_dal"

type serverDal struct {
	// l is the logger.
	l *slog.Logger

	// db is the database.
	db *mongo.Database
}

func newServerDal(l *slog.Logger, db *mongo.Database) *serverDal {
	return &serverDal{
		l:  l.With(slog.String(logging.KeyDal, serverDalName)),
		db: db,
	}
}

func (d *serverDal) collection() *mongo.Collection {
	return d.db.Collection(serversCollection)
}

func (d *serverDal) GetServer(ctx context.Context, id string) (*entities.Server, error) {
	defer observe(serverDalName, "get_server", d.db.Name(), serversCollection)()

	server := new(entities.Server)
	if err := d.collection().FindOne(ctx, bson.M{"id": id}).Decode(server); err != nil {
		return nil, fmt.Errorf("error getting server: %w", translate(err))
	}
	return server, nil
}

func (d *serverDal) CreateServer(ctx context.Context, id string) error {
	defer observe(serverDalName, "create_server", d.db.Name(), serversCollection)()

	// Only the defaults are written on insert, an existing row is left untouched.
	opts := options.Update().SetUpsert(true)
	_, err := d.collection().UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$setOnInsert": &entities.Server{ID: id}},
		opts,
	)
	if err != nil {
		return fmt.Errorf("error creating server: %w", translate(err))
	}
	return nil
}

func (d *serverDal) UpdateServer(ctx context.Context, id string, patch *entities.ServerPatch) error {
	defer observe(serverDalName, "update_server", d.db.Name(), serversCollection)()

	fields := patch.Fields()
	if len(fields) == 0 {
		return nil
	}

	res, err := d.collection().UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M(fields)})
	if err != nil {
		return fmt.Errorf("error updating server: %w", translate(err))
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("error updating server: %w", dataaccess.ErrNotFound)
	}
	return nil
}

func (d *serverDal) DeleteServer(ctx context.Context, id string) (*entities.Server, error) {
	defer observe(serverDalName, "delete_server", d.db.Name(), serversCollection)()

	server := new(entities.Server)
	err := d.collection().FindOneAndDelete(ctx, bson.M{"id": id}).Decode(server)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			d.l.Debug("Server to delete does not exist", slog.String(logging.KeyGuildID, id))
		}
		return nil, fmt.Errorf("error deleting server: %w", translate(err))
	}
	return server, nil
}
