package mongostore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/supportdesk/pkg/dataaccess"
	"github.com/Jacobbrewer1/supportdesk/pkg/entities"
	"github.com/Jacobbrewer1/supportdesk/pkg/logging"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const subjectDalName = "subject_dal"

type subjectDal struct {
	// l is the logger.
	l *slog.Logger

	// db is the database.
	db *mongo.Database
}

func newSubjectDal(l *slog.Logger, db *mongo.Database) *subjectDal {
	return &subjectDal{
		l:  l.With(slog.String(logging.KeyDal, subjectDalName)),
		db: db,
	}
}

func (d *subjectDal) collection() *mongo.Collection {
	return d.db.Collection(subjectsCollection)
}

func (d *subjectDal) ListSubjects(ctx context.Context, serverID string) ([]*entities.Subject, error) {
	defer observe(subjectDalName, "list_subjects", d.db.Name(), subjectsCollection)()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := d.collection().Find(ctx, bson.M{"server_id": serverID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing subjects: %w", translate(err))
	}

	subjects := make([]*entities.Subject, 0)
	if err := cur.All(ctx, &subjects); err != nil {
		return nil, fmt.Errorf("error decoding subjects: %w", err)
	}
	return subjects, nil
}

func (d *subjectDal) GetSubjectByName(ctx context.Context, serverID, name string) (*entities.Subject, error) {
	defer observe(subjectDalName, "get_subject_by_name", d.db.Name(), subjectsCollection)()

	subject := new(entities.Subject)
	err := d.collection().FindOne(ctx, bson.M{"server_id": serverID, "name": name}).Decode(subject)
	if err != nil {
		return nil, fmt.Errorf("error getting subject: %w", translate(err))
	}
	return subject, nil
}

func (d *subjectDal) CreateSubject(ctx context.Context, subject *entities.Subject) error {
	defer observe(subjectDalName, "create_subject", d.db.Name(), subjectsCollection)()

	if _, err := d.collection().InsertOne(ctx, subject); err != nil {
		return fmt.Errorf("error creating subject: %w", translate(err))
	}
	return nil
}

func (d *subjectDal) DeleteSubject(ctx context.Context, serverID, name string) error {
	defer observe(subjectDalName, "delete_subject", d.db.Name(), subjectsCollection)()

	res, err := d.collection().DeleteOne(ctx, bson.M{"server_id": serverID, "name": name})
	if err != nil {
		return fmt.Errorf("error deleting subject: %w", translate(err))
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("error deleting subject: %w", dataaccess.ErrNotFound)
	}
	return nil
}

func (d *subjectDal) DeleteServerSubjects(ctx context.Context, serverID string) error {
	defer observe(subjectDalName, "delete_server_subjects", d.db.Name(), subjectsCollection)()

	if _, err := d.collection().DeleteMany(ctx, bson.M{"server_id": serverID}); err != nil {
		return fmt.Errorf("error deleting subjects: %w", translate(err))
	}
	return nil
}
