package sqlstore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/supportdesk/pkg/dataaccess"
	"github.com/Jacobbrewer1/supportdesk/pkg/entities"
	"github.com/Jacobbrewer1/supportdesk/pkg/logging"
	"gorm.io/gorm"
)

const (
	subjectDalName = "subject_dal"
	subjectsTable  = "subjects"
)

type subjectDal struct {
	// l is the logger.
	l *slog.Logger

	// db is the database.
	db *gorm.DB

	// dialect is the name of the SQL dialect, used as a metric label.
	dialect string
}

func newSubjectDal(l *slog.Logger, db *gorm.DB, dialect string) *subjectDal {
	return &subjectDal{
		l:       l.With(slog.String(logging.KeyDal, subjectDalName)),
		db:      db,
		dialect: dialect,
	}
}

func (d *subjectDal) ListSubjects(ctx context.Context, serverID string) ([]*entities.Subject, error) {
	defer observe(subjectDalName, "list_subjects", d.dialect, subjectsTable)()

	subjects := make([]*entities.Subject, 0)
	err := d.db.WithContext(ctx).
		Where("server_id = ?", serverID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&subjects).Error
	if err != nil {
		return nil, fmt.Errorf("error listing subjects: %w", translate(err))
	}
	return subjects, nil
}

func (d *subjectDal) GetSubjectByName(ctx context.Context, serverID, name string) (*entities.Subject, error) {
	defer observe(subjectDalName, "get_subject_by_name", d.dialect, subjectsTable)()

	subject := new(entities.Subject)
	err := d.db.WithContext(ctx).Where("server_id = ? AND name = ?", serverID, name).First(subject).Error
	if err != nil {
		return nil, fmt.Errorf("error getting subject: %w", translate(err))
	}
	return subject, nil
}

func (d *subjectDal) CreateSubject(ctx context.Context, subject *entities.Subject) error {
	defer observe(subjectDalName, "create_subject", d.dialect, subjectsTable)()

	if err := d.db.WithContext(ctx).Create(subject).Error; err != nil {
		return fmt.Errorf("error creating subject: %w", translate(err))
	}
	return nil
}

func (d *subjectDal) DeleteSubject(ctx context.Context, serverID, name string) error {
	defer observe(subjectDalName, "delete_subject", d.dialect, subjectsTable)()

	res := d.db.WithContext(ctx).Where("server_id = ? AND name = ?", serverID, name).Delete(&entities.Subject{})
	if res.Error != nil {
		return fmt.Errorf("error deleting subject: %w", translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("error deleting subject: %w", dataaccess.ErrNotFound)
	}
	return nil
}

func (d *subjectDal) DeleteServerSubjects(ctx context.Context, serverID string) error {
	defer observe(subjectDalName, "delete_server_subjects", d.dialect, subjectsTable)()

	if err := d.db.WithContext(ctx).Where("server_id = ?", serverID).Delete(&entities.Subject{}).Error; err != nil {
		return fmt.Errorf("error deleting subjects: %w", translate(err))
	}
	return nil
}
