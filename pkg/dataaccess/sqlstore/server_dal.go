package sqlstore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/supportdesk/pkg/dataaccess"
	"github.com/Jacobbrewer1/supportdesk/pkg/entities"
	"github.com/Jacobbrewer1/supportdesk/pkg/logging"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	serverDalName = "server_dal"
	serversTable  = "servers"
)

type serverDal struct {
	// l is the logger.
	l *slog.Logger

	// db is the database.
	db *gorm.DB

	// dialect is the name of the SQL dialect, used as a metric label.
	dialect string
}

func newServerDal(l *slog.Logger, db *gorm.DB, dialect string) *serverDal {
	return &serverDal{
		l:       l.With(slog.String(logging.KeyDal, serverDalName)),
		db:      db,
		dialect: dialect,
	}
}

func (d *serverDal) GetServer(ctx context.Context, id string) (*entities.Server, error) {
	defer observe(serverDalName, "get_server", d.dialect, serversTable)()

	server := new(entities.Server)
	if err := d.db.WithContext(ctx).Where("id = ?", id).First(server).Error; err != nil {
		return nil, fmt.Errorf("error getting server: %w", translate(err))
	}
	return server, nil
}

func (d *serverDal) CreateServer(ctx context.Context, id string) error {
	defer observe(serverDalName, "create_server", d.dialect, serversTable)()

	err := d.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entities.Server{ID: id}).Error
	if err != nil {
		return fmt.Errorf("error creating server: %w", translate(err))
	}
	return nil
}

func (d *serverDal) UpdateServer(ctx context.Context, id string, patch *entities.ServerPatch) error {
	defer observe(serverDalName, "update_server", d.dialect, serversTable)()

	fields := patch.Fields()
	if len(fields) == 0 {
		return nil
	}

	res := d.db.WithContext(ctx).Model(&entities.Server{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("error updating server: %w", translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("error updating server: %w", dataaccess.ErrNotFound)
	}
	return nil
}

func (d *serverDal) DeleteServer(ctx context.Context, id string) (*entities.Server, error) {
	defer observe(serverDalName, "delete_server", d.dialect, serversTable)()

	server := new(entities.Server)
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(server).Error; err != nil {
			return err
		}
		return tx.Delete(&entities.Server{}, "id = ?", id).Error
	})
	if err != nil {
		return nil, fmt.Errorf("error deleting server: %w", translate(err))
	}
	return server, nil
}
