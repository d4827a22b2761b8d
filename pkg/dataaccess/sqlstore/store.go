// Package sqlstore implements the data access layers on a relational database through gorm.
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Jacobbrewer1/supportdesk/pkg/dataaccess"
	"github.com/Jacobbrewer1/supportdesk/pkg/dataaccess/connection"
	"github.com/Jacobbrewer1/supportdesk/pkg/dataaccess/monitoring"
	"github.com/Jacobbrewer1/supportdesk/pkg/entities"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

// New creates the gorm backed store.
func New(l *slog.Logger, db *gorm.DB) *dataaccess.Store {
	dialect := db.Dialector.Name()
	return &dataaccess.Store{
		Servers:  newServerDal(l, db, dialect),
		Subjects: newSubjectDal(l, db, dialect),
		Tickets:  newTicketDal(l, db, dialect),
		Ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return fmt.Errorf("error getting sql pool: %w", err)
			}
			defer observe("health_check", "ping", dialect, "-")()
			return sqlDB.PingContext(ctx)
		},
		Close: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return fmt.Errorf("error getting sql pool: %w", err)
			}
			return sqlDB.Close()
		},
	}
}

// AutoMigrate creates or updates the schema.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&entities.Server{}, &entities.Subject{}, &entities.Ticket{}); err != nil {
		return fmt.Errorf("error migrating schema: %w", err)
	}
	return nil
}

// observe starts the prometheus metrics of one query. The returned function stops the timer.
func observe(dal, query, dialect, table string) func() {
	monitoring.SqlTotalRequests.WithLabelValues(dal, query, dialect, table).Inc()
	t := prometheus.NewTimer(monitoring.SqlLatency.WithLabelValues(dal, query, dialect, table))
	return func() { t.ObserveDuration() }
}

// translate maps gorm and driver errors onto the dataaccess sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return dataaccess.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return fmt.Errorf("%w: %s", dataaccess.ErrDuplicate, err.Error())
	}
	return err
}

// isUniqueViolation catches unique violations from drivers that gorm does not translate.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}

// Open connects to the database described by cfg, migrates the schema and returns the store.
func Open(l *slog.Logger, cfg *connection.SQL) (*dataaccess.Store, error) {
	db, err := cfg.Connect()
	if err != nil {
		return nil, err
	}

	if err := AutoMigrate(db); err != nil {
		return nil, err
	}
	return New(l, db), nil
}
