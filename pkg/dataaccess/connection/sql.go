package connection

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	// DialectPostgres is the postgres SQL dialect.
	DialectPostgres = "postgres"

	// DialectSqlite is the sqlite SQL dialect.
	DialectSqlite = "sqlite"
)

// SQL is the configuration of a relational database connection.
type SQL struct {
	// Dialect is either postgres or sqlite.
	Dialect string

	// DSN is the data source name. For sqlite this is a file path or ":memory:".
	DSN string

	// MaxOpenConns caps the connection pool. Zero keeps the driver default.
	MaxOpenConns int

	// Logger receives slow query and error logs.
	Logger *slog.Logger
}

// Connect opens the database and configures the pool.
func (s *SQL) Connect() (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch s.Dialect {
	case DialectPostgres:
		dialector = postgres.Open(s.DSN)
	case DialectSqlite:
		dialector = sqlite.Open(s.DSN)
	default:
		return nil, fmt.Errorf("unsupported sql dialect %q", s.Dialect)
	}

	cfg := &gorm.Config{
		Logger:         logger.Discard,
		TranslateError: true,
	}
	if s.Logger != nil {
		cfg.Logger = logger.New(slogWriter{l: s.Logger}, logger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		})
	}

	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, fmt.Errorf("error opening %s database: %w", s.Dialect, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("error getting sql pool: %w", err)
	}

	maxOpen := s.MaxOpenConns
	if s.Dialect == DialectSqlite {
		// A shared in-memory database only lives on one connection.
		maxOpen = 1
	}
	if maxOpen > 0 {
		sqlDB.SetMaxOpenConns(maxOpen)
	}

	return db, nil
}

// slogWriter adapts a slog logger to the gorm logger writer.
type slogWriter struct {
	l *slog.Logger
}

func (w slogWriter) Printf(format string, args ...any) {
	w.l.Warn(fmt.Sprintf(format, args...))
}
