package application

import (
	"context"
	"database/sql"
	"io/fs"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"
)

// NewMigrationManager applies the goose migrations in fsys (files at its root)
// to the database behind dsn.
func NewMigrationManager(fsys fs.FS, dsn string, logger *logrus.Logger) MigrationManager {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &migrationManager{fsys: fsys, dsn: dsn, logger: logger}
}

type migrationManager struct {
	fsys   fs.FS
	dsn    string
	logger *logrus.Logger
}

func (m *migrationManager) run(ctx context.Context, fn func(ctx context.Context, db *sql.DB) error) error {
	db, err := sql.Open("postgres", m.dsn)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			m.logger.WithError(cerr).Warn("failed to close migration connection")
		}
	}()
	if err := db.PingContext(ctx); err != nil {
		return err
	}

	goose.SetBaseFS(m.fsys)
	goose.SetLogger(m.logger)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return fn(ctx, db)
}

func (m *migrationManager) Up(ctx context.Context) error {
	return m.run(ctx, func(ctx context.Context, db *sql.DB) error {
		return goose.UpContext(ctx, db, ".")
	})
}

func (m *migrationManager) Down(ctx context.Context) error {
	return m.run(ctx, func(ctx context.Context, db *sql.DB) error {
		return goose.DownContext(ctx, db, ".")
	})
}

func (m *migrationManager) Status(ctx context.Context) error {
	return m.run(ctx, func(ctx context.Context, db *sql.DB) error {
		return goose.StatusContext(ctx, db, ".")
	})
}
