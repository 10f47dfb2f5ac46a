package booktest

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrations embed.FS

// MigrationsTable records the applied migration version.
const MigrationsTable = "schema_migrations"

// Migrate applies every pending migration of the variant to db.
func Migrate(db *sql.DB, variant Variant, logger *slog.Logger) error {
	return runMigrations(db, variant, logger, func(m *migrate.Migrate) error { return m.Up() })
}

// MigrateDown reverts every migration of the variant, dropping its tables.
func MigrateDown(db *sql.DB, variant Variant, logger *slog.Logger) error {
	return runMigrations(db, variant, logger, func(m *migrate.Migrate) error { return m.Down() })
}

func runMigrations(db *sql.DB, variant Variant, logger *slog.Logger, run func(*migrate.Migrate) error) error {
	if logger == nil {
		logger = slog.Default()
	}

	src, err := iofs.New(migrations, "migrations/"+string(variant))
	if err != nil {
		return fmt.Errorf("migration: open source %s: %w", variant, err)
	}
	defer func() {
		if err := src.Close(); err != nil {
			logger.Error("migration_source_close_failed", slog.Any("error", err))
		}
	}()

	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{MigrationsTable: MigrationsTable})
	if err != nil {
		return fmt.Errorf("migration: open database: %w", err)
	}

	// The migrator is not closed: closing it would close db, which the
	// caller owns.
	migrator, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("migration: failed to initialize: %w", err)
	}
	migrator.Log = &migrateLogger{logger: logger}

	currentVersion, isDirty, err := migrator.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("migration: failed to get current version: %w", err)
	}
	if isDirty {
		return fmt.Errorf("migration: database is in a dirty state at version %d", currentVersion)
	}

	logger.Info("migration_started",
		slog.String("variant", string(variant)),
		slog.Int("current_version", int(currentVersion)),
	)

	if err := run(migrator); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("migration_already_up_to_date")
			return nil
		}
		return fmt.Errorf("migration: %w", err)
	}

	newVersion, _, _ := migrator.Version()
	logger.Info("migration_successful",
		slog.Int("from_version", int(currentVersion)),
		slog.Int("to_version", int(newVersion)),
	)

	return nil
}

// migrateLogger adapts golang-migrate's logger interface to slog.
type migrateLogger struct {
	logger *slog.Logger
}

func (l *migrateLogger) Printf(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *migrateLogger) Verbose() bool {
	return l.logger.Enabled(context.Background(), slog.LevelDebug)
}
