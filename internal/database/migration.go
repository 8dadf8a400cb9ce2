// internal/database/migration.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/go-faster/errors"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"

	"receipt-service/internal/config"
)

// PrintJobSchemaVersion is the last migration the job repository queries depend on
const PrintJobSchemaVersion uint = 1

// migrationsTable is golang-migrate's bookkeeping table for postgres
const migrationsTable = "schema_migrations"

var (
	ErrSchemaDirty    = errors.New("print job schema is dirty")
	ErrSchemaOutdated = errors.New("print job schema is older than the job repository")
)

// SchemaStatus describes the print_jobs schema of a database
type SchemaStatus struct {
	Version  uint `json:"version"`
	Dirty    bool `json:"dirty"`
	Required uint `json:"required"`
}

// Check reports whether the job repository can run against this schema.
// A failed migration leaves the schema dirty until it is repaired by hand.
func (s SchemaStatus) Check() error {
	if s.Dirty {
		return fmt.Errorf("%w at version %d", ErrSchemaDirty, s.Version)
	}
	if s.Version < s.Required {
		return fmt.Errorf("%w: version %d, need %d", ErrSchemaOutdated, s.Version, s.Required)
	}
	return nil
}

// Migrator applies the print job migrations
type Migrator struct {
	db     *DB
	logger *zap.Logger
	config *config.DatabaseConfig
}

// NewMigrator creates a new migrator instance
func NewMigrator(db *DB, logger *zap.Logger, config *config.DatabaseConfig) *Migrator {
	return &Migrator{
		db:     db,
		logger: logger,
		config: config,
	}
}

// Up applies pending migrations and refuses to continue on a schema the
// job repository cannot use
func (m *Migrator) Up() error {
	migrator, err := m.createMigrator()
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer migrator.Close()

	before, err := statusOf(migrator)
	if err != nil {
		return err
	}
	if before.Dirty {
		return before.Check()
	}

	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}

	after, err := statusOf(migrator)
	if err != nil {
		return err
	}
	if err := after.Check(); err != nil {
		return err
	}

	m.logger.Info("Print job schema ready",
		zap.Uint("from_version", before.Version),
		zap.Uint("to_version", after.Version),
	)
	return nil
}

func statusOf(migrator *migrate.Migrate) (SchemaStatus, error) {
	status := SchemaStatus{Required: PrintJobSchemaVersion}

	version, dirty, err := migrator.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return status, nil
	}
	if err != nil {
		return status, fmt.Errorf("failed to get schema version: %w", err)
	}

	status.Version, status.Dirty = version, dirty
	return status, nil
}

// Schema reads the print job schema status from the migrations table
func (db *DB) Schema(ctx context.Context) (SchemaStatus, error) {
	status := SchemaStatus{Required: PrintJobSchemaVersion}

	var version int64
	err := db.QueryRowContext(ctx, "SELECT version, dirty FROM "+migrationsTable+" LIMIT 1").Scan(&version, &status.Dirty)
	if errors.Is(err, sql.ErrNoRows) {
		return status, nil
	}
	if err != nil {
		return status, fmt.Errorf("failed to read schema version: %w", err)
	}

	status.Version = uint(version)
	return status, nil
}

func (m *Migrator) createMigrator() (*migrate.Migrate, error) {
	driver, err := postgres.WithInstance(m.db.DB, &postgres.Config{MigrationsTable: migrationsTable})
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	dir := m.config.MigrationsPath
	if dir == "" {
		dir = "migrations"
	}
	migrationsPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve migrations path: %w", err)
	}

	migrator, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrator: %w", err)
	}
	return migrator, nil
}
