package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog/log"

	"git-away/internal/config"
)

const migrationsTable = "gitaway_schema_migrations"

//go:embed migrations
var migrationsFS embed.FS

// MigrateUp applies every pending migration
func MigrateUp(cfg *config.DatabaseConfig) error {
	return runMigration(cfg, func(m *migrate.Migrate) error {
		return m.Up()
	})
}

// MigrateDown rolls back the most recent migration
func MigrateDown(cfg *config.DatabaseConfig) error {
	return runMigration(cfg, func(m *migrate.Migrate) error {
		return m.Steps(-1)
	})
}

// MigrationVersion reports the applied schema version
func MigrationVersion(cfg *config.DatabaseConfig) (uint, bool, error) {
	var (
		version uint
		dirty   bool
	)
	err := runMigration(cfg, func(m *migrate.Migrate) error {
		var err error
		version, dirty, err = m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			return nil
		}
		return err
	})
	return version, dirty, err
}

// runMigration opens a dedicated connection; migrate closes it together with the instance
func runMigration(cfg *config.DatabaseConfig, fn func(m *migrate.Migrate) error) error {
	dsn, err := dataSourceName(cfg)
	if err != nil {
		return err
	}

	src, err := iofs.New(migrationsFS, "migrations/"+cfg.Driver)
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	conn, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	var driver migratedb.Driver
	switch cfg.Driver {
	case DriverPostgres:
		driver, err = migratepg.WithInstance(conn, &migratepg.Config{MigrationsTable: migrationsTable})
	case DriverSQLite:
		driver, err = migratesqlite.WithInstance(conn, &migratesqlite.Config{MigrationsTable: migrationsTable})
	default:
		err = fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, cfg.Driver, driver)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			log.Warn().AnErr("source", srcErr).AnErr("database", dbErr).Msg("Failed to close migrator")
		}
	}()

	if err := fn(m); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}

	version, dirty, err := m.Version()
	if err == nil {
		log.Info().Str("driver", cfg.Driver).Uint("version", version).Bool("dirty", dirty).Msg("Database schema version")
	}
	return nil
}
