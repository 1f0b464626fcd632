package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git-away/internal/config"
)

func TestMigrateUpAndDown(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Driver:   DriverSQLite,
		DSN:      filepath.Join(t.TempDir(), "nested", "gitaway.db"),
		MaxConns: 1,
		MinConns: 1,
	}

	db, err := NewConnection(cfg)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, MigrateUp(cfg))
	// a second run is a no-op
	require.NoError(t, MigrateUp(cfg))

	version, dirty, err := MigrationVersion(cfg)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	for _, table := range []string{"users", "accounts", "sessions"} {
		var name string
		err := db.GetConnection().QueryRowContext(context.Background(),
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = $1", table).Scan(&name)
		require.NoError(t, err, table)
	}

	require.NoError(t, MigrateDown(cfg))

	var count int
	err = db.GetConnection().QueryRowContext(context.Background(),
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'users'").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestDataSourceName(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.DatabaseConfig
		want string
	}{
		{"postgres unchanged", config.DatabaseConfig{Driver: DriverPostgres, DSN: "postgres://u:p@localhost/db"}, "postgres://u:p@localhost/db"},
		{"memory sqlite", config.DatabaseConfig{Driver: DriverSQLite, DSN: "file:t?mode=memory&cache=shared"}, "file:t?mode=memory&cache=shared&_foreign_keys=on"},
		{"explicit pragma kept", config.DatabaseConfig{Driver: DriverSQLite, DSN: "file:t?mode=memory&_foreign_keys=off"}, "file:t?mode=memory&_foreign_keys=off"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := dataSourceName(&tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := dataSourceName(&config.DatabaseConfig{Driver: "mysql"})
	assert.Error(t, err)
}
