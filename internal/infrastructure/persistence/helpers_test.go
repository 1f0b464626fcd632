package persistence_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"git-away/internal/config"
	"git-away/internal/database"
	"git-away/internal/infrastructure/encryption"
)

// newTestDB opens a private in-memory SQLite database with the schema applied
func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	cfg := &config.DatabaseConfig{
		Driver:   database.DriverSQLite,
		DSN:      "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		MaxConns: 1,
		MinConns: 1,
	}

	db, err := database.NewConnection(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.MigrateUp(cfg))
	return db
}

func newTestCipher(t *testing.T) *encryption.EncryptionService {
	t.Helper()

	key, err := encryption.GenerateKey()
	require.NoError(t, err)
	svc, err := encryption.NewEncryptionService(config.EncryptionConfig{Key: key})
	require.NoError(t, err)
	return svc
}
