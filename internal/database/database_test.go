package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open("mysql", "whatever")
	require.Error(t, err)
}

func TestAutoMigrateSQLite(t *testing.T) {
	db, err := Open("sqlite", ":memory:")
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db, zap.NewNop()))

	for _, table := range []string{"users", "products", "verification_requests", "notifications"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestEmbeddedMigrations(t *testing.T) {
	migrations, err := Migrations()
	require.NoError(t, err)
	require.NotEmpty(t, migrations)
	assert.Equal(t, "001_init.sql", migrations[0].Name)
	assert.True(t, strings.Contains(migrations[0].SQL, "CREATE TABLE IF NOT EXISTS notifications"))
}
