package persistence

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/grocery-service/migrations"
)

func TestMigrationFiles_SortedSQLOnly(t *testing.T) {
	fsys := fstest.MapFS{
		"002_orders.sql": {Data: []byte("SELECT 2;")},
		"001_init.sql":   {Data: []byte("SELECT 1;")},
		"README.md":      {Data: []byte("docs")},
		"seed/003.sql":   {Data: []byte("SELECT 3;")},
	}

	names, err := migrationFiles(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_init.sql", "002_orders.sql"}, names)
}

func TestEmbeddedMigrationsPresent(t *testing.T) {
	names, err := migrationFiles(migrations.FS)
	require.NoError(t, err)
	assert.Contains(t, names, "001_init.sql")
}

func TestRunMigrations_NoPool(t *testing.T) {
	err := RunMigrations(context.Background(), nil, fstest.MapFS{}, zap.NewNop())
	assert.NoError(t, err)
}
