package migrations_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/atelier/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/atelier/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/atelier/internal/shared/infrastructure/migrations"
)

func TestFiles(t *testing.T) {
	for _, driver := range []database.Driver{database.DriverSQLite, database.DriverPostgres} {
		t.Run(driver.String(), func(t *testing.T) {
			files, err := migrations.Files(driver)
			require.NoError(t, err)
			require.NotEmpty(t, files)
			assert.Equal(t, "001_initial_schema.up.sql", files[0])
		})
	}
}

func TestStatements(t *testing.T) {
	stmts := migrations.Statements("CREATE TABLE a (id TEXT);\n\n  CREATE INDEX b ON a (id);\n")

	assert.Equal(t, []string{"CREATE TABLE a (id TEXT)", "CREATE INDEX b ON a (id)"}, stmts)
	assert.Empty(t, migrations.Statements(" \n;\n"))
}

func TestRun(t *testing.T) {
	ctx := context.Background()
	conn, err := database.Open(ctx, database.Config{
		Driver:     database.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "migrate.db"),
	})
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	require.NoError(t, migrations.Run(ctx, conn))

	t.Run("creates every table", func(t *testing.T) {
		for _, table := range []string{"tasks", "task_templates", "daily_plans", "weekly_reviews", "timer_sessions", "outbox"} {
			var name string
			err := conn.QueryRow(ctx,
				`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
			).Scan(&name)
			require.NoError(t, err, table)
			assert.Equal(t, table, name)
		}
	})

	t.Run("records applied versions", func(t *testing.T) {
		var count int
		require.NoError(t, conn.QueryRow(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&count))
		assert.Equal(t, 1, count)
	})

	t.Run("is idempotent", func(t *testing.T) {
		require.NoError(t, migrations.Run(ctx, conn))

		var count int
		require.NoError(t, conn.QueryRow(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&count))
		assert.Equal(t, 1, count)
	})
}
