// Package dbtest opens migrated SQLite databases for repository tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/atelier/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/atelier/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/atelier/internal/shared/infrastructure/migrations"
)

// NewSQLite returns a connection to a fresh, fully migrated database file
// under t.TempDir(). The connection is closed on cleanup.
func NewSQLite(t *testing.T) database.Connection {
	t.Helper()

	ctx := context.Background()
	conn, err := database.Open(ctx, database.Config{
		Driver:     database.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "atelier.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, migrations.Run(ctx, conn))
	return conn
}
