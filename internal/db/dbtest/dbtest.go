// Package dbtest opens throwaway databases with the roster schema applied.
package dbtest

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"gymroster/internal/db"
)

// NewSQLite returns a migrated in-memory SQLite database that is closed
// when the test finishes.
func NewSQLite(t testing.TB) *sqlx.DB {
	t.Helper()

	conn, err := db.Connect(db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, db.RunMigrations(conn))
	return conn
}

// Exec runs seed statements written with ? placeholders.
func Exec(t testing.TB, conn *sqlx.DB, query string, args ...interface{}) {
	t.Helper()
	_, err := conn.Exec(conn.Rebind(query), args...)
	require.NoError(t, err)
}

// NopTx runs the callback directly, for service tests backed by mocks.
type NopTx struct{}

func (NopTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
