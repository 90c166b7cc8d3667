package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenTestStores_SchemasApplied(t *testing.T) {
	adminDB, permsDB := OpenTestStores(t)
	ctx := context.Background()

	for _, table := range []string{"users", "groups"} {
		var n int
		err := adminDB.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n)
		require.NoError(t, err, "admin table %s", table)
		assert.Zero(t, n)
	}

	for _, table := range []string{"user_permissions", "actions", "players"} {
		var n int
		err := permsDB.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n)
		require.NoError(t, err, "perms table %s", table)
		assert.Zero(t, n)
	}
}

func TestRunMigrations_UnknownStore(t *testing.T) {
	adminDB, _ := OpenTestStores(t)
	require.Error(t, RunMigrations(adminDB, "nope"))
}

func TestRunMigrations_Idempotent(t *testing.T) {
	adminDB, _ := OpenTestStores(t)
	// Second run must be a no-op, not an error.
	require.NoError(t, RunMigrations(adminDB, StoreAdmin))
}
