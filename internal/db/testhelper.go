package db

import (
	"database/sql"
	"path/filepath"
	"testing"

	"groupsync/internal/config"
)

// OpenTestStores opens a SQLite admin store and permissions store in
// t.TempDir(), runs the dev schema migrations on both, and registers cleanup.
func OpenTestStores(t *testing.T) (adminDB, permsDB *sql.DB) {
	t.Helper()

	adminDB = openTestStore(t, filepath.Join(t.TempDir(), "admin.sqlite"), StoreAdmin)
	permsDB = openTestStore(t, filepath.Join(t.TempDir(), "perms.sqlite"), StorePermissions)
	return adminDB, permsDB
}

func openTestStore(t *testing.T, path, store string) *sql.DB {
	t.Helper()

	sdb, err := Open(config.DBProfile{Driver: config.DriverSQLite, Path: path})
	if err != nil {
		t.Fatalf("open test store %s: %v", store, err)
	}
	t.Cleanup(func() {
		_ = sdb.Close()
	})

	if err := RunMigrations(sdb, store); err != nil {
		t.Fatalf("run migrations (%s): %v", store, err)
	}

	return sdb
}
