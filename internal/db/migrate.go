package db

import (
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

// Store names accepted by RunMigrations.
const (
	StoreAdmin       = "admin"
	StorePermissions = "perms"
)

// RunMigrations executes all pending goose migrations for the named store
// against a SQLite database. Production MySQL stores are externally owned;
// migrations exist only to bootstrap local and test databases.
func RunMigrations(db *sql.DB, store string) error {
	if store != StoreAdmin && store != StorePermissions {
		return fmt.Errorf("unknown store %q", store)
	}

	goose.SetBaseFS(EmbedMigrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("goose set dialect: %w", err)
	}

	if err := goose.Up(db, "migrations/"+store); err != nil {
		return fmt.Errorf("goose up (%s): %w", store, err)
	}

	return nil
}
