// Package db provides database connectivity helpers and migration support
// for the admin and permissions stores.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3" // sqlite driver registration

	"groupsync/internal/config"
)

// SQLite DSN parameters for local/dev hardening.
const (
	defaultBusyTimeout = "5000" // 5 seconds
	defaultSynchronous = "NORMAL"
	defaultJournalMode = "WAL"
)

// Collation used on both stores; matches the upstream schemas.
const mysqlCollation = "utf8mb4_unicode_ci"

// Open opens a *sql.DB for the given store profile and verifies it with a
// ping. The pool is sized for a single sequential reconciliation run.
func Open(p config.DBProfile) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)
	switch p.Driver {
	case config.DriverMySQL:
		db, err = openMySQL(p)
	case config.DriverSQLite:
		db, err = openSQLite(p.Path)
	default:
		return nil, fmt.Errorf("unknown driver %q", p.Driver)
	}
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	// Verify the connection is usable.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s (%s): %w", p.Driver, p.Name, err)
	}

	return db, nil
}

func openMySQL(p config.DBProfile) (*sql.DB, error) {
	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = p.Host
	cfg.DBName = p.Name
	cfg.User = p.User
	cfg.Passwd = p.Password
	cfg.Collation = mysqlCollation

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("open mysql %s: %w", p.Name, err)
	}
	return db, nil
}

func openSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	return db, nil
}

// sqliteDSN constructs a SQLite DSN with hardened parameters.
func sqliteDSN(path string) string {
	params := url.Values{}
	params.Set("_journal_mode", defaultJournalMode)
	params.Set("_busy_timeout", defaultBusyTimeout)
	params.Set("_synchronous", defaultSynchronous)
	params.Set("_foreign_keys", "on")
	params.Set("_txlock", "immediate")
	return path + "?" + params.Encode()
}
