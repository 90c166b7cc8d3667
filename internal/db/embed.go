package db

import "embed"

// EmbedMigrations contains the embedded SQL migration files for the dev/test
// admin and permissions schemas.
//
//go:embed migrations/admin/*.sql migrations/perms/*.sql
var EmbedMigrations embed.FS
