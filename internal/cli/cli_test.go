package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestConfig points both stores at SQLite files in a temp dir.
func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	content := fmt.Sprintf(`
admin_db:
  driver: sqlite
  path: %s
permissions_db:
  driver: sqlite
  path: %s
log_level: error
schedule: "@every 1h"
`, filepath.Join(dir, "admin.sqlite"), filepath.Join(dir, "perms.sqlite"))

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCLI_MigrateSeedSyncAudit(t *testing.T) {
	cfg := writeTestConfig(t)
	base := []string{"--config", cfg, "--env-file", filepath.Join(t.TempDir(), "absent.env")}

	_, err := runCommand(t, append(base, "migrate")...)
	require.NoError(t, err)

	_, err = runCommand(t, append(base, "seed")...)
	require.NoError(t, err)

	// Dry run first: must not write anything, so the audit log stays empty.
	_, err = runCommand(t, append(base, "sync", "--dry-run")...)
	require.NoError(t, err)
	out, err := runCommand(t, append(base, "audit")...)
	require.NoError(t, err)
	assert.Empty(t, out)

	// Real run grants the two unfrozen seeded users.
	_, err = runCommand(t, append(base, "sync")...)
	require.NoError(t, err)

	out, err = runCommand(t, append(base, "audit")...)
	require.NoError(t, err)
	assert.Contains(t, out, "parent add mods")
	assert.Contains(t, out, "parent add helpers")
	assert.Contains(t, out, "alice")
	assert.NotContains(t, out, "mallory") // frozen user never granted

	// Second sync converges: no new audit entries.
	_, err = runCommand(t, append(base, "sync")...)
	require.NoError(t, err)
	again, err := runCommand(t, append(base, "audit")...)
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestCLI_SeedIdempotent(t *testing.T) {
	cfg := writeTestConfig(t)
	base := []string{"--config", cfg, "--env-file", filepath.Join(t.TempDir(), "absent.env")}

	_, err := runCommand(t, append(base, "migrate")...)
	require.NoError(t, err)
	_, err = runCommand(t, append(base, "seed")...)
	require.NoError(t, err)
	_, err = runCommand(t, append(base, "seed")...)
	require.NoError(t, err)
}

func TestCLI_MigrateRefusesMySQL(t *testing.T) {
	dir := t.TempDir()
	content := fmt.Sprintf(`
admin_db:
  host: db.example:3306
  name: adminmanager
  user: sync
permissions_db:
  driver: sqlite
  path: %s
`, filepath.Join(dir, "perms.sqlite"))
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	_, err := runCommand(t, "--config", path, "--env-file", filepath.Join(dir, "absent.env"), "migrate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only sqlite stores")
}

func TestCLI_BadConfigFails(t *testing.T) {
	_, err := runCommand(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"),
		"--env-file", filepath.Join(t.TempDir(), "absent.env"), "sync")
	require.Error(t, err)
}
