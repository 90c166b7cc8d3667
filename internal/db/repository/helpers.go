// Package repository implements the domain repository interfaces over the
// admin and permissions relational stores.
package repository

import (
	"strings"

	"groupsync/internal/domain"
)

// groupPermissionPrefix encodes group membership as a permission string.
const groupPermissionPrefix = "group."

// groupPermission returns the grant-table permission string for a group.
func groupPermission(group string) string {
	return groupPermissionPrefix + group
}

// inPlaceholders returns "?, ?, ..., ?" with n placeholders, for IN-list
// expansion with a matching parameter count. n must be positive; callers
// guard the zero case.
func inPlaceholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// mapDBError translates driver errors into domain errors. Unique-constraint
// messages differ per driver, so this matches on text the way both the
// sqlite3 and mysql drivers render them.
func mapDBError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "Duplicate entry") {
		return domain.ErrConflict("grant already exists: %v", err)
	}
	return err
}
