package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"groupsync/internal/domain"
)

func TestAuditRepo_List(t *testing.T) {
	repo, db := setupPermissionRepo(t)
	ctx := context.Background()

	tx, err := repo.Begin(ctx)
	require.NoError(t, err)
	_, err = tx.AddMembers(ctx, "mods", []string{"uuid-a"})
	require.NoError(t, err)
	_, err = tx.RemoveMembers(ctx, "helpers", []string{"uuid-b"})
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	entries, err := NewAuditRepo(db).List(ctx, 10)
	require.NoError(t, err)

	// Newest first.
	require.Len(t, entries, 2)
	assert.Equal(t, "parent remove helpers", entries[0].Action)
	assert.Equal(t, "uuid-b", entries[0].ActedUUID)
	assert.Equal(t, "parent add mods", entries[1].Action)
	assert.Equal(t, "uuid-a", entries[1].ActedUUID)
}

func TestAuditRepo_List_Limit(t *testing.T) {
	repo, db := setupPermissionRepo(t)
	ctx := context.Background()

	tx, err := repo.Begin(ctx)
	require.NoError(t, err)
	_, err = tx.AddMembers(ctx, "mods", []string{"uuid-a", "uuid-b", "uuid-c"})
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	entries, err := NewAuditRepo(db).List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	_, err = NewAuditRepo(db).List(ctx, 0)
	require.Error(t, err)
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}
