package repository

import (
	"context"
	"database/sql"
	"fmt"

	"groupsync/internal/domain"
)

var _ domain.AuditRepository = (*AuditRepo)(nil)

// AuditRepo reads the permissions store's action log. Writes happen inside
// membershipTx so they share the mutation transaction.
type AuditRepo struct {
	db *sql.DB
}

// NewAuditRepo creates a new AuditRepo.
func NewAuditRepo(db *sql.DB) *AuditRepo {
	return &AuditRepo{db: db}
}

const listActionsQuery = `
	SELECT time, actor_uuid, actor_name, type, acted_uuid, acted_name, action
		FROM actions
		ORDER BY id DESC
		LIMIT ?`

// List returns the most recent audit entries, newest first.
func (r *AuditRepo) List(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	if limit <= 0 {
		return nil, domain.ErrValidation("limit must be positive, got %d", limit)
	}

	rows, err := r.db.QueryContext(ctx, listActionsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("query actions: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var entries []domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		if err := rows.Scan(&e.Time, &e.ActorUUID, &e.ActorName, &e.Type, &e.ActedUUID, &e.ActedName, &e.Action); err != nil {
			return nil, fmt.Errorf("scan action row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate actions: %w", err)
	}

	return entries, nil
}
