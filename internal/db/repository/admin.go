package repository

import (
	"context"
	"database/sql"
	"fmt"

	"groupsync/internal/domain"
)

var _ domain.AdminRepository = (*AdminRepo)(nil)

// AdminRepo reads the desired group membership from the admin store.
type AdminRepo struct {
	db *sql.DB
}

// NewAdminRepo creates a new AdminRepo.
func NewAdminRepo(db *sql.DB) *AdminRepo {
	return &AdminRepo{db: db}
}

// desiredGroupsQuery joins users onto the group catalog. The RIGHT JOIN keeps
// groups with no members (user columns NULL); such rows pass the filter via
// the u.id IS NULL arm. A NULL external name surfaces as the empty-string
// group key in the snapshot. Identifiers are backtick-quoted because GROUPS
// is a reserved word in MySQL 8.
const desiredGroupsQuery = "SELECT u.`uuid`, g.`external_name`" +
	" FROM `users` u" +
	" RIGHT JOIN `groups` g ON u.`group_id` = g.`id`" +
	" WHERE u.`id` IS NULL OR (u.`frozen` = 0 AND g.`external_name` IS NOT NULL)" +
	" ORDER BY g.`weight` DESC"

// FetchDesiredGroups returns the authoritative group→members mapping.
func (r *AdminRepo) FetchDesiredGroups(ctx context.Context) (*domain.Snapshot, error) {
	rows, err := r.db.QueryContext(ctx, desiredGroupsQuery)
	if err != nil {
		return nil, fmt.Errorf("query desired groups: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	snap := domain.NewSnapshot()
	for rows.Next() {
		var memberUUID, groupName sql.NullString
		if err := rows.Scan(&memberUUID, &groupName); err != nil {
			return nil, fmt.Errorf("scan desired group row: %w", err)
		}
		snap.AddGroup(groupName.String)
		if memberUUID.Valid {
			snap.AddMember(groupName.String, memberUUID.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate desired groups: %w", err)
	}

	return snap, nil
}
