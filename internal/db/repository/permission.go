package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"groupsync/internal/domain"
)

var _ domain.PermissionRepository = (*PermissionRepo)(nil)

// PermissionRepo reads and mutates group-membership grants in the
// permissions store.
type PermissionRepo struct {
	db        *sql.DB
	clock     domain.Clock
	actorName string
}

// NewPermissionRepo creates a new PermissionRepo. Audit entries written by
// its transactions are timestamped with clock and attributed to actorName.
func NewPermissionRepo(db *sql.DB, clock domain.Clock, actorName string) *PermissionRepo {
	return &PermissionRepo{db: db, clock: clock, actorName: actorName}
}

// FetchCurrentMembers returns the current members of each named group,
// derived from active (value = 1) global-context grants. Every requested
// name is present in the result, defaulting to an empty set.
func (r *PermissionRepo) FetchCurrentMembers(ctx context.Context, groups []string) (map[string]domain.MemberSet, error) {
	if len(groups) == 0 {
		return nil, domain.ErrValidation("no group names given: cannot build an empty IN-list query")
	}

	query := fmt.Sprintf(`
		SELECT uuid, permission
			FROM user_permissions
			WHERE permission IN (%s) AND value = 1 AND contexts = '{}'`,
		inPlaceholders(len(groups)))

	params := make([]interface{}, len(groups))
	current := make(map[string]domain.MemberSet, len(groups))
	for i, g := range groups {
		params[i] = groupPermission(g)
		current[g] = make(domain.MemberSet)
	}

	rows, err := r.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("query current members: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	for rows.Next() {
		var memberUUID, permission string
		if err := rows.Scan(&memberUUID, &permission); err != nil {
			return nil, fmt.Errorf("scan current member row: %w", err)
		}
		group := strings.TrimPrefix(permission, groupPermissionPrefix)
		// A case-insensitive collation can match rows whose group name
		// differs from the requested key. Skip them rather than grant
		// membership in a group nobody asked about.
		set, ok := current[group]
		if !ok {
			continue
		}
		set.Add(memberUUID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate current members: %w", err)
	}

	return current, nil
}

// Begin opens a transaction scope for applying membership mutations.
func (r *PermissionRepo) Begin(ctx context.Context) (domain.MembershipTx, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin permissions tx: %w", err)
	}
	return &membershipTx{tx: tx, clock: r.clock, actorName: r.actorName}, nil
}

// membershipTx applies membership mutations and their audit entries inside
// one transaction. Audit rows are written before the mutation so that on a
// mid-batch crash the trail over-reports rather than under-reports; the
// surrounding transaction makes the pair atomic either way.
type membershipTx struct {
	tx        *sql.Tx
	clock     domain.Clock
	actorName string
}

var _ domain.MembershipTx = (*membershipTx)(nil)

const insertGrantQuery = `
	INSERT INTO user_permissions (uuid, permission, value, server, world, expiry, contexts)
		VALUES (?, ?, 1, 'global', 'global', 0, '{}')`

// AddMembers audits and inserts one active global-context grant per member.
func (t *membershipTx) AddMembers(ctx context.Context, group string, members []string) (int, error) {
	if err := t.logActions(ctx, members, "parent add "+group); err != nil {
		return 0, err
	}
	for _, member := range members {
		if _, err := t.tx.ExecContext(ctx, insertGrantQuery, member, groupPermission(group)); err != nil {
			return 0, fmt.Errorf("add %s to %q: %w", member, group, mapDBError(err))
		}
	}
	return len(members), nil
}

// RemoveMembers audits and deletes the matching active global-context
// grants. The count returned is the number of members processed, not rows
// deleted: deleting an already-absent grant is a no-op.
func (t *membershipTx) RemoveMembers(ctx context.Context, group string, members []string) (int, error) {
	if len(members) == 0 {
		return 0, nil
	}
	if err := t.logActions(ctx, members, "parent remove "+group); err != nil {
		return 0, err
	}

	query := fmt.Sprintf(`
		DELETE FROM user_permissions
			WHERE permission = ? AND uuid IN (%s) AND value = 1 AND contexts = '{}'`,
		inPlaceholders(len(members)))

	params := make([]interface{}, 0, len(members)+1)
	params = append(params, groupPermission(group))
	for _, member := range members {
		params = append(params, member)
	}

	if _, err := t.tx.ExecContext(ctx, query, params...); err != nil {
		return 0, fmt.Errorf("remove members from %q: %w", group, err)
	}
	return len(members), nil
}

// logActions writes one audit row per member. The acted display name is
// resolved from the players table, with the literal "null" fallback the
// action-log consumers expect.
const insertActionQuery = `
	INSERT INTO actions (time, actor_uuid, actor_name, type, acted_uuid, acted_name, action)
		VALUES (?, ?, ?, ?, ?, COALESCE((SELECT username FROM players WHERE uuid = ?), 'null'), ?)`

func (t *membershipTx) logActions(ctx context.Context, members []string, action string) error {
	now := t.clock.Now().Unix()
	for _, member := range members {
		_, err := t.tx.ExecContext(ctx, insertActionQuery,
			now, domain.SystemActorUUID, t.actorName, domain.AuditTypeUser, member, member, action)
		if err != nil {
			return fmt.Errorf("log action %q for %s: %w", action, member, err)
		}
	}
	return nil
}

func (t *membershipTx) Commit() error {
	return t.tx.Commit()
}

func (t *membershipTx) Rollback() error {
	return t.tx.Rollback()
}
