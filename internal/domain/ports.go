package domain

import "context"

// AdminRepository reads the desired group membership from the admin store.
type AdminRepository interface {
	// FetchDesiredGroups returns the authoritative group→members mapping,
	// ordered by descending group weight. Frozen users are excluded; groups
	// with no qualifying members are present with empty sets.
	FetchDesiredGroups(ctx context.Context) (*Snapshot, error)
}

// PermissionRepository reads and mutates membership grants in the
// permissions store.
type PermissionRepository interface {
	// FetchCurrentMembers returns the current members of each named group,
	// derived from active global-context grants. Every requested name is a
	// key of the result, defaulting to an empty set. An empty name list is a
	// ValidationError: the underlying IN-list query cannot be built with
	// zero parameters.
	FetchCurrentMembers(ctx context.Context, groups []string) (map[string]MemberSet, error)

	// Begin opens a transaction scope for applying membership mutations.
	Begin(ctx context.Context) (MembershipTx, error)
}

// MembershipTx is a single transaction over membership grants and their
// audit trail. Either Commit or Rollback must be called exactly once.
type MembershipTx interface {
	// AddMembers writes one audit entry per member, then inserts an active
	// global-context grant per member. Returns the number of members
	// processed.
	AddMembers(ctx context.Context, group string, members []string) (int, error)

	// RemoveMembers writes one audit entry per member, then deletes the
	// matching active global-context grants. Returns the number of members
	// processed; deletion is idempotent over already-absent rows.
	RemoveMembers(ctx context.Context, group string, members []string) (int, error)

	Commit() error
	Rollback() error
}

// AuditRepository reads the permissions store's action log.
type AuditRepository interface {
	// List returns the most recent audit entries, newest first.
	List(ctx context.Context, limit int) ([]AuditEntry, error)
}
