// Package testutil provides shared mock implementations of domain interfaces
// for use in tests across the codebase.
package testutil

import (
	"context"
	"time"

	"groupsync/internal/domain"
)

// FixedClock is a Clock pinned to a fixed instant.
type FixedClock struct {
	T time.Time
}

// Now returns the pinned instant.
func (c FixedClock) Now() time.Time { return c.T }

// === Admin Repository Mock ===

// MockAdminRepo implements domain.AdminRepository for testing.
type MockAdminRepo struct {
	Snapshot *domain.Snapshot
	Err      error
	Calls    int
}

// FetchDesiredGroups returns the configured snapshot or error.
func (m *MockAdminRepo) FetchDesiredGroups(_ context.Context) (*domain.Snapshot, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Snapshot, nil
}

// === Permission Repository Mock ===

// MockPermissionRepo implements domain.PermissionRepository for testing. Its
// Current map plays the role of the grant table: committed transactions are
// applied back into it so successive runs observe earlier mutations.
type MockPermissionRepo struct {
	Current    map[string]domain.MemberSet
	FetchErr   error
	BeginErr   error
	FetchCalls [][]string
	Txs        []*MockMembershipTx
}

// FetchCurrentMembers mirrors the real repository contract: empty input is a
// ValidationError and every requested name is a key of the result.
func (m *MockPermissionRepo) FetchCurrentMembers(_ context.Context, groups []string) (map[string]domain.MemberSet, error) {
	m.FetchCalls = append(m.FetchCalls, append([]string(nil), groups...))
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	if len(groups) == 0 {
		return nil, domain.ErrValidation("no group names given")
	}
	out := make(map[string]domain.MemberSet, len(groups))
	for _, g := range groups {
		set := make(domain.MemberSet)
		for member := range m.Current[g] {
			set.Add(member)
		}
		out[g] = set
	}
	return out, nil
}

// Begin returns a fresh MockMembershipTx bound to this repo.
func (m *MockPermissionRepo) Begin(_ context.Context) (domain.MembershipTx, error) {
	if m.BeginErr != nil {
		return nil, m.BeginErr
	}
	tx := &MockMembershipTx{repo: m}
	m.Txs = append(m.Txs, tx)
	return tx, nil
}

// LastTx returns the most recent transaction, or nil if none was opened.
func (m *MockPermissionRepo) LastTx() *MockMembershipTx {
	if len(m.Txs) == 0 {
		return nil
	}
	return m.Txs[len(m.Txs)-1]
}

// === Membership Transaction Mock ===

// MockMembershipTx implements domain.MembershipTx for testing. It records
// mutations and applies them to the owning repo's Current map on Commit.
type MockMembershipTx struct {
	repo       *MockPermissionRepo
	Added      map[string][]string
	Removed    map[string][]string
	AddErr     error
	RemoveErr  error
	Committed  bool
	RolledBack bool
}

// AddMembers records an addition.
func (t *MockMembershipTx) AddMembers(_ context.Context, group string, members []string) (int, error) {
	if t.AddErr != nil {
		return 0, t.AddErr
	}
	if t.Added == nil {
		t.Added = make(map[string][]string)
	}
	t.Added[group] = append(t.Added[group], members...)
	return len(members), nil
}

// RemoveMembers records a removal.
func (t *MockMembershipTx) RemoveMembers(_ context.Context, group string, members []string) (int, error) {
	if t.RemoveErr != nil {
		return 0, t.RemoveErr
	}
	if t.Removed == nil {
		t.Removed = make(map[string][]string)
	}
	t.Removed[group] = append(t.Removed[group], members...)
	return len(members), nil
}

// Commit applies the recorded mutations to the repo's Current map.
func (t *MockMembershipTx) Commit() error {
	t.Committed = true
	for group, members := range t.Removed {
		for _, m := range members {
			delete(t.repo.Current[group], m)
		}
	}
	for group, members := range t.Added {
		if t.repo.Current[group] == nil {
			t.repo.Current[group] = make(domain.MemberSet)
		}
		for _, m := range members {
			t.repo.Current[group].Add(m)
		}
	}
	return nil
}

// Rollback discards the recorded mutations.
func (t *MockMembershipTx) Rollback() error {
	t.RolledBack = true
	return nil
}
