package reconcile

import (
	"context"
	"fmt"
	"log/slog"

	"groupsync/internal/domain"
)

// Summary reports the outcome of one reconciliation run.
type Summary struct {
	Added   int // memberships granted
	Removed int // memberships revoked
	Groups  int // desired groups considered
}

// Service orchestrates one reconciliation run: snapshot both stores, diff,
// and apply the plan in a single transaction on the permissions store.
type Service struct {
	admin  domain.AdminRepository
	perms  domain.PermissionRepository
	logger *slog.Logger
}

// NewService creates a new reconciliation Service.
func NewService(admin domain.AdminRepository, perms domain.PermissionRepository, logger *slog.Logger) *Service {
	return &Service{admin: admin, perms: perms, logger: logger}
}

// Plan snapshots both stores and computes the change plan without mutating
// anything. The returned snapshot carries the desired group enumeration
// order, which Run uses for deterministic apply iteration.
func (s *Service) Plan(ctx context.Context) (*Plan, *domain.Snapshot, error) {
	desired, err := s.admin.FetchDesiredGroups(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch desired groups: %w", err)
	}
	if desired.Len() == 0 {
		// Nothing to reconcile, and the current-state query cannot be
		// issued with an empty group list.
		s.logger.Info("admin store has no groups, nothing to reconcile")
		return &Plan{ToAdd: map[string]domain.MemberSet{}, ToRemove: map[string]domain.MemberSet{}}, desired, nil
	}

	current, err := s.perms.FetchCurrentMembers(ctx, desired.Groups)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch current members: %w", err)
	}

	plan, err := Diff(current, desired.Members)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Debug("computed reconciliation plan",
		"groups", desired.Len(),
		"to_add", plan.Adds(),
		"to_remove", plan.Removes(),
	)
	return plan, desired, nil
}

// Run executes a full reconciliation. Removals and additions are applied per
// group inside one transaction; the transaction is committed only when the
// plan contains changes, so a no-op run never forces a commit. Any error
// rolls the transaction back, leaving the permissions store unchanged.
func (s *Service) Run(ctx context.Context) (Summary, error) {
	plan, desired, err := s.Plan(ctx)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{Groups: desired.Len()}
	if plan.Empty() {
		s.logger.Info("permissions store already in sync", "groups", summary.Groups)
		return summary, nil
	}

	tx, err := s.perms.Begin(ctx)
	if err != nil {
		return Summary{}, err
	}

	added, removed, err := applyPlan(ctx, tx, plan, desired.Groups)
	if err != nil {
		_ = tx.Rollback()
		return Summary{}, err
	}

	if err := tx.Commit(); err != nil {
		return Summary{}, fmt.Errorf("commit reconciliation: %w", err)
	}

	summary.Added = added
	summary.Removed = removed
	s.logger.Info("reconciliation applied",
		"added", summary.Added,
		"removed", summary.Removed,
		"groups", summary.Groups,
	)
	return summary, nil
}

// applyPlan issues all removals, then all additions, iterating groups in
// snapshot order and members in sorted order for determinism.
func applyPlan(ctx context.Context, tx domain.MembershipTx, plan *Plan, groups []string) (added, removed int, err error) {
	for _, group := range groups {
		if members := plan.ToRemove[group]; len(members) > 0 {
			n, err := tx.RemoveMembers(ctx, group, members.Sorted())
			if err != nil {
				return 0, 0, err
			}
			removed += n
		}
	}
	for _, group := range groups {
		if members := plan.ToAdd[group]; len(members) > 0 {
			n, err := tx.AddMembers(ctx, group, members.Sorted())
			if err != nil {
				return 0, 0, err
			}
			added += n
		}
	}
	return added, removed, nil
}
