// Package reconcile computes and applies the membership changes needed to
// make the permissions store match the admin store.
package reconcile

import (
	"groupsync/internal/domain"
)

// Plan holds the per-group add and remove sets computed by Diff. Both maps
// are total over the desired group keyspace.
type Plan struct {
	ToAdd    map[string]domain.MemberSet
	ToRemove map[string]domain.MemberSet
}

// Adds returns the total number of memberships to add.
func (p *Plan) Adds() int {
	n := 0
	for _, s := range p.ToAdd {
		n += len(s)
	}
	return n
}

// Removes returns the total number of memberships to remove.
func (p *Plan) Removes() int {
	n := 0
	for _, s := range p.ToRemove {
		n += len(s)
	}
	return n
}

// Empty reports whether the plan contains no changes.
func (p *Plan) Empty() bool {
	return p.Adds() == 0 && p.Removes() == 0
}

// Diff computes the set differences between current and desired membership.
// For every desired group, ToRemove = current − desired and
// ToAdd = desired − current. Groups present in current but absent from
// desired are out of scope and never appear in the plan.
//
// Every desired group must exist as a key of current; the snapshot reader
// guarantees this by pre-populating empty sets. A missing key is an
// InvariantError, not an empty-set default.
func Diff(current, desired map[string]domain.MemberSet) (*Plan, error) {
	plan := &Plan{
		ToAdd:    make(map[string]domain.MemberSet, len(desired)),
		ToRemove: make(map[string]domain.MemberSet, len(desired)),
	}

	for group, want := range desired {
		have, ok := current[group]
		if !ok {
			return nil, domain.ErrInvariant("desired group %q missing from current snapshot", group)
		}
		plan.ToRemove[group] = have.Diff(want)
		plan.ToAdd[group] = want.Diff(have)
	}

	return plan, nil
}
