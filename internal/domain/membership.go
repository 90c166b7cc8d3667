package domain

import "sort"

// MemberSet is a set of member identifiers (UUID strings).
type MemberSet map[string]struct{}

// NewMemberSet builds a MemberSet from the given member identifiers.
func NewMemberSet(members ...string) MemberSet {
	s := make(MemberSet, len(members))
	for _, m := range members {
		s[m] = struct{}{}
	}
	return s
}

// Add inserts a member into the set.
func (s MemberSet) Add(member string) {
	s[member] = struct{}{}
}

// Has reports whether the member is in the set.
func (s MemberSet) Has(member string) bool {
	_, ok := s[member]
	return ok
}

// Diff returns the set difference s − other.
func (s MemberSet) Diff(other MemberSet) MemberSet {
	out := make(MemberSet)
	for m := range s {
		if !other.Has(m) {
			out.Add(m)
		}
	}
	return out
}

// Sorted returns the members as a sorted slice. Ordering is for deterministic
// iteration only; set semantics carry no order.
func (s MemberSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for m := range s {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// Snapshot is a group→members mapping together with the order in which the
// groups were enumerated. Members is total over Groups: every listed group has
// an entry, possibly an empty set.
type Snapshot struct {
	Groups  []string
	Members map[string]MemberSet
}

// NewSnapshot returns an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{Members: make(map[string]MemberSet)}
}

// AddGroup registers a group, preserving first-seen order. No-op if the group
// is already present.
func (s *Snapshot) AddGroup(group string) {
	if _, ok := s.Members[group]; ok {
		return
	}
	s.Groups = append(s.Groups, group)
	s.Members[group] = make(MemberSet)
}

// AddMember registers the group if needed and adds the member to it.
func (s *Snapshot) AddMember(group, member string) {
	s.AddGroup(group)
	s.Members[group].Add(member)
}

// Len returns the number of groups in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.Groups)
}
