package roletree

import "context"

// ============================================================================
// DATA RETRIEVAL
// ============================================================================

// Roles returns every role ever introduced into the hierarchy, in
// insertion order. Before any grant the result is exactly [Root]. A
// role reduced to zero holders stays listed as a structural joint.
func (s *Service) Roles() []Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.roles()
}

// IsKnown reports whether the role has ever been introduced.
func (s *Service) IsKnown(role Role) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.isKnown(role)
}

// AdminOf returns the role's admin (its direct parent in the tree).
// Unknown roles and Root both answer Root.
func (s *Service) AdminOf(role Role) Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.parentOf(role)
}

// ChildrenOf returns the known roles directly administered by role, in
// insertion order.
func (s *Service) ChildrenOf(role Role) []Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.childrenOf(role)
}

// AncestorChain returns the chain from role up to Root, inclusive of
// both ends. This is exactly the set of roles whose holders may act as
// role.
func (s *Service) AncestorChain(role Role) []Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.chain(role)
}

// RoleOf returns the principal's assigned role, or ErrNoRoleAssigned.
func (s *Service) RoleOf(principal Principal) (Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table.roleOf(principal)
}

// HasRole reports whether the principal currently holds any role.
func (s *Service) HasRole(principal Principal) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table.hasRole(principal)
}

// HolderCount returns the number of principals currently assigned the
// role.
func (s *Service) HolderCount(role Role) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table.holderCount(role)
}

// Events queries the registry's event log. Returns ErrRegistry when
// the configured registry cannot list events.
func (s *Service) Events(ctx context.Context, filter EventFilter) ([]Event, error) {
	lister, ok := s.registry.(EventLister)
	if !ok {
		return nil, NewError(ErrRegistry, "registry does not support event queries")
	}
	return lister.Events(ctx, filter)
}
