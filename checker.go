package roletree

// ============================================================================
// AUTHORIZATION CHECKER
// ============================================================================

// CanActAs reports whether the principal may act as the target role:
// true iff the principal's own role is Root, the target role itself,
// or a strict ancestor of the target role in the tree.
//
// A roleless principal (including the null identity) can act as
// nothing. CanActAs never fails.
//
// Example:
//
//	if svc.CanActAs("alice", managerRole) {
//	    // alice holds MANAGER or one of its ancestors
//	}
func (s *Service) CanActAs(principal Principal, target Role) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.canActAsLocked(principal, target)
}

// RequireAtLeast is the gating check used by the grant/revoke engine
// and by any collaborator wanting a minimum-role guard. It returns
// ErrUnauthorized, carrying the principal and role, when CanActAs is
// false.
func (s *Service) RequireAtLeast(principal Principal, role Role) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.requireAtLeastLocked(principal, role)
}

func (s *Service) canActAsLocked(principal Principal, target Role) bool {
	held, ok := s.table.byPrincipal[principal]
	if !ok {
		return false
	}
	if held == Root {
		return true
	}
	return s.tree.onChain(held, target)
}

func (s *Service) requireAtLeastLocked(principal Principal, role Role) error {
	if s.canActAsLocked(principal, role) {
		return nil
	}
	return NewError(ErrUnauthorized, "principal cannot act as role").
		WithActor(principal).
		WithRole(role)
}

// Checker provides authority checks bound to a single principal. It is
// typically created by the Service and stored in context for use in
// handlers.
type Checker struct {
	principal Principal
	service   *Service
}

// Checker creates a Checker for a principal.
//
// Example:
//
//	checker := svc.Checker("alice")
//	if checker.Can(managerRole) {
//	    // show manager features
//	}
func (s *Service) Checker(principal Principal) *Checker {
	return &Checker{principal: principal, service: s}
}

// Principal returns the principal this checker is for.
func (c *Checker) Principal() Principal {
	return c.principal
}

// Can reports whether the principal may act as the role.
func (c *Checker) Can(role Role) bool {
	return c.service.CanActAs(c.principal, role)
}

// CanAny reports whether the principal may act as any of the roles.
func (c *Checker) CanAny(roles ...Role) bool {
	for _, role := range roles {
		if c.service.CanActAs(c.principal, role) {
			return true
		}
	}
	return false
}

// Require returns ErrUnauthorized if the principal may not act as the
// role.
func (c *Checker) Require(role Role) error {
	return c.service.RequireAtLeast(c.principal, role)
}

// Role returns the principal's assigned role, or ErrNoRoleAssigned.
func (c *Checker) Role() (Role, error) {
	return c.service.RoleOf(c.principal)
}

// HasRole reports whether the principal holds any role.
func (c *Checker) HasRole() bool {
	return c.service.HasRole(c.principal)
}

// IsRoot reports whether the principal holds the Root role.
func (c *Checker) IsRoot() bool {
	role, err := c.service.RoleOf(c.principal)
	return err == nil && role == Root
}
