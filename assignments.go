package roletree

// assignments owns the single-role-per-principal invariant and the
// per-role holder counts derived from it.
//
// assignments is not safe for concurrent use; the Service serializes
// all access behind its own lock.
type assignments struct {
	byPrincipal map[Principal]Role
	holders     map[Role]int
}

func newAssignments() *assignments {
	return &assignments{
		byPrincipal: make(map[Principal]Role),
		holders:     make(map[Role]int),
	}
}

// hasRole reports whether the principal currently holds any role.
func (a *assignments) hasRole(p Principal) bool {
	_, ok := a.byPrincipal[p]
	return ok
}

// roleOf returns the principal's role, or ErrNoRoleAssigned.
func (a *assignments) roleOf(p Principal) (Role, error) {
	role, ok := a.byPrincipal[p]
	if !ok {
		return Role{}, NewError(ErrNoRoleAssigned, "principal holds no role").WithPrincipal(p)
	}
	return role, nil
}

// assign binds a role to a roleless principal.
func (a *assignments) assign(p Principal, role Role) error {
	if p.IsNobody() {
		return NewError(ErrInvalidPrincipal, "null identity cannot hold a role")
	}
	if current, ok := a.byPrincipal[p]; ok {
		return NewError(ErrAlreadyAssigned, "principal already holds a role").
			WithPrincipal(p).
			WithRole(current)
	}
	a.byPrincipal[p] = role
	a.holders[role]++
	return nil
}

// unassign removes the principal's binding and returns the role that
// was held, so the caller can react to the holder count change.
func (a *assignments) unassign(p Principal) (Role, error) {
	role, ok := a.byPrincipal[p]
	if !ok {
		return Role{}, NewError(ErrNoRoleAssigned, "principal holds no role").WithPrincipal(p)
	}
	delete(a.byPrincipal, p)
	if a.holders[role] <= 1 {
		delete(a.holders, role)
	} else {
		a.holders[role]--
	}
	return role, nil
}

// holderCount returns the number of principals currently holding role.
func (a *assignments) holderCount(role Role) int {
	return a.holders[role]
}
