package roletree

import (
	"context"
	"time"
)

// ============================================================================
// GRANT / REVOKE ENGINE
// ============================================================================

// grantKind classifies the state transition a grant performs. Role
// birth and root bootstrap are privileged paths that skip the caller
// authorization check; every other grant is gated on the role's admin.
type grantKind int

const (
	grantNormal grantKind = iota
	grantBirth            // first grant of a brand-new role introduces it
	grantRootBootstrap    // first Root holder on an empty tree
)

// Grant assigns a role to a principal. If the role has never been seen
// before it is born into the hierarchy under Root.
//
// The acting principal comes from the context (WithActor) and must be
// able to act as the role's admin, except for the two bootstrap paths:
// the very first introduction of a brand-new role, and the very first
// Root holder on an empty tree.
//
// Example:
//
//	ctx := roletree.WithActor(ctx, adminPrincipal)
//	err := svc.Grant(ctx, "alice", roletree.NewRole("MANAGER"))
func (s *Service) Grant(ctx context.Context, principal Principal, role Role) error {
	return s.grant(ctx, principal, role, Root, false)
}

// GrantUnder assigns a role to a principal, naming the parent the role
// is born under if this is its first grant. The parent must already be
// known to the hierarchy. For an already-known role the parent hint is
// ignored: a role's admin only ever changes through re-parenting.
//
// Example:
//
//	err := svc.GrantUnder(ctx, "bob", userRole, managerRole)
func (s *Service) GrantUnder(ctx context.Context, principal Principal, role, parent Role) error {
	return s.grant(ctx, principal, role, parent, true)
}

func (s *Service) grant(ctx context.Context, principal Principal, role, parent Role, hasParent bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if principal.IsNobody() {
		return NewError(ErrInvalidPrincipal, "cannot grant to the null identity").WithRole(role)
	}
	if current, ok := s.table.byPrincipal[principal]; ok {
		return NewError(ErrAlreadyAssigned, "principal must be revoked before receiving a new role").
			WithPrincipal(principal).
			WithRole(current)
	}

	kind := grantNormal
	switch {
	case !s.tree.isKnown(role):
		kind = grantBirth
	case role == Root && s.table.holderCount(Root) == 0:
		kind = grantRootBootstrap
	}

	actor := GetActor(ctx)
	switch kind {
	case grantBirth:
		if !hasParent {
			parent = Root
		}
		if !s.tree.isKnown(parent) {
			return NewError(ErrUnknownParent, "parent role has never been introduced").
				WithPrincipal(principal).
				WithRole(parent)
		}
		if s.tree.depthOf(parent)+1 > s.tree.maxDepth {
			return NewError(ErrDepthExceeded, "role birth would exceed maximum depth").
				WithPrincipal(principal).
				WithRole(role)
		}
	case grantNormal:
		if actor.IsNobody() {
			return NewError(ErrNoActor, "grant requires an acting principal").
				WithPrincipal(principal).
				WithRole(role)
		}
		if err := s.requireAtLeastLocked(actor, s.tree.parentOf(role)); err != nil {
			return err
		}
	}

	// Notify the registry before committing: a failing collaborator
	// aborts the grant with no state change on either side.
	if err := s.registry.AddHolder(ctx, role, principal); err != nil {
		return NewError(ErrRegistry, err.Error()).
			WithPrincipal(principal).
			WithRole(role)
	}

	if kind == grantBirth {
		// Validated above, cannot fail here.
		_ = s.tree.introduce(role, parent)
	}
	_ = s.table.assign(principal, role)

	s.recordEvent(ctx, &Event{
		Action:    ActionGranted,
		Role:      role,
		Principal: principal,
		Actor:     actor,
	})

	return nil
}

// Revoke removes the principal's role. The acting principal must be
// able to act as the role's admin.
//
// If the principal was the role's last holder, every child of the role
// is lifted to the role's own parent so each sub-tree stays reachable
// from Root; the role itself stays listed with zero holders. Revoking
// the last Root holder is refused with ErrRootRequired.
//
// Example:
//
//	ctx := roletree.WithActor(ctx, adminPrincipal)
//	err := svc.Revoke(ctx, "alice")
func (s *Service) Revoke(ctx context.Context, principal Principal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	role, ok := s.table.byPrincipal[principal]
	if !ok {
		return NewError(ErrNoRoleAssigned, "principal holds no role").WithPrincipal(principal)
	}

	actor := GetActor(ctx)
	if actor.IsNobody() {
		return NewError(ErrNoActor, "revoke requires an acting principal").
			WithPrincipal(principal).
			WithRole(role)
	}
	if err := s.requireAtLeastLocked(actor, s.tree.parentOf(role)); err != nil {
		return err
	}

	if role == Root && s.table.holderCount(Root) == 1 {
		return NewError(ErrRootRequired, "cannot revoke the last Root holder").
			WithPrincipal(principal).
			WithActor(actor)
	}

	if err := s.registry.RemoveHolder(ctx, role, principal); err != nil {
		return NewError(ErrRegistry, err.Error()).
			WithPrincipal(principal).
			WithRole(role)
	}

	_, _ = s.table.unassign(principal)

	// Re-parent orphaned children: when the role just lost its last
	// holder, lift every child to the role's own parent.
	if s.table.holderCount(role) == 0 {
		liftTo := s.tree.parentOf(role)
		for _, child := range s.tree.childrenOf(role) {
			s.tree.reparent(child, liftTo)
			s.recordEvent(ctx, &Event{
				Action:        ActionAdminChanged,
				Role:          child,
				Actor:         actor,
				PreviousAdmin: role,
				NewAdmin:      liftTo,
			})
		}
	}

	s.recordEvent(ctx, &Event{
		Action:    ActionRevoked,
		Role:      role,
		Principal: principal,
		Actor:     actor,
	})

	return nil
}

// recordEvent appends to the registry's event log with request
// metadata from the context. Recording is best-effort: the operation
// has already committed and is not rolled back on a logging failure.
func (s *Service) recordEvent(ctx context.Context, event *Event) {
	audit := GetAuditContext(ctx)
	event.IPAddress = audit.IPAddress
	event.UserAgent = audit.UserAgent
	event.RequestID = audit.RequestID
	event.Timestamp = time.Now()
	_ = s.registry.RecordEvent(ctx, event)
}
