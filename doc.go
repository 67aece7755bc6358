// Package roletree implements a hierarchical role-authorization model:
// a tree of roles where a role positioned higher in the tree may act on
// behalf of any role beneath it, and every principal holds at most one
// role at a time.
//
// # Core Concepts
//
// Role: an opaque 256-bit tag, usually derived from a name with NewRole.
// The zero value is the reserved Root role, the unique tree root. Root
// is self-administered and can act as any role.
//
// Principal: an opaque account identifier. The empty principal is the
// reserved null identity and is rejected everywhere.
//
// Admin role: the direct parent of a role in the tree. Granting or
// revoking a role requires the caller to be able to act as its admin.
//
// # Key Features
//
//   - Single role per principal: grants never overwrite, a principal
//     must be revoked before receiving a different role
//   - Ancestor-chain authorization: CanActAs walks the tree from the
//     target role up to Root
//   - Role birth: the first grant of a brand-new role introduces it
//     into the tree under a caller-chosen parent (Root by default)
//   - Automatic re-parenting: revoking the last holder of a role lifts
//     all of its children to the role's own parent, so every sub-tree
//     stays reachable from Root
//   - Pluggable membership registry: an in-memory registry for embedded
//     use and a Postgres-backed registry (bun + dbkit) with a full
//     event log
//
// # Basic Usage
//
//	// 1. Create a service with the default in-memory registry
//	svc := roletree.New(roletree.NewMemoryRegistry())
//
//	// 2. Bootstrap: the first grant of Root needs no authority
//	ctx := context.Background()
//	if err := svc.Grant(ctx, "g0", roletree.Root); err != nil {
//	    log.Fatal(err)
//	}
//
//	// 3. Introduce roles and grant them
//	manager := roletree.NewRole("MANAGER")
//	user := roletree.NewRole("USER")
//
//	ctx = roletree.WithActor(ctx, "g0")
//	svc.Grant(ctx, "alice", manager)          // MANAGER born under Root
//	ctx = roletree.WithActor(ctx, "alice")
//	svc.GrantUnder(ctx, "bob", user, manager) // USER born under MANAGER
//
//	// 4. Check authority
//	svc.CanActAs("alice", user)  // true: MANAGER is an ancestor of USER
//	svc.CanActAs("bob", manager) // false
//
// # Middleware Usage
//
//	mw := roletree.NewMiddleware(svc,
//	    roletree.WithPrincipalExtractor(roletree.PrincipalFromHeader("X-Principal")),
//	)
//
//	router.With(mw.RequireRole(manager)).
//	    Post("/teams/{teamID}/members", addMemberHandler)
//
// # Event Log
//
// Every grant, revoke and admin change is recorded through the
// registry with actor, principal, role and request metadata taken from
// the context. The Postgres-backed DatabaseRegistry keeps the log in a
// role_events table queryable with EventFilter.
package roletree
