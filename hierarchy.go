package roletree

// DefaultMaxDepth bounds the hierarchy depth so the ancestor walk in
// CanActAs stays cheap. The bound is enforced at role birth.
const DefaultMaxDepth = 32

// hierarchy owns the role tree: a parent pointer per known role and
// the insertion-ordered role set. Root is known from initialization
// and is its own parent. The structure is inductively a tree: a role
// can only be introduced under an already-known parent, and reparent
// only lifts an existing node to an ancestor of its former parent.
//
// hierarchy is not safe for concurrent use; the Service serializes all
// access behind its own lock.
type hierarchy struct {
	parents  map[Role]Role
	order    []Role
	maxDepth int
}

func newHierarchy(maxDepth int) *hierarchy {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &hierarchy{
		parents:  map[Role]Role{Root: Root},
		order:    []Role{Root},
		maxDepth: maxDepth,
	}
}

// isKnown reports membership in the role set.
func (h *hierarchy) isKnown(role Role) bool {
	_, ok := h.parents[role]
	return ok
}

// parentOf returns the admin role. Unknown roles default to Root, and
// parentOf(Root) == Root.
func (h *hierarchy) parentOf(role Role) Role {
	if parent, ok := h.parents[role]; ok {
		return parent
	}
	return Root
}

// introduce adds a brand-new role under parent. The parent must already
// be known, which is what keeps the structure a tree: no forward or
// dangling references can ever close a cycle.
func (h *hierarchy) introduce(role, parent Role) error {
	if !h.isKnown(parent) {
		return NewError(ErrUnknownParent, "parent not in hierarchy").WithRole(parent)
	}
	if h.depthOf(parent)+1 > h.maxDepth {
		return NewError(ErrDepthExceeded, "role birth would exceed maximum depth").WithRole(role)
	}
	h.parents[role] = parent
	h.order = append(h.order, role)
	return nil
}

// reparent repoints an existing role to a new parent. Only the Service
// calls this, while lifting orphaned children during revocation.
func (h *hierarchy) reparent(role, newParent Role) {
	h.parents[role] = newParent
}

// roles returns all known roles in insertion order, Root first.
func (h *hierarchy) roles() []Role {
	out := make([]Role, len(h.order))
	copy(out, h.order)
	return out
}

// childrenOf returns the known roles whose parent is role, in insertion
// order. Root is never a child of itself.
func (h *hierarchy) childrenOf(role Role) []Role {
	var children []Role
	for _, r := range h.order {
		if r != Root && h.parents[r] == role {
			children = append(children, r)
		}
	}
	return children
}

// depthOf returns the number of edges between role and Root.
func (h *hierarchy) depthOf(role Role) int {
	depth := 0
	for r := role; r != Root; r = h.parents[r] {
		depth++
	}
	return depth
}

// chain returns the ancestor chain from role up to Root, inclusive of
// both ends.
func (h *hierarchy) chain(role Role) []Role {
	chain := []Role{role}
	for r := role; r != Root; {
		r = h.parentOf(r)
		chain = append(chain, r)
	}
	return chain
}

// onChain reports whether candidate lies on the ancestor chain of
// target, target itself and Root included.
func (h *hierarchy) onChain(candidate, target Role) bool {
	for r := target; ; r = h.parentOf(r) {
		if r == candidate {
			return true
		}
		if r == Root {
			return false
		}
	}
}
