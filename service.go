package roletree

import (
	"sync"
)

// Service is the single owner of the hierarchy and the assignment
// table. Grant and Revoke are the only mutators; they validate every
// precondition before touching state, so a failed operation leaves no
// partial mutation behind.
//
// A single lock serializes mutations. Read-only queries take the read
// side and only ever observe fully committed states.
//
// The acting principal for Grant and Revoke is taken from the context
// (see WithActor); request metadata in the context ends up in the
// event log.
type Service struct {
	mu       sync.RWMutex
	tree     *hierarchy
	table    *assignments
	registry Registry
}

// Option configures a Service.
type Option func(*Service)

// WithMaxDepth bounds the hierarchy depth, enforced at role birth.
// Defaults to DefaultMaxDepth.
func WithMaxDepth(depth int) Option {
	return func(s *Service) {
		s.tree.maxDepth = depth
	}
}

// New creates a Service backed by the given membership registry. A nil
// registry falls back to an in-memory one.
//
// Example:
//
//	db, _ := dbkit.New(dbkit.Config{URL: "postgres://..."})
//	reg := roletree.NewDatabaseRegistry(db)
//	svc := roletree.New(reg)
func New(registry Registry, opts ...Option) *Service {
	if registry == nil {
		registry = NewMemoryRegistry()
	}
	s := &Service{
		tree:     newHierarchy(DefaultMaxDepth),
		table:    newAssignments(),
		registry: registry,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registry returns the membership registry collaborator.
func (s *Service) Registry() Registry {
	return s.registry
}
