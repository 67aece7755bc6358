package roletree

import (
	"context"
	"sync"
	"time"
)

// Action is the kind of change recorded in the event log.
type Action string

const (
	// ActionGranted records a role grant.
	ActionGranted Action = "granted"
	// ActionRevoked records a role revocation.
	ActionRevoked Action = "revoked"
	// ActionAdminChanged records a re-parenting: the role's admin moved
	// because the previous admin lost its last holder. One event is
	// recorded per lifted child.
	ActionAdminChanged Action = "admin_changed"
)

// Event describes a single change to the hierarchy or its membership.
// Request metadata is taken from the context when available.
type Event struct {
	Action    Action
	Role      Role
	Principal Principal // Target of a grant/revoke; empty for admin changes
	Actor     Principal // Principal whose authority gated the operation

	// Admin change context: the role's admin before and after.
	PreviousAdmin Role
	NewAdmin      Role

	// Request metadata for forensics.
	IPAddress string
	UserAgent string
	RequestID string

	Timestamp time.Time
}

// Registry is the flat role-membership collaborator: it stores which
// principals hold which role and receives every change notification.
// Membership calls happen before the hierarchy commits, so a failing
// registry aborts the operation; event recording is best-effort.
type Registry interface {
	// HasHolder reports whether the principal is recorded as holding
	// the role.
	HasHolder(ctx context.Context, role Role, principal Principal) (bool, error)

	// AddHolder records the principal as a holder of the role.
	AddHolder(ctx context.Context, role Role, principal Principal) error

	// RemoveHolder removes the principal from the role's holders.
	RemoveHolder(ctx context.Context, role Role, principal Principal) error

	// RecordEvent appends an entry to the event log.
	RecordEvent(ctx context.Context, event *Event) error
}

// EventLister is implemented by registries that can query their event
// log.
type EventLister interface {
	Events(ctx context.Context, filter EventFilter) ([]Event, error)
}

// MemoryRegistry is an in-process Registry for embedded use and tests.
// It keeps membership in a map and the event log in a slice.
type MemoryRegistry struct {
	mu      sync.RWMutex
	holders map[Role]map[Principal]struct{}
	events  []Event
}

// NewMemoryRegistry creates an empty in-memory registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		holders: make(map[Role]map[Principal]struct{}),
	}
}

// HasHolder implements Registry.
func (m *MemoryRegistry) HasHolder(_ context.Context, role Role, principal Principal) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.holders[role][principal]
	return ok, nil
}

// AddHolder implements Registry.
func (m *MemoryRegistry) AddHolder(_ context.Context, role Role, principal Principal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.holders[role]
	if !ok {
		set = make(map[Principal]struct{})
		m.holders[role] = set
	}
	set[principal] = struct{}{}
	return nil
}

// RemoveHolder implements Registry.
func (m *MemoryRegistry) RemoveHolder(_ context.Context, role Role, principal Principal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if set, ok := m.holders[role]; ok {
		delete(set, principal)
		if len(set) == 0 {
			delete(m.holders, role)
		}
	}
	return nil
}

// RecordEvent implements Registry.
func (m *MemoryRegistry) RecordEvent(_ context.Context, event *Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := *event
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	m.events = append(m.events, e)
	return nil
}

// Events implements EventLister. Entries are returned newest first,
// matching the database registry.
func (m *MemoryRegistry) Events(_ context.Context, filter EventFilter) ([]Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	limit := filter.Limit
	if limit == 0 {
		limit = defaultEventLimit
	}

	var out []Event
	skipped := 0
	for i := len(m.events) - 1; i >= 0; i-- {
		e := m.events[i]
		if !filter.matches(&e) {
			continue
		}
		if skipped < filter.Offset {
			skipped++
			continue
		}
		out = append(out, e)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}
