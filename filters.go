package roletree

import "time"

// defaultEventLimit caps event queries that do not set an explicit
// limit.
const defaultEventLimit = 100

// EventFilter provides options for filtering event log queries.
type EventFilter struct {
	// Filter by the acting principal.
	Actor Principal

	// Filter by the target principal of a grant/revoke.
	Principal Principal

	// Filter by action type.
	Action Action

	// Filter by time range.
	Since time.Time
	Until time.Time

	// Pagination.
	Limit  int
	Offset int

	role      Role
	roleIsSet bool
}

// NewEventFilter creates an EventFilter with the default limit.
func NewEventFilter() EventFilter {
	return EventFilter{Limit: defaultEventLimit}
}

// WithActor filters by the acting principal.
func (f EventFilter) WithActor(actor Principal) EventFilter {
	f.Actor = actor
	return f
}

// WithPrincipal filters by the target principal.
func (f EventFilter) WithPrincipal(p Principal) EventFilter {
	f.Principal = p
	return f
}

// WithRole filters by the role involved. Root is a valid filter value,
// so the role is tracked separately from its zero value.
func (f EventFilter) WithRole(role Role) EventFilter {
	f.role = role
	f.roleIsSet = true
	return f
}

// WithAction filters by action type.
func (f EventFilter) WithAction(action Action) EventFilter {
	f.Action = action
	return f
}

// WithTimeRange filters by timestamp, inclusive of both ends.
func (f EventFilter) WithTimeRange(since, until time.Time) EventFilter {
	f.Since = since
	f.Until = until
	return f
}

// WithLimit sets the maximum number of entries returned.
func (f EventFilter) WithLimit(limit int) EventFilter {
	f.Limit = limit
	return f
}

// WithOffset skips the first offset matching entries.
func (f EventFilter) WithOffset(offset int) EventFilter {
	f.Offset = offset
	return f
}

func (f EventFilter) matches(e *Event) bool {
	if f.Actor != Nobody && e.Actor != f.Actor {
		return false
	}
	if f.Principal != Nobody && e.Principal != f.Principal {
		return false
	}
	if f.roleIsSet && e.Role != f.role {
		return false
	}
	if f.Action != "" && e.Action != f.Action {
		return false
	}
	if !f.Since.IsZero() && e.Timestamp.Before(f.Since) {
		return false
	}
	if !f.Until.IsZero() && e.Timestamp.After(f.Until) {
		return false
	}
	return true
}
