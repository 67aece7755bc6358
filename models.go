package roletree

import (
	"time"

	"github.com/uptrace/bun"
)

// RoleMembership is the persisted form of a single holder of a role.
// The (role, principal) pair is unique; a principal appears at most
// once because of the single-role invariant upheld by the Service.
type RoleMembership struct {
	bun.BaseModel `bun:"table:role_memberships,alias:rm"`

	ID        string    `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Role      string    `bun:"role,notnull"` // 0x-prefixed hex tag
	Principal string    `bun:"principal,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// RoleEvent is the persisted form of an Event. Role tags are stored in
// their 0x-prefixed hex form so the log stays greppable.
type RoleEvent struct {
	bun.BaseModel `bun:"table:role_events,alias:re"`

	ID        string    `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Timestamp time.Time `bun:"timestamp,notnull,default:current_timestamp"`

	Action    string `bun:"action,notnull"`
	Role      string `bun:"role,notnull"`
	Principal string `bun:"principal"`
	Actor     string `bun:"actor"`

	// Set only for admin_changed entries.
	PreviousAdmin string `bun:"previous_admin"`
	NewAdmin      string `bun:"new_admin"`

	// Request metadata for forensics.
	IPAddress string `bun:"ip_address"`
	UserAgent string `bun:"user_agent"`
	RequestID string `bun:"request_id"`
}

// ToModel converts an Event to its persisted form.
func (e *Event) ToModel() *RoleEvent {
	m := &RoleEvent{
		Timestamp: e.Timestamp,
		Action:    string(e.Action),
		Role:      e.Role.String(),
		Principal: string(e.Principal),
		Actor:     string(e.Actor),
		IPAddress: e.IPAddress,
		UserAgent: e.UserAgent,
		RequestID: e.RequestID,
	}
	if e.Action == ActionAdminChanged {
		m.PreviousAdmin = e.PreviousAdmin.String()
		m.NewAdmin = e.NewAdmin.String()
	}
	return m
}

// ToEvent converts a persisted RoleEvent back to an Event.
func (m *RoleEvent) ToEvent() (Event, error) {
	role, err := RoleFromHex(m.Role)
	if err != nil {
		return Event{}, err
	}
	e := Event{
		Action:    Action(m.Action),
		Role:      role,
		Principal: Principal(m.Principal),
		Actor:     Principal(m.Actor),
		IPAddress: m.IPAddress,
		UserAgent: m.UserAgent,
		RequestID: m.RequestID,
		Timestamp: m.Timestamp,
	}
	if m.PreviousAdmin != "" {
		if e.PreviousAdmin, err = RoleFromHex(m.PreviousAdmin); err != nil {
			return Event{}, err
		}
	}
	if m.NewAdmin != "" {
		if e.NewAdmin, err = RoleFromHex(m.NewAdmin); err != nil {
			return Event{}, err
		}
	}
	return e, nil
}
