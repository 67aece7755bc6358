package roletree

import (
	"errors"
	"fmt"
)

// Sentinel errors for roletree operations.
var (
	// ErrInvalidPrincipal is returned when the null identity is used
	// where a principal is required.
	ErrInvalidPrincipal = errors.New("roletree: invalid principal")

	// ErrAlreadyAssigned is returned when granting to a principal that
	// already holds a role. A principal must be revoked before it can
	// receive a different role.
	ErrAlreadyAssigned = errors.New("roletree: role already assigned")

	// ErrNoRoleAssigned is returned when a principal has no role.
	ErrNoRoleAssigned = errors.New("roletree: no role assigned")

	// ErrUnauthorized is returned when the acting principal cannot act
	// as the role required for the operation.
	ErrUnauthorized = errors.New("roletree: unauthorized")

	// ErrUnknownParent is returned when a role birth names a parent
	// that has never been introduced into the hierarchy.
	ErrUnknownParent = errors.New("roletree: unknown parent role")

	// ErrRootRequired is returned when revoking the last holder of the
	// Root role, which would leave the tree without an ultimate admin.
	ErrRootRequired = errors.New("roletree: root role requires at least one holder")

	// ErrDepthExceeded is returned when a role birth would grow the
	// tree past the configured maximum depth.
	ErrDepthExceeded = errors.New("roletree: hierarchy depth exceeded")

	// ErrNoActor is returned when no acting principal is found in
	// context for an operation that must be authorized.
	ErrNoActor = errors.New("roletree: no actor in context")

	// ErrRegistry is returned when the membership registry collaborator
	// fails; the operation is aborted with no state change.
	ErrRegistry = errors.New("roletree: registry error")
)

// Error wraps a sentinel error with the identifiers involved so that
// observability tooling can parse them out of the message.
type Error struct {
	Err       error     // Underlying sentinel error
	Message   string    // Additional context
	Role      Role      // Role involved (if applicable)
	Principal Principal // Principal the operation targeted (if applicable)
	Actor     Principal // Principal that triggered the error (if applicable)

	hasRole bool
}

// Error implements the error interface. Role and principal identifiers
// are embedded in a stable key=value format.
func (e *Error) Error() string {
	msg := e.Err.Error()
	if e.Message != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Message)
	}
	if e.Actor != Nobody {
		msg = fmt.Sprintf("%s actor=%s", msg, e.Actor)
	}
	if e.Principal != Nobody {
		msg = fmt.Sprintf("%s principal=%s", msg, e.Principal)
	}
	if e.hasRole {
		msg = fmt.Sprintf("%s role=%s", msg, e.Role)
	}
	return msg
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is checks if the error matches a target error.
func (e *Error) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewError creates a new Error with context.
func NewError(err error, message string) *Error {
	return &Error{
		Err:     err,
		Message: message,
	}
}

// WithRole adds the role involved to the error.
func (e *Error) WithRole(role Role) *Error {
	e.Role = role
	e.hasRole = true
	return e
}

// WithPrincipal adds the target principal to the error.
func (e *Error) WithPrincipal(p Principal) *Error {
	e.Principal = p
	return e
}

// WithActor adds the acting principal to the error.
func (e *Error) WithActor(actor Principal) *Error {
	e.Actor = actor
	return e
}

// IsUnauthorized checks if an error is an authorization error.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsAlreadyAssigned checks if an error is due to the single-role
// invariant.
func IsAlreadyAssigned(err error) bool {
	return errors.Is(err, ErrAlreadyAssigned)
}

// IsNoRoleAssigned checks if an error is due to a roleless principal.
func IsNoRoleAssigned(err error) bool {
	return errors.Is(err, ErrNoRoleAssigned)
}

// IsUnknownParent checks if an error is due to a dangling parent
// reference at role birth.
func IsUnknownParent(err error) bool {
	return errors.Is(err, ErrUnknownParent)
}

// IsRootRequired checks if an error is due to revoking the last Root
// holder.
func IsRootRequired(err error) bool {
	return errors.Is(err, ErrRootRequired)
}
