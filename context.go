package roletree

import (
	"context"
)

// Context keys for roletree values.
type contextKey string

const (
	contextKeyActor     contextKey = "roletree:actor"
	contextKeyIPAddress contextKey = "roletree:ip_address"
	contextKeyUserAgent contextKey = "roletree:user_agent"
	contextKeyRequestID contextKey = "roletree:request_id"
	contextKeyChecker   contextKey = "roletree:checker"
)

// WithActor adds the acting principal to the context. The actor is the
// principal whose authority gates Grant and Revoke, and is recorded in
// the event log.
func WithActor(ctx context.Context, actor Principal) context.Context {
	return context.WithValue(ctx, contextKeyActor, actor)
}

// GetActor retrieves the acting principal from context. Returns Nobody
// if not set.
func GetActor(ctx context.Context) Principal {
	if v := ctx.Value(contextKeyActor); v != nil {
		if p, ok := v.(Principal); ok {
			return p
		}
	}
	return Nobody
}

// WithIPAddress adds the client IP address to the context (for the
// event log).
func WithIPAddress(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, contextKeyIPAddress, ip)
}

// GetIPAddress retrieves the IP address from context.
func GetIPAddress(ctx context.Context) string {
	if v := ctx.Value(contextKeyIPAddress); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// WithUserAgent adds the user agent to the context (for the event log).
func WithUserAgent(ctx context.Context, ua string) context.Context {
	return context.WithValue(ctx, contextKeyUserAgent, ua)
}

// GetUserAgent retrieves the user agent from context.
func GetUserAgent(ctx context.Context) string {
	if v := ctx.Value(contextKeyUserAgent); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// WithRequestID adds a request ID to the context (for the event log and
// correlation).
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextKeyRequestID, requestID)
}

// GetRequestID retrieves the request ID from context.
func GetRequestID(ctx context.Context) string {
	if v := ctx.Value(contextKeyRequestID); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// WithChecker adds a Checker to the context. This is set by middleware
// and can be retrieved in handlers.
func WithChecker(ctx context.Context, checker *Checker) context.Context {
	return context.WithValue(ctx, contextKeyChecker, checker)
}

// GetChecker retrieves the Checker from context. Returns nil if not
// set.
func GetChecker(ctx context.Context) *Checker {
	if v := ctx.Value(contextKeyChecker); v != nil {
		if c, ok := v.(*Checker); ok {
			return c
		}
	}
	return nil
}

// FromContext retrieves the Checker from context. Alias for GetChecker
// for convenience.
func FromContext(ctx context.Context) *Checker {
	return GetChecker(ctx)
}

// AuditContext holds all event-log metadata from context.
type AuditContext struct {
	Actor     Principal
	IPAddress string
	UserAgent string
	RequestID string
}

// GetAuditContext extracts all event-log metadata from context.
func GetAuditContext(ctx context.Context) AuditContext {
	return AuditContext{
		Actor:     GetActor(ctx),
		IPAddress: GetIPAddress(ctx),
		UserAgent: GetUserAgent(ctx),
		RequestID: GetRequestID(ctx),
	}
}

// WithAuditContext adds all event-log metadata to context at once.
func WithAuditContext(ctx context.Context, ac AuditContext) context.Context {
	if ac.Actor != Nobody {
		ctx = WithActor(ctx, ac.Actor)
	}
	if ac.IPAddress != "" {
		ctx = WithIPAddress(ctx, ac.IPAddress)
	}
	if ac.UserAgent != "" {
		ctx = WithUserAgent(ctx, ac.UserAgent)
	}
	if ac.RequestID != "" {
		ctx = WithRequestID(ctx, ac.RequestID)
	}
	return ctx
}
