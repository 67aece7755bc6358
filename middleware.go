package roletree

import (
	"net/http"
)

// Middleware provides HTTP middleware for hierarchy-aware role checks.
type Middleware struct {
	service      *Service
	getPrincipal PrincipalExtractor
	errorHandler func(http.ResponseWriter, *http.Request, error)
}

// MiddlewareOption configures the Middleware.
type MiddlewareOption func(*Middleware)

// PrincipalExtractor extracts the requesting principal from an HTTP
// request.
type PrincipalExtractor func(*http.Request) Principal

// NewMiddleware creates a new Middleware instance.
//
// Example:
//
//	mw := roletree.NewMiddleware(svc,
//	    roletree.WithPrincipalExtractor(roletree.PrincipalFromHeader("X-Principal")),
//	)
func NewMiddleware(service *Service, opts ...MiddlewareOption) *Middleware {
	m := &Middleware{
		service:      service,
		getPrincipal: defaultGetPrincipal,
		errorHandler: defaultErrorHandler,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// WithPrincipalExtractor sets a custom principal extractor.
func WithPrincipalExtractor(fn PrincipalExtractor) MiddlewareOption {
	return func(m *Middleware) {
		m.getPrincipal = fn
	}
}

// WithErrorHandler sets a custom error handler for middleware.
func WithErrorHandler(fn func(http.ResponseWriter, *http.Request, error)) MiddlewareOption {
	return func(m *Middleware) {
		m.errorHandler = fn
	}
}

func defaultGetPrincipal(r *http.Request) Principal {
	return GetActor(r.Context())
}

func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case IsUnauthorized(err):
		http.Error(w, "Forbidden", http.StatusForbidden)
	case IsNoRoleAssigned(err) || err == ErrInvalidPrincipal:
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	default:
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// PrincipalFromHeader creates a PrincipalExtractor that reads the
// principal from a request header.
//
// Example:
//
//	roletree.PrincipalFromHeader("X-Principal")
func PrincipalFromHeader(headerName string) PrincipalExtractor {
	return func(r *http.Request) Principal {
		return Principal(r.Header.Get(headerName))
	}
}

// PrincipalFromContext creates a PrincipalExtractor that reads the
// principal from a context value set by upstream auth middleware.
func PrincipalFromContext(key any) PrincipalExtractor {
	return func(r *http.Request) Principal {
		if v := r.Context().Value(key); v != nil {
			switch p := v.(type) {
			case Principal:
				return p
			case string:
				return Principal(p)
			}
		}
		return Nobody
	}
}

// RequireRole creates middleware that requires the requesting principal
// to be able to act as the given role.
//
// Example:
//
//	router.With(mw.RequireRole(managerRole)).
//	    Post("/teams/{teamID}/members", addMemberHandler)
func (m *Middleware) RequireRole(role Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := m.getPrincipal(r)
			if principal.IsNobody() {
				m.errorHandler(w, r, ErrInvalidPrincipal)
				return
			}

			if !m.service.CanActAs(principal, role) {
				m.errorHandler(w, r, NewError(ErrUnauthorized, "missing required role").
					WithActor(principal).
					WithRole(role))
				return
			}

			ctx := WithChecker(r.Context(), m.service.Checker(principal))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAnyRole creates middleware that requires the requesting
// principal to be able to act as any of the given roles.
//
// Example:
//
//	router.With(mw.RequireAnyRole(billingRole, adminRole)).
//	    Get("/invoices", listInvoicesHandler)
func (m *Middleware) RequireAnyRole(roles ...Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := m.getPrincipal(r)
			if principal.IsNobody() {
				m.errorHandler(w, r, ErrInvalidPrincipal)
				return
			}

			if !m.service.Checker(principal).CanAny(roles...) {
				m.errorHandler(w, r, NewError(ErrUnauthorized, "missing required role").
					WithActor(principal))
				return
			}

			ctx := WithChecker(r.Context(), m.service.Checker(principal))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// LoadChecker creates middleware that loads the principal's Checker
// into context without enforcing anything. Use this when you want to
// decide in the handler.
//
// Example:
//
//	router.With(mw.LoadChecker()).Get("/dashboard", dashboardHandler)
//
//	func dashboardHandler(w http.ResponseWriter, r *http.Request) {
//	    checker := roletree.FromContext(r.Context())
//	    if checker != nil && checker.Can(adminRole) {
//	        // show admin features
//	    }
//	}
func (m *Middleware) LoadChecker() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := m.getPrincipal(r)
			if principal.IsNobody() {
				// No principal, continue without checker
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithChecker(r.Context(), m.service.Checker(principal))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// InjectAuditContext creates middleware that extracts request metadata
// and the acting principal into the context, so Grant/Revoke calls
// made by downstream handlers are attributed in the event log.
//
// Example:
//
//	router.Use(mw.InjectAuditContext())
func (m *Middleware) InjectAuditContext() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			ip := r.Header.Get("X-Forwarded-For")
			if ip == "" {
				ip = r.Header.Get("X-Real-IP")
			}
			if ip == "" {
				ip = r.RemoteAddr
			}
			ctx = WithIPAddress(ctx, ip)
			ctx = WithUserAgent(ctx, r.UserAgent())

			if requestID := r.Header.Get("X-Request-ID"); requestID != "" {
				ctx = WithRequestID(ctx, requestID)
			}

			if principal := m.getPrincipal(r); !principal.IsNobody() {
				ctx = WithActor(ctx, principal)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
