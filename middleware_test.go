package roletree

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// middlewareFixture builds Root(g0) -> MANAGER(alice) -> USER(bob) and
// a Middleware reading the principal from X-Principal.
func middlewareFixture(t *testing.T) (*Middleware, Role, Role) {
	t.Helper()
	svc := New(NewMemoryRegistry())
	ctx := context.Background()
	manager := NewRole("MANAGER")
	user := NewRole("USER")

	require.NoError(t, svc.Grant(ctx, "g0", Root))
	require.NoError(t, svc.Grant(WithActor(ctx, Principal("g0")), "alice", manager))
	require.NoError(t, svc.GrantUnder(WithActor(ctx, Principal("alice")), "bob", user, manager))

	mw := NewMiddleware(svc, WithPrincipalExtractor(PrincipalFromHeader("X-Principal")))
	return mw, manager, user
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func doRequest(handler http.Handler, principal string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if principal != "" {
		req.Header.Set("X-Principal", principal)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRequireRole(t *testing.T) {
	mw, manager, user := middlewareFixture(t)
	handler := mw.RequireRole(user)(okHandler())

	// bob holds USER, alice holds its ancestor, g0 holds Root.
	assert.Equal(t, http.StatusOK, doRequest(handler, "bob").Code)
	assert.Equal(t, http.StatusOK, doRequest(handler, "alice").Code)
	assert.Equal(t, http.StatusOK, doRequest(handler, "g0").Code)

	// Strangers and missing principals are refused.
	assert.Equal(t, http.StatusForbidden, doRequest(handler, "stranger").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(handler, "").Code)

	// bob cannot reach a MANAGER-gated route.
	managerOnly := mw.RequireRole(manager)(okHandler())
	assert.Equal(t, http.StatusForbidden, doRequest(managerOnly, "bob").Code)
}

func TestRequireRoleLoadsChecker(t *testing.T) {
	mw, _, user := middlewareFixture(t)

	var seen *Checker
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	doRequest(mw.RequireRole(user)(inner), "bob")
	require.NotNil(t, seen)
	assert.Equal(t, Principal("bob"), seen.Principal())
}

func TestRequireAnyRole(t *testing.T) {
	mw, manager, user := middlewareFixture(t)
	handler := mw.RequireAnyRole(manager, user)(okHandler())

	assert.Equal(t, http.StatusOK, doRequest(handler, "bob").Code)
	assert.Equal(t, http.StatusOK, doRequest(handler, "alice").Code)
	assert.Equal(t, http.StatusForbidden, doRequest(handler, "stranger").Code)
}

func TestLoadChecker(t *testing.T) {
	mw, manager, _ := middlewareFixture(t)

	var seen *Checker
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := mw.LoadChecker()(inner)

	// With a principal the checker is available and enforces nothing.
	rec := doRequest(handler, "bob")
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.False(t, seen.Can(manager))

	// Without a principal the request still goes through.
	seen = nil
	rec = doRequest(handler, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, seen)
}

func TestInjectAuditContext(t *testing.T) {
	mw, _, _ := middlewareFixture(t)

	var captured AuditContext
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetAuditContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := mw.InjectAuditContext()(inner)

	req := httptest.NewRequest(http.MethodPost, "/grant", nil)
	req.Header.Set("X-Principal", "g0")
	req.Header.Set("X-Forwarded-For", "10.0.0.1")
	req.Header.Set("X-Request-ID", "req-7")
	req.Header.Set("User-Agent", "test-agent")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, Principal("g0"), captured.Actor)
	assert.Equal(t, "10.0.0.1", captured.IPAddress)
	assert.Equal(t, "test-agent", captured.UserAgent)
	assert.Equal(t, "req-7", captured.RequestID)
}

func TestCustomErrorHandler(t *testing.T) {
	svc := New(NewMemoryRegistry())
	require.NoError(t, svc.Grant(context.Background(), "g0", Root))
	manager := NewRole("MANAGER")

	var handled error
	mw := NewMiddleware(svc,
		WithPrincipalExtractor(PrincipalFromHeader("X-Principal")),
		WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			handled = err
			w.WriteHeader(http.StatusTeapot)
		}),
	)

	handler := mw.RequireRole(manager)(okHandler())
	rec := doRequest(handler, "stranger")

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.True(t, IsUnauthorized(handled))
}

func TestPrincipalFromContext(t *testing.T) {
	type key struct{}
	extract := PrincipalFromContext(key{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, Nobody, extract(req))

	req = req.WithContext(context.WithValue(req.Context(), key{}, "alice"))
	assert.Equal(t, Principal("alice"), extract(req))

	req = req.WithContext(context.WithValue(req.Context(), key{}, Principal("bob")))
	assert.Equal(t, Principal("bob"), extract(req))
}
