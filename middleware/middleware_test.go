package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	folioauth "github.com/devgmz/folioauth"
	"github.com/devgmz/folioauth/store"
)

// scriptedEndpoint serves canned responses for the manager under test.
type scriptedEndpoint struct {
	mu          sync.Mutex
	loginRes    folioauth.LoginResult
	whoAmIRes   folioauth.Principal
	whoAmIErr   error
	whoAmICalls int
}

func (s *scriptedEndpoint) Login(context.Context, folioauth.Credentials) (folioauth.LoginResult, error) {
	return s.loginRes, nil
}

func (s *scriptedEndpoint) Logout(context.Context, string) error { return nil }

func (s *scriptedEndpoint) WhoAmI(context.Context, string) (folioauth.Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.whoAmICalls++
	return s.whoAmIRes, s.whoAmIErr
}

// recordingNavigator captures navigation side effects.
type recordingNavigator struct {
	mu      sync.Mutex
	path    string
	targets []string
	queries []url.Values
}

func (n *recordingNavigator) Navigate(path string, query url.Values) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.path = path
	n.targets = append(n.targets, path)
	n.queries = append(n.queries, query)
}

func (n *recordingNavigator) CurrentPath() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.path
}

func (n *recordingNavigator) last(t *testing.T) (string, url.Values) {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.targets) == 0 {
		t.Fatal("no navigation occurred")
	}
	return n.targets[len(n.targets)-1], n.queries[len(n.queries)-1]
}

func (n *recordingNavigator) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.targets)
}

func principalWith(role folioauth.Role) folioauth.Principal {
	return folioauth.Principal{ID: 1, Name: "Ada", Email: "a@b.com", Role: role}
}

func loggedInManager(t *testing.T, role folioauth.Role) (*folioauth.Manager, *scriptedEndpoint) {
	t.Helper()
	ep := &scriptedEndpoint{
		loginRes:  folioauth.LoginResult{Principal: principalWith(role), Token: "tok-1"},
		whoAmIRes: principalWith(role),
	}
	mgr, err := folioauth.New().
		WithEndpoint(ep).
		WithStore(store.NewMemStore()).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(mgr.Close)

	if _, err := mgr.Login(context.Background(), folioauth.Credentials{Email: "a@b.com", Password: "pw"}); err != nil {
		t.Fatal(err)
	}
	return mgr, ep
}

func emptyManager(t *testing.T) *folioauth.Manager {
	t.Helper()
	mgr, err := folioauth.New().
		WithEndpoint(&scriptedEndpoint{}).
		WithStore(store.NewMemStore()).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(mgr.Close)
	return mgr
}

/*
====================================
AUTHENTICATOR
====================================
*/

func TestAuthenticatorAttachesWithinPrefix(t *testing.T) {
	var gotAuth, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	mgr, _ := loggedInManager(t, folioauth.RoleOperator)
	nav := &recordingNavigator{}
	client := &http.Client{Transport: NewAuthenticator(mgr, nav, nil)}

	resp, err := client.Get(srv.URL + "/api/admin/works")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if gotAuth != "Bearer tok-1" {
		t.Errorf("Authorization = %q, want the bearer token", gotAuth)
	}
	if gotAccept != "application/json" {
		t.Errorf("Accept = %q", gotAccept)
	}
	if got := mgr.Metrics().Value(folioauth.MetricTokenAttached); got != 1 {
		t.Errorf("token attached counter = %d, want 1", got)
	}
}

func TestAuthenticatorPassthroughOutsidePrefix(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusUnauthorized) // must trigger nothing
	}))
	defer srv.Close()

	mgr, _ := loggedInManager(t, folioauth.RoleOperator)
	nav := &recordingNavigator{}
	client := &http.Client{Transport: NewAuthenticator(mgr, nav, nil)}

	resp, err := client.Get(srv.URL + "/public/health")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if gotAuth != "" {
		t.Errorf("Authorization = %q, want none outside the protected prefix", gotAuth)
	}
	if !mgr.IsAuthenticated() {
		t.Error("a 401 outside the prefix must not tear the session down")
	}
	if nav.count() != 0 {
		t.Error("a 401 outside the prefix must not redirect")
	}
}

func TestAuthenticatorNoTokenNoHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	mgr := emptyManager(t)
	client := &http.Client{Transport: NewAuthenticator(mgr, &recordingNavigator{}, nil)}

	resp, err := client.Get(srv.URL + "/api/admin/works")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if gotAuth != "" {
		t.Errorf("Authorization = %q, want none without a session", gotAuth)
	}
}

func TestAuthenticatorUnauthorizedTeardown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	mgr, ep := loggedInManager(t, folioauth.RoleOperator)
	nav := &recordingNavigator{path: "/admin/works"}
	client := &http.Client{Transport: NewAuthenticator(mgr, nav, nil)}

	resp, err := client.Get(srv.URL + "/api/admin/works")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	// The caller still sees the 401 unchanged.
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want the original 401", resp.StatusCode)
	}

	// Exactly one local teardown, no remote logout.
	if mgr.IsAuthenticated() || mgr.Token() != "" {
		t.Error("session must be torn down after a 401")
	}
	if got := mgr.Metrics().Value(folioauth.MetricUnauthorizedTeardown); got != 1 {
		t.Errorf("teardown counter = %d, want exactly 1", got)
	}
	ep.mu.Lock()
	calls := ep.whoAmICalls
	ep.mu.Unlock()
	if calls != 0 {
		t.Error("teardown must not trigger extra endpoint traffic")
	}

	// Redirect to login carrying where the user was.
	target, q := nav.last(t)
	if target != "/admin/login" {
		t.Errorf("redirect target = %q, want the login view", target)
	}
	if got := q.Get("returnUrl"); got != "/admin/works" {
		t.Errorf("returnUrl = %q, want the current location", got)
	}
}

func TestAuthenticatorUnauthorizedOnLoginView(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	mgr, _ := loggedInManager(t, folioauth.RoleOperator)
	nav := &recordingNavigator{path: "/admin/login"}
	client := &http.Client{Transport: NewAuthenticator(mgr, nav, nil)}

	resp, err := client.Get(srv.URL + "/api/admin/works")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if mgr.IsAuthenticated() {
		t.Error("session must still be torn down")
	}
	if nav.count() != 0 {
		t.Error("already on the login view, no redirect expected")
	}
}

func TestAuthenticatorForbiddenKeepsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	mgr, _ := loggedInManager(t, folioauth.RoleOperator)
	nav := &recordingNavigator{path: "/admin/settings"}
	client := &http.Client{Transport: NewAuthenticator(mgr, nav, nil)}

	resp, err := client.Get(srv.URL + "/api/admin/settings")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want the original 403", resp.StatusCode)
	}

	// The session is valid, only the privilege is missing.
	if !mgr.IsAuthenticated() || mgr.Token() != "tok-1" {
		t.Error("a 403 must keep the session intact")
	}

	target, q := nav.last(t)
	if target != "/admin/dashboard" {
		t.Errorf("redirect target = %q, want the landing view", target)
	}
	if got := q.Get("error"); got != "insufficient_permissions" {
		t.Errorf("error query = %q", got)
	}
}

func TestAuthenticatorDoesNotMutateCallerRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	mgr, _ := loggedInManager(t, folioauth.RoleOperator)
	rt := NewAuthenticator(mgr, &recordingNavigator{}, nil)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/admin/works", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := rt.RoundTrip(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if req.Header.Get("Authorization") != "" {
		t.Error("the caller's request must not be mutated")
	}
}

/*
====================================
GUARD
====================================
*/

func TestGuardUnauthenticated(t *testing.T) {
	mgr := emptyManager(t)
	nav := &recordingNavigator{}
	guard := NewGuard(mgr, nav)

	_, ok := guard.Evaluate(context.Background(), Route{Path: "/admin/works"})
	if ok {
		t.Fatal("Evaluate() = true, want denial without a session")
	}

	target, q := nav.last(t)
	if target != "/admin/login" {
		t.Errorf("redirect target = %q, want the login view", target)
	}
	if got := q.Get("returnUrl"); got != "/admin/works" {
		t.Errorf("returnUrl = %q, want the attempted path", got)
	}
	if got := mgr.Metrics().Value(folioauth.MetricGuardDenied); got != 1 {
		t.Errorf("guard denied counter = %d, want 1", got)
	}
}

func TestGuardRoleRequirement(t *testing.T) {
	tests := []struct {
		name      string
		role      folioauth.Role
		required  folioauth.Role
		wantAllow bool
	}{
		{"operator on open route", folioauth.RoleOperator, "", true},
		{"operator on operator route", folioauth.RoleOperator, folioauth.RoleOperator, true},
		{"operator on super route", folioauth.RoleOperator, folioauth.RoleSuperOperator, false},
		{"super on super route", folioauth.RoleSuperOperator, folioauth.RoleSuperOperator, true},
		{"super on operator route", folioauth.RoleSuperOperator, folioauth.RoleOperator, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mgr, _ := loggedInManager(t, tt.role)
			nav := &recordingNavigator{}
			guard := NewGuard(mgr, nav)

			ctx, ok := guard.Evaluate(context.Background(), Route{
				Path:         "/admin/settings",
				RequiredRole: tt.required,
			})
			if ok != tt.wantAllow {
				t.Fatalf("Evaluate() = %v, want %v", ok, tt.wantAllow)
			}

			if tt.wantAllow {
				p, pok := folioauth.PrincipalFromContext(ctx)
				if !pok || p.Role != tt.role {
					t.Error("allowed context should carry the principal")
				}
				if nav.count() != 0 {
					t.Error("allow must not navigate")
				}
				return
			}

			// Denied but authenticated: landing redirect, session intact.
			target, q := nav.last(t)
			if target != "/admin/dashboard" {
				t.Errorf("redirect target = %q, want the landing view", target)
			}
			if got := q.Get("error"); got != "insufficient_permissions" {
				t.Errorf("error query = %q", got)
			}
			if !mgr.IsAuthenticated() {
				t.Error("privilege denial must keep the session")
			}
		})
	}
}

func TestGuardDoubleCheck(t *testing.T) {
	t.Run("server confirms", func(t *testing.T) {
		mgr, ep := loggedInManager(t, folioauth.RoleOperator)
		guard := NewGuard(mgr, &recordingNavigator{})

		_, ok := guard.Evaluate(context.Background(), Route{Path: "/admin/works", DoubleCheck: true})
		if !ok {
			t.Fatal("Evaluate() = false, want allow after server confirmation")
		}

		ep.mu.Lock()
		calls := ep.whoAmICalls
		ep.mu.Unlock()
		if calls != 1 {
			t.Errorf("WhoAmI calls = %d, want exactly 1 per evaluation", calls)
		}
	})

	t.Run("server rejects", func(t *testing.T) {
		mgr, ep := loggedInManager(t, folioauth.RoleOperator)
		ep.mu.Lock()
		ep.whoAmIErr = folioauth.ErrUnauthorized
		ep.mu.Unlock()

		nav := &recordingNavigator{}
		guard := NewGuard(mgr, nav)

		_, ok := guard.Evaluate(context.Background(), Route{Path: "/admin/works", DoubleCheck: true})
		if ok {
			t.Fatal("Evaluate() = true, want denial after server rejection")
		}
		if mgr.IsAuthenticated() {
			t.Error("rejected validation must clear the session")
		}
		if target, _ := nav.last(t); target != "/admin/login" {
			t.Errorf("redirect target = %q, want the login view", target)
		}
	})
}
