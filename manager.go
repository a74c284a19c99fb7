package folioauth

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"github.com/devgmz/folioauth/state"
	"github.com/devgmz/folioauth/store"
	"github.com/devgmz/folioauth/token"
)

// Manager is the sole authority over Session State and the Credential
// Store. It creates sessions from credentials, restores them at startup,
// validates them against the endpoint, and tears them down.
//
// All methods are safe for concurrent use. Remote calls are one-shot with
// no automatic retry; the caller decides whether to try again.
type Manager struct {
	config   Config
	endpoint Endpoint
	store    store.Store
	state    *state.Holder
	audit    *auditDispatcher
	metrics  *Metrics
	closed   atomic.Bool
}

// Login exchanges credentials for a session. On success Session State is
// written and a credential record is persisted; on failure neither is
// touched and the returned error is one of [ErrInvalidCredentials],
// [ErrNetworkUnavailable], or [ErrServerError].
func (m *Manager) Login(ctx context.Context, creds Credentials) (Session, error) {
	if m.closed.Load() {
		return Session{}, ErrManagerClosed
	}

	res, err := m.endpoint.Login(ctx, creds)
	if err != nil {
		m.metrics.Inc(MetricLoginFailure)
		m.audit.Emit(ctx, AuditEvent{
			EventType: AuditLoginFailure,
			Email:     creds.Email,
			Error:     err.Error(),
		})
		return Session{}, normalizeLoginErr(err)
	}

	sess := Session{
		Principal: res.Principal,
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
	}
	if sess.ExpiresAt.IsZero() {
		if exp, derr := token.Expiry(res.Token); derr == nil {
			sess.ExpiresAt = exp
		}
	}

	m.state.Set(sess)
	m.persist(ctx, sess)

	m.metrics.Inc(MetricLoginSuccess)
	m.audit.Emit(ctx, AuditEvent{
		EventType:   AuditLoginSuccess,
		PrincipalID: res.Principal.ID,
		Email:       res.Principal.Email,
		Success:     true,
	})
	return sess, nil
}

// Logout tears the session down. The endpoint is notified best-effort;
// regardless of that call's outcome the local state and the credential
// store are cleared. Fail-open on teardown, fail-closed on establishment.
func (m *Manager) Logout(ctx context.Context) {
	bearer := m.state.Token()
	if bearer != "" {
		// An already-expired token makes this call fail; that must not keep
		// the local session alive.
		_ = m.endpoint.Logout(ctx, bearer)
	}

	m.clearAll(ctx)
	m.metrics.Inc(MetricLogout)
	m.audit.Emit(ctx, AuditEvent{EventType: AuditLogout, Success: true})
}

// Hydrate restores Session State from the credential store, once at process
// start. The restored session is trusted immediately without a network
// round trip; the next Validate or protected call corrects it if the server
// disagrees.
func (m *Manager) Hydrate(ctx context.Context) {
	rec, err := m.store.Load(ctx)
	if err != nil || rec == nil {
		m.metrics.Inc(MetricHydrateEmpty)
		m.audit.Emit(ctx, AuditEvent{EventType: AuditHydrateEmpty})
		return
	}

	var p Principal
	if uerr := json.Unmarshal(rec.Principal, &p); uerr != nil || p.ID == 0 {
		// A corrupt principal blob means the record is unusable as a unit.
		_ = m.store.Clear(ctx)
		m.metrics.Inc(MetricHydrateEmpty)
		m.audit.Emit(ctx, AuditEvent{EventType: AuditHydrateEmpty})
		return
	}

	sess := Session{Principal: p, Token: rec.Token}
	if exp, derr := token.Expiry(rec.Token); derr == nil {
		sess.ExpiresAt = exp
	}

	m.state.Set(sess)
	m.metrics.Inc(MetricHydrateSuccess)
	m.audit.Emit(ctx, AuditEvent{
		EventType:   AuditHydrated,
		PrincipalID: p.ID,
		Success:     true,
	})
}

// Validate asks the endpoint whether the session is still good. Success
// refreshes the principal snapshot and returns true; any failure, network
// or server, clears Session State and the credential store as a unit and
// returns false. Safe to call concurrently; overlapping calls each perform
// their round trip and the final state reflects whichever completed last.
func (m *Manager) Validate(ctx context.Context) bool {
	bearer := m.state.Token()
	if bearer == "" {
		return false
	}

	start := time.Now()
	p, err := m.endpoint.WhoAmI(ctx, bearer)
	m.metrics.Observe(MetricValidateLatency, time.Since(start))

	if err != nil {
		m.clearAll(ctx)
		m.metrics.Inc(MetricValidateFailure)
		m.audit.Emit(ctx, AuditEvent{
			EventType: AuditValidateFailure,
			Error:     err.Error(),
		})
		return false
	}

	sess := Session{Principal: p, Token: bearer}
	if exp, derr := token.Expiry(bearer); derr == nil {
		sess.ExpiresAt = exp
	}
	m.state.Set(sess)
	m.persist(ctx, sess)

	m.metrics.Inc(MetricValidateSuccess)
	m.audit.Emit(ctx, AuditEvent{
		EventType:   AuditValidateSuccess,
		PrincipalID: p.ID,
		Success:     true,
	})
	return true
}

// Invalidate clears Session State and the credential store without
// notifying the endpoint. The request authenticator uses it when a 401
// proves the server already considers the session dead.
func (m *Manager) Invalidate(ctx context.Context) {
	m.clearAll(ctx)
	m.metrics.Inc(MetricUnauthorizedTeardown)
	m.audit.Emit(ctx, AuditEvent{EventType: AuditUnauthorizedTeardown, Success: true})
}

// Token returns the current bearer token, or "" when not authenticated.
func (m *Manager) Token() string {
	return m.state.Token()
}

// Principal returns the current principal, or nil when not authenticated.
func (m *Manager) Principal() *Principal {
	return m.state.Principal()
}

// Current returns a copy of the current session, or nil.
func (m *Manager) Current() *Session {
	return m.state.Current()
}

// IsAuthenticated reports whether a complete session is present whose known
// expiry has not passed. Local optimistic check only; no network call.
func (m *Manager) IsAuthenticated() bool {
	return m.state.IsAuthenticated(time.Now())
}

// HasRole reports whether the current principal satisfies the required
// role. A super operator satisfies any requirement.
func (m *Manager) HasRole(required Role) bool {
	p := m.state.Principal()
	return p != nil && p.Role.Satisfies(required)
}

// Subscribe registers an observer of session transitions. The latest value
// is replayed immediately.
func (m *Manager) Subscribe() *Subscription {
	return m.state.Subscribe()
}

// Routes returns the configured view paths, for middleware construction.
func (m *Manager) Routes() RoutesConfig {
	return m.config.Routes
}

// ProtectedPrefix returns the protected API path prefix.
func (m *Manager) ProtectedPrefix() string {
	return m.config.Protect.Prefix
}

// MetricsSnapshot returns a point-in-time copy of all metrics.
func (m *Manager) MetricsSnapshot() MetricsSnapshot {
	return m.metrics.Snapshot()
}

// AuditDropped reports audit events discarded under backpressure.
func (m *Manager) AuditDropped() uint64 {
	return m.audit.Dropped()
}

// Metrics returns the manager's metrics instance so pipeline stages can
// record their own counters.
func (m *Manager) Metrics() *Metrics {
	return m.metrics
}

// Auditor returns the manager's audit emitter for pipeline stages. The
// returned emitter is a no-op when auditing is disabled.
func (m *Manager) Auditor() AuditEmitter {
	return m.audit
}

// Close flushes the audit dispatcher. The Manager must not be used after
// Close.
func (m *Manager) Close() {
	if m.closed.Swap(true) {
		return
	}
	m.audit.Close()
}

// persist writes the credential record mirroring the session just written
// to state. Persistence is best-effort: authentication already succeeded,
// so a failing backing only costs the next hydration, and the failure is
// recorded for the operator.
func (m *Manager) persist(ctx context.Context, sess Session) {
	blob, err := json.Marshal(sess.Principal)
	if err == nil {
		err = m.store.Save(ctx, store.Record{Token: sess.Token, Principal: blob})
	}
	if err != nil {
		m.audit.Emit(ctx, AuditEvent{
			EventType:   AuditStoreSaveFailed,
			PrincipalID: sess.Principal.ID,
			Error:       err.Error(),
		})
	}
}

// clearAll removes the session from state and store as a unit.
func (m *Manager) clearAll(ctx context.Context) {
	m.state.Clear()
	_ = m.store.Clear(ctx)
}

// normalizeLoginErr keeps the login error taxonomy closed: 401 from a stale
// concurrent session and other unexpected categories collapse into the
// credential failure the login form knows how to render.
func normalizeLoginErr(err error) error {
	switch {
	case errors.Is(err, ErrNetworkUnavailable),
		errors.Is(err, ErrServerError),
		errors.Is(err, ErrInvalidCredentials):
		return err
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrForbidden):
		return ErrInvalidCredentials
	default:
		return err
	}
}
