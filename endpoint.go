package folioauth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// httpEndpoint is the default Endpoint implementation, speaking the admin
// API's JSON wire format.
type httpEndpoint struct {
	cfg    EndpointConfig
	client *http.Client
}

func newHTTPEndpoint(cfg EndpointConfig, client *http.Client) *httpEndpoint {
	if client == nil {
		client = &http.Client{}
	}
	if cfg.Timeout > 0 && client.Timeout == 0 {
		cp := *client
		cp.Timeout = cfg.Timeout
		client = &cp
	}
	return &httpEndpoint{cfg: cfg, client: client}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User      Principal `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt string    `json:"expires_at"`
}

// Login performs one login round trip. No retries: login is user-initiated
// and retried only by a new explicit call.
func (e *httpEndpoint) Login(ctx context.Context, creds Credentials) (LoginResult, error) {
	body, err := json.Marshal(loginRequest{Email: creds.Email, Password: creds.Password})
	if err != nil {
		return LoginResult{}, fmt.Errorf("%w: %v", ErrServerError, err)
	}

	resp, err := e.do(ctx, http.MethodPost, e.cfg.LoginPath, "", bytes.NewReader(body))
	if err != nil {
		return LoginResult{}, err
	}
	defer drain(resp)

	if err := classifyStatus(resp.StatusCode); err != nil {
		return LoginResult{}, err
	}

	var lr loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return LoginResult{}, fmt.Errorf("%w: malformed login response", ErrServerError)
	}
	if lr.Token == "" || lr.User.ID == 0 {
		return LoginResult{}, fmt.Errorf("%w: incomplete login response", ErrServerError)
	}

	out := LoginResult{Principal: lr.User, Token: lr.Token}
	if lr.ExpiresAt != "" {
		if t, perr := time.Parse(time.RFC3339, lr.ExpiresAt); perr == nil {
			out.ExpiresAt = t
		}
	}
	return out, nil
}

// Logout notifies the endpoint that the bearer session ends. Callers treat
// any failure as non-fatal; teardown is fail-open.
func (e *httpEndpoint) Logout(ctx context.Context, bearer string) error {
	resp, err := e.do(ctx, http.MethodPost, e.cfg.LogoutPath, bearer, nil)
	if err != nil {
		return err
	}
	defer drain(resp)
	return classifyStatus(resp.StatusCode)
}

// WhoAmI fetches the principal the bearer token authenticates.
func (e *httpEndpoint) WhoAmI(ctx context.Context, bearer string) (Principal, error) {
	resp, err := e.do(ctx, http.MethodGet, e.cfg.ProfilePath, bearer, nil)
	if err != nil {
		return Principal{}, err
	}
	defer drain(resp)

	if err := classifyStatus(resp.StatusCode); err != nil {
		return Principal{}, err
	}

	var p Principal
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return Principal{}, fmt.Errorf("%w: malformed profile response", ErrServerError)
	}
	if p.ID == 0 {
		return Principal{}, fmt.Errorf("%w: incomplete profile response", ErrServerError)
	}
	return p, nil
}

func (e *httpEndpoint) do(ctx context.Context, method, path, bearer string, body io.Reader) (*http.Response, error) {
	url := strings.TrimRight(e.cfg.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServerError, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		// Connection refused, DNS failure, timeout: the endpoint was never
		// reached, so the failure is transport-level.
		return nil, fmt.Errorf("%w: %v", ErrNetworkUnavailable, err)
	}
	return resp, nil
}

// classifyStatus maps an HTTP status to the package error taxonomy. A nil
// return means success.
func classifyStatus(status int) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized:
		return ErrUnauthorized
	case status == http.StatusForbidden:
		return ErrForbidden
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		// Validation failures mean the submitted input was wrong.
		return ErrInvalidCredentials
	default:
		// Any other 4xx (404, 405, 429) means the endpoint itself misbehaved
		// or throttled; it is never a credential problem the user can fix.
		return ErrServerError
	}
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
	_ = resp.Body.Close()
}
