package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/NicholasPaulCarl/zarbitrage-adminauth/core"
)

// SessionClient queries the server's session boundary: the cookie-based
// auth status, the session-resolved user, logout, and the protected
// resource probe the diagnostic pipeline uses. Session state is always
// fetched fresh; this client never caches it.
type SessionClient struct {
	baseURL string
	http    *http.Client
}

// NewSessionClient creates a session client.
func NewSessionClient(cfg Config) *SessionClient {
	return &SessionClient{
		baseURL: cfg.baseURL(),
		http:    cfg.httpClient(),
	}
}

// Debug queries the unauthenticated session-status endpoint.
func (c *SessionClient) Debug(ctx context.Context) (core.SessionState, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/debug", nil)
	if err != nil {
		return core.SessionState{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return core.SessionState{}, fmt.Errorf("session status: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return core.SessionState{}, fmt.Errorf("session status: %s", rejectionMessage(resp))
	}

	var state core.SessionState
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		return core.SessionState{}, fmt.Errorf("session status: %w", err)
	}
	return state, nil
}

// CurrentUser resolves the principal behind the ambient session cookie
// only; no bearer header is sent.
func (c *SessionClient) CurrentUser(ctx context.Context) (*core.Principal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/user", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("session user: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("session user: %s", rejectionMessage(resp))
	}

	var principal core.Principal
	if err := json.NewDecoder(resp.Body).Decode(&principal); err != nil {
		return nil, fmt.Errorf("session user: %w", err)
	}
	return &principal, nil
}

// Logout clears the server-side session.
func (c *SessionClient) Logout(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/logout", nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("logout: %s", rejectionMessage(resp))
	}
	return nil
}

// ProbeProtected performs one call against a protected resource with the
// given credential attached. It distinguishes "the token verifies" from
// "the token is actually authorized for protected resources".
func (c *SessionClient) ProbeProtected(ctx context.Context, path string, cred *core.Credential) error {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	// The probe sends the token verbatim, expired or not, so the outcome
	// reflects the server's own judgment rather than a client-side guess.
	if cred != nil {
		req.Header.Set("Authorization", "Bearer "+cred.Raw)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("protected probe: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("protected probe: %s", rejectionMessage(resp))
	}
	return nil
}
