package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/NicholasPaulCarl/zarbitrage-adminauth/codec"
	"github.com/NicholasPaulCarl/zarbitrage-adminauth/core"
)

// Issuance is the result of a successful credential exchange.
type Issuance struct {
	RawToken             string
	Credential           core.Credential
	Principal            core.Principal
	SessionID            string
	SessionAuthenticated bool
}

// IssuanceClient exchanges a username/password pair for a freshly minted
// credential.
type IssuanceClient struct {
	baseURL string
	http    *http.Client
	session *SessionClient
}

// NewIssuanceClient creates an issuance client. It shares the HTTP client
// (and therefore the cookie jar) with a session client so the logout-first
// sequencing operates on the same session.
func NewIssuanceClient(cfg Config) *IssuanceClient {
	httpClient := cfg.httpClient()
	return &IssuanceClient{
		baseURL: cfg.baseURL(),
		http:    httpClient,
		session: NewSessionClient(Config{BaseURL: cfg.BaseURL, HTTPClient: httpClient}),
	}
}

// Issue exchanges the operator's username/password for a new credential.
// It clears any prior server session first, so the server issues a token
// bound to a clean session context rather than layering onto a stale one.
// The caller is responsible for persisting the returned raw token.
func (c *IssuanceClient) Issue(ctx context.Context, username, password string) (*Issuance, error) {
	// Best effort: a failed logout must not block issuance of a fresh
	// credential, and the issuance endpoint replaces the session anyway.
	_ = c.session.Logout(ctx)

	payload, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return nil, &core.IssuanceError{Kind: core.FailureTransport, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/admin-token", bytes.NewReader(payload))
	if err != nil {
		return nil, &core.IssuanceError{Kind: core.FailureTransport, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &core.IssuanceError{Kind: core.FailureTransport, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &core.IssuanceError{
			Kind:   core.FailureRejected,
			Detail: rejectionMessage(resp),
			Status: resp.StatusCode,
		}
	}

	var body struct {
		AdminToken           string         `json:"adminToken"`
		User                 core.Principal `json:"user"`
		SessionID            string         `json:"sessionId"`
		SessionAuthenticated bool           `json:"sessionAuthenticated"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &core.IssuanceError{Kind: core.FailureTransport, Err: err}
	}

	return &Issuance{
		RawToken:             body.AdminToken,
		Credential:           codec.Decode(body.AdminToken),
		Principal:            body.User,
		SessionID:            body.SessionID,
		SessionAuthenticated: body.SessionAuthenticated,
	}, nil
}
