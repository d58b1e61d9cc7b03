package service

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/NicholasPaulCarl/zarbitrage-adminauth/core"
)

// VerificationClient asks the server to confirm a credential is currently
// accepted and to resolve it to a principal. The client never judges the
// credential itself beyond carrying it; the server is the authority.
type VerificationClient struct {
	baseURL string
	http    *http.Client
}

// NewVerificationClient creates a verification client.
func NewVerificationClient(cfg Config) *VerificationClient {
	return &VerificationClient{
		baseURL: cfg.baseURL(),
		http:    cfg.httpClient(),
	}
}

// Verify sends the credential as a bearer header to the verification
// endpoint. Failures are always a *core.VerificationError: Transport when
// no usable response was obtained, Rejected when the server refused with a
// stated reason. Verify never clears stored state; that decision belongs
// to the caller.
func (c *VerificationClient) Verify(ctx context.Context, cred core.Credential) (*core.Principal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/verify-admin-token", nil)
	if err != nil {
		return nil, &core.VerificationError{Kind: core.FailureTransport, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+cred.Raw)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &core.VerificationError{Kind: core.FailureTransport, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &core.VerificationError{
			Kind:   core.FailureRejected,
			Detail: rejectionMessage(resp),
			Status: resp.StatusCode,
		}
	}

	var body struct {
		User core.Principal `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &core.VerificationError{Kind: core.FailureTransport, Err: err}
	}

	return &body.User, nil
}
