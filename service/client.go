// Package service implements the client side of the zarbitrage admin
// authentication contract: credential issuance, verification, request
// shaping, and the diagnostic pipeline that reconciles session state
// against token state.
package service

import (
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"
)

// Config carries the settings shared by every HTTP client in this package.
type Config struct {
	// BaseURL is the server root, e.g. "https://api.example.com".
	BaseURL string

	// HTTPClient performs the round-trips. When nil a jar-backed client
	// is created so the server session cookie rides along ambiently.
	// Callers that want one session across issuance, verification and
	// diagnostics must share a single client between them.
	HTTPClient *http.Client
}

func (c Config) baseURL() string {
	return strings.TrimRight(c.BaseURL, "/")
}

func (c Config) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return NewHTTPClient()
}

// NewHTTPClient returns a client with an ambient cookie jar. Session auth
// is cookie-correlated by contract, so the jar is what keeps the session
// alive between calls.
func NewHTTPClient() *http.Client {
	jar, _ := cookiejar.New(nil)
	return &http.Client{
		Jar:     jar,
		Timeout: 15 * time.Second,
	}
}

// errorBody is the 4xx response shape every auth endpoint uses.
type errorBody struct {
	Message string `json:"message"`
}

// rejectionMessage extracts the server's stated reason from a non-2xx
// response, falling back to the status line when the body is unusable.
func rejectionMessage(resp *http.Response) string {
	var body errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Message == "" {
		return resp.Status
	}
	return body.Message
}
