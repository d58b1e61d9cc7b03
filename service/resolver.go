package service

import (
	"net/http"
	"time"

	"github.com/NicholasPaulCarl/zarbitrage-adminauth/codec"
	"github.com/NicholasPaulCarl/zarbitrage-adminauth/core"
)

// AttachOptions controls how Attach shapes an outgoing request.
type AttachOptions struct {
	// DisableCookies strips explicitly-set cookies from the request.
	// Session auth is ambient by default: cookies held in the HTTP
	// client's jar ride along unless the caller uses a jarless client.
	DisableCookies bool

	// Now overrides the instant used for the expiry check. Zero means
	// time.Now().
	Now time.Time
}

// Attach offers every usable credential on the outgoing request. The
// bearer header is set when a credential is present and unexpired; cookies
// are left alone unless explicitly disabled. When both modes end up on the
// wire the server is the arbiter of precedence — Attach never suppresses
// one mode in favor of the other. Inputs are never mutated; only the
// request descriptor is shaped.
func Attach(req *http.Request, cred *core.Credential, opts AttachOptions) {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	if cred != nil && !codec.IsExpired(*cred, now) {
		req.Header.Set("Authorization", "Bearer "+cred.Raw)
	}

	if opts.DisableCookies {
		req.Header.Del("Cookie")
	}
}
