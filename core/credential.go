package core

import "time"

// Format identifies which historical encoding a credential was issued in.
type Format string

const (
	// FormatLegacy is the original 3-part encoding with an implicit
	// validity window.
	FormatLegacy Format = "legacy"

	// FormatEnhanced is the 5-part encoding carrying an explicit expiry
	// and a server-verifiable signature.
	FormatEnhanced Format = "enhanced"

	// FormatMalformed marks a string that decoded into neither shape.
	FormatMalformed Format = "malformed"
)

// Credential is the decoded administrative bearer token. A Credential is
// immutable once decoded; issuance produces a new value, never a mutation.
type Credential struct {
	Raw       string    // opaque wire string, persisted verbatim
	Format    Format    // encoding the Raw string decoded as
	SubjectID int       // user identifier; zero when Malformed
	IssuedAt  time.Time // zero for Malformed
	ExpiresAt time.Time // embedded (Enhanced) or derived (Legacy); zero for Malformed
	Signature string    // opaque, Enhanced only; verification is delegated to the server
}

// Principal is the resolved identity behind either auth mode.
type Principal struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
}

// SessionState is the server-asserted cookie-based authentication status.
// It is always fetched fresh from the server boundary, never owned here.
type SessionState struct {
	IsAuthenticated bool       `json:"isAuthenticated"`
	SessionID       string     `json:"sessionId"`
	Principal       *Principal `json:"user,omitempty"`
}
