package core

import "time"

// Outcome is the result of a single diagnostic step.
type Outcome string

const (
	OutcomeOK      Outcome = "ok"
	OutcomeFailed  Outcome = "failed"
	OutcomeSkipped Outcome = "skipped"
)

// Step is one entry in a diagnostic report. A step that could not run is
// recorded as Skipped rather than omitted, so reports from different runs
// are always structurally comparable.
type Step struct {
	Name    string  `json:"name"`
	Outcome Outcome `json:"outcome"`
	Detail  string  `json:"detail,omitempty"`
}

// DiagnosticReport aggregates independent probes of session and token
// state. Each run produces a fresh report; a report is never mutated after
// construction.
type DiagnosticReport struct {
	ID          string    `json:"id"`
	GeneratedAt time.Time `json:"generatedAt"`
	Steps       []Step    `json:"steps"`

	// Summary facts recorded while the steps ran, so callers can
	// interpret the run without re-parsing step details.
	SessionAuthenticated bool   `json:"sessionAuthenticated"`
	SessionID            string `json:"sessionId,omitempty"`
	TokenPresent         bool   `json:"tokenPresent"`
	TokenVerified        bool   `json:"tokenVerified"`
}

// Assessment classifies the combination of session and token evidence.
type Assessment string

const (
	// AssessmentOptimal means both auth modes are present and agree.
	AssessmentOptimal Assessment = "optimal"

	// AssessmentMissingToken means the session is valid but no usable
	// token exists.
	AssessmentMissingToken Assessment = "missing token, session active"

	// AssessmentStaleSession means a valid token exists but the session
	// is not authenticated; the two modes have silently diverged.
	AssessmentStaleSession Assessment = "token present but session stale"

	// AssessmentUnauthenticated means neither mode holds.
	AssessmentUnauthenticated Assessment = "unauthenticated"
)

// Assess derives the interpretation of a report. It reads the report's
// recorded facts and never modifies it.
func Assess(r *DiagnosticReport) Assessment {
	switch {
	case r.SessionAuthenticated && r.TokenVerified:
		return AssessmentOptimal
	case r.SessionAuthenticated:
		return AssessmentMissingToken
	case r.TokenVerified:
		return AssessmentStaleSession
	default:
		return AssessmentUnauthenticated
	}
}
