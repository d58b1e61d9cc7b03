package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/NicholasPaulCarl/zarbitrage-adminauth/codec"
	"github.com/NicholasPaulCarl/zarbitrage-adminauth/core"
)

// Step names, in the order they always run.
const (
	StepSessionStatus  = "session-status"
	StepSessionUser    = "session-user"
	StepTokenVerify    = "token-verify"
	StepProtectedProbe = "protected-probe"
)

// DefaultProbePath is the protected resource hit by step 4. Any /admin/*
// resource satisfies the contract; the concrete path is deployment detail.
const DefaultProbePath = "/admin/users"

// DiagnosticRunner cross-checks independent evidence of authentication
// state, because session and token auth can silently diverge. A run is
// strictly read-only: it never clears or rewrites the stored credential.
type DiagnosticRunner struct {
	creds    *CredentialStore
	session  *SessionClient
	verifier *VerificationClient

	// ProbePath is the protected resource used by step 4.
	ProbePath string
}

// NewDiagnosticRunner creates a diagnostic runner.
func NewDiagnosticRunner(creds *CredentialStore, session *SessionClient, verifier *VerificationClient) *DiagnosticRunner {
	return &DiagnosticRunner{
		creds:     creds,
		session:   session,
		verifier:  verifier,
		ProbePath: DefaultProbePath,
	}
}

// Run executes the four probes in fixed order, awaiting each before the
// next so the credential used by step 3 is never racing step 4. One step's
// failure never aborts later steps, and a step that cannot run is recorded
// as Skipped rather than omitted, so reports from different runs stay
// structurally comparable. Each run returns a fresh report.
func (r *DiagnosticRunner) Run(ctx context.Context) *core.DiagnosticReport {
	report := &core.DiagnosticReport{
		ID:          uuid.New().String(),
		GeneratedAt: time.Now().UTC(),
	}

	// Step 1: session status.
	state, err := r.session.Debug(ctx)
	if err != nil {
		r.append(report, StepSessionStatus, core.OutcomeFailed, err.Error())
	} else {
		report.SessionAuthenticated = state.IsAuthenticated
		report.SessionID = state.SessionID
		r.append(report, StepSessionStatus, core.OutcomeOK,
			fmt.Sprintf("isAuthenticated=%t sessionId=%s", state.IsAuthenticated, state.SessionID))
	}

	// Step 2: resolve the user from the ambient session cookie alone.
	principal, err := r.session.CurrentUser(ctx)
	if err != nil {
		r.append(report, StepSessionUser, core.OutcomeFailed, err.Error())
	} else {
		r.append(report, StepSessionUser, core.OutcomeOK,
			fmt.Sprintf("resolved user %d (%s)", principal.ID, principal.Username))
	}

	// Steps 3 and 4 need the stored credential.
	cred, err := r.creds.Load(ctx)
	switch {
	case err != nil:
		r.append(report, StepTokenVerify, core.OutcomeFailed, err.Error())
		r.append(report, StepProtectedProbe, core.OutcomeSkipped, "credential unavailable")
		return report

	case cred == nil:
		r.append(report, StepTokenVerify, core.OutcomeSkipped, "no credential stored")
		r.append(report, StepProtectedProbe, core.OutcomeSkipped, "no credential stored")
		return report
	}

	report.TokenPresent = true

	// Step 3: server-side verification of the stored credential.
	resolved, err := r.verifier.Verify(ctx, *cred)
	if err != nil {
		r.append(report, StepTokenVerify, core.OutcomeFailed, err.Error())
	} else {
		report.TokenVerified = true
		r.append(report, StepTokenVerify, core.OutcomeOK,
			fmt.Sprintf("format=%s subject=%d user=%s remaining=%s",
				cred.Format, cred.SubjectID, resolved.Username,
				codec.Remaining(*cred, time.Now()).Truncate(time.Second)))
	}

	// Step 4: one protected-resource call with the token. Verifying and
	// being authorized are different facts; this records the second.
	if err := r.session.ProbeProtected(ctx, r.ProbePath, cred); err != nil {
		r.append(report, StepProtectedProbe, core.OutcomeFailed, err.Error())
	} else {
		r.append(report, StepProtectedProbe, core.OutcomeOK,
			fmt.Sprintf("GET %s authorized", r.ProbePath))
	}

	return report
}

func (r *DiagnosticRunner) append(report *core.DiagnosticReport, name string, outcome core.Outcome, detail string) {
	report.Steps = append(report.Steps, core.Step{Name: name, Outcome: outcome, Detail: detail})
}
