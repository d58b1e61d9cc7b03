package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NicholasPaulCarl/zarbitrage-adminauth/codec"
	"github.com/NicholasPaulCarl/zarbitrage-adminauth/core"
)

func (f *fixture) runner() *DiagnosticRunner {
	return NewDiagnosticRunner(f.creds, NewSessionClient(f.cfg), NewVerificationClient(f.cfg))
}

func stepNames(r *core.DiagnosticReport) []string {
	names := make([]string, 0, len(r.Steps))
	for _, s := range r.Steps {
		names = append(names, s.Name)
	}
	return names
}

func TestDiagnosticStepOrderIsFixed(t *testing.T) {
	f := newFixture(t)

	report := f.runner().Run(context.Background())

	assert.Equal(t, []string{
		StepSessionStatus,
		StepSessionUser,
		StepTokenVerify,
		StepProtectedProbe,
	}, stepNames(report))
}

func TestDiagnosticNoCredentialSkipsTokenSteps(t *testing.T) {
	f := newFixture(t)

	report := f.runner().Run(context.Background())

	require.Len(t, report.Steps, 4)
	assert.Equal(t, core.OutcomeSkipped, report.Steps[2].Outcome)
	assert.Equal(t, core.OutcomeSkipped, report.Steps[3].Outcome)
	assert.False(t, report.TokenPresent)
	assert.Equal(t, core.AssessmentUnauthenticated, core.Assess(report))
}

func TestDiagnosticHealthySession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.authenticator(nil).Login(ctx, "root", "hunter2")
	require.NoError(t, err)

	report := f.runner().Run(ctx)

	require.Len(t, report.Steps, 4)
	for _, step := range report.Steps {
		assert.Equal(t, core.OutcomeOK, step.Outcome, "step %s: %s", step.Name, step.Detail)
	}
	assert.True(t, report.SessionAuthenticated)
	assert.NotEmpty(t, report.SessionID)
	assert.True(t, report.TokenPresent)
	assert.True(t, report.TokenVerified)
	assert.Equal(t, core.AssessmentOptimal, core.Assess(report))
}

func TestDiagnosticStaleSessionWithValidToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.authenticator(nil).Login(ctx, "root", "hunter2")
	require.NoError(t, err)

	// Server-side session evaporates; the issued token stays valid.
	f.server.InvalidateSessions()

	report := f.runner().Run(ctx)

	require.Len(t, report.Steps, 4)
	assert.Equal(t, core.OutcomeOK, report.Steps[0].Outcome)
	assert.Contains(t, report.Steps[0].Detail, "isAuthenticated=false")
	assert.Equal(t, core.OutcomeFailed, report.Steps[1].Outcome)
	assert.Equal(t, core.OutcomeOK, report.Steps[2].Outcome)
	assert.False(t, report.SessionAuthenticated)
	assert.True(t, report.TokenVerified)
	assert.Equal(t, core.AssessmentStaleSession, core.Assess(report))
}

func TestDiagnosticSessionActiveWithoutToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.authenticator(nil).Login(ctx, "root", "hunter2")
	require.NoError(t, err)

	// The operator cleared the local slot; the session cookie lives on.
	require.NoError(t, f.creds.Clear(ctx))

	report := f.runner().Run(ctx)

	assert.True(t, report.SessionAuthenticated)
	assert.Equal(t, core.OutcomeSkipped, report.Steps[2].Outcome)
	assert.Equal(t, core.OutcomeSkipped, report.Steps[3].Outcome)
	assert.Equal(t, core.AssessmentMissingToken, core.Assess(report))
}

func TestDiagnosticRejectedTokenStillProbes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.authenticator(nil).Login(ctx, "root", "hunter2")
	require.NoError(t, err)

	cred, err := f.creds.Load(ctx)
	require.NoError(t, err)
	f.server.RevokeToken(cred.Raw)

	report := f.runner().Run(ctx)

	require.Len(t, report.Steps, 4)
	assert.Equal(t, core.OutcomeFailed, report.Steps[2].Outcome)
	assert.Contains(t, report.Steps[2].Detail, "not found")
	// The session cookie still authorizes the protected resource: the
	// server arbitrates between the modes it was offered.
	assert.Equal(t, core.OutcomeOK, report.Steps[3].Outcome)
	assert.False(t, report.TokenVerified)
}

func TestDiagnosticIsReadOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// An expired, server-rejected credential must survive a diagnostic
	// run untouched; only explicitly opted-in flows clear state.
	past := time.Now().Add(-48 * time.Hour)
	raw := codec.EncodeEnhanced(7, past, past.Add(time.Hour), "sig")
	require.NoError(t, f.creds.Save(ctx, raw))

	report := f.runner().Run(ctx)
	assert.Equal(t, core.OutcomeFailed, report.Steps[2].Outcome)

	cred, err := f.creds.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, cred)
	assert.Equal(t, raw, cred.Raw)
}

func TestDiagnosticFreshReportPerRun(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.runner().Run(ctx)
	second := f.runner().Run(ctx)

	assert.NotEqual(t, first.ID, second.ID)
	assert.NotSame(t, first, second)
}

func TestAssessCombinations(t *testing.T) {
	cases := []struct {
		name    string
		session bool
		token   bool
		want    core.Assessment
	}{
		{"both", true, true, core.AssessmentOptimal},
		{"session only", true, false, core.AssessmentMissingToken},
		{"token only", false, true, core.AssessmentStaleSession},
		{"neither", false, false, core.AssessmentUnauthenticated},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			report := &core.DiagnosticReport{
				SessionAuthenticated: tc.session,
				TokenVerified:        tc.token,
			}
			assert.Equal(t, tc.want, core.Assess(report))
		})
	}
}
