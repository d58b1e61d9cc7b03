package service

import (
	"context"
	"errors"
	"time"

	"github.com/NicholasPaulCarl/zarbitrage-adminauth/codec"
	"github.com/NicholasPaulCarl/zarbitrage-adminauth/core"
	"github.com/NicholasPaulCarl/zarbitrage-adminauth/ports"
)

// Reasons recorded on credential-cleared events.
const (
	ClearReasonLogout   = "logout"
	ClearReasonRejected = "rejected"
	ClearReasonExpired  = "expired"
	ClearReasonOperator = "operator"
)

// Authenticator ties the clients and the credential store together into
// the operator-facing flows: login, verification of the stored credential,
// and logout.
type Authenticator struct {
	creds    *CredentialStore
	issuer   *IssuanceClient
	verifier *VerificationClient
	session  *SessionClient
	events   ports.EventPublisher // optional; nil disables publishing
}

// NewAuthenticator creates an authenticator. events may be nil.
func NewAuthenticator(
	creds *CredentialStore,
	issuer *IssuanceClient,
	verifier *VerificationClient,
	session *SessionClient,
	events ports.EventPublisher,
) *Authenticator {
	return &Authenticator{
		creds:    creds,
		issuer:   issuer,
		verifier: verifier,
		session:  session,
		events:   events,
	}
}

// Login exchanges the operator's username/password for a fresh credential
// and persists it. The previous server session is cleared by the issuance
// client before the exchange.
func (a *Authenticator) Login(ctx context.Context, username, password string) (*core.Principal, error) {
	iss, err := a.issuer.Issue(ctx, username, password)
	if err != nil {
		return nil, err
	}

	if err := a.creds.Save(ctx, iss.RawToken); err != nil {
		return nil, err
	}

	a.publishIssued(ctx, iss.Credential)

	return &iss.Principal, nil
}

// VerifyStored checks the persisted credential against the server and
// resolves it to a principal.
//
// autoClear opts the flow into destroying the slot when the credential is
// unusable: expired, malformed, or actively rejected by the server. A
// transport failure never clears — an unreachable server says nothing
// about the credential.
func (a *Authenticator) VerifyStored(ctx context.Context, autoClear bool) (*core.Principal, error) {
	cred, err := a.creds.Load(ctx)
	if err != nil {
		return nil, err
	}
	if cred == nil {
		return nil, core.ErrNoCredential
	}

	if cred.Format == core.FormatMalformed {
		if autoClear {
			a.clear(ctx, ClearReasonRejected)
		}
		return nil, core.ErrCredentialMalformed
	}

	if codec.IsExpired(*cred, time.Now()) {
		if autoClear {
			a.clear(ctx, ClearReasonExpired)
		}
		return nil, core.ErrCredentialExpired
	}

	principal, err := a.verifier.Verify(ctx, *cred)
	if err != nil {
		var verr *core.VerificationError
		if autoClear && errors.As(err, &verr) && verr.Kind == core.FailureRejected {
			a.clear(ctx, ClearReasonRejected)
		}
		return nil, err
	}

	return principal, nil
}

// Logout clears the server-side session and the local credential slot. The
// local slot is cleared even when the server call fails, so a dead server
// cannot pin a credential on the client.
func (a *Authenticator) Logout(ctx context.Context) error {
	serverErr := a.session.Logout(ctx)

	if err := a.creds.Clear(ctx); err != nil {
		return err
	}
	a.publishCleared(ctx, ClearReasonLogout)

	return serverErr
}

// ClearCredential empties the slot at the operator's request.
func (a *Authenticator) ClearCredential(ctx context.Context) error {
	if err := a.creds.Clear(ctx); err != nil {
		return err
	}
	a.publishCleared(ctx, ClearReasonOperator)
	return nil
}

func (a *Authenticator) clear(ctx context.Context, reason string) {
	// The clear is advisory cleanup inside a flow that already failed;
	// its own failure must not mask the original outcome.
	if err := a.creds.Clear(ctx); err != nil {
		return
	}
	a.publishCleared(ctx, reason)
}

func (a *Authenticator) publishIssued(ctx context.Context, cred core.Credential) {
	if a.events == nil {
		return
	}
	// Events are notifications for other tooling; auth flows never fail
	// on a publish error.
	_ = a.events.PublishIssued(ctx, cred.SubjectID, string(cred.Format))
}

func (a *Authenticator) publishCleared(ctx context.Context, reason string) {
	if a.events == nil {
		return
	}
	_ = a.events.PublishCleared(ctx, reason)
}
