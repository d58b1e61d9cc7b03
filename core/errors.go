package core

import (
	"errors"
	"fmt"
)

var (
	ErrNoCredential         = errors.New("no credential stored")
	ErrCredentialMalformed  = errors.New("credential is malformed")
	ErrCredentialExpired    = errors.New("credential has expired")
	ErrStoreOperationFailed = errors.New("store operation failed")
)

// FailureKind distinguishes "could not reach the server" from "the server
// said no". Diagnostic consumers rely on this tag.
type FailureKind string

const (
	// FailureTransport means no usable response was obtained. The stored
	// credential is not evidence of anything and must not be destroyed.
	FailureTransport FailureKind = "transport"

	// FailureRejected means the server actively refused the credential.
	FailureRejected FailureKind = "rejected"
)

// VerificationError reports a failed credential verification round-trip.
type VerificationError struct {
	Kind   FailureKind
	Detail string // server's stated reason when Kind is Rejected
	Status int    // HTTP status when Kind is Rejected
	Err    error  // underlying error when Kind is Transport
}

func (e *VerificationError) Error() string {
	if e.Kind == FailureTransport {
		return fmt.Sprintf("verification transport failure: %v", e.Err)
	}
	return fmt.Sprintf("verification rejected (%d): %s", e.Status, e.Detail)
}

func (e *VerificationError) Unwrap() error { return e.Err }

// IssuanceError reports a failed credential issuance round-trip. Rejection
// details are surfaced to the operator verbatim.
type IssuanceError struct {
	Kind   FailureKind
	Detail string
	Status int
	Err    error
}

func (e *IssuanceError) Error() string {
	if e.Kind == FailureTransport {
		return fmt.Sprintf("issuance transport failure: %v", e.Err)
	}
	return fmt.Sprintf("issuance rejected (%d): %s", e.Status, e.Detail)
}

func (e *IssuanceError) Unwrap() error { return e.Err }
