package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/NicholasPaulCarl/zarbitrage-adminauth/codec"
	"github.com/NicholasPaulCarl/zarbitrage-adminauth/core"
	"github.com/NicholasPaulCarl/zarbitrage-adminauth/ports"
)

// CredentialStore is the authoritative holder of the current credential,
// layered over a persistent raw-string slot. It decodes on load so callers
// always see a structured Credential, and it distinguishes "never issued"
// (nil) from "corrupt" (a Malformed credential).
type CredentialStore struct {
	slot ports.Store
}

// NewCredentialStore creates a credential store over the given slot.
func NewCredentialStore(slot ports.Store) *CredentialStore {
	return &CredentialStore{slot: slot}
}

// Load reads and decodes the persisted credential. It returns (nil, nil)
// when the slot is empty. A slot holding an undecodable string yields a
// credential with FormatMalformed, never an error.
func (s *CredentialStore) Load(ctx context.Context) (*core.Credential, error) {
	raw, err := s.slot.Load(ctx)
	if err != nil {
		if errors.Is(err, core.ErrNoCredential) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading credential: %w", err)
	}

	cred := codec.Decode(raw)
	return &cred, nil
}

// Save persists the raw credential string verbatim.
func (s *CredentialStore) Save(ctx context.Context, raw string) error {
	if err := s.slot.Save(ctx, raw); err != nil {
		return fmt.Errorf("saving credential: %w", err)
	}
	return nil
}

// Clear empties the slot; subsequent loads observe no credential.
func (s *CredentialStore) Clear(ctx context.Context) error {
	if err := s.slot.Clear(ctx); err != nil {
		return fmt.Errorf("clearing credential: %w", err)
	}
	return nil
}
