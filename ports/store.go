package ports

import "context"

// Store is the single persistent slot holding the raw admin token. The
// slot survives process restarts within the same operator context; absence
// is reported as core.ErrNoCredential so callers can tell "never issued"
// from a failed read.
type Store interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, raw string) error
	Clear(ctx context.Context) error
}
