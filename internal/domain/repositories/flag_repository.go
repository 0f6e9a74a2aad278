package repositories

import "context"

// FlagRepository defines the interface for feature-flag storage.
// Flags gate optional behavior such as the model enrichment path.
type FlagRepository interface {
	// GetBool reads a boolean flag, returning def when the flag is unset
	GetBool(ctx context.Context, key string, def bool) (bool, error)

	// SetBool writes a boolean flag
	SetBool(ctx context.Context, key string, value bool) error
}
