package settings

import "context"

// Repository persists the settings singleton. Get returns the seeded default
// when no row exists yet.
type Repository interface {
	Get(ctx context.Context) (*BusinessSettings, error)
	Save(ctx context.Context, settings *BusinessSettings) error
	SaveWithLock(ctx context.Context, settings *BusinessSettings) error
}
