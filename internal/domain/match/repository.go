package match

import "context"

// Repository persists the ordered match list for one competition season.
// Name is the store key, e.g. "six-nations-2024-2025".
type Repository interface {
	Load(ctx context.Context, name string) ([]Match, error)
	Save(ctx context.Context, name string, matches []Match) error
}
