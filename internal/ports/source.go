package ports

import (
	"context"

	"github.com/ghalamif/FaultWatch/internal/domain"
)

// Source yields the full input dataset on demand.
type Source interface {
	// Available reports whether the input artifact exists yet.
	Available() (bool, error)
	Load(ctx context.Context) (*domain.Dataset, error)
	Name() string
}
