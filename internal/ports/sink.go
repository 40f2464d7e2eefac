package ports

import (
	"context"

	"github.com/ghalamif/FaultWatch/internal/domain"
)

// Sink persists an annotated dataset, replacing whatever it held before.
type Sink interface {
	WriteDataset(ctx context.Context, ds *domain.AnnotatedDataset) error
	Name() string
}
