package ports

import (
	"context"

	"github.com/aretw0/turing/pkg/domain"
)

// RunStore defines the interface for persisting run records.
// Records carry outcomes only; machines and rule sets are never stored.
type RunStore interface {
	// Save persists a record under rec.ID, replacing any previous one.
	Save(ctx context.Context, rec *domain.RunRecord) error

	// Load retrieves a record.
	// Returns domain.ErrRunNotFound if the record does not exist.
	Load(ctx context.Context, id string) (*domain.RunRecord, error)

	// Delete removes a record. Deleting a missing record is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of every stored record, in no particular order.
	List(ctx context.Context) ([]string, error)
}
