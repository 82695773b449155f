package ports

import (
	"context"

	"github.com/opencity/tender-marketplace/internal/core/domain"
)

// ListTendersFilter carries the query parameters for listing tenders.
type ListTendersFilter struct {
	Status    string // optional: filter by tender status
	CreatedBy string // optional: filter by creating user id
}

// TenderRepository defines persistence operations for tenders.
type TenderRepository interface {
	Create(ctx context.Context, t *domain.Tender) (*domain.Tender, error)
	FindByID(ctx context.Context, id string) (*domain.Tender, error)
	// List returns tenders matching filter, ordered by creation time.
	List(ctx context.Context, filter ListTendersFilter) ([]*domain.Tender, error)
	Update(ctx context.Context, t *domain.Tender) error
	// Delete removes the tender and every bid referencing it in a single
	// transaction, so no orphan bids survive.
	Delete(ctx context.Context, id string) error
}
