package ports

import (
	"context"

	"github.com/opencity/tender-marketplace/internal/core/domain"
)

// ListBidsFilter carries the query parameters for listing bids.
type ListBidsFilter struct {
	TenderID  string // optional: bids for a single tender
	CompanyID string // optional: bids submitted by one company user
}

// BidRepository defines persistence operations for bids.
type BidRepository interface {
	Create(ctx context.Context, b *domain.Bid) (*domain.Bid, error)
	FindByID(ctx context.Context, id string) (*domain.Bid, error)
	// List returns bids matching filter, ordered by submission time.
	List(ctx context.Context, filter ListBidsFilter) ([]*domain.Bid, error)
	Update(ctx context.Context, b *domain.Bid) error
	Delete(ctx context.Context, id string) error
	// Award atomically clears is_winner on every bid of the target bid's
	// tender, sets it on the target bid, and marks the tender awarded.
	// Either all three writes commit or none do. Concurrent awards on the
	// same tender serialize; a transaction that cannot commit surfaces
	// domain.ErrConflict.
	Award(ctx context.Context, bidID string) error
}
