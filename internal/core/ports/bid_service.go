package ports

import (
	"context"
	"io"

	"github.com/opencity/tender-marketplace/internal/core/domain"
)

// SubmitBidInput carries everything a Company user supplies with an offer.
// Document is the raw upload; the service stores it and persists only the
// returned reference on the bid.
type SubmitBidInput struct {
	TenderID     string
	Amount       domain.Amount
	DocumentName string
	Document     io.Reader
}

// UpdateBidInput adjusts the offer amount.
type UpdateBidInput struct {
	Amount domain.Amount
}

// BidService defines use-case operations for bids, including the award
// engine. Reads are public; submissions and edits require a Company caller,
// awarding a City caller.
type BidService interface {
	Submit(ctx context.Context, caller Caller, in SubmitBidInput) (*domain.Bid, error)
	Get(ctx context.Context, id string) (*domain.Bid, error)
	List(ctx context.Context, filter ListBidsFilter) ([]*domain.Bid, error)
	ListMine(ctx context.Context, caller Caller) ([]*domain.Bid, error)
	Update(ctx context.Context, caller Caller, id string, in UpdateBidInput) (*domain.Bid, error)
	Delete(ctx context.Context, caller Caller, id string) error
	// SelectWinner designates the bid as the sole winner of its tender and
	// transitions the tender to awarded. Re-awarding an already awarded
	// tender moves the winner flag.
	SelectWinner(ctx context.Context, caller Caller, bidID string) error
	// Document streams the bid's attached document into w and returns its
	// original filename.
	Document(ctx context.Context, id string, w io.Writer) (string, error)
}
