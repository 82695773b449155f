package ports

import (
	"context"
	"time"

	"github.com/opencity/tender-marketplace/internal/core/domain"
)

// CreateTenderInput carries the fields a City user supplies when publishing.
type CreateTenderInput struct {
	Title              string
	Description        string
	Budget             domain.Amount
	SubmissionDeadline time.Time
}

// UpdateTenderInput is a full-replace update. Status is optional; when empty
// the current status is kept. Setting it is the administrative path to the
// closed state, which no business operation reaches on its own.
type UpdateTenderInput struct {
	Title              string
	Description        string
	Budget             domain.Amount
	SubmissionDeadline time.Time
	Status             domain.TenderStatus
}

// TenderService defines use-case operations for tenders. Reads are public;
// every mutation requires a City caller.
type TenderService interface {
	Create(ctx context.Context, caller Caller, in CreateTenderInput) (*domain.Tender, error)
	Get(ctx context.Context, id string) (*domain.Tender, error)
	List(ctx context.Context, filter ListTendersFilter) ([]*domain.Tender, error)
	Update(ctx context.Context, caller Caller, id string, in UpdateTenderInput) (*domain.Tender, error)
	Delete(ctx context.Context, caller Caller, id string) error
}
