package domain

import (
	"errors"
	"time"
)

var ErrBidNotFound = errors.New("bid not found")
var ErrDocumentNotFound = errors.New("bid document not found")

// ErrConflict is returned when a concurrent award transaction could not
// commit. Callers may retry; the committed transaction left a consistent
// single-winner state.
var ErrConflict = errors.New("award transaction conflict")

// Bid is a company's offer against a tender. IsWinner is mutated only by the
// award engine, which guarantees at most one winning bid per tender.
type Bid struct {
	ID           string    `json:"id"`
	TenderID     string    `json:"tender_id"`
	CompanyID    string    `json:"company_id"`
	CompanyName  string    `json:"company_name,omitempty"`
	Amount       Amount    `json:"bid_amount"`
	DocumentRef  string    `json:"document_ref,omitempty"`
	DocumentName string    `json:"document_name,omitempty"`
	SubmittedAt  time.Time `json:"submission_date"`
	IsWinner     bool      `json:"is_winner"`
}
