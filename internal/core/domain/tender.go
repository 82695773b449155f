package domain

import (
	"errors"
	"time"
)

// TenderStatus represents the lifecycle state of a tender.
type TenderStatus string

const (
	StatusOpen    TenderStatus = "open"
	StatusClosed  TenderStatus = "closed"
	StatusAwarded TenderStatus = "awarded"
)

var ErrTenderNotFound = errors.New("tender not found")
var ErrTenderNotOpen = errors.New("tender is not open for bids")
var ErrValidation = errors.New("validation failed")

// Valid reports whether the status belongs to the known set. The only
// transition driven by business logic is open → awarded (award engine);
// closed is reachable through the administrative update path only.
func (s TenderStatus) Valid() bool {
	switch s {
	case StatusOpen, StatusClosed, StatusAwarded:
		return true
	}
	return false
}

// Tender is a published procurement request owned by a City user.
type Tender struct {
	ID                 string       `json:"id"`
	Title              string       `json:"title"`
	Description        string       `json:"description"`
	Budget             Amount       `json:"budget"`
	SubmissionDeadline time.Time    `json:"submission_deadline"`
	CreatedAt          time.Time    `json:"created_at"`
	Status             TenderStatus `json:"status"`
	CreatedBy          string       `json:"created_by"`
}
