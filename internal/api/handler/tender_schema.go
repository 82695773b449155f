package handler

import "time"

// errorEnvelope documents the error body shape for swagger only; the real
// envelope is rendered by the central error handler.
type errorEnvelope struct {
	Error string `json:"error"`
}

type createTenderRequest struct {
	Title              string    `json:"title"               validate:"required,max=200"`
	Description        string    `json:"description"         validate:"required"`
	Budget             string    `json:"budget"              validate:"required"`
	SubmissionDeadline time.Time `json:"submission_deadline" validate:"required"`
}

type updateTenderRequest struct {
	Title              string    `json:"title"               validate:"required,max=200"`
	Description        string    `json:"description"         validate:"required"`
	Budget             string    `json:"budget"              validate:"required"`
	SubmissionDeadline time.Time `json:"submission_deadline" validate:"required"`
	Status             string    `json:"status,omitempty"    validate:"omitempty,oneof=open closed awarded"`
}

// Response-only types owned by the transport layer, kept separate from the
// domain so the JSON contract is not coupled to internal changes.

type tenderResponse struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	Budget             string    `json:"budget"`
	SubmissionDeadline time.Time `json:"submission_deadline"`
	CreatedAt          time.Time `json:"created_at"`
	Status             string    `json:"status"`
	CreatedBy          string    `json:"created_by"`
}

type listTendersResponse struct {
	Items []tenderResponse `json:"items"`
	Total int              `json:"total"`
}
