package handler

import "time"

type updateBidRequest struct {
	Amount string `json:"bid_amount" validate:"required"`
}

type bidResponse struct {
	ID           string    `json:"id"`
	TenderID     string    `json:"tender_id"`
	CompanyID    string    `json:"company_id"`
	CompanyName  string    `json:"company_name,omitempty"`
	Amount       string    `json:"bid_amount"`
	DocumentName string    `json:"document_name,omitempty"`
	SubmittedAt  time.Time `json:"submission_date"`
	IsWinner     bool      `json:"is_winner"`
}

type listBidsResponse struct {
	Items []bidResponse `json:"items"`
	Total int           `json:"total"`
}

type selectWinnerResponse struct {
	Status string `json:"status"`
}
