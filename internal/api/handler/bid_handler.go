package handler

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/opencity/tender-marketplace/internal/api/metrics"
	"github.com/opencity/tender-marketplace/internal/core/domain"
	"github.com/opencity/tender-marketplace/internal/core/ports"
)

// BidHandler handles HTTP requests for bid operations, including winner
// selection.
type BidHandler struct {
	service ports.BidService
}

func NewBidHandler(service ports.BidService) *BidHandler {
	return &BidHandler{service: service}
}

func toBidResponse(b *domain.Bid) bidResponse {
	return bidResponse{
		ID:           b.ID,
		TenderID:     b.TenderID,
		CompanyID:    b.CompanyID,
		CompanyName:  b.CompanyName,
		Amount:       b.Amount.String(),
		DocumentName: b.DocumentName,
		SubmittedAt:  b.SubmittedAt,
		IsWinner:     b.IsWinner,
	}
}

func toListBidsResponse(bids []*domain.Bid) listBidsResponse {
	items := make([]bidResponse, 0, len(bids))
	for _, b := range bids {
		items = append(items, toBidResponse(b))
	}
	return listBidsResponse{Items: items, Total: len(items)}
}

// List handles GET /v1/bids. Public.
//
// @Summary      List bids
// @Tags         bids
// @Produce      json
// @Param        tender_id  query     string  false  "Filter by tender id"
// @Success      200        {object}  listBidsResponse
// @Router       /v1/bids [get]
func (h *BidHandler) List(c echo.Context) error {
	bids, err := h.service.List(c.Request().Context(), ports.ListBidsFilter{
		TenderID: c.QueryParam("tender_id"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListBidsResponse(bids))
}

// ListMine handles GET /v1/bids/my. Company role only.
//
// @Summary      List the calling company's bids
// @Tags         bids
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listBidsResponse
// @Failure      403  {object}  errorEnvelope
// @Router       /v1/bids/my [get]
func (h *BidHandler) ListMine(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	bids, err := h.service.ListMine(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListBidsResponse(bids))
}

// Get handles GET /v1/bids/:id. Public.
//
// @Summary      Get a bid
// @Tags         bids
// @Produce      json
// @Param        id   path      string  true  "Bid id"
// @Success      200  {object}  bidResponse
// @Failure      404  {object}  errorEnvelope
// @Router       /v1/bids/{id} [get]
func (h *BidHandler) Get(c echo.Context) error {
	bid, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrBidNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "bid not found"})
		}
		return err
	}
	return c.JSON(http.StatusOK, toBidResponse(bid))
}

// Create handles POST /v1/bids. Company role only. Multipart form with the
// fields tender_id, bid_amount and the supporting document file.
//
// @Summary      Submit a bid
// @Tags         bids
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        tender_id   formData  string  true  "Tender id"
// @Param        bid_amount  formData  string  true  "Offer amount, 2 decimal places"
// @Param        document    formData  file    true  "Supporting document"
// @Success      201  {object}  bidResponse
// @Failure      400  {object}  errorEnvelope
// @Failure      403  {object}  errorEnvelope
// @Failure      404  {object}  errorEnvelope
// @Router       /v1/bids [post]
func (h *BidHandler) Create(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	tenderID := c.FormValue("tender_id")
	if tenderID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "tender_id is required"})
	}

	amount, err := domain.ParseAmount(c.FormValue("bid_amount"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bid_amount must be a decimal with at most 2 places"})
	}

	fileHeader, err := c.FormFile("document")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "document file is required"})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	bid, err := h.service.Submit(c.Request().Context(), caller, ports.SubmitBidInput{
		TenderID:     tenderID,
		Amount:       amount,
		DocumentName: fileHeader.Filename,
		Document:     file,
	})
	if err != nil {
		return err
	}

	metrics.BidsSubmittedTotal.Inc()
	return c.JSON(http.StatusCreated, toBidResponse(bid))
}

// Update handles PUT /v1/bids/:id. Company role only.
//
// @Summary      Update a bid amount
// @Tags         bids
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Bid id"
// @Param        body  body      updateBidRequest  true  "New amount"
// @Success      200   {object}  bidResponse
// @Failure      400   {object}  errorEnvelope
// @Failure      403   {object}  errorEnvelope
// @Failure      404   {object}  errorEnvelope
// @Router       /v1/bids/{id} [put]
func (h *BidHandler) Update(c echo.Context) error {
	var req updateBidRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	amount, err := domain.ParseAmount(req.Amount)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bid_amount must be a decimal with at most 2 places"})
	}

	bid, err := h.service.Update(c.Request().Context(), caller, c.Param("id"), ports.UpdateBidInput{
		Amount: amount,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBidResponse(bid))
}

// Delete handles DELETE /v1/bids/:id. Company role only.
//
// @Summary      Withdraw a bid
// @Tags         bids
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "Bid id"
// @Success      204  "no content"
// @Failure      403  {object}  errorEnvelope
// @Failure      404  {object}  errorEnvelope
// @Router       /v1/bids/{id} [delete]
func (h *BidHandler) Delete(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), caller, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// SelectWinner handles POST /v1/bids/:id/select-winner. City role only.
// Atomically designates the bid as the sole winner of its tender and marks
// the tender awarded.
//
// @Summary      Select a winning bid
// @Tags         bids
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Bid id"
// @Success      200  {object}  selectWinnerResponse
// @Failure      403  {object}  errorEnvelope
// @Failure      404  {object}  errorEnvelope
// @Failure      409  {object}  errorEnvelope
// @Router       /v1/bids/{id}/select-winner [post]
func (h *BidHandler) SelectWinner(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	if err := h.service.SelectWinner(c.Request().Context(), caller, c.Param("id")); err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			metrics.AwardsTotal.WithLabelValues("denied").Inc()
		case errors.Is(err, domain.ErrBidNotFound):
			metrics.AwardsTotal.WithLabelValues("not_found").Inc()
		case errors.Is(err, domain.ErrConflict):
			metrics.AwardsTotal.WithLabelValues("conflict").Inc()
		}
		return err
	}

	metrics.AwardsTotal.WithLabelValues("ok").Inc()
	return c.JSON(http.StatusOK, selectWinnerResponse{Status: "winner selected"})
}

// Document handles GET /v1/bids/:id/document. Public download of the bid's
// supporting document.
//
// @Summary      Download a bid document
// @Tags         bids
// @Produce      octet-stream
// @Param        id   path  string  true  "Bid id"
// @Success      200  {file}    file
// @Failure      404  {object}  errorEnvelope
// @Router       /v1/bids/{id}/document [get]
func (h *BidHandler) Document(c echo.Context) error {
	var buf bytes.Buffer
	filename, err := h.service.Document(c.Request().Context(), c.Param("id"), &buf)
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, echo.MIMEOctetStream, buf.Bytes())
}
