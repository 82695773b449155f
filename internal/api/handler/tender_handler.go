package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/opencity/tender-marketplace/internal/api/metrics"
	"github.com/opencity/tender-marketplace/internal/core/domain"
	"github.com/opencity/tender-marketplace/internal/core/ports"
)

// TenderHandler handles HTTP requests for tender operations.
type TenderHandler struct {
	service ports.TenderService
}

func NewTenderHandler(service ports.TenderService) *TenderHandler {
	return &TenderHandler{service: service}
}

func toTenderResponse(t *domain.Tender) tenderResponse {
	return tenderResponse{
		ID:                 t.ID,
		Title:              t.Title,
		Description:        t.Description,
		Budget:             t.Budget.String(),
		SubmissionDeadline: t.SubmissionDeadline,
		CreatedAt:          t.CreatedAt,
		Status:             string(t.Status),
		CreatedBy:          t.CreatedBy,
	}
}

// List handles GET /v1/tenders. Public: any caller, authenticated or not.
//
// @Summary      List tenders
// @Tags         tenders
// @Produce      json
// @Param        status  query     string  false  "Filter by status (open, closed, awarded)"
// @Success      200     {object}  listTendersResponse
// @Router       /v1/tenders [get]
func (h *TenderHandler) List(c echo.Context) error {
	tenders, err := h.service.List(c.Request().Context(), ports.ListTendersFilter{
		Status: c.QueryParam("status"),
	})
	if err != nil {
		return err
	}

	items := make([]tenderResponse, 0, len(tenders))
	for _, t := range tenders {
		items = append(items, toTenderResponse(t))
	}
	return c.JSON(http.StatusOK, listTendersResponse{Items: items, Total: len(items)})
}

// Get handles GET /v1/tenders/:id. Public.
//
// @Summary      Get a tender
// @Tags         tenders
// @Produce      json
// @Param        id   path      string  true  "Tender id"
// @Success      200  {object}  tenderResponse
// @Failure      404  {object}  errorEnvelope
// @Router       /v1/tenders/{id} [get]
func (h *TenderHandler) Get(c echo.Context) error {
	tender, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrTenderNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "tender not found"})
		}
		return err
	}
	return c.JSON(http.StatusOK, toTenderResponse(tender))
}

// Create handles POST /v1/tenders. City role only.
//
// @Summary      Publish a tender
// @Tags         tenders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTenderRequest  true  "Tender details"
// @Success      201   {object}  tenderResponse
// @Failure      400   {object}  errorEnvelope
// @Failure      403   {object}  errorEnvelope
// @Router       /v1/tenders [post]
func (h *TenderHandler) Create(c echo.Context) error {
	var req createTenderRequest
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

	budget, err := domain.ParseAmount(req.Budget)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "budget must be a decimal with at most 2 places"})
	}

	tender, err := h.service.Create(c.Request().Context(), caller, ports.CreateTenderInput{
		Title:              req.Title,
		Description:        req.Description,
		Budget:             budget,
		SubmissionDeadline: req.SubmissionDeadline,
	})
	if err != nil {
		return err
	}

	metrics.TendersCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toTenderResponse(tender))
}

// Update handles PUT /v1/tenders/:id. City role only.
//
// @Summary      Update a tender
// @Tags         tenders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Tender id"
// @Param        body  body      updateTenderRequest  true  "New tender fields"
// @Success      200   {object}  tenderResponse
// @Failure      400   {object}  errorEnvelope
// @Failure      403   {object}  errorEnvelope
// @Failure      404   {object}  errorEnvelope
// @Router       /v1/tenders/{id} [put]
func (h *TenderHandler) Update(c echo.Context) error {
	var req updateTenderRequest
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

	budget, err := domain.ParseAmount(req.Budget)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "budget must be a decimal with at most 2 places"})
	}

	tender, err := h.service.Update(c.Request().Context(), caller, c.Param("id"), ports.UpdateTenderInput{
		Title:              req.Title,
		Description:        req.Description,
		Budget:             budget,
		SubmissionDeadline: req.SubmissionDeadline,
		Status:             domain.TenderStatus(req.Status),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTenderResponse(tender))
}

// Delete handles DELETE /v1/tenders/:id. City role only. Removes the tender
// and all of its bids.
//
// @Summary      Delete a tender and its bids
// @Tags         tenders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "Tender id"
// @Success      204  "no content"
// @Failure      403  {object}  errorEnvelope
// @Failure      404  {object}  errorEnvelope
// @Router       /v1/tenders/{id} [delete]
func (h *TenderHandler) Delete(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), caller, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
