package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/opencity/tender-marketplace/internal/core/domain"
	"github.com/opencity/tender-marketplace/internal/core/ports"
)

type stubTenderService struct {
	createFn func(ctx context.Context, caller ports.Caller, in ports.CreateTenderInput) (*domain.Tender, error)
	getFn    func(ctx context.Context, id string) (*domain.Tender, error)
	listFn   func(ctx context.Context, filter ports.ListTendersFilter) ([]*domain.Tender, error)
	updateFn func(ctx context.Context, caller ports.Caller, id string, in ports.UpdateTenderInput) (*domain.Tender, error)
	deleteFn func(ctx context.Context, caller ports.Caller, id string) error
}

func (s *stubTenderService) Create(ctx context.Context, caller ports.Caller, in ports.CreateTenderInput) (*domain.Tender, error) {
	return s.createFn(ctx, caller, in)
}

func (s *stubTenderService) Get(ctx context.Context, id string) (*domain.Tender, error) {
	return s.getFn(ctx, id)
}

func (s *stubTenderService) List(ctx context.Context, filter ports.ListTendersFilter) ([]*domain.Tender, error) {
	return s.listFn(ctx, filter)
}

func (s *stubTenderService) Update(ctx context.Context, caller ports.Caller, id string, in ports.UpdateTenderInput) (*domain.Tender, error) {
	return s.updateFn(ctx, caller, id, in)
}

func (s *stubTenderService) Delete(ctx context.Context, caller ports.Caller, id string) error {
	return s.deleteFn(ctx, caller, id)
}

// setClaims injects what the auth middleware would have set.
func setClaims(c echo.Context, userID, username, role, organization string) {
	c.Set("user_id", userID)
	c.Set("username", username)
	c.Set("role", role)
	c.Set("organization", organization)
}

func sampleTender() *domain.Tender {
	return &domain.Tender{
		ID:                 "tender-1",
		Title:              "Road resurfacing, Main St",
		Description:        "Resurface 2.4km of Main Street",
		Budget:             domain.Amount(25000000),
		SubmissionDeadline: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		CreatedAt:          time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		Status:             domain.StatusOpen,
		CreatedBy:          "city-1",
	}
}

func TestCreateTenderHandler(t *testing.T) {
	svc := &stubTenderService{
		createFn: func(_ context.Context, caller ports.Caller, in ports.CreateTenderInput) (*domain.Tender, error) {
			if caller.UserID != "city-1" || caller.Role != domain.RoleCity {
				t.Fatalf("caller not built from claims: %+v", caller)
			}
			if in.Budget != 25000000 {
				t.Fatalf("budget = %d, want 25000000 cents", in.Budget)
			}
			tender := sampleTender()
			tender.Title = in.Title
			return tender, nil
		},
	}
	h := NewTenderHandler(svc)

	body := `{"title":"Road resurfacing, Main St","description":"Resurface 2.4km of Main Street","budget":"250000.00","submission_deadline":"2026-10-01T00:00:00Z"}`
	c, rec := newJSONContext(t, http.MethodPost, "/v1/tenders", body)
	setClaims(c, "city-1", "cityhall", "city", "")

	if err := h.Create(c); err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", rec.Code, rec.Body.String())
	}

	var resp tenderResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Budget != "250000.00" {
		t.Fatalf("budget = %q, want decimal string", resp.Budget)
	}
	if resp.Status != "open" {
		t.Fatalf("status = %q, want open", resp.Status)
	}
}

func TestCreateTenderHandlerBadBudget(t *testing.T) {
	h := NewTenderHandler(&stubTenderService{})

	body := `{"title":"t","description":"d","budget":"250000.123","submission_deadline":"2026-10-01T00:00:00Z"}`
	c, rec := newJSONContext(t, http.MethodPost, "/v1/tenders", body)
	setClaims(c, "city-1", "cityhall", "city", "")

	if err := h.Create(c); err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCreateTenderHandlerMissingClaims(t *testing.T) {
	h := NewTenderHandler(&stubTenderService{})

	body := `{"title":"t","description":"d","budget":"100.00","submission_deadline":"2026-10-01T00:00:00Z"}`
	c, _ := newJSONContext(t, http.MethodPost, "/v1/tenders", body)

	err := h.Create(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestCreateTenderHandlerForbidden(t *testing.T) {
	svc := &stubTenderService{
		createFn: func(context.Context, ports.Caller, ports.CreateTenderInput) (*domain.Tender, error) {
			return nil, domain.ErrForbidden
		},
	}
	h := NewTenderHandler(svc)

	body := `{"title":"t","description":"d","budget":"100.00","submission_deadline":"2026-10-01T00:00:00Z"}`
	c, _ := newJSONContext(t, http.MethodPost, "/v1/tenders", body)
	setClaims(c, "co-1", "acme", "company", "ACME Paving Ltd")

	// Role errors flow to the central error handler, which renders 403.
	if err := h.Create(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden to propagate, got %v", err)
	}
}

func TestGetTenderHandler(t *testing.T) {
	svc := &stubTenderService{
		getFn: func(_ context.Context, id string) (*domain.Tender, error) {
			if id != "tender-1" {
				return nil, domain.ErrTenderNotFound
			}
			return sampleTender(), nil
		},
	}
	h := NewTenderHandler(svc)

	c, rec := newJSONContext(t, http.MethodGet, "/v1/tenders/tender-1", "")
	c.SetParamNames("id")
	c.SetParamValues("tender-1")

	if err := h.Get(c); err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestGetTenderHandlerNotFound(t *testing.T) {
	svc := &stubTenderService{
		getFn: func(context.Context, string) (*domain.Tender, error) {
			return nil, domain.ErrTenderNotFound
		},
	}
	h := NewTenderHandler(svc)

	c, rec := newJSONContext(t, http.MethodGet, "/v1/tenders/missing", "")
	c.SetParamNames("id")
	c.SetParamValues("missing")

	if err := h.Get(c); err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestListTendersHandler(t *testing.T) {
	svc := &stubTenderService{
		listFn: func(_ context.Context, filter ports.ListTendersFilter) ([]*domain.Tender, error) {
			if filter.Status != "open" {
				t.Fatalf("status filter = %q, want open", filter.Status)
			}
			return []*domain.Tender{sampleTender()}, nil
		},
	}
	h := NewTenderHandler(svc)

	c, rec := newJSONContext(t, http.MethodGet, "/v1/tenders?status=open", "")

	if err := h.List(c); err != nil {
		t.Fatalf("list: %v", err)
	}
	var resp listTendersResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 1 || len(resp.Items) != 1 {
		t.Fatalf("expected one tender, got %+v", resp)
	}
}

func TestUpdateTenderHandler(t *testing.T) {
	svc := &stubTenderService{
		updateFn: func(_ context.Context, _ ports.Caller, id string, in ports.UpdateTenderInput) (*domain.Tender, error) {
			if id != "tender-1" {
				t.Fatalf("id = %q, want tender-1", id)
			}
			if in.Status != domain.StatusClosed {
				t.Fatalf("status = %q, want closed", in.Status)
			}
			tender := sampleTender()
			tender.Status = in.Status
			return tender, nil
		},
	}
	h := NewTenderHandler(svc)

	body := `{"title":"t","description":"d","budget":"100.00","submission_deadline":"2026-10-01T00:00:00Z","status":"closed"}`
	c, rec := newJSONContext(t, http.MethodPut, "/v1/tenders/tender-1", body)
	c.SetParamNames("id")
	c.SetParamValues("tender-1")
	setClaims(c, "city-1", "cityhall", "city", "")

	if err := h.Update(c); err != nil {
		t.Fatalf("update: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestDeleteTenderHandler(t *testing.T) {
	deleted := ""
	svc := &stubTenderService{
		deleteFn: func(_ context.Context, _ ports.Caller, id string) error {
			deleted = id
			return nil
		},
	}
	h := NewTenderHandler(svc)

	c, rec := newJSONContext(t, http.MethodDelete, "/v1/tenders/tender-1", "")
	c.SetParamNames("id")
	c.SetParamValues("tender-1")
	setClaims(c, "city-1", "cityhall", "city", "")

	if err := h.Delete(c); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if deleted != "tender-1" {
		t.Fatalf("deleted id = %q, want tender-1", deleted)
	}
}
