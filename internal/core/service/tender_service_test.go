package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/opencity/tender-marketplace/internal/core/domain"
	"github.com/opencity/tender-marketplace/internal/core/ports"
)

var (
	cityCaller    = ports.Caller{UserID: "city-1", Username: "cityhall", Role: domain.RoleCity}
	companyCaller = ports.Caller{UserID: "co-1", Username: "acme", Role: domain.RoleCompany, Organization: "ACME Paving Ltd"}
	citizenCaller = ports.Caller{UserID: "cz-1", Username: "jane", Role: domain.RoleCitizen}
)

type stubTenderRepo struct {
	mu      sync.Mutex
	seq     int
	tenders []*domain.Tender
	// bids, when set, lets Delete cascade the way the real repository's
	// transaction does.
	bids *stubBidRepo
}

func newStubTenderRepo() *stubTenderRepo {
	return &stubTenderRepo{}
}

func (r *stubTenderRepo) Create(_ context.Context, t *domain.Tender) (*domain.Tender, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	cp := *t
	cp.ID = "tender-" + strconv.Itoa(r.seq)
	r.tenders = append(r.tenders, &cp)
	out := cp
	return &out, nil
}

func (r *stubTenderRepo) FindByID(_ context.Context, id string) (*domain.Tender, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tenders {
		if t.ID == id {
			cp := *t
			return &cp, nil
		}
	}
	return nil, domain.ErrTenderNotFound
}

func (r *stubTenderRepo) List(_ context.Context, filter ports.ListTendersFilter) ([]*domain.Tender, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.Tender{}
	for _, t := range r.tenders {
		if filter.Status != "" && string(t.Status) != filter.Status {
			continue
		}
		if filter.CreatedBy != "" && t.CreatedBy != filter.CreatedBy {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

func (r *stubTenderRepo) Update(_ context.Context, t *domain.Tender) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.tenders {
		if existing.ID == t.ID {
			cp := *t
			r.tenders[i] = &cp
			return nil
		}
	}
	return domain.ErrTenderNotFound
}

func (r *stubTenderRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	found := false
	kept := r.tenders[:0]
	for _, t := range r.tenders {
		if t.ID == id {
			found = true
			continue
		}
		kept = append(kept, t)
	}
	r.tenders = kept
	r.mu.Unlock()

	if !found {
		return domain.ErrTenderNotFound
	}
	if r.bids != nil {
		r.bids.deleteByTender(id)
	}
	return nil
}

func (r *stubTenderRepo) setStatus(id string, status domain.TenderStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tenders {
		if t.ID == id {
			t.Status = status
			return
		}
	}
}

func validCreateInput() ports.CreateTenderInput {
	return ports.CreateTenderInput{
		Title:              "Road resurfacing, Main St",
		Description:        "Resurface 2.4km of Main Street",
		Budget:             domain.Amount(25000000),
		SubmissionDeadline: time.Now().Add(30 * 24 * time.Hour),
	}
}

func TestCreateTender(t *testing.T) {
	repo := newStubTenderRepo()
	svc := NewTenderService(repo, zerolog.Nop())

	created, err := svc.Create(context.Background(), cityCaller, validCreateInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected id to be assigned")
	}
	if created.Status != domain.StatusOpen {
		t.Fatalf("status = %q, want open", created.Status)
	}
	if created.CreatedBy != cityCaller.UserID {
		t.Fatalf("created_by = %q, want %q", created.CreatedBy, cityCaller.UserID)
	}
}

func TestCreateTenderForbidden(t *testing.T) {
	svc := NewTenderService(newStubTenderRepo(), zerolog.Nop())

	for _, caller := range []ports.Caller{companyCaller, citizenCaller} {
		if _, err := svc.Create(context.Background(), caller, validCreateInput()); !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("caller role %q: expected ErrForbidden, got %v", caller.Role, err)
		}
	}
}

func TestCreateTenderValidation(t *testing.T) {
	svc := NewTenderService(newStubTenderRepo(), zerolog.Nop())

	cases := []struct {
		name   string
		mutate func(*ports.CreateTenderInput)
	}{
		{"empty title", func(in *ports.CreateTenderInput) { in.Title = "" }},
		{"empty description", func(in *ports.CreateTenderInput) { in.Description = "" }},
		{"zero budget", func(in *ports.CreateTenderInput) { in.Budget = 0 }},
		{"negative budget", func(in *ports.CreateTenderInput) { in.Budget = -100 }},
		{"zero deadline", func(in *ports.CreateTenderInput) { in.SubmissionDeadline = time.Time{} }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validCreateInput()
			tc.mutate(&in)
			if _, err := svc.Create(context.Background(), cityCaller, in); !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestUpdateTender(t *testing.T) {
	repo := newStubTenderRepo()
	svc := NewTenderService(repo, zerolog.Nop())

	created, err := svc.Create(context.Background(), cityCaller, validCreateInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(context.Background(), cityCaller, created.ID, ports.UpdateTenderInput{
		Title:              "Road resurfacing, Main St (revised)",
		Description:        created.Description,
		Budget:             domain.Amount(30000000),
		SubmissionDeadline: created.SubmissionDeadline,
		Status:             domain.StatusClosed,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Budget != 30000000 {
		t.Fatalf("budget = %d, want 30000000", updated.Budget)
	}
	if updated.Status != domain.StatusClosed {
		t.Fatalf("status = %q, want closed", updated.Status)
	}

	stored, err := svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Title != "Road resurfacing, Main St (revised)" {
		t.Fatalf("title not persisted: %q", stored.Title)
	}
}

func TestUpdateTenderKeepsStatusWhenOmitted(t *testing.T) {
	repo := newStubTenderRepo()
	svc := NewTenderService(repo, zerolog.Nop())

	created, _ := svc.Create(context.Background(), cityCaller, validCreateInput())

	in := ports.UpdateTenderInput{
		Title:              created.Title,
		Description:        created.Description,
		Budget:             created.Budget,
		SubmissionDeadline: created.SubmissionDeadline,
	}
	updated, err := svc.Update(context.Background(), cityCaller, created.ID, in)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != domain.StatusOpen {
		t.Fatalf("status changed to %q, expected open preserved", updated.Status)
	}
}

func TestUpdateTenderInvalidStatus(t *testing.T) {
	repo := newStubTenderRepo()
	svc := NewTenderService(repo, zerolog.Nop())

	created, _ := svc.Create(context.Background(), cityCaller, validCreateInput())

	in := ports.UpdateTenderInput{
		Title:              created.Title,
		Description:        created.Description,
		Budget:             created.Budget,
		SubmissionDeadline: created.SubmissionDeadline,
		Status:             "published",
	}
	if _, err := svc.Update(context.Background(), cityCaller, created.ID, in); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestUpdateTenderNotFound(t *testing.T) {
	svc := NewTenderService(newStubTenderRepo(), zerolog.Nop())

	in := ports.UpdateTenderInput{
		Title:              "x",
		Description:        "y",
		Budget:             100,
		SubmissionDeadline: time.Now().Add(time.Hour),
	}
	if _, err := svc.Update(context.Background(), cityCaller, "missing", in); !errors.Is(err, domain.ErrTenderNotFound) {
		t.Fatalf("expected ErrTenderNotFound, got %v", err)
	}
}

func TestDeleteTenderCascadesBids(t *testing.T) {
	tenders := newStubTenderRepo()
	bids := newStubBidRepo(tenders)
	tenders.bids = bids
	svc := NewTenderService(tenders, zerolog.Nop())

	created, _ := svc.Create(context.Background(), cityCaller, validCreateInput())
	other, _ := svc.Create(context.Background(), cityCaller, validCreateInput())

	bids.seed(created.ID, "co-1", 100)
	bids.seed(created.ID, "co-2", 200)
	survivor := bids.seed(other.ID, "co-1", 300)

	if err := svc.Delete(context.Background(), cityCaller, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := svc.Get(context.Background(), created.ID); !errors.Is(err, domain.ErrTenderNotFound) {
		t.Fatalf("tender still present: %v", err)
	}

	remaining, err := bids.List(context.Background(), ports.ListBidsFilter{})
	if err != nil {
		t.Fatalf("list bids: %v", err)
	}
	if len(remaining) != 1 || remaining[0].ID != survivor.ID {
		t.Fatalf("expected only the other tender's bid to survive, got %d bids", len(remaining))
	}
}

func TestDeleteTenderNotFound(t *testing.T) {
	svc := NewTenderService(newStubTenderRepo(), zerolog.Nop())

	if err := svc.Delete(context.Background(), cityCaller, "missing"); !errors.Is(err, domain.ErrTenderNotFound) {
		t.Fatalf("expected ErrTenderNotFound, got %v", err)
	}
}

func TestDeleteTenderForbidden(t *testing.T) {
	repo := newStubTenderRepo()
	svc := NewTenderService(repo, zerolog.Nop())

	created, _ := svc.Create(context.Background(), cityCaller, validCreateInput())

	if err := svc.Delete(context.Background(), companyCaller, created.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestListTendersByStatus(t *testing.T) {
	repo := newStubTenderRepo()
	svc := NewTenderService(repo, zerolog.Nop())

	a, _ := svc.Create(context.Background(), cityCaller, validCreateInput())
	b, _ := svc.Create(context.Background(), cityCaller, validCreateInput())
	repo.setStatus(b.ID, domain.StatusAwarded)

	open, err := svc.List(context.Background(), ports.ListTendersFilter{Status: "open"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(open) != 1 || open[0].ID != a.ID {
		t.Fatalf("expected only the open tender, got %d", len(open))
	}

	all, err := svc.List(context.Background(), ports.ListTendersFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 tenders, got %d", len(all))
	}
}
