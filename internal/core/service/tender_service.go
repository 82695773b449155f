package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/opencity/tender-marketplace/internal/core/domain"
	"github.com/opencity/tender-marketplace/internal/core/ports"
)

// TenderService implements tender CRUD. Reads are public; every mutation is
// gated on the caller holding the City role. Ownership beyond the role is
// deliberately not checked: any City user may edit or delete any tender,
// matching the product's current access model.
type TenderService struct {
	repo   ports.TenderRepository
	logger zerolog.Logger
}

func NewTenderService(repo ports.TenderRepository, logger zerolog.Logger) *TenderService {
	return &TenderService{repo: repo, logger: logger}
}

func (s *TenderService) Create(ctx context.Context, caller ports.Caller, in ports.CreateTenderInput) (*domain.Tender, error) {
	if !caller.Role.IsCity() {
		return nil, domain.ErrForbidden
	}
	if err := validateTenderFields(in.Title, in.Description, in.Budget, in.SubmissionDeadline); err != nil {
		return nil, err
	}

	tender := &domain.Tender{
		Title:              in.Title,
		Description:        in.Description,
		Budget:             in.Budget,
		SubmissionDeadline: in.SubmissionDeadline.UTC(),
		CreatedAt:          time.Now().UTC(),
		Status:             domain.StatusOpen,
		CreatedBy:          caller.UserID,
	}

	created, err := s.repo.Create(ctx, tender)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create tender")
		return nil, err
	}

	s.logger.Info().
		Str("tender_id", created.ID).
		Str("created_by", caller.UserID).
		Str("budget", created.Budget.String()).
		Msg("tender published")

	return created, nil
}

func (s *TenderService) Get(ctx context.Context, id string) (*domain.Tender, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *TenderService) List(ctx context.Context, filter ports.ListTendersFilter) ([]*domain.Tender, error) {
	return s.repo.List(ctx, filter)
}

func (s *TenderService) Update(ctx context.Context, caller ports.Caller, id string, in ports.UpdateTenderInput) (*domain.Tender, error) {
	if !caller.Role.IsCity() {
		return nil, domain.ErrForbidden
	}
	if err := validateTenderFields(in.Title, in.Description, in.Budget, in.SubmissionDeadline); err != nil {
		return nil, err
	}

	tender, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	tender.Title = in.Title
	tender.Description = in.Description
	tender.Budget = in.Budget
	tender.SubmissionDeadline = in.SubmissionDeadline.UTC()
	if in.Status != "" {
		if !in.Status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, in.Status)
		}
		tender.Status = in.Status
	}

	if err := s.repo.Update(ctx, tender); err != nil {
		s.logger.Error().Err(err).Str("tender_id", id).Msg("failed to update tender")
		return nil, err
	}

	s.logger.Info().Str("tender_id", id).Str("updated_by", caller.UserID).Msg("tender updated")
	return tender, nil
}

func (s *TenderService) Delete(ctx context.Context, caller ports.Caller, id string) error {
	if !caller.Role.IsCity() {
		return domain.ErrForbidden
	}

	// Existence check first so a missing tender surfaces as 404, not as a
	// silent no-op delete.
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("tender_id", id).Msg("failed to delete tender")
		return err
	}

	s.logger.Info().Str("tender_id", id).Str("deleted_by", caller.UserID).Msg("tender and its bids deleted")
	return nil
}

func validateTenderFields(title, description string, budget domain.Amount, deadline time.Time) error {
	if title == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if description == "" {
		return fmt.Errorf("%w: description is required", domain.ErrValidation)
	}
	if !budget.IsPositive() {
		return fmt.Errorf("%w: budget must be positive", domain.ErrValidation)
	}
	if deadline.IsZero() {
		return fmt.Errorf("%w: submission deadline is required", domain.ErrValidation)
	}
	return nil
}
