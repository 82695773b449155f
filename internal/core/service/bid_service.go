package service

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/opencity/tender-marketplace/internal/core/domain"
	"github.com/opencity/tender-marketplace/internal/core/ports"
)

// BidService implements bid submission, editing and the award engine.
//
// Submission and edits require the Company role; awarding requires the City
// role. As with tenders, no per-record ownership is enforced beyond the role
// gate: any Company user may edit any bid, any City user may award any bid.
type BidService struct {
	bids    ports.BidRepository
	tenders ports.TenderRepository
	docs    ports.DocumentStore
	logger  zerolog.Logger

	// enforceOpenTender rejects bids against tenders that are not Open.
	// Off by default: the marketplace historically accepted late bids, and
	// the stricter behaviour is opt-in until product settles the question.
	enforceOpenTender bool
}

func NewBidService(bids ports.BidRepository, tenders ports.TenderRepository, docs ports.DocumentStore, logger zerolog.Logger, enforceOpenTender bool) *BidService {
	return &BidService{
		bids:              bids,
		tenders:           tenders,
		docs:              docs,
		logger:            logger,
		enforceOpenTender: enforceOpenTender,
	}
}

func (s *BidService) Submit(ctx context.Context, caller ports.Caller, in ports.SubmitBidInput) (*domain.Bid, error) {
	if !caller.Role.IsCompany() {
		return nil, domain.ErrForbidden
	}
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: bid amount must be positive", domain.ErrValidation)
	}
	if in.Document == nil || in.DocumentName == "" {
		return nil, fmt.Errorf("%w: supporting document is required", domain.ErrValidation)
	}

	tender, err := s.tenders.FindByID(ctx, in.TenderID)
	if err != nil {
		return nil, err
	}
	if s.enforceOpenTender && tender.Status != domain.StatusOpen {
		return nil, domain.ErrTenderNotOpen
	}

	ref, err := s.docs.Store(ctx, in.DocumentName, in.Document)
	if err != nil {
		s.logger.Error().Err(err).Str("tender_id", in.TenderID).Msg("failed to store bid document")
		return nil, err
	}

	bid := &domain.Bid{
		TenderID:     tender.ID,
		CompanyID:    caller.UserID,
		CompanyName:  caller.Organization,
		Amount:       in.Amount,
		DocumentRef:  ref,
		DocumentName: in.DocumentName,
		IsWinner:     false,
	}

	created, err := s.bids.Create(ctx, bid)
	if err != nil {
		s.logger.Error().Err(err).Str("tender_id", in.TenderID).Msg("failed to create bid")
		return nil, err
	}

	s.logger.Info().
		Str("bid_id", created.ID).
		Str("tender_id", tender.ID).
		Str("company_id", caller.UserID).
		Str("amount", created.Amount.String()).
		Msg("bid submitted")

	return created, nil
}

func (s *BidService) Get(ctx context.Context, id string) (*domain.Bid, error) {
	return s.bids.FindByID(ctx, id)
}

func (s *BidService) List(ctx context.Context, filter ports.ListBidsFilter) ([]*domain.Bid, error) {
	return s.bids.List(ctx, filter)
}

func (s *BidService) ListMine(ctx context.Context, caller ports.Caller) ([]*domain.Bid, error) {
	if !caller.Role.IsCompany() {
		return nil, domain.ErrForbidden
	}
	return s.bids.List(ctx, ports.ListBidsFilter{CompanyID: caller.UserID})
}

func (s *BidService) Update(ctx context.Context, caller ports.Caller, id string, in ports.UpdateBidInput) (*domain.Bid, error) {
	if !caller.Role.IsCompany() {
		return nil, domain.ErrForbidden
	}
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: bid amount must be positive", domain.ErrValidation)
	}

	bid, err := s.bids.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	bid.Amount = in.Amount
	if err := s.bids.Update(ctx, bid); err != nil {
		s.logger.Error().Err(err).Str("bid_id", id).Msg("failed to update bid")
		return nil, err
	}
	return bid, nil
}

func (s *BidService) Delete(ctx context.Context, caller ports.Caller, id string) error {
	if !caller.Role.IsCompany() {
		return domain.ErrForbidden
	}
	if _, err := s.bids.FindByID(ctx, id); err != nil {
		return err
	}
	return s.bids.Delete(ctx, id)
}

// SelectWinner runs the award engine for the given bid:
//
//  1. every bid of the parent tender has is_winner cleared,
//  2. the target bid has is_winner set,
//  3. the tender status becomes awarded,
//
// all inside one repository transaction. The postcondition is exactly one
// winning bid per tender. Awarding an already awarded tender is permitted and
// simply moves the winner flag.
func (s *BidService) SelectWinner(ctx context.Context, caller ports.Caller, bidID string) error {
	if !caller.Role.IsCity() {
		return domain.ErrForbidden
	}

	if err := s.bids.Award(ctx, bidID); err != nil {
		if err == domain.ErrBidNotFound || err == domain.ErrConflict {
			return err
		}
		s.logger.Error().Err(err).Str("bid_id", bidID).Msg("award transaction failed")
		return err
	}

	s.logger.Info().
		Str("bid_id", bidID).
		Str("awarded_by", caller.UserID).
		Msg("winner selected")

	return nil
}

func (s *BidService) Document(ctx context.Context, id string, w io.Writer) (string, error) {
	bid, err := s.bids.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	if bid.DocumentRef == "" {
		return "", domain.ErrDocumentNotFound
	}
	if err := s.docs.Fetch(ctx, bid.DocumentRef, w); err != nil {
		return "", err
	}
	return bid.DocumentName, nil
}
