package evaluation

import (
	"context"
	"time"

	"engage/internal/domain/cycle"
)

type Service struct {
	store  StoreAPI
	cycles CycleStatusReader
}

func NewService(store StoreAPI, cycles CycleStatusReader) *Service {
	return &Service{store: store, cycles: cycles}
}

// GetForEvaluator loads an evaluation and enforces that the caller owns it.
// Anyone else gets ErrNotFound, not ErrNotEvaluator, so existence does not
// leak across users.
func (s *Service) GetForEvaluator(ctx context.Context, orgID, evaluationID, evaluatorID string) (Evaluation, error) {
	out, err := s.store.GetEvaluation(ctx, orgID, evaluationID)
	if err != nil {
		return Evaluation{}, err
	}
	if out.EvaluatorID != evaluatorID {
		return Evaluation{}, ErrNotFound
	}
	return out, nil
}

// Get loads an evaluation without the ownership check, for reviewer paths
// that are guarded by role instead.
func (s *Service) Get(ctx context.Context, orgID, evaluationID string) (Evaluation, error) {
	return s.store.GetEvaluation(ctx, orgID, evaluationID)
}

func (s *Service) ListForEvaluator(ctx context.Context, cycleID, evaluatorID string) ([]Evaluation, error) {
	return s.store.ListForEvaluator(ctx, cycleID, evaluatorID)
}

// SaveDraft applies an autosave snapshot after checking ownership, draft
// status and cycle activity.
func (s *Service) SaveDraft(ctx context.Context, orgID, evaluationID, evaluatorID string, fields DraftFields) error {
	if err := s.gate(ctx, orgID, evaluationID, evaluatorID); err != nil {
		return err
	}
	if err := validateRatings(fields.Ratings); err != nil {
		return err
	}
	return s.store.SaveDraft(ctx, evaluationID, fields)
}

// Submit performs the terminal draft -> submitted transition.
func (s *Service) Submit(ctx context.Context, orgID, evaluationID, evaluatorID string, fields DraftFields) error {
	if err := s.gate(ctx, orgID, evaluationID, evaluatorID); err != nil {
		return err
	}
	if err := validateRatings(fields.Ratings); err != nil {
		return err
	}
	if fields.OverallRating == nil || !ValidRating(*fields.OverallRating) {
		return ErrInvalidRating
	}
	return s.store.Submit(ctx, evaluationID, fields, time.Now().UTC())
}

// AdvanceReview moves a submitted evaluation one step along the reviewer
// workflow (submitted -> reviewed -> approved -> shared).
func (s *Service) AdvanceReview(ctx context.Context, orgID, evaluationID, to string) error {
	current, err := s.store.GetEvaluation(ctx, orgID, evaluationID)
	if err != nil {
		return err
	}
	if !CanAdvanceReview(current.Status, to) {
		return ErrBadReviewStep
	}
	return s.store.AdvanceReviewStatus(ctx, orgID, evaluationID, current.Status, to)
}

func (s *Service) gate(ctx context.Context, orgID, evaluationID, evaluatorID string) error {
	current, err := s.store.GetEvaluation(ctx, orgID, evaluationID)
	if err != nil {
		return err
	}
	if current.EvaluatorID != evaluatorID {
		return ErrNotEvaluator
	}
	if current.Status != StatusDraft {
		return ErrAlreadySubmitted
	}

	cycleStatus, err := s.cycles.CycleStatus(ctx, orgID, current.CycleID)
	if err != nil {
		return err
	}
	if cycleStatus != cycle.StatusActive {
		return ErrCycleInactive
	}
	return nil
}

func validateRatings(ratings []CompetencyRating) error {
	for _, rating := range ratings {
		if !ValidRating(rating.Rating) {
			return ErrInvalidRating
		}
	}
	return nil
}
