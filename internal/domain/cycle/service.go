package cycle

import (
	"context"
	"strings"
	"time"
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

// CreateCycle validates the range, rejects overlap with any open cycle of the
// organization, and returns the new cycle in draft with no phases.
func (s *Service) CreateCycle(ctx context.Context, orgID, name, cycleType string, startDate, endDate time.Time) (EvaluationCycle, error) {
	name = strings.TrimSpace(name)
	if !ValidType(cycleType) {
		return EvaluationCycle{}, ErrInvalidType
	}
	if err := ValidateDateRange(startDate, endDate); err != nil {
		return EvaluationCycle{}, err
	}

	overlapping, err := s.store.OpenCycleOverlaps(ctx, orgID, startDate, endDate)
	if err != nil {
		return EvaluationCycle{}, err
	}
	if overlapping {
		return EvaluationCycle{}, ErrOverlappingCycle
	}

	id, err := s.store.CreateCycle(ctx, orgID, name, cycleType, startDate, endDate)
	if err != nil {
		return EvaluationCycle{}, err
	}
	return s.store.GetCycle(ctx, orgID, id)
}

func (s *Service) Get(ctx context.Context, orgID, cycleID string) (EvaluationCycle, error) {
	return s.store.GetCycle(ctx, orgID, cycleID)
}

func (s *Service) List(ctx context.Context, orgID string) ([]CycleSummary, error) {
	return s.store.ListCycles(ctx, orgID)
}

func (s *Service) Activate(ctx context.Context, orgID, cycleID string) error {
	return s.transition(ctx, orgID, cycleID, StatusActive)
}

// Complete leaves draft evaluations in place; they become permanently
// non-submittable because the submit gate checks cycle status.
func (s *Service) Complete(ctx context.Context, orgID, cycleID string) error {
	return s.transition(ctx, orgID, cycleID, StatusCompleted)
}

func (s *Service) Archive(ctx context.Context, orgID, cycleID string) error {
	return s.transition(ctx, orgID, cycleID, StatusArchived)
}

func (s *Service) transition(ctx context.Context, orgID, cycleID, to string) error {
	current, err := s.store.CycleStatus(ctx, orgID, cycleID)
	if err != nil {
		return err
	}
	if !CanTransition(current, to) {
		return ErrInvalidTransition
	}
	return s.store.UpdateStatus(ctx, orgID, cycleID, to)
}

// SetPhases replaces the phase list. Only draft cycles are editable.
func (s *Service) SetPhases(ctx context.Context, orgID, cycleID string, phases []Phase) error {
	current, err := s.store.CycleStatus(ctx, orgID, cycleID)
	if err != nil {
		return err
	}
	if current != StatusDraft {
		return ErrNotDraft
	}
	for _, phase := range phases {
		if err := ValidateDateRange(phase.StartDate, phase.EndDate); err != nil {
			return err
		}
	}
	return s.store.ReplacePhases(ctx, cycleID, phases)
}
