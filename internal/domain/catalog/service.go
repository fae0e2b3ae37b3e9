package catalog

import (
	"context"
	"strings"
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) List(ctx context.Context, orgID, category string, activeOnly bool) ([]Competency, error) {
	return s.store.ListCompetencies(ctx, orgID, category, activeOnly)
}

func (s *Service) Get(ctx context.Context, orgID, competencyID string) (Competency, error) {
	return s.store.GetCompetency(ctx, orgID, competencyID)
}

func (s *Service) Create(ctx context.Context, orgID string, details CompetencyDetails) (string, error) {
	details.Name = strings.TrimSpace(details.Name)
	if !ValidCategory(details.Category) {
		return "", ErrBadCategory
	}
	taken, err := s.store.ActiveNameExists(ctx, orgID, details.Name, "")
	if err != nil {
		return "", err
	}
	if taken {
		return "", ErrDuplicateName
	}
	return s.store.CreateCompetency(ctx, orgID, details)
}

func (s *Service) Update(ctx context.Context, orgID, competencyID string, details CompetencyDetails) error {
	details.Name = strings.TrimSpace(details.Name)
	if !ValidCategory(details.Category) {
		return ErrBadCategory
	}
	taken, err := s.store.ActiveNameExists(ctx, orgID, details.Name, competencyID)
	if err != nil {
		return err
	}
	if taken {
		return ErrDuplicateName
	}
	return s.store.UpdateCompetency(ctx, orgID, competencyID, details)
}

func (s *Service) Deactivate(ctx context.Context, orgID, competencyID string) error {
	return s.store.DeactivateCompetency(ctx, orgID, competencyID)
}

// InitDefaults installs the default rubric. Refuses to run twice so repeated
// bootstrap calls cannot duplicate the catalog.
func (s *Service) InitDefaults(ctx context.Context, orgID string) (int, error) {
	existing, err := s.store.CountCompetencies(ctx, orgID)
	if err != nil {
		return 0, err
	}
	if existing > 0 {
		return 0, ErrAlreadySeeded
	}

	created := 0
	for _, details := range DefaultSet() {
		if _, err := s.store.CreateCompetency(ctx, orgID, details); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
