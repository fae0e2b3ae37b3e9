package catalog

import (
	"context"

	"github.com/jackc/pgx/v5"

	"engage/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) ListCompetencies(ctx context.Context, orgID, category string, activeOnly bool) ([]Competency, error) {
	query := `
    SELECT id, org_id, name, description, category, behaviors, sort_order, is_active, created_at
    FROM competencies
    WHERE org_id = $1
  `
	args := []any{orgID}
	if category != "" {
		query += " AND category = $2"
		args = append(args, category)
	}
	if activeOnly {
		query += " AND is_active = true"
	}
	query += " ORDER BY sort_order, name"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var competencies []Competency
	for rows.Next() {
		var competency Competency
		if err := rows.Scan(&competency.ID, &competency.OrgID, &competency.Name, &competency.Description, &competency.Category, &competency.Behaviors, &competency.Order, &competency.IsActive, &competency.CreatedAt); err != nil {
			return nil, err
		}
		competencies = append(competencies, competency)
	}
	return competencies, nil
}

func (s *Store) GetCompetency(ctx context.Context, orgID, competencyID string) (Competency, error) {
	var competency Competency
	err := s.DB.QueryRow(ctx, `
    SELECT id, org_id, name, description, category, behaviors, sort_order, is_active, created_at
    FROM competencies
    WHERE org_id = $1 AND id = $2
  `, orgID, competencyID).Scan(&competency.ID, &competency.OrgID, &competency.Name, &competency.Description, &competency.Category, &competency.Behaviors, &competency.Order, &competency.IsActive, &competency.CreatedAt)
	if err == pgx.ErrNoRows {
		return Competency{}, ErrNotFound
	}
	if err != nil {
		return Competency{}, err
	}
	return competency, nil
}

func (s *Store) ActiveNameExists(ctx context.Context, orgID, name, excludeID string) (bool, error) {
	var count int
	if err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM competencies
    WHERE org_id = $1 AND lower(name) = lower($2) AND is_active = true AND id::text <> $3
  `, orgID, name, excludeID).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) CountCompetencies(ctx context.Context, orgID string) (int, error) {
	var count int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM competencies WHERE org_id = $1", orgID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) CreateCompetency(ctx context.Context, orgID string, details CompetencyDetails) (string, error) {
	var id string
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO competencies (org_id, name, description, category, behaviors, sort_order, is_active)
    VALUES ($1,$2,$3,$4,$5,$6,true)
    RETURNING id
  `, orgID, details.Name, details.Description, details.Category, details.Behaviors, details.Order).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) UpdateCompetency(ctx context.Context, orgID, competencyID string, details CompetencyDetails) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE competencies
    SET name = $1, description = $2, category = $3, behaviors = $4, sort_order = $5
    WHERE org_id = $6 AND id = $7
  `, details.Name, details.Description, details.Category, details.Behaviors, details.Order, orgID, competencyID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeactivateCompetency soft-deletes. Rows referenced by ratings keep their id
// so historical ratings stay resolvable.
func (s *Store) DeactivateCompetency(ctx context.Context, orgID, competencyID string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE competencies
    SET is_active = false
    WHERE org_id = $1 AND id = $2
  `, orgID, competencyID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
