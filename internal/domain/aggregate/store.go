package aggregate

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"engage/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

// LoadSamples returns every competency rating for the evaluatee in the cycle
// coming from a submitted evaluation. Drafts never contribute.
func (s *Store) LoadSamples(ctx context.Context, orgID, cycleID, evaluateeID string) ([]RatingSample, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT e.id, r.competency_id, e.eval_type, r.rating
    FROM competency_ratings r
    JOIN evaluations e ON e.id = r.evaluation_id
    JOIN evaluation_cycles c ON c.id = e.cycle_id
    WHERE c.org_id = $1
      AND e.cycle_id = $2
      AND e.evaluatee_id = $3
      AND e.status IN ('submitted','reviewed','approved','shared')
  `, orgID, cycleID, evaluateeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []RatingSample
	for rows.Next() {
		var sample RatingSample
		if err := rows.Scan(&sample.EvaluationID, &sample.CompetencyID, &sample.Type, &sample.Rating); err != nil {
			return nil, err
		}
		samples = append(samples, sample)
	}
	return samples, rows.Err()
}

// ListEvaluatees returns the distinct people with at least one submitted
// evaluation in the cycle, for whole-cycle reporting.
func (s *Store) ListEvaluatees(ctx context.Context, orgID, cycleID string) ([]string, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT DISTINCT e.evaluatee_id
    FROM evaluations e
    JOIN evaluation_cycles c ON c.id = e.cycle_id
    WHERE c.org_id = $1
      AND e.cycle_id = $2
      AND e.status IN ('submitted','reviewed','approved','shared')
    ORDER BY e.evaluatee_id
  `, orgID, cycleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var evaluatees []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		evaluatees = append(evaluatees, id)
	}
	return evaluatees, rows.Err()
}

// TypeWeights reads the org override from org_settings, falling back to the
// defaults only when no override row exists. Query failures propagate.
func (s *Store) TypeWeights(ctx context.Context, orgID string) (map[string]float64, error) {
	var raw []byte
	err := s.DB.QueryRow(ctx, `
    SELECT value FROM org_settings
    WHERE org_id = $1 AND key = 'evaluation_type_weights'
  `, orgID).Scan(&raw)
	if err == pgx.ErrNoRows {
		return DefaultTypeWeights(), nil
	}
	if err != nil {
		return nil, err
	}
	var overrides map[string]float64
	if err := json.Unmarshal(raw, &overrides); err != nil {
		return nil, fmt.Errorf("malformed evaluation_type_weights for org %s: %w", orgID, err)
	}
	weights := DefaultTypeWeights()
	for evalType, weight := range overrides {
		weights[evalType] = weight
	}
	return weights, nil
}
