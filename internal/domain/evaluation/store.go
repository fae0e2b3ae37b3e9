package evaluation

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"engage/internal/platform/querier"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const evaluationColumns = `
  id, cycle_id, evaluator_id, evaluatee_id, eval_type, status,
  overall_rating, overall_comments, strengths, improvements,
  career_goals, development_plan, submitted_at, updated_at`

func scanEvaluation(row pgx.Row, out *Evaluation) error {
	return row.Scan(&out.ID, &out.CycleID, &out.EvaluatorID, &out.EvaluateeID, &out.Type, &out.Status,
		&out.OverallRating, &out.OverallComments, &out.Strengths, &out.Improvements,
		&out.CareerGoals, &out.DevelopmentPlan, &out.SubmittedAt, &out.UpdatedAt)
}

func (s *Store) GetEvaluation(ctx context.Context, orgID, evaluationID string) (Evaluation, error) {
	var out Evaluation
	err := scanEvaluation(s.DB.QueryRow(ctx, `
    SELECT `+evaluationColumns+`
    FROM evaluations
    WHERE id = $2 AND cycle_id IN (SELECT id FROM evaluation_cycles WHERE org_id = $1)
  `, orgID, evaluationID), &out)
	if err == pgx.ErrNoRows {
		return Evaluation{}, ErrNotFound
	}
	if err != nil {
		return Evaluation{}, err
	}

	ratings, err := s.listRatings(ctx, s.DB, evaluationID)
	if err != nil {
		return Evaluation{}, err
	}
	out.Ratings = ratings
	return out, nil
}

func (s *Store) ListForEvaluator(ctx context.Context, cycleID, evaluatorID string) ([]Evaluation, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+evaluationColumns+`
    FROM evaluations
    WHERE cycle_id = $1 AND evaluator_id = $2
    ORDER BY eval_type, evaluatee_id
  `, cycleID, evaluatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var evaluations []Evaluation
	for rows.Next() {
		var out Evaluation
		if err := scanEvaluation(rows, &out); err != nil {
			return nil, err
		}
		evaluations = append(evaluations, out)
	}
	return evaluations, nil
}

// SaveDraft persists an autosave snapshot. Each snapshot carries the full
// current field state, so the write is last-write-wins by design.
func (s *Store) SaveDraft(ctx context.Context, evaluationID string, fields DraftFields) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
    UPDATE evaluations
    SET overall_rating = $1, overall_comments = $2, strengths = $3, improvements = $4,
        career_goals = $5, development_plan = $6, updated_at = now()
    WHERE id = $7 AND status = $8
  `, fields.OverallRating, fields.OverallComments, fields.Strengths, fields.Improvements,
		fields.CareerGoals, fields.DevelopmentPlan, evaluationID, StatusDraft)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadySubmitted
	}

	if err := s.replaceRatings(ctx, tx, evaluationID, fields.Ratings); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Submit flips the evaluation to submitted and replaces its ratings in one
// transaction; a failure leaves the draft untouched.
func (s *Store) Submit(ctx context.Context, evaluationID string, fields DraftFields, submittedAt time.Time) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
    UPDATE evaluations
    SET status = $1, overall_rating = $2, overall_comments = $3, strengths = $4,
        improvements = $5, career_goals = $6, development_plan = $7,
        submitted_at = $8, updated_at = now()
    WHERE id = $9 AND status = $10
  `, StatusSubmitted, fields.OverallRating, fields.OverallComments, fields.Strengths,
		fields.Improvements, fields.CareerGoals, fields.DevelopmentPlan, submittedAt, evaluationID, StatusDraft)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadySubmitted
	}

	if err := s.replaceRatings(ctx, tx, evaluationID, fields.Ratings); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Store) AdvanceReviewStatus(ctx context.Context, orgID, evaluationID, from, to string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE evaluations
    SET status = $1, updated_at = now()
    WHERE id = $2 AND status = $3
      AND cycle_id IN (SELECT id FROM evaluation_cycles WHERE org_id = $4)
  `, to, evaluationID, from, orgID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBadReviewStep
	}
	return nil
}

func (s *Store) replaceRatings(ctx context.Context, q querier.Querier, evaluationID string, ratings []CompetencyRating) error {
	if _, err := q.Exec(ctx, "DELETE FROM competency_ratings WHERE evaluation_id = $1", evaluationID); err != nil {
		return err
	}
	for _, rating := range ratings {
		if _, err := q.Exec(ctx, `
      INSERT INTO competency_ratings (evaluation_id, competency_id, rating, comments, behaviors, examples, improvement_areas)
      VALUES ($1,$2,$3,$4,$5,$6,$7)
    `, evaluationID, rating.CompetencyID, rating.Rating, rating.Comments, rating.Behaviors, rating.Examples, rating.ImprovementAreas); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) listRatings(ctx context.Context, q querier.Querier, evaluationID string) ([]CompetencyRating, error) {
	rows, err := q.Query(ctx, `
    SELECT competency_id, rating, comments, behaviors, examples, improvement_areas
    FROM competency_ratings
    WHERE evaluation_id = $1
    ORDER BY competency_id
  `, evaluationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ratings []CompetencyRating
	for rows.Next() {
		var rating CompetencyRating
		if err := rows.Scan(&rating.CompetencyID, &rating.Rating, &rating.Comments, &rating.Behaviors, &rating.Examples, &rating.ImprovementAreas); err != nil {
			return nil, err
		}
		ratings = append(ratings, rating)
	}
	return ratings, nil
}
