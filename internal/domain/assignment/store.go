package assignment

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"engage/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const uniqueViolation = "23505"

// CreateAssignment inserts a draft evaluation for the tuple. A duplicate
// insert loses the race against the uniqueness constraint and reports
// created=false; that is the whole concurrency story for generation.
func (s *Store) CreateAssignment(ctx context.Context, a Assignment) (bool, error) {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO evaluations (cycle_id, evaluator_id, evaluatee_id, eval_type, status)
    VALUES ($1,$2,$3,$4,'draft')
  `, a.CycleID, a.EvaluatorID, a.EvaluateeID, a.Type)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
