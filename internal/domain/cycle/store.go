package cycle

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"engage/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) CreateCycle(ctx context.Context, orgID, name, cycleType string, startDate, endDate time.Time) (string, error) {
	var id string
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO evaluation_cycles (org_id, name, cycle_type, start_date, end_date, status)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id
  `, orgID, name, cycleType, startDate, endDate, StatusDraft).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) GetCycle(ctx context.Context, orgID, cycleID string) (EvaluationCycle, error) {
	var out EvaluationCycle
	err := s.DB.QueryRow(ctx, `
    SELECT id, org_id, name, cycle_type, start_date, end_date, status, created_at
    FROM evaluation_cycles
    WHERE org_id = $1 AND id = $2
  `, orgID, cycleID).Scan(&out.ID, &out.OrgID, &out.Name, &out.Type, &out.StartDate, &out.EndDate, &out.Status, &out.CreatedAt)
	if err == pgx.ErrNoRows {
		return EvaluationCycle{}, ErrNotFound
	}
	if err != nil {
		return EvaluationCycle{}, err
	}

	phases, err := s.listPhases(ctx, cycleID)
	if err != nil {
		return EvaluationCycle{}, err
	}
	out.Phases = phases
	return out, nil
}

func (s *Store) CycleStatus(ctx context.Context, orgID, cycleID string) (string, error) {
	var status string
	err := s.DB.QueryRow(ctx, `
    SELECT status FROM evaluation_cycles WHERE org_id = $1 AND id = $2
  `, orgID, cycleID).Scan(&status)
	if err == pgx.ErrNoRows {
		return "", ErrNotFound
	}
	return status, err
}

func (s *Store) UpdateStatus(ctx context.Context, orgID, cycleID, status string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE evaluation_cycles SET status = $1 WHERE org_id = $2 AND id = $3
  `, status, orgID, cycleID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// OpenCycleOverlaps checks draft/active cycles only; completed and archived
// cycles never block a new date range.
func (s *Store) OpenCycleOverlaps(ctx context.Context, orgID string, startDate, endDate time.Time) (bool, error) {
	var count int
	if err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM evaluation_cycles
    WHERE org_id = $1
      AND status IN ($2, $3)
      AND start_date <= $5
      AND end_date >= $4
  `, orgID, StatusDraft, StatusActive, startDate, endDate).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) ListCycles(ctx context.Context, orgID string) ([]CycleSummary, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT c.id, c.org_id, c.name, c.cycle_type, c.start_date, c.end_date, c.status, c.created_at,
           COUNT(e.id),
           COALESCE(SUM(CASE WHEN e.status <> 'draft' THEN 1 ELSE 0 END), 0)
    FROM evaluation_cycles c
    LEFT JOIN evaluations e ON e.cycle_id = c.id
    WHERE c.org_id = $1
    GROUP BY c.id
    ORDER BY c.start_date DESC
  `, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cycles []CycleSummary
	for rows.Next() {
		var summary CycleSummary
		if err := rows.Scan(&summary.ID, &summary.OrgID, &summary.Name, &summary.Type, &summary.StartDate, &summary.EndDate, &summary.Status, &summary.CreatedAt, &summary.EvaluationsTotal, &summary.EvaluationsSubmitted); err != nil {
			return nil, err
		}
		cycles = append(cycles, summary)
	}
	return cycles, nil
}

func (s *Store) ReplacePhases(ctx context.Context, cycleID string, phases []Phase) error {
	if _, err := s.DB.Exec(ctx, "DELETE FROM cycle_phases WHERE cycle_id = $1", cycleID); err != nil {
		return err
	}
	for _, phase := range phases {
		if _, err := s.DB.Exec(ctx, `
      INSERT INTO cycle_phases (cycle_id, name, sort_order, start_date, end_date)
      VALUES ($1,$2,$3,$4,$5)
    `, cycleID, phase.Name, phase.Order, phase.StartDate, phase.EndDate); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) listPhases(ctx context.Context, cycleID string) ([]Phase, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT name, sort_order, start_date, end_date
    FROM cycle_phases
    WHERE cycle_id = $1
    ORDER BY sort_order
  `, cycleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var phases []Phase
	for rows.Next() {
		var phase Phase
		if err := rows.Scan(&phase.Name, &phase.Order, &phase.StartDate, &phase.EndDate); err != nil {
			return nil, err
		}
		phases = append(phases, phase)
	}
	return phases, nil
}
