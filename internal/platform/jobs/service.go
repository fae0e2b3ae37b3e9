package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"engage/internal/domain/assignment"
	"engage/internal/platform/config"
)

const JobAssignmentRefresh = "assignment_refresh"

// Generator regenerates missing evaluations for a cycle. Satisfied by
// *assignment.Service.
type Generator interface {
	Generate(ctx context.Context, orgID, cycleID string) (assignment.Result, error)
}

type Service struct {
	DB        *pgxpool.Pool
	Cfg       config.Config
	Generator Generator
	queue     chan job
}

type job struct {
	Type  string
	OrgID string
	Run   func(context.Context) (any, error)
}

func New(db *pgxpool.Pool, cfg config.Config, generator Generator) *Service {
	return &Service{
		DB:        db,
		Cfg:       cfg,
		Generator: generator,
		queue:     make(chan job, 128),
	}
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	if s.Cfg.GenerationInterval > 0 {
		go s.scheduleGeneration(ctx, s.Cfg.GenerationInterval)
	}
}

func (s *Service) Enqueue(jobType, orgID string, run func(context.Context) (any, error)) {
	select {
	case s.queue <- job{Type: jobType, OrgID: orgID, Run: run}:
	default:
		slog.Warn("job queue full", "jobType", jobType, "organizationId", orgID)
	}
}

func (s *Service) RunNow(ctx context.Context, jobType, orgID string, run func(context.Context) (any, error)) (any, error) {
	return s.runJob(ctx, job{Type: jobType, OrgID: orgID, Run: run})
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "organizationId", j.OrgID, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID := ""
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO job_runs (org_id, job_type, status)
    VALUES ($1,$2,$3)
    RETURNING id
  `, j.OrgID, j.Type, "running").Scan(&runID); err != nil {
		slog.Warn("job run insert failed", "err", err)
	}

	details, err := j.Run(ctx)
	status := "completed"
	if err != nil {
		status = "failed"
	}
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		slog.Warn("job details marshal failed", "err", marshalErr)
		detailsJSON = []byte("{}")
	}
	if runID != "" {
		if _, updErr := s.DB.Exec(ctx, `
      UPDATE job_runs
      SET status = $1, details_json = $2, completed_at = now()
      WHERE id = $3
    `, status, detailsJSON, runID); updErr != nil {
			slog.Warn("job run update failed", "err", updErr)
		}
	}
	return details, err
}

// scheduleGeneration periodically re-runs assignment generation for every
// active cycle. Generation is additive and idempotent, so this picks up new
// hires and team changes without duplicating existing evaluations.
func (s *Service) scheduleGeneration(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cycles, err := s.listActiveCycles(ctx)
			if err != nil {
				slog.Warn("generation scheduler cycle lookup failed", "err", err)
				continue
			}
			for _, c := range cycles {
				target := c
				s.Enqueue(JobAssignmentRefresh, target.OrgID, func(ctx context.Context) (any, error) {
					result, err := s.Generator.Generate(ctx, target.OrgID, target.CycleID)
					return map[string]any{
						"cycleId":  target.CycleID,
						"computed": result.Computed,
						"created":  result.Created,
					}, err
				})
			}
		}
	}
}

type activeCycle struct {
	OrgID   string
	CycleID string
}

func (s *Service) listActiveCycles(ctx context.Context) ([]activeCycle, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT org_id, id FROM evaluation_cycles WHERE status = 'active'
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []activeCycle
	for rows.Next() {
		var c activeCycle
		if err := rows.Scan(&c.OrgID, &c.CycleID); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
