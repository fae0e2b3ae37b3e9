package assignment

import (
	"context"
	"errors"
	"log/slog"

	"engage/internal/domain/cycle"
)

var ErrCycleClosed = errors.New("cannot generate assignments for a completed or archived cycle")

type Service struct {
	store  StoreAPI
	orgs   OrgReader
	cycles CycleReader
}

func NewService(store StoreAPI, orgs OrgReader, cycles CycleReader) *Service {
	return &Service{store: store, orgs: orgs, cycles: cycles}
}

// Generate materializes missing evaluations for the cycle. It is additive
// and idempotent: existing rows are never touched, so re-running after an
// org change (new hire, reassigned manager) only fills the gaps.
func (s *Service) Generate(ctx context.Context, orgID, cycleID string) (Result, error) {
	cyc, err := s.cycles.Get(ctx, orgID, cycleID)
	if err != nil {
		return Result{}, err
	}
	if cyc.Status == cycle.StatusCompleted || cyc.Status == cycle.StatusArchived {
		return Result{}, ErrCycleClosed
	}

	members, err := s.orgs.ListActiveMembers(ctx, orgID)
	if err != nil {
		return Result{}, err
	}
	teams, err := s.orgs.ListTeams(ctx, orgID)
	if err != nil {
		return Result{}, err
	}

	policy, err := s.peerPolicy(ctx, cycleID)
	if err != nil {
		return Result{}, err
	}

	computed := Compute(cycleID, cyc.Type, members, teams, policy)
	result := Result{Computed: len(computed)}
	for _, a := range computed {
		created, err := s.store.CreateAssignment(ctx, a)
		if err != nil {
			return result, err
		}
		if created {
			result.Created++
			result.NewAssignments = append(result.NewAssignments, a)
		} else {
			result.Existing++
		}
	}
	slog.Info("assignment generation finished",
		"cycleId", cycleID, "computed", result.Computed, "created", result.Created)
	return result, nil
}

// peerPolicy prefers explicit selections when any exist for the cycle and
// falls back to same-team peers otherwise.
func (s *Service) peerPolicy(ctx context.Context, cycleID string) (PeerPolicy, error) {
	explicit, err := s.orgs.ExplicitPeers(ctx, cycleID)
	if err != nil {
		return nil, err
	}
	if len(explicit) > 0 {
		return ExplicitListPolicy{Peers: explicit}, nil
	}
	return SameTeamPolicy{}, nil
}
