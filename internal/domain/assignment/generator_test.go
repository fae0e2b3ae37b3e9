package assignment

import (
	"context"
	"testing"

	"engage/internal/domain/cycle"
	"engage/internal/domain/org"
)

// three team members plus their manager, everyone active
func teamFixture() ([]org.Member, []org.Team) {
	members := []org.Member{
		{UserID: "mgr"},
		{UserID: "a", TeamIDs: []string{"t1"}},
		{UserID: "b", TeamIDs: []string{"t1"}},
		{UserID: "c", TeamIDs: []string{"t1"}},
	}
	teams := []org.Team{
		{ID: "t1", Name: "Platform", ManagerID: "mgr", MemberIDs: []string{"a", "b", "c"}},
	}
	return members, teams
}

func countByType(assignments []Assignment) map[string]int {
	counts := map[string]int{}
	for _, a := range assignments {
		counts[a.Type]++
	}
	return counts
}

func TestComputeSelfManagerPeer(t *testing.T) {
	members, teams := teamFixture()
	assignments := Compute("cy-1", cycle.Type360, members, teams, SameTeamPolicy{})

	counts := countByType(assignments)
	// every active user, the manager included, rates themselves
	if counts[cycle.TypeSelf] != 4 {
		t.Fatalf("expected 4 self evaluations, got %d", counts[cycle.TypeSelf])
	}
	// manager -> each of the 3 members, never manager -> manager
	if counts[cycle.TypeManager] != 3 {
		t.Fatalf("expected 3 manager evaluations, got %d", counts[cycle.TypeManager])
	}
	if counts[cycle.TypeUpward] != 3 {
		t.Fatalf("expected 3 upward evaluations, got %d", counts[cycle.TypeUpward])
	}
	// directed peer pairs among a, b, c
	if counts[cycle.TypePeer] != 6 {
		t.Fatalf("expected 6 peer evaluations, got %d", counts[cycle.TypePeer])
	}

	for _, a := range assignments {
		if a.Type != cycle.TypeSelf && a.EvaluatorID == a.EvaluateeID {
			t.Fatalf("self-loop generated for type %s", a.Type)
		}
		if a.Type == cycle.TypeManager && a.EvaluateeID == "mgr" {
			t.Fatal("manager evaluating themselves as manager")
		}
	}
}

func TestManagerNeverTheirOwnManager(t *testing.T) {
	members := []org.Member{{UserID: "mgr", TeamIDs: []string{"t1"}}}
	teams := []org.Team{{ID: "t1", ManagerID: "mgr", MemberIDs: []string{"mgr"}}}

	assignments := Compute("cy-1", cycle.TypeManager, members, teams, nil)
	if len(assignments) != 0 {
		t.Fatalf("expected no manager self-loop, got %v", assignments)
	}
}

func TestComputeUserWithoutTeamGetsSelfOnly(t *testing.T) {
	members := []org.Member{{UserID: "solo"}}
	assignments := Compute("cy-1", cycle.Type360, members, nil, SameTeamPolicy{})

	if len(assignments) != 1 {
		t.Fatalf("expected only a self evaluation, got %v", assignments)
	}
	if assignments[0].Type != cycle.TypeSelf || assignments[0].EvaluatorID != "solo" {
		t.Fatalf("unexpected assignment %+v", assignments[0])
	}
}

func TestComputeSkipLevel(t *testing.T) {
	members := []org.Member{
		{UserID: "director", TeamIDs: []string{"leads"}},
		{UserID: "mgr", TeamIDs: []string{"leads", "t1"}},
		{UserID: "a", TeamIDs: []string{"t1"}},
	}
	teams := []org.Team{
		{ID: "leads", ManagerID: "director", MemberIDs: []string{"director", "mgr"}},
		{ID: "t1", ManagerID: "mgr", MemberIDs: []string{"mgr", "a"}},
	}

	assignments := Compute("cy-1", cycle.TypeSkipLevel, members, teams, nil)
	if len(assignments) != 1 {
		t.Fatalf("expected exactly one skip-level evaluation, got %v", assignments)
	}
	got := assignments[0]
	if got.EvaluatorID != "director" || got.EvaluateeID != "a" {
		t.Fatalf("expected director -> a, got %+v", got)
	}
}

func TestComputeExcludesInactiveEvaluators(t *testing.T) {
	members, teams := teamFixture()
	// drop the manager from the active set but keep them on the team
	members = members[1:]

	assignments := Compute("cy-1", cycle.TypeManager, members, teams, nil)
	if len(assignments) != 0 {
		t.Fatalf("expected no manager evaluations from inactive manager, got %v", assignments)
	}
}

func TestComputeExcludesInactiveEvaluatees(t *testing.T) {
	members, teams := teamFixture()
	// the manager left the org but is still referenced by the team; nobody
	// should rate them upward anymore
	members = members[1:]

	assignments := Compute("cy-1", cycle.TypeUpward, members, teams, nil)
	if len(assignments) != 0 {
		t.Fatalf("expected no upward evaluations of an inactive manager, got %v", assignments)
	}
}

func TestExplicitPeerPolicy(t *testing.T) {
	members, teams := teamFixture()
	policy := ExplicitListPolicy{Peers: map[string][]string{"a": {"c"}}}

	assignments := Compute("cy-1", cycle.TypePeer, members, teams, policy)
	if len(assignments) != 1 {
		t.Fatalf("expected one peer evaluation, got %v", assignments)
	}
	if assignments[0].EvaluatorID != "c" || assignments[0].EvaluateeID != "a" {
		t.Fatalf("expected c -> a, got %+v", assignments[0])
	}
}

type fakeAssignmentStore struct {
	created map[Assignment]bool
}

func (f *fakeAssignmentStore) CreateAssignment(ctx context.Context, a Assignment) (bool, error) {
	if f.created == nil {
		f.created = map[Assignment]bool{}
	}
	if f.created[a] {
		return false, nil
	}
	f.created[a] = true
	return true, nil
}

type fakeOrgReader struct {
	members []org.Member
	teams   []org.Team
}

func (f *fakeOrgReader) ListActiveMembers(ctx context.Context, orgID string) ([]org.Member, error) {
	return f.members, nil
}

func (f *fakeOrgReader) ListTeams(ctx context.Context, orgID string) ([]org.Team, error) {
	return f.teams, nil
}

func (f *fakeOrgReader) ExplicitPeers(ctx context.Context, cycleID string) (map[string][]string, error) {
	return nil, nil
}

type fakeCycleReader struct {
	cycle cycle.EvaluationCycle
}

func (f *fakeCycleReader) Get(ctx context.Context, orgID, cycleID string) (cycle.EvaluationCycle, error) {
	return f.cycle, nil
}

func TestGenerateIsIdempotent(t *testing.T) {
	members, teams := teamFixture()
	store := &fakeAssignmentStore{}
	service := NewService(store, &fakeOrgReader{members: members, teams: teams}, &fakeCycleReader{
		cycle: cycle.EvaluationCycle{ID: "cy-1", Type: cycle.Type360, Status: cycle.StatusActive},
	})

	first, err := service.Generate(context.Background(), "org-1", "cy-1")
	if err != nil {
		t.Fatalf("first generation failed: %v", err)
	}
	if first.Created == 0 || first.Created != first.Computed {
		t.Fatalf("expected all computed assignments created, got %+v", first)
	}

	second, err := service.Generate(context.Background(), "org-1", "cy-1")
	if err != nil {
		t.Fatalf("second generation failed: %v", err)
	}
	if second.Created != 0 {
		t.Fatalf("expected zero new evaluations on rerun, got %d", second.Created)
	}
	if second.Existing != first.Created {
		t.Fatalf("expected %d existing, got %d", first.Created, second.Existing)
	}
}

func TestGenerateRejectsClosedCycle(t *testing.T) {
	service := NewService(&fakeAssignmentStore{}, &fakeOrgReader{}, &fakeCycleReader{
		cycle: cycle.EvaluationCycle{ID: "cy-1", Type: cycle.Type360, Status: cycle.StatusCompleted},
	})
	if _, err := service.Generate(context.Background(), "org-1", "cy-1"); err != ErrCycleClosed {
		t.Fatalf("expected ErrCycleClosed, got %v", err)
	}
}
