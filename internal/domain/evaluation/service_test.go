package evaluation

import (
	"context"
	"testing"
	"time"

	"engage/internal/domain/cycle"
)

type fakeStore struct {
	evaluation  Evaluation
	saveCalls   int
	submitCalls int
}

func (f *fakeStore) GetEvaluation(ctx context.Context, orgID, evaluationID string) (Evaluation, error) {
	return f.evaluation, nil
}

func (f *fakeStore) ListForEvaluator(ctx context.Context, cycleID, evaluatorID string) ([]Evaluation, error) {
	return []Evaluation{f.evaluation}, nil
}

func (f *fakeStore) SaveDraft(ctx context.Context, evaluationID string, fields DraftFields) error {
	f.saveCalls++
	return nil
}

func (f *fakeStore) Submit(ctx context.Context, evaluationID string, fields DraftFields, submittedAt time.Time) error {
	f.submitCalls++
	return nil
}

func (f *fakeStore) AdvanceReviewStatus(ctx context.Context, orgID, evaluationID, from, to string) error {
	f.evaluation.Status = to
	return nil
}

type fakeCycles struct {
	status string
}

func (f *fakeCycles) CycleStatus(ctx context.Context, orgID, cycleID string) (string, error) {
	return f.status, nil
}

func draftEvaluation() Evaluation {
	return Evaluation{
		ID:          "ev-1",
		CycleID:     "cy-1",
		EvaluatorID: "u-1",
		EvaluateeID: "u-2",
		Type:        cycle.TypeManager,
		Status:      StatusDraft,
	}
}

func TestSaveDraftRejectsNonEvaluator(t *testing.T) {
	store := &fakeStore{evaluation: draftEvaluation()}
	service := NewService(store, &fakeCycles{status: cycle.StatusActive})

	err := service.SaveDraft(context.Background(), "org-1", "ev-1", "someone-else", DraftFields{})
	if err != ErrNotEvaluator {
		t.Fatalf("expected ErrNotEvaluator, got %v", err)
	}
	if store.saveCalls != 0 {
		t.Fatalf("expected no store write, got %d", store.saveCalls)
	}
}

func TestSaveDraftRejectsInactiveCycle(t *testing.T) {
	store := &fakeStore{evaluation: draftEvaluation()}
	service := NewService(store, &fakeCycles{status: cycle.StatusCompleted})

	err := service.SaveDraft(context.Background(), "org-1", "ev-1", "u-1", DraftFields{})
	if err != ErrCycleInactive {
		t.Fatalf("expected ErrCycleInactive, got %v", err)
	}
	if store.saveCalls != 0 {
		t.Fatalf("expected no store write, got %d", store.saveCalls)
	}
}

func TestSubmitRejectsAlreadySubmitted(t *testing.T) {
	submitted := draftEvaluation()
	submitted.Status = StatusSubmitted
	store := &fakeStore{evaluation: submitted}
	service := NewService(store, &fakeCycles{status: cycle.StatusActive})

	rating := 4.0
	err := service.Submit(context.Background(), "org-1", "ev-1", "u-1", DraftFields{OverallRating: &rating})
	if err != ErrAlreadySubmitted {
		t.Fatalf("expected ErrAlreadySubmitted, got %v", err)
	}
	if store.submitCalls != 0 {
		t.Fatalf("expected no submit write, got %d", store.submitCalls)
	}
}

func TestSubmitValidatesRatings(t *testing.T) {
	store := &fakeStore{evaluation: draftEvaluation()}
	service := NewService(store, &fakeCycles{status: cycle.StatusActive})

	rating := 4.0
	fields := DraftFields{
		OverallRating: &rating,
		Ratings:       []CompetencyRating{{CompetencyID: "c-1", Rating: 7}},
	}
	if err := service.Submit(context.Background(), "org-1", "ev-1", "u-1", fields); err != ErrInvalidRating {
		t.Fatalf("expected ErrInvalidRating, got %v", err)
	}

	fields.Ratings[0].Rating = 4
	if err := service.Submit(context.Background(), "org-1", "ev-1", "u-1", fields); err != nil {
		t.Fatalf("expected submit to succeed, got %v", err)
	}
	if store.submitCalls != 1 {
		t.Fatalf("expected one submit write, got %d", store.submitCalls)
	}
}

func TestAdvanceReviewForwardOnly(t *testing.T) {
	submitted := draftEvaluation()
	submitted.Status = StatusSubmitted
	store := &fakeStore{evaluation: submitted}
	service := NewService(store, &fakeCycles{status: cycle.StatusActive})

	if err := service.AdvanceReview(context.Background(), "org-1", "ev-1", StatusApproved); err != ErrBadReviewStep {
		t.Fatalf("expected skip to approved to fail, got %v", err)
	}
	if err := service.AdvanceReview(context.Background(), "org-1", "ev-1", StatusReviewed); err != nil {
		t.Fatalf("expected submitted -> reviewed to pass, got %v", err)
	}
	if err := service.AdvanceReview(context.Background(), "org-1", "ev-1", StatusSubmitted); err != ErrBadReviewStep {
		t.Fatalf("expected regression to fail, got %v", err)
	}
}
