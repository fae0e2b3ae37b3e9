package formsession

import (
	"context"
	"errors"
	"testing"
	"time"

	"engage/internal/domain/catalog"
	"engage/internal/domain/cycle"
	"engage/internal/domain/evaluation"
)

type fakeBackend struct {
	data        FormData
	loadErr     error
	saveErr     error
	failAfter   int // when set, saves beyond this count fail
	submitErr   error
	saveCalls   int
	submitCalls int
	saved       []Snapshot
}

func (f *fakeBackend) Load(ctx context.Context, evaluationID string) (FormData, error) {
	if f.loadErr != nil {
		return FormData{}, f.loadErr
	}
	return f.data, nil
}

func (f *fakeBackend) SaveDraft(ctx context.Context, snap Snapshot) error {
	f.saveCalls++
	if f.saveErr != nil {
		return f.saveErr
	}
	if f.failAfter > 0 && f.saveCalls > f.failAfter {
		return errors.New("connection dropped")
	}
	f.saved = append(f.saved, snap)
	return nil
}

func (f *fakeBackend) Submit(ctx context.Context, snap Snapshot) error {
	f.submitCalls++
	return f.submitErr
}

func formFixture() FormData {
	return FormData{
		EvaluationID:     "ev-1",
		EvaluationStatus: evaluation.StatusDraft,
		CycleStatus:      cycle.StatusActive,
		Competencies: []catalog.Competency{
			{ID: "comp-1", Name: "Communication"},
			{ID: "comp-2", Name: "Ownership"},
		},
		UpdatedAt: time.Now().Add(-time.Hour),
	}
}

func loadedSession(t *testing.T, backend *fakeBackend) *Session {
	t.Helper()
	session := NewSession(backend, NewWriteAheadBuffer())
	if err := session.Load(context.Background(), "ev-1"); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	return session
}

// fills every required step in order, leaving the session ready to submit
func completeForm(t *testing.T, session *Session) {
	t.Helper()
	session.SetRating("comp-1", 4)
	if !session.ValidateCurrentStep() || !session.NextStep() {
		t.Fatal("could not pass competency step 1")
	}
	session.SetRating("comp-2", 5)
	if !session.ValidateCurrentStep() || !session.NextStep() {
		t.Fatal("could not pass competency step 2")
	}
	session.SetText(FieldStrengths, "clear writing")
	if !session.ValidateCurrentStep() || !session.NextStep() {
		t.Fatal("could not pass strengths step")
	}
	session.SetText(FieldImprovements, "delegate more")
	if !session.ValidateCurrentStep() || !session.NextStep() {
		t.Fatal("could not pass improvements step")
	}
	// optional career goals and development plan, skipped
	if !session.ValidateCurrentStep() || !session.NextStep() {
		t.Fatal("could not skip career goals step")
	}
	if !session.ValidateCurrentStep() || !session.NextStep() {
		t.Fatal("could not skip development plan step")
	}
	session.SetOverall(4, "solid half")
	if !session.ValidateCurrentStep() {
		t.Fatal("review step did not validate")
	}
}

func TestNavigationClampedAndGated(t *testing.T) {
	session := loadedSession(t, &fakeBackend{data: formFixture()})

	if session.PreviousStep(); session.CurrentStep() != 0 {
		t.Fatalf("expected clamp at step 0, got %d", session.CurrentStep())
	}
	// jumping past the furthest completed step is rejected with no movement
	if session.GoToStep(3) {
		t.Fatal("expected jump past incomplete steps to be rejected")
	}
	if session.CurrentStep() != 0 {
		t.Fatalf("rejected jump moved the cursor to %d", session.CurrentStep())
	}

	session.SetRating("comp-1", 4)
	if !session.ValidateCurrentStep() {
		t.Fatal("expected step to validate with a rating set")
	}
	if !session.NextStep() {
		t.Fatal("expected next step after completing the first")
	}
}

func TestValidateRequiresRating(t *testing.T) {
	session := loadedSession(t, &fakeBackend{data: formFixture()})
	if session.ValidateCurrentStep() {
		t.Fatal("competency step validated without a rating")
	}
	session.SetRating("comp-1", 9)
	if session.ValidateCurrentStep() {
		t.Fatal("competency step validated with an out-of-range rating")
	}
}

func TestCanSubmitGates(t *testing.T) {
	backend := &fakeBackend{data: formFixture()}
	session := loadedSession(t, backend)

	if ok, reason := session.CanSubmit(); ok || reason == "" {
		t.Fatalf("expected gate on incomplete steps, got ok=%v reason=%q", ok, reason)
	}
	if err := session.Submit(context.Background()); err == nil {
		t.Fatal("expected gated submit to fail")
	}
	if backend.submitCalls != 0 {
		t.Fatalf("gated submit still hit the backend %d times", backend.submitCalls)
	}

	completeForm(t, session)
	if ok, reason := session.CanSubmit(); !ok {
		t.Fatalf("expected submit allowed, gated on %q", reason)
	}
}

func TestCanSubmitRequiresActiveCycle(t *testing.T) {
	data := formFixture()
	data.CycleStatus = cycle.StatusCompleted
	session := loadedSession(t, &fakeBackend{data: data})
	completeForm(t, session)

	ok, reason := session.CanSubmit()
	if ok || reason != "cycle is not active" {
		t.Fatalf("expected cycle gate, got ok=%v reason=%q", ok, reason)
	}
}

func TestSubmitIsTerminal(t *testing.T) {
	backend := &fakeBackend{data: formFixture()}
	session := loadedSession(t, backend)
	completeForm(t, session)

	if err := session.Submit(context.Background()); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if session.State() != StateSubmitted {
		t.Fatalf("expected terminal state, got %s", session.State())
	}

	if err := session.SaveDraft(context.Background()); !errors.Is(err, ErrSessionSubmitted) {
		t.Fatalf("expected ErrSessionSubmitted from save, got %v", err)
	}
	if err := session.Submit(context.Background()); !errors.Is(err, ErrSessionSubmitted) {
		t.Fatalf("expected ErrSessionSubmitted from resubmit, got %v", err)
	}
	if backend.saveCalls != 0 || backend.submitCalls != 1 {
		t.Fatalf("post-submit calls reached the backend: saves=%d submits=%d",
			backend.saveCalls, backend.submitCalls)
	}
}

func TestSubmitFailureKeepsDraftEditable(t *testing.T) {
	backend := &fakeBackend{data: formFixture(), submitErr: errors.New("conflict")}
	session := loadedSession(t, backend)
	completeForm(t, session)

	if err := session.Submit(context.Background()); err == nil {
		t.Fatal("expected submit error")
	}
	if session.State() != StateReady {
		t.Fatalf("expected session back in ready, got %s", session.State())
	}
	if session.SubmitError() == nil {
		t.Fatal("expected submit error recorded")
	}

	backend.submitErr = nil
	if err := session.Submit(context.Background()); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
}

func TestAutosaveSkipsWhenClean(t *testing.T) {
	backend := &fakeBackend{data: formFixture()}
	session := loadedSession(t, backend)

	if err := session.SaveDraft(context.Background()); err != nil {
		t.Fatalf("clean save errored: %v", err)
	}
	if backend.saveCalls != 0 {
		t.Fatal("clean session should not hit the backend")
	}

	session.SetRating("comp-1", 3)
	if err := session.SaveDraft(context.Background()); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if backend.saveCalls != 1 || session.IsDirty() {
		t.Fatalf("expected one save and a clean session, calls=%d dirty=%v",
			backend.saveCalls, session.IsDirty())
	}
}

func TestAutosaveFailureKeepsDirty(t *testing.T) {
	backend := &fakeBackend{data: formFixture(), saveErr: errors.New("network down")}
	session := loadedSession(t, backend)
	session.SetRating("comp-1", 3)

	if err := session.SaveDraft(context.Background()); err == nil {
		t.Fatal("expected save error")
	}
	if !session.IsDirty() {
		t.Fatal("failed save must leave the session dirty")
	}
	if session.State() != StateReady {
		t.Fatalf("expected session usable after failed save, got %s", session.State())
	}
}

func TestOfflineQueueReplaysInOrder(t *testing.T) {
	backend := &fakeBackend{data: formFixture()}
	session := loadedSession(t, backend)
	session.SetOffline(true)

	session.SetRating("comp-1", 2)
	if err := session.SaveDraft(context.Background()); err != nil {
		t.Fatalf("offline save errored: %v", err)
	}
	session.SetRating("comp-1", 3)
	if err := session.SaveDraft(context.Background()); err != nil {
		t.Fatalf("offline save errored: %v", err)
	}
	session.SetRating("comp-1", 5)
	if err := session.SaveDraft(context.Background()); err != nil {
		t.Fatalf("offline save errored: %v", err)
	}
	if backend.saveCalls != 0 {
		t.Fatalf("offline saves reached the backend %d times", backend.saveCalls)
	}

	flushed, err := session.FlushOffline(context.Background())
	if err != nil {
		t.Fatalf("flush failed: %v", err)
	}
	if flushed != 3 || backend.saveCalls != 3 {
		t.Fatalf("expected 3 replayed saves, flushed=%d calls=%d", flushed, backend.saveCalls)
	}
	// replay order and last-write-wins: the final persisted snapshot is the
	// last one taken
	last := backend.saved[len(backend.saved)-1]
	if last.Values.Ratings["comp-1"] != 5 {
		t.Fatalf("expected final snapshot rating 5, got %v", last.Values.Ratings["comp-1"])
	}
	for i := 1; i < len(backend.saved); i++ {
		if backend.saved[i].UpdatedAt.Before(backend.saved[i-1].UpdatedAt) {
			t.Fatal("snapshots replayed out of order")
		}
	}
	if session.IsDirty() {
		t.Fatal("expected clean session after full flush")
	}
}

func TestFlushStopsAtFirstFailure(t *testing.T) {
	backend := &fakeBackend{data: formFixture()}
	buffer := NewWriteAheadBuffer()
	session := NewSession(backend, buffer)
	if err := session.Load(context.Background(), "ev-1"); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	session.SetOffline(true)
	session.SetRating("comp-1", 2)
	_ = session.SaveDraft(context.Background())
	session.SetRating("comp-1", 4)
	_ = session.SaveDraft(context.Background())

	backend.saveErr = errors.New("still offline")
	if _, err := session.FlushOffline(context.Background()); err == nil {
		t.Fatal("expected flush failure")
	}
	if buffer.Len("ev-1") != 2 {
		t.Fatalf("expected both snapshots still queued, got %d", buffer.Len("ev-1"))
	}

	backend.saveErr = nil
	flushed, err := session.FlushOffline(context.Background())
	if err != nil || flushed != 2 {
		t.Fatalf("expected clean replay of 2, flushed=%d err=%v", flushed, err)
	}
}

func TestFlushPersistsEditsNewerThanQueueTail(t *testing.T) {
	backend := &fakeBackend{data: formFixture()}
	session := loadedSession(t, backend)
	session.SetOffline(true)

	session.SetRating("comp-1", 2)
	if err := session.SaveDraft(context.Background()); err != nil {
		t.Fatalf("offline save errored: %v", err)
	}
	// edited again after the last queued snapshot, no autosave in between
	session.SetRating("comp-1", 5)

	flushed, err := session.FlushOffline(context.Background())
	if err != nil {
		t.Fatalf("flush failed: %v", err)
	}
	if flushed != 1 {
		t.Fatalf("expected 1 replayed snapshot, got %d", flushed)
	}
	last := backend.saved[len(backend.saved)-1]
	if last.Values.Ratings["comp-1"] != 5 {
		t.Fatalf("expected the post-queue edit persisted, backend holds %v",
			last.Values.Ratings["comp-1"])
	}
	if session.IsDirty() {
		t.Fatal("expected clean session once the newest edit landed")
	}
}

func TestFlushKeepsDirtyWhenTrailingSaveFails(t *testing.T) {
	backend := &fakeBackend{data: formFixture()}
	session := loadedSession(t, backend)
	session.SetOffline(true)

	session.SetRating("comp-1", 2)
	_ = session.SaveDraft(context.Background())
	session.SetRating("comp-1", 5)

	// queue replay succeeds, then the connection drops again before the
	// fresh snapshot lands
	backend.failAfter = 1
	if _, err := session.FlushOffline(context.Background()); err == nil {
		t.Fatal("expected trailing save failure to surface")
	}
	if !session.IsDirty() {
		t.Fatal("unsaved edit must keep the session dirty")
	}

	backend.failAfter = 0
	if err := session.Close(context.Background()); err != nil {
		t.Fatalf("final save failed: %v", err)
	}
	last := backend.saved[len(backend.saved)-1]
	if last.Values.Ratings["comp-1"] != 5 {
		t.Fatalf("expected close to persist the newest edit, backend holds %v",
			last.Values.Ratings["comp-1"])
	}
}

func TestLoadPrefersNewerLocalSnapshot(t *testing.T) {
	backend := &fakeBackend{data: formFixture()}
	buffer := NewWriteAheadBuffer()
	buffer.Append(Snapshot{
		EvaluationID: "ev-1",
		Values:       FieldValues{Ratings: map[string]float64{"comp-1": 5}, Strengths: "offline edit"},
		UpdatedAt:    time.Now(),
	})

	session := NewSession(backend, buffer)
	if err := session.Load(context.Background(), "ev-1"); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if session.values.Strengths != "offline edit" {
		t.Fatal("expected local snapshot to win the merge")
	}
	if !session.IsDirty() {
		t.Fatal("rehydrated local edits must be marked dirty")
	}
}

func TestResumedDraftLandsPastCompletedSteps(t *testing.T) {
	data := formFixture()
	data.Values = FieldValues{
		Ratings:   map[string]float64{"comp-1": 4, "comp-2": 3},
		Strengths: "already written",
	}
	session := loadedSession(t, &fakeBackend{data: data})

	// the first three steps are satisfied, so jumping to step 3 is allowed
	if !session.GoToStep(3) {
		t.Fatal("expected jump to the first incomplete step to succeed")
	}
	if session.GoToStep(6) {
		t.Fatal("expected jump past the incomplete improvements step to fail")
	}
}
