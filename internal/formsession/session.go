package formsession

import (
	"context"
	"log/slog"
	"time"

	"engage/internal/domain/catalog"
	"engage/internal/domain/cycle"
	"engage/internal/domain/evaluation"
)

const (
	StateLoading    = "loading"
	StateReady      = "ready"
	StateSaving     = "saving"
	StateSubmitting = "submitting"
	StateSubmitted  = "submitted"
)

// autosave failures past this count warn the user their edits may be lost
const retryWarnThreshold = 3

// FormData is everything the session needs to render and gate a form.
type FormData struct {
	EvaluationID     string
	EvaluationStatus string
	CycleStatus      string
	Competencies     []catalog.Competency
	Values           FieldValues
	UpdatedAt        time.Time
}

// Backend is the persistence boundary of a form session. The HTTP client
// and the in-process service both satisfy it.
type Backend interface {
	Load(ctx context.Context, evaluationID string) (FormData, error)
	SaveDraft(ctx context.Context, snap Snapshot) error
	Submit(ctx context.Context, snap Snapshot) error
}

// Session drives a single evaluation form: step navigation, validation,
// coalesced autosave, offline queueing and the submit gate. Cooperative
// single-writer; one save or submit is in flight at a time and a newer
// autosave supersedes a pending one.
type Session struct {
	backend Backend
	buffer  *WriteAheadBuffer
	now     func() time.Time

	evaluationID      string
	state             string
	steps             []Step
	currentStep       int
	furthestCompleted int
	values            FieldValues
	cycleStatus       string
	evalStatus        string
	dirty             bool
	offline           bool
	lastSavedAt       time.Time
	retries           int
	queuedSave        *Snapshot
	submitErr         error
}

func NewSession(backend Backend, buffer *WriteAheadBuffer) *Session {
	return &Session{
		backend:           backend,
		buffer:            buffer,
		now:               time.Now,
		state:             StateLoading,
		furthestCompleted: -1,
	}
}

// Load fetches the evaluation, derives the steps and reconciles against any
// locally queued edits. Newer local snapshots win over the server copy.
func (s *Session) Load(ctx context.Context, evaluationID string) error {
	data, err := s.backend.Load(ctx, evaluationID)
	if err != nil {
		return err
	}
	s.evaluationID = evaluationID
	s.cycleStatus = data.CycleStatus
	s.evalStatus = data.EvaluationStatus
	s.steps = BuildSteps(data.Competencies)
	s.values = data.Values.clone()
	if s.values.Ratings == nil {
		s.values.Ratings = map[string]float64{}
	}
	if s.values.Comments == nil {
		s.values.Comments = map[string]string{}
	}

	if local, ok := s.buffer.Latest(evaluationID); ok && local.UpdatedAt.After(data.UpdatedAt) {
		s.values = local.Values.clone()
		s.dirty = true
	}

	s.currentStep = 0
	s.rescanCompleted()
	s.state = StateReady
	return nil
}

// rescanCompleted walks the steps in order, marking the leading run already
// satisfied by the loaded values so a resumed draft lands where it left off.
func (s *Session) rescanCompleted() {
	s.furthestCompleted = -1
	for i := range s.steps {
		if !stepSatisfied(s.steps[i], s.values) {
			break
		}
		s.steps[i].IsCompleted = true
		s.furthestCompleted = i
	}
}

func (s *Session) State() string      { return s.state }
func (s *Session) CurrentStep() int   { return s.currentStep }
func (s *Session) Steps() []Step      { return s.steps }
func (s *Session) IsDirty() bool      { return s.dirty }
func (s *Session) SubmitError() error { return s.submitErr }

func (s *Session) SetOffline(offline bool) { s.offline = offline }

func (s *Session) NextStep() bool     { return s.GoToStep(s.currentStep + 1) }
func (s *Session) PreviousStep() bool { return s.GoToStep(s.currentStep - 1) }

// GoToStep clamps into range and refuses to jump past the first step that
// has not been completed yet, so later steps cannot be filled early.
func (s *Session) GoToStep(index int) bool {
	if len(s.steps) == 0 {
		return false
	}
	if index < 0 {
		index = 0
	}
	if index > len(s.steps)-1 {
		index = len(s.steps) - 1
	}
	if index > s.furthestCompleted+1 {
		return false
	}
	s.currentStep = index
	return true
}

func (s *Session) SetRating(competencyID string, rating float64) {
	s.values.Ratings[competencyID] = rating
	s.dirty = true
}

func (s *Session) SetComment(competencyID, comment string) {
	s.values.Comments[competencyID] = comment
	s.dirty = true
}

func (s *Session) SetText(field, value string) {
	s.values.setText(field, value)
	s.dirty = true
}

func (s *Session) SetOverall(rating float64, comments string) {
	s.values.OverallRating = &rating
	s.values.OverallComments = comments
	s.dirty = true
}

// ValidateCurrentStep checks the step's required fields and, when they pass,
// marks the step completed.
func (s *Session) ValidateCurrentStep() bool {
	if s.currentStep < 0 || s.currentStep >= len(s.steps) {
		return false
	}
	if !stepSatisfied(s.steps[s.currentStep], s.values) {
		return false
	}
	s.steps[s.currentStep].IsCompleted = true
	if s.currentStep > s.furthestCompleted {
		s.furthestCompleted = s.currentStep
	}
	return true
}

// CanSubmit reports whether submission would be accepted, and the first
// failing gate when it would not.
func (s *Session) CanSubmit() (bool, string) {
	for _, step := range s.steps {
		if step.IsRequired && !step.IsCompleted {
			return false, "step not completed: " + step.Title
		}
	}
	if s.cycleStatus != cycle.StatusActive {
		return false, "cycle is not active"
	}
	if s.evalStatus != evaluation.StatusDraft {
		return false, "evaluation is not a draft"
	}
	return true, ""
}

func (s *Session) snapshot() Snapshot {
	return Snapshot{
		EvaluationID: s.evaluationID,
		Values:       s.values.clone(),
		UpdatedAt:    s.now(),
	}
}

// SaveDraft persists the current snapshot. While offline the snapshot is
// queued locally instead. A save arriving while another is in flight
// replaces any previously queued one; only the newest snapshot matters.
func (s *Session) SaveDraft(ctx context.Context) error {
	switch s.state {
	case StateSubmitted:
		return ErrSessionSubmitted
	case StateLoading:
		return ErrNotReady
	case StateSaving, StateSubmitting:
		snap := s.snapshot()
		s.queuedSave = &snap
		return nil
	}
	if !s.dirty {
		return nil
	}
	snap := s.snapshot()
	if s.offline {
		s.buffer.Append(snap)
		return nil
	}
	return s.save(ctx, snap)
}

func (s *Session) save(ctx context.Context, snap Snapshot) error {
	s.state = StateSaving
	err := s.backend.SaveDraft(ctx, snap)
	s.state = StateReady
	if err != nil {
		// the in-memory values stay authoritative; dirty remains set so
		// the next autosave tick retries
		s.retries++
		if s.retries >= retryWarnThreshold {
			slog.Warn("autosave keeps failing, latest edits may not be persisted",
				"evaluationId", s.evaluationID, "attempts", s.retries, "error", err)
		}
		return err
	}
	s.retries = 0
	s.dirty = false
	s.lastSavedAt = snap.UpdatedAt
	if queued := s.queuedSave; queued != nil {
		s.queuedSave = nil
		return s.save(ctx, *queued)
	}
	return nil
}

// FlushOffline replays the offline queue in order once connectivity
// returns. Edits made after the last queued snapshot exist only in memory,
// so the session counts as clean only when the flushed tail matches the
// current values; anything newer is pushed as a fresh save.
func (s *Session) FlushOffline(ctx context.Context) (int, error) {
	s.offline = false
	tail, queued := s.buffer.Latest(s.evaluationID)
	flushed, err := s.buffer.Flush(ctx, s.evaluationID, s.backend.SaveDraft)
	if err != nil {
		return flushed, err
	}
	if flushed > 0 {
		s.lastSavedAt = s.now()
		if queued && tail.Values.equal(s.values) {
			s.dirty = false
			s.retries = 0
		}
	}
	if s.dirty && s.state == StateReady {
		return flushed, s.save(ctx, s.snapshot())
	}
	return flushed, nil
}

// Submit runs the gate, then performs the submit write. Success is terminal
// for this session; failure keeps the draft editable and records the error.
func (s *Session) Submit(ctx context.Context) error {
	if s.state == StateSubmitted {
		return ErrSessionSubmitted
	}
	if s.state != StateReady {
		return ErrNotReady
	}
	if ok, reason := s.CanSubmit(); !ok {
		return &GateError{Reason: reason}
	}
	snap := s.snapshot()
	s.state = StateSubmitting
	err := s.backend.Submit(ctx, snap)
	if err != nil {
		s.state = StateReady
		s.submitErr = err
		return err
	}
	s.state = StateSubmitted
	s.evalStatus = evaluation.StatusSubmitted
	s.submitErr = nil
	s.dirty = false
	return nil
}

// Close runs a final best-effort save before the user navigates away.
// Pending retries are abandoned; the one synchronous attempt either lands
// or the queued local copy keeps the edits.
func (s *Session) Close(ctx context.Context) error {
	if s.state != StateReady || !s.dirty {
		return nil
	}
	s.queuedSave = nil
	return s.SaveDraft(ctx)
}
