package cyclehandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"engage/internal/domain/assignment"
	"engage/internal/domain/audit"
	"engage/internal/domain/auth"
	"engage/internal/domain/cycle"
	"engage/internal/domain/notifications"
	"engage/internal/platform/jobs"
	"engage/internal/transport/http/api"
	"engage/internal/transport/http/middleware"
	"engage/internal/transport/http/shared"
)

// Enqueuer defers work to the background job runner. Satisfied by
// *jobs.Service.
type Enqueuer interface {
	Enqueue(jobType, orgID string, run func(context.Context) (any, error))
}

type Handler struct {
	Cycles      *cycle.Service
	Assignments *assignment.Service
	Notify      *notifications.Service
	Audit       *audit.Service
	Jobs        Enqueuer
}

func NewHandler(cycles *cycle.Service, assignments *assignment.Service, notify *notifications.Service, auditSvc *audit.Service, enqueuer Enqueuer) *Handler {
	return &Handler{Cycles: cycles, Assignments: assignments, Notify: notify, Audit: auditSvc, Jobs: enqueuer}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/evaluation-cycles", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermCyclesRead)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermCyclesRead)).Get("/{cycleID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermCyclesWrite)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermCyclesWrite)).Put("/{cycleID}/phases", h.handleSetPhases)
		r.With(middleware.RequirePermission(auth.PermCyclesWrite)).Post("/{cycleID}/activate", h.handleActivate)
		r.With(middleware.RequirePermission(auth.PermCyclesWrite)).Post("/{cycleID}/complete", h.handleComplete)
		r.With(middleware.RequirePermission(auth.PermCyclesWrite)).Post("/{cycleID}/archive", h.handleArchive)
		r.With(middleware.RequirePermission(auth.PermGenerate)).Post("/{cycleID}/generate", h.handleGenerate)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	cycles, err := h.Cycles.List(r.Context(), user.OrgID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "cycle_list_failed", "failed to list cycles", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, cycles, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	cyc, err := h.Cycles.Get(r.Context(), user.OrgID, chi.URLParam(r, "cycleID"))
	if err != nil {
		h.failCycle(w, r, err, "cycle_get_failed", "failed to load cycle")
		return
	}
	api.Success(w, cyc, middleware.GetRequestID(r.Context()))
}

type createCyclePayload struct {
	Name         string `json:"name" validate:"required,max=160"`
	Type         string `json:"type" validate:"required"`
	StartDate    string `json:"startDate" validate:"required"`
	EndDate      string `json:"endDate" validate:"required"`
	AutoGenerate bool   `json:"autoGenerate"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload createCyclePayload
	if !shared.DecodeValid(w, r, &payload, middleware.GetRequestID(r.Context())) {
		return
	}
	startDate, err := shared.ParseDate(payload.StartDate)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid start date", middleware.GetRequestID(r.Context()))
		return
	}
	endDate, err := shared.ParseDate(payload.EndDate)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid end date", middleware.GetRequestID(r.Context()))
		return
	}

	cyc, err := h.Cycles.CreateCycle(r.Context(), user.OrgID, payload.Name, payload.Type, startDate, endDate)
	if err != nil {
		h.failCycle(w, r, err, "cycle_create_failed", "failed to create cycle")
		return
	}

	if err := h.Audit.Record(r.Context(), user.OrgID, user.UserID, "cycles.create", "evaluation_cycle", cyc.ID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit cycles.create failed", "err", err)
	}

	response := map[string]any{"cycle": cyc}
	if payload.AutoGenerate {
		result, err := h.Assignments.Generate(r.Context(), user.OrgID, cyc.ID)
		if err != nil {
			slog.Warn("auto-generation after cycle create failed", "cycleId", cyc.ID, "err", err)
		} else {
			response["generatedEvaluations"] = result.Created
			h.notifyAssigned(r.Context(), user.OrgID, result)
		}
	}
	api.Created(w, response, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSetPhases(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	cycleID := chi.URLParam(r, "cycleID")
	var payload struct {
		Phases []struct {
			Name      string `json:"name" validate:"required"`
			Order     int    `json:"order"`
			StartDate string `json:"startDate" validate:"required"`
			EndDate   string `json:"endDate" validate:"required"`
		} `json:"phases" validate:"required,dive"`
	}
	if !shared.DecodeValid(w, r, &payload, middleware.GetRequestID(r.Context())) {
		return
	}

	phases := make([]cycle.Phase, 0, len(payload.Phases))
	for _, raw := range payload.Phases {
		startDate, err := shared.ParseDate(raw.StartDate)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid phase start date", middleware.GetRequestID(r.Context()))
			return
		}
		endDate, err := shared.ParseDate(raw.EndDate)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid phase end date", middleware.GetRequestID(r.Context()))
			return
		}
		phases = append(phases, cycle.Phase{Name: raw.Name, Order: raw.Order, StartDate: startDate, EndDate: endDate})
	}

	if err := h.Cycles.SetPhases(r.Context(), user.OrgID, cycleID, phases); err != nil {
		h.failCycle(w, r, err, "cycle_phases_failed", "failed to set phases")
		return
	}
	api.Success(w, map[string]string{"id": cycleID}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleActivate(w http.ResponseWriter, r *http.Request) {
	h.handleTransition(w, r, "activate", h.Cycles.Activate)
}

func (h *Handler) handleComplete(w http.ResponseWriter, r *http.Request) {
	h.handleTransition(w, r, "complete", h.Cycles.Complete)
}

func (h *Handler) handleArchive(w http.ResponseWriter, r *http.Request) {
	h.handleTransition(w, r, "archive", h.Cycles.Archive)
}

func (h *Handler) handleTransition(w http.ResponseWriter, r *http.Request, action string, run func(context.Context, string, string) error) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	cycleID := chi.URLParam(r, "cycleID")
	if err := run(r.Context(), user.OrgID, cycleID); err != nil {
		h.failCycle(w, r, err, "cycle_"+action+"_failed", "failed to "+action+" cycle")
		return
	}

	if err := h.Audit.Record(r.Context(), user.OrgID, user.UserID, "cycles."+action, "evaluation_cycle", cycleID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, nil); err != nil {
		slog.Warn("audit cycles."+action+" failed", "err", err)
	}

	// Activation kicks off generation in the background so the transition
	// response does not wait on org-structure expansion.
	if action == "activate" && h.Jobs != nil {
		orgID := user.OrgID
		h.Jobs.Enqueue(jobs.JobAssignmentRefresh, orgID, func(ctx context.Context) (any, error) {
			result, err := h.Assignments.Generate(ctx, orgID, cycleID)
			if err == nil {
				h.notifyAssigned(ctx, orgID, result)
			}
			return map[string]any{"cycleId": cycleID, "created": result.Created}, err
		})
	}
	api.Success(w, map[string]string{"id": cycleID}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	cycleID := chi.URLParam(r, "cycleID")
	result, err := h.Assignments.Generate(r.Context(), user.OrgID, cycleID)
	if err != nil {
		if errors.Is(err, assignment.ErrCycleClosed) {
			api.Fail(w, http.StatusConflict, "cycle_closed", "cannot generate assignments for a closed cycle", middleware.GetRequestID(r.Context()))
			return
		}
		h.failCycle(w, r, err, "generation_failed", "assignment generation failed")
		return
	}

	if err := h.Audit.Record(r.Context(), user.OrgID, user.UserID, "cycles.generate", "evaluation_cycle", cycleID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, result); err != nil {
		slog.Warn("audit cycles.generate failed", "err", err)
	}
	h.notifyAssigned(r.Context(), user.OrgID, result)
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

// notifyAssigned tells each evaluator once about their new assignments.
func (h *Handler) notifyAssigned(ctx context.Context, orgID string, result assignment.Result) {
	if h.Notify == nil {
		return
	}
	perEvaluator := map[string]int{}
	for _, a := range result.NewAssignments {
		perEvaluator[a.EvaluatorID]++
	}
	for evaluatorID, count := range perEvaluator {
		body := "You have new evaluations to complete."
		if count == 1 {
			body = "You have a new evaluation to complete."
		}
		if err := h.Notify.Create(ctx, orgID, evaluatorID, notifications.TypeEvaluationAssigned, "Evaluations assigned", body); err != nil {
			slog.Warn("assignment notification failed", "evaluatorId", evaluatorID, "err", err)
		}
	}
}

func (h *Handler) failCycle(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, cycle.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "cycle not found", requestID)
	case errors.Is(err, cycle.ErrInvalidType):
		api.Fail(w, http.StatusBadRequest, "invalid_type", "unknown cycle type", requestID)
	case errors.Is(err, cycle.ErrInvalidDateRange):
		api.Fail(w, http.StatusBadRequest, "invalid_date_range", "start date must be before end date", requestID)
	case errors.Is(err, cycle.ErrOverlappingCycle):
		api.Fail(w, http.StatusConflict, "overlapping_cycle", "an open cycle already covers this date range", requestID)
	case errors.Is(err, cycle.ErrInvalidTransition):
		api.Fail(w, http.StatusConflict, "invalid_transition", "cycle cannot move to the requested status", requestID)
	case errors.Is(err, cycle.ErrNotDraft):
		api.Fail(w, http.StatusConflict, "not_draft", "cycle is no longer editable", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, code, message, requestID)
	}
}
