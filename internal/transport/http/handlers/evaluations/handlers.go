package evaluationhandler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"engage/internal/domain/audit"
	"engage/internal/domain/auth"
	"engage/internal/domain/evaluation"
	"engage/internal/domain/notifications"
	"engage/internal/transport/http/api"
	"engage/internal/transport/http/middleware"
	"engage/internal/transport/http/shared"
)

type Handler struct {
	Service *evaluation.Service
	Notify  *notifications.Service
	Audit   *audit.Service
}

func NewHandler(service *evaluation.Service, notify *notifications.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Notify: notify, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/evaluations", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermEvalRead)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermEvalRead)).Get("/{evaluationID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermEvalWrite)).Put("/{evaluationID}/draft", h.handleSaveDraft)
		r.With(middleware.RequirePermission(auth.PermEvalWrite)).Post("/{evaluationID}/submit", h.handleSubmit)
		r.With(middleware.RequirePermission(auth.PermEvalReview)).Post("/{evaluationID}/review", h.handleAdvanceReview)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	cycleID := r.URL.Query().Get("cycleId")
	if cycleID == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "cycleId query parameter is required", middleware.GetRequestID(r.Context()))
		return
	}

	evaluations, err := h.Service.ListForEvaluator(r.Context(), cycleID, user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "evaluation_list_failed", "failed to list evaluations", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, evaluations, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	out, err := h.Service.GetForEvaluator(r.Context(), user.OrgID, chi.URLParam(r, "evaluationID"), user.UserID)
	if err != nil {
		h.failEvaluation(w, r, err, "evaluation_get_failed", "failed to load evaluation")
		return
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

type ratingPayload struct {
	CompetencyID     string   `json:"competencyId" validate:"required"`
	Rating           float64  `json:"rating" validate:"required,min=1,max=5"`
	Comments         string   `json:"comments"`
	Behaviors        []string `json:"behaviors"`
	Examples         string   `json:"examples"`
	ImprovementAreas string   `json:"improvementAreas"`
}

type draftPayload struct {
	OverallRating     *float64        `json:"overallRating" validate:"omitempty,min=1,max=5"`
	OverallComments   string          `json:"overallComments"`
	Strengths         string          `json:"strengths"`
	Improvements      string          `json:"improvements"`
	CareerGoals       string          `json:"careerGoals"`
	DevelopmentPlan   string          `json:"developmentPlan"`
	CompetencyRatings []ratingPayload `json:"competencyRatings" validate:"dive"`
}

func (p draftPayload) fields() evaluation.DraftFields {
	ratings := make([]evaluation.CompetencyRating, 0, len(p.CompetencyRatings))
	for _, rating := range p.CompetencyRatings {
		ratings = append(ratings, evaluation.CompetencyRating{
			CompetencyID:     rating.CompetencyID,
			Rating:           rating.Rating,
			Comments:         rating.Comments,
			Behaviors:        rating.Behaviors,
			Examples:         rating.Examples,
			ImprovementAreas: rating.ImprovementAreas,
		})
	}
	return evaluation.DraftFields{
		OverallRating:   p.OverallRating,
		OverallComments: p.OverallComments,
		Strengths:       p.Strengths,
		Improvements:    p.Improvements,
		CareerGoals:     p.CareerGoals,
		DevelopmentPlan: p.DevelopmentPlan,
		Ratings:         ratings,
	}
}

func (h *Handler) handleSaveDraft(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	evaluationID := chi.URLParam(r, "evaluationID")
	var payload draftPayload
	if !shared.DecodeValid(w, r, &payload, middleware.GetRequestID(r.Context())) {
		return
	}

	if err := h.Service.SaveDraft(r.Context(), user.OrgID, evaluationID, user.UserID, payload.fields()); err != nil {
		h.failEvaluation(w, r, err, "draft_save_failed", "failed to save draft")
		return
	}
	api.Success(w, map[string]string{"id": evaluationID}, middleware.GetRequestID(r.Context()))
}

type submitPayload struct {
	OverallRating     *float64        `json:"overallRating" validate:"required,min=1,max=5"`
	OverallComments   string          `json:"overallComments"`
	Strengths         string          `json:"strengths" validate:"required"`
	Improvements      string          `json:"improvements" validate:"required"`
	CareerGoals       string          `json:"careerGoals"`
	DevelopmentPlan   string          `json:"developmentPlan"`
	CompetencyRatings []ratingPayload `json:"competencyRatings" validate:"required,min=1,dive"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	evaluationID := chi.URLParam(r, "evaluationID")
	var payload submitPayload
	if !shared.DecodeValid(w, r, &payload, middleware.GetRequestID(r.Context())) {
		return
	}

	fields := draftPayload(payload).fields()
	if err := h.Service.Submit(r.Context(), user.OrgID, evaluationID, user.UserID, fields); err != nil {
		h.failEvaluation(w, r, err, "submit_failed", "failed to submit evaluation")
		return
	}

	if err := h.Audit.Record(r.Context(), user.OrgID, user.UserID, "evaluations.submit", "evaluation", evaluationID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, map[string]any{"competencyRatings": len(payload.CompetencyRatings)}); err != nil {
		slog.Warn("audit evaluations.submit failed", "err", err)
	}
	h.notifySubmitted(r, user.OrgID, evaluationID, user.UserID)
	api.Success(w, map[string]string{"id": evaluationID, "status": evaluation.StatusSubmitted}, middleware.GetRequestID(r.Context()))
}

type reviewPayload struct {
	To string `json:"to" validate:"required,oneof=reviewed approved shared"`
}

func (h *Handler) handleAdvanceReview(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	evaluationID := chi.URLParam(r, "evaluationID")
	var payload reviewPayload
	if !shared.DecodeValid(w, r, &payload, middleware.GetRequestID(r.Context())) {
		return
	}

	if err := h.Service.AdvanceReview(r.Context(), user.OrgID, evaluationID, payload.To); err != nil {
		if errors.Is(err, evaluation.ErrBadReviewStep) {
			api.Fail(w, http.StatusConflict, "bad_review_step", "evaluation cannot move to the requested review status", middleware.GetRequestID(r.Context()))
			return
		}
		h.failEvaluation(w, r, err, "review_failed", "failed to advance review")
		return
	}

	if err := h.Audit.Record(r.Context(), user.OrgID, user.UserID, "evaluations.review", "evaluation", evaluationID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit evaluations.review failed", "err", err)
	}
	if payload.To == evaluation.StatusShared {
		h.notifyShared(r, user.OrgID, evaluationID)
	}
	api.Success(w, map[string]string{"id": evaluationID, "status": payload.To}, middleware.GetRequestID(r.Context()))
}

// notifyShared tells the evaluatee their results are visible.
func (h *Handler) notifyShared(r *http.Request, orgID, evaluationID string) {
	if h.Notify == nil {
		return
	}
	out, err := h.Service.Get(r.Context(), orgID, evaluationID)
	if err != nil {
		slog.Warn("share notification lookup failed", "evaluationId", evaluationID, "err", err)
		return
	}
	if err := h.Notify.Create(r.Context(), orgID, out.EvaluateeID, notifications.TypeResultsAvailable, "Results available", "Your evaluation results have been shared with you."); err != nil {
		slog.Warn("share notification failed", "evaluationId", evaluationID, "err", err)
	}
}

// notifySubmitted tells the evaluatee their feedback arrived, unless it was
// a self-evaluation.
func (h *Handler) notifySubmitted(r *http.Request, orgID, evaluationID, evaluatorID string) {
	if h.Notify == nil {
		return
	}
	out, err := h.Service.GetForEvaluator(r.Context(), orgID, evaluationID, evaluatorID)
	if err != nil {
		slog.Warn("submit notification lookup failed", "evaluationId", evaluationID, "err", err)
		return
	}
	if out.EvaluateeID == evaluatorID {
		return
	}
	if err := h.Notify.Create(r.Context(), orgID, out.EvaluateeID, notifications.TypeEvaluationSubmitted, "Evaluation submitted", "New feedback has been submitted for you."); err != nil {
		slog.Warn("submit notification failed", "evaluationId", evaluationID, "err", err)
	}
}

func (h *Handler) failEvaluation(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, evaluation.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "evaluation not found", requestID)
	case errors.Is(err, evaluation.ErrNotEvaluator):
		api.Fail(w, http.StatusForbidden, "forbidden", "only the evaluator may modify this evaluation", requestID)
	case errors.Is(err, evaluation.ErrAlreadySubmitted):
		api.Fail(w, http.StatusConflict, "already_submitted", "evaluation has already been submitted", requestID)
	case errors.Is(err, evaluation.ErrCycleInactive):
		api.Fail(w, http.StatusConflict, "cycle_inactive", "the evaluation cycle is not active", requestID)
	case errors.Is(err, evaluation.ErrInvalidRating):
		api.Fail(w, http.StatusBadRequest, "invalid_rating", "ratings must be between 1 and 5", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, code, message, requestID)
	}
}
