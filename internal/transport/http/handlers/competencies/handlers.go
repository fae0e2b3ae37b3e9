package competencyhandler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"engage/internal/domain/audit"
	"engage/internal/domain/auth"
	"engage/internal/domain/catalog"
	"engage/internal/transport/http/api"
	"engage/internal/transport/http/middleware"
	"engage/internal/transport/http/shared"
)

type Handler struct {
	Service *catalog.Service
	Audit   *audit.Service
}

func NewHandler(service *catalog.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/competencies", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermCatalogRead)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermCatalogWrite)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermCatalogWrite)).Post("/init", h.handleInit)
		r.With(middleware.RequirePermission(auth.PermCatalogWrite)).Put("/{competencyID}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermCatalogWrite)).Delete("/{competencyID}", h.handleDeactivate)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	category := r.URL.Query().Get("category")
	activeOnly := r.URL.Query().Get("includeInactive") != "true"
	competencies, err := h.Service.List(r.Context(), user.OrgID, category, activeOnly)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "competency_list_failed", "failed to list competencies", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, competencies, middleware.GetRequestID(r.Context()))
}

type competencyPayload struct {
	Name        string   `json:"name" validate:"required,max=120"`
	Description string   `json:"description"`
	Category    string   `json:"category" validate:"required"`
	Behaviors   []string `json:"behaviors"`
	Order       int      `json:"order"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload competencyPayload
	if !shared.DecodeValid(w, r, &payload, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.Service.Create(r.Context(), user.OrgID, catalog.CompetencyDetails{
		Name:        payload.Name,
		Description: payload.Description,
		Category:    payload.Category,
		Behaviors:   payload.Behaviors,
		Order:       payload.Order,
	})
	if err != nil {
		h.failCatalog(w, r, err, "competency_create_failed", "failed to create competency")
		return
	}

	if err := h.Audit.Record(r.Context(), user.OrgID, user.UserID, "competencies.create", "competency", id, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit competencies.create failed", "err", err)
	}
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleInit(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	created, err := h.Service.InitDefaults(r.Context(), user.OrgID)
	if err != nil {
		if errors.Is(err, catalog.ErrAlreadySeeded) {
			api.Fail(w, http.StatusBadRequest, "already_seeded", "competencies already exist for this organization", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "competency_init_failed", "failed to initialize competencies", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.OrgID, user.UserID, "competencies.init", "competency", "", middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, map[string]int{"created": created}); err != nil {
		slog.Warn("audit competencies.init failed", "err", err)
	}
	api.Created(w, map[string]int{"created": created}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	competencyID := chi.URLParam(r, "competencyID")
	var payload competencyPayload
	if !shared.DecodeValid(w, r, &payload, middleware.GetRequestID(r.Context())) {
		return
	}

	err := h.Service.Update(r.Context(), user.OrgID, competencyID, catalog.CompetencyDetails{
		Name:        payload.Name,
		Description: payload.Description,
		Category:    payload.Category,
		Behaviors:   payload.Behaviors,
		Order:       payload.Order,
	})
	if err != nil {
		h.failCatalog(w, r, err, "competency_update_failed", "failed to update competency")
		return
	}

	if err := h.Audit.Record(r.Context(), user.OrgID, user.UserID, "competencies.update", "competency", competencyID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit competencies.update failed", "err", err)
	}
	api.Success(w, map[string]string{"id": competencyID}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	competencyID := chi.URLParam(r, "competencyID")
	if err := h.Service.Deactivate(r.Context(), user.OrgID, competencyID); err != nil {
		h.failCatalog(w, r, err, "competency_deactivate_failed", "failed to deactivate competency")
		return
	}

	if err := h.Audit.Record(r.Context(), user.OrgID, user.UserID, "competencies.deactivate", "competency", competencyID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, nil); err != nil {
		slog.Warn("audit competencies.deactivate failed", "err", err)
	}
	api.Success(w, map[string]string{"id": competencyID}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) failCatalog(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "competency not found", requestID)
	case errors.Is(err, catalog.ErrDuplicateName):
		api.Fail(w, http.StatusConflict, "duplicate_name", "an active competency with that name already exists", requestID)
	case errors.Is(err, catalog.ErrBadCategory):
		api.Fail(w, http.StatusBadRequest, "invalid_category", "unknown competency category", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, code, message, requestID)
	}
}
