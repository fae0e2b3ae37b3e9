package resultshandler

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"engage/internal/domain/aggregate"
	"engage/internal/domain/auth"
	"engage/internal/domain/reports"
	"engage/internal/transport/http/api"
	"engage/internal/transport/http/middleware"
)

// ManagerChecker answers whether a user manages the evaluatee.
type ManagerChecker interface {
	IsManagerOf(ctx context.Context, orgID, evaluateeID, managerID string) (bool, error)
}

type Handler struct {
	Aggregates *aggregate.Service
	Reports    *reports.Service
	Managers   ManagerChecker
}

func NewHandler(aggregates *aggregate.Service, reportsSvc *reports.Service, managers ManagerChecker) *Handler {
	return &Handler{Aggregates: aggregates, Reports: reportsSvc, Managers: managers}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/evaluation-cycles/{cycleID}", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermResultsRead)).Get("/results", h.handleResults)
		r.With(middleware.RequirePermission(auth.PermResultsRead)).Get("/results/export.pdf", h.handleExportPDF)
		r.With(middleware.RequirePermission(auth.PermExports)).Get("/export.xlsx", h.handleExportWorkbook)
	})
}

// canViewResults allows admins, the evaluatee themselves, and the
// evaluatee's manager.
func (h *Handler) canViewResults(r *http.Request, orgID, evaluateeID string, user auth.UserContext) bool {
	if user.RoleName == auth.RoleAdmin {
		return true
	}
	if user.UserID == evaluateeID {
		return true
	}
	isManager, err := h.Managers.IsManagerOf(r.Context(), orgID, evaluateeID, user.UserID)
	if err != nil {
		slog.Warn("manager check failed", "evaluateeId", evaluateeID, "err", err)
		return false
	}
	return isManager
}

func (h *Handler) handleResults(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	cycleID := chi.URLParam(r, "cycleID")
	evaluateeID := r.URL.Query().Get("evaluateeId")
	if evaluateeID == "" {
		evaluateeID = user.UserID
	}
	if !h.canViewResults(r, user.OrgID, evaluateeID, user) {
		api.Fail(w, http.StatusForbidden, "forbidden", "not allowed to view these results", middleware.GetRequestID(r.Context()))
		return
	}

	result, err := h.Aggregates.ResultsFor(r.Context(), user.OrgID, cycleID, evaluateeID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "aggregation_failed", "failed to aggregate results", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	cycleID := chi.URLParam(r, "cycleID")
	evaluateeID := r.URL.Query().Get("evaluateeId")
	if evaluateeID == "" {
		evaluateeID = user.UserID
	}
	if !h.canViewResults(r, user.OrgID, evaluateeID, user) {
		api.Fail(w, http.StatusForbidden, "forbidden", "not allowed to export these results", middleware.GetRequestID(r.Context()))
		return
	}

	filePath, err := h.Reports.GenerateResultsPDF(r.Context(), user.OrgID, cycleID, evaluateeID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to generate results PDF", middleware.GetRequestID(r.Context()))
		return
	}
	h.serveFile(w, r, filePath, "application/pdf")
}

func (h *Handler) handleExportWorkbook(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	cycleID := chi.URLParam(r, "cycleID")
	filePath, err := h.Reports.GenerateCycleWorkbook(r.Context(), user.OrgID, cycleID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to generate cycle workbook", middleware.GetRequestID(r.Context()))
		return
	}
	h.serveFile(w, r, filePath, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
}

func (h *Handler) serveFile(w http.ResponseWriter, r *http.Request, filePath, contentType string) {
	file, err := os.Open(filePath)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "export_failed", "generated file unavailable", middleware.GetRequestID(r.Context()))
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "export_failed", "generated file unavailable", middleware.GetRequestID(r.Context()))
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename=\""+filepath.Base(filePath)+"\"")
	http.ServeContent(w, r, filepath.Base(filePath), info.ModTime(), file)
}
