package handler

import (
	"log/slog"
	"net/http"

	"github.com/mindtrace/mindtrace/internal/auth"
	"github.com/mindtrace/mindtrace/internal/dashboard"
)

// DashboardHandler serves the reconciled dashboard report.
type DashboardHandler struct {
	svc    *dashboard.Service
	logger *slog.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(svc *dashboard.Service, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		svc:    svc,
		logger: logger,
	}
}

// Get handles GET /api/v1/dashboard. With a resolved identity the
// report is built live and scoped to that user; without one the cached
// global snapshot is served.
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())

	var (
		report *dashboard.Report
		err    error
	)
	if identity != nil {
		report, err = h.svc.Report(r.Context(), identity)
	} else {
		report, err = h.svc.Snapshot(r.Context())
	}
	if err != nil {
		h.logger.Error("dashboard build failed", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	writeJSON(w, http.StatusOK, report)
}
