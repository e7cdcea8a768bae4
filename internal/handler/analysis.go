package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mindtrace/mindtrace/internal/handler/dto"
	"github.com/mindtrace/mindtrace/internal/insight"
	"github.com/mindtrace/mindtrace/internal/model"
)

// AnalysisHandler serves standalone AI analyses for ad-hoc entry data.
type AnalysisHandler struct {
	svc    *insight.Service
	logger *slog.Logger
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(svc *insight.Service, logger *slog.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		svc:    svc,
		logger: logger,
	}
}

// AnalysisResponse wraps the analysis with its source so clients can
// tell a model answer from the static fallback.
type AnalysisResponse struct {
	*model.Analysis
	Source string `json:"source"`
}

// Analyze handles POST /api/v1/analysis. The endpoint never fails:
// when the model is unreachable the fallback payload comes back with
// source "fallback".
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	entry := &model.Entry{
		Apps:              req.Apps,
		ScreenTimeMinutes: req.ScreenTime,
		Reflection:        req.Reflection,
		Tags:              req.Tags,
	}

	analysis, source := h.svc.Analyze(r.Context(), entry)

	writeJSON(w, http.StatusOK, AnalysisResponse{
		Analysis: analysis,
		Source:   source,
	})
}
