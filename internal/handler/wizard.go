package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mindtrace/mindtrace/internal/auth"
	"github.com/mindtrace/mindtrace/internal/handler/dto"
	"github.com/mindtrace/mindtrace/internal/insight"
	"github.com/mindtrace/mindtrace/internal/metrics"
	"github.com/mindtrace/mindtrace/internal/model"
	"github.com/mindtrace/mindtrace/internal/service"
	"github.com/mindtrace/mindtrace/internal/wizard"
)

// WizardHandler drives the multi-step entry capture flow over HTTP.
type WizardHandler struct {
	store    *wizard.Store
	entries  *service.EntryService
	insights *insight.Service
	metrics  metrics.Recorder
	logger   *slog.Logger
}

// NewWizardHandler creates a new WizardHandler.
func NewWizardHandler(store *wizard.Store, entries *service.EntryService, insights *insight.Service, recorder metrics.Recorder, logger *slog.Logger) *WizardHandler {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &WizardHandler{
		store:    store,
		entries:  entries,
		insights: insights,
		metrics:  recorder,
		logger:   logger,
	}
}

// Open handles POST /api/v1/wizard. Every open starts a fresh draft.
func (h *WizardHandler) Open(w http.ResponseWriter, r *http.Request) {
	draft := h.store.Open()
	h.metrics.IncWizardOpened()

	h.logger.Info("wizard_opened", "draft_id", draft.ID)

	writeJSON(w, http.StatusCreated, dto.ToWizardResponse(draft))
}

// Get handles GET /api/v1/wizard/{id}.
func (h *WizardHandler) Get(w http.ResponseWriter, r *http.Request) {
	draft, err := h.store.Do(chi.URLParam(r, "id"), func(*wizard.Draft) error { return nil })
	if err != nil {
		h.handleWizardError(w, draft, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToWizardResponse(draft))
}

// ToggleApp handles POST /api/v1/wizard/{id}/apps.
func (h *WizardHandler) ToggleApp(w http.ResponseWriter, r *http.Request) {
	var req dto.ToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Label == "" {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "A label is required")
		return
	}

	draft, err := h.store.Do(chi.URLParam(r, "id"), func(d *wizard.Draft) error {
		return d.ToggleApp(req.Label)
	})
	if err != nil {
		h.handleWizardError(w, draft, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToWizardResponse(draft))
}

// SetScreenTime handles PUT /api/v1/wizard/{id}/screen-time.
func (h *WizardHandler) SetScreenTime(w http.ResponseWriter, r *http.Request) {
	var req dto.ScreenTimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	draft, err := h.store.Do(chi.URLParam(r, "id"), func(d *wizard.Draft) error {
		return d.SetScreenTime(req.Minutes)
	})
	if err != nil {
		h.handleWizardError(w, draft, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToWizardResponse(draft))
}

// SetReflection handles PUT /api/v1/wizard/{id}/reflection.
func (h *WizardHandler) SetReflection(w http.ResponseWriter, r *http.Request) {
	var req dto.ReflectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	draft, err := h.store.Do(chi.URLParam(r, "id"), func(d *wizard.Draft) error {
		return d.SetReflection(req.Text)
	})
	if err != nil {
		h.handleWizardError(w, draft, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToWizardResponse(draft))
}

// ToggleTag handles POST /api/v1/wizard/{id}/tags.
func (h *WizardHandler) ToggleTag(w http.ResponseWriter, r *http.Request) {
	var req dto.ToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Label == "" {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "A label is required")
		return
	}

	draft, err := h.store.Do(chi.URLParam(r, "id"), func(d *wizard.Draft) error {
		return d.ToggleTag(req.Label)
	})
	if err != nil {
		h.handleWizardError(w, draft, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToWizardResponse(draft))
}

// Next handles POST /api/v1/wizard/{id}/next.
func (h *WizardHandler) Next(w http.ResponseWriter, r *http.Request) {
	draft, err := h.store.Do(chi.URLParam(r, "id"), func(d *wizard.Draft) error {
		return d.Next()
	})
	if err != nil {
		h.handleWizardError(w, draft, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToWizardResponse(draft))
}

// Finish handles POST /api/v1/wizard/{id}/finish. The plain variant
// persists immediately; the analysis variant parks the validated draft
// behind the AI overlay until Confirm.
func (h *WizardHandler) Finish(w http.ResponseWriter, r *http.Request) {
	var req dto.FinishRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
			return
		}
	}

	id := chi.URLParam(r, "id")

	if req.WithAnalysis {
		h.finishWithAnalysis(w, r, id)
		return
	}

	draft, err := h.store.Do(id, func(d *wizard.Draft) error {
		return d.Finish()
	})
	if err != nil {
		h.handleWizardError(w, draft, err)
		return
	}

	entry, err := h.persistDraft(w, r, draft)
	if err != nil {
		return
	}
	h.metrics.IncWizardCompleted("plain")

	writeJSON(w, http.StatusCreated, dto.WizardResultResponse{
		Entry: dto.ToEntryResponse(entry),
	})
}

func (h *WizardHandler) finishWithAnalysis(w http.ResponseWriter, r *http.Request, id string) {
	// Analyze outside the store lock from a read-only snapshot. The
	// analysis never fails, so an invalid draft just wastes one model
	// call before the state machine rejects the transition.
	snapshot, err := h.store.Do(id, func(*wizard.Draft) error { return nil })
	if err != nil {
		h.handleWizardError(w, snapshot, err)
		return
	}

	candidate := &model.Entry{
		ID:                snapshot.ID,
		Apps:              snapshot.Apps,
		ScreenTimeMinutes: snapshot.ScreenTimeMinutes,
		Reflection:        snapshot.Reflection,
		Tags:              snapshot.Tags,
	}
	analysis, source := h.insights.Analyze(r.Context(), candidate)

	draft, err := h.store.Do(id, func(d *wizard.Draft) error {
		return d.FinishForAnalysis(analysis)
	})
	if err != nil {
		h.handleWizardError(w, draft, err)
		return
	}

	h.logger.Info("wizard_analysis_attached", "draft_id", id, "source", source)

	writeJSON(w, http.StatusOK, dto.ToWizardResponse(draft))
}

// Confirm handles POST /api/v1/wizard/{id}/confirm. It is the terminal
// action of the analysis variant and triggers persistence.
func (h *WizardHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	draft, err := h.store.Do(chi.URLParam(r, "id"), func(d *wizard.Draft) error {
		return d.Confirm()
	})
	if err != nil {
		h.handleWizardError(w, draft, err)
		return
	}

	entry, err := h.persistDraft(w, r, draft)
	if err != nil {
		return
	}
	h.metrics.IncWizardCompleted("ai")

	writeJSON(w, http.StatusCreated, dto.WizardResultResponse{
		Entry:    dto.ToEntryResponse(entry),
		Analysis: draft.Analysis,
	})
}

// Cancel handles DELETE /api/v1/wizard/{id}. Cancelling an unknown
// draft still succeeds.
func (h *WizardHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.store.Cancel(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

// persistDraft saves a closed draft as an entry. On failure it writes
// the error response and returns a non-nil error to stop the caller.
func (h *WizardHandler) persistDraft(w http.ResponseWriter, r *http.Request, draft wizard.Draft) (*model.Entry, error) {
	entry, err := h.entries.CreateEntry(r.Context(), service.CreateEntryInput{
		UserID:            auth.UserIDFromContext(r.Context()),
		Apps:              draft.Apps,
		ScreenTimeMinutes: draft.ScreenTimeMinutes,
		Reflection:        draft.Reflection,
		Tags:              draft.Tags,
	})
	if err != nil {
		h.logger.Error("wizard_persist_failed", "draft_id", draft.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Entry could not be saved")
		return nil, err
	}
	return entry, nil
}

// handleWizardError maps wizard errors to HTTP responses. Validation
// failures include the unchanged draft state so clients re-render.
func (h *WizardHandler) handleWizardError(w http.ResponseWriter, draft wizard.Draft, err error) {
	code, status := "", http.StatusBadRequest
	switch {
	case errors.Is(err, wizard.ErrDraftNotFound):
		writeError(w, http.StatusNotFound, "DRAFT_NOT_FOUND", "Wizard draft not found")
		return
	case errors.Is(err, wizard.ErrNoAppSelected):
		code = "NO_APP_SELECTED"
	case errors.Is(err, wizard.ErrNoTagSelected):
		code = "NO_TAG_SELECTED"
	case errors.Is(err, wizard.ErrBlankReflection):
		code = "BLANK_REFLECTION"
	case errors.Is(err, wizard.ErrWrongStep), errors.Is(err, wizard.ErrClosed):
		code = "WRONG_STEP"
		status = http.StatusConflict
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	writeJSON(w, status, struct {
		dto.ErrorResponse
		Draft *dto.WizardResponse `json:"draft"`
	}{
		ErrorResponse: dto.ErrorResponse{Error: err.Error(), Code: code},
		Draft:         dto.ToWizardResponse(draft),
	})
}
