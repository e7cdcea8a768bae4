package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mindtrace/mindtrace/internal/auth"
	"github.com/mindtrace/mindtrace/internal/handler/dto"
	"github.com/mindtrace/mindtrace/internal/service"
)

// EntryHandler handles HTTP requests for journal entry operations.
type EntryHandler struct {
	svc    *service.EntryService
	logger *slog.Logger
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(svc *service.EntryService, logger *slog.Logger) *EntryHandler {
	return &EntryHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /api/v1/entries.
func (h *EntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	input := service.CreateEntryInput{
		UserID:            auth.UserIDFromContext(r.Context()),
		Apps:              req.Apps,
		ScreenTimeMinutes: req.ScreenTime,
		Reflection:        req.Reflection,
		Tags:              req.Tags,
	}

	entry, err := h.svc.CreateEntry(r.Context(), input)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("entry_created",
		"entry_id", entry.ID,
		"apps", len(entry.Apps),
		"screen_time", entry.ScreenTimeMinutes,
	)

	writeJSON(w, http.StatusCreated, dto.ToEntryResponse(entry))
}

// List handles GET /api/v1/entries. With a resolved identity the list
// is scoped to that user; otherwise every entry comes back.
func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())

	entries, err := h.svc.ListEntries(r.Context(), identity)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToEntryListResponse(entries))
}

// Get handles GET /api/v1/entries/{id}.
func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Entry ID is required")
		return
	}

	entry, err := h.svc.GetEntry(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToEntryResponse(entry))
}

// handleServiceError maps service errors to HTTP responses.
func (h *EntryHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrEntryNotFound):
		writeError(w, http.StatusNotFound, "ENTRY_NOT_FOUND", "Entry not found")
	case errors.Is(err, service.ErrNoApps):
		writeError(w, http.StatusBadRequest, "NO_APPS", "At least one app is required")
	case errors.Is(err, service.ErrBlankReflection):
		writeError(w, http.StatusBadRequest, "BLANK_REFLECTION", "Reflection must not be blank")
	case errors.Is(err, service.ErrNoTags):
		writeError(w, http.StatusBadRequest, "NO_TAGS", "At least one tag is required")
	case errors.Is(err, service.ErrScreenTimeRange):
		writeError(w, http.StatusBadRequest, "SCREEN_TIME_RANGE", "Screen time must be between 0 and 1440 minutes")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
