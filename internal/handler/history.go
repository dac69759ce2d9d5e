package handler

import (
	"log/slog"
	"net/http"

	"wizard/internal/domain/services"
	"wizard/internal/httputil"
)

// HistoryHandler handles page history HTTP requests
type HistoryHandler struct {
	historyService services.HistoryService
	logger         *slog.Logger
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(historyService services.HistoryService, logger *slog.Logger) *HistoryHandler {
	return &HistoryHandler{
		historyService: historyService,
		logger:         logger,
	}
}

// ListHistories retrieves all snapshots of a page, newest first
// GET /project/{id}/doc/{page_id}/histories
func (h *HistoryHandler) ListHistories(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathInt64(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	pageID, err := pathInt64(r, "page_id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	userID := httputil.GetUserID(r)

	histories, err := h.historyService.ListByPage(r.Context(), projectID, pageID, userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, histories)
}

// GetHistory retrieves a single snapshot
// GET /project/{id}/doc/{page_id}/histories/{history_id}
func (h *HistoryHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathInt64(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	pageID, err := pathInt64(r, "page_id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	historyID, err := pathInt64(r, "history_id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	userID := httputil.GetUserID(r)

	history, err := h.historyService.GetByID(r.Context(), projectID, pageID, historyID, userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, history)
}
