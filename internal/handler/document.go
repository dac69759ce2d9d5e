package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"wizard/internal/domain/models"
	"wizard/internal/domain/services"
	"wizard/internal/httputil"
	"wizard/internal/i18n"
)

// DocumentHandler handles page HTTP requests
type DocumentHandler struct {
	pageService services.PageService
	messages    *i18n.Catalog
	logger      *slog.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(pageService services.PageService, messages *i18n.Catalog, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{
		pageService: pageService,
		messages:    messages,
		logger:      logger,
	}
}

// mutationResponse is the body returned by create/update/delete. The message
// is the localized confirmation the UI flashes after a redirect.
type mutationResponse struct {
	Message string           `json:"message"`
	Page    *models.Document `json:"page,omitempty"`
}

// NewPageForm returns the data backing the new-page form
// GET /project/{id}/doc/new?type=doc|swagger
func (h *DocumentHandler) NewPageForm(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathInt64(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	userID := httputil.GetUserID(r)
	pageType := r.URL.Query().Get("type")

	form, err := h.pageService.NewPageForm(r.Context(), projectID, userID, pageType)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, form)
}

// EditPageForm returns the data backing the edit form
// GET /project/{id}/doc/{page_id}/edit
func (h *DocumentHandler) EditPageForm(w http.ResponseWriter, r *http.Request) {
	projectID, pageID, ok := h.pagePath(w, r)
	if !ok {
		return
	}

	userID := httputil.GetUserID(r)

	form, err := h.pageService.EditPageForm(r.Context(), projectID, pageID, userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, form)
}

// GetPage retrieves a page
// GET /project/{id}/doc/{page_id}
func (h *DocumentHandler) GetPage(w http.ResponseWriter, r *http.Request) {
	projectID, pageID, ok := h.pagePath(w, r)
	if !ok {
		return
	}

	doc, err := h.pageService.GetPage(r.Context(), projectID, pageID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// CreatePage creates a new page
// POST /project/{id}/doc
func (h *DocumentHandler) CreatePage(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathInt64(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req services.CreatePageRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !h.bindProjectID(w, &req.ProjectID, projectID) {
		return
	}
	req.ActingUserID = httputil.GetUserID(r)

	doc, err := h.pageService.CreatePage(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, mutationResponse{
		Message: h.messages.Message(langFromRequest(r), i18n.MsgPageCreated),
		Page:    doc,
	})
}

// UpdatePage updates a page
// POST /project/{id}/doc/{page_id}
func (h *DocumentHandler) UpdatePage(w http.ResponseWriter, r *http.Request) {
	projectID, pageID, ok := h.pagePath(w, r)
	if !ok {
		return
	}

	var req services.EditPageRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !h.bindProjectID(w, &req.ProjectID, projectID) {
		return
	}
	req.PageID = pageID
	req.ActingUserID = httputil.GetUserID(r)

	doc, err := h.pageService.EditPage(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, mutationResponse{
		Message: h.messages.Message(langFromRequest(r), i18n.MsgPageUpdated),
		Page:    doc,
	})
}

// DeletePage deletes a page
// DELETE /project/{id}/doc/{page_id}
func (h *DocumentHandler) DeletePage(w http.ResponseWriter, r *http.Request) {
	projectID, pageID, ok := h.pagePath(w, r)
	if !ok {
		return
	}

	userID := httputil.GetUserID(r)

	if err := h.pageService.DeletePage(r.Context(), projectID, pageID, userID); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, mutationResponse{
		Message: h.messages.Message(langFromRequest(r), i18n.MsgPageDeleted),
	})
}

// HealthCheck is a simple health check endpoint
func (h *DocumentHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now(),
	})
}

// pagePath parses the {id} and {page_id} path parameters
func (h *DocumentHandler) pagePath(w http.ResponseWriter, r *http.Request) (projectID, pageID int64, ok bool) {
	projectID, err := pathInt64(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return 0, 0, false
	}

	pageID, err = pathInt64(r, "page_id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return 0, 0, false
	}

	return projectID, pageID, true
}

// bindProjectID defaults a missing body project_id to the route value and
// rejects a mismatch between the two
func (h *DocumentHandler) bindProjectID(w http.ResponseWriter, bodyProjectID *int64, routeProjectID int64) bool {
	if *bodyProjectID == 0 {
		*bodyProjectID = routeProjectID
		return true
	}
	if *bodyProjectID != routeProjectID {
		httputil.RespondError(w, http.StatusBadRequest,
			fmt.Sprintf("project_id %d does not match route project %d", *bodyProjectID, routeProjectID))
		return false
	}
	return true
}
