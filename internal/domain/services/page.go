package services

import (
	"context"

	"wizard/internal/domain/models"
)

// PageService orchestrates page tree mutations: creation, edit, and deletion,
// including the reparent-on-delete invariant and history writes.
type PageService interface {
	// CreatePage creates a page and appends its first history snapshot
	CreatePage(ctx context.Context, req *CreatePageRequest) (*models.Document, error)

	// EditPage replaces a page's fields and appends a history snapshot
	EditPage(ctx context.Context, req *EditPageRequest) (*models.Document, error)

	// DeletePage reparents the page's children to its own parent, records the
	// acting user, then removes the page
	DeletePage(ctx context.Context, projectID, pageID int64, actingUserID string) error

	// GetPage retrieves a page scoped to a project
	GetPage(ctx context.Context, projectID, pageID int64) (*models.Document, error)

	// NewPageForm returns the data backing the new-page form: the project,
	// the navigator tree, and the requested page type
	NewPageForm(ctx context.Context, projectID int64, actingUserID, pageType string) (*PageFormData, error)

	// EditPageForm returns the data backing the edit form, with the page
	// itself excluded from the navigator
	EditPageForm(ctx context.Context, projectID, pageID int64, actingUserID string) (*PageFormData, error)
}

// CreatePageRequest represents a page creation request
type CreatePageRequest struct {
	ProjectID    int64  `json:"project_id"`
	ActingUserID string `json:"-"` // Set by handler from auth context, not from request body
	PID          int64  `json:"pid"`
	Title        string `json:"title"`
	Content      string `json:"content"`
	Type         string `json:"type"` // "doc" or "swagger", defaults to "doc"
}

// EditPageRequest represents a page update request
type EditPageRequest struct {
	ProjectID    int64  `json:"project_id"`
	PageID       int64  `json:"-"` // Set by handler from the URL path
	ActingUserID string `json:"-"`
	PID          int64  `json:"pid"`
	Title        string `json:"title"`
	Content      string `json:"content"`
}

// PageFormData backs the new-page and edit-page forms.
type PageFormData struct {
	NewPage   bool                    `json:"new_page"`
	Type      models.PageType         `json:"type"`
	Project   *models.Project         `json:"project"`
	PageItem  *models.Document        `json:"page_item,omitempty"`
	Navigator []*models.NavigatorNode `json:"navigator"`
}
