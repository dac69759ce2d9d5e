package services

import (
	"context"

	"wizard/internal/domain/models"
)

// PageAuthorizer decides whether a user may perform a page action.
// Services consult it after existence checks and before any mutation.
type PageAuthorizer interface {
	// CanAddPage checks the "page-add" capability on a project
	CanAddPage(ctx context.Context, userID string, project *models.Project) error

	// CanEditPage checks the "page-edit" capability on a page
	CanEditPage(ctx context.Context, userID string, page *models.Document) error
}
