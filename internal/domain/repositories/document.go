package repositories

import (
	"context"

	"wizard/internal/domain/models"
)

// DocumentRepository defines data access operations for pages.
// All methods participate in a context-carried transaction when one is present.
type DocumentRepository interface {
	// Create inserts a new page and fills in its generated ID and timestamps
	Create(ctx context.Context, doc *models.Document) error

	// GetByID retrieves a page by ID alone
	GetByID(ctx context.Context, id int64) (*models.Document, error)

	// GetByProjectAndID retrieves a page scoped to a project
	GetByProjectAndID(ctx context.Context, projectID, id int64) (*models.Document, error)

	// ListByProject retrieves all page metadata in a project (no content)
	ListByProject(ctx context.Context, projectID int64) ([]models.Document, error)

	// Update replaces a page's mutable fields (pid, title, content,
	// last_modified_uid, updated_at)
	Update(ctx context.Context, doc *models.Document) error

	// UpdateLastModified records the acting user on a page
	UpdateLastModified(ctx context.Context, id int64, userID string) error

	// ReparentChildren re-points every page whose pid equals parentID to
	// newParentID, as a single bulk update
	ReparentChildren(ctx context.Context, projectID, parentID, newParentID int64) error

	// Delete removes a page. Callers must reparent its children first.
	Delete(ctx context.Context, id int64) error

	// IsDescendant reports whether candidateID sits in the subtree rooted at
	// pageID
	IsDescendant(ctx context.Context, projectID, pageID, candidateID int64) (bool, error)
}
