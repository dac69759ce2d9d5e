package repositories

import (
	"context"

	"wizard/internal/domain/models"
)

// ProjectRepository defines the minimal project access the page tree needs:
// existence checks and the owner attribute consumed by the authorization gate.
type ProjectRepository interface {
	// GetByID retrieves a project by ID, regardless of owner
	GetByID(ctx context.Context, id int64) (*models.Project, error)
}
