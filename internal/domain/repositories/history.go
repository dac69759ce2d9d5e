package repositories

import (
	"context"

	"wizard/internal/domain/models"
)

// DocumentHistoryRepository is the append-only log of page snapshots.
// Write happens in the same transaction as the mutation that triggered it,
// so a failed history insert rolls the whole operation back.
type DocumentHistoryRepository interface {
	// Write appends a snapshot of the page taken by actingUserID
	Write(ctx context.Context, doc *models.Document, actingUserID string) error

	// ListByPage retrieves all snapshots of a page, newest first
	ListByPage(ctx context.Context, projectID, pageID int64) ([]models.DocumentHistory, error)

	// GetByID retrieves a single snapshot scoped to a page
	GetByID(ctx context.Context, pageID, historyID int64) (*models.DocumentHistory, error)
}
