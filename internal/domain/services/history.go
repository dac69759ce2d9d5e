package services

import (
	"context"

	"wizard/internal/domain/models"
)

// HistoryService exposes the append-only page history for reading.
type HistoryService interface {
	// ListByPage retrieves all snapshots of a page, newest first
	ListByPage(ctx context.Context, projectID, pageID int64, actingUserID string) ([]models.DocumentHistory, error)

	// GetByID retrieves a single snapshot
	GetByID(ctx context.Context, projectID, pageID, historyID int64, actingUserID string) (*models.DocumentHistory, error)
}
