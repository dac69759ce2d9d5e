package docs

import (
	"context"
	"log/slog"

	"wizard/internal/domain/models"
	"wizard/internal/domain/repositories"
	"wizard/internal/domain/services"
)

// historyService implements the HistoryService interface.
// History is audit data, so reading it requires the same "page-edit"
// capability as mutating the page.
type historyService struct {
	historyRepo repositories.DocumentHistoryRepository
	docRepo     repositories.DocumentRepository
	authorizer  services.PageAuthorizer
	logger      *slog.Logger
}

// NewHistoryService creates a new history service
func NewHistoryService(
	historyRepo repositories.DocumentHistoryRepository,
	docRepo repositories.DocumentRepository,
	authorizer services.PageAuthorizer,
	logger *slog.Logger,
) services.HistoryService {
	return &historyService{
		historyRepo: historyRepo,
		docRepo:     docRepo,
		authorizer:  authorizer,
		logger:      logger,
	}
}

// ListByPage retrieves all snapshots of a page, newest first
func (s *historyService) ListByPage(ctx context.Context, projectID, pageID int64, actingUserID string) ([]models.DocumentHistory, error) {
	doc, err := s.docRepo.GetByProjectAndID(ctx, projectID, pageID)
	if err != nil {
		return nil, err
	}

	if err := s.authorizer.CanEditPage(ctx, actingUserID, doc); err != nil {
		return nil, err
	}

	return s.historyRepo.ListByPage(ctx, projectID, pageID)
}

// GetByID retrieves a single snapshot
func (s *historyService) GetByID(ctx context.Context, projectID, pageID, historyID int64, actingUserID string) (*models.DocumentHistory, error) {
	doc, err := s.docRepo.GetByProjectAndID(ctx, projectID, pageID)
	if err != nil {
		return nil, err
	}

	if err := s.authorizer.CanEditPage(ctx, actingUserID, doc); err != nil {
		return nil, err
	}

	return s.historyRepo.GetByID(ctx, pageID, historyID)
}
