package docs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"wizard/internal/config"
	"wizard/internal/domain"
	"wizard/internal/domain/models"
	"wizard/internal/domain/repositories"
	"wizard/internal/domain/services"
)

// pageService implements the PageService interface
type pageService struct {
	docRepo     repositories.DocumentRepository
	historyRepo repositories.DocumentHistoryRepository
	projectRepo repositories.ProjectRepository
	txManager   repositories.TransactionManager
	authorizer  services.PageAuthorizer
	logger      *slog.Logger
}

// NewPageService creates a new page service
func NewPageService(
	docRepo repositories.DocumentRepository,
	historyRepo repositories.DocumentHistoryRepository,
	projectRepo repositories.ProjectRepository,
	txManager repositories.TransactionManager,
	authorizer services.PageAuthorizer,
	logger *slog.Logger,
) services.PageService {
	return &pageService{
		docRepo:     docRepo,
		historyRepo: historyRepo,
		projectRepo: projectRepo,
		txManager:   txManager,
		authorizer:  authorizer,
		logger:      logger,
	}
}

// CreatePage creates a page and appends its first history snapshot.
// The insert and the history write share one transaction.
func (s *pageService) CreatePage(ctx context.Context, req *services.CreatePageRequest) (*models.Document, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	pageType, err := models.ParsePageType(req.Type)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	// Existence checks happen before authorization so a bad project id
	// surfaces as a validation error, not a forbidden one
	project, err := s.getProjectForWrite(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}

	if err := s.authorizer.CanAddPage(ctx, req.ActingUserID, project); err != nil {
		return nil, err
	}

	if err := s.checkParent(ctx, req.ProjectID, req.PID); err != nil {
		return nil, err
	}

	doc := &models.Document{
		ProjectID:       req.ProjectID,
		PID:             req.PID,
		Title:           req.Title,
		Description:     "",
		Content:         req.Content,
		Type:            pageType,
		Status:          1,
		UserID:          req.ActingUserID,
		LastModifiedUID: req.ActingUserID,
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.docRepo.Create(txCtx, doc); err != nil {
			return err
		}
		return s.historyRepo.Write(txCtx, doc, req.ActingUserID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("page created",
		"id", doc.ID,
		"project_id", doc.ProjectID,
		"pid", doc.PID,
		"type", doc.Type.String(),
		"user_id", req.ActingUserID,
	)

	return doc, nil
}

// EditPage replaces a page's fields and appends a history snapshot.
// Reparenting to the page itself or to one of its descendants is rejected,
// since either would disconnect the subtree from the root.
func (s *pageService) EditPage(ctx context.Context, req *services.EditPageRequest) (*models.Document, error) {
	if err := s.validateEditRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	doc, err := s.docRepo.GetByProjectAndID(ctx, req.ProjectID, req.PageID)
	if err != nil {
		return nil, err
	}

	if err := s.authorizer.CanEditPage(ctx, req.ActingUserID, doc); err != nil {
		return nil, err
	}

	if err := s.checkParent(ctx, req.ProjectID, req.PID); err != nil {
		return nil, err
	}

	if req.PID != models.RootPageID && req.PID != doc.PID {
		if req.PID == doc.ID {
			return nil, &domain.ValidationError{Message: "a page cannot be its own parent"}
		}
		descendant, err := s.docRepo.IsDescendant(ctx, req.ProjectID, doc.ID, req.PID)
		if err != nil {
			return nil, err
		}
		if descendant {
			return nil, &domain.ValidationError{Message: fmt.Sprintf("moving page %d under its descendant %d would create a cycle", doc.ID, req.PID)}
		}
	}

	doc.PID = req.PID
	doc.Title = req.Title
	doc.Content = req.Content
	doc.LastModifiedUID = req.ActingUserID

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.docRepo.Update(txCtx, doc); err != nil {
			return err
		}
		return s.historyRepo.Write(txCtx, doc, req.ActingUserID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("page updated",
		"id", doc.ID,
		"project_id", doc.ProjectID,
		"pid", doc.PID,
		"user_id", req.ActingUserID,
	)

	return doc, nil
}

// DeletePage reparents the page's direct children to the page's own parent,
// records the acting user, then removes the page. All three steps share one
// transaction; reparenting strictly precedes the delete.
func (s *pageService) DeletePage(ctx context.Context, projectID, pageID int64, actingUserID string) error {
	doc, err := s.docRepo.GetByProjectAndID(ctx, projectID, pageID)
	if err != nil {
		return err
	}

	if err := s.authorizer.CanEditPage(ctx, actingUserID, doc); err != nil {
		return err
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		// Children move up one level, to the deleted page's own parent
		if err := s.docRepo.ReparentChildren(txCtx, projectID, doc.ID, doc.PID); err != nil {
			return err
		}
		if err := s.docRepo.UpdateLastModified(txCtx, doc.ID, actingUserID); err != nil {
			return err
		}
		return s.docRepo.Delete(txCtx, doc.ID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("page deleted",
		"id", doc.ID,
		"project_id", projectID,
		"children_moved_to", doc.PID,
		"user_id", actingUserID,
	)

	return nil
}

// GetPage retrieves a page scoped to a project
func (s *pageService) GetPage(ctx context.Context, projectID, pageID int64) (*models.Document, error) {
	return s.docRepo.GetByProjectAndID(ctx, projectID, pageID)
}

// NewPageForm returns the data backing the new-page form
func (s *pageService) NewPageForm(ctx context.Context, projectID int64, actingUserID, pageType string) (*services.PageFormData, error) {
	parsedType, err := models.ParsePageType(pageType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if err := s.authorizer.CanAddPage(ctx, actingUserID, project); err != nil {
		return nil, err
	}

	navigator, err := s.projectNavigator(ctx, projectID, nil)
	if err != nil {
		return nil, err
	}

	return &services.PageFormData{
		NewPage:   true,
		Type:      parsedType,
		Project:   project,
		Navigator: navigator,
	}, nil
}

// EditPageForm returns the data backing the edit form, with the page itself
// (and therefore its subtree) excluded from the navigator
func (s *pageService) EditPageForm(ctx context.Context, projectID, pageID int64, actingUserID string) (*services.PageFormData, error) {
	doc, err := s.docRepo.GetByProjectAndID(ctx, projectID, pageID)
	if err != nil {
		return nil, err
	}

	if err := s.authorizer.CanEditPage(ctx, actingUserID, doc); err != nil {
		return nil, err
	}

	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	navigator, err := s.projectNavigator(ctx, projectID, map[int64]bool{doc.ID: true})
	if err != nil {
		return nil, err
	}

	return &services.PageFormData{
		NewPage:   false,
		Type:      doc.Type,
		Project:   project,
		PageItem:  doc,
		Navigator: navigator,
	}, nil
}

// getProjectForWrite resolves a project referenced by a mutation request.
// A missing project is a validation failure here, not a 404: the project id
// came from the request body, not the route.
func (s *pageService) getProjectForWrite(ctx context.Context, projectID int64) (*models.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.ValidationError{Message: fmt.Sprintf("project %d does not exist", projectID)}
		}
		return nil, err
	}
	return project, nil
}

// checkParent verifies pid references the root or an existing page in the
// same project
func (s *pageService) checkParent(ctx context.Context, projectID, pid int64) error {
	if pid == models.RootPageID {
		return nil
	}

	if _, err := s.docRepo.GetByProjectAndID(ctx, projectID, pid); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &domain.ValidationError{Message: fmt.Sprintf("parent page %d does not exist in project %d", pid, projectID)}
		}
		return err
	}

	return nil
}

// validateCreateRequest validates a page creation request.
// Title messages mirror the product's original form errors.
func (s *pageService) validateCreateRequest(req *services.CreatePageRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.ProjectID, validation.Required, validation.Min(int64(1))),
		validation.Field(&req.Title,
			validation.Required.Error("页面标题不能为空"),
			validation.Length(config.MinPageTitleLength, config.MaxPageTitleLength).Error("页面标题格式不合法"),
		),
		validation.Field(&req.Type, validation.In("", "doc", "swagger")),
		validation.Field(&req.PID, validation.Min(int64(0))),
	)
}

// validateEditRequest validates a page update request
func (s *pageService) validateEditRequest(req *services.EditPageRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.ProjectID, validation.Required, validation.Min(int64(1))),
		validation.Field(&req.Title,
			validation.Required.Error("页面标题不能为空"),
			validation.Length(config.MinPageTitleLength, config.MaxPageTitleLength).Error("页面标题格式不合法"),
		),
		validation.Field(&req.PID, validation.Min(int64(0))),
	)
}
