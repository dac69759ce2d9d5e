package docs

import (
	"context"

	"wizard/internal/domain/models"
)

// projectNavigator loads all page metadata for a project and arranges it as
// a nested tree. Excluded pages are dropped along with their subtrees, so an
// edit form never offers a page as its own parent.
func (s *pageService) projectNavigator(ctx context.Context, projectID int64, exclude map[int64]bool) ([]*models.NavigatorNode, error) {
	pages, err := s.docRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	return buildNavigator(pages, exclude), nil
}

// buildNavigator arranges flat page metadata into a nested tree using a
// two-pass map build. Pages whose parent is missing (excluded, or pointing
// at a page outside the list) are dropped rather than surfaced at the root.
func buildNavigator(pages []models.Document, exclude map[int64]bool) []*models.NavigatorNode {
	nodeMap := make(map[int64]*models.NavigatorNode)

	// First pass: create all nodes
	for _, page := range pages {
		if exclude[page.ID] {
			continue
		}
		nodeMap[page.ID] = &models.NavigatorNode{
			ID:       page.ID,
			PID:      page.PID,
			Title:    page.Title,
			Type:     page.Type,
			Children: []*models.NavigatorNode{},
		}
	}

	// Second pass: nest children under parents
	roots := make([]*models.NavigatorNode, 0)
	for _, page := range pages {
		node, ok := nodeMap[page.ID]
		if !ok {
			continue
		}
		if page.PID == models.RootPageID {
			roots = append(roots, node)
			continue
		}
		if parent, ok := nodeMap[page.PID]; ok {
			parent.Children = append(parent.Children, node)
		}
	}

	return roots
}
