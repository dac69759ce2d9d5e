package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"wizard/internal/domain"
	"wizard/internal/domain/models"
	"wizard/internal/domain/repositories"
)

// PostgresDocumentRepository implements the DocumentRepository interface
type PostgresDocumentRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(config *RepositoryConfig) repositories.DocumentRepository {
	return &PostgresDocumentRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a new page and fills in its generated ID and timestamps
func (r *PostgresDocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (project_id, pid, title, description, content, type, status, user_id, last_modified_uid, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		doc.ProjectID,
		doc.PID,
		doc.Title,
		doc.Description,
		doc.Content,
		doc.Type,
		doc.Status,
		doc.UserID,
		doc.LastModifiedUID,
	).Scan(&doc.ID, &doc.CreatedAt, &doc.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}

	return nil
}

// GetByID retrieves a page by ID alone
func (r *PostgresDocumentRepository) GetByID(ctx context.Context, id int64) (*models.Document, error) {
	query := fmt.Sprintf(`
		SELECT id, project_id, pid, title, description, content, type, status, user_id, last_modified_uid, created_at, updated_at
		FROM %s
		WHERE id = $1
	`, r.tables.Documents)

	return r.scanOne(ctx, query, id)
}

// GetByProjectAndID retrieves a page scoped to a project
func (r *PostgresDocumentRepository) GetByProjectAndID(ctx context.Context, projectID, id int64) (*models.Document, error) {
	query := fmt.Sprintf(`
		SELECT id, project_id, pid, title, description, content, type, status, user_id, last_modified_uid, created_at, updated_at
		FROM %s
		WHERE id = $1 AND project_id = $2
	`, r.tables.Documents)

	return r.scanOne(ctx, query, id, projectID)
}

func (r *PostgresDocumentRepository) scanOne(ctx context.Context, query string, args ...interface{}) (*models.Document, error) {
	var doc models.Document
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, args...).Scan(
		&doc.ID,
		&doc.ProjectID,
		&doc.PID,
		&doc.Title,
		&doc.Description,
		&doc.Content,
		&doc.Type,
		&doc.Status,
		&doc.UserID,
		&doc.LastModifiedUID,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, &domain.NotFoundError{Resource: fmt.Sprintf("document %v", args[0])}
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	return &doc, nil
}

// ListByProject retrieves all page metadata in a project (no content)
func (r *PostgresDocumentRepository) ListByProject(ctx context.Context, projectID int64) ([]models.Document, error) {
	query := fmt.Sprintf(`
		SELECT id, project_id, pid, title, type, status, user_id, last_modified_uid, created_at, updated_at
		FROM %s
		WHERE project_id = $1
		ORDER BY id ASC
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var documents []models.Document
	for rows.Next() {
		var doc models.Document
		err := rows.Scan(
			&doc.ID,
			&doc.ProjectID,
			&doc.PID,
			&doc.Title,
			&doc.Type,
			&doc.Status,
			&doc.UserID,
			&doc.LastModifiedUID,
			&doc.CreatedAt,
			&doc.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		documents = append(documents, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}

	// Return empty slice instead of nil
	if documents == nil {
		documents = []models.Document{}
	}

	return documents, nil
}

// Update replaces a page's mutable fields
func (r *PostgresDocumentRepository) Update(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET pid = $1, title = $2, content = $3, last_modified_uid = $4, updated_at = NOW()
		WHERE id = $5 AND project_id = $6
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		doc.PID,
		doc.Title,
		doc.Content,
		doc.LastModifiedUID,
		doc.ID,
		doc.ProjectID,
	)

	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}

	if result.RowsAffected() == 0 {
		return &domain.NotFoundError{Resource: fmt.Sprintf("document %d", doc.ID)}
	}

	return nil
}

// UpdateLastModified records the acting user on a page
func (r *PostgresDocumentRepository) UpdateLastModified(ctx context.Context, id int64, userID string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET last_modified_uid = $1, updated_at = NOW()
		WHERE id = $2
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, userID, id)
	if err != nil {
		return fmt.Errorf("update last modified: %w", err)
	}

	if result.RowsAffected() == 0 {
		return &domain.NotFoundError{Resource: fmt.Sprintf("document %d", id)}
	}

	return nil
}

// ReparentChildren re-points every page whose pid equals parentID to
// newParentID, as a single bulk update
func (r *PostgresDocumentRepository) ReparentChildren(ctx context.Context, projectID, parentID, newParentID int64) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET pid = $1, updated_at = NOW()
		WHERE project_id = $2 AND pid = $3
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, newParentID, projectID, parentID)
	if err != nil {
		return fmt.Errorf("reparent children: %w", err)
	}

	r.logger.Debug("children reparented",
		"project_id", projectID,
		"parent_id", parentID,
		"new_parent_id", newParentID,
		"rows", result.RowsAffected(),
	)

	return nil
}

// Delete removes a page. Callers must reparent its children first.
func (r *PostgresDocumentRepository) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	if result.RowsAffected() == 0 {
		return &domain.NotFoundError{Resource: fmt.Sprintf("document %d", id)}
	}

	return nil
}

// IsDescendant reports whether candidateID sits in the subtree rooted at
// pageID, by walking the tree with a recursive CTE
func (r *PostgresDocumentRepository) IsDescendant(ctx context.Context, projectID, pageID, candidateID int64) (bool, error) {
	query := fmt.Sprintf(`
		WITH RECURSIVE subtree AS (
			SELECT id FROM %s WHERE project_id = $1 AND pid = $2
			UNION ALL
			SELECT d.id
			FROM %s d
			JOIN subtree s ON d.pid = s.id
			WHERE d.project_id = $1
		)
		SELECT EXISTS (SELECT 1 FROM subtree WHERE id = $3)
	`, r.tables.Documents, r.tables.Documents)

	var exists bool
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, projectID, pageID, candidateID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check descendant: %w", err)
	}

	return exists, nil
}
