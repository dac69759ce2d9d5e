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

// PostgresHistoryRepository implements the DocumentHistoryRepository interface
type PostgresHistoryRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewHistoryRepository creates a new document history repository
func NewHistoryRepository(config *RepositoryConfig) repositories.DocumentHistoryRepository {
	return &PostgresHistoryRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Write appends a snapshot of the page taken by actingUserID.
// Runs inside the caller's transaction when one is in the context, so a
// failed insert rolls the triggering mutation back with it.
func (r *PostgresHistoryRepository) Write(ctx context.Context, doc *models.Document, actingUserID string) error {
	snapshot := models.SnapshotOf(doc, actingUserID)

	query := fmt.Sprintf(`
		INSERT INTO %s (page_id, project_id, pid, title, description, content, type, status, user_id, operation_user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		RETURNING id, created_at
	`, r.tables.Histories)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		snapshot.PageID,
		snapshot.ProjectID,
		snapshot.PID,
		snapshot.Title,
		snapshot.Description,
		snapshot.Content,
		snapshot.Type,
		snapshot.Status,
		snapshot.UserID,
		snapshot.OperationUserID,
	).Scan(&snapshot.ID, &snapshot.CreatedAt)

	if err != nil {
		return fmt.Errorf("write document history: %w", err)
	}

	r.logger.Debug("history written",
		"history_id", snapshot.ID,
		"page_id", snapshot.PageID,
		"operation_user_id", actingUserID,
	)

	return nil
}

// ListByPage retrieves all snapshots of a page, newest first
func (r *PostgresHistoryRepository) ListByPage(ctx context.Context, projectID, pageID int64) ([]models.DocumentHistory, error) {
	query := fmt.Sprintf(`
		SELECT id, page_id, project_id, pid, title, description, content, type, status, user_id, operation_user_id, created_at
		FROM %s
		WHERE project_id = $1 AND page_id = $2
		ORDER BY id DESC
	`, r.tables.Histories)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, projectID, pageID)
	if err != nil {
		return nil, fmt.Errorf("list document histories: %w", err)
	}
	defer rows.Close()

	var histories []models.DocumentHistory
	for rows.Next() {
		var h models.DocumentHistory
		err := rows.Scan(
			&h.ID,
			&h.PageID,
			&h.ProjectID,
			&h.PID,
			&h.Title,
			&h.Description,
			&h.Content,
			&h.Type,
			&h.Status,
			&h.UserID,
			&h.OperationUserID,
			&h.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan document history: %w", err)
		}
		histories = append(histories, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate document histories: %w", err)
	}

	// Return empty slice instead of nil
	if histories == nil {
		histories = []models.DocumentHistory{}
	}

	return histories, nil
}

// GetByID retrieves a single snapshot scoped to a page
func (r *PostgresHistoryRepository) GetByID(ctx context.Context, pageID, historyID int64) (*models.DocumentHistory, error) {
	query := fmt.Sprintf(`
		SELECT id, page_id, project_id, pid, title, description, content, type, status, user_id, operation_user_id, created_at
		FROM %s
		WHERE id = $1 AND page_id = $2
	`, r.tables.Histories)

	var h models.DocumentHistory
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, historyID, pageID).Scan(
		&h.ID,
		&h.PageID,
		&h.ProjectID,
		&h.PID,
		&h.Title,
		&h.Description,
		&h.Content,
		&h.Type,
		&h.Status,
		&h.UserID,
		&h.OperationUserID,
		&h.CreatedAt,
	)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, &domain.NotFoundError{Resource: fmt.Sprintf("document history %d", historyID)}
		}
		return nil, fmt.Errorf("get document history: %w", err)
	}

	return &h, nil
}
