package models

import "time"

// DocumentHistory is an immutable snapshot of a page, written alongside every
// create and update. Rows are only ever inserted.
type DocumentHistory struct {
	ID              int64     `json:"id" db:"id"`
	PageID          int64     `json:"page_id" db:"page_id"`
	ProjectID       int64     `json:"project_id" db:"project_id"`
	PID             int64     `json:"pid" db:"pid"`
	Title           string    `json:"title" db:"title"`
	Description     string    `json:"description" db:"description"`
	Content         string    `json:"content" db:"content"`
	Type            PageType  `json:"type" db:"type"`
	Status          int       `json:"status" db:"status"`
	UserID          string    `json:"user_id" db:"user_id"`
	OperationUserID string    `json:"operation_user_id" db:"operation_user_id"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// SnapshotOf captures the current state of a page as a history entry.
// The acting user is recorded separately from the page's creator.
func SnapshotOf(doc *Document, actingUserID string) *DocumentHistory {
	return &DocumentHistory{
		PageID:          doc.ID,
		ProjectID:       doc.ProjectID,
		PID:             doc.PID,
		Title:           doc.Title,
		Description:     doc.Description,
		Content:         doc.Content,
		Type:            doc.Type,
		Status:          doc.Status,
		UserID:          doc.UserID,
		OperationUserID: actingUserID,
	}
}
