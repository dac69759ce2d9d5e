package models

import (
	"fmt"
	"time"
)

// RootPageID is the pid value marking a page at the root of its project tree.
const RootPageID int64 = 0

// PageType is the kind of document page. Stored as an integer, exposed as
// "doc" / "swagger" on the wire.
type PageType int

const (
	PageTypeDoc     PageType = 1
	PageTypeSwagger PageType = 2
)

// ParsePageType converts the wire representation to a PageType.
// An empty string defaults to PageTypeDoc, matching the form default.
func ParsePageType(s string) (PageType, error) {
	switch s {
	case "", "doc":
		return PageTypeDoc, nil
	case "swagger":
		return PageTypeSwagger, nil
	default:
		return 0, fmt.Errorf("invalid page type %q", s)
	}
}

func (t PageType) String() string {
	if t == PageTypeSwagger {
		return "swagger"
	}
	return "doc"
}

// MarshalJSON renders the type as its wire string ("doc" / "swagger").
func (t PageType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// Document is a page in a project's documentation tree.
// PID points at the parent page within the same project; RootPageID means root.
type Document struct {
	ID              int64     `json:"id" db:"id"`
	ProjectID       int64     `json:"project_id" db:"project_id"`
	PID             int64     `json:"pid" db:"pid"`
	Title           string    `json:"title" db:"title"`
	Description     string    `json:"description" db:"description"`
	Content         string    `json:"content" db:"content"`
	Type            PageType  `json:"type" db:"type"`
	Status          int       `json:"status" db:"status"`
	UserID          string    `json:"user_id" db:"user_id"`
	LastModifiedUID string    `json:"last_modified_uid" db:"last_modified_uid"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}
