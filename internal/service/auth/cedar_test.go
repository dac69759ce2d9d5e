package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"wizard/internal/domain"
	"wizard/internal/domain/models"
)

type stubProjectRepo struct {
	projects map[int64]*models.Project
}

func (r *stubProjectRepo) GetByID(ctx context.Context, id int64) (*models.Project, error) {
	project, ok := r.projects[id]
	if !ok {
		return nil, fmt.Errorf("project %d: %w", id, domain.ErrNotFound)
	}
	return project, nil
}

func newTestAuthorizer(t *testing.T) *CedarAuthorizer {
	t.Helper()
	repo := &stubProjectRepo{projects: map[int64]*models.Project{
		1: {ID: 1, UserID: "alice", Name: "wiki"},
	}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	authorizer, err := NewCedarAuthorizer(repo, logger)
	if err != nil {
		t.Fatalf("NewCedarAuthorizer failed: %v", err)
	}
	return authorizer.(*CedarAuthorizer)
}

func TestCanAddPage(t *testing.T) {
	a := newTestAuthorizer(t)
	project := &models.Project{ID: 1, UserID: "alice", Name: "wiki"}

	tests := []struct {
		name    string
		userID  string
		wantErr bool
	}{
		{"owner allowed", "alice", false},
		{"non-owner denied", "bob", true},
		{"empty principal denied", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := a.CanAddPage(context.Background(), tt.userID, project)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrForbidden) {
					t.Errorf("error = %v, want forbidden", err)
				}
			} else if err != nil {
				t.Errorf("CanAddPage failed: %v", err)
			}
		})
	}
}

func TestCanEditPage(t *testing.T) {
	a := newTestAuthorizer(t)
	page := &models.Document{ID: 7, ProjectID: 1, Title: "Intro"}

	if err := a.CanEditPage(context.Background(), "alice", page); err != nil {
		t.Errorf("owner edit denied: %v", err)
	}

	if err := a.CanEditPage(context.Background(), "bob", page); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("non-owner edit: error = %v, want forbidden", err)
	}
}

func TestCanEditPage_MissingProject(t *testing.T) {
	a := newTestAuthorizer(t)
	page := &models.Document{ID: 7, ProjectID: 99, Title: "Orphan"}

	err := a.CanEditPage(context.Background(), "alice", page)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("error = %v, want not found", err)
	}
}
