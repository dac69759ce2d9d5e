package docs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"wizard/internal/domain"
	"wizard/internal/domain/models"
	"wizard/internal/domain/repositories"
	"wizard/internal/domain/services"
)

// ============================================================================
// In-memory fakes
// ============================================================================

type fakeDocRepo struct {
	docs   map[int64]*models.Document
	nextID int64
	calls  []string
}

func newFakeDocRepo() *fakeDocRepo {
	return &fakeDocRepo{docs: make(map[int64]*models.Document), nextID: 1}
}

func (r *fakeDocRepo) Create(ctx context.Context, doc *models.Document) error {
	r.calls = append(r.calls, "create")
	doc.ID = r.nextID
	r.nextID++
	doc.CreatedAt = time.Now()
	doc.UpdatedAt = doc.CreatedAt
	stored := *doc
	r.docs[doc.ID] = &stored
	return nil
}

func (r *fakeDocRepo) GetByID(ctx context.Context, id int64) (*models.Document, error) {
	doc, ok := r.docs[id]
	if !ok {
		return nil, fmt.Errorf("document %d: %w", id, domain.ErrNotFound)
	}
	copied := *doc
	return &copied, nil
}

func (r *fakeDocRepo) GetByProjectAndID(ctx context.Context, projectID, id int64) (*models.Document, error) {
	doc, ok := r.docs[id]
	if !ok || doc.ProjectID != projectID {
		return nil, fmt.Errorf("document %d: %w", id, domain.ErrNotFound)
	}
	copied := *doc
	return &copied, nil
}

func (r *fakeDocRepo) ListByProject(ctx context.Context, projectID int64) ([]models.Document, error) {
	docs := []models.Document{}
	for id := int64(1); id < r.nextID; id++ {
		if doc, ok := r.docs[id]; ok && doc.ProjectID == projectID {
			docs = append(docs, *doc)
		}
	}
	return docs, nil
}

func (r *fakeDocRepo) Update(ctx context.Context, doc *models.Document) error {
	r.calls = append(r.calls, "update")
	stored, ok := r.docs[doc.ID]
	if !ok || stored.ProjectID != doc.ProjectID {
		return fmt.Errorf("document %d: %w", doc.ID, domain.ErrNotFound)
	}
	stored.PID = doc.PID
	stored.Title = doc.Title
	stored.Content = doc.Content
	stored.LastModifiedUID = doc.LastModifiedUID
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *fakeDocRepo) UpdateLastModified(ctx context.Context, id int64, userID string) error {
	r.calls = append(r.calls, "update_last_modified")
	stored, ok := r.docs[id]
	if !ok {
		return fmt.Errorf("document %d: %w", id, domain.ErrNotFound)
	}
	stored.LastModifiedUID = userID
	return nil
}

func (r *fakeDocRepo) ReparentChildren(ctx context.Context, projectID, parentID, newParentID int64) error {
	r.calls = append(r.calls, "reparent")
	for _, doc := range r.docs {
		if doc.ProjectID == projectID && doc.PID == parentID {
			doc.PID = newParentID
		}
	}
	return nil
}

func (r *fakeDocRepo) Delete(ctx context.Context, id int64) error {
	r.calls = append(r.calls, "delete")
	if _, ok := r.docs[id]; !ok {
		return fmt.Errorf("document %d: %w", id, domain.ErrNotFound)
	}
	delete(r.docs, id)
	return nil
}

func (r *fakeDocRepo) IsDescendant(ctx context.Context, projectID, pageID, candidateID int64) (bool, error) {
	subtree := map[int64]bool{pageID: true}
	for changed := true; changed; {
		changed = false
		for _, doc := range r.docs {
			if doc.ProjectID == projectID && subtree[doc.PID] && !subtree[doc.ID] {
				subtree[doc.ID] = true
				changed = true
			}
		}
	}
	return subtree[candidateID] && candidateID != pageID, nil
}

type fakeHistoryRepo struct {
	entries []models.DocumentHistory
	nextID  int64
	failing bool
}

func newFakeHistoryRepo() *fakeHistoryRepo {
	return &fakeHistoryRepo{nextID: 1}
}

func (r *fakeHistoryRepo) Write(ctx context.Context, doc *models.Document, actingUserID string) error {
	if r.failing {
		return errors.New("history insert failed")
	}
	snapshot := models.SnapshotOf(doc, actingUserID)
	snapshot.ID = r.nextID
	r.nextID++
	snapshot.CreatedAt = time.Now()
	r.entries = append(r.entries, *snapshot)
	return nil
}

func (r *fakeHistoryRepo) ListByPage(ctx context.Context, projectID, pageID int64) ([]models.DocumentHistory, error) {
	histories := []models.DocumentHistory{}
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].ProjectID == projectID && r.entries[i].PageID == pageID {
			histories = append(histories, r.entries[i])
		}
	}
	return histories, nil
}

func (r *fakeHistoryRepo) GetByID(ctx context.Context, pageID, historyID int64) (*models.DocumentHistory, error) {
	for _, h := range r.entries {
		if h.ID == historyID && h.PageID == pageID {
			copied := h
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("document history %d: %w", historyID, domain.ErrNotFound)
}

func (r *fakeHistoryRepo) forPage(pageID int64) []models.DocumentHistory {
	var entries []models.DocumentHistory
	for _, h := range r.entries {
		if h.PageID == pageID {
			entries = append(entries, h)
		}
	}
	return entries
}

type fakeProjectRepo struct {
	projects map[int64]*models.Project
}

func (r *fakeProjectRepo) GetByID(ctx context.Context, id int64) (*models.Project, error) {
	project, ok := r.projects[id]
	if !ok {
		return nil, fmt.Errorf("project %d: %w", id, domain.ErrNotFound)
	}
	copied := *project
	return &copied, nil
}

type fakeTxManager struct{}

func (m *fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

type allowAllAuthorizer struct{}

func (allowAllAuthorizer) CanAddPage(ctx context.Context, userID string, project *models.Project) error {
	return nil
}

func (allowAllAuthorizer) CanEditPage(ctx context.Context, userID string, page *models.Document) error {
	return nil
}

type denyAllAuthorizer struct{}

func (denyAllAuthorizer) CanAddPage(ctx context.Context, userID string, project *models.Project) error {
	return fmt.Errorf("denied: %w", domain.ErrForbidden)
}

func (denyAllAuthorizer) CanEditPage(ctx context.Context, userID string, page *models.Document) error {
	return fmt.Errorf("denied: %w", domain.ErrForbidden)
}

// ============================================================================
// Test fixture
// ============================================================================

type fixture struct {
	docRepo     *fakeDocRepo
	historyRepo *fakeHistoryRepo
	projectRepo *fakeProjectRepo
	service     services.PageService
}

func newFixture(authorizer services.PageAuthorizer) *fixture {
	docRepo := newFakeDocRepo()
	historyRepo := newFakeHistoryRepo()
	projectRepo := &fakeProjectRepo{projects: map[int64]*models.Project{
		1: {ID: 1, UserID: "alice", Name: "wiki"},
		2: {ID: 2, UserID: "bob", Name: "other"},
	}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &fixture{
		docRepo:     docRepo,
		historyRepo: historyRepo,
		projectRepo: projectRepo,
		service:     NewPageService(docRepo, historyRepo, projectRepo, &fakeTxManager{}, authorizer, logger),
	}
}

func (f *fixture) mustCreate(t *testing.T, projectID, pid int64, title string) *models.Document {
	t.Helper()
	doc, err := f.service.CreatePage(context.Background(), &services.CreatePageRequest{
		ProjectID:    projectID,
		ActingUserID: "alice",
		PID:          pid,
		Title:        title,
		Content:      "body of " + title,
		Type:         "doc",
	})
	if err != nil {
		t.Fatalf("CreatePage(%q) failed: %v", title, err)
	}
	return doc
}

// ============================================================================
// CreatePage
// ============================================================================

func TestCreatePage_SetsActorAndWritesHistory(t *testing.T) {
	f := newFixture(allowAllAuthorizer{})

	doc, err := f.service.CreatePage(context.Background(), &services.CreatePageRequest{
		ProjectID:    1,
		ActingUserID: "alice",
		Title:        "Intro",
		Content:      "hello",
		Type:         "doc",
	})
	if err != nil {
		t.Fatalf("CreatePage failed: %v", err)
	}

	if doc.UserID != "alice" || doc.LastModifiedUID != "alice" {
		t.Errorf("creator ids = (%s, %s), want (alice, alice)", doc.UserID, doc.LastModifiedUID)
	}
	if doc.Status != 1 {
		t.Errorf("Status = %d, want 1", doc.Status)
	}
	if doc.PID != models.RootPageID {
		t.Errorf("PID = %d, want root", doc.PID)
	}

	histories := f.historyRepo.forPage(doc.ID)
	if len(histories) != 1 {
		t.Fatalf("history entries = %d, want 1", len(histories))
	}
	if histories[0].Title != "Intro" || histories[0].OperationUserID != "alice" {
		t.Errorf("history = %+v, want Intro by alice", histories[0])
	}
}

func TestCreatePage_TitleBoundary(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		wantErr bool
	}{
		{"empty title rejected", "", true},
		{"single character accepted", "a", false},
		{"255 characters accepted", strings.Repeat("字", 255), false},
		{"256 characters rejected", strings.Repeat("字", 256), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(allowAllAuthorizer{})
			_, err := f.service.CreatePage(context.Background(), &services.CreatePageRequest{
				ProjectID:    1,
				ActingUserID: "alice",
				Title:        tt.title,
				Type:         "doc",
			})

			if tt.wantErr {
				if !errors.Is(err, domain.ErrValidation) {
					t.Errorf("error = %v, want validation error", err)
				}
			} else if err != nil {
				t.Errorf("CreatePage failed: %v", err)
			}
		})
	}
}

func TestCreatePage_InvalidType(t *testing.T) {
	f := newFixture(allowAllAuthorizer{})

	_, err := f.service.CreatePage(context.Background(), &services.CreatePageRequest{
		ProjectID:    1,
		ActingUserID: "alice",
		Title:        "Intro",
		Type:         "markdown",
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("error = %v, want validation error", err)
	}
}

func TestCreatePage_TypeDefaultsToDoc(t *testing.T) {
	f := newFixture(allowAllAuthorizer{})

	doc := f.mustCreate(t, 1, 0, "Intro")
	if doc.Type != models.PageTypeDoc {
		t.Errorf("Type = %v, want doc", doc.Type)
	}

	swagger, err := f.service.CreatePage(context.Background(), &services.CreatePageRequest{
		ProjectID:    1,
		ActingUserID: "alice",
		Title:        "API",
		Type:         "swagger",
	})
	if err != nil {
		t.Fatalf("CreatePage failed: %v", err)
	}
	if swagger.Type != models.PageTypeSwagger {
		t.Errorf("Type = %v, want swagger", swagger.Type)
	}
}

func TestCreatePage_MissingProjectIsValidationError(t *testing.T) {
	f := newFixture(allowAllAuthorizer{})

	_, err := f.service.CreatePage(context.Background(), &services.CreatePageRequest{
		ProjectID:    99,
		ActingUserID: "alice",
		Title:        "Intro",
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("error = %v, want validation error", err)
	}
}

func TestCreatePage_ParentChecks(t *testing.T) {
	f := newFixture(allowAllAuthorizer{})
	parent := f.mustCreate(t, 1, 0, "Parent")
	other := f.mustCreate(t, 2, 0, "Elsewhere")

	// pid=0 is always valid
	if _, err := f.service.CreatePage(context.Background(), &services.CreatePageRequest{
		ProjectID: 1, ActingUserID: "alice", Title: "Root child", PID: 0,
	}); err != nil {
		t.Errorf("root pid rejected: %v", err)
	}

	// existing parent in same project
	if _, err := f.service.CreatePage(context.Background(), &services.CreatePageRequest{
		ProjectID: 1, ActingUserID: "alice", Title: "Nested", PID: parent.ID,
	}); err != nil {
		t.Errorf("valid parent rejected: %v", err)
	}

	// parent from another project
	_, err := f.service.CreatePage(context.Background(), &services.CreatePageRequest{
		ProjectID: 1, ActingUserID: "alice", Title: "Crossed", PID: other.ID,
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("cross-project parent: error = %v, want validation error", err)
	}

	// nonexistent parent
	_, err = f.service.CreatePage(context.Background(), &services.CreatePageRequest{
		ProjectID: 1, ActingUserID: "alice", Title: "Orphan", PID: 4242,
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("missing parent: error = %v, want validation error", err)
	}
}

func TestCreatePage_ForbiddenWritesNothing(t *testing.T) {
	f := newFixture(denyAllAuthorizer{})

	_, err := f.service.CreatePage(context.Background(), &services.CreatePageRequest{
		ProjectID:    1,
		ActingUserID: "mallory",
		Title:        "Intro",
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("error = %v, want forbidden", err)
	}

	if len(f.docRepo.docs) != 0 {
		t.Errorf("documents written despite denial: %d", len(f.docRepo.docs))
	}
	if len(f.historyRepo.entries) != 0 {
		t.Errorf("history written despite denial: %d", len(f.historyRepo.entries))
	}
}

func TestCreatePage_HistoryFailureRollsBack(t *testing.T) {
	f := newFixture(allowAllAuthorizer{})
	f.historyRepo.failing = true

	_, err := f.service.CreatePage(context.Background(), &services.CreatePageRequest{
		ProjectID:    1,
		ActingUserID: "alice",
		Title:        "Intro",
	})
	if err == nil {
		t.Fatal("CreatePage succeeded despite history failure")
	}
}

// ============================================================================
// EditPage
// ============================================================================

func TestEditPage_AppendsHistory(t *testing.T) {
	f := newFixture(allowAllAuthorizer{})
	doc := f.mustCreate(t, 1, 0, "Intro")

	updated, err := f.service.EditPage(context.Background(), &services.EditPageRequest{
		ProjectID:    1,
		PageID:       doc.ID,
		ActingUserID: "bob",
		Title:        "Intro v2",
		Content:      "revised",
	})
	if err != nil {
		t.Fatalf("EditPage failed: %v", err)
	}

	if updated.Title != "Intro v2" {
		t.Errorf("Title = %q, want %q", updated.Title, "Intro v2")
	}
	if updated.LastModifiedUID != "bob" {
		t.Errorf("LastModifiedUID = %q, want bob", updated.LastModifiedUID)
	}
	if updated.UserID != "alice" {
		t.Errorf("UserID = %q, creator must be immutable", updated.UserID)
	}

	histories := f.historyRepo.forPage(doc.ID)
	if len(histories) != 2 {
		t.Fatalf("history entries = %d, want 2", len(histories))
	}
	// Earlier entries are preserved unchanged - history is append-only
	if histories[0].Title != "Intro" || histories[0].OperationUserID != "alice" {
		t.Errorf("first entry mutated: %+v", histories[0])
	}
	if histories[1].Title != "Intro v2" || histories[1].OperationUserID != "bob" {
		t.Errorf("second entry = %+v, want Intro v2 by bob", histories[1])
	}
}

func TestEditPage_NotFound(t *testing.T) {
	f := newFixture(allowAllAuthorizer{})

	_, err := f.service.EditPage(context.Background(), &services.EditPageRequest{
		ProjectID:    1,
		PageID:       42,
		ActingUserID: "alice",
		Title:        "Ghost",
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("error = %v, want not found", err)
	}
}

func TestEditPage_Reparent(t *testing.T) {
	f := newFixture(allowAllAuthorizer{})
	a := f.mustCreate(t, 1, 0, "A")
	b := f.mustCreate(t, 1, 0, "B")

	moved, err := f.service.EditPage(context.Background(), &services.EditPageRequest{
		ProjectID:    1,
		PageID:       b.ID,
		ActingUserID: "alice",
		PID:          a.ID,
		Title:        "B",
	})
	if err != nil {
		t.Fatalf("EditPage failed: %v", err)
	}
	if moved.PID != a.ID {
		t.Errorf("PID = %d, want %d", moved.PID, a.ID)
	}
}

func TestEditPage_CycleRejected(t *testing.T) {
	f := newFixture(allowAllAuthorizer{})
	a := f.mustCreate(t, 1, 0, "A")
	child := f.mustCreate(t, 1, a.ID, "Child")
	grandchild := f.mustCreate(t, 1, child.ID, "Grandchild")

	tests := []struct {
		name   string
		pageID int64
		newPID int64
	}{
		{"self as parent", a.ID, a.ID},
		{"direct child as parent", a.ID, child.ID},
		{"descendant as parent", a.ID, grandchild.ID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.EditPage(context.Background(), &services.EditPageRequest{
				ProjectID:    1,
				PageID:       tt.pageID,
				ActingUserID: "alice",
				PID:          tt.newPID,
				Title:        "A",
			})
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("error = %v, want validation error", err)
			}
		})
	}
}

// ============================================================================
// DeletePage
// ============================================================================

func TestDeletePage_ReparentsChildren(t *testing.T) {
	f := newFixture(allowAllAuthorizer{})
	a := f.mustCreate(t, 1, 0, "A")
	b := f.mustCreate(t, 1, a.ID, "B")
	c := f.mustCreate(t, 1, b.ID, "C")

	if err := f.service.DeletePage(context.Background(), 1, b.ID, "alice"); err != nil {
		t.Fatalf("DeletePage failed: %v", err)
	}

	// B is gone
	if _, err := f.service.GetPage(context.Background(), 1, b.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("deleted page still resolves: %v", err)
	}

	// C moved up to B's parent
	gotC, err := f.service.GetPage(context.Background(), 1, c.ID)
	if err != nil {
		t.Fatalf("GetPage(C) failed: %v", err)
	}
	if gotC.PID != a.ID {
		t.Errorf("C.pid = %d, want %d", gotC.PID, a.ID)
	}

	// A unchanged
	gotA, err := f.service.GetPage(context.Background(), 1, a.ID)
	if err != nil {
		t.Fatalf("GetPage(A) failed: %v", err)
	}
	if gotA.PID != models.RootPageID || gotA.Title != "A" {
		t.Errorf("A changed: %+v", gotA)
	}
}

func TestDeletePage_SecondDeleteIsNotFound(t *testing.T) {
	f := newFixture(allowAllAuthorizer{})
	doc := f.mustCreate(t, 1, 0, "Intro")

	if err := f.service.DeletePage(context.Background(), 1, doc.ID, "alice"); err != nil {
		t.Fatalf("DeletePage failed: %v", err)
	}

	err := f.service.DeletePage(context.Background(), 1, doc.ID, "alice")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("second delete: error = %v, want not found", err)
	}
}

func TestDeletePage_ReparentPrecedesDelete(t *testing.T) {
	f := newFixture(allowAllAuthorizer{})
	doc := f.mustCreate(t, 1, 0, "Intro")

	f.docRepo.calls = nil
	if err := f.service.DeletePage(context.Background(), 1, doc.ID, "alice"); err != nil {
		t.Fatalf("DeletePage failed: %v", err)
	}

	want := []string{"reparent", "update_last_modified", "delete"}
	if len(f.docRepo.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", f.docRepo.calls, want)
	}
	for i := range want {
		if f.docRepo.calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", f.docRepo.calls, want)
		}
	}
}

func TestDeletePage_WrongProjectIsNotFound(t *testing.T) {
	f := newFixture(allowAllAuthorizer{})
	doc := f.mustCreate(t, 1, 0, "Intro")

	err := f.service.DeletePage(context.Background(), 2, doc.ID, "alice")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("error = %v, want not found", err)
	}
}

// ============================================================================
// Forms
// ============================================================================

func TestNewPageForm(t *testing.T) {
	f := newFixture(allowAllAuthorizer{})
	f.mustCreate(t, 1, 0, "A")

	form, err := f.service.NewPageForm(context.Background(), 1, "alice", "swagger")
	if err != nil {
		t.Fatalf("NewPageForm failed: %v", err)
	}

	if !form.NewPage {
		t.Error("NewPage = false, want true")
	}
	if form.Type != models.PageTypeSwagger {
		t.Errorf("Type = %v, want swagger", form.Type)
	}
	if form.Project == nil || form.Project.ID != 1 {
		t.Errorf("Project = %+v, want project 1", form.Project)
	}
	if len(form.Navigator) != 1 {
		t.Errorf("navigator roots = %d, want 1", len(form.Navigator))
	}
}

func TestEditPageForm_ExcludesPageFromNavigator(t *testing.T) {
	f := newFixture(allowAllAuthorizer{})
	a := f.mustCreate(t, 1, 0, "A")
	b := f.mustCreate(t, 1, a.ID, "B")
	f.mustCreate(t, 1, b.ID, "C")

	form, err := f.service.EditPageForm(context.Background(), 1, b.ID, "alice")
	if err != nil {
		t.Fatalf("EditPageForm failed: %v", err)
	}

	if form.NewPage {
		t.Error("NewPage = true, want false")
	}
	if form.PageItem == nil || form.PageItem.ID != b.ID {
		t.Errorf("PageItem = %+v, want page B", form.PageItem)
	}

	// B and its subtree are excluded: only A remains, with no children
	if len(form.Navigator) != 1 || form.Navigator[0].ID != a.ID {
		t.Fatalf("navigator = %+v, want only A at root", form.Navigator)
	}
	if len(form.Navigator[0].Children) != 0 {
		t.Errorf("A.children = %+v, want empty (B excluded)", form.Navigator[0].Children)
	}
}
