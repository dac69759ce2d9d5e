package models

import (
	"encoding/json"
	"testing"
)

func TestParsePageType(t *testing.T) {
	tests := []struct {
		input   string
		want    PageType
		wantErr bool
	}{
		{"", PageTypeDoc, false},
		{"doc", PageTypeDoc, false},
		{"swagger", PageTypeSwagger, false},
		{"markdown", 0, true},
		{"DOC", 0, true},
	}

	for _, tt := range tests {
		t.Run("input "+tt.input, func(t *testing.T) {
			got, err := ParsePageType(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParsePageType(%q) = %v, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePageType(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParsePageType(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestPageTypeJSON(t *testing.T) {
	body, err := json.Marshal(struct {
		Type PageType `json:"type"`
	}{Type: PageTypeSwagger})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(body) != `{"type":"swagger"}` {
		t.Errorf("marshal = %s, want swagger string", body)
	}
}

func TestSnapshotOf(t *testing.T) {
	doc := &Document{
		ID:              5,
		ProjectID:       1,
		PID:             2,
		Title:           "Intro",
		Content:         "hello",
		Type:            PageTypeDoc,
		Status:          1,
		UserID:          "alice",
		LastModifiedUID: "bob",
	}

	snapshot := SnapshotOf(doc, "bob")

	if snapshot.PageID != 5 || snapshot.ProjectID != 1 || snapshot.PID != 2 {
		t.Errorf("snapshot ids = %+v, want page 5 in project 1 under 2", snapshot)
	}
	if snapshot.UserID != "alice" {
		t.Errorf("UserID = %q, want creator alice", snapshot.UserID)
	}
	if snapshot.OperationUserID != "bob" {
		t.Errorf("OperationUserID = %q, want acting user bob", snapshot.OperationUserID)
	}
	if snapshot.Title != "Intro" || snapshot.Content != "hello" {
		t.Errorf("snapshot content = %+v, want page fields copied", snapshot)
	}
}
