package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/Bharadwaj710/Collab-Tool/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "sessions.db"))
}

func TestFindIDNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.FindID(context.Background(), "missing")
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSaveAndFindID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	doc := core.NewSessionDocument("s1", "Interview", "owner", time.Now())
	doc.Surfaces[core.SurfaceCode] = core.ContentState{Content: "package main", Version: 7}
	doc.Chat = append(doc.Chat, core.ChatMessage{ID: "m1", Message: "hi", Timestamp: time.Now()})
	if err := store.Save(ctx, doc); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	got, err := store.FindID(ctx, "s1")
	if err != nil {
		t.Fatalf("FindID() failed: %v", err)
	}
	if got.Surfaces[core.SurfaceCode].Version != 7 {
		t.Errorf("Surface state lost, got %+v", got.Surfaces)
	}
	if len(got.Chat) != 1 || got.Chat[0].Message != "hi" {
		t.Errorf("Chat history lost, got %+v", got.Chat)
	}
}

func TestSaveUpserts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	doc := core.NewSessionDocument("s1", "First", "owner", time.Now())
	if err := store.Save(ctx, doc); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	doc.Title = "Second"
	if err := store.Save(ctx, doc); err != nil {
		t.Fatalf("Second Save() failed: %v", err)
	}

	got, err := store.FindID(ctx, "s1")
	if err != nil {
		t.Fatalf("FindID() failed: %v", err)
	}
	if got.Title != "Second" {
		t.Errorf("Save must replace the stored row, got %q", got.Title)
	}
}

func TestCreateAssignsID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.Create(ctx, core.NewSessionDocument("", "", "owner", time.Now()))
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if id == "" {
		t.Fatal("Create() must assign an id")
	}
	if _, err := store.FindID(ctx, id); err != nil {
		t.Errorf("Created document must be retrievable: %v", err)
	}
}
