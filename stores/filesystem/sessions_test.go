package filesystem

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Bharadwaj710/Collab-Tool/core"
)

func TestFindIDNotFound(t *testing.T) {
	store := NewStore(t.TempDir())

	_, err := store.FindID(context.Background(), "missing")
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSaveAndFindID(t *testing.T) {
	store := NewStore(t.TempDir())
	ctx := context.Background()

	doc := core.NewSessionDocument("s1", "Interview", "owner", time.Now())
	doc.Participants = append(doc.Participants, core.Participant{
		Identity:    core.Identity{Kind: core.IdentityGuest, ID: "amy"},
		DisplayName: "Amy",
		Role:        core.RoleCreator,
		Status:      core.StatusConnected,
		JoinedAt:    time.Now(),
	})
	if err := store.Save(ctx, doc); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	got, err := store.FindID(ctx, "s1")
	if err != nil {
		t.Fatalf("FindID() failed: %v", err)
	}
	if len(got.Participants) != 1 || got.Participants[0].DisplayName != "Amy" {
		t.Errorf("Roster lost in roundtrip, got %+v", got.Participants)
	}
	if got.Surfaces == nil {
		t.Error("Surfaces map must be initialized after load")
	}
}

func TestSaveOverwrites(t *testing.T) {
	store := NewStore(t.TempDir())
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
		t.Errorf("Save must overwrite the stored file, got %q", got.Title)
	}
}

func TestCreateAssignsID(t *testing.T) {
	store := NewStore(t.TempDir())
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
