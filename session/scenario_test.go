package session

import (
	"context"
	"testing"

	"github.com/Bharadwaj710/Collab-Tool/core"
)

// Exercises a full interview flow: a guest opens an ad-hoc room, a second
// guest joins, gets promoted to interviewer, and the promotion immediately
// unlocks timer control for them.
func TestInterviewFlowPromotionUnlocksTimer(t *testing.T) {
	hub, store, dispatch := newTestHub(t)
	ctx := context.Background()

	hub.Join(ctx, "interview-7", "conn-amy", guest("amy"), "Amy")
	hub.Join(ctx, "interview-7", "conn-ben", guest("ben"), "Ben")

	// Ben cannot drive the timer yet.
	dispatch.reset()
	hub.ControlTimer(ctx, "interview-7", "conn-ben", guest("ben"), TimerStart, 300)
	if len(dispatch.ofEvent(EventTimerUpdate)) != 0 {
		t.Fatal("Participant must not control the timer")
	}

	hub.ChangeRole(ctx, "interview-7", "conn-amy", guest("amy"), guest("ben"), core.RoleInterviewer)

	dispatch.reset()
	hub.ControlTimer(ctx, "interview-7", "conn-ben", guest("ben"), TimerStart, 300)

	updates := dispatch.ofEvent(EventTimerUpdate)
	if len(updates) != 1 {
		t.Fatalf("Expected the promoted interviewer to start the timer, got %d updates", len(updates))
	}
	if updates[0].Mode != "all" {
		t.Errorf("timer-update must reach everyone, sender included, got mode %q", updates[0].Mode)
	}
	payload := updates[0].Payload.(timerPayload)
	if payload.Duration != 300 || payload.Remaining != 300 || !payload.IsRunning {
		t.Errorf("Unexpected timer payload: %+v", payload)
	}

	waitFor(t, "timer state persisted", func() bool {
		doc, err := store.FindID(ctx, "interview-7")
		return err == nil && doc.Timer.IsRunning && doc.Timer.Duration == 300
	})
}

// A rejoin after a dropped connection must land the participant back in
// the same durable seat with the full room state replayed.
func TestReconnectReplaysState(t *testing.T) {
	hub, _, dispatch := newTestHub(t)
	ctx := context.Background()

	hub.Join(ctx, "R1", "conn-1", guest("amy"), "Amy")
	hub.ApplyContent(ctx, "R1", "conn-1", core.SurfaceCode, 4, "draft v4", guest("amy"))
	hub.SendChat(ctx, "R1", guest("amy"), "Amy", "brb")
	hub.AddNote(ctx, "R1", "conn-1", guest("amy"), "remember edge cases", false)
	hub.Leave(ctx, "R1", "conn-1")

	dispatch.reset()
	hub.Join(ctx, "R1", "conn-2", guest("amy"), "Amy")

	e, ok := dispatch.last(EventFullState)
	if !ok {
		t.Fatal("No full-state on rejoin")
	}
	if e.ConnID != "conn-2" {
		t.Errorf("Snapshot must target the new connection, got %q", e.ConnID)
	}
	payload := e.Payload.(snapshotPayload)
	if payload.Surfaces[core.SurfaceCode].Content != "draft v4" {
		t.Errorf("Snapshot must carry the committed surface, got %+v", payload.Surfaces)
	}
	if payload.Surfaces[core.SurfaceCode].Version != 4 {
		t.Errorf("Snapshot must carry the watermark, got %d", payload.Surfaces[core.SurfaceCode].Version)
	}
	if len(payload.ChatHistory) != 1 || payload.ChatHistory[0].Message != "brb" {
		t.Errorf("Snapshot must replay chat history, got %+v", payload.ChatHistory)
	}
	if len(payload.PrivateNotes) != 1 || payload.PrivateNotes[0].Text != "remember edge cases" {
		t.Errorf("Snapshot must replay the viewer's own private notes, got %+v", payload.PrivateNotes)
	}

	entry := findEntry(rosterOf(t, dispatch), guest("amy"))
	if entry == nil || entry.Role != core.RoleCreator {
		t.Error("Rejoin must land in the same durable seat with the creator role")
	}
}

// Snapshot shared notes are role-gated: privileged viewers see them,
// plain participants do not.
func TestSnapshotSharedNotesAreRoleGated(t *testing.T) {
	hub, _, dispatch := newTestHub(t)
	ctx := context.Background()

	hub.Join(ctx, "R1", "conn-amy", guest("amy"), "Amy")
	hub.Join(ctx, "R1", "conn-ben", guest("ben"), "Ben")
	hub.AddNote(ctx, "R1", "conn-amy", guest("amy"), "panel consensus", true)

	dispatch.reset()
	hub.Resync(ctx, "R1", "conn-amy", guest("amy"))
	e, _ := dispatch.last(EventFullState)
	if payload := e.Payload.(snapshotPayload); len(payload.SharedNotes) != 1 {
		t.Error("Privileged viewer must see shared notes in the snapshot")
	}

	dispatch.reset()
	hub.Resync(ctx, "R1", "conn-ben", guest("ben"))
	e, _ = dispatch.last(EventFullState)
	if payload := e.Payload.(snapshotPayload); len(payload.SharedNotes) != 0 {
		t.Error("Plain participant must not see shared notes in the snapshot")
	}
}
