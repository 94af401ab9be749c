package session

import (
	"context"
	"testing"
)

func TestControlTimerStartBroadcastsToEveryone(t *testing.T) {
	hub, _, dispatch := newTestHub(t)
	ctx := context.Background()

	hub.Join(ctx, "R1", "conn-amy", guest("amy"), "Amy")
	dispatch.reset()

	hub.ControlTimer(ctx, "R1", "conn-amy", guest("amy"), TimerStart, 600)

	updates := dispatch.ofEvent(EventTimerUpdate)
	if len(updates) != 1 {
		t.Fatalf("Expected 1 timer-update, got %d", len(updates))
	}
	if updates[0].Mode != "all" {
		t.Errorf("timer-update must include the sender, got mode %q", updates[0].Mode)
	}
	payload := updates[0].Payload.(timerPayload)
	if payload.Duration != 600 || payload.Remaining != 600 || !payload.IsRunning {
		t.Errorf("Unexpected timer payload: %+v", payload)
	}
}

func TestControlTimerRequiresPrivilege(t *testing.T) {
	hub, _, dispatch := newTestHub(t)
	ctx := context.Background()

	hub.Join(ctx, "R1", "conn-amy", guest("amy"), "Amy")
	hub.Join(ctx, "R1", "conn-ben", guest("ben"), "Ben")
	dispatch.reset()

	hub.ControlTimer(ctx, "R1", "conn-ben", guest("ben"), TimerStart, 600)

	if len(dispatch.ofEvent(EventTimerUpdate)) != 0 {
		t.Error("Unprivileged timer control must not broadcast")
	}
	denials := dispatch.ofEvent(EventAuthorizationDenied)
	if len(denials) != 1 {
		t.Fatalf("Expected 1 authorization-denied, got %d", len(denials))
	}
	if denials[0].Mode != "direct" || denials[0].ConnID != "conn-ben" {
		t.Errorf("Denial must go to the requester alone, got %+v", denials[0])
	}

	r := hub.lookup("R1")
	r.mu.Lock()
	running := r.doc.Timer.IsRunning
	r.mu.Unlock()
	if running {
		t.Error("Denied timer control must not mutate state")
	}
}

func TestControlTimerUnknownActionIsNoOp(t *testing.T) {
	hub, _, dispatch := newTestHub(t)
	ctx := context.Background()

	hub.Join(ctx, "R1", "conn-amy", guest("amy"), "Amy")
	dispatch.reset()

	hub.ControlTimer(ctx, "R1", "conn-amy", guest("amy"), "rewind", 600)

	if len(dispatch.ofEvent(EventTimerUpdate)) != 0 {
		t.Error("Unknown timer action must be dropped without a broadcast")
	}
}

func TestControlTimerPauseAndReset(t *testing.T) {
	hub, _, dispatch := newTestHub(t)
	ctx := context.Background()

	hub.Join(ctx, "R1", "conn-amy", guest("amy"), "Amy")
	hub.ControlTimer(ctx, "R1", "conn-amy", guest("amy"), TimerStart, 300)
	hub.ControlTimer(ctx, "R1", "conn-amy", guest("amy"), TimerPause, 0)

	e, ok := dispatch.last(EventTimerUpdate)
	if !ok {
		t.Fatal("No timer-update broadcast")
	}
	if payload := e.Payload.(timerPayload); payload.IsRunning {
		t.Error("Expected paused timer")
	}

	hub.ControlTimer(ctx, "R1", "conn-amy", guest("amy"), TimerReset, 0)
	e, _ = dispatch.last(EventTimerUpdate)
	payload := e.Payload.(timerPayload)
	if payload.IsRunning || payload.Remaining != 300 {
		t.Errorf("Reset must restore the full duration stopped, got %+v", payload)
	}
}

func TestUpdateProblemBroadcastsToEveryone(t *testing.T) {
	hub, store, dispatch := newTestHub(t)
	ctx := context.Background()

	hub.Join(ctx, "R1", "conn-amy", guest("amy"), "Amy")
	dispatch.reset()

	hub.UpdateProblem(ctx, "R1", "conn-amy", guest("amy"), "Reverse a linked list")

	e, ok := dispatch.last(EventProblemUpdate)
	if !ok {
		t.Fatal("No problem-update broadcast")
	}
	if e.Mode != "all" {
		t.Errorf("problem-update must include the sender, got mode %q", e.Mode)
	}
	if payload := e.Payload.(problemPayload); payload.ProblemStatement != "Reverse a linked list" {
		t.Errorf("Unexpected payload: %+v", payload)
	}

	waitFor(t, "problem persisted", func() bool {
		doc, err := store.FindID(ctx, "R1")
		return err == nil && doc.ProblemStatement == "Reverse a linked list"
	})
}

func TestUpdateTitleRequiresPrivilege(t *testing.T) {
	hub, _, dispatch := newTestHub(t)
	ctx := context.Background()

	hub.Join(ctx, "R1", "conn-amy", guest("amy"), "Amy")
	hub.Join(ctx, "R1", "conn-ben", guest("ben"), "Ben")
	dispatch.reset()

	hub.UpdateTitle(ctx, "R1", "conn-ben", guest("ben"), "Hijacked")

	if len(dispatch.ofEvent(EventTitleUpdate)) != 0 {
		t.Error("Unprivileged title change must not broadcast")
	}

	hub.UpdateTitle(ctx, "R1", "conn-amy", guest("amy"), "  Systems Interview  ")
	e, ok := dispatch.last(EventTitleUpdate)
	if !ok {
		t.Fatal("No title-update broadcast")
	}
	if payload := e.Payload.(titlePayload); payload.Title != "Systems Interview" {
		t.Errorf("Expected trimmed title, got %q", payload.Title)
	}
}
