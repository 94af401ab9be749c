package session

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Bharadwaj710/Collab-Tool/core"
)

// Timer control actions.
const (
	TimerStart = "start"
	TimerPause = "pause"
	TimerReset = "reset"
)

type timerPayload struct {
	Duration      int64     `json:"duration"`
	Remaining     int64     `json:"remaining"`
	IsRunning     bool      `json:"isRunning"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

type problemPayload struct {
	ProblemStatement string `json:"problemStatement"`
}

type titlePayload struct {
	Title string `json:"title"`
}

// ControlTimer applies a start/pause/reset transition and re-anchors
// every observer with the stored timer state. Privileged only.
func (h *Hub) ControlTimer(ctx context.Context, roomID, connID string, requester core.Identity, action string, duration int64) {
	r := h.lookup(roomID)
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if h.requirePrivilege(r, connID, requester, "timer-control") == nil {
		return
	}

	now := h.now()
	switch action {
	case TimerStart:
		r.doc.Timer.Start(duration, now)
	case TimerPause:
		r.doc.Timer.Pause(now)
	case TimerReset:
		r.doc.Timer.Reset(now)
	default:
		return
	}

	logrus.WithFields(logrus.Fields{
		"room_id": roomID,
		"action":  action,
	}).Info("Timer transition")

	h.dispatch.RoomAll(roomID, EventTimerUpdate, timerPayload{
		Duration:      r.doc.Timer.Duration,
		Remaining:     r.doc.Timer.Remaining,
		IsRunning:     r.doc.Timer.IsRunning,
		LastUpdatedAt: r.doc.Timer.LastUpdatedAt,
	})
	h.persist(r)
}

// UpdateProblem replaces the shared problem statement. Privileged only.
func (h *Hub) UpdateProblem(ctx context.Context, roomID, connID string, requester core.Identity, text string) {
	r := h.lookup(roomID)
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if h.requirePrivilege(r, connID, requester, "problem-update") == nil {
		return
	}

	r.doc.ProblemStatement = text
	h.dispatch.RoomAll(roomID, EventProblemUpdate, problemPayload{ProblemStatement: text})
	h.persist(r)
}

// UpdateTitle renames the session. Privileged only; the new title is
// confirmed to everyone, sender included.
func (h *Hub) UpdateTitle(ctx context.Context, roomID, connID string, requester core.Identity, title string) {
	title = strings.TrimSpace(title)
	if title == "" {
		return
	}
	r := h.lookup(roomID)
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if h.requirePrivilege(r, connID, requester, "title-change") == nil {
		return
	}

	r.doc.Title = title
	h.dispatch.RoomAll(roomID, EventTitleUpdate, titlePayload{Title: title})
	h.persist(r)
}
