package session

import (
	"context"

	"github.com/Bharadwaj710/Collab-Tool/core"
)

type snapshotSurface struct {
	Content string `json:"content"`
	Version uint64 `json:"version"`
}

type snapshotPayload struct {
	RoomID           string                     `json:"roomId"`
	Title            string                     `json:"title"`
	OwnerID          string                     `json:"ownerId"`
	ProblemStatement string                     `json:"problemStatement"`
	Surfaces         map[string]snapshotSurface `json:"surfaces"`
	Timer            timerPayload               `json:"timer"`
	ChatHistory      []core.ChatMessage         `json:"chatHistory"`
	PrivateNotes     []core.Note                `json:"privateNotes"`
	SharedNotes      []core.Note                `json:"sharedNotes,omitempty"`
}

// Resync re-delivers the full-state snapshot to one connection on
// explicit request.
func (h *Hub) Resync(ctx context.Context, roomID, connID string, viewer core.Identity) {
	r := h.lookup(roomID)
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.doc == nil {
		return
	}
	h.sendSnapshot(r, connID, viewer)
}

// sendSnapshot assembles the consolidated room state for one viewer and
// delivers it to their connection alone. The timer field carries the
// effective remaining value so the client can start its local countdown
// from the right anchor. Called with r.mu held.
func (h *Hub) sendSnapshot(r *Room, connID string, viewer core.Identity) {
	doc := r.doc
	surfaces := make(map[string]snapshotSurface, len(doc.Surfaces))
	for id, s := range doc.Surfaces {
		surfaces[id] = snapshotSurface{Content: s.Content, Version: s.Version}
	}

	payload := snapshotPayload{
		RoomID:           r.ID,
		Title:            doc.Title,
		OwnerID:          doc.OwnerID,
		ProblemStatement: doc.ProblemStatement,
		Surfaces:         surfaces,
		Timer: timerPayload{
			Duration:      doc.Timer.Duration,
			Remaining:     doc.Timer.Effective(h.now()),
			IsRunning:     doc.Timer.IsRunning,
			LastUpdatedAt: doc.Timer.LastUpdatedAt,
		},
		// Copied so later mutations of the aggregate cannot reach into a
		// payload already handed to the dispatcher.
		ChatHistory: append([]core.ChatMessage(nil), doc.Chat...),
	}

	if p := doc.FindParticipant(viewer); p != nil {
		payload.PrivateNotes = append([]core.Note(nil), p.PrivateNotes...)
		if p.Role.Privileged() {
			payload.SharedNotes = append([]core.Note(nil), doc.SharedNotes...)
		}
	}

	h.dispatch.Direct(connID, EventFullState, payload)
}
