package session

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/Bharadwaj710/Collab-Tool/core"
)

type notesPayload struct {
	Notes []core.Note `json:"notes"`
}

// SendChat appends to the room's shared chat log and confirms the
// message to everyone, sender included. The log is append-only; there
// is no edit, delete, or pagination.
func (h *Hub) SendChat(ctx context.Context, roomID string, sender core.Identity, senderName, text string) {
	text = strings.TrimSpace(text)
	if text == "" || sender.IsZero() {
		return
	}
	r := h.lookup(roomID)
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.doc == nil {
		return
	}

	msg := core.ChatMessage{
		ID:         ulid.Make().String(),
		Sender:     sender,
		SenderName: senderName,
		Message:    text,
		Timestamp:  h.now(),
	}
	r.doc.Chat = append(r.doc.Chat, msg)

	h.dispatch.RoomAll(roomID, EventChatMessage, msg)
	h.persist(r)
}

// AddNote appends a note. Private notes belong to the requester's own
// participant record and the result goes back to the requesting
// connection alone. Shared notes are privileged and fan out only to
// privileged connections that are online right now.
func (h *Hub) AddNote(ctx context.Context, roomID, connID string, requester core.Identity, text string, shared bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	r := h.lookup(roomID)
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.doc == nil {
		return
	}

	note := core.Note{
		ID:        uuid.NewString(),
		Author:    requester,
		Text:      text,
		Timestamp: h.now(),
	}

	if shared {
		if h.requirePrivilege(r, connID, requester, "note-add") == nil {
			return
		}
		r.doc.SharedNotes = append(r.doc.SharedNotes, note)
		h.persist(r)
		h.fanOutSharedNotes(r)
		return
	}

	p := r.doc.FindParticipant(requester)
	if p == nil {
		return
	}
	p.PrivateNotes = append(p.PrivateNotes, note)
	h.persist(r)
	h.dispatch.Direct(connID, EventNotesUpdated, notesPayload{Notes: copyNotes(p.PrivateNotes)})
}

// DeleteNote removes a note by id from the requester's private list, or
// from the shared list when shared is set (privileged only).
func (h *Hub) DeleteNote(ctx context.Context, roomID, connID string, requester core.Identity, noteID string, shared bool) {
	if noteID == "" {
		return
	}
	r := h.lookup(roomID)
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.doc == nil {
		return
	}

	if shared {
		if h.requirePrivilege(r, connID, requester, "note-delete") == nil {
			return
		}
		if !removeNote(&r.doc.SharedNotes, noteID) {
			return
		}
		h.persist(r)
		h.fanOutSharedNotes(r)
		return
	}

	p := r.doc.FindParticipant(requester)
	if p == nil {
		return
	}
	if !removeNote(&p.PrivateNotes, noteID) {
		return
	}
	h.persist(r)
	h.dispatch.Direct(connID, EventNotesUpdated, notesPayload{Notes: copyNotes(p.PrivateNotes)})
}

// fanOutSharedNotes delivers the shared note list to every online
// connection whose participant holds a privileged role. Called with
// r.mu held.
func (h *Hub) fanOutSharedNotes(r *Room) {
	payload := notesPayload{Notes: copyNotes(r.doc.SharedNotes)}
	for cid, entry := range r.online {
		if p := r.doc.FindParticipant(entry.Identity); p != nil && p.Role.Privileged() {
			h.dispatch.Direct(cid, EventSharedNotesUpdated, payload)
		}
	}
}

// copyNotes detaches a payload from the aggregate's backing array;
// removeNote shifts elements in place, which would otherwise rewrite
// payloads already handed to the dispatcher.
func copyNotes(notes []core.Note) []core.Note {
	return append([]core.Note(nil), notes...)
}

func removeNote(notes *[]core.Note, id string) bool {
	for i := range *notes {
		if (*notes)[i].ID == id {
			*notes = append((*notes)[:i], (*notes)[i+1:]...)
			return true
		}
	}
	return false
}
