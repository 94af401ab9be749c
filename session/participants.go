package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Bharadwaj710/Collab-Tool/core"
)

// RosterEntry is the durable roster annotated with live presence.
type RosterEntry struct {
	Identity    core.Identity          `json:"identity"`
	DisplayName string                 `json:"displayName"`
	Role        core.Role              `json:"role"`
	Status      core.ParticipantStatus `json:"status"`
	IsOnline    bool                   `json:"isOnline"`
	JoinedAt    time.Time              `json:"joinedAt"`
}

type rosterPayload struct {
	RoomID       string        `json:"roomId"`
	Participants []RosterEntry `json:"participants"`
}

type kickedPayload struct {
	RoomID string `json:"roomId"`
}

// Join reconciles the durable roster with this connection's presence and
// delivers the full-state snapshot to the joining connection. The first
// joiner of a room without a stored document becomes its owner. A
// connection occupies one room at a time: joining another room first
// leaves the current one.
func (h *Hub) Join(ctx context.Context, roomID, connID string, identity core.Identity, nameHint string) {
	if roomID == "" || connID == "" || identity.IsZero() {
		return
	}

	h.mu.Lock()
	prev := h.conns[connID]
	h.mu.Unlock()
	if prev != "" && prev != roomID {
		h.Leave(ctx, prev, connID)
	}
	h.mu.Lock()
	h.conns[connID] = roomID
	h.mu.Unlock()

	r := h.room(roomID)
	r.mu.Lock()
	defer r.mu.Unlock()

	log := logrus.WithFields(logrus.Fields{
		"room_id":  roomID,
		"identity": identity.String(),
	})

	if r.doc == nil {
		doc, err := h.store.FindID(ctx, roomID)
		switch {
		case err == nil:
			r.doc = doc
		case errors.Is(err, core.ErrNotFound):
			log.Info("No session document, starting ad-hoc room")
			r.doc = core.NewSessionDocument(roomID, "", identity.ID, h.now())
		default:
			log.WithError(err).Warn("Session load failed, serving ad-hoc state")
			r.doc = core.NewSessionDocument(roomID, "", identity.ID, h.now())
			r.dirty = true
		}
	}

	name := strings.TrimSpace(nameHint)
	if name == "" {
		name = "Anonymous"
	}

	changed := false
	p := r.doc.FindParticipant(identity)
	if p == nil {
		role := core.RoleParticipant
		if identity.ID == r.doc.OwnerID && findCreator(r.doc) == nil {
			role = core.RoleCreator
		}
		r.doc.Participants = append(r.doc.Participants, core.Participant{
			Identity:    identity,
			DisplayName: name,
			Role:        role,
			Status:      core.StatusConnected,
			JoinedAt:    h.now(),
		})
		p = &r.doc.Participants[len(r.doc.Participants)-1]
		changed = true
		log.WithField("role", role).Info("Participant joined roster")
	} else {
		// The user store is authoritative over cached creator names;
		// parallel sessions may hold stale copies.
		if p.Role == core.RoleCreator && identity.Kind == core.IdentityUser && h.users != nil {
			if u, err := h.users.FindID(ctx, identity.ID); err == nil && u.Username != "" && u.Username != p.DisplayName {
				p.DisplayName = u.Username
				changed = true
			}
		}
		if p.Status != core.StatusConnected {
			p.Status = core.StatusConnected
			changed = true
		}
	}

	// One presence entry per identity: a rejoin from a new tab replaces
	// any earlier connection's entry.
	for cid, entry := range r.online {
		if cid != connID && entry.Identity.Equal(identity) {
			delete(r.online, cid)
		}
	}
	r.online[connID] = PresenceEntry{ConnID: connID, Identity: identity, DisplayName: p.DisplayName}

	if changed {
		h.persist(r)
	}
	h.dispatch.RoomAll(roomID, EventRosterUpdate, h.roster(r))
	h.sendSnapshot(r, connID, identity)
	h.touch(roomID)
}

// Leave drops the connection's presence entry and, when no other
// connection attests the identity online, flips the durable participant
// to disconnected. The room itself is never removed.
func (h *Hub) Leave(ctx context.Context, roomID, connID string) {
	h.mu.Lock()
	if h.conns[connID] == roomID {
		delete(h.conns, connID)
	}
	h.mu.Unlock()

	r := h.lookup(roomID)
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.online[connID]
	if !ok {
		return
	}
	delete(r.online, connID)

	stillOnline := false
	for _, other := range r.online {
		if other.Identity.Equal(entry.Identity) {
			stillOnline = true
			break
		}
	}
	if !stillOnline && r.doc != nil {
		if p := r.doc.FindParticipant(entry.Identity); p != nil && p.Status != core.StatusDisconnected {
			p.Status = core.StatusDisconnected
			h.persist(r)
		}
	}

	h.dispatch.RoomAll(roomID, EventRosterUpdate, h.roster(r))
	h.touch(roomID)
}

// ChangeRole reassigns a participant's role. The creator can neither be
// retargeted nor minted: creator is assigned once at document creation.
func (h *Hub) ChangeRole(ctx context.Context, roomID, connID string, requester, target core.Identity, newRole core.Role) {
	r := h.lookup(roomID)
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if h.requirePrivilege(r, connID, requester, "role-change") == nil {
		return
	}
	if !core.ValidRole(newRole) || target.IsZero() {
		return
	}
	if newRole == core.RoleCreator {
		h.deny(connID, "role-change", "creator role cannot be assigned")
		return
	}
	tp := r.doc.FindParticipant(target)
	if tp == nil {
		return
	}
	if tp.Role == core.RoleCreator {
		h.deny(connID, "role-change", "creator role cannot be changed")
		return
	}

	tp.Role = newRole
	h.persist(r)
	h.dispatch.RoomAll(roomID, EventRosterUpdate, h.roster(r))
}

// Kick removes a non-creator participant from the durable roster,
// notifies their live connections, then broadcasts the shrunken roster.
func (h *Hub) Kick(ctx context.Context, roomID, connID string, requester, target core.Identity) {
	r := h.lookup(roomID)
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if h.requirePrivilege(r, connID, requester, "kick") == nil {
		return
	}
	tp := r.doc.FindParticipant(target)
	if tp == nil {
		return
	}
	if tp.Role == core.RoleCreator {
		h.deny(connID, "kick", "the session creator cannot be removed")
		return
	}

	r.doc.RemoveParticipant(target)
	for cid, entry := range r.online {
		if entry.Identity.Equal(target) {
			delete(r.online, cid)
			h.dispatch.Direct(cid, EventKickedNotice, kickedPayload{RoomID: roomID})
		}
	}
	h.persist(r)
	h.dispatch.RoomAll(roomID, EventRosterUpdate, h.roster(r))

	logrus.WithFields(logrus.Fields{
		"room_id": roomID,
		"target":  target.String(),
	}).Info("Participant kicked")
}

// roster builds the canonical roster payload. Called with r.mu held.
func (h *Hub) roster(r *Room) rosterPayload {
	online := make(map[string]bool, len(r.online))
	for _, entry := range r.online {
		online[entry.Identity.String()] = true
	}

	entries := make([]RosterEntry, 0, len(r.doc.Participants))
	for _, p := range r.doc.Participants {
		entries = append(entries, RosterEntry{
			Identity:    p.Identity,
			DisplayName: p.DisplayName,
			Role:        p.Role,
			Status:      p.Status,
			IsOnline:    online[p.Identity.String()],
			JoinedAt:    p.JoinedAt,
		})
	}
	return rosterPayload{RoomID: r.ID, Participants: entries}
}

func findCreator(doc *core.SessionDocument) *core.Participant {
	for i := range doc.Participants {
		if doc.Participants[i].Role == core.RoleCreator {
			return &doc.Participants[i]
		}
	}
	return nil
}
