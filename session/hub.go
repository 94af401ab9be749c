package session

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Bharadwaj710/Collab-Tool/core"
)

// PresenceEntry is the ephemeral record of one live connection inside a
// room. Durable participant state lives in the session document.
type PresenceEntry struct {
	ConnID      string        `json:"connId"`
	Identity    core.Identity `json:"identity"`
	DisplayName string        `json:"displayName"`
}

// Room is the live, process-local state for one session: the cached
// aggregate, the presence set, and the persistence dirty flag. Every
// mutating operation serializes on mu for the whole logical operation,
// store calls included, so two interleaved handlers can never race a
// read-modify-write on the same room.
type Room struct {
	mu sync.Mutex

	ID     string
	doc    *core.SessionDocument
	online map[string]PresenceEntry

	// dirty marks in-memory state that is ahead of the durable store.
	// saveSeq pairs each async save with the state it captured so a slow
	// save cannot clear dirtiness introduced after it.
	dirty   bool
	saveSeq uint64
}

// Hub owns the room table and implements every inbound operation of the
// sync engine. Rooms are created lazily on first join and never evicted,
// even when the last participant leaves.
type Hub struct {
	store    core.DocumentStore
	users    core.UserStore
	activity core.ActivityRegistry
	dispatch Dispatcher
	now      func() time.Time

	mu    sync.Mutex
	rooms map[string]*Room
	// conns maps a connection to the one room it currently occupies, so a
	// join for another room can first drain its old presence.
	conns map[string]string
}

// New builds a hub. users and activity may be nil; display-name refresh
// and room listing degrade to no-ops without them.
func New(store core.DocumentStore, users core.UserStore, activity core.ActivityRegistry, dispatch Dispatcher) *Hub {
	return &Hub{
		store:    store,
		users:    users,
		activity: activity,
		dispatch: dispatch,
		now:      time.Now,
		rooms:    make(map[string]*Room),
		conns:    make(map[string]string),
	}
}

// room returns the live room for id, creating an empty shell if absent.
// The aggregate itself is loaded under the room lock by the first join.
func (h *Hub) room(id string) *Room {
	h.mu.Lock()
	defer h.mu.Unlock()

	r, ok := h.rooms[id]
	if !ok {
		r = &Room{ID: id, online: make(map[string]PresenceEntry)}
		h.rooms[id] = r
	}
	return r
}

// lookup returns the live room for id without creating one.
func (h *Hub) lookup(id string) *Room {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.rooms[id]
}

// ActiveRooms reports the number of live connections per room with at
// least one connection.
func (h *Hub) ActiveRooms() map[string]int {
	h.mu.Lock()
	rooms := make([]*Room, 0, len(h.rooms))
	for _, r := range h.rooms {
		rooms = append(rooms, r)
	}
	h.mu.Unlock()

	counts := make(map[string]int)
	for _, r := range rooms {
		r.mu.Lock()
		if n := len(r.online); n > 0 {
			counts[r.ID] = n
		}
		r.mu.Unlock()
	}
	return counts
}

// persist schedules a non-blocking write of the room's aggregate. Called
// with r.mu held. A failed write only logs; the in-memory aggregate
// stays authoritative and the room stays dirty until a later write
// succeeds.
func (h *Hub) persist(r *Room) {
	r.dirty = true
	r.saveSeq++
	seq := r.saveSeq
	r.doc.UpdatedAt = h.now()
	snapshot := r.doc.Clone()

	go func() {
		if err := h.store.Save(context.Background(), snapshot); err != nil {
			logrus.WithError(err).WithField("room_id", r.ID).Warn("Session save failed, room stays dirty")
			return
		}
		r.mu.Lock()
		if r.saveSeq == seq {
			r.dirty = false
		}
		r.mu.Unlock()
	}()
}

// touch records room activity for the listing endpoint, best effort.
func (h *Hub) touch(roomID string) {
	if h.activity == nil {
		return
	}
	at := h.now()
	go func() {
		if err := h.activity.Touch(context.Background(), roomID, at); err != nil {
			logrus.WithError(err).WithField("room_id", roomID).Debug("Room activity touch failed")
		}
	}()
}

type deniedPayload struct {
	Action string `json:"action"`
	Reason string `json:"reason"`
}

func (h *Hub) deny(connID, action, reason string) {
	logrus.WithFields(logrus.Fields{
		"conn_id": connID,
		"action":  action,
		"reason":  reason,
	}).Info("Authorization denied")
	h.dispatch.Direct(connID, EventAuthorizationDenied, deniedPayload{Action: action, Reason: reason})
}

// requirePrivilege resolves the requester against the durable roster and
// checks for a privileged role. On failure the requester alone receives
// an authorization-denied response and nil is returned. Called with
// r.mu held.
func (h *Hub) requirePrivilege(r *Room, connID string, requester core.Identity, action string) *core.Participant {
	if requester.IsZero() || r.doc == nil {
		h.deny(connID, action, "identity not resolved")
		return nil
	}
	p := r.doc.FindParticipant(requester)
	if p == nil || !p.Role.Privileged() {
		h.deny(connID, action, "requires a privileged role")
		return nil
	}
	return p
}
