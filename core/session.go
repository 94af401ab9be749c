package core

import (
	"time"
)

// Role is the closed set of participant roles. The creator role is
// assigned once when the session document is created and is never
// reassigned or removed afterwards.
type Role string

const (
	RoleCreator     Role = "creator"
	RoleInterviewer Role = "interviewer"
	RoleCandidate   Role = "candidate"
	RoleParticipant Role = "participant"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleCreator, RoleInterviewer, RoleCandidate, RoleParticipant:
		return true
	}
	return false
}

// Privileged reports whether r may perform session-control actions:
// role changes, kicks, timer transitions, problem statement and title
// edits, and shared notes.
func (r Role) Privileged() bool {
	return r == RoleCreator || r == RoleInterviewer
}

type ParticipantStatus string

const (
	StatusConnected    ParticipantStatus = "connected"
	StatusDisconnected ParticipantStatus = "disconnected"
)

// Participant is the durable per-identity record inside a session
// document. Presence (which connections are online right now) is kept
// separately, in memory only.
type Participant struct {
	Identity     Identity          `json:"identity" bson:"identity"`
	DisplayName  string            `json:"displayName" bson:"displayName"`
	Role         Role              `json:"role" bson:"role"`
	Status       ParticipantStatus `json:"status" bson:"status"`
	JoinedAt     time.Time         `json:"joinedAt" bson:"joinedAt"`
	PrivateNotes []Note            `json:"privateNotes" bson:"privateNotes"`
}

// ContentState is one independently versioned content surface. The
// version is a client-supplied watermark; the server only ever moves it
// forward (>=), it never merges.
type ContentState struct {
	Content    string   `json:"content" bson:"content"`
	Version    uint64   `json:"version" bson:"version"`
	LastEditor Identity `json:"lastEditor" bson:"lastEditor"`
}

// Well-known surface ids. Surface ids are free-form strings so a session
// generation can carry any subset; these are the ones the clients use.
const (
	SurfaceDiscussion = "discussion"
	SurfaceCode       = "code"
	SurfaceLegacy     = "content"
)

type ChatMessage struct {
	ID         string    `json:"id" bson:"id"`
	Sender     Identity  `json:"sender" bson:"sender"`
	SenderName string    `json:"senderName" bson:"senderName"`
	Message    string    `json:"message" bson:"message"`
	Timestamp  time.Time `json:"timestamp" bson:"timestamp"`
}

type Note struct {
	ID        string    `json:"id" bson:"id"`
	Author    Identity  `json:"author" bson:"author"`
	Text      string    `json:"text" bson:"text"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// SessionDocument is the whole durable aggregate for one room: roster,
// content surfaces, timer, chat, notes. Save always upserts the full
// aggregate.
type SessionDocument struct {
	ID               string                  `json:"id" bson:"_id"`
	Title            string                  `json:"title" bson:"title"`
	OwnerID          string                  `json:"ownerId" bson:"ownerId"`
	ProblemStatement string                  `json:"problemStatement" bson:"problemStatement"`
	Participants     []Participant           `json:"participants" bson:"participants"`
	Surfaces         map[string]ContentState `json:"surfaces" bson:"surfaces"`
	Timer            TimerState              `json:"timer" bson:"timer"`
	Chat             []ChatMessage           `json:"chat" bson:"chat"`
	SharedNotes      []Note                  `json:"sharedNotes" bson:"sharedNotes"`
	CreatedAt        time.Time               `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time               `json:"updatedAt" bson:"updatedAt"`
}

// NewSessionDocument builds a fresh aggregate owned by ownerID. The
// owner is not added to the roster here; the reconciler does that on
// first join so the creator rule lives in one place.
func NewSessionDocument(id, title, ownerID string, now time.Time) *SessionDocument {
	if title == "" {
		title = "Untitled Session"
	}
	return &SessionDocument{
		ID:        id,
		Title:     title,
		OwnerID:   ownerID,
		Surfaces:  make(map[string]ContentState),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// FindParticipant returns a pointer into the roster for the given
// identity, or nil.
func (d *SessionDocument) FindParticipant(id Identity) *Participant {
	for i := range d.Participants {
		if d.Participants[i].Identity.Equal(id) {
			return &d.Participants[i]
		}
	}
	return nil
}

// RemoveParticipant drops the roster entry for id and reports whether
// one was removed.
func (d *SessionDocument) RemoveParticipant(id Identity) bool {
	for i := range d.Participants {
		if d.Participants[i].Identity.Equal(id) {
			d.Participants = append(d.Participants[:i], d.Participants[i+1:]...)
			return true
		}
	}
	return false
}

// Clone deep-copies the aggregate so a persistence write can proceed
// outside the room lock while handlers keep mutating the original.
func (d *SessionDocument) Clone() *SessionDocument {
	out := *d
	out.Participants = make([]Participant, len(d.Participants))
	for i, p := range d.Participants {
		p.PrivateNotes = append([]Note(nil), p.PrivateNotes...)
		out.Participants[i] = p
	}
	out.Surfaces = make(map[string]ContentState, len(d.Surfaces))
	for k, v := range d.Surfaces {
		out.Surfaces[k] = v
	}
	out.Chat = append([]ChatMessage(nil), d.Chat...)
	out.SharedNotes = append([]Note(nil), d.SharedNotes...)
	return &out
}

// User is the registered-account record, owned by an external identity
// system; this core only reads it to refresh display names.
type User struct {
	ID       string `json:"id" bson:"_id"`
	Username string `json:"username" bson:"username"`
	Email    string `json:"email,omitempty" bson:"email,omitempty"`
}
