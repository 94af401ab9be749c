package session

// Server-to-client event names. Delivery scope for each is fixed: a
// handler either confirms to the whole room (including the actor),
// excludes the actor's own connection, or targets a single connection.
const (
	// target-only
	EventFullState           = "full-state"
	EventKickedNotice        = "kicked-notice"
	EventNotesUpdated        = "notes-updated"
	EventSharedNotesUpdated  = "shared-notes-updated"
	EventAuthorizationDenied = "authorization-denied"

	// confirm-include
	EventRosterUpdate  = "roster-update"
	EventTimerUpdate   = "timer-update"
	EventChatMessage   = "chat-message"
	EventProblemUpdate = "problem-update"
	EventTitleUpdate   = "title-update"

	// echo-exclude
	EventContentUpdate = "content-update"
	EventTyping        = "typing"
	EventStoppedTyping = "stopped-typing"
)

// Dispatcher fans events out to connected clients. RoomAll is the
// confirm-include mode, RoomExcept the echo-exclude mode, Direct the
// single-connection mode. Implementations must be safe for concurrent
// use; the hub calls them while holding a room lock.
type Dispatcher interface {
	RoomAll(roomID, event string, payload any)
	RoomExcept(roomID, exceptConnID, event string, payload any)
	Direct(connID, event string, payload any)
}
