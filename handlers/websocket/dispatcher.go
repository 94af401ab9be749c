package websocket

import (
	"sync"

	socketio "github.com/zishang520/socket.io/v2/socket"
)

// ioDispatcher implements session.Dispatcher over a socket.io server.
// Confirm-include uses the server-side room operator; echo-exclude goes
// through the sender's own Broadcast() operator; targeted delivery uses
// the implicit per-socket room every connection sits in.
type ioDispatcher struct {
	srv *socketio.Server

	mu      sync.RWMutex
	sockets map[string]*socketio.Socket
}

func newIODispatcher(srv *socketio.Server) *ioDispatcher {
	return &ioDispatcher{
		srv:     srv,
		sockets: make(map[string]*socketio.Socket),
	}
}

func (d *ioDispatcher) register(socket *socketio.Socket) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sockets[string(socket.Id())] = socket
}

func (d *ioDispatcher) unregister(id socketio.SocketId) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.sockets, string(id))
}

func (d *ioDispatcher) RoomAll(roomID, event string, payload any) {
	_ = d.srv.In(socketio.Room(roomID)).Emit(event, payload)
}

func (d *ioDispatcher) RoomExcept(roomID, exceptConnID, event string, payload any) {
	d.mu.RLock()
	socket := d.sockets[exceptConnID]
	d.mu.RUnlock()

	if socket == nil {
		// Sender already gone; everyone left in the room is "everyone
		// except the sender".
		d.RoomAll(roomID, event, payload)
		return
	}
	_ = socket.Broadcast().To(socketio.Room(roomID)).Emit(event, payload)
}

func (d *ioDispatcher) Direct(connID, event string, payload any) {
	_ = d.srv.To(socketio.Room(connID)).Emit(event, payload)
}
