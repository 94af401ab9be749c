package websocket

import (
	"context"
	"regexp"
	"sync"

	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/zishang520/engine.io/v2/types"
	socketio "github.com/zishang520/socket.io/v2/socket"

	"github.com/Bharadwaj710/Collab-Tool/core"
	"github.com/Bharadwaj710/Collab-Tool/session"
)

type (
	joinPayload struct {
		RoomID      string `json:"roomId"`
		UserID      string `json:"userId"`
		DisplayName string `json:"displayName"`
	}

	contentEditPayload struct {
		SurfaceID string `json:"surfaceId"`
		Version   uint64 `json:"version"`
		Content   string `json:"content"`
	}

	timerControlPayload struct {
		Action   string `json:"action"`
		Duration int64  `json:"duration"`
	}

	roleChangePayload struct {
		TargetID string `json:"targetId"`
		NewRole  string `json:"newRole"`
	}

	kickPayload struct {
		TargetID string `json:"targetId"`
	}

	chatSendPayload struct {
		Message string `json:"message"`
	}

	noteAddPayload struct {
		Text   string `json:"text"`
		Shared bool   `json:"shared"`
	}

	noteDeletePayload struct {
		NoteID string `json:"noteId"`
		Shared bool   `json:"shared"`
	}

	problemUpdatePayload struct {
		ProblemStatement string `json:"problemStatement"`
	}

	titleChangePayload struct {
		Title string `json:"title"`
	}

	typingPayload struct {
		DisplayName string `json:"displayName"`
	}

	// clientState is what a connection resolved at join time. The
	// identity is parsed exactly once here; client-supplied requester
	// fields in later payloads are ignored in favor of it.
	clientState struct {
		roomID      string
		identity    core.Identity
		displayName string
	}
)

// Gateway maps socket.io connections onto the session hub and shields
// the process from handler panics.
type Gateway struct {
	hub      *session.Hub
	dispatch *ioDispatcher

	mu      sync.Mutex
	clients map[socketio.SocketId]*clientState
}

// SetupSocketIO builds the socket.io server, wires the dispatcher into
// the hub factory, and registers every inbound event. The hub is built
// by the caller-supplied factory so store wiring stays in main.
func SetupSocketIO(build func(session.Dispatcher) *session.Hub) (*socketio.Server, *session.Hub) {
	opts := socketio.DefaultServerOptions()
	opts.SetMaxHttpBufferSize(5000000)
	opts.SetPath("/socket.io")
	opts.SetAllowEIO3(true)
	localhostOrigin := regexp.MustCompile(`^https?://(localhost|127\.0\.0\.1|\[::1\])(:\d+)?$`)
	opts.SetCors(&types.Cors{
		Origin: []any{
			localhostOrigin,
		},
		Credentials: true,
	})
	srv := socketio.NewServer(nil, opts)

	dispatch := newIODispatcher(srv)
	gw := &Gateway{
		hub:      build(dispatch),
		dispatch: dispatch,
		clients:  make(map[socketio.SocketId]*clientState),
	}

	//nolint:errcheck // Socket.IO event handlers do not return useful errors
	srv.On("connection", func(clients ...any) {
		socket, ok := clients[0].(*socketio.Socket)
		if !ok {
			return
		}
		gw.handleConnection(socket)
	})

	return srv, gw.hub
}

func (g *Gateway) handleConnection(socket *socketio.Socket) {
	me := socket.Id()
	g.dispatch.register(socket)
	logrus.WithField("conn_id", me).Debug("Client connected")

	on := func(event string, fn func(datas []any)) {
		//nolint:errcheck // Socket.IO event handlers do not return useful errors
		socket.On(event, func(datas ...any) {
			// No inbound event may take the process down; a panic
			// degrades to a logged no-op for this handler invocation.
			defer func() {
				if rec := recover(); rec != nil {
					logrus.WithFields(logrus.Fields{
						"event":   event,
						"conn_id": me,
					}).Errorf("Handler panic recovered: %v", rec)
				}
			}()
			fn(datas)
		})
	}

	on("join", func(datas []any) {
		var p joinPayload
		if !decode(datas, &p) || p.RoomID == "" {
			return
		}
		identity, err := core.ParseIdentity(p.UserID)
		if err != nil {
			logrus.WithField("conn_id", me).Debug("Join without usable identity, skipping")
			return
		}

		// One room per connection: switching rooms drops the old
		// membership so this socket stops receiving its broadcasts.
		// The hub drains the old presence entry itself.
		if st := g.state(me); st != nil && st.roomID != p.RoomID {
			socket.Leave(socketio.Room(st.roomID))
		}

		socket.Join(socketio.Room(p.RoomID))
		g.setState(me, &clientState{roomID: p.RoomID, identity: identity, displayName: p.DisplayName})
		g.hub.Join(context.Background(), p.RoomID, string(me), identity, p.DisplayName)
	})

	on("content-edit", func(datas []any) {
		st := g.state(me)
		if st == nil {
			return
		}
		var p contentEditPayload
		if !decode(datas, &p) {
			return
		}
		g.hub.ApplyContent(context.Background(), st.roomID, string(me), p.SurfaceID, p.Version, p.Content, st.identity)
	})

	on("timer-control", func(datas []any) {
		st := g.state(me)
		if st == nil {
			return
		}
		var p timerControlPayload
		if !decode(datas, &p) {
			return
		}
		g.hub.ControlTimer(context.Background(), st.roomID, string(me), st.identity, p.Action, p.Duration)
	})

	on("role-change", func(datas []any) {
		st := g.state(me)
		if st == nil {
			return
		}
		var p roleChangePayload
		if !decode(datas, &p) {
			return
		}
		target, err := core.ParseIdentity(p.TargetID)
		if err != nil {
			return
		}
		g.hub.ChangeRole(context.Background(), st.roomID, string(me), st.identity, target, core.Role(p.NewRole))
	})

	on("kick", func(datas []any) {
		st := g.state(me)
		if st == nil {
			return
		}
		var p kickPayload
		if !decode(datas, &p) {
			return
		}
		target, err := core.ParseIdentity(p.TargetID)
		if err != nil {
			return
		}
		g.hub.Kick(context.Background(), st.roomID, string(me), st.identity, target)
	})

	on("chat-send", func(datas []any) {
		st := g.state(me)
		if st == nil {
			return
		}
		var p chatSendPayload
		if !decode(datas, &p) {
			return
		}
		g.hub.SendChat(context.Background(), st.roomID, st.identity, st.displayName, p.Message)
	})

	on("note-add", func(datas []any) {
		st := g.state(me)
		if st == nil {
			return
		}
		var p noteAddPayload
		if !decode(datas, &p) {
			return
		}
		g.hub.AddNote(context.Background(), st.roomID, string(me), st.identity, p.Text, p.Shared)
	})

	on("note-delete", func(datas []any) {
		st := g.state(me)
		if st == nil {
			return
		}
		var p noteDeletePayload
		if !decode(datas, &p) {
			return
		}
		g.hub.DeleteNote(context.Background(), st.roomID, string(me), st.identity, p.NoteID, p.Shared)
	})

	on("problem-update", func(datas []any) {
		st := g.state(me)
		if st == nil {
			return
		}
		var p problemUpdatePayload
		if !decode(datas, &p) {
			return
		}
		g.hub.UpdateProblem(context.Background(), st.roomID, string(me), st.identity, p.ProblemStatement)
	})

	on("title-change", func(datas []any) {
		st := g.state(me)
		if st == nil {
			return
		}
		var p titleChangePayload
		if !decode(datas, &p) {
			return
		}
		g.hub.UpdateTitle(context.Background(), st.roomID, string(me), st.identity, p.Title)
	})

	on("resync", func(datas []any) {
		st := g.state(me)
		if st == nil {
			return
		}
		g.hub.Resync(context.Background(), st.roomID, string(me), st.identity)
	})

	on("typing", func(datas []any) {
		g.relayTyping(me, session.EventTyping, datas)
	})

	on("stopped-typing", func(datas []any) {
		g.relayTyping(me, session.EventStoppedTyping, datas)
	})

	on("leave", func(datas []any) {
		st := g.state(me)
		if st == nil {
			return
		}
		socket.Leave(socketio.Room(st.roomID))
		g.clearState(me)
		g.hub.Leave(context.Background(), st.roomID, string(me))
	})

	on("disconnecting", func(datas []any) {
		st := g.state(me)
		if st == nil {
			return
		}
		g.clearState(me)
		g.hub.Leave(context.Background(), st.roomID, string(me))
	})

	on("disconnect", func(datas []any) {
		g.dispatch.unregister(me)
		g.clearState(me)
		socket.RemoveAllListeners("")
		socket.Disconnect(true)
	})
}

// relayTyping is pure fan-out; typing indicators touch no room state,
// so they bypass the hub and its locking entirely.
func (g *Gateway) relayTyping(me socketio.SocketId, event string, datas []any) {
	st := g.state(me)
	if st == nil {
		return
	}
	var p typingPayload
	if !decode(datas, &p) || p.DisplayName == "" {
		p.DisplayName = st.displayName
	}
	g.dispatch.RoomExcept(st.roomID, string(me), event, typingPayload{DisplayName: p.DisplayName})
}

func (g *Gateway) state(id socketio.SocketId) *clientState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.clients[id]
}

func (g *Gateway) setState(id socketio.SocketId, st *clientState) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.clients[id] = st
}

func (g *Gateway) clearState(id socketio.SocketId) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.clients, id)
}

// decode maps the first event argument onto a typed payload. Socket.IO
// hands arguments over as map[string]any; weak typing tolerates clients
// sending numbers as strings and vice versa.
func decode(datas []any, out any) bool {
	if len(datas) == 0 {
		return false
	}
	raw, ok := datas[0].(map[string]any)
	if !ok {
		return false
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return false
	}
	if err := dec.Decode(raw); err != nil {
		logrus.WithError(err).Debug("Malformed event payload, skipping")
		return false
	}
	return true
}
