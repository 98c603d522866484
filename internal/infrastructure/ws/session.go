package ws

import (
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// sendBuffer frames may be queued per session before pushes get dropped.
	sendBuffer = 32
)

// session is one connected socket for one identified user.
type session struct {
	hub      *Hub
	conn     *websocket.Conn
	username string
	send     chan Event
}

func newSession(h *Hub, conn *websocket.Conn, username string) *session {
	return &session{
		hub:      h,
		conn:     conn,
		username: username,
		send:     make(chan Event, sendBuffer),
	}
}

// push queues an event without blocking the hub. Full buffers drop the frame;
// the client reconciles from the durable store on its next fetch.
func (s *session) push(ev Event) {
	select {
	case s.send <- ev:
	default:
		slog.Warn("dropping push for slow session", "user", s.username, "event", ev.Event)
	}
}

// readPump consumes inbound frames (joinChat/leaveChat) until the connection
// dies, then tears the session down.
func (s *session) readPump() {
	defer func() {
		s.hub.unregister(s)
		s.conn.Close()
	}()
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		var ev Event
		if err := s.conn.ReadJSON(&ev); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("session read error", "user", s.username, "err", err)
			}
			return
		}
		switch ev.Event {
		case EventJoinChat:
			s.hub.joinRoom(s, ev.ChatID)
		case EventLeaveChat:
			s.hub.leaveRoom(s, ev.ChatID)
		}
	}
}

// writePump serialises queued events onto the connection and keeps it alive
// with pings. Exits when the hub closes the send channel.
func (s *session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()
	for {
		select {
		case ev, ok := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
