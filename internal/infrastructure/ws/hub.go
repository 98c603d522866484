package ws

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/anthonyadade/FakeStack/internal/domain"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients connect cross-origin from the web app; the handshake
	// accepts any origin and CORS policy stays with the HTTP router.
	CheckOrigin: func(*http.Request) bool { return true },
}

// Hub tracks connected sessions by identity and by joined chat room and
// pushes events to them. Notification events go only to the recipient's
// sessions, chat updates only to sessions that joined the chat's room, and
// message updates to everyone. Pushes are fire-and-forget: a session that
// cannot keep up has frames dropped, and if nobody is connected the push is
// lost. The durable record is the only guaranteed residue.
type Hub struct {
	mu       sync.RWMutex
	sessions map[*session]struct{}
	byUser   map[string]map[*session]struct{}
	rooms    map[string]map[*session]struct{}
}

func NewHub() *Hub {
	return &Hub{
		sessions: make(map[*session]struct{}),
		byUser:   make(map[string]map[*session]struct{}),
		rooms:    make(map[string]map[*session]struct{}),
	}
}

// ServeWS upgrades an HTTP request into a socket session. The connecting
// user identifies through the username query parameter.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		http.Error(w, "username is required", http.StatusBadRequest)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "err", err)
		return
	}
	s := newSession(h, conn, username)
	h.register(s)
	go s.writePump()
	go s.readPump()
}

// NotificationCreated pushes a freshly saved notification to every session
// of its recipient.
func (h *Hub) NotificationCreated(n *domain.DatabaseNotification) {
	h.toUser(n.NotiTo, Event{Event: EventNotificationCreate, Notification: n})
}

// NotificationUpdated pushes an updated notification to every session of its
// recipient so all of that user's sessions converge.
func (h *Hub) NotificationUpdated(n *domain.DatabaseNotification) {
	h.toUser(n.NotiTo, Event{Event: EventNotificationUpdate, Notification: n})
}

// MessageUpdated pushes a new or changed global message to every session.
func (h *Hub) MessageUpdated(m *domain.DatabaseMessage) {
	h.broadcast(Event{Event: EventMessageUpdate, Msg: m})
}

// ChatUpdated pushes a chat change to the sessions that joined the chat's
// room. updateType is one of the domain.ChatUpdate* subtypes.
func (h *Hub) ChatUpdated(c *domain.Chat, updateType string) {
	h.toRoom(c.ChatID, Event{Event: EventChatUpdate, Chat: c, Type: updateType})
}

// Stats is a point-in-time view of hub occupancy.
type Stats struct {
	Sessions int `json:"sessions"`
	Rooms    int `json:"rooms"`
}

func (h *Hub) Stats() Stats {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return Stats{Sessions: len(h.sessions), Rooms: len(h.rooms)}
}

// UserSessions reports how many sessions username currently has connected.
func (h *Hub) UserSessions(username string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byUser[username])
}

// RoomSessions reports how many sessions joined the given chat room.
func (h *Hub) RoomSessions(chatID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[chatID])
}

func (h *Hub) register(s *session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions[s] = struct{}{}
	if h.byUser[s.username] == nil {
		h.byUser[s.username] = make(map[*session]struct{})
	}
	h.byUser[s.username][s] = struct{}{}
}

func (h *Hub) unregister(s *session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.sessions[s]; !ok {
		return
	}
	delete(h.sessions, s)
	delete(h.byUser[s.username], s)
	if len(h.byUser[s.username]) == 0 {
		delete(h.byUser, s.username)
	}
	for chatID, members := range h.rooms {
		delete(members, s)
		if len(members) == 0 {
			delete(h.rooms, chatID)
		}
	}
	close(s.send)
}

func (h *Hub) joinRoom(s *session, chatID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.sessions[s]; !ok {
		return
	}
	if h.rooms[chatID] == nil {
		h.rooms[chatID] = make(map[*session]struct{})
	}
	h.rooms[chatID][s] = struct{}{}
}

func (h *Hub) leaveRoom(s *session, chatID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.rooms[chatID], s)
	if len(h.rooms[chatID]) == 0 {
		delete(h.rooms, chatID)
	}
}

func (h *Hub) toUser(username string, ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.byUser[username] {
		s.push(ev)
	}
}

func (h *Hub) toRoom(chatID string, ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.rooms[chatID] {
		s.push(ev)
	}
}

func (h *Hub) broadcast(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.sessions {
		s.push(ev)
	}
}
