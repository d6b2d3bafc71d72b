package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/qtrix/the-final-stake/internal/game"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type wsHub struct {
	mu      sync.Mutex
	writeMu sync.Mutex
	groups  map[string]map[*websocket.Conn]struct{}
}

type wsMessage struct {
	Type  string      `json:"type"`
	Game  *game.Game  `json:"game,omitempty"`
	Event *game.Event `json:"event,omitempty"`
}

func newWSHub() *wsHub {
	return &wsHub{
		groups: make(map[string]map[*websocket.Conn]struct{}),
	}
}

func (h *wsHub) Add(gameID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group := h.groups[gameID]
	if group == nil {
		group = make(map[*websocket.Conn]struct{})
		h.groups[gameID] = group
	}
	group[conn] = struct{}{}
}

func (h *wsHub) Remove(gameID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group := h.groups[gameID]
	if group == nil {
		return
	}
	delete(group, conn)
	_ = conn.Close()
	if len(group) == 0 {
		delete(h.groups, gameID)
	}
}

func (h *wsHub) Send(conn *websocket.Conn, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	_ = conn.WriteMessage(websocket.TextMessage, data)
}

func (h *wsHub) Broadcast(gameID string, payload any) {
	h.mu.Lock()
	group := h.groups[gameID]
	conns := make([]*websocket.Conn, 0, len(group))
	for conn := range group {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	h.writeMu.Lock()
	failed := make([]*websocket.Conn, 0)
	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			failed = append(failed, conn)
		}
	}
	h.writeMu.Unlock()
	for _, conn := range failed {
		h.Remove(gameID, conn)
	}
}

func (s *Server) handleWebsocket(c *gin.Context) {
	var uri gameURI
	if !bindURI(c, &uri) {
		return
	}
	g, exists := s.engine.Store().GetGame(uri.GameID)
	if !exists {
		c.Status(http.StatusNotFound)
		return
	}
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	key := gameKey(uri.GameID)
	log.Printf("ws connected game_id=%s remote=%s", key, c.Request.RemoteAddr)
	s.ws.Add(key, conn)
	s.ws.Send(conn, wsMessage{Type: "snapshot", Game: g})
	go s.readWS(key, conn)
}

func (s *Server) readWS(gameID string, conn *websocket.Conn) {
	defer s.ws.Remove(gameID, conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			log.Printf("ws disconnected game_id=%s error=%v", gameID, err)
			return
		}
	}
}

// broadcastChanges pushes committed events to the game's subscribers,
// followed by a fresh snapshot of every game the change set touched.
func (s *Server) broadcastChanges(changes *game.ChangeSet) {
	if s.ws == nil {
		return
	}
	for i := range changes.Events {
		event := changes.Events[i]
		if event.GameID == 0 {
			continue
		}
		s.ws.Broadcast(gameKey(event.GameID), wsMessage{Type: "event", Event: &event})
	}
	for _, g := range changes.Games {
		s.ws.Broadcast(gameKey(g.ID), wsMessage{Type: "snapshot", Game: g})
	}
}
