package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"material-mastery/internal/game"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const liveWriteTimeout = 2 * time.Second

// leaderboardHub tracks clients of the live leaderboard feed. writeMu
// serialises frames because a connection supports one writer at a time.
// Each frame write gives up after writeTimeout.
type leaderboardHub struct {
	mu           sync.Mutex
	writeMu      sync.Mutex
	conns        map[*websocket.Conn]struct{}
	writeTimeout time.Duration
}

func newLeaderboardHub(writeTimeout time.Duration) *leaderboardHub {
	return &leaderboardHub{
		conns:        make(map[*websocket.Conn]struct{}),
		writeTimeout: writeTimeout,
	}
}

func (h *leaderboardHub) Add(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = struct{}{}
}

// Remove closes conn and reports whether it was still registered.
func (h *leaderboardHub) Remove(conn *websocket.Conn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.conns[conn]
	delete(h.conns, conn)
	_ = conn.Close()
	return ok
}

func (h *leaderboardHub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

func (h *leaderboardHub) Send(conn *websocket.Conn, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	return h.writeFrame(conn, data)
}

func (h *leaderboardHub) writeFrame(conn *websocket.Conn, data []byte) error {
	if err := conn.SetWriteDeadline(time.Now().Add(h.writeTimeout)); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}

// Broadcast sends payload to every client and returns the clients whose
// write failed.
func (h *leaderboardHub) Broadcast(payload any) []*websocket.Conn {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for conn := range h.conns {
		conns = append(conns, conn)
	}
	h.mu.Unlock()
	data, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	var failed []*websocket.Conn
	for _, conn := range conns {
		if err := h.writeFrame(conn, data); err != nil {
			failed = append(failed, conn)
		}
	}
	return failed
}

type leaderboardMessage struct {
	Type        string          `json:"type"`
	Leaderboard []game.Standing `json:"leaderboard"`
}

func (s *Server) broadcastLeaderboard(ctx context.Context) {
	if s.live.Len() == 0 {
		return
	}
	standings, err := s.engine.Leaderboard(ctx, nil)
	if err != nil {
		s.log.Warn("live leaderboard refresh failed", "error", err)
		return
	}
	for _, conn := range s.live.Broadcast(leaderboardMessage{Type: "leaderboard", Leaderboard: standings}) {
		s.dropLiveClient(conn)
	}
}

func (s *Server) dropLiveClient(conn *websocket.Conn) {
	if s.live.Remove(conn) {
		s.metrics.liveClients.Dec()
	}
}

func (s *Server) handleLeaderboardWebsocket(c *gin.Context) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	s.log.Info("ws connected", "feed", "leaderboards", "remote", c.Request.RemoteAddr)
	standings, err := s.engine.Leaderboard(c.Request.Context(), nil)
	if err != nil {
		s.log.Warn("live leaderboard snapshot failed", "error", err)
		_ = conn.Close()
		return
	}
	s.live.Add(conn)
	s.metrics.liveClients.Inc()
	if err := s.live.Send(conn, leaderboardMessage{Type: "leaderboard", Leaderboard: standings}); err != nil {
		s.dropLiveClient(conn)
		return
	}
	go s.readLive(conn)
}

// readLive drains client frames until the connection closes.
func (s *Server) readLive(conn *websocket.Conn) {
	defer s.dropLiveClient(conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
