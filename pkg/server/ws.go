package server

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// safeConn serializes writes; gorilla connections allow one concurrent writer.
type safeConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (s *safeConn) writeJSON(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(v)
}

type wsInbound struct {
	Message  string `json:"message"`
	Username string `json:"username"`
}

// handleWebSocket speaks the same chat contract as POST /api/chat over a
// persistent connection: one JSON request in, one JSON reply out.
func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("WebSocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	sc := &safeConn{conn: conn}
	ctx := c.Request.Context()

	for {
		var in wsInbound
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("WebSocket read failed", "error", err)
			}
			return
		}
		if in.Message == "" {
			sc.writeJSON(gin.H{"error": "message is required"})
			continue
		}

		username := in.Username
		if username == "" {
			username = "ws-user"
		}

		reply, err := s.engine.Respond(ctx, "ws", username, in.Message)
		if err != nil {
			sc.writeJSON(gin.H{"error": err.Error()})
			continue
		}
		sc.writeJSON(chatResponse{
			Response:  reply,
			Timestamp: time.Now().Format(time.RFC3339),
		})
	}
}
