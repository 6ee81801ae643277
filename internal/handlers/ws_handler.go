package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/nossoespaco/server/internal/services"
	jwtutil "github.com/nossoespaco/server/pkg/jwt"
	"github.com/nossoespaco/server/pkg/logger"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsClientMessage is the only message shape clients send: the set of
// collections they want change events for.
type wsClientMessage struct {
	Action      string   `json:"action"` // "subscribe"
	Collections []string `json:"collections"`
}

type LiveHandler struct {
	Hub       *services.LiveHub
	JWTSecret string
}

func NewLiveHandler(hub *services.LiveHub, jwtSecret string) *LiveHandler {
	return &LiveHandler{Hub: hub, JWTSecret: jwtSecret}
}

// LiveWebSocketHandler upgrades the connection and streams change events
// for the subscribed collections. Auth uses a token query parameter since
// browsers cannot set headers on WebSocket upgrades.
func (h *LiveHandler) LiveWebSocketHandler(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}
	claims, err := jwtutil.ValidateToken(token, h.JWTSecret)
	if err != nil {
		logger.Log.Warnf("WebSocket auth failed: %v", err)
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}
	userID := claims.UserID

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Errorf("WebSocket upgrade failed: %v", err)
		return
	}

	h.Hub.Register(userID, conn)
	defer h.Hub.Unregister(userID, conn)

	for {
		var msg wsClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		if msg.Action == "subscribe" {
			h.Hub.Subscribe(userID, msg.Collections)
		}
	}
}
