package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/officialryder1/couplequest-backend/internal/middleware"
	"github.com/officialryder1/couplequest-backend/internal/services"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler upgrades connections and wires them into the hub
type WebSocketHandler struct {
	hub           *services.WSHub
	userService   *services.UserService
	coupleService *services.CoupleService
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(hub *services.WSHub, userService *services.UserService, coupleService *services.CoupleService) *WebSocketHandler {
	return &WebSocketHandler{
		hub:           hub,
		userService:   userService,
		coupleService: coupleService,
	}
}

// inboundMessage is what clients send over the socket
type inboundMessage struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
}

// HandleWebSocket handles GET /ws?token=...
//
// Only members of an active couple can connect; the connection joins the
// couple's channel and receives every event published for it.
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	userID, err := middleware.ValidateWebSocketToken(token, h.userService)
	if err != nil {
		respondError(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	couple, err := h.coupleService.ActiveCoupleFor(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to upgrade connection")
		return
	}

	h.hub.Register(userID, couple.ID, conn)
	defer h.hub.Unregister(userID)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error().Err(err).Str("user_id", userID).Msg("WebSocket read error")
			}
			return
		}

		var msg inboundMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.hub.SendToUser(userID, services.WSMessage{Type: "error", Message: "invalid message"})
			continue
		}

		switch msg.Type {
		case "chat_message":
			// persists and broadcasts new-message on the couple channel
			if _, err := h.coupleService.SendMessage(r.Context(), userID, msg.Message); err != nil {
				h.hub.SendToUser(userID, services.WSMessage{Type: "error", Message: "failed to send message"})
			}
		case "ping":
			h.hub.SendToUser(userID, services.WSMessage{Type: "pong"})
		default:
			h.hub.SendToUser(userID, services.WSMessage{Type: "error", Message: "unknown message type"})
		}
	}
}
