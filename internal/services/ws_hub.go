package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// WSMessage is the shape sent to connected clients
type WSMessage struct {
	Type    string `json:"type"`
	Online  *bool  `json:"online,omitempty"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type wsClient struct {
	conn     *websocket.Conn
	coupleID string
}

// WSHub tracks WebSocket connections per user and bridges the Redis
// couple channels to them, so every event published for a couple reaches
// its connected members.
type WSHub struct {
	mu          sync.RWMutex
	connections map[string]*wsClient
	rdb         *redis.Client
}

// NewWSHub creates a new WebSocket hub
func NewWSHub(rdb *redis.Client) *WSHub {
	return &WSHub{
		connections: make(map[string]*wsClient),
		rdb:         rdb,
	}
}

// Run subscribes to every couple channel and fans incoming events out to
// the connected members. It blocks until the context is cancelled.
func (h *WSHub) Run(ctx context.Context) {
	sub := h.rdb.PSubscribe(ctx, "couple-*")
	defer sub.Close()

	log.Info().Msg("WebSocket bridge subscribed to couple channels")

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			coupleID := strings.TrimPrefix(msg.Channel, "couple-")
			h.broadcastRaw(coupleID, []byte(msg.Payload))
		}
	}
}

// Register registers a connection for a user and tells the partner they
// came online. An existing connection for the same user is replaced.
func (h *WSHub) Register(userID, coupleID string, conn *websocket.Conn) {
	h.mu.Lock()
	if existing, ok := h.connections[userID]; ok {
		existing.conn.Close()
	}
	h.connections[userID] = &wsClient{conn: conn, coupleID: coupleID}
	h.mu.Unlock()

	log.Info().Str("user_id", userID).Str("couple_id", coupleID).Msg("WebSocket connection registered")
	h.notifyPartnerStatus(userID, coupleID, true)
}

// Unregister removes a user's connection and tells the partner they went
// offline
func (h *WSHub) Unregister(userID string) {
	h.mu.Lock()
	client, ok := h.connections[userID]
	if ok {
		client.conn.Close()
		delete(h.connections, userID)
	}
	h.mu.Unlock()

	if ok {
		log.Info().Str("user_id", userID).Msg("WebSocket connection unregistered")
		h.notifyPartnerStatus(userID, client.coupleID, false)
	}
}

// IsOnline checks if a user has a live connection
func (h *WSHub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.connections[userID]
	return ok
}

// SendToUser sends a message to a specific user
func (h *WSHub) SendToUser(userID string, message WSMessage) error {
	h.mu.RLock()
	client, ok := h.connections[userID]
	h.mu.RUnlock()
	if !ok {
		return fmt.Errorf("user %s is not connected", userID)
	}

	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	if err := client.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		h.Unregister(userID)
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// broadcastRaw forwards an already-encoded event to every connected
// member of the couple
func (h *WSHub) broadcastRaw(coupleID string, payload []byte) {
	h.mu.RLock()
	var stale []string
	for userID, client := range h.connections {
		if client.coupleID != coupleID {
			continue
		}
		if err := client.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Error().Err(err).Str("user_id", userID).Msg("Failed to forward couple event")
			stale = append(stale, userID)
		}
	}
	h.mu.RUnlock()

	for _, userID := range stale {
		h.Unregister(userID)
	}
}

// notifyPartnerStatus tells the other connected member of the couple that
// userID went online or offline
func (h *WSHub) notifyPartnerStatus(userID, coupleID string, online bool) {
	h.mu.RLock()
	var partnerID string
	for id, client := range h.connections {
		if id != userID && client.coupleID == coupleID {
			partnerID = id
			break
		}
	}
	h.mu.RUnlock()

	if partnerID == "" {
		return
	}
	if err := h.SendToUser(partnerID, WSMessage{Type: "partner_status", Online: &online}); err != nil {
		log.Error().Err(err).Str("user_id", partnerID).Msg("Failed to notify partner status")
	}
}
