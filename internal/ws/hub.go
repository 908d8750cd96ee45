package ws

import (
	"context"
	"sync"
	"time"

	"marketplace-service/internal/logger"
	"marketplace-service/internal/models"
	"marketplace-service/internal/observability"
)

// Client is one attached conversation member able to receive chat events.
type Client interface {
	Deliver(event models.ChatEvent) error
	Info() ConnInfo
}

// Hub maintains the active clients of each chat room.
type Hub struct {
	rooms map[int]map[Client]bool
	mu    sync.RWMutex
	log   *logger.Logger
}

// NewHub creates an empty hub.
func NewHub(log *logger.Logger) *Hub {
	if log == nil {
		log = logger.NewNop()
	}
	return &Hub{
		rooms: make(map[int]map[Client]bool),
		log:   log,
	}
}

// AddClient registers a client in a chat room.
func (h *Hub) AddClient(chatID int, c Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.rooms[chatID]; !ok {
		h.rooms[chatID] = make(map[Client]bool)
	}
	h.rooms[chatID][c] = true
}

// RemoveClient removes a client from a chat room.
func (h *Hub) RemoveClient(chatID int, c Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.rooms[chatID]; ok {
		delete(clients, c)
		if len(clients) == 0 {
			delete(h.rooms, chatID)
		}
	}
}

// RoomSize reports the number of clients attached to a chat.
func (h *Hub) RoomSize(chatID int) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[chatID])
}

// Broadcast sends a stored message to every client in the chat room. Clients
// that fail to take the event are evicted.
func (h *Hub) Broadcast(chatID int, msg models.Message, senderName string) {
	h.mu.RLock()
	clients := make([]Client, 0, len(h.rooms[chatID]))
	for c := range h.rooms[chatID] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	event := models.ChatEvent{Type: "message", Message: &msg, SenderName: senderName}
	for _, c := range clients {
		if err := c.Deliver(event); err != nil {
			h.log.Warn("websocket deliver failed", "chat_id", chatID, "error", err)
			h.RemoveClient(chatID, c)
			h.publishWSError(chatID, c.Info(), err)
		}
	}
}

func (h *Hub) publishWSError(chatID int, info ConnInfo, err error) {
	headers := observability.BuildHeaders(info.RequestID, info.TraceID)
	_ = observability.PublishEvent(context.Background(), "ws_events.chats", observability.EventEnvelope{
		EventType: "ws_events",
		EventName: "ws_error",
		Payload:   wsEventPayload(chatID, "ws_error", info, time.Since(info.ConnectedAt), err.Error()),
	}, headers)
	observability.IncWSEvent("chat", "ws_error")
}

func wsEventPayload(chatID int, event string, info ConnInfo, duration time.Duration, reason string) map[string]interface{} {
	return map[string]interface{}{
		"ws": map[string]interface{}{
			"kind":        "chat",
			"resource_id": chatID,
			"event":       event,
			"conn_id":     info.ConnID,
			"duration_ms": duration.Milliseconds(),
			"reason":      reason,
		},
		"identity": map[string]interface{}{
			"user_id":   info.UserID,
			"role":      info.Role,
			"device_id": info.DeviceID,
			"ip":        info.IP,
		},
	}
}
