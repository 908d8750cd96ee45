package ws

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"

	"marketplace-service/internal/auth"
	"marketplace-service/internal/conversation"
	"marketplace-service/internal/logger"
	"marketplace-service/internal/models"
	"marketplace-service/internal/observability"
	"marketplace-service/internal/repositories"
)

// ChatWebSocketHandler upgrades chat connections and keeps each one's
// conversation view in sync with cache, history and live traffic.
type ChatWebSocketHandler struct {
	hub         *Hub
	chatRepo    repositories.ChatRepository
	messageRepo repositories.MessageRepository
	userRepo    repositories.UserRepository
	tokens      *auth.TokenService
	store       conversation.Store
	log         *logger.Logger
}

// NewChatWebSocketHandler constructs a ChatWebSocketHandler.
func NewChatWebSocketHandler(hub *Hub, chatRepo repositories.ChatRepository, messageRepo repositories.MessageRepository, userRepo repositories.UserRepository, tokens *auth.TokenService, store conversation.Store, log *logger.Logger) *ChatWebSocketHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &ChatWebSocketHandler{
		hub:         hub,
		chatRepo:    chatRepo,
		messageRepo: messageRepo,
		userRepo:    userRepo,
		tokens:      tokens,
		store:       store,
		log:         log,
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handle upgrades the connection, primes the client's conversation view and
// pumps live traffic until the peer disconnects.
func (h *ChatWebSocketHandler) Handle(c *gin.Context) {
	chatID, err := strconv.Atoi(c.Param("chat_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat id"})
		return
	}

	ctx, span := otel.Tracer("marketplace-service/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	token := c.GetHeader("Authorization")
	if token == "" {
		token = "Bearer " + c.Query("token")
	}
	identity, err := h.validateToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	chat, err := h.chatRepo.GetChat(ctx, chatID)
	if err != nil || !chat.IsParticipant(identity.UserID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not authorized for chat"})
		return
	}

	role := conversation.RoleUser
	counterpartID := chat.SellerID
	if identity.UserID == chat.SellerID {
		role = conversation.RoleSeller
		counterpartID = chat.UserID
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	names, err := h.userRepo.UsernamesByID(ctx, chat.Participants())
	if err != nil {
		h.log.Warn("sender name lookup failed", "chat_id", chatID, "error", err)
		names = map[int]string{}
	}

	view := conversation.NewView(conversation.ViewConfig{
		Role:          role,
		SelfID:        identity.UserID,
		CounterpartID: counterpartID,
		ProductID:     chat.ProductID.String,
		Store:         h.store,
		Sender: &chatRelay{
			hub:        h.hub,
			messages:   h.messageRepo,
			chatID:     chatID,
			senderID:   identity.UserID,
			senderName: names[identity.UserID],
		},
		Log: h.log,
	})

	traceID := span.SpanContext().TraceID().String()
	info := ConnInfo{
		ConnID:      newConnID(),
		UserID:      identity.UserID,
		Role:        identity.Role,
		DeviceID:    observability.DeviceIDFromRequest(c.Request),
		IP:          observability.IPFromRequest(c.Request),
		RequestID:   observability.RequestIDFromRequest(c.Request),
		TraceID:     traceID,
		ConnectedAt: time.Now(),
	}

	client := &wsClient{
		conn:          conn,
		view:          view,
		selfID:        identity.UserID,
		counterpartID: counterpartID,
		role:          role,
		info:          info,
	}

	// Instant paint from the cache, then the authoritative replace.
	cached := view.Attach(ctx)
	client.writeSnapshot("cached_history", cached)
	history := view.LoadHistory(ctx, &repoHistory{
		messages:    h.messageRepo,
		chatID:      chatID,
		selfID:      identity.UserID,
		counterpart: role.Counterpart(),
		names:       names,
	})
	client.writeSnapshot("history", history)

	h.hub.AddClient(chatID, client)
	observability.IncWSActive("chat")
	observability.IncWSEvent("chat", "ws_connect")
	_ = observability.PublishEvent(ctx, "ws_events.chats", observability.EventEnvelope{
		EventType: "ws_events",
		EventName: "ws_connect",
		Payload:   wsEventPayload(chatID, "ws_connect", info, 0, ""),
	}, observability.BuildHeaders(info.RequestID, traceID))

	go h.readPump(ctx, chatID, client)
}

// readPump consumes client frames until the connection dies, relaying each
// normalized send through the conversation view.
func (h *ChatWebSocketHandler) readPump(ctx context.Context, chatID int, client *wsClient) {
	var closeReason string
	defer func() {
		client.view.Close()
		h.hub.RemoveClient(chatID, client)
		observability.DecWSActive("chat")
		observability.IncWSEvent("chat", "ws_disconnect")
		_ = observability.PublishEvent(ctx, "ws_events.chats", observability.EventEnvelope{
			EventType: "ws_events",
			EventName: "ws_disconnect",
			Payload:   wsEventPayload(chatID, "ws_disconnect", client.info, time.Since(client.info.ConnectedAt), closeReason),
		}, observability.BuildHeaders(client.info.RequestID, client.info.TraceID))
		client.conn.Close()
	}()

	for {
		_, raw, err := client.conn.ReadMessage()
		if err != nil {
			closeReason = err.Error()
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				observability.IncWSEvent("chat", "ws_error")
			}
			return
		}

		ev, err := conversation.Normalize(raw, client.selfID, client.role.Counterpart())
		if err != nil {
			h.log.Warn("invalid chat payload", "chat_id", chatID, "error", err)
			observability.IncChatMessage("invalid")
			continue
		}
		// Sends addressed to a different counterpart do not belong to this
		// conversation; drop them without surfacing an error.
		if ev.ToID != 0 && ev.ToID != client.counterpartID {
			observability.IncChatMessage("dropped")
			continue
		}

		sent := client.view.Send(ctx, ev.Message.Text)
		if sent.Status == conversation.StatusFailed {
			observability.IncChatMessage("failed")
			continue
		}
		observability.IncChatMessage("accepted")
	}
}

func (h *ChatWebSocketHandler) validateToken(header string) (auth.Identity, error) {
	const prefix = "Bearer "
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return h.tokens.Validate(header[len(prefix):])
	}
	return auth.Identity{}, auth.ErrInvalidToken
}

// wsClient adapts one websocket connection into a hub Client, mirroring
// every delivered event into its conversation view.
type wsClient struct {
	conn          *websocket.Conn
	writeMu       sync.Mutex
	view          *conversation.View
	selfID        int
	counterpartID int
	role          conversation.Role
	info          ConnInfo
}

// writeJSON serializes writes; gorilla allows one concurrent writer and the
// hub broadcast can race the REST broadcast path on the same connection.
func (c *wsClient) writeJSON(v interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(v)
}

// Deliver writes the event to the peer and records foreign messages in the
// view. Own echoes are skipped: the optimistic copy is already in the list.
func (c *wsClient) Deliver(event models.ChatEvent) error {
	if err := c.writeJSON(event); err != nil {
		return err
	}
	if event.Message != nil && event.Message.SenderID != c.selfID {
		c.view.Accept(context.Background(), conversation.Event{
			Message: toConversationMessage(*event.Message, c.selfID, c.role.Counterpart(), map[int]string{event.Message.SenderID: event.SenderName}),
			FromID:  event.Message.SenderID,
			ToID:    c.selfID,
			ChatID:  event.Message.ChatID,
		})
	}
	return nil
}

func (c *wsClient) Info() ConnInfo {
	return c.info
}

type snapshotEvent struct {
	Type     string                     `json:"type"`
	Messages []conversation.ChatMessage `json:"messages"`
}

func (c *wsClient) writeSnapshot(eventType string, msgs []conversation.ChatMessage) {
	if err := c.writeJSON(snapshotEvent{Type: eventType, Messages: msgs}); err != nil {
		// The read pump will notice the dead connection; nothing to do here.
		return
	}
}

// repoHistory adapts the message repository into the view's history source.
type repoHistory struct {
	messages    repositories.MessageRepository
	chatID      int
	selfID      int
	counterpart conversation.Role
	names       map[int]string
}

func (h *repoHistory) History(ctx context.Context) ([]conversation.ChatMessage, error) {
	page, err := h.messages.ListMessages(ctx, h.chatID, 200, 1)
	if err != nil {
		return nil, err
	}
	out := make([]conversation.ChatMessage, 0, len(page.Messages))
	for _, msg := range page.Messages {
		out = append(out, toConversationMessage(msg, h.selfID, h.counterpart, h.names))
	}
	return out, nil
}

// toConversationMessage maps a stored message into the normalized shape.
func toConversationMessage(msg models.Message, selfID int, counterpart conversation.Role, names map[int]string) conversation.ChatMessage {
	from := string(counterpart)
	if msg.SenderID == selfID {
		from = conversation.SelfSender
	}
	return conversation.ChatMessage{
		ID:         strconv.Itoa(msg.ID),
		From:       from,
		Text:       msg.Content,
		Timestamp:  msg.CreatedAt.UnixMilli(),
		SenderName: names[msg.SenderID],
	}
}

// chatRelay persists a local send and fans it out to the room.
type chatRelay struct {
	hub        *Hub
	messages   repositories.MessageRepository
	chatID     int
	senderID   int
	senderName string
}

func (r *chatRelay) Send(ctx context.Context, ev conversation.Event) error {
	msg, err := r.messages.CreateMessage(ctx, r.chatID, r.senderID, ev.Message.Text)
	if err != nil {
		return err
	}
	r.hub.Broadcast(r.chatID, msg, r.senderName)
	return nil
}
