package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"marketplace-service/internal/models"
	"marketplace-service/internal/repositories"
	"marketplace-service/internal/ws"
)

// ChatHandler manages buyer/seller chat endpoints.
type ChatHandler struct {
	chatRepo    repositories.ChatRepository
	messageRepo repositories.MessageRepository
	userRepo    repositories.UserRepository
	hub         *ws.Hub
}

// NewChatHandler builds a ChatHandler.
func NewChatHandler(chatRepo repositories.ChatRepository, messageRepo repositories.MessageRepository, userRepo repositories.UserRepository, hub *ws.Hub) *ChatHandler {
	return &ChatHandler{
		chatRepo:    chatRepo,
		messageRepo: messageRepo,
		userRepo:    userRepo,
		hub:         hub,
	}
}

// StartChat creates or returns the chat between the caller and a seller,
// optionally scoped to one product.
func (h *ChatHandler) StartChat(c *gin.Context) {
	var req struct {
		UserID    int    `json:"user_id"`
		SellerID  int    `json:"seller_id" binding:"required"`
		ProductID string `json:"product_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetInt("userID")
	// Sellers open threads on behalf of the buyer they answer.
	if c.GetString("role") == models.RoleSeller && req.UserID != 0 {
		userID = req.UserID
	}
	if userID == req.SellerID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot chat with yourself"})
		return
	}

	chat, isNew, err := h.chatRepo.GetOrCreateChat(c.Request.Context(), userID, req.SellerID, req.ProductID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create chat"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":           chat.ID,
		"is_new":       isNew,
		"participants": chat.Participants(),
	})
}

// ListChats returns the chats the caller participates in, with counterpart
// display names resolved.
func (h *ChatHandler) ListChats(c *gin.Context) {
	userID := c.GetInt("userID")

	chats, err := h.chatRepo.ListChatsForUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load chats"})
		return
	}

	counterpartIDs := make([]int, 0, len(chats))
	for _, chat := range chats {
		counterpartIDs = append(counterpartIDs, chat.CounterpartID)
	}
	names, err := h.userRepo.UsernamesByID(c.Request.Context(), counterpartIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load counterpart names"})
		return
	}

	type chatResponse struct {
		models.ChatSummary
		CounterpartName string `json:"counterpart_name,omitempty"`
	}
	responses := make([]chatResponse, 0, len(chats))
	for _, chat := range chats {
		responses = append(responses, chatResponse{ChatSummary: chat, CounterpartName: names[chat.CounterpartID]})
	}

	c.JSON(http.StatusOK, gin.H{"chats": responses})
}

// GetChatMessages returns one ascending page of a chat's history.
func (h *ChatHandler) GetChatMessages(c *gin.Context) {
	chatID, err := strconv.Atoi(c.Param("chat_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat id"})
		return
	}

	userID := c.GetInt("userID")
	member, err := h.chatRepo.IsParticipant(c.Request.Context(), chatID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify membership"})
		return
	}
	if !member {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a chat member"})
		return
	}

	limit, page := paginationParams(c)
	msgs, err := h.messageRepo.ListMessages(c.Request.Context(), chatID, limit, page)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		return
	}

	c.JSON(http.StatusOK, h.withSenderNames(c, msgs))
}

// GetAllMessages returns one ascending page of messages across every chat
// the caller participates in. The seller dashboard inbox uses this.
func (h *ChatHandler) GetAllMessages(c *gin.Context) {
	userID := c.GetInt("userID")

	limit, page := paginationParams(c)
	msgs, err := h.messageRepo.ListAllForUser(c.Request.Context(), userID, limit, page)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		return
	}

	c.JSON(http.StatusOK, h.withSenderNames(c, msgs))
}

// PostChatMessage stores a chat message and broadcasts it to the room.
func (h *ChatHandler) PostChatMessage(c *gin.Context) {
	chatID, err := strconv.Atoi(c.Param("chat_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat id"})
		return
	}

	userID := c.GetInt("userID")
	chat, err := h.chatRepo.GetChat(c.Request.Context(), chatID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrChatNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "chat not found"})
		return
	}
	if !chat.IsParticipant(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a chat member"})
		return
	}

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.messageRepo.CreateMessage(c.Request.Context(), chatID, userID, req.Content)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store message"})
		return
	}

	names, err := h.userRepo.UsernamesByID(c.Request.Context(), []int{userID})
	if err != nil {
		names = map[int]string{}
	}
	h.hub.Broadcast(chatID, msg, names[userID])

	c.JSON(http.StatusCreated, msg)
}

type messagePageResponse struct {
	Messages []messageResponse `json:"messages"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
	Total    int               `json:"total"`
}

type messageResponse struct {
	models.Message
	SenderUsername string `json:"sender_username,omitempty"`
}

func (h *ChatHandler) withSenderNames(c *gin.Context, page models.MessagePage) messagePageResponse {
	senderIDs := make([]int, 0, len(page.Messages))
	seen := map[int]struct{}{}
	for _, m := range page.Messages {
		if _, ok := seen[m.SenderID]; !ok {
			seen[m.SenderID] = struct{}{}
			senderIDs = append(senderIDs, m.SenderID)
		}
	}

	names, err := h.userRepo.UsernamesByID(c.Request.Context(), senderIDs)
	if err != nil {
		names = map[int]string{}
	}

	resp := messagePageResponse{Page: page.Page, Limit: page.Limit, Total: page.Total}
	resp.Messages = make([]messageResponse, 0, len(page.Messages))
	for _, m := range page.Messages {
		resp.Messages = append(resp.Messages, messageResponse{Message: m, SenderUsername: names[m.SenderID]})
	}
	return resp
}

func paginationParams(c *gin.Context) (int, int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil {
		limit = 50
	}
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}
	return limit, page
}
