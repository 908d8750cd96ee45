package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"marketplace-service/internal/mocks"
	"marketplace-service/internal/models"
	"marketplace-service/internal/ws"
)

func setupChatRouter(handler *ChatHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", 1)
		c.Set("role", models.RoleUser)
		c.Next()
	})
	r.GET("/chats", handler.ListChats)
	r.POST("/chats/start", handler.StartChat)
	r.GET("/chats/:chat_id/messages", handler.GetChatMessages)
	r.POST("/chats/:chat_id/messages", handler.PostChatMessage)
	r.GET("/messages", handler.GetAllMessages)
	return r
}

func TestListChatsSuccess(t *testing.T) {
	chatRepo := new(mocks.ChatRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewChatHandler(chatRepo, nil, userRepo, nil)
	router := setupChatRouter(handler)

	chatRepo.On("ListChatsForUser", mock.Anything, 1).Return([]models.ChatSummary{{ChatID: 3, CounterpartID: 2}}, nil).Once()
	userRepo.On("UsernamesByID", mock.Anything, []int{2}).Return(map[int]string{2: "gemhouse"}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/chats", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Chats []struct {
			ChatID          int    `json:"chat_id"`
			CounterpartName string `json:"counterpart_name"`
		} `json:"chats"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Chats, 1)
	assert.Equal(t, "gemhouse", resp.Chats[0].CounterpartName)

	chatRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
}

func TestListChatsRepoError(t *testing.T) {
	chatRepo := new(mocks.ChatRepositoryMock)
	handler := NewChatHandler(chatRepo, nil, new(mocks.UserRepositoryMock), nil)
	router := setupChatRouter(handler)

	chatRepo.On("ListChatsForUser", mock.Anything, 1).Return(([]models.ChatSummary)(nil), assert.AnError).Once()

	req := httptest.NewRequest(http.MethodGet, "/chats", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	chatRepo.AssertExpectations(t)
}

func TestStartChatSuccess(t *testing.T) {
	chatRepo := new(mocks.ChatRepositoryMock)
	handler := NewChatHandler(chatRepo, nil, new(mocks.UserRepositoryMock), nil)
	router := setupChatRouter(handler)

	chatRepo.On("GetOrCreateChat", mock.Anything, 1, 2, "prod-1").Return(models.Chat{ID: 10, UserID: 1, SellerID: 2}, true, nil).Once()

	body := bytes.NewBufferString(`{"seller_id":2,"product_id":"prod-1"}`)
	req := httptest.NewRequest(http.MethodPost, "/chats/start", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		ID           int   `json:"id"`
		IsNew        bool  `json:"is_new"`
		Participants []int `json:"participants"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 10, resp.ID)
	assert.True(t, resp.IsNew)
	assert.ElementsMatch(t, []int{1, 2}, resp.Participants)

	chatRepo.AssertExpectations(t)
}

func TestStartChatWithSelf(t *testing.T) {
	handler := NewChatHandler(new(mocks.ChatRepositoryMock), nil, new(mocks.UserRepositoryMock), nil)
	router := setupChatRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/chats/start", bytes.NewBufferString(`{"seller_id":1}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetChatMessagesSuccess(t *testing.T) {
	chatRepo := new(mocks.ChatRepositoryMock)
	messageRepo := new(mocks.MessageRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewChatHandler(chatRepo, messageRepo, userRepo, nil)
	router := setupChatRouter(handler)

	chatRepo.On("IsParticipant", mock.Anything, 5, 1).Return(true, nil).Once()
	messageRepo.On("ListMessages", mock.Anything, 5, 50, 1).Return(models.MessagePage{
		Messages: []models.Message{{ID: 1, ChatID: 5, SenderID: 2, Content: "hello"}},
		Page:     1, Limit: 50, Total: 1,
	}, nil).Once()
	userRepo.On("UsernamesByID", mock.Anything, []int{2}).Return(map[int]string{2: "gemhouse"}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/chats/5/messages", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp messagePageResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, "gemhouse", resp.Messages[0].SenderUsername)

	chatRepo.AssertExpectations(t)
	messageRepo.AssertExpectations(t)
}

func TestGetChatMessagesNotParticipant(t *testing.T) {
	chatRepo := new(mocks.ChatRepositoryMock)
	handler := NewChatHandler(chatRepo, new(mocks.MessageRepositoryMock), new(mocks.UserRepositoryMock), nil)
	router := setupChatRouter(handler)

	chatRepo.On("IsParticipant", mock.Anything, 5, 1).Return(false, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/chats/5/messages", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	chatRepo.AssertExpectations(t)
}

func TestGetAllMessagesSuccess(t *testing.T) {
	messageRepo := new(mocks.MessageRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewChatHandler(new(mocks.ChatRepositoryMock), messageRepo, userRepo, nil)
	router := setupChatRouter(handler)

	messageRepo.On("ListAllForUser", mock.Anything, 1, 50, 1).Return(models.MessagePage{
		Messages: []models.Message{
			{ID: 1, ChatID: 4, SenderID: 3, Content: "is this lab grown?"},
			{ID: 2, ChatID: 6, SenderID: 4, Content: "still available?"},
		},
		Page: 1, Limit: 50, Total: 2,
	}, nil).Once()
	userRepo.On("UsernamesByID", mock.Anything, []int{3, 4}).Return(map[int]string{3: "alice", 4: "bob"}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/messages", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp messagePageResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Messages, 2)
	assert.Equal(t, 2, resp.Total)

	messageRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
}

func TestPostChatMessageSuccess(t *testing.T) {
	chatRepo := new(mocks.ChatRepositoryMock)
	messageRepo := new(mocks.MessageRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewChatHandler(chatRepo, messageRepo, userRepo, ws.NewHub(nil))
	router := setupChatRouter(handler)

	chatRepo.On("GetChat", mock.Anything, 5).Return(models.Chat{ID: 5, UserID: 1, SellerID: 2}, nil).Once()
	messageRepo.On("CreateMessage", mock.Anything, 5, 1, "hi").Return(models.Message{ID: 9, ChatID: 5, SenderID: 1, Content: "hi"}, nil).Once()
	userRepo.On("UsernamesByID", mock.Anything, []int{1}).Return(map[int]string{1: "alice"}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/chats/5/messages", bytes.NewBufferString(`{"content":"hi"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	chatRepo.AssertExpectations(t)
	messageRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
}

func TestPostChatMessageNotMember(t *testing.T) {
	chatRepo := new(mocks.ChatRepositoryMock)
	handler := NewChatHandler(chatRepo, new(mocks.MessageRepositoryMock), new(mocks.UserRepositoryMock), ws.NewHub(nil))
	router := setupChatRouter(handler)

	chatRepo.On("GetChat", mock.Anything, 5).Return(models.Chat{ID: 5, UserID: 7, SellerID: 8}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/chats/5/messages", bytes.NewBufferString(`{"content":"hi"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	chatRepo.AssertExpectations(t)
}
