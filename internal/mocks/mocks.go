package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"marketplace-service/internal/models"
	"marketplace-service/internal/repositories"
)

type ChatRepositoryMock struct {
	mock.Mock
}

func (m *ChatRepositoryMock) GetOrCreateChat(ctx context.Context, userID, sellerID int, productID string) (models.Chat, bool, error) {
	args := m.Called(ctx, userID, sellerID, productID)
	var chat models.Chat
	if val := args.Get(0); val != nil {
		chat = val.(models.Chat)
	}
	return chat, args.Bool(1), args.Error(2)
}

func (m *ChatRepositoryMock) GetChat(ctx context.Context, chatID int) (models.Chat, error) {
	args := m.Called(ctx, chatID)
	var chat models.Chat
	if val := args.Get(0); val != nil {
		chat = val.(models.Chat)
	}
	return chat, args.Error(1)
}

func (m *ChatRepositoryMock) IsParticipant(ctx context.Context, chatID, userID int) (bool, error) {
	args := m.Called(ctx, chatID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *ChatRepositoryMock) ListChatsForUser(ctx context.Context, userID int) ([]models.ChatSummary, error) {
	args := m.Called(ctx, userID)
	var list []models.ChatSummary
	if val := args.Get(0); val != nil {
		list = val.([]models.ChatSummary)
	}
	return list, args.Error(1)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) CreateMessage(ctx context.Context, chatID, senderID int, content string) (models.Message, error) {
	args := m.Called(ctx, chatID, senderID, content)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) ListMessages(ctx context.Context, chatID, limit, page int) (models.MessagePage, error) {
	args := m.Called(ctx, chatID, limit, page)
	var page0 models.MessagePage
	if val := args.Get(0); val != nil {
		page0 = val.(models.MessagePage)
	}
	return page0, args.Error(1)
}

func (m *MessageRepositoryMock) ListAllForUser(ctx context.Context, userID, limit, page int) (models.MessagePage, error) {
	args := m.Called(ctx, userID, limit, page)
	var page0 models.MessagePage
	if val := args.Get(0); val != nil {
		page0 = val.(models.MessagePage)
	}
	return page0, args.Error(1)
}

func (m *MessageRepositoryMock) GetMessage(ctx context.Context, messageID int) (models.Message, error) {
	args := m.Called(ctx, messageID)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

type ProductRepositoryMock struct {
	mock.Mock
}

func (m *ProductRepositoryMock) Create(ctx context.Context, product models.Product) (models.Product, error) {
	args := m.Called(ctx, product)
	var p models.Product
	if val := args.Get(0); val != nil {
		p = val.(models.Product)
	}
	return p, args.Error(1)
}

func (m *ProductRepositoryMock) Update(ctx context.Context, product models.Product) (models.Product, error) {
	args := m.Called(ctx, product)
	var p models.Product
	if val := args.Get(0); val != nil {
		p = val.(models.Product)
	}
	return p, args.Error(1)
}

func (m *ProductRepositoryMock) Delete(ctx context.Context, productID string, sellerID int) error {
	args := m.Called(ctx, productID, sellerID)
	return args.Error(0)
}

func (m *ProductRepositoryMock) GetByID(ctx context.Context, productID string) (models.Product, error) {
	args := m.Called(ctx, productID)
	var p models.Product
	if val := args.Get(0); val != nil {
		p = val.(models.Product)
	}
	return p, args.Error(1)
}

func (m *ProductRepositoryMock) ListByType(ctx context.Context, productType string) ([]models.Product, error) {
	args := m.Called(ctx, productType)
	var list []models.Product
	if val := args.Get(0); val != nil {
		list = val.([]models.Product)
	}
	return list, args.Error(1)
}

func (m *ProductRepositoryMock) ListBySeller(ctx context.Context, sellerID int) ([]models.Product, error) {
	args := m.Called(ctx, sellerID)
	var list []models.Product
	if val := args.Get(0); val != nil {
		list = val.([]models.Product)
	}
	return list, args.Error(1)
}

type CartRepositoryMock struct {
	mock.Mock
}

func (m *CartRepositoryMock) AddItem(ctx context.Context, userID int, productID string, quantity int) (models.CartItem, error) {
	args := m.Called(ctx, userID, productID, quantity)
	var item models.CartItem
	if val := args.Get(0); val != nil {
		item = val.(models.CartItem)
	}
	return item, args.Error(1)
}

func (m *CartRepositoryMock) RemoveItem(ctx context.Context, userID int, productID string) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}

func (m *CartRepositoryMock) ListItems(ctx context.Context, userID int) ([]models.CartItem, error) {
	args := m.Called(ctx, userID)
	var list []models.CartItem
	if val := args.Get(0); val != nil {
		list = val.([]models.CartItem)
	}
	return list, args.Error(1)
}

type WishlistRepositoryMock struct {
	mock.Mock
}

func (m *WishlistRepositoryMock) Add(ctx context.Context, userID int, productID string) (models.WishlistItem, error) {
	args := m.Called(ctx, userID, productID)
	var item models.WishlistItem
	if val := args.Get(0); val != nil {
		item = val.(models.WishlistItem)
	}
	return item, args.Error(1)
}

func (m *WishlistRepositoryMock) Remove(ctx context.Context, userID int, productID string) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}

func (m *WishlistRepositoryMock) List(ctx context.Context, userID int) ([]models.WishlistItem, error) {
	args := m.Called(ctx, userID)
	var list []models.WishlistItem
	if val := args.Get(0); val != nil {
		list = val.([]models.WishlistItem)
	}
	return list, args.Error(1)
}

type AuctionRepositoryMock struct {
	mock.Mock
}

func (m *AuctionRepositoryMock) ListActive(ctx context.Context) ([]models.Auction, error) {
	args := m.Called(ctx)
	var list []models.Auction
	if val := args.Get(0); val != nil {
		list = val.([]models.Auction)
	}
	return list, args.Error(1)
}

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) GetOrCreate(ctx context.Context, username, role string) (models.User, error) {
	args := m.Called(ctx, username, role)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetByID(ctx context.Context, userID int) (models.User, error) {
	args := m.Called(ctx, userID)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) UsernamesByID(ctx context.Context, ids []int) (map[int]string, error) {
	args := m.Called(ctx, ids)
	var names map[int]string
	if val := args.Get(0); val != nil {
		names = val.(map[int]string)
	}
	return names, args.Error(1)
}

var (
	_ repositories.ChatRepository     = (*ChatRepositoryMock)(nil)
	_ repositories.MessageRepository  = (*MessageRepositoryMock)(nil)
	_ repositories.ProductRepository  = (*ProductRepositoryMock)(nil)
	_ repositories.CartRepository     = (*CartRepositoryMock)(nil)
	_ repositories.WishlistRepository = (*WishlistRepositoryMock)(nil)
	_ repositories.AuctionRepository  = (*AuctionRepositoryMock)(nil)
	_ repositories.UserRepository     = (*UserRepositoryMock)(nil)
)
