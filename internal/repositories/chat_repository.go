package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"marketplace-service/internal/models"
)

var ErrChatNotFound = errors.New("chat not found")

// ChatRepository abstracts chat persistence.
type ChatRepository interface {
	GetOrCreateChat(ctx context.Context, userID, sellerID int, productID string) (models.Chat, bool, error)
	GetChat(ctx context.Context, chatID int) (models.Chat, error)
	IsParticipant(ctx context.Context, chatID, userID int) (bool, error)
	ListChatsForUser(ctx context.Context, userID int) ([]models.ChatSummary, error)
}

// ChatRepo is a sqlx implementation of ChatRepository.
type ChatRepo struct {
	db *sqlx.DB
}

// NewChatRepo constructs a ChatRepo.
func NewChatRepo(db *sqlx.DB) *ChatRepo {
	return &ChatRepo{db: db}
}

// GetOrCreateChat finds the buyer/seller chat for the given product scope,
// creating it when absent. The second return value reports whether the chat
// was created by this call.
func (r *ChatRepo) GetOrCreateChat(ctx context.Context, userID, sellerID int, productID string) (models.Chat, bool, error) {
	if userID == sellerID {
		return models.Chat{}, false, errors.New("cannot create chat with self")
	}

	product := sql.NullString{String: productID, Valid: productID != ""}

	var chat models.Chat
	query := `SELECT id, user_id, seller_id, product_id, created_at FROM chats
        WHERE user_id=$1 AND seller_id=$2 AND product_id IS NOT DISTINCT FROM $3`
	err := r.db.GetContext(ctx, &chat, query, userID, sellerID, product)
	if err == nil {
		return chat, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.Chat{}, false, err
	}

	err = r.db.QueryRowxContext(ctx,
		`INSERT INTO chats (user_id, seller_id, product_id) VALUES ($1, $2, $3)
         ON CONFLICT DO NOTHING
         RETURNING id, user_id, seller_id, product_id, created_at`,
		userID, sellerID, product).StructScan(&chat)
	if errors.Is(err, sql.ErrNoRows) {
		// A concurrent call won the insert; the thread exists now.
		if err := r.db.GetContext(ctx, &chat, query, userID, sellerID, product); err != nil {
			return models.Chat{}, false, err
		}
		return chat, false, nil
	}
	if err != nil {
		return models.Chat{}, false, err
	}
	return chat, true, nil
}

// GetChat fetches a chat by id.
func (r *ChatRepo) GetChat(ctx context.Context, chatID int) (models.Chat, error) {
	var chat models.Chat
	err := r.db.GetContext(ctx, &chat, `SELECT id, user_id, seller_id, product_id, created_at FROM chats WHERE id=$1`, chatID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Chat{}, ErrChatNotFound
	}
	return chat, err
}

// IsParticipant checks whether a user belongs to the chat.
func (r *ChatRepo) IsParticipant(ctx context.Context, chatID, userID int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM chats WHERE id=$1 AND (user_id=$2 OR seller_id=$2))`, chatID, userID)
	return exists, err
}

// ListChatsForUser returns all chats the user participates in, newest first.
func (r *ChatRepo) ListChatsForUser(ctx context.Context, userID int) ([]models.ChatSummary, error) {
	rows, err := r.db.QueryxContext(ctx,
		`SELECT id, user_id, seller_id, product_id, created_at FROM chats
         WHERE user_id=$1 OR seller_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.ChatSummary
	for rows.Next() {
		var chat models.Chat
		if err := rows.StructScan(&chat); err != nil {
			return nil, err
		}
		counterpart := chat.UserID
		if counterpart == userID {
			counterpart = chat.SellerID
		}
		result = append(result, models.ChatSummary{
			ChatID:        chat.ID,
			CounterpartID: counterpart,
			ProductID:     chat.ProductID.String,
			CreatedAt:     chat.CreatedAt,
		})
	}
	return result, rows.Err()
}
