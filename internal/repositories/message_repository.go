package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"marketplace-service/internal/models"
)

var ErrMessageNotFound = errors.New("message not found")

// MessageRepository defines interactions for chat messages.
type MessageRepository interface {
	CreateMessage(ctx context.Context, chatID, senderID int, content string) (models.Message, error)
	ListMessages(ctx context.Context, chatID, limit, page int) (models.MessagePage, error)
	ListAllForUser(ctx context.Context, userID, limit, page int) (models.MessagePage, error)
	GetMessage(ctx context.Context, messageID int) (models.Message, error)
}

// MessageRepo is a sqlx-backed repository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// CreateMessage stores a message in a chat.
func (r *MessageRepo) CreateMessage(ctx context.Context, chatID, senderID int, content string) (models.Message, error) {
	var msg models.Message
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO messages (chat_id, sender_id, content) VALUES ($1, $2, $3)
         RETURNING id, chat_id, sender_id, content, created_at`,
		chatID, senderID, content).StructScan(&msg)
	return msg, err
}

// ListMessages returns one ascending page of a chat's history.
func (r *MessageRepo) ListMessages(ctx context.Context, chatID, limit, page int) (models.MessagePage, error) {
	limit, page = clampPage(limit, page)

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM messages WHERE chat_id=$1`, chatID); err != nil {
		return models.MessagePage{}, err
	}

	var msgs []models.Message
	err := r.db.SelectContext(ctx, &msgs,
		`SELECT id, chat_id, sender_id, content, created_at FROM messages
         WHERE chat_id=$1 ORDER BY created_at ASC, id ASC LIMIT $2 OFFSET $3`,
		chatID, limit, (page-1)*limit)
	if err != nil {
		return models.MessagePage{}, err
	}
	return models.MessagePage{Messages: msgs, Page: page, Limit: limit, Total: total}, nil
}

// ListAllForUser returns one ascending page of messages across every chat the
// user participates in. Sellers use this for the dashboard inbox.
func (r *MessageRepo) ListAllForUser(ctx context.Context, userID, limit, page int) (models.MessagePage, error) {
	limit, page = clampPage(limit, page)

	var total int
	if err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM messages m JOIN chats c ON c.id = m.chat_id
         WHERE c.user_id=$1 OR c.seller_id=$1`, userID); err != nil {
		return models.MessagePage{}, err
	}

	var msgs []models.Message
	err := r.db.SelectContext(ctx, &msgs,
		`SELECT m.id, m.chat_id, m.sender_id, m.content, m.created_at
         FROM messages m JOIN chats c ON c.id = m.chat_id
         WHERE c.user_id=$1 OR c.seller_id=$1
         ORDER BY m.created_at ASC, m.id ASC LIMIT $2 OFFSET $3`,
		userID, limit, (page-1)*limit)
	if err != nil {
		return models.MessagePage{}, err
	}
	return models.MessagePage{Messages: msgs, Page: page, Limit: limit, Total: total}, nil
}

// GetMessage retrieves a single message.
func (r *MessageRepo) GetMessage(ctx context.Context, messageID int) (models.Message, error) {
	var msg models.Message
	err := r.db.GetContext(ctx, &msg,
		`SELECT id, chat_id, sender_id, content, created_at FROM messages WHERE id=$1`, messageID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Message{}, ErrMessageNotFound
	}
	return msg, err
}

func clampPage(limit, page int) (int, int) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if page <= 0 {
		page = 1
	}
	return limit, page
}
