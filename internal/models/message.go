package models

import "time"

// Message represents a persisted chat message.
type Message struct {
	ID        int       `db:"id" json:"id"`
	ChatID    int       `db:"chat_id" json:"chat_id"`
	SenderID  int       `db:"sender_id" json:"sender_id"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ChatEvent is broadcast through websockets to conversation members.
type ChatEvent struct {
	Type       string    `json:"type"`
	Message    *Message  `json:"message,omitempty"`
	History    []Message `json:"history,omitempty"`
	SenderName string    `json:"sender_name,omitempty"`
}

// MessagePage is a paginated slice of messages.
type MessagePage struct {
	Messages []Message `json:"messages"`
	Page     int       `json:"page"`
	Limit    int       `json:"limit"`
	Total    int       `json:"total"`
}
