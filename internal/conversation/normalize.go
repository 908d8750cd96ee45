package conversation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

var ErrEmptyMessage = errors.New("payload carries no message text")

// Event is a fully normalized inbound wire payload. Internal code consumes
// only this shape; the field aliasing tolerated on the wire stops here.
type Event struct {
	Message      ChatMessage
	FromID       int
	ToID         int
	ChatID       int
	ProductID    string
	ClientTempID string
}

// wirePayload tolerates the aliased field names observed from clients:
// message|text, createdAt|timestamp, fromId|fromUserId|from.id and
// toId|toSellerId|toUserId.
type wirePayload struct {
	ID           any        `json:"id"`
	Message      string     `json:"message"`
	Text         string     `json:"text"`
	CreatedAt    any        `json:"createdAt"`
	Timestamp    any        `json:"timestamp"`
	FromID       any        `json:"fromId"`
	FromUserID   any        `json:"fromUserId"`
	From         *wireParty `json:"from"`
	ToID         any        `json:"toId"`
	ToSellerID   any        `json:"toSellerId"`
	ToUserID     any        `json:"toUserId"`
	ChatID       any        `json:"chatId"`
	ProductID    string     `json:"productId"`
	ClientTempID string     `json:"clientTempId"`
}

type wireParty struct {
	ID any `json:"id"`
}

// Normalize maps any accepted wire shape into an Event. selfID decides the
// "me" marker; counterpartRole names the other side on foreign messages.
func Normalize(raw []byte, selfID int, counterpartRole Role) (Event, error) {
	var p wirePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return Event{}, fmt.Errorf("decode wire payload: %w", err)
	}
	return normalizePayload(p, selfID, counterpartRole)
}

func normalizePayload(p wirePayload, selfID int, counterpartRole Role) (Event, error) {
	text := p.Message
	if text == "" {
		text = p.Text
	}
	if text == "" {
		return Event{}, ErrEmptyMessage
	}

	timestamp := coerceMillis(p.CreatedAt)
	if timestamp == 0 {
		timestamp = coerceMillis(p.Timestamp)
	}
	if timestamp == 0 {
		timestamp = time.Now().UnixMilli()
	}

	fromID, ok := coerceInt(p.FromID)
	if !ok {
		fromID, ok = coerceInt(p.FromUserID)
	}
	if !ok && p.From != nil {
		fromID, _ = coerceInt(p.From.ID)
	}

	toID, ok := coerceInt(p.ToID)
	if !ok {
		toID, ok = coerceInt(p.ToSellerID)
	}
	if !ok {
		toID, _ = coerceInt(p.ToUserID)
	}

	chatID, _ := coerceInt(p.ChatID)

	id := coerceID(p.ID)
	if id == "" {
		id = fmt.Sprintf("srv-%d", timestamp)
	}

	from := string(counterpartRole)
	if fromID == selfID {
		from = SelfSender
	}

	return Event{
		Message: ChatMessage{
			ID:        id,
			From:      from,
			Text:      text,
			Timestamp: timestamp,
		},
		FromID:       fromID,
		ToID:         toID,
		ChatID:       chatID,
		ProductID:    p.ProductID,
		ClientTempID: p.ClientTempID,
	}, nil
}

// coerceInt accepts the numeric and string encodings clients send for ids.
func coerceInt(v any) (int, bool) {
	switch value := v.(type) {
	case float64:
		return int(value), true
	case int:
		return value, true
	case json.Number:
		parsed, err := value.Int64()
		if err != nil {
			return 0, false
		}
		return int(parsed), true
	case string:
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// coerceMillis accepts a millisecond epoch number or an RFC3339 string.
func coerceMillis(v any) int64 {
	switch value := v.(type) {
	case float64:
		return int64(value)
	case int64:
		return value
	case json.Number:
		parsed, err := value.Int64()
		if err != nil {
			return 0
		}
		return parsed
	case string:
		if value == "" {
			return 0
		}
		if parsed, err := time.Parse(time.RFC3339Nano, value); err == nil {
			return parsed.UnixMilli()
		}
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
		return 0
	default:
		return 0
	}
}

func coerceID(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case float64:
		return strconv.FormatInt(int64(value), 10)
	case json.Number:
		return value.String()
	default:
		return ""
	}
}
