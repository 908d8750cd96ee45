// Package conversation maintains the per-client view of a chat thread: an
// ordered message list fed from a cache prime, an authoritative history
// replace and live events, persisted back to the cache on every transition.
package conversation

import "fmt"

// Role identifies which side of the marketplace owns the view.
type Role string

const (
	RoleUser   Role = "user"
	RoleSeller Role = "seller"
)

// Counterpart returns the role on the other side of the conversation.
func (r Role) Counterpart() Role {
	if r == RoleSeller {
		return RoleUser
	}
	return RoleSeller
}

// Status tags a locally sent message's delivery state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusFailed    Status = "failed"
)

// SelfSender marks messages originated by the view's own side.
const SelfSender = "me"

// ChatMessage is the single internal message shape. Everything crossing the
// wire boundary is normalized into it; identity is ID, ordering is insertion
// order into the view.
type ChatMessage struct {
	ID         string `json:"id"`
	From       string `json:"from"`
	Text       string `json:"text"`
	Timestamp  int64  `json:"timestamp"`
	SenderName string `json:"senderName,omitempty"`
	Status     Status `json:"status,omitempty"`
}

// Key derives the cache key scoping a conversation. Sellers key threads by
// the buyer; buyers key them by seller and product ("general" when the
// thread is not product-scoped).
func Key(role Role, counterpartID int, productID string) string {
	if role == RoleSeller {
		return fmt.Sprintf("chat:seller:%d", counterpartID)
	}
	if productID == "" {
		productID = "general"
	}
	return fmt.Sprintf("chat:user:%d:%s", counterpartID, productID)
}
