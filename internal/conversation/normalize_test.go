package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAliasedSenderFields(t *testing.T) {
	payloads := []string{
		`{"id":"m1","message":"hi","timestamp":1700000000000,"fromId":42,"toId":1}`,
		`{"id":"m1","text":"hi","timestamp":1700000000000,"fromUserId":42,"toUserId":1}`,
		`{"id":"m1","message":"hi","timestamp":1700000000000,"from":{"id":42},"toSellerId":1}`,
	}

	for _, raw := range payloads {
		ev, err := Normalize([]byte(raw), 1, RoleSeller)
		require.NoError(t, err, raw)
		assert.Equal(t, 42, ev.FromID, raw)
		assert.Equal(t, 1, ev.ToID, raw)
		assert.Equal(t, "hi", ev.Message.Text, raw)
		assert.Equal(t, "seller", ev.Message.From, raw)
		assert.Equal(t, int64(1700000000000), ev.Message.Timestamp, raw)
	}
}

func TestNormalizeStringIDsAndCreatedAt(t *testing.T) {
	raw := `{"id":7,"message":"hello","createdAt":"2024-05-01T10:30:00Z","fromId":"42","toId":"1"}`

	ev, err := Normalize([]byte(raw), 1, RoleSeller)
	require.NoError(t, err)

	assert.Equal(t, "7", ev.Message.ID)
	assert.Equal(t, 42, ev.FromID)
	assert.Equal(t, 1, ev.ToID)
	assert.Equal(t, int64(1714559400000), ev.Message.Timestamp)
}

func TestNormalizeMissingIDFallsBackToServerTag(t *testing.T) {
	raw := `{"message":"no id","timestamp":12345,"fromId":42,"toId":1}`

	ev, err := Normalize([]byte(raw), 1, RoleSeller)
	require.NoError(t, err)

	assert.Equal(t, "srv-12345", ev.Message.ID)
}

func TestNormalizeOwnMessageMarkedMe(t *testing.T) {
	raw := `{"id":"m2","message":"mine","timestamp":5,"fromId":1,"toId":42}`

	ev, err := Normalize([]byte(raw), 1, RoleSeller)
	require.NoError(t, err)

	assert.Equal(t, SelfSender, ev.Message.From)
}

func TestNormalizeCarriesContextFields(t *testing.T) {
	raw := `{"message":"ctx","timestamp":5,"fromId":1,"toId":42,"chatId":9,"productId":"ring-7","clientTempId":"me-123"}`

	ev, err := Normalize([]byte(raw), 1, RoleSeller)
	require.NoError(t, err)

	assert.Equal(t, 9, ev.ChatID)
	assert.Equal(t, "ring-7", ev.ProductID)
	assert.Equal(t, "me-123", ev.ClientTempID)
}

func TestNormalizeRejectsEmptyText(t *testing.T) {
	_, err := Normalize([]byte(`{"fromId":42,"toId":1}`), 1, RoleSeller)
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestNormalizeRejectsMalformedJSON(t *testing.T) {
	_, err := Normalize([]byte(`{`), 1, RoleSeller)
	assert.Error(t, err)
}
