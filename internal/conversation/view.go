package conversation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"marketplace-service/internal/logger"
)

// State of a conversation view.
type State int

const (
	StateInit State = iota
	StateLoadingHistory
	StateReady
	StateClosed
)

// Sender relays a local message toward the backend. Delivery is fire and
// forget from the view's perspective; a returned error only flips the
// message's status tag.
type Sender interface {
	Send(ctx context.Context, ev Event) error
}

// HistorySource yields the authoritative past messages of the conversation.
type HistorySource interface {
	History(ctx context.Context) ([]ChatMessage, error)
}

// ViewConfig carries the identity of a conversation view.
type ViewConfig struct {
	Role          Role
	SelfID        int
	CounterpartID int
	ProductID     string
	Store         Store
	Sender        Sender
	Log           *logger.Logger
}

// View is one mounted conversation: an ordered message list merged from the
// cache prime, a wholesale history replace and live events. Display order is
// arrival order; the list is never re-sorted by timestamp after the history
// replace, so out-of-order arrival stays visible as such.
type View struct {
	mu     sync.Mutex
	state  State
	key    string
	cfg    ViewConfig
	log    *logger.Logger
	msgs   []ChatMessage
	now    func() time.Time
}

// NewView builds a view in StateInit.
func NewView(cfg ViewConfig) *View {
	log := cfg.Log
	if log == nil {
		log = logger.NewNop()
	}
	return &View{
		state: StateInit,
		key:   Key(cfg.Role, cfg.CounterpartID, cfg.ProductID),
		cfg:   cfg,
		log:   log.With("conversation", Key(cfg.Role, cfg.CounterpartID, cfg.ProductID)),
		now:   time.Now,
	}
}

// Key returns the conversation's cache key.
func (v *View) Key() string {
	return v.key
}

// State returns the current lifecycle state.
func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Attach primes the view from the cache store so prior-session messages show
// immediately, and moves to StateLoadingHistory. A cache read failure only
// degrades to an empty prime.
func (v *View) Attach(ctx context.Context) []ChatMessage {
	cached, err := v.cfg.Store.Load(ctx, v.key)
	if err != nil {
		v.log.Warn("conversation cache read failed", "error", err)
		cached = nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state != StateInit {
		return v.snapshotLocked()
	}
	v.msgs = cached
	v.state = StateLoadingHistory
	return v.snapshotLocked()
}

// LoadHistory fetches the authoritative history and replaces the list
// wholesale, then moves to StateReady. A fetch failure keeps the cached
// prime and still becomes ready; the user sees stale rather than an error.
func (v *View) LoadHistory(ctx context.Context, src HistorySource) []ChatMessage {
	history, err := src.History(ctx)

	v.mu.Lock()
	if v.state == StateClosed {
		defer v.mu.Unlock()
		return v.snapshotLocked()
	}
	if err == nil {
		v.msgs = history
	}
	v.state = StateReady
	snapshot := v.snapshotLocked()
	v.mu.Unlock()

	if err != nil {
		v.log.Warn("history fetch failed, serving cached messages", "error", err)
	} else {
		v.persist(ctx)
	}
	return snapshot
}

// Accept appends a live event if it is addressed to this conversation's
// counterpart; anything else is silently dropped. Events arriving before the
// view is attached or after it is closed are dropped as well.
func (v *View) Accept(ctx context.Context, ev Event) bool {
	other := ev.FromID
	if other == v.cfg.SelfID {
		other = ev.ToID
	}
	if other != v.cfg.CounterpartID {
		return false
	}

	v.mu.Lock()
	if v.state != StateLoadingHistory && v.state != StateReady {
		v.mu.Unlock()
		return false
	}
	v.msgs = append(v.msgs, ev.Message)
	v.mu.Unlock()

	v.persist(ctx)
	return true
}

// Send appends an optimistic local message with a synthesized id and relays
// it through the sender. The status tag moves pending -> confirmed/failed on
// the relay outcome; there is no rollback path.
func (v *View) Send(ctx context.Context, text string) ChatMessage {
	now := v.now().UnixMilli()
	msg := ChatMessage{
		ID:        fmt.Sprintf("me-%d", now),
		From:      SelfSender,
		Text:      text,
		Timestamp: now,
		Status:    StatusPending,
	}

	v.mu.Lock()
	if v.state == StateClosed {
		v.mu.Unlock()
		msg.Status = StatusFailed
		return msg
	}
	v.msgs = append(v.msgs, msg)
	v.mu.Unlock()
	v.persist(ctx)

	ev := Event{
		Message:      msg,
		FromID:       v.cfg.SelfID,
		ToID:         v.cfg.CounterpartID,
		ProductID:    v.cfg.ProductID,
		ClientTempID: msg.ID,
	}

	status := StatusConfirmed
	if err := v.cfg.Sender.Send(ctx, ev); err != nil {
		v.log.Warn("message relay failed", "id", msg.ID, "error", err)
		status = StatusFailed
	}

	v.mu.Lock()
	for i := range v.msgs {
		if v.msgs[i].ID == msg.ID {
			v.msgs[i].Status = status
			break
		}
	}
	v.mu.Unlock()
	v.persist(ctx)

	msg.Status = status
	return msg
}

// Messages returns the current list in display order.
func (v *View) Messages() []ChatMessage {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshotLocked()
}

// Close detaches the view; later events and sends are dropped.
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state = StateClosed
}

func (v *View) snapshotLocked() []ChatMessage {
	out := make([]ChatMessage, len(v.msgs))
	copy(out, v.msgs)
	return out
}

// persist re-serializes the full list under the conversation key. Failures
// are logged and swallowed: history degrades to session-only.
func (v *View) persist(ctx context.Context) {
	v.mu.Lock()
	snapshot := v.snapshotLocked()
	v.mu.Unlock()

	if err := v.cfg.Store.Save(ctx, v.key, snapshot); err != nil {
		v.log.Warn("conversation cache write failed", "error", err)
	}
}
