package eventbus

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/amal-assist/amal/pkg/model"
	"github.com/amal-assist/amal/pkg/utils/logging"
)

// MaxHistory is the upper bound of retained events. Older events are
// evicted first when the bound is exceeded.
const MaxHistory = 100

// Subscriber receives the payload of a published event. Subscribers run
// synchronously in registration order; a panicking subscriber does not
// prevent later ones from running.
type Subscriber func(ctx context.Context, payload map[string]any)

// Bus fans out application events (detection, classification, message,
// error, startup, session_end) to registered subscribers and retains a
// bounded history. Construct one per application and pass it down; there
// is no package-level instance.
type Bus struct {
	mu      sync.Mutex
	subs    map[model.EventKind][]Subscriber
	history []model.Event
}

func New() *Bus {
	return &Bus{
		subs: make(map[model.EventKind][]Subscriber),
	}
}

// Register appends a subscriber for the given event kind. Unknown kinds
// are rejected.
func (b *Bus) Register(kind model.EventKind, fn Subscriber) error {
	if err := kind.Validate(); err != nil {
		return goerr.Wrap(err, "cannot register subscriber")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[kind] = append(b.subs[kind], fn)
	return nil
}

// Publish records the event and invokes all subscribers for the kind in
// registration order. Publishing an unknown kind logs a warning and does
// nothing. Subscriber panics are recovered and logged individually.
func (b *Bus) Publish(ctx context.Context, kind model.EventKind, payload map[string]any) {
	logger := logging.From(ctx)

	if err := kind.Validate(); err != nil {
		logger.Warn("ignoring event of unknown kind", "kind", kind)
		return
	}

	b.mu.Lock()
	b.history = append(b.history, model.Event{
		Kind:      kind,
		Timestamp: time.Now(),
		Payload:   payload,
	})
	if len(b.history) > MaxHistory {
		b.history = b.history[len(b.history)-MaxHistory:]
	}
	subs := make([]Subscriber, len(b.subs[kind]))
	copy(subs, b.subs[kind])
	b.mu.Unlock()

	logger.Debug("event published", "kind", kind)

	for _, fn := range subs {
		b.invoke(ctx, kind, fn, payload)
	}
}

func (b *Bus) invoke(ctx context.Context, kind model.EventKind, fn Subscriber, payload map[string]any) {
	defer func() {
		if r := recover(); r != nil {
			logging.From(ctx).Error("subscriber failed", "kind", kind, "panic", r)
		}
	}()
	fn(ctx, payload)
}

// History returns a snapshot copy of the retained events, oldest first.
func (b *Bus) History() []model.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]model.Event, len(b.history))
	copy(out, b.history)
	return out
}

// SaveHistory serializes the full event history as JSON.
func (b *Bus) SaveHistory(w io.Writer) error {
	events := b.History()

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(events); err != nil {
		return goerr.Wrap(err, "failed to serialize event history")
	}
	return nil
}

// ClearHistory empties the event history. Subscriptions are kept.
func (b *Bus) ClearHistory() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.history = nil
}
