package tasks

import "sync"

// EntityKind identifies the entity family an event is about.
type EntityKind int

const (
	FavoriteEntity EntityKind = iota
	RatingEntity
	CommentEntity
	SessionEntity
)

func (k EntityKind) String() string {
	switch k {
	case FavoriteEntity:
		return "favorite"
	case RatingEntity:
		return "rating"
	case CommentEntity:
		return "comment"
	case SessionEntity:
		return "session"
	default:
		return ""
	}
}

// Event is a change notification published after a mutation reconciles.
type Event struct {
	Kind   EntityKind
	ID     string         // Entity id, e.g. the movie id
	Fields map[string]any // Changed fields for display layers
}

// Subscription is a live event feed. Cancel detaches it from the bus and
// closes C; receiving from a canceled subscription yields the zero Event.
type Subscription struct {
	C      <-chan Event
	cancel func()
}

// Cancel detaches the subscription. Safe to call more than once.
func (s *Subscription) Cancel() {
	s.cancel()
}

// EventBus fans events out to subscribers. Publishing never blocks: a
// subscriber that has fallen behind misses events rather than stalling the
// mutation that published them.
type EventBus struct {
	mu   sync.Mutex
	subs map[int]chan Event
	next int
}

// NewEventBus creates an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subs: make(map[int]chan Event)}
}

// Subscribe registers a new subscriber with a small buffer.
func (b *EventBus) Subscribe() *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++

	ch := make(chan Event, 16)
	b.subs[id] = ch

	var once sync.Once
	return &Subscription{
		C: ch,
		cancel: func() {
			once.Do(func() {
				b.mu.Lock()
				delete(b.subs, id)
				b.mu.Unlock()
				close(ch)
			})
		},
	}
}

// Publish delivers the event to every live subscriber without blocking.
func (b *EventBus) Publish(event Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- event:
		default:
		}
	}
}
