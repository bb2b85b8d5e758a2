package state

import (
	"sync"

	"github.com/nikolayk812/storefront-state/internal/domain"
)

type EventKind int

const (
	// EventOptimistic carries a value applied in memory whose write is in flight.
	EventOptimistic EventKind = iota
	// EventCommitted carries a value that is now durable.
	EventCommitted
	// EventStorageFailed carries the rolled-back value after a write gave up.
	EventStorageFailed
)

func (k EventKind) String() string {
	switch k {
	case EventOptimistic:
		return "optimistic"
	case EventCommitted:
		return "committed"
	case EventStorageFailed:
		return "storage_failed"
	default:
		return "unknown"
	}
}

type Event struct {
	Kind     EventKind
	Op       string
	Snapshot Snapshot
	Err      error
}

// Snapshot is a copy of everything the store owns. Consumers may keep it; later
// mutations never change it.
type Snapshot struct {
	Account      domain.Account
	SignedIn     bool
	Cart         domain.Cart
	Wishlist     domain.Wishlist
	LastCheckout *domain.CheckoutRecord
}

func (s Snapshot) clone() Snapshot {
	out := s
	out.Cart = s.Cart.Clone()
	out.Wishlist = s.Wishlist.Clone()
	if s.LastCheckout != nil {
		record := *s.LastCheckout
		record.Items = append([]domain.CartLine(nil), s.LastCheckout.Items...)
		out.LastCheckout = &record
	}
	return out
}

type hub struct {
	mu     sync.Mutex
	subs   map[int]chan Event
	next   int
	closed bool
}

func newHub() *hub {
	return &hub{subs: make(map[int]chan Event)}
}

func (h *hub) subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 1
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		ch := make(chan Event)
		close(ch)
		return ch, func() {}
	}

	id := h.next
	h.next++
	ch := make(chan Event, buffer)
	h.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()

			if sub, ok := h.subs[id]; ok {
				delete(h.subs, id)
				close(sub)
			}
		})
	}
}

// publish never blocks: a subscriber whose buffer is full misses the event.
func (h *hub) publish(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true

	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}
