package state

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nikolayk812/storefront-state/internal/port"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultBudget is the ceiling a fresh account starts with.
var DefaultBudget = decimal.NewFromInt(10000)

type Option func(*Store)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithRetry(cfg RetryConfig) Option {
	return func(s *Store) {
		s.retry = cfg
	}
}

func WithDefaultBudget(budget decimal.Decimal) Option {
	return func(s *Store) {
		s.defaultBudget = budget
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Store is the state layer: Catalog for cart and wishlist, Accounts for the
// session and budget, and Checkout spanning both.
type Store struct {
	Catalog  *Catalog
	Accounts *Accounts

	// opMu serialises mutations for their whole duration, persistence included.
	opMu sync.Mutex
	// mu guards current and committed.
	mu        sync.RWMutex
	current   Snapshot
	committed Snapshot

	persist       *persister
	hub           *hub
	logger        *zap.Logger
	retry         RetryConfig
	defaultBudget decimal.Decimal
	now           func() time.Time
}

func New(kv port.KVStore, opts ...Option) (*Store, error) {
	if kv == nil {
		return nil, fmt.Errorf("kv store is nil")
	}

	s := &Store{
		hub:           newHub(),
		logger:        zap.NewNop(),
		retry:         DefaultRetryConfig(),
		defaultBudget: DefaultBudget,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if !s.defaultBudget.IsPositive() {
		return nil, fmt.Errorf("default budget %s: %w", s.defaultBudget, ErrInvalidBudget)
	}

	s.persist = &persister{kv: kv, retry: s.retry, logger: s.logger}
	s.Catalog = &Catalog{s: s}
	s.Accounts = &Accounts{s: s}

	return s, nil
}

// Load replaces the in-memory state with what the key-value store holds. A
// value that cannot be decoded is logged and treated as absent; a store that
// cannot be read is an error.
func (s *Store) Load(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	var loaded Snapshot

	if value, ok, err := s.persist.read(ctx, "load", keyAccount); err != nil {
		return err
	} else if ok {
		if account, err := decodeAccount(value); err != nil {
			s.logger.Warn("discarding stored account", zap.Error(err))
		} else {
			loaded.Account = account
			loaded.SignedIn = true
		}
	}

	if value, ok, err := s.persist.read(ctx, "load", keyCart); err != nil {
		return err
	} else if ok {
		if cart, err := decodeCart(value); err != nil {
			s.logger.Warn("discarding stored cart", zap.Error(err))
		} else {
			loaded.Cart = cart.Normalize()
		}
	}

	if value, ok, err := s.persist.read(ctx, "load", keyWishlist); err != nil {
		return err
	} else if ok {
		if wishlist, err := decodeWishlist(value); err != nil {
			s.logger.Warn("discarding stored wishlist", zap.Error(err))
		} else {
			loaded.Wishlist = wishlist.Normalize()
		}
	}

	if value, ok, err := s.persist.read(ctx, "load", keyLastCheckout); err != nil {
		return err
	} else if ok {
		if record, err := decodeCheckout(value); err != nil {
			s.logger.Warn("discarding stored checkout record", zap.Error(err))
		} else {
			loaded.LastCheckout = &record
		}
	}

	s.mu.Lock()
	s.current = loaded
	s.committed = loaded
	s.mu.Unlock()

	s.logger.Debug("state loaded",
		zap.Bool("signed_in", loaded.SignedIn),
		zap.Int("cart_lines", len(loaded.Cart.Lines)),
		zap.Int("wishlist_entries", len(loaded.Wishlist.Products)))

	s.hub.publish(Event{Kind: EventCommitted, Op: "load", Snapshot: loaded.clone()})
	return nil
}

// Snapshot returns the value observers last saw, optimistic writes included.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current.clone()
}

// Subscribe delivers every state change. The returned func unsubscribes and
// closes the channel.
func (s *Store) Subscribe(buffer int) (<-chan Event, func()) {
	return s.hub.subscribe(buffer)
}

// Close ends every subscription. Subscribing afterwards yields a closed channel.
func (s *Store) Close() {
	s.hub.close()
}

// commit makes next the observed value, writes the mutations and either keeps
// next as durable or rolls back to the last durable snapshot. Callers hold opMu.
func (s *Store) commit(ctx context.Context, op string, next Snapshot, mutations []port.Mutation) error {
	s.mu.Lock()
	s.current = next
	s.mu.Unlock()
	s.hub.publish(Event{Kind: EventOptimistic, Op: op, Snapshot: next.clone()})

	if err := s.persist.write(ctx, op, mutations); err != nil {
		s.mu.Lock()
		s.current = s.committed
		rolledBack := s.committed.clone()
		s.mu.Unlock()

		s.logger.Error("state write failed, rolled back",
			zap.String("op", op),
			zap.Error(err))
		s.hub.publish(Event{Kind: EventStorageFailed, Op: op, Snapshot: rolledBack, Err: err})
		return err
	}

	s.mu.Lock()
	s.committed = next
	s.mu.Unlock()
	s.hub.publish(Event{Kind: EventCommitted, Op: op, Snapshot: next.clone()})

	return nil
}

// read returns a copy of the current snapshot for a mutation to build on.
// Callers hold opMu, so nothing else changes it meanwhile.
func (s *Store) read() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current.clone()
}
