package state

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront-state/internal/domain"
	"github.com/nikolayk812/storefront-state/internal/port"
	"go.uber.org/zap"
)

// ConfirmFunc is asked whether an over-budget checkout should go ahead. It
// runs while the store serialises mutations: it may read the store (Snapshot,
// Cart, Current) but calling any mutating method from it deadlocks.
type ConfirmFunc func(domain.CheckoutQuote) bool

type CheckoutResult struct {
	Quote     domain.CheckoutQuote
	Record    domain.CheckoutRecord
	Completed bool
}

// Quote prices the current cart against the signed-in account.
func (s *Store) Quote() (domain.CheckoutQuote, error) {
	return quote(s.Snapshot())
}

// Checkout commits the cart against the account's spend. Going over budget is a
// soft limit: confirm decides, and a declined or missing confirmation cancels
// without touching any state. A committed checkout writes the new spend, the
// empty cart and the checkout record in one atomic batch.
func (s *Store) Checkout(ctx context.Context, confirm ConfirmFunc) (CheckoutResult, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	next := s.read()
	q, err := quote(next)
	if err != nil {
		return CheckoutResult{}, err
	}

	if q.OverBudget && (confirm == nil || !confirm(q)) {
		s.logger.Info("over-budget checkout declined",
			zap.String("total", q.Total.String()),
			zap.String("overage", q.Overage.String()))
		return CheckoutResult{Quote: q}, nil
	}

	record := domain.CheckoutRecord{
		ID:          uuid.NewString(),
		AccountID:   next.Account.ID,
		SpendDelta:  q.Total,
		ClearCart:   true,
		Items:       next.Cart.Clone().Lines,
		CommittedAt: s.now().UTC(),
	}

	next.Account.Spent = next.Account.Spent.Add(q.Total)
	next.Cart = domain.Cart{}
	next.LastCheckout = &record

	mutations, err := checkoutMutations(next.Account, record)
	if err != nil {
		return CheckoutResult{}, err
	}

	if err := s.commit(ctx, "checkout", next, mutations); err != nil {
		return CheckoutResult{Quote: q}, err
	}

	s.logger.Info("checkout committed",
		zap.String("record_id", record.ID),
		zap.String("total", q.Total.String()),
		zap.Bool("over_budget", q.OverBudget))

	return CheckoutResult{Quote: q, Record: record, Completed: true}, nil
}

// LastCheckout returns the most recent committed checkout of the session.
func (s *Store) LastCheckout() (domain.CheckoutRecord, bool) {
	snap := s.Snapshot()
	if snap.LastCheckout == nil {
		return domain.CheckoutRecord{}, false
	}
	return *snap.LastCheckout, true
}

func quote(snap Snapshot) (domain.CheckoutQuote, error) {
	if !snap.SignedIn {
		return domain.CheckoutQuote{}, ErrNotSignedIn
	}
	if snap.Cart.IsEmpty() {
		return domain.CheckoutQuote{}, ErrCartEmpty
	}
	return domain.NewCheckoutQuote(snap.Account, snap.Cart), nil
}

func checkoutMutations(account domain.Account, record domain.CheckoutRecord) ([]port.Mutation, error) {
	accountValue, err := encodeAccount(account)
	if err != nil {
		return nil, err
	}
	cartValue, err := encodeCart(domain.Cart{})
	if err != nil {
		return nil, err
	}
	recordValue, err := encodeCheckout(record)
	if err != nil {
		return nil, err
	}

	return []port.Mutation{
		port.SetMutation(keyAccount, accountValue),
		port.SetMutation(keyCart, cartValue),
		port.SetMutation(keyLastCheckout, recordValue),
	}, nil
}
