package state

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront-state/internal/domain"
	"github.com/nikolayk812/storefront-state/internal/port"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// accountNamespace seeds sign-in IDs so one email always maps to one account ID.
var accountNamespace = uuid.MustParse("6f1d8a52-3c0e-4b7a-9d55-2f4b8e61c9a7")

const (
	googleName  = "Google User"
	googleEmail = "user@gmail.com"
)

// Accounts is the account and budget state. Identity is not verified: any
// non-empty credentials open a session.
type Accounts struct {
	s *Store
}

func (a *Accounts) Current() (domain.Account, bool) {
	snap := a.s.Snapshot()
	return snap.Account, snap.SignedIn
}

func (a *Accounts) BudgetStatus() (domain.BudgetStatus, bool) {
	account, ok := a.Current()
	if !ok {
		return domain.BudgetStatus{}, false
	}
	return account.BudgetStatus(), true
}

func (a *Accounts) SignIn(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return ErrInvalidCredentials
	}

	return a.startSession(ctx, "sign_in", domain.Account{
		ID:    uuid.NewSHA1(accountNamespace, []byte(strings.ToLower(email))).String(),
		Name:  nameFromEmail(email),
		Email: email,
	})
}

func (a *Accounts) SignUp(ctx context.Context, name, email, password string) error {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return ErrInvalidCredentials
	}

	return a.startSession(ctx, "sign_up", domain.Account{
		ID:    uuid.NewString(),
		Name:  name,
		Email: email,
	})
}

func (a *Accounts) SignInWithGoogle(ctx context.Context) error {
	return a.startSession(ctx, "sign_in_google", domain.Account{
		ID:    "google_" + uuid.NewString(),
		Name:  googleName,
		Email: googleEmail,
	})
}

// SignOut forgets the session and the checkout record tied to it.
func (a *Accounts) SignOut(ctx context.Context) error {
	a.s.opMu.Lock()
	defer a.s.opMu.Unlock()

	next := a.s.read()
	next.Account = domain.Account{}
	next.SignedIn = false
	next.LastCheckout = nil

	return a.s.commit(ctx, "sign_out", next, []port.Mutation{
		port.DeleteMutation(keyAccount),
		port.DeleteMutation(keyLastCheckout),
	})
}

func (a *Accounts) UpdateBudget(ctx context.Context, ceiling decimal.Decimal) error {
	if !ceiling.IsPositive() {
		return ErrInvalidBudget
	}

	a.s.opMu.Lock()
	defer a.s.opMu.Unlock()

	next := a.s.read()
	if !next.SignedIn {
		return ErrNotSignedIn
	}
	next.Account.Budget = ceiling
	return a.writeAccount(ctx, "update_budget", next)
}

// UpdateSpent adds amount to the cumulative spend as given. The sign is not
// checked; a negative amount lowers spend and is logged as an adjustment.
func (a *Accounts) UpdateSpent(ctx context.Context, amount decimal.Decimal) error {
	a.s.opMu.Lock()
	defer a.s.opMu.Unlock()

	next := a.s.read()
	if !next.SignedIn {
		return ErrNotSignedIn
	}
	if amount.IsNegative() {
		a.s.logger.Warn("negative spend adjustment",
			zap.String("account_id", next.Account.ID),
			zap.String("amount", amount.String()))
	}
	next.Account.Spent = next.Account.Spent.Add(amount)
	return a.writeAccount(ctx, "update_spent", next)
}

func (a *Accounts) startSession(ctx context.Context, op string, account domain.Account) error {
	account.Budget = a.s.defaultBudget
	account.Spent = decimal.Zero

	a.s.opMu.Lock()
	defer a.s.opMu.Unlock()

	next := a.s.read()
	next.Account = account
	next.SignedIn = true

	// a checkout record belongs to the account that made it
	if next.LastCheckout == nil || next.LastCheckout.AccountID == account.ID {
		return a.writeAccount(ctx, op, next)
	}

	value, err := encodeAccount(next.Account)
	if err != nil {
		return err
	}
	next.LastCheckout = nil
	return a.s.commit(ctx, op, next, []port.Mutation{
		port.SetMutation(keyAccount, value),
		port.DeleteMutation(keyLastCheckout),
	})
}

func (a *Accounts) writeAccount(ctx context.Context, op string, next Snapshot) error {
	value, err := encodeAccount(next.Account)
	if err != nil {
		return err
	}
	return a.s.commit(ctx, op, next, []port.Mutation{port.SetMutation(keyAccount, value)})
}

func nameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	if local == "" {
		return email
	}
	return local
}
