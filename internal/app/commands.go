package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/nikolayk812/storefront-state/internal/catalog"
	"github.com/nikolayk812/storefront-state/internal/domain"
	"github.com/nikolayk812/storefront-state/internal/port"
	"github.com/nikolayk812/storefront-state/internal/state"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/currency"
)

// ErrUsage reports a malformed command line.
var ErrUsage = errors.New("usage")

const usage = `commands:
  products [query] [category]     list the catalog
  cart                            show the cart
  add <product-id>                add one unit to the cart
  remove <product-id>             remove a cart line
  qty <product-id> <quantity>     set a line quantity (<= 0 removes)
  clear                           empty the cart
  wishlist                        show the wishlist
  wish <product-id>               add to the wishlist
  unwish <product-id>             remove from the wishlist
  signin <email> <password>
  signup <name> <email> <password>
  google                          sign in with Google
  signout
  account                         show account and budget status
  budget <amount>                 set the budget ceiling
  checkout                        buy the cart
  dump                            print raw stored entries`

type commands struct {
	store     *state.Store
	kv        port.KVStore
	out       io.Writer
	in        *bufio.Reader
	unit      currency.Unit
	assumeYes bool
	logger    *zap.Logger
}

func (c *commands) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(c.out, usage)
		return nil
	}

	name, rest := args[0], args[1:]
	switch name {
	case "help":
		fmt.Fprintln(c.out, usage)
		return nil
	case "products":
		return c.products(rest)
	case "cart":
		return c.cart()
	case "add":
		return c.withProduct(rest, func(p domain.Product) error {
			if err := c.store.Catalog.AddToCart(ctx, p); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "%s added to cart\n", p.Name)
			return nil
		})
	case "remove":
		if len(rest) != 1 {
			return fmt.Errorf("%w: remove <product-id>", ErrUsage)
		}
		return c.store.Catalog.RemoveFromCart(ctx, rest[0])
	case "qty":
		return c.quantity(ctx, rest)
	case "clear":
		return c.store.Catalog.ClearCart(ctx)
	case "wishlist":
		return c.wishlist()
	case "wish":
		return c.withProduct(rest, func(p domain.Product) error {
			if c.store.Catalog.IsInWishlist(p.ID) {
				fmt.Fprintln(c.out, "This item is already in your wishlist")
				return nil
			}
			if err := c.store.Catalog.AddToWishlist(ctx, p); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "%s added to wishlist\n", p.Name)
			return nil
		})
	case "unwish":
		if len(rest) != 1 {
			return fmt.Errorf("%w: unwish <product-id>", ErrUsage)
		}
		return c.store.Catalog.RemoveFromWishlist(ctx, rest[0])
	case "signin":
		if len(rest) != 2 {
			return fmt.Errorf("%w: signin <email> <password>", ErrUsage)
		}
		if err := c.store.Accounts.SignIn(ctx, rest[0], rest[1]); err != nil {
			return err
		}
		return c.account()
	case "signup":
		if len(rest) != 3 {
			return fmt.Errorf("%w: signup <name> <email> <password>", ErrUsage)
		}
		if err := c.store.Accounts.SignUp(ctx, rest[0], rest[1], rest[2]); err != nil {
			return err
		}
		return c.account()
	case "google":
		if err := c.store.Accounts.SignInWithGoogle(ctx); err != nil {
			return err
		}
		return c.account()
	case "signout":
		return c.store.Accounts.SignOut(ctx)
	case "account":
		return c.account()
	case "budget":
		return c.budget(ctx, rest)
	case "checkout":
		return c.checkout(ctx)
	case "dump":
		return c.dump(ctx)
	default:
		return fmt.Errorf("%w: unknown command %q", ErrUsage, name)
	}
}

func (c *commands) money(amount decimal.Decimal) string {
	return domain.NewMoney(amount, c.unit).String()
}

func (c *commands) withProduct(args []string, fn func(domain.Product) error) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: expected <product-id>", ErrUsage)
	}
	p, ok := catalog.Find(args[0])
	if !ok {
		return fmt.Errorf("product %q not found", args[0])
	}
	return fn(p)
}

func (c *commands) products(args []string) error {
	var query, category string
	if len(args) > 0 {
		query = args[0]
	}
	if len(args) > 1 {
		category = args[1]
	}

	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tRATING\tPRICE\tWISHLIST")
	for _, p := range catalog.Filter(query, category) {
		wished := ""
		if c.store.Catalog.IsInWishlist(p.ID) {
			wished = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1f\t%s\t%s\n", p.ID, p.Name, p.Category, p.Rating, c.money(p.Price), wished)
	}
	return w.Flush()
}

func (c *commands) cart() error {
	cart := c.store.Catalog.Cart()
	if cart.IsEmpty() {
		fmt.Fprintln(c.out, "Your cart is empty")
		return nil
	}

	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tQTY\tPRICE\tSUBTOTAL")
	for _, line := range cart.Lines {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			line.Product.ID, line.Product.Name, line.Quantity, c.money(line.Product.Price), c.money(line.Subtotal()))
	}
	fmt.Fprintf(w, "\t\t%d items\t\t%s\n", cart.TotalItems(), c.money(cart.TotalPrice()))
	if err := w.Flush(); err != nil {
		return err
	}

	if account, ok := c.store.Accounts.Current(); ok {
		remaining := account.Remaining().Sub(cart.TotalPrice())
		fmt.Fprintf(c.out, "Budget: %s remaining after purchase\n", c.money(remaining))
	}
	return nil
}

func (c *commands) quantity(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: qty <product-id> <quantity>", ErrUsage)
	}
	qty, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("%w: quantity %q is not a number", ErrUsage, args[1])
	}
	return c.store.Catalog.UpdateQuantity(ctx, args[0], qty)
}

func (c *commands) wishlist() error {
	wishlist := c.store.Catalog.Wishlist()
	if len(wishlist.Products) == 0 {
		fmt.Fprintln(c.out, "Your wishlist is empty")
		return nil
	}

	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE")
	for _, p := range wishlist.Products {
		fmt.Fprintf(w, "%s\t%s\t%s\n", p.ID, p.Name, c.money(p.Price))
	}
	return w.Flush()
}

func (c *commands) account() error {
	account, ok := c.store.Accounts.Current()
	if !ok {
		fmt.Fprintln(c.out, "Not signed in")
		return nil
	}

	status := account.BudgetStatus()
	fmt.Fprintf(c.out, "%s <%s>\n", account.Name, account.Email)
	fmt.Fprintf(c.out, "Budget: %s  Spent: %s  Remaining: %s\n",
		c.money(account.Budget), c.money(account.Spent), c.money(status.Remaining))
	fmt.Fprintf(c.out, "%s%% used (%s)\n", status.Percentage.StringFixed(0), status.Level)

	if record, ok := c.store.LastCheckout(); ok {
		fmt.Fprintf(c.out, "Last order %s: %s on %s\n",
			record.ID, c.money(record.SpendDelta), record.CommittedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func (c *commands) budget(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: budget <amount>", ErrUsage)
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(args[0]))
	if err != nil {
		return fmt.Errorf("%w: %v", state.ErrInvalidBudget, err)
	}
	if err := c.store.Accounts.UpdateBudget(ctx, amount); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "Budget updated successfully")
	return nil
}

func (c *commands) checkout(ctx context.Context) error {
	result, err := c.store.Checkout(ctx, func(q domain.CheckoutQuote) bool {
		fmt.Fprintf(c.out, "This purchase would exceed your budget by %s\n", c.money(q.Overage))
		if c.assumeYes {
			return true
		}
		return confirm(c.in, c.out, "Continue anyway?")
	})
	if err != nil {
		return err
	}

	if !result.Completed {
		fmt.Fprintln(c.out, "Checkout cancelled")
		return nil
	}

	fmt.Fprintf(c.out, "Order completed! Thank you for your purchase of %s\n", c.money(result.Record.SpendDelta))
	return nil
}

func (c *commands) dump(ctx context.Context) error {
	lister, ok := c.kv.(port.Lister)
	if !ok {
		return fmt.Errorf("backend cannot list entries")
	}

	entries, err := lister.List(ctx)
	if err != nil {
		return fmt.Errorf("lister.List: %w", err)
	}

	for _, e := range entries {
		fmt.Fprintf(c.out, "%s = %s\n", e.Key, e.Value)
	}
	c.logger.Debug("dumped entries", zap.Int("count", len(entries)))
	return nil
}
