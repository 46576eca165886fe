package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/ecoshop/storefront/internal/core/domain"
	"github.com/ecoshop/storefront/internal/core/ports"
)

// LineSerializer runs fn after every earlier call with the same key has
// finished. The queue dispatcher implements it.
type LineSerializer interface {
	Do(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// CartService keeps a cached copy of the server cart. Every mutation is
// followed by a re-fetch; a refresh whose response arrives after a newer one
// has been applied is discarded.
type CartService struct {
	cart   ports.CartAPI
	orders ports.OrderAPI
	lanes  LineSerializer
	log    zerolog.Logger

	issued atomic.Uint64

	mu      sync.Mutex
	view    ports.CartView
	applied uint64
}

// NewCartService returns a CartService. lanes may be nil, in which case
// mutations run on the caller's goroutine without per-line ordering.
func NewCartService(cart ports.CartAPI, orders ports.OrderAPI, lanes LineSerializer, log zerolog.Logger) *CartService {
	return &CartService{
		cart:   cart,
		orders: orders,
		lanes:  lanes,
		log:    log,
		view:   ports.CartView{Total: domain.FormatMoney(domain.CartTotal(nil))},
	}
}

// Cached returns the last applied cart view.
func (c *CartService) Cached() ports.CartView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// Reset drops the cached cart. Refreshes still in flight are discarded when
// they complete, so lines of a previous identity never come back.
func (c *CartService) Reset() {
	seq := c.issued.Add(1)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.applied = seq
	c.view = ports.CartView{Total: domain.FormatMoney(domain.CartTotal(nil)), Seq: seq}
}

// Refresh fetches the cart and applies it unless a newer refresh already won.
func (c *CartService) Refresh(ctx context.Context) (ports.CartView, error) {
	seq := c.issued.Add(1)
	lines, err := c.cart.GetCart(ctx)
	if err != nil {
		return c.Cached(), fmt.Errorf("fetch cart: %w", err)
	}
	return c.apply(seq, lines), nil
}

func (c *CartService) apply(seq uint64, lines []domain.CartLine) ports.CartView {
	c.mu.Lock()
	defer c.mu.Unlock()
	if seq < c.applied {
		c.log.Debug().Uint64("seq", seq).Uint64("applied", c.applied).Msg("discarding stale cart response")
		return c.view
	}
	c.applied = seq
	c.view = ports.CartView{
		Lines: lines,
		Total: domain.FormatMoney(domain.CartTotal(lines)),
		Seq:   seq,
	}
	return c.view
}

// Add puts quantity units of a product into the cart.
func (c *CartService) Add(ctx context.Context, productID int64, quantity int) (ports.CartView, error) {
	if quantity < 1 {
		return c.Cached(), domain.ErrInvalidQuantity
	}
	if _, err := c.cart.AddToCart(ctx, productID, quantity); err != nil {
		return c.Cached(), fmt.Errorf("add to cart: %w", err)
	}
	return c.Refresh(ctx)
}

// UpdateQuantity sets the quantity of a line. A quantity of zero or less
// removes the line.
func (c *CartService) UpdateQuantity(ctx context.Context, lineID int64, quantity int) (ports.CartView, error) {
	if quantity <= 0 {
		return c.Remove(ctx, lineID)
	}
	err := c.onLine(ctx, lineID, func(ctx context.Context) error {
		_, err := c.cart.UpdateCartLine(ctx, lineID, quantity)
		return err
	})
	if err != nil {
		return c.afterFailure(ctx, fmt.Errorf("update quantity: %w", err))
	}
	return c.Refresh(ctx)
}

// Remove deletes a line from the cart.
func (c *CartService) Remove(ctx context.Context, lineID int64) (ports.CartView, error) {
	err := c.onLine(ctx, lineID, func(ctx context.Context) error {
		_, err := c.cart.RemoveCartLine(ctx, lineID)
		return err
	})
	if err != nil {
		return c.afterFailure(ctx, fmt.Errorf("remove item: %w", err))
	}
	return c.Refresh(ctx)
}

// Checkout places an order from the current cart and returns the server's
// confirmation message.
func (c *CartService) Checkout(ctx context.Context) (string, ports.CartView, error) {
	ack, err := c.orders.Checkout(ctx)
	if err != nil {
		return "", c.Cached(), fmt.Errorf("checkout: %w", err)
	}
	msg := "Order placed successfully!"
	if ack != nil && ack.Message != "" {
		msg = ack.Message
	}
	view, err := c.Refresh(ctx)
	return msg, view, err
}

func (c *CartService) onLine(ctx context.Context, lineID int64, fn func(ctx context.Context) error) error {
	if c.lanes == nil {
		return fn(ctx)
	}
	return c.lanes.Do(ctx, strconv.FormatInt(lineID, 10), fn)
}

// afterFailure re-fetches when the failure proves the cached line is gone.
func (c *CartService) afterFailure(ctx context.Context, err error) (ports.CartView, error) {
	if errors.Is(err, domain.ErrNotFound) {
		if view, rerr := c.Refresh(ctx); rerr == nil {
			return view, err
		}
	}
	return c.Cached(), err
}
