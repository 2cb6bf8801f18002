package order

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/MasudBS-1458/tr-cafe/pkg/api"
	"github.com/MasudBS-1458/tr-cafe/pkg/cart"
	"github.com/MasudBS-1458/tr-cafe/pkg/state"
)

// Validation errors, detected locally before any network call and never
// retried automatically.
var (
	// ErrAuthRequired is returned when submitting without a session token.
	ErrAuthRequired = errors.New("trcafe: authentication required")

	// ErrEmptyCart is returned when submitting with no cart lines.
	ErrEmptyCart = errors.New("trcafe: cart is empty")
)

// Submitter is the remote order dependency. *api.Client satisfies it.
type Submitter interface {
	CreateOrder(ctx context.Context, token string, req api.OrderRequest) (api.Order, error)
	Orders(ctx context.Context, token string) ([]api.Order, error)
}

// Controller tracks order submission and the order history log.
// History is prepend-ordered: most recent first. The controller reads the
// cart and session stores as snapshots at submit time and never writes
// them; clearing the cart after checkout is a separate, explicit intent.
type Controller struct {
	loop      *state.Loop
	submitter Submitter
	logger    *slog.Logger

	// seq identifies the most recently issued request of either kind;
	// a submit and a history fetch supersede each other.
	seq atomic.Uint64

	status  *state.Signal[state.Status]
	history *state.Signal[[]api.Order]
	errMsg  *state.Signal[string]
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller's structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// NewController creates an order controller with an empty history.
func NewController(loop *state.Loop, submitter Submitter, opts ...Option) *Controller {
	c := &Controller{
		loop:      loop,
		submitter: submitter,
		logger:    slog.Default(),
		status:    state.NewSignal(state.Idle),
		history:   state.NewSignal[[]api.Order](nil),
		errMsg:    state.NewSignal(""),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit places an order for the given cart lines. The token and lines are
// snapshot reads taken by the caller at submit time; cart mutations during
// the flight do not affect the dispatched request.
//
// Validation failures are returned synchronously and recorded on the
// controller without touching the history or issuing a network call.
func (c *Controller) Submit(token string, lines []cart.Line, deliveryAddress, paymentMethod string) error {
	if token == "" {
		c.recordValidationFailure(ErrAuthRequired)
		return ErrAuthRequired
	}
	if len(lines) == 0 {
		c.recordValidationFailure(ErrEmptyCart)
		return ErrEmptyCart
	}

	items := make([]api.OrderItem, len(lines))
	for i, l := range lines {
		items[i] = api.OrderItem{Food: l.ProductID, Quantity: l.Quantity}
	}
	req := api.OrderRequest{
		Items:           items,
		DeliveryAddress: deliveryAddress,
		PaymentMethod:   paymentMethod,
	}

	seq := c.seq.Add(1)
	c.loop.Dispatch(func() {
		c.status.Set(state.Loading)
		c.errMsg.Set("")
	})

	go func() {
		created, err := c.submitter.CreateOrder(context.Background(), token, req)

		c.loop.Dispatch(func() {
			if c.seq.Load() != seq {
				c.logger.Debug("dropping stale order resolution", "seq", seq)
				return
			}
			if err != nil {
				c.errMsg.Set(errorMessage(err))
				c.status.Set(state.Failed)
				return
			}
			c.history.Update(func(orders []api.Order) []api.Order {
				out := make([]api.Order, 0, len(orders)+1)
				out = append(out, created)
				return append(out, orders...)
			})
			c.status.Set(state.Succeeded)
		})
	}()
	return nil
}

// FetchHistory replaces the entire history with the remote result. It is a
// wholesale replacement, not a merge; callers should refetch only after a
// submit has resolved, not concurrently with one.
func (c *Controller) FetchHistory(token string) error {
	if token == "" {
		c.recordValidationFailure(ErrAuthRequired)
		return ErrAuthRequired
	}

	seq := c.seq.Add(1)
	c.loop.Dispatch(func() {
		c.status.Set(state.Loading)
		c.errMsg.Set("")
	})

	go func() {
		orders, err := c.submitter.Orders(context.Background(), token)

		c.loop.Dispatch(func() {
			if c.seq.Load() != seq {
				c.logger.Debug("dropping stale history resolution", "seq", seq)
				return
			}
			if err != nil {
				c.errMsg.Set(errorMessage(err))
				c.status.Set(state.Failed)
				return
			}
			c.history.Set(orders)
			c.status.Set(state.Succeeded)
		})
	}()
	return nil
}

// ClearError empties the retained error message.
func (c *Controller) ClearError() {
	c.loop.Dispatch(func() {
		c.errMsg.Set("")
	})
}

// Status returns the current request lifecycle state.
func (c *Controller) Status() state.Status {
	return c.status.Peek()
}

// History returns a copy of the order log, most recent first.
func (c *Controller) History() []api.Order {
	orders := c.history.Peek()
	out := make([]api.Order, len(orders))
	copy(out, orders)
	return out
}

// ErrorMessage returns the retained error message, empty when none.
func (c *Controller) ErrorMessage() string {
	return c.errMsg.Peek()
}

func (c *Controller) recordValidationFailure(err error) {
	c.loop.Dispatch(func() {
		c.errMsg.Set(err.Error())
		c.status.Set(state.Failed)
	})
}

func errorMessage(err error) string {
	if re, ok := err.(*api.RemoteError); ok {
		return re.Message
	}
	return err.Error()
}
