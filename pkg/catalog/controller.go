package catalog

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/MasudBS-1458/tr-cafe/pkg/api"
	"github.com/MasudBS-1458/tr-cafe/pkg/state"
)

// Fetcher is the remote catalog dependency. *api.Client satisfies it.
type Fetcher interface {
	Foods(ctx context.Context, query api.FoodQuery) ([]api.Food, error)
}

// FetchController converts filter state into remote catalog queries and
// tracks the request lifecycle. Each distinct filter triggers exactly one
// request; the controller does not debounce. Only the most recently issued
// request's resolution is applied: out-of-order responses for superseded
// filters are dropped by comparing a monotonically increasing sequence
// number, and are never surfaced as errors.
type FetchController struct {
	loop    *state.Loop
	fetcher Fetcher
	logger  *slog.Logger

	// seq identifies the most recently issued request.
	seq atomic.Uint64

	status *state.Signal[state.Status]
	items  *state.Signal[[]api.Food]
	errMsg *state.Signal[string]

	unsubscribe func()
}

// ControllerOption configures a FetchController.
type ControllerOption func(*FetchController)

// WithLogger sets the controller's structured logger.
func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *FetchController) {
		c.logger = logger
	}
}

// NewFetchController creates a controller bound to the given filter store.
// It starts idle and issues a request whenever the store publishes a new
// filter. Call Close to detach from the store.
func NewFetchController(loop *state.Loop, fetcher Fetcher, store *FilterStore, opts ...ControllerOption) *FetchController {
	c := &FetchController{
		loop:    loop,
		fetcher: fetcher,
		logger:  slog.Default(),
		status:  state.NewSignal(state.Idle),
		items:   state.NewSignal[[]api.Food](nil),
		errMsg:  state.NewSignal(""),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.unsubscribe = store.Subscribe(func(f Filter) {
		c.Fetch(f)
	})
	return c
}

// Fetch issues one catalog request for the given filter. The request runs
// off the loop; its resolution re-enters via a dispatched action that is
// dropped if a newer request has been issued since.
func (c *FetchController) Fetch(filter Filter) {
	seq := c.seq.Add(1)

	c.loop.Dispatch(func() {
		c.status.Set(state.Loading)
	})

	query := api.FoodQuery{
		Category: filter.Category,
		MinPrice: filter.MinPrice,
		MaxPrice: filter.MaxPrice,
		SortBy:   filter.Sort.String(),
	}

	go func() {
		foods, err := c.fetcher.Foods(context.Background(), query)

		c.loop.Dispatch(func() {
			if c.seq.Load() != seq {
				// Superseded by a newer filter; drop silently.
				c.logger.Debug("dropping stale catalog resolution", "seq", seq)
				return
			}
			if err != nil {
				c.errMsg.Set(errorMessage(err))
				c.status.Set(state.Failed)
				return
			}
			c.items.Set(foods)
			c.errMsg.Set("")
			c.status.Set(state.Succeeded)
		})
	}()
}

// ClearError empties the retained error message without altering the
// result set or the lifecycle status.
func (c *FetchController) ClearError() {
	c.loop.Dispatch(func() {
		c.errMsg.Set("")
	})
}

// Status returns the current request lifecycle state.
func (c *FetchController) Status() state.Status {
	return c.status.Peek()
}

// Items returns a copy of the latest result set.
func (c *FetchController) Items() []api.Food {
	items := c.items.Peek()
	out := make([]api.Food, len(items))
	copy(out, items)
	return out
}

// ErrorMessage returns the retained error message, empty when none.
func (c *FetchController) ErrorMessage() string {
	return c.errMsg.Peek()
}

// Close detaches the controller from the filter store. In-flight requests
// resolve into no-ops once superseded or after the loop closes.
func (c *FetchController) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
}

// errorMessage renders err the way the presentation layer shows it.
func errorMessage(err error) string {
	if re, ok := err.(*api.RemoteError); ok {
		return re.Message
	}
	return err.Error()
}
