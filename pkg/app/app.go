// Package app is the composition root for the tr-cafe client engine.
// It owns the dispatch loop and constructs the four state containers and
// their controllers; nothing in the engine relies on ambient globals.
package app

import (
	"log/slog"

	"github.com/MasudBS-1458/tr-cafe/pkg/api"
	"github.com/MasudBS-1458/tr-cafe/pkg/cart"
	"github.com/MasudBS-1458/tr-cafe/pkg/catalog"
	"github.com/MasudBS-1458/tr-cafe/pkg/order"
	"github.com/MasudBS-1458/tr-cafe/pkg/session"
	"github.com/MasudBS-1458/tr-cafe/pkg/state"
)

// App wires the storefront client together. The presentation layer drives
// it with intents and observes snapshots; no store mutates another.
type App struct {
	Loop    *state.Loop
	Client  *api.Client
	Filters *catalog.FilterStore
	Catalog *catalog.FetchController
	Cart    *cart.Store
	Orders  *order.Controller
	Session *session.Store
}

// Config configures a new App.
type Config struct {
	// BaseURL is the storefront API root.
	BaseURL string

	// Logger is the structured logger shared by the controllers.
	// Defaults to slog.Default().
	Logger *slog.Logger
}

// New builds the engine. Call Close when done.
func New(cfg Config) *App {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	loop := state.NewLoop()
	client := api.NewClient(cfg.BaseURL, api.WithLogger(logger))

	filters := catalog.NewFilterStore(loop)
	return &App{
		Loop:    loop,
		Client:  client,
		Filters: filters,
		Catalog: catalog.NewFetchController(loop, client, filters, catalog.WithLogger(logger)),
		Cart:    cart.NewStore(loop),
		Orders:  order.NewController(loop, client, order.WithLogger(logger)),
		Session: session.NewStore(loop, client, session.WithLogger(logger)),
	}
}

// Checkout submits the current cart with the current session token, both
// read as atomic snapshots at this moment; later cart mutations do not
// affect the dispatched request. The cart is not cleared implicitly —
// issue an explicit Cart.Clear once the submit resolves if desired.
func (a *App) Checkout(deliveryAddress, paymentMethod string) error {
	token := a.Session.Token()
	lines := a.Cart.Snapshot().Lines
	return a.Orders.Submit(token, lines, deliveryAddress, paymentMethod)
}

// Close detaches the catalog controller and stops the dispatch loop.
func (a *App) Close() {
	a.Catalog.Close()
	a.Loop.Close()
}
