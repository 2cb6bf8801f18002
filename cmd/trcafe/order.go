package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MasudBS-1458/tr-cafe/pkg/api"
	"github.com/MasudBS-1458/tr-cafe/pkg/app"
	"github.com/MasudBS-1458/tr-cafe/pkg/catalog"
	"github.com/MasudBS-1458/tr-cafe/pkg/state"
)

func orderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Place and inspect orders",
		Long:  `Place orders, list your order history, and watch the live feed.`,
	}

	cmd.PersistentFlags().String("email", "", "Account email")
	cmd.PersistentFlags().String("password", "", "Account password")

	cmd.AddCommand(
		orderPlaceCmd(),
		orderHistoryCmd(),
		orderWatchCmd(),
	)

	return cmd
}

func orderPlaceCmd() *cobra.Command {
	var (
		items   []string
		address string
		payment string
	)

	cmd := &cobra.Command{
		Use:   "place",
		Short: "Place an order",
		Long: `Log in, build a cart from the given items, and place an order.

Items are given as id:quantity; run "trcafe menu" for the ids.

Examples:
  trcafe order place --email=a@b.c --password=pw \
    --item f1:2 --item f5:1 --address="12 Mirpur Rd"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			baseURL, _ := cmd.Flags().GetString("api")
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			return runPlace(baseURL, email, password, items, address, payment)
		},
	}

	cmd.Flags().StringArrayVarP(&items, "item", "i", nil, "Item as id:quantity (repeatable)")
	cmd.Flags().StringVar(&address, "address", "", "Delivery address")
	cmd.Flags().StringVar(&payment, "payment", "cash", "Payment method")

	return cmd
}

func runPlace(baseURL, email, password string, items []string, address, payment string) error {
	if len(items) == 0 {
		return fmt.Errorf("no items given; use --item id:quantity")
	}

	a := app.New(app.Config{BaseURL: baseURL, Logger: cliLogger()})
	defer a.Close()

	if err := login(a, email, password); err != nil {
		return err
	}

	// Resolve item ids against the unfiltered catalog.
	a.Catalog.Fetch(catalog.Filter{})
	if err := waitSettled(a.Catalog.Status); err != nil {
		return err
	}
	if a.Catalog.Status() == state.Failed {
		return fmt.Errorf("fetch menu: %s", a.Catalog.ErrorMessage())
	}
	menu := make(map[string]api.Food)
	for _, f := range a.Catalog.Items() {
		menu[f.ID] = f
	}

	for _, item := range items {
		id, qty, err := parseItem(item)
		if err != nil {
			return err
		}
		food, ok := menu[id]
		if !ok {
			errorMsg("unknown item %q", id)
			info(`run "trcafe menu" to list the item ids`)
			return fmt.Errorf("unknown item %q", id)
		}
		a.Cart.Add(food, qty)
	}
	a.Cart.Wait()

	snap := a.Cart.Snapshot()
	info("%d items, total ৳%.0f", snap.TotalQuantity, snap.TotalPrice)

	if err := a.Checkout(address, payment); err != nil {
		return err
	}
	if err := waitSettled(a.Orders.Status); err != nil {
		return err
	}
	if a.Orders.Status() == state.Failed {
		return fmt.Errorf("place order: %s", a.Orders.ErrorMessage())
	}

	placed := a.Orders.History()[0]
	success("order %s placed", placed.ID)
	return nil
}

func orderHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List your orders, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			baseURL, _ := cmd.Flags().GetString("api")
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			return runHistory(baseURL, email, password)
		},
	}
	return cmd
}

func runHistory(baseURL, email, password string) error {
	a := app.New(app.Config{BaseURL: baseURL, Logger: cliLogger()})
	defer a.Close()

	if err := login(a, email, password); err != nil {
		return err
	}

	if err := a.Orders.FetchHistory(a.Session.Token()); err != nil {
		return err
	}
	if err := waitSettled(a.Orders.Status); err != nil {
		return err
	}
	if a.Orders.Status() == state.Failed {
		return fmt.Errorf("fetch history: %s", a.Orders.ErrorMessage())
	}

	orders := a.Orders.History()
	if len(orders) == 0 {
		info("no orders yet")
		return nil
	}
	for _, o := range orders {
		printOrder(o)
	}
	return nil
}

func orderWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the live order feed",
		Long:  `Subscribe to the storefront's order feed and print every order as it is placed. Press Ctrl-C to stop.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			baseURL, _ := cmd.Flags().GetString("api")
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			return runWatch(baseURL, email, password)
		},
	}
	return cmd
}

func runWatch(baseURL, email, password string) error {
	a := app.New(app.Config{BaseURL: baseURL, Logger: cliLogger()})
	defer a.Close()

	if err := login(a, email, password); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	feed, err := a.Client.SubscribeOrders(ctx, a.Session.Token(), printOrder)
	if err != nil {
		return err
	}
	defer feed.Close()

	info("watching the order feed (Ctrl-C to stop)")
	<-ctx.Done()
	return nil
}

// login authenticates the engine's session and waits for it to resolve.
func login(a *app.App, email, password string) error {
	if email == "" || password == "" {
		return fmt.Errorf("--email and --password are required")
	}

	a.Session.Login(api.Credentials{Email: email, Password: password})
	if err := waitSettled(func() state.Status { return a.Session.Snapshot().Status }); err != nil {
		return err
	}
	if snap := a.Session.Snapshot(); snap.Status == state.Failed {
		return fmt.Errorf("login: %s", snap.ErrMsg)
	}
	return nil
}

// parseItem splits an id:quantity argument.
func parseItem(s string) (string, int, error) {
	id, qtyStr, ok := strings.Cut(s, ":")
	if !ok || id == "" {
		return "", 0, fmt.Errorf("invalid item %q, want id:quantity", s)
	}
	qty, err := strconv.Atoi(qtyStr)
	if err != nil || qty < 1 {
		return "", 0, fmt.Errorf("invalid quantity in %q", s)
	}
	return id, qty, nil
}

func printOrder(o api.Order) {
	fmt.Printf("  %-6s %s  %s via %s\n", o.ID, o.CreatedAt.Local().Format("2006-01-02 15:04"), o.DeliveryAddress, o.PaymentMethod)
	for _, item := range o.Items {
		fmt.Printf("         %dx %s\n", item.Quantity, item.Food)
	}
}
