package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/MasudBS-1458/tr-cafe/pkg/app"
	"github.com/MasudBS-1458/tr-cafe/pkg/catalog"
	"github.com/MasudBS-1458/tr-cafe/pkg/state"
)

func menuCmd() *cobra.Command {
	var (
		category string
		minPrice float64
		maxPrice float64
		sortBy   string
	)

	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Browse the catalog",
		Long: `Fetch the menu through the client engine, applying the same
filters the storefront app exposes.

Sort orders: price-asc, price-desc, name-asc, name-desc.

Examples:
  trcafe menu
  trcafe menu --category=Burger --sort=price-asc
  trcafe menu --min=100 --max=400`,
		RunE: func(cmd *cobra.Command, args []string) error {
			baseURL, _ := cmd.Flags().GetString("api")
			return runMenu(baseURL, category, minPrice, maxPrice, sortBy)
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "Only show this category")
	cmd.Flags().Float64Var(&minPrice, "min", 0, "Minimum price")
	cmd.Flags().Float64Var(&maxPrice, "max", 0, "Maximum price (0 for no limit)")
	cmd.Flags().StringVar(&sortBy, "sort", "", "Sort order")

	return cmd
}

func runMenu(baseURL, category string, minPrice, maxPrice float64, sortBy string) error {
	sort, ok := catalog.ParseSortKey(sortBy)
	if !ok {
		return fmt.Errorf("unknown sort order %q", sortBy)
	}

	a := app.New(app.Config{BaseURL: baseURL, Logger: cliLogger()})
	defer a.Close()

	a.Catalog.Fetch(catalog.Filter{
		Category: category,
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		Sort:     sort,
	})
	if err := waitSettled(a.Catalog.Status); err != nil {
		return err
	}
	if a.Catalog.Status() == state.Failed {
		return fmt.Errorf("fetch menu: %s", a.Catalog.ErrorMessage())
	}

	items := a.Catalog.Items()
	if len(items) == 0 {
		info("no items match the filter")
		return nil
	}

	for _, f := range items {
		note := ""
		if !f.Available {
			note = "  (unavailable)"
		}
		fmt.Printf("  %-6s %-22s %-8s ৳%.0f%s\n", f.ID, f.Name, f.Category, f.Price, note)
	}
	success("%d items", len(items))
	return nil
}

// waitSettled polls the status until the in-flight request resolves.
func waitSettled(status func() state.Status) error {
	deadline := time.Now().Add(30 * time.Second)
	for time.Now().Before(deadline) {
		if status().Settled() {
			return nil
		}
		time.Sleep(10 * time.Millisecond)
	}
	return fmt.Errorf("timed out waiting for the storefront")
}
