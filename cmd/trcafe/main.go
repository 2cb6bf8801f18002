package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┌┬┐┬─┐  ┌─┐┌─┐┌─┐┌─┐
   │ ├┬┘  │  ├─┤├┤ ├┤
   ┴ ┴└─  └─┘┴ ┴└  └─┘
`

func main() {
	rootCmd := &cobra.Command{
		Use:   "trcafe",
		Short: "Storefront client for the tr-cafe ordering API",
		Long: `trcafe drives the tr-cafe storefront from the terminal.

It talks to the ordering API with the same engine the app ships:
browse the menu with filters and sorting, build a cart, place
orders, and watch the live order feed.

  • Catalog browsing with category, price and sort filters
  • Token-authenticated ordering and order history
  • Live order feed over WebSocket
  • Local development storefront with seeded menu`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("api", "http://localhost:5000", "Storefront API base URL")

	// Add commands
	rootCmd.AddCommand(
		menuCmd(),
		orderCmd(),
		serveCmd(),
		versionCmd(),
	)

	// Execute
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

// printBanner prints the trcafe ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// errorMsg prints an error message.
func errorMsg(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "\033[31m✗\033[0m %s\n", fmt.Sprintf(format, args...))
}

// cliLogger keeps engine logging out of the command output unless
// something goes wrong.
func cliLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}
