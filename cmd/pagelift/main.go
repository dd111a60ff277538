package main

import (
	"fmt"
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
  ╔═╗┌─┐┌─┐┌─┐╦  ┬┌─┐┌┬┐
  ╠═╝├─┤│ ┬├┤ ║  │├┤  │
  ╩  ┴ ┴└─┘└─┘╩═╝┴└   ┴
`

func main() {
	rootCmd := &cobra.Command{
		Use:   "pagelift",
		Short: "Server-driven page enhancement for static sites",
		Long: `Pagelift enhances static pages from the server side.

The server owns a live document tree and streams mutations to attached
pages over WebSocket. Features include:

  • Client-side form validation with inline error annotations
  • Form submission with loading-state UI and notifications
  • Smooth in-page scrolling
  • File attachments via temp upload storage`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

// printBanner prints the Pagelift ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}
