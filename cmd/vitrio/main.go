// Command vitrio serves a Vitrio application and inspects its route table.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	verrors "github.com/vango-dev/vitrio/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ╦  ╦┬┌┬┐┬─┐┬┌─┐
  ╚╗╔╝│ │ ├┬┘││ │
   ╚╝ ┴ ┴ ┴└─┴└─┘
`

func main() {
	if err := newRootCmd().Execute(); err != nil {
		verrors.Fprint(os.Stderr, err, true)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "vitrio",
		Short: "Server-rendered pages with loaders, actions and plain HTML forms",
		Long: `Vitrio renders every page on the server.

Routes declare a loader for GET data and an action for form POSTs.
Actions are protected by a CSRF token, redirect after success and
report their outcome through a one-shot flash cookie. Pages work
without JavaScript; routes can opt into a small client script.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		routesCmd(),
		versionCmd(),
	)
	return rootCmd
}

// printBanner prints the Vitrio ASCII art banner.
func printBanner(w io.Writer) {
	fmt.Fprint(w, banner)
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
