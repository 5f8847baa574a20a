package main

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/vango-dev/connect/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┬─┐─┐ ┬┌┬┐┌─┐┌─┐┬┌─
  ├┬┘┌┴┬┘ ││├┤ │  ├┴┐
  ┴└─┴ └──┴┘└─┘└─┘┴ ┴
`

func main() {
	rootCmd := &cobra.Command{
		Use:   "rxdeck",
		Short: "A live slide deck about binding streams to components",
		Long: `rxdeck serves a presentation whose demos are components bound to
streams. Every slide, timer and counter updates from the server over a
WebSocket.

  • serve   runs the deck over HTTP
  • run     drives a deck or a single demo from the terminal`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		runCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		var ce *errors.CodedError
		if stderrors.As(err, &ce) {
			fmt.Fprint(os.Stderr, ce.Format())
		} else {
			errorMsg("%s", err)
		}
		os.Exit(1)
	}
}

var colorOutput = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

func paint(code, text string) string {
	if !colorOutput {
		return text
	}
	return "\033[" + code + "m" + text + "\033[0m"
}

// printBanner prints the ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("%s %s\n", paint("32", "✓"), fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// errorMsg prints an error message.
func errorMsg(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", paint("31", "✗"), fmt.Sprintf(format, args...))
}
