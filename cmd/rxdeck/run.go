package main

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/vango-dev/connect/internal/config"
	"github.com/vango-dev/connect/internal/errors"
	"github.com/vango-dev/connect/pkg/assets"
	"github.com/vango-dev/connect/pkg/server"
	"github.com/vango-dev/connect/pkg/vdom"
)

func runCmd() *cobra.Command {
	var (
		f     deckFlags
		execs []string
	)

	cmd := &cobra.Command{
		Use:   "run [demo]",
		Short: "Drive a demo from the terminal",
		Long: `Mount the talk or a single demo on a local session and drive it
from a prompt. Pages are printed as HTML after every command.

Commands are read from the terminal with line editing and history, or
line by line from stdin when it is not a terminal.

Examples:
  rxdeck run
  rxdeck run counter
  rxdeck run timer -e "wait 3s" -e quit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			demo := "talk"
			if len(args) == 1 {
				demo = args[0]
			}
			return runRun(cmd, &f, demo, execs)
		},
	}

	f.register(cmd)
	cmd.Flags().StringArrayVarP(&execs, "exec", "e", nil, "Run a command instead of prompting (repeatable)")

	return cmd
}

func runRun(cmd *cobra.Command, f *deckFlags, demo string, execs []string) error {
	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return err
	}
	if _, err := rootFactory(cfg, nil, demo); err != nil {
		return err
	}

	sc := sessionConfig(cfg, newLogger(cfg, cmd.ErrOrStderr()))
	sc.Pretty = true
	session := server.NewSession(sc)
	defer session.Close()

	store, err := newStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	r := newREPL(session, cmd.OutOrStdout(), builder(cfg, store, session))
	if err := r.mount(demo); err != nil {
		report(err)
	}

	if len(execs) > 0 {
		for _, line := range execs {
			quit, err := r.exec(line)
			if err != nil {
				return err
			}
			if quit {
				break
			}
		}
		return nil
	}

	if isatty.IsTerminal(os.Stdin.Fd()) {
		return promptLoop(r)
	}
	return scanLoop(r, os.Stdin)
}

// builder returns the demo constructor of the prompt's mount command.
func builder(cfg *config.Config, store assets.Store, session *server.Session) func(string) (vdom.Component, error) {
	return func(name string) (vdom.Component, error) {
		root, err := rootFactory(cfg, store, name)
		if err != nil {
			return nil, err
		}
		return root(session), nil
	}
}

func report(err error) {
	var ce *errors.CodedError
	if stderrors.As(err, &ce) {
		errorMsg("%s", ce.FormatCompact())
		return
	}
	errorMsg("%s", err)
}

func historyPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "rxdeck_history")
}

// promptLoop reads commands with line editing until quit, EOF or Ctrl-C.
func promptLoop(r *repl) error {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(complete)

	history := historyPath()
	if history != "" {
		if f, err := os.Open(history); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
		defer func() {
			if f, err := os.Create(history); err == nil {
				line.WriteHistory(f)
				f.Close()
			}
		}()
	}

	info("Type help for commands")
	for {
		input, err := line.Prompt(prompt(r))
		if err == liner.ErrPromptAborted || err == io.EOF {
			fmt.Println()
			return nil
		}
		if err != nil {
			return err
		}
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		quit, err := r.exec(input)
		if err != nil {
			report(err)
		}
		if quit {
			return nil
		}
	}
}

// scanLoop reads one command per line from in.
func scanLoop(r *repl, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		quit, err := r.exec(scanner.Text())
		if err != nil {
			report(err)
		}
		if quit {
			return nil
		}
	}
	return scanner.Err()
}

func prompt(r *repl) string {
	if r.name == "" {
		return "rxdeck> "
	}
	return r.name + "> "
}
