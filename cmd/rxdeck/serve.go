package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/connect/pkg/assets"
	"github.com/vango-dev/connect/pkg/server"
)

func serveCmd() *cobra.Command {
	var (
		f    deckFlags
		demo string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the deck over HTTP",
		Long: `Serve the deck over HTTP.

Every browser tab gets its own live session. Slides, timers and counters
are rendered on the server and pushed over a WebSocket.

Examples:
  rxdeck serve
  rxdeck serve --addr=:8080 --tick=500ms
  rxdeck serve --demo=timer-plus --metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, &f, demo)
		},
	}

	f.register(cmd)
	cmd.Flags().StringVar(&f.addr, "addr", "", "Address to listen on (default from deck.json)")
	cmd.Flags().BoolVar(&f.metrics, "metrics", false, "Serve Prometheus metrics on /metrics")
	cmd.Flags().StringVarP(&demo, "demo", "d", "talk", "Serve a single demo instead of the talk")

	return cmd
}

func runServe(cmd *cobra.Command, f *deckFlags, demo string) error {
	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return err
	}
	logger := newLogger(cfg, os.Stderr)

	store, err := newStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	root, err := rootFactory(cfg, store, demo)
	if err != nil {
		return err
	}

	hc := server.HandlerConfig{
		Root:    root,
		Title:   cfg.Title,
		Session: sessionConfig(cfg, logger),
	}
	if store != nil {
		hc.Assets = assets.Handler(store, logger)
	}
	if cfg.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		hc.Session.Metrics = server.NewMetrics(
			server.WithNamespace(cfg.Metrics.Namespace),
			server.WithRegistry(registry),
		)
		hc.Gatherer = registry
	}

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Addr, err)
	}
	srv := &http.Server{
		Handler:           server.NewHandler(hc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	printBanner()
	success("Serving %s on http://%s", demo, ln.Addr())
	if cfg.Metrics.Enabled {
		info("Metrics on http://%s/metrics", ln.Addr())
	}
	fmt.Println()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		fmt.Println("\n  Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
