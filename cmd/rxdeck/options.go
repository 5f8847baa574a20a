package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/vango-dev/connect/internal/config"
	"github.com/vango-dev/connect/internal/errors"
	"github.com/vango-dev/connect/pkg/assets"
	"github.com/vango-dev/connect/pkg/deck"
	"github.com/vango-dev/connect/pkg/server"
	"github.com/vango-dev/connect/pkg/vdom"
)

// deckFlags are the flags shared by serve and run. Set flags override the
// config file.
type deckFlags struct {
	configPath string
	addr       string
	tick       time.Duration
	assetsDir  string
	dev        bool
	metrics    bool
}

func (f *deckFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "Config file or directory (default: nearest deck.json or deck.yaml)")
	cmd.Flags().DurationVarP(&f.tick, "tick", "t", time.Second, "Interval of the timer demos")
	cmd.Flags().StringVarP(&f.assetsDir, "assets", "a", "", "Directory of slide images")
	cmd.Flags().BoolVar(&f.dev, "dev", false, "Pretty HTML and debug logging")
}

// loadConfig loads the config file and applies the flags that were set.
func loadConfig(cmd *cobra.Command, f *deckFlags) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	switch {
	case f.configPath != "":
		if st, serr := os.Stat(f.configPath); serr == nil && st.IsDir() {
			cfg, err = config.Load(f.configPath)
		} else {
			cfg, err = config.LoadFile(f.configPath)
		}
	default:
		if root, rerr := config.FindProjectRoot("."); rerr == nil {
			cfg, err = config.Load(root)
		} else {
			cfg = config.New()
		}
	}
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.Addr = f.addr
	}
	if flags.Changed("tick") {
		cfg.Tick = f.tick.String()
	}
	if flags.Changed("assets") {
		dir, err := filepath.Abs(f.assetsDir)
		if err != nil {
			return nil, errors.New("E400").Wrap(err)
		}
		cfg.Assets.Dir = dir
		cfg.Assets.S3 = config.S3Config{}
	}
	if flags.Changed("dev") {
		cfg.Dev = f.dev
		if f.dev {
			cfg.LogLevel = "debug"
		}
	}
	if flags.Changed("metrics") {
		cfg.Metrics.Enabled = f.metrics
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: cfg.Level()}))
}

// newStore returns the configured asset store, or nil.
func newStore(ctx context.Context, cfg *config.Config) (assets.Store, error) {
	switch {
	case cfg.Assets.S3.Bucket != "":
		s3cfg := cfg.Assets.S3
		client, err := assets.NewS3Client(ctx, assets.S3Config{
			Region:   s3cfg.Region,
			Profile:  s3cfg.Profile,
			Endpoint: s3cfg.Endpoint,
		})
		if err != nil {
			return nil, err
		}
		return assets.NewS3Store(client, s3cfg.Bucket, s3cfg.Prefix), nil
	case cfg.Assets.Dir != "":
		return assets.NewDirStore(cfg.AssetsDir()), nil
	}
	return nil, nil
}

func sessionConfig(cfg *config.Config, logger *slog.Logger) *server.SessionConfig {
	return &server.SessionConfig{
		MaxEventQueue: cfg.Session.MaxEventQueue,
		Pretty:        cfg.Dev,
		Logger:        logger,
		Tracer:        otel.Tracer(cfg.Tracing.TracerName),
	}
}

// demoNames lists "talk" followed by the single demos in order.
func demoNames() []string {
	names := maps.Keys(deck.Demos)
	slices.Sort(names)
	return append([]string{"talk"}, names...)
}

// rootFactory returns the root component constructor for demo. The empty
// name and "talk" select the whole presentation.
func rootFactory(cfg *config.Config, store assets.Store, demo string) (func(*server.Session) vdom.Component, error) {
	tick := cfg.TickDuration()
	if demo == "" || demo == "talk" {
		return func(s *server.Session) vdom.Component {
			return deck.Talk(s, deck.TalkConfig{
				Tick:  tick,
				Store: store,
				Logo:  cfg.Logo,
			})
		}, nil
	}

	ctor, ok := deck.Demos[demo]
	if !ok {
		return nil, errors.New("E401").
			WithDetailf("%q is not a demo", demo).
			WithSuggestion("Use one of: " + strings.Join(demoNames(), ", "))
	}
	return func(s *server.Session) vdom.Component {
		return ctor(s, tick)
	}, nil
}
