package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vango-dev/connect/internal/errors"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Addr != DefaultAddr {
		t.Errorf("Addr = %q, want %q", cfg.Addr, DefaultAddr)
	}
	if cfg.Tick != DefaultTick {
		t.Errorf("Tick = %q, want %q", cfg.Tick, DefaultTick)
	}
	if cfg.Session.MaxEventQueue != DefaultMaxEventQueue {
		t.Errorf("Session.MaxEventQueue = %d, want %d", cfg.Session.MaxEventQueue, DefaultMaxEventQueue)
	}
	if cfg.Metrics.Namespace != "connect" || cfg.Tracing.TracerName != "connect" {
		t.Errorf("namespace = %q, tracer = %q", cfg.Metrics.Namespace, cfg.Tracing.TracerName)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	data := `{
		"addr": ":8080",
		"tick": "250ms",
		"log_level": "warn",
		"assets": {"dir": "img"},
		"metrics": {"enabled": true, "namespace": "talk"},
		"session": {"max_event_queue": 16}
	}`
	if err := os.WriteFile(filepath.Join(dir, "deck.json"), []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Addr)
	}
	if cfg.TickDuration() != 250*time.Millisecond {
		t.Errorf("TickDuration() = %v, want 250ms", cfg.TickDuration())
	}
	if cfg.Level() != slog.LevelWarn {
		t.Errorf("Level() = %v, want WARN", cfg.Level())
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Namespace != "talk" {
		t.Errorf("Metrics = %+v", cfg.Metrics)
	}
	if cfg.Session.MaxEventQueue != 16 {
		t.Errorf("Session.MaxEventQueue = %d, want 16", cfg.Session.MaxEventQueue)
	}
	if got, want := cfg.AssetsDir(), filepath.Join(dir, "img"); got != want {
		t.Errorf("AssetsDir() = %q, want %q", got, want)
	}
	if cfg.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", cfg.Dir(), dir)
	}
	// Defaults still apply to unset fields.
	if cfg.Title != DefaultTitle {
		t.Errorf("Title = %q, want default", cfg.Title)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	data := `addr: "127.0.0.1:9000"
dev: true
assets:
  s3:
    bucket: decks
    region: eu-west-1
    prefix: talk/
tracing:
  tracer_name: deck
`
	if err := os.WriteFile(filepath.Join(dir, "deck.yaml"), []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Assets.S3.Bucket != "decks" || cfg.Assets.S3.Prefix != "talk/" {
		t.Errorf("Assets.S3 = %+v", cfg.Assets.S3)
	}
	if cfg.Tracing.TracerName != "deck" {
		t.Errorf("TracerName = %q, want deck", cfg.Tracing.TracerName)
	}
	// Dev without an explicit level logs at debug.
	if cfg.Level() != slog.LevelDebug {
		t.Errorf("Level() = %v, want DEBUG", cfg.Level())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestLoadPrefersJSON(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "deck.json"), []byte(`{"addr": ":1"}`), 0644)
	os.WriteFile(filepath.Join(dir, "deck.yaml"), []byte(`addr: ":2"`), 0644)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":1" {
		t.Errorf("Addr = %q, want :1", cfg.Addr)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(t.TempDir())
	if !errors.Is(err, "E141") {
		t.Errorf("Load() error = %v, want E141", err)
	}
	_, err = LoadFile(filepath.Join(t.TempDir(), "deck.json"))
	if !errors.Is(err, "E141") {
		t.Errorf("LoadFile() error = %v, want E141", err)
	}
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deck.json")
	os.WriteFile(path, []byte(`{"addr": `), 0644)

	_, err := LoadFile(path)
	if !errors.Is(err, "E120") {
		t.Errorf("LoadFile() error = %v, want E120", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"bad addr", func(c *Config) { c.Addr = "nope" }},
		{"port out of range", func(c *Config) { c.Addr = ":70000" }},
		{"bad tick", func(c *Config) { c.Tick = "soon" }},
		{"zero tick", func(c *Config) { c.Tick = "0s" }},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }},
		{"dir and s3", func(c *Config) {
			c.Assets.Dir = "img"
			c.Assets.S3 = S3Config{Bucket: "b", Region: "r"}
		}},
		{"s3 without region", func(c *Config) { c.Assets.S3.Bucket = "b" }},
		{"negative queue", func(c *Config) { c.Session.MaxEventQueue = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.modify(cfg)
			if err := cfg.Validate(); !errors.Is(err, "E122") {
				t.Errorf("Validate() = %v, want E122", err)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := New()
	cfg.Addr = ":4000"
	cfg.Assets.S3 = S3Config{Bucket: "b", Endpoint: "http://localhost:9000"}

	for _, name := range []string{"deck.json", "deck.yaml"} {
		path := filepath.Join(dir, name)
		if err := cfg.SaveTo(path); err != nil {
			t.Fatalf("SaveTo(%s) error = %v", name, err)
		}
		got, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile(%s) error = %v", name, err)
		}
		if got.Addr != ":4000" || got.Assets.S3.Endpoint != "http://localhost:9000" {
			t.Errorf("%s: reloaded %+v", name, got)
		}
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	os.WriteFile(filepath.Join(root, "deck.yml"), []byte("tick: 2s\n"), 0644)
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	got, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatalf("FindProjectRoot() error = %v", err)
	}
	want, _ := filepath.Abs(root)
	if got != want {
		t.Errorf("FindProjectRoot() = %q, want %q", got, want)
	}
	if !Exists(root) || Exists(nested) {
		t.Error("Exists misreported")
	}
}
