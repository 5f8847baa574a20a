package config

import (
	"encoding/json"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/connect/internal/errors"
)

const (
	// DefaultAddr is the default listen address.
	DefaultAddr = "localhost:3000"

	// DefaultTick is the default interval of the timer demos.
	DefaultTick = "1s"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"

	// DefaultTitle is the default page title.
	DefaultTitle = "Connecting streams to components"

	// DefaultNamespace is the default metrics namespace and tracer name.
	DefaultNamespace = "connect"

	// DefaultMaxEventQueue is the default session queue size.
	DefaultMaxEventQueue = 256
)

// FileNames are the config file names looked up by Load, in order.
var FileNames = []string{"deck.json", "deck.yaml", "deck.yml"}

// Config represents a deck.json or deck.yaml configuration.
type Config struct {
	// Addr is the address the server listens on.
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"`

	// Title is the page title.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Tick is the interval of the timer demos (e.g., "1s").
	Tick string `json:"tick,omitempty" yaml:"tick,omitempty"`

	// LogLevel is one of debug, info, warn or error.
	LogLevel string `json:"log_level,omitempty" yaml:"log_level,omitempty"`

	// Dev enables pretty HTML and debug logging.
	Dev bool `json:"dev,omitempty" yaml:"dev,omitempty"`

	// Logo is the asset shown on the title slide.
	Logo string `json:"logo,omitempty" yaml:"logo,omitempty"`

	// Assets configures where slide images come from.
	Assets AssetsConfig `json:"assets,omitempty" yaml:"assets,omitempty"`

	// Metrics configures the Prometheus endpoint.
	Metrics MetricsConfig `json:"metrics,omitempty" yaml:"metrics,omitempty"`

	// Tracing configures OpenTelemetry spans.
	Tracing TracingConfig `json:"tracing,omitempty" yaml:"tracing,omitempty"`

	// Session configures live sessions.
	Session SessionConfig `json:"session,omitempty" yaml:"session,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// AssetsConfig selects the asset store. At most one of Dir and S3 may be set.
type AssetsConfig struct {
	// Dir is a local directory, relative to the config file.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`

	// S3 reads assets from a bucket.
	S3 S3Config `json:"s3,omitempty" yaml:"s3,omitempty"`
}

// S3Config locates assets in S3 or an S3-compatible service.
type S3Config struct {
	Bucket   string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	Region   string `json:"region,omitempty" yaml:"region,omitempty"`
	Profile  string `json:"profile,omitempty" yaml:"profile,omitempty"`
	Prefix   string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
}

// MetricsConfig configures metrics.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
}

// TracingConfig configures tracing.
type TracingConfig struct {
	TracerName string `json:"tracer_name,omitempty" yaml:"tracer_name,omitempty"`
}

// SessionConfig configures live sessions.
type SessionConfig struct {
	MaxEventQueue int `json:"max_event_queue,omitempty" yaml:"max_event_queue,omitempty"`
}

// New creates a Config with defaults.
func New() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads the first config file found in dir.
func Load(dir string) (*Config, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New("E141").
		WithDetail("No deck.json or deck.yaml found in " + dir).
		WithSuggestion("Create deck.json or pass flags on the command line")
}

// LoadFile reads configuration from the specified file path. The format is
// chosen by extension.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E141").
				WithDetail("No config file at " + path)
		}
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := &Config{}
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.New("E120").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			WithSuggestion("Check that the file is valid " + formatName(path))
	}

	cfg.configPath = path
	cfg.applyDefaults()
	return cfg, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func formatName(path string) string {
	if isYAML(path) {
		return "YAML"
	}
	return "JSON"
}

// SaveTo writes the configuration to path in the format of its extension.
func (c *Config) SaveTo(path string) error {
	var data []byte
	var err error
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New("E120").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E120").Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.Title == "" {
		c.Title = DefaultTitle
	}
	if c.Tick == "" {
		c.Tick = DefaultTick
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
		if c.Dev {
			c.LogLevel = "debug"
		}
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = DefaultNamespace
	}
	if c.Session.MaxEventQueue == 0 {
		c.Session.MaxEventQueue = DefaultMaxEventQueue
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	_, port, err := net.SplitHostPort(c.Addr)
	if err != nil {
		return errors.New("E122").
			WithDetail("addr must be host:port, got " + strconv.Quote(c.Addr))
	}
	if n, err := strconv.Atoi(port); err != nil || n < 0 || n > 65535 {
		return errors.New("E122").
			WithDetail("Port must be between 0 and 65535")
	}

	if d, err := time.ParseDuration(c.Tick); err != nil || d <= 0 {
		return errors.New("E122").
			WithDetail("tick must be a positive duration, got " + strconv.Quote(c.Tick)).
			WithSuggestion(`Use a Go duration such as "500ms" or "1s"`)
	}

	if _, ok := logLevels[strings.ToLower(c.LogLevel)]; !ok {
		return errors.New("E122").
			WithDetail("log_level must be debug, info, warn or error, got " + strconv.Quote(c.LogLevel))
	}

	if c.Assets.Dir != "" && c.Assets.S3.Bucket != "" {
		return errors.New("E122").
			WithDetail("assets.dir and assets.s3 are mutually exclusive")
	}
	if s3 := c.Assets.S3; s3.Bucket != "" && s3.Region == "" && s3.Endpoint == "" {
		return errors.New("E122").
			WithDetail("assets.s3 needs a region or an endpoint")
	}

	if c.Session.MaxEventQueue < 0 {
		return errors.New("E122").
			WithDetail("session.max_event_queue must not be negative")
	}
	return nil
}

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// TickDuration returns Tick parsed, or one second if it does not parse.
func (c *Config) TickDuration() time.Duration {
	d, err := time.ParseDuration(c.Tick)
	if err != nil || d <= 0 {
		return time.Second
	}
	return d
}

// Level returns the slog level for LogLevel.
func (c *Config) Level() slog.Level {
	return logLevels[strings.ToLower(c.LogLevel)]
}

// AssetsDir returns the asset directory, resolved against the config
// file's directory. It is empty when no directory is configured.
func (c *Config) AssetsDir() string {
	if c.Assets.Dir == "" || filepath.IsAbs(c.Assets.Dir) {
		return c.Assets.Dir
	}
	return filepath.Join(c.Dir(), c.Assets.Dir)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	for _, name := range FileNames {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// FindProjectRoot walks up directories to find the nearest directory with a
// config file.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E141").
				WithDetail("No deck.json or deck.yaml found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}
