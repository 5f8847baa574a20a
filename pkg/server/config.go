package server

import (
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// SessionConfig holds configuration for individual sessions.
type SessionConfig struct {
	// MaxEventQueue is the size of the client event buffer. Dispatched
	// callbacks are not limited by it.
	// Default: 256.
	MaxEventQueue int

	// ReadTimeout is the maximum time to wait for a message from the client.
	// Default: 60 seconds.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait when sending a message.
	// Default: 10 seconds.
	WriteTimeout time.Duration

	// HeartbeatInterval is the time between pings on a live connection.
	// Each pong extends the read deadline, so a client that only watches
	// stays connected. Default: 30 seconds, at most half of ReadTimeout.
	HeartbeatInterval time.Duration

	// MaxMessageSize is the maximum size of an incoming WebSocket message.
	// Default: 64KB.
	MaxMessageSize int64

	// Pretty renders indented HTML. Meant for terminals and debugging.
	Pretty bool

	// Logger is the structured logger. Default: slog.Default().
	Logger *slog.Logger

	// Metrics records mounts, bindings and renders. Nil disables metrics.
	Metrics *Metrics

	// Tracer traces mounts and render passes. Default: the global
	// OpenTelemetry tracer named "connect".
	Tracer trace.Tracer
}

// DefaultSessionConfig returns a SessionConfig with sensible defaults.
func DefaultSessionConfig() *SessionConfig {
	return &SessionConfig{
		MaxEventQueue: 256,
		ReadTimeout:   60 * time.Second,
		WriteTimeout:      10 * time.Second,
		HeartbeatInterval: 30 * time.Second,
		MaxMessageSize:    64 * 1024,
	}
}

// Clone returns a copy of the SessionConfig.
func (c *SessionConfig) Clone() *SessionConfig {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

// withDefaults fills unset fields from DefaultSessionConfig.
func (c *SessionConfig) withDefaults() *SessionConfig {
	out := c.Clone()
	if out == nil {
		out = DefaultSessionConfig()
	}
	defaults := DefaultSessionConfig()
	if out.MaxEventQueue <= 0 {
		out.MaxEventQueue = defaults.MaxEventQueue
	}
	if out.ReadTimeout == 0 {
		out.ReadTimeout = defaults.ReadTimeout
	}
	if out.WriteTimeout == 0 {
		out.WriteTimeout = defaults.WriteTimeout
	}
	if out.HeartbeatInterval <= 0 {
		out.HeartbeatInterval = defaults.HeartbeatInterval
	}
	if out.HeartbeatInterval >= out.ReadTimeout {
		out.HeartbeatInterval = out.ReadTimeout / 2
	}
	if out.MaxMessageSize <= 0 {
		out.MaxMessageSize = defaults.MaxMessageSize
	}
	if out.Logger == nil {
		out.Logger = slog.Default()
	}
	if out.Tracer == nil {
		out.Tracer = defaultTracer()
	}
	return out
}
