package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	cerrors "github.com/vango-dev/connect/internal/errors"
	"github.com/vango-dev/connect/pkg/reactive"
	"github.com/vango-dev/connect/pkg/render"
	"github.com/vango-dev/connect/pkg/stream"
	"github.com/vango-dev/connect/pkg/vdom"
)

// Event is a client event routed to a rendered handler.
type Event struct {
	// HID is the hydration ID of the element (e.g., "h3").
	HID string `json:"hid"`

	// Event is the handler prop name (e.g., "onclick").
	Event string `json:"event"`

	// Value is passed to func(any) handlers.
	Value any `json:"value,omitempty"`
}

// Session is a single UI loop and the component instances mounted on it.
//
// All component code runs on the loop: Run drives it from its own goroutine,
// Flush drives it inline. Only Dispatch, QueueEvent, HTML and OnRender may be
// called from other goroutines.
type Session struct {
	// Identity
	ID        string
	CreatedAt time.Time

	ctx    context.Context
	cancel context.CancelFunc
	closed atomic.Bool

	config  *SessionConfig
	logger  *slog.Logger
	metrics *Metrics
	tracer  trace.Tracer

	// Component state, loop only.
	owner     *reactive.Owner
	batcher   reactive.Batcher
	instances []*ComponentInstance
	renderer  *render.Renderer

	// Channels
	events   chan Event
	wakeCh   chan struct{}
	renderCh chan struct{}
	done     chan struct{}

	// dispatchMu protects pending. Dispatched callbacks carry stream
	// notifications and are never dropped, so the queue is unbounded.
	dispatchMu sync.Mutex
	pending    []func()

	// mu protects html and sink.
	mu   sync.Mutex
	html string
	sink func(html string)

	renderCount atomic.Uint64
	eventCount  atomic.Uint64
}

var _ stream.Scheduler = (*Session)(nil)

// generateSessionID generates a cryptographically random session ID.
func generateSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("crypto/rand failed: %v", err))
	}
	return hex.EncodeToString(b)
}

// NewSession creates a session. A nil config uses DefaultSessionConfig.
func NewSession(config *SessionConfig) *Session {
	config = config.withDefaults()
	id := generateSessionID()
	ctx, cancel := context.WithCancel(context.Background())

	s := &Session{
		ID:         id,
		CreatedAt:  time.Now(),
		ctx:        ctx,
		cancel:     cancel,
		config:     config,
		logger:     config.Logger.With("session_id", id),
		metrics:    config.Metrics,
		tracer:     config.Tracer,
		owner:      reactive.NewOwner(nil),
		renderer:   render.NewRenderer(render.RendererConfig{Pretty: config.Pretty}),
		events:     make(chan Event, config.MaxEventQueue),
		wakeCh:     make(chan struct{}, 1),
		renderCh:   make(chan struct{}, 1),
		done:       make(chan struct{}),
	}
	s.metrics.sessionOpened()
	return s
}

// Config returns the session configuration.
func (s *Session) Config() *SessionConfig {
	return s.config
}

// Logger returns the session logger.
func (s *Session) Logger() *slog.Logger {
	return s.logger
}

// Mount mounts component with props at the end of the page. The returned
// instance is non-nil unless the session is closed; a non-nil error from a
// mounted instance is the component's setup error and the instance keeps
// running with whatever did set up.
//
// Must be called on the loop, or before Run.
func (s *Session) Mount(component vdom.Component, props vdom.Props) (*ComponentInstance, error) {
	if s.closed.Load() {
		return nil, &SessionError{SessionID: s.ID, Op: "mount", Err: cerrors.New("E220")}
	}

	inst := newComponentInstance(component, props, s)
	_, span := s.startSpan("connect.mount",
		attribute.String("connect.component", inst.Name),
		attribute.String("connect.instance_id", inst.InstanceID),
	)

	var err error
	s.batcher.Batch(func() {
		err = inst.mount()
	})
	endSpan(span, err)

	s.instances = append(s.instances, inst)
	s.metrics.mounted(inst.Name)
	inst.MarkDirty()

	if err != nil {
		s.logger.Warn("mount reported setup errors",
			"component", inst.Name,
			"instance", inst.InstanceID,
			"err", err,
		)
		return inst, err
	}
	s.logger.Debug("component mounted", "component", inst.Name, "instance", inst.InstanceID)
	return inst, nil
}

// Unmount disposes inst and removes it from the page. Unmounting twice is
// a no-op.
func (s *Session) Unmount(inst *ComponentInstance) {
	if inst == nil || !inst.dispose() {
		return
	}
	for i, c := range s.instances {
		if c == inst {
			s.instances = append(s.instances[:i], s.instances[i+1:]...)
			break
		}
	}
	s.metrics.unmounted(inst.Name)
	s.logger.Debug("component unmounted", "component", inst.Name, "instance", inst.InstanceID)
	s.scheduleRender()
}

// Instances returns the mounted instances in page order.
func (s *Session) Instances() []*ComponentInstance {
	return append([]*ComponentInstance(nil), s.instances...)
}

// Dispatch queues fn to run on the loop. Safe from any goroutine, including
// the loop itself; it never blocks. Callbacks dispatched after Close are
// dropped.
func (s *Session) Dispatch(fn func()) {
	if s.closed.Load() {
		return
	}
	s.dispatchMu.Lock()
	s.pending = append(s.pending, fn)
	s.dispatchMu.Unlock()

	select {
	case s.wakeCh <- struct{}{}:
	default:
	}
}

// takeDispatched removes and returns the queued callbacks in order.
func (s *Session) takeDispatched() []func() {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()
	fns := s.pending
	s.pending = nil
	return fns
}

// Pending returns the number of dispatched callbacks waiting for the loop.
func (s *Session) Pending() int {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()
	return len(s.pending)
}

func (s *Session) runDispatched() int {
	fns := s.takeDispatched()
	for _, fn := range fns {
		s.executeDispatch(fn)
	}
	return len(fns)
}

// QueueEvent queues a client event for processing.
func (s *Session) QueueEvent(event Event) error {
	if s.closed.Load() {
		return cerrors.New("E220")
	}
	select {
	case s.events <- event:
		return nil
	default:
		s.logger.Warn("event queue full, dropping event", "hid", event.HID)
		return ErrEventQueueFull
	}
}

// scheduleRender requests a render pass. Requests coalesce in the one-slot
// channel.
func (s *Session) scheduleRender() {
	select {
	case s.renderCh <- struct{}{}:
	default:
	}
}

// Run processes queued events, dispatched callbacks and render requests until
// ctx is cancelled or the session is closed.
func (s *Session) Run(ctx context.Context) error {
	for {
		select {
		case event := <-s.events:
			s.handleEvent(event)

		case <-s.wakeCh:
			s.runDispatched()

		case <-s.renderCh:
			s.renderDirty()

		case <-ctx.Done():
			return ctx.Err()

		case <-s.done:
			return nil
		}
	}
}

// Flush runs queued work inline until the queues are empty, then renders
// once if anything is dirty. It returns the number of callbacks and events
// processed. Must not be used while Run is active.
func (s *Session) Flush() int {
	n := 0
	for {
		select {
		case event := <-s.events:
			s.handleEvent(event)
			n++
			continue
		case <-s.wakeCh:
		default:
		}
		if k := s.runDispatched(); k > 0 {
			n += k
			continue
		}

		select {
		case <-s.renderCh:
			s.renderDirty()
		default:
		}
		if len(s.events) == 0 && s.Pending() == 0 {
			return n
		}
	}
}

// executeDispatch runs fn in a batch with panic recovery.
func (s *Session) executeDispatch(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			err := cerrors.New("E221").WithDetailf("%v", r)
			s.logger.Error("dispatch panic", "err", err, "stack", string(debug.Stack()))
		}
	}()
	s.batcher.Batch(fn)
}

// handleEvent runs the handler rendered for event.
func (s *Session) handleEvent(event Event) {
	s.eventCount.Add(1)

	handler := s.renderer.Handler(event.HID, event.Event)
	if handler == nil {
		s.logger.Warn("handler not found", "hid", event.HID, "event", event.Event, "err", ErrHandlerNotFound)
		return
	}

	s.executeDispatch(func() {
		switch h := handler.(type) {
		case func():
			h()
		case func(any):
			h(event.Value)
		default:
			s.logger.Warn("unsupported handler type",
				"hid", event.HID,
				"event", event.Event,
				"type", fmt.Sprintf("%T", handler))
		}
	})
}

// renderDirty re-renders dirty instances and, if any were dirty or the page
// changed, renders the page HTML and hands it to the sink.
func (s *Session) renderDirty() {
	if s.closed.Load() {
		return
	}
	start := time.Now()
	_, span := s.startSpan("connect.render")

	dirty := 0
	for _, inst := range s.instances {
		if inst.IsDirty() || inst.lastTree == nil {
			inst.render()
			dirty++
		}
	}
	span.SetAttributes(attribute.Int("connect.dirty_instances", dirty))

	html, err := s.renderPage()
	endSpan(span, err)
	if err != nil {
		s.logger.Error("render failed", "err", err)
		return
	}
	s.metrics.observeRenderPass(time.Since(start).Seconds())
	s.renderCount.Add(1)

	s.mu.Lock()
	changed := html != s.html
	s.html = html
	sink := s.sink
	s.mu.Unlock()

	if changed && sink != nil {
		sink(html)
	}
}

// renderPage renders every instance's last tree in page order. Each
// instance is wrapped so the client can tell instances apart.
func (s *Session) renderPage() (string, error) {
	s.renderer.Reset()
	nodes := make([]*vdom.VNode, 0, len(s.instances))
	for _, inst := range s.instances {
		nodes = append(nodes, vdom.Div(vdom.Data("instance", inst.InstanceID), inst.lastTree))
	}
	return s.renderer.RenderToString(vdom.Fragment(nodes))
}

// HTML returns the HTML of the last render pass.
func (s *Session) HTML() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.html
}

// OnRender sets the function that receives the page HTML after every render
// pass that changed it. It is called on the loop.
func (s *Session) OnRender(fn func(html string)) {
	s.mu.Lock()
	s.sink = fn
	s.mu.Unlock()
}

// Close unmounts every instance and stops the loop. Call it on the loop or
// after Run has returned.
func (s *Session) Close() {
	if s.closed.Swap(true) {
		return
	}
	close(s.done)

	for _, inst := range s.instances {
		if inst.dispose() {
			s.metrics.unmounted(inst.Name)
		}
	}
	s.instances = nil
	s.owner.Dispose()
	s.cancel()
	s.metrics.sessionClosed()

	s.logger.Info("session closed",
		"events", s.eventCount.Load(),
		"renders", s.renderCount.Load())
}

// IsClosed returns whether the session is closed.
func (s *Session) IsClosed() bool {
	return s.closed.Load()
}

// Done returns a channel that's closed when the session is closed.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Stats returns a snapshot of session counters.
func (s *Session) Stats() SessionStats {
	return SessionStats{
		ID:        s.ID,
		CreatedAt: s.CreatedAt,
		Events:    s.eventCount.Load(),
		Renders:   s.renderCount.Load(),
	}
}

// SessionStats contains session counters.
type SessionStats struct {
	ID        string
	CreatedAt time.Time
	Events    uint64
	Renders   uint64
}
