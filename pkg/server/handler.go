package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/connect/pkg/render"
	"github.com/vango-dev/connect/pkg/vdom"
)

// HandlerConfig configures NewHandler.
type HandlerConfig struct {
	// Root builds the root component for a session. It is called once per
	// page view and once per live session, with the session the component
	// will be mounted on (e.g., as the stream.Scheduler of its sources).
	Root func(s *Session) vdom.Component

	// Props are the props Root is mounted with.
	Props vdom.Props

	// Title is the page title.
	Title string

	// StyleSheets and Styles are added to the page head.
	StyleSheets []string
	Styles      []string

	// Session configures every session the handler creates.
	Session *SessionConfig

	// Assets serves GET /assets/{name}. Nil disables the route.
	Assets http.Handler

	// Gatherer serves GET /metrics. Nil disables the route.
	Gatherer prometheus.Gatherer

	// CheckOrigin is passed to the WebSocket upgrader. Nil accepts
	// same-origin requests only.
	CheckOrigin func(r *http.Request) bool
}

// Handler serves a root component: a server-rendered page and a live
// session per WebSocket.
type Handler struct {
	config   HandlerConfig
	session  *SessionConfig
	logger   *slog.Logger
	upgrader websocket.Upgrader
	router   chi.Router
}

// LivePath is the WebSocket endpoint of live sessions.
const LivePath = "/live"

// NewHandler creates the HTTP handler for config.
func NewHandler(config HandlerConfig) *Handler {
	session := config.Session.withDefaults()
	h := &Handler{
		config:  config,
		session: session,
		logger:  session.Logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     config.CheckOrigin,
		},
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/", h.servePage)
	r.Get(LivePath, h.serveLive)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok\n"))
	})
	if config.Assets != nil {
		r.Get("/assets/{name}", config.Assets.ServeHTTP)
	}
	if config.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(config.Gatherer, promhttp.HandlerOpts{}))
	}
	h.router = r
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// servePage renders the root in a short-lived session and streams the page.
func (h *Handler) servePage(w http.ResponseWriter, r *http.Request) {
	s := NewSession(h.session)
	defer s.Close()

	if _, err := s.Mount(h.config.Root(s), h.config.Props); err != nil {
		// Setup errors leave the page usable; they are already logged.
		h.logger.Debug("page rendered with setup errors", "err", err)
	}
	s.Flush()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	sr := render.NewStreamingRenderer(w, render.RendererConfig{Pretty: h.session.Pretty})
	err := sr.RenderPage(render.PageData{
		Body:        vdom.Raw(s.HTML()),
		Title:       h.config.Title,
		StyleSheets: h.config.StyleSheets,
		Styles:      h.config.Styles,
		LiveURL:     LivePath,
	})
	if err != nil {
		h.logger.Error("page render failed", "err", err)
	}
}

// serveLive upgrades to a WebSocket and runs a live session on it.
func (h *Handler) serveLive(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "err", err)
		return
	}

	s := NewSession(h.session)
	if _, err := s.Mount(h.config.Root(s), h.config.Props); err != nil {
		h.logger.Debug("live session mounted with setup errors", "err", err)
	}
	s.logger.Info("live session started", "remote", r.RemoteAddr)

	newLiveConn(conn, s).serve(r.Context())
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
