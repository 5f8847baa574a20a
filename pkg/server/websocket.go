package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Frame is a JSON message sent to the client.
type Frame struct {
	// Type is "render" or "error".
	Type string `json:"type"`

	// HTML is the page HTML of a render frame.
	HTML string `json:"html,omitempty"`

	// Message describes an error frame.
	Message string `json:"message,omitempty"`
}

// liveConn connects a Session to a WebSocket. Writes come from the session
// loop; reads run on the connection's goroutine.
type liveConn struct {
	conn    *websocket.Conn
	session *Session
	config  *SessionConfig

	mu     sync.Mutex // protects conn writes
	closed bool
}

func newLiveConn(conn *websocket.Conn, s *Session) *liveConn {
	return &liveConn{conn: conn, session: s, config: s.config}
}

// serve pushes renders to the client and queues its events until the
// connection or ctx ends. The session is closed on return.
func (lc *liveConn) serve(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lc.session.OnRender(func(html string) {
		lc.send(Frame{Type: "render", HTML: html})
	})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		lc.session.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		lc.heartbeat(ctx)
	}()

	lc.readLoop()
	cancel()
	wg.Wait()

	lc.session.Close()
	lc.close()
}

// readLoop decodes events until the connection fails. Any message or pong
// extends the read deadline.
func (lc *liveConn) readLoop() {
	lc.conn.SetReadLimit(lc.config.MaxMessageSize)
	lc.conn.SetPongHandler(func(string) error {
		return lc.conn.SetReadDeadline(time.Now().Add(lc.config.ReadTimeout))
	})
	for {
		lc.conn.SetReadDeadline(time.Now().Add(lc.config.ReadTimeout))

		_, msg, err := lc.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				lc.session.logger.Error("read error", "err", err)
			}
			return
		}

		var event Event
		if err := json.Unmarshal(msg, &event); err != nil {
			lc.session.logger.Warn("event decode error", "err", err)
			lc.send(Frame{Type: "error", Message: "invalid event"})
			continue
		}
		if err := lc.session.QueueEvent(event); err != nil {
			lc.send(Frame{Type: "error", Message: err.Error()})
		}
	}
}

// heartbeat pings the client every HeartbeatInterval until ctx ends or a
// ping fails.
func (lc *liveConn) heartbeat(ctx context.Context) {
	ticker := time.NewTicker(lc.config.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := lc.ping(); err != nil {
				lc.session.logger.Debug("ping failed", "err", err)
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (lc *liveConn) ping() error {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	if lc.closed {
		return websocket.ErrCloseSent
	}
	return lc.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(lc.config.WriteTimeout))
}

func (lc *liveConn) send(frame Frame) {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	if lc.closed {
		return
	}

	lc.conn.SetWriteDeadline(time.Now().Add(lc.config.WriteTimeout))
	if err := lc.conn.WriteJSON(frame); err != nil {
		lc.session.logger.Error("write error", "err", err)
	}
}

func (lc *liveConn) close() {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	if lc.closed {
		return
	}
	lc.closed = true

	lc.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	lc.conn.Close()
}
