package server

import (
	"errors"
	"fmt"

	cerrors "github.com/vango-dev/connect/internal/errors"
	"github.com/vango-dev/connect/pkg/vdom"
)

// Sentinel errors for common session error conditions.
var (
	// ErrHandlerNotFound is returned when no handler is registered for an HID.
	ErrHandlerNotFound = errors.New("server: handler not found")

	// ErrEventQueueFull is returned when the event queue is full and an event is dropped.
	ErrEventQueueFull = errors.New("server: event queue full")
)

// SessionError wraps an error with session context for debugging.
type SessionError struct {
	SessionID string
	Op        string // Operation that failed
	Err       error  // Underlying error
}

// Error returns the error message with session context.
func (e *SessionError) Error() string {
	if e.SessionID == "" {
		return fmt.Sprintf("server: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("server: session %s: %s: %v", e.SessionID, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *SessionError) Unwrap() error {
	return e.Err
}

// ErrorRenderer is implemented by mounted components that render their own
// error state.
type ErrorRenderer interface {
	RenderError(err error) *vdom.VNode
}

// DefaultErrorView is rendered for a failed instance whose component has no
// error view of its own.
func DefaultErrorView(err error) *vdom.VNode {
	code := "error"
	var ce *cerrors.CodedError
	if errors.As(err, &ce) && ce.Code != "" {
		code = ce.Code
	}
	return vdom.Div(
		vdom.Class("connect-error"),
		vdom.Data("code", code),
		vdom.Strong("Something went wrong"),
		vdom.Pre(vdom.Text(err.Error())),
	)
}
