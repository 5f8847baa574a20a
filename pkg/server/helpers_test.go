package server

import (
	"io"
	"log/slog"
	"testing"

	"github.com/vango-dev/connect/pkg/connect"
	"github.com/vango-dev/connect/pkg/stream"
	"github.com/vango-dev/connect/pkg/vdom"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestSession(t *testing.T, metrics *Metrics) *Session {
	t.Helper()
	s := NewSession(&SessionConfig{Logger: discardLogger(), Metrics: metrics})
	t.Cleanup(s.Close)
	return s
}

type action struct{ Type string }

func reduceCount(n int, a action) int {
	switch a.Type {
	case "ADD":
		return n + 1
	case "SUBTRACT":
		return n - 1
	}
	return n
}

// counterSpec binds "count" to the actions of subj, starting at 0.
func counterSpec(subj *stream.Subject[action]) connect.Spec {
	return connect.Spec{
		"count": connect.Stream(func(vdom.Props) stream.Stream[int] {
			return stream.StartWith(stream.Scan(subj, 0, reduceCount), 0)
		}),
	}
}

// countView renders the count prop and counts renders.
type countView struct {
	renders int
}

func (v *countView) Render(props vdom.Props) *vdom.VNode {
	v.renders++
	return vdom.Span(vdom.Textf("count=%d", vdom.Get(props, "count", -1)))
}
