package assets

import (
	"context"
	"io"

	"golang.org/x/exp/slices"

	"github.com/vango-dev/connect/pkg/stream"
)

// Progress reports how far a Preload got.
type Progress struct {
	Loaded int
	Total  int
	Failed []string
}

// Done reports whether every asset was attempted.
func (p Progress) Done() bool {
	return p.Loaded+len(p.Failed) >= p.Total
}

// Preload reads names from store one after another on a background
// goroutine. Each subscription starts its own preload and emits the progress
// after every asset, delivered through sched, then completes. The first
// value, with nothing loaded, is emitted synchronously. Missing or failing
// assets are reported in Failed and do not stop the preload.
func Preload(ctx context.Context, store Store, names []string, sched stream.Scheduler) stream.Stream[Progress] {
	names = slices.Clone(names)
	return stream.FuncStream[Progress](func(e stream.Emitter[Progress]) func() {
		total := len(names)
		e.Next(Progress{Total: total})
		if total == 0 {
			e.Complete()
			return nil
		}

		ctx, cancel := context.WithCancel(ctx)
		go func() {
			p := Progress{Total: total}
			for _, name := range names {
				if ctx.Err() != nil {
					return
				}
				if err := load(ctx, store, name); err != nil {
					p.Failed = append(p.Failed, name)
				} else {
					p.Loaded++
				}
				snap := Progress{Loaded: p.Loaded, Total: total, Failed: slices.Clone(p.Failed)}
				sched.Dispatch(func() {
					if !e.Closed() {
						e.Next(snap)
					}
				})
			}
			sched.Dispatch(func() {
				if !e.Closed() {
					e.Complete()
				}
			})
		}()
		return cancel
	})
}

func load(ctx context.Context, store Store, name string) error {
	a, err := store.Open(ctx, name)
	if err != nil {
		return err
	}
	defer a.Body.Close()
	_, err = io.Copy(io.Discard, a.Body)
	return err
}
