// Package server hosts mounted components on a single-threaded session loop.
//
// A Session owns the mounted component instances and a queue of work:
// callbacks passed to Dispatch, client events, and render requests. Work runs
// one item at a time on the loop goroutine (Run), or inline with Flush in
// tests and tools. Stream sources that produce on other goroutines deliver
// through Session.Dispatch, so every stream handler and every render run on
// the loop.
//
// Invalidations raised while one callback runs are batched; all dirty
// instances are rendered once at the end of the loop turn.
//
//	s := server.NewSession(server.DefaultSessionConfig())
//	inst, err := s.Mount(counter, nil)
//	s.Flush()
//	fmt.Println(s.HTML())
//	s.Unmount(inst)
//
// NewHandler serves a root component over HTTP: a server-rendered page on
// GET /, and a live session on /live that pushes re-rendered HTML over a
// WebSocket and routes client clicks to handlers.
package server
