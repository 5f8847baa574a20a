// Package deck contains the talk's live demos and the presentation that
// hosts them. Every component here is a plain view bound to streams with
// connect; none of them keeps state of its own.
//
// Components take the stream.Scheduler of the session they will be mounted
// on, so timer ticks are delivered on that session's loop:
//
//	root := func(s *server.Session) vdom.Component {
//		return deck.Talk(s, deck.TalkConfig{Tick: time.Second})
//	}
package deck
