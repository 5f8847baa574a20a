// Package errors provides coded, actionable errors for connect.
//
// Every failure the binder, the session runtime, the config loader or the
// CLI reports is a *CodedError carrying a registered code (e.g. "E210")
// that maps to:
//   - A category (binding, stream, runtime, config, asset, cli)
//   - A short message and a longer explanation
//   - A documentation URL
//
// # Usage
//
//	err := errors.New("E210").
//	    WithDetail(`factory for "timer" panicked: boom`).
//	    Wrap(cause)
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E210: Stream binding setup failed
//	//
//	//   factory for "timer" panicked: boom
//	//
//	//   Learn more: https://vango.dev/docs/connect/errors/E210
//
// CodedError implements Unwrap, so the standard library errors.Is and
// errors.As see through it. Use Is(err, code) to test for a code anywhere
// in a wrapped chain.
package errors
