// Package format binds a buffered writer to the send/close contract a
// streaming client uses to push encoded media to its server.
//
// A format handler is selected once, when a session opens, by looking its
// name up in the format registry:
//
//	sink, err := format.Open("webm", conn, format.DefaultOptions())
//	if err != nil {
//		return err
//	}
//	defer sink.Close()
//
//	for chunk := range chunks {
//		if err := sink.Send(chunk); err != nil {
//			return err // errors.ErrTransportFailure
//		}
//	}
//
// Handlers are byte-transparent: they never parse, rewrite or throttle the
// payload. Every Send drains the buffer before returning, so a successful
// Send never leaves bytes behind for Close to drop.
//
// # Lifecycle
//
// A Handler moves from StateUninitialized to StateOpen on Open and to
// StateClosed on Close. Send is valid only while open. StateClosed is
// terminal; Close on a closed handler does nothing.
//
// # Error codes
//
// CodeOf maps any error returned by this package to a Code, for hosts that
// report numeric or symbolic status instead of Go errors.
//
// # Concurrency
//
// A Handler is not safe for concurrent use. The registry is.
package format
