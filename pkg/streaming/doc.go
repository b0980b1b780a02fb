/*
Package streaming holds the byte-moving core shared by every format handler.

  - writer: fixed-capacity buffered writer that drains to a Transport when
    full or on Flush, keeping unsent bytes when the transport falls short

Basic usage:

	w, err := writer.New(writer.FromWriter(conn))
	if err != nil {
		return err
	}

	if err := w.Append(data); err != nil {
		return err // errors.ErrTransportFailure, data partly buffered
	}
	if err := w.Flush(); err != nil {
		return err
	}

Writers are single-owner and take no locks.
*/
package streaming
