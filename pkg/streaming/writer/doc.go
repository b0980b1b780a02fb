/*
Package writer provides the fixed-capacity output buffer used by format
handlers to batch payload bytes before they reach the server connection.

BufferedWriter copies incoming chunks into a buffer of constant size and
hands the buffer to a Transport whenever it fills. Callers decide when the
remainder goes out by calling Flush.

# Quick Start

	conn, _ := net.Dial("tcp", "icecast.example:8000")
	w, err := writer.New(writer.FromWriter(conn))
	if err != nil {
		return err
	}

	if err := w.Append(chunk); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}

# Flush Rules

  - Append flushes every time the buffer becomes full, then keeps copying.
  - Flush on an empty buffer never touches the transport.
  - A flush is one SendRaw call. A short count or an error is a
    *TransportError and the buffered bytes stay where they are.
  - Nothing is retried here. Retry, if any, belongs to the caller.

# Transports

Any type with SendRaw(p []byte) (int, error) is a Transport. FromWriter and
TransportFunc adapt io.Writers and plain functions:

	t := writer.TransportFunc(func(p []byte) (int, error) {
		return conn.Write(p)
	})

# Monitoring

	config := writer.Config{
		BufferSize: 8 * 1024,
		OnFlush: func(bytes int, d time.Duration) {
			log.Printf("flushed %d bytes in %v", bytes, d)
		},
		OnError: func(err error) {
			log.Printf("flush failed: %v", err)
		},
	}

# Thread Safety

BufferedWriter is not safe for concurrent use. Give each session its own.
*/
package writer
