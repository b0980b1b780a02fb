// Command goshout streams an encoded media file to a server through a
// format sink.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vnykmshr/goshout/internal/config"
	"github.com/vnykmshr/goshout/pkg/format"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd(config.Load()).ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps a failure to a non-zero status derived from its format code.
func exitCode(err error) int {
	var sendErr *sendError
	if errors.As(err, &sendErr) {
		if code := format.CodeOf(sendErr.err); code != format.CodeSuccess {
			return int(code)
		}
	}
	return 1
}
