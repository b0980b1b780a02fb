package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vnykmshr/goshout/internal/config"
	"github.com/vnykmshr/goshout/internal/logging"
	"github.com/vnykmshr/goshout/pkg/format"
	"github.com/vnykmshr/goshout/pkg/metrics"
	"github.com/vnykmshr/goshout/pkg/streaming/writer"
	"github.com/vnykmshr/goshout/pkg/transport"
)

// sendError marks a failure reported by the sink, as opposed to setup errors.
type sendError struct {
	err error
}

func (e *sendError) Error() string {
	return fmt.Sprintf("send failed (%s): %v", format.CodeOf(e.err), e.err)
}

func (e *sendError) Unwrap() error {
	return e.err
}

type sendOptions struct {
	config.Config
	name string
}

func newSendCmd(cfg config.Config) *cobra.Command {
	opts := sendOptions{Config: cfg, name: defaultSinkName()}

	cmd := &cobra.Command{
		Use:   "send [file]",
		Short: "Stream a file, or stdin when omitted or \"-\", to the server",
		Example: `  # Stream a WebM file to an Icecast-style server
  goshout send --addr icecast:8000 live.webm

  # Relay stdin onto a Redis stream and expose metrics
  ffmpeg ... -f webm - | goshout send --redis-addr localhost:6379 --metrics-addr :9100`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			return runSend(cmd.Context(), cmd, path, opts)
		},
	}

	flags := cmd.Flags()
	flags.SortFlags = false
	flags.StringVar(&opts.Addr, "addr", cfg.Addr, "Server address (host:port)")
	flags.StringVarP(&opts.Format, "format", "f", cfg.Format, "Stream format")
	flags.IntVar(&opts.BufferSize, "bufsize", cfg.BufferSize, "Sink buffer size in bytes")
	flags.IntVar(&opts.ChunkSize, "chunk", cfg.ChunkSize, "Bytes read from the input per send")
	flags.DurationVar(&opts.WriteTimeout, "write-timeout", cfg.WriteTimeout, "Deadline for a single network write (0 disables)")
	flags.IntVar(&opts.DialAttempts, "dial-attempts", cfg.DialAttempts, "Connection attempts before giving up")
	flags.StringVar(&opts.RedisAddr, "redis-addr", cfg.RedisAddr, "Relay to a Redis stream at this address instead of --addr")
	flags.StringVar(&opts.RedisKey, "redis-key", cfg.RedisKey, "Redis stream key")
	flags.StringVar(&opts.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "Serve Prometheus metrics on this address")
	flags.StringVar(&opts.name, "name", opts.name, "Sink name used in logs and metrics")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", cfg.Verbose, "Enable debug logging")

	return cmd
}

// defaultSinkName tells concurrent goshout processes apart in shared metrics.
func defaultSinkName() string {
	return "goshout-" + uuid.NewString()[:8]
}

func runSend(ctx context.Context, cmd *cobra.Command, path string, opts sendOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	logger := logging.New(cmd.ErrOrStderr(), opts.Verbose)

	in, err := openInput(cmd, path)
	if err != nil {
		return err
	}
	defer in.Close()

	t, closeTransport, err := openTransport(ctx, opts, logger)
	if err != nil {
		return err
	}
	defer closeTransport()

	sinkOpts := format.DefaultOptions()
	sinkOpts.Name = opts.name
	sinkOpts.BufferSize = opts.BufferSize
	sinkOpts.Logger = logger

	if opts.MetricsAddr != "" {
		sinkOpts.Metrics = metrics.DefaultConfig()
		stopMetrics := serveMetrics(opts.MetricsAddr, logger)
		defer stopMetrics()
	}

	sink, err := format.Open(opts.Format, t, sinkOpts)
	if err != nil {
		return err
	}
	defer sink.Close()

	total, chunks, err := stream(ctx, in, sink, opts.ChunkSize)
	if err != nil {
		logger.Error().Err(err).Str("code", format.CodeOf(err).String()).Int64("bytes", total).Msg("stream aborted")
		return &sendError{err: err}
	}

	logger.Info().Int64("bytes", total).Int("chunks", chunks).Msg("stream complete")
	fmt.Fprintf(cmd.OutOrStdout(), "sent %d bytes in %d chunks\n", total, chunks)
	return nil
}

// stream reads chunkSize bytes at a time and sends each read. It stops at
// the first send failure.
func stream(ctx context.Context, in io.Reader, sink format.Sink, chunkSize int) (int64, int, error) {
	buf := make([]byte, chunkSize)
	var total int64
	chunks := 0

	for {
		if err := ctx.Err(); err != nil {
			return total, chunks, err
		}

		n, readErr := in.Read(buf)
		if n > 0 {
			if err := sink.Send(buf[:n]); err != nil {
				return total, chunks, err
			}
			total += int64(n)
			chunks++
		}

		if errors.Is(readErr, io.EOF) {
			return total, chunks, nil
		}
		if readErr != nil {
			return total, chunks, fmt.Errorf("read input: %w", readErr)
		}
	}
}

func openInput(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	return f, nil
}

func openTransport(ctx context.Context, opts sendOptions, logger zerolog.Logger) (writer.Transport, func(), error) {
	if opts.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: opts.RedisAddr})

		cfg := transport.DefaultRedisConfig()
		cfg.Client = rdb
		cfg.Key = opts.RedisKey
		cfg.Logger = logger
		if opts.WriteTimeout > 0 {
			cfg.Timeout = opts.WriteTimeout
		}

		rs, err := transport.NewRedisStream(cfg)
		if err != nil {
			_ = rdb.Close()
			return nil, nil, err
		}
		return rs, func() {
			_ = rs.Close()
			_ = rdb.Close()
		}, nil
	}

	cfg := transport.DefaultConfig()
	cfg.WriteTimeout = opts.WriteTimeout
	cfg.DialAttempts = uint(opts.DialAttempts)
	cfg.Logger = logger

	conn, err := transport.Dial(ctx, "tcp", opts.Addr, cfg)
	if err != nil {
		return nil, nil, err
	}
	return conn, func() { _ = conn.Close() }, nil
}

// serveMetrics exposes /metrics until the returned stop function is called.
func serveMetrics(addr string, logger zerolog.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Str("addr", addr).Msg("metrics server failed")
		}
	}()
	logger.Debug().Str("addr", addr).Msg("serving metrics")

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
