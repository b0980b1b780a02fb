package transport

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	gferrors "github.com/vnykmshr/goshout/pkg/common/errors"
	"github.com/vnykmshr/goshout/pkg/common/validation"
)

// RedisConfig holds options for RedisStream.
type RedisConfig struct {
	// Client is the Redis connection. The caller owns it.
	Client redis.UniversalClient

	// Key is the stream every send is appended to.
	Key string

	// MaxLen approximately caps the stream length. Zero leaves it unbounded.
	MaxLen int64

	// Timeout bounds a single XADD.
	Timeout time.Duration

	// Logger receives stream events. Default: zerolog.Nop()
	Logger zerolog.Logger
}

// DefaultRedisConfig returns a RedisStream configuration without a client.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Key:     "goshout:stream",
		MaxLen:  1000,
		Timeout: 5 * time.Second,
		Logger:  zerolog.Nop(),
	}
}

// RedisStream is a writer.Transport that appends each send to a Redis
// stream as an entry with a single "data" field.
type RedisStream struct {
	config RedisConfig
	logger zerolog.Logger
	lastID string
}

// RedisError reports a failed Redis command.
type RedisError struct {
	Operation string
	Err       error
}

func (e *RedisError) Error() string {
	return "redis error in " + e.Operation + ": " + e.Err.Error()
}

func (e *RedisError) Unwrap() error {
	return e.Err
}

// NewRedisStream validates config and returns a RedisStream.
func NewRedisStream(config RedisConfig) (*RedisStream, error) {
	if config.Client == nil {
		return nil, validation.ValidateNotNil("transport", "redis_client", nil)
	}
	if err := validation.ValidateNotEmpty("transport", "key", config.Key); err != nil {
		return nil, err
	}
	if config.Timeout <= 0 {
		return nil, gferrors.NewValidationError("transport", "timeout", config.Timeout, "must be positive")
	}

	return &RedisStream{
		config: config,
		logger: config.Logger.With().Str("stream", config.Key).Logger(),
	}, nil
}

// SendRaw appends p as one stream entry. It reports len(p) on success and
// 0 on any failure.
func (rs *RedisStream) SendRaw(p []byte) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), rs.config.Timeout)
	defer cancel()

	args := &redis.XAddArgs{
		Stream: rs.config.Key,
		Values: map[string]interface{}{"data": p},
	}
	if rs.config.MaxLen > 0 {
		args.MaxLen = rs.config.MaxLen
		args.Approx = true
	}

	id, err := rs.config.Client.XAdd(ctx, args).Result()
	if err != nil {
		rs.logger.Debug().Err(err).Int("bytes", len(p)).Msg("xadd failed")
		return 0, &RedisError{"xadd", err}
	}
	rs.lastID = id
	return len(p), nil
}

// LastID returns the ID of the most recent entry appended.
func (rs *RedisStream) LastID() string {
	return rs.lastID
}

// Close is a no-op; the client belongs to the caller.
func (rs *RedisStream) Close() error {
	rs.logger.Debug().Msg("stream closed")
	return nil
}
