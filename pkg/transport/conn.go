package transport

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog"

	gferrors "github.com/vnykmshr/goshout/pkg/common/errors"
	"github.com/vnykmshr/goshout/pkg/common/validation"
)

// Config holds options for Conn.
type Config struct {
	// WriteTimeout bounds a single SendRaw. Zero disables the deadline.
	WriteTimeout time.Duration

	// DialTimeout bounds a single connection attempt.
	DialTimeout time.Duration

	// DialAttempts is the number of connection attempts Dial makes.
	DialAttempts uint

	// DialDelay is the base backoff between connection attempts.
	DialDelay time.Duration

	// Logger receives connection events. Default: zerolog.Nop()
	Logger zerolog.Logger
}

// DefaultConfig returns the default connection configuration.
func DefaultConfig() Config {
	return Config{
		WriteTimeout: 10 * time.Second,
		DialTimeout:  5 * time.Second,
		DialAttempts: 3,
		DialDelay:    200 * time.Millisecond,
		Logger:       zerolog.Nop(),
	}
}

func (c Config) validate() error {
	if err := validation.ValidateNonNegativeDuration("transport", "write_timeout", c.WriteTimeout); err != nil {
		return err
	}
	if err := validation.ValidateNonNegativeDuration("transport", "dial_timeout", c.DialTimeout); err != nil {
		return err
	}
	if err := validation.ValidatePositive("transport", "dial_attempts", int(c.DialAttempts)); err != nil {
		return err
	}
	return validation.ValidateNonNegativeDuration("transport", "dial_delay", c.DialDelay)
}

// Conn is a writer.Transport over a net.Conn.
type Conn struct {
	conn   net.Conn
	config Config
	logger zerolog.Logger

	closeOnce sync.Once
	closeErr  error
}

// Dial connects to addr, retrying with exponential backoff up to
// config.DialAttempts times or until ctx is done.
func Dial(ctx context.Context, network, addr string, config Config) (*Conn, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	logger := config.Logger.With().Str("addr", addr).Logger()

	dialer := net.Dialer{Timeout: config.DialTimeout}
	var nc net.Conn

	err := retry.Do(func() error {
		c, err := dialer.DialContext(ctx, network, addr)
		if err != nil {
			return err
		}
		nc = c
		return nil
	},
		retry.Context(ctx),
		retry.Attempts(config.DialAttempts),
		retry.Delay(config.DialDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.Debug().Err(err).Uint("attempt", n+1).Msg("dial failed, retrying")
		}),
	)
	if err != nil {
		return nil, gferrors.NewOperationError("transport", "dial", err).WithContext(addr)
	}

	logger.Debug().Msg("connected")
	return NewConn(nc, config), nil
}

// NewConn wraps an established connection.
func NewConn(nc net.Conn, config Config) *Conn {
	return &Conn{
		conn:   nc,
		config: config,
		logger: config.Logger.With().Str("addr", nc.RemoteAddr().String()).Logger(),
	}
}

// SendRaw makes one Write of p under the configured write deadline.
func (c *Conn) SendRaw(p []byte) (int, error) {
	if c.config.WriteTimeout > 0 {
		if err := c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout)); err != nil {
			return 0, err
		}
	}
	return c.conn.Write(p)
}

// Close closes the connection. Further calls return the first result.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.conn.Close()
		c.logger.Debug().Err(c.closeErr).Msg("connection closed")
	})
	return c.closeErr
}

// RemoteAddr returns the server address.
func (c *Conn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}
