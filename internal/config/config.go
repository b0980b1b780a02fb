// Package config loads goshout CLI defaults from the environment and an
// optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	gferrors "github.com/vnykmshr/goshout/pkg/common/errors"
)

const (
	DefaultAddr         = "localhost:8000"
	DefaultFormat       = "webm"
	DefaultBufferSize   = 4096
	DefaultChunkSize    = 4096
	DefaultWriteTimeout = 10 * time.Second
	DefaultDialAttempts = 3
	DefaultRedisKey     = "goshout:stream"
)

// Config holds the settings of one goshout run.
type Config struct {
	Addr         string        `validate:"required_without=RedisAddr,omitempty,hostname_port"`
	Format       string        `validate:"required,streamformat"`
	BufferSize   int           `validate:"gt=0"`
	ChunkSize    int           `validate:"gt=0"`
	WriteTimeout time.Duration `validate:"gte=0"`
	DialAttempts int           `validate:"gte=1"`
	RedisAddr    string        `validate:"omitempty,hostname_port"`
	RedisKey     string        `validate:"required_with=RedisAddr"`
	MetricsAddr  string
	Verbose      bool
}

// Load reads GOSHOUT_* variables, after loading .env from the working
// directory if present. Unset or malformed values fall back to defaults.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Addr:         getEnvOrDefault("GOSHOUT_ADDR", DefaultAddr),
		Format:       getEnvOrDefault("GOSHOUT_FORMAT", DefaultFormat),
		BufferSize:   getEnvOrDefaultInt("GOSHOUT_BUFSIZE", DefaultBufferSize),
		ChunkSize:    getEnvOrDefaultInt("GOSHOUT_CHUNK", DefaultChunkSize),
		WriteTimeout: getEnvOrDefaultDuration("GOSHOUT_WRITE_TIMEOUT", DefaultWriteTimeout),
		DialAttempts: getEnvOrDefaultInt("GOSHOUT_DIAL_ATTEMPTS", DefaultDialAttempts),
		RedisAddr:    os.Getenv("GOSHOUT_REDIS_ADDR"),
		RedisKey:     getEnvOrDefault("GOSHOUT_REDIS_KEY", DefaultRedisKey),
		MetricsAddr:  os.Getenv("GOSHOUT_METRICS_ADDR"),
		Verbose:      getEnvOrDefaultBool("GOSHOUT_VERBOSE", false),
	}
}

// Validate checks that the configuration has usable values.
func (c Config) Validate() error {
	if err := V().Struct(c); err != nil {
		return fmt.Errorf("%w: %w", gferrors.ErrInvalidConfiguration, err)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvOrDefaultDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvOrDefaultBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
