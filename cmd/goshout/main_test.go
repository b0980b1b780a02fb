package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnykmshr/goshout/internal/config"
	"github.com/vnykmshr/goshout/internal/testutil"
	"github.com/vnykmshr/goshout/pkg/format"
)

func testConfig(addr string) config.Config {
	return config.Config{
		Addr:         addr,
		Format:       config.DefaultFormat,
		BufferSize:   16,
		ChunkSize:    10,
		WriteTimeout: time.Second,
		DialAttempts: 1,
		RedisKey:     config.DefaultRedisKey,
	}
}

func execute(t *testing.T, cfg config.Config, stdin io.Reader, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer

	cmd := newRootCmd(cfg)
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	if stdin != nil {
		cmd.SetIn(stdin)
	}

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func acceptAll(t *testing.T) (string, <-chan []byte) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	received := make(chan []byte, 1)
	go func() {
		defer close(received)
		defer ln.Close()
		c, err := ln.Accept()
		if err != nil {
			return
		}
		defer c.Close()
		data, _ := io.ReadAll(c)
		received <- data
	}()
	return ln.Addr().String(), received
}

func TestFormatsCommand(t *testing.T) {
	out, err := execute(t, testConfig(""), nil, "formats")
	require.NoError(t, err)
	assert.Equal(t, "matroska\nwebm\n", out)
}

func TestSendFile(t *testing.T) {
	addr, received := acceptAll(t)

	payload := bytes.Repeat([]byte("0123456789abcdef"), 7)
	path := filepath.Join(t.TempDir(), "live.webm")
	require.NoError(t, os.WriteFile(path, payload, 0o600))

	out, err := execute(t, testConfig(addr), nil, "send", path)
	require.NoError(t, err)
	assert.Equal(t, "sent 112 bytes in 12 chunks\n", out)
	assert.Equal(t, payload, <-received)
}

func TestSendStdinWithFlags(t *testing.T) {
	addr, received := acceptAll(t)

	out, err := execute(t, testConfig("127.0.0.1:1"), strings.NewReader("cluster-data"),
		"send", "--addr", addr, "--format", "matroska", "--chunk", "4", "-")
	require.NoError(t, err)
	assert.Equal(t, "sent 12 bytes in 3 chunks\n", out)
	assert.Equal(t, []byte("cluster-data"), <-received)
}

func TestSendUnknownFormat(t *testing.T) {
	_, err := execute(t, testConfig("127.0.0.1:1"), strings.NewReader("x"), "send", "--format", "mp3")

	assert.Equal(t, format.CodeInvalid, format.CodeOf(err))
	assert.ErrorContains(t, err, "streamformat")
}

func TestSendInvalidConfig(t *testing.T) {
	cfg := testConfig("127.0.0.1:1")
	cfg.ChunkSize = 0

	_, err := execute(t, cfg, strings.NewReader("x"), "send")
	assert.Equal(t, format.CodeInvalid, format.CodeOf(err))
}

func TestSendMissingFile(t *testing.T) {
	_, err := execute(t, testConfig("127.0.0.1:1"), nil, "send", filepath.Join(t.TempDir(), "missing.webm"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestStreamStopsAtFirstFailure(t *testing.T) {
	mt := testutil.NewMockTransport()
	mt.SetFailOnNth(2)

	sink, err := format.Open("webm", mt, format.DefaultOptions())
	require.NoError(t, err)

	total, chunks, err := stream(context.Background(), strings.NewReader("aaaabbbbcccc"), sink, 4)
	assert.Equal(t, format.CodeTransportFailure, format.CodeOf(err))
	assert.Equal(t, int64(4), total)
	assert.Equal(t, 1, chunks)
	assert.Equal(t, 2, mt.CallCount())
}

func TestDefaultSinkName(t *testing.T) {
	a, b := defaultSinkName(), defaultSinkName()

	assert.True(t, strings.HasPrefix(a, "goshout-"))
	assert.Len(t, a, len("goshout-")+8)
	assert.NotEqual(t, a, b)
}

func TestExitCode(t *testing.T) {
	mt := testutil.NewMockTransport()
	mt.SetAlwaysError(testutil.ErrSimulated)
	sink, err := format.Open("webm", mt, format.DefaultOptions())
	require.NoError(t, err)

	sendErr := &sendError{err: sink.Send([]byte("x"))}
	assert.Equal(t, int(format.CodeTransportFailure), exitCode(sendErr))
	assert.Contains(t, sendErr.Error(), "transport_failure")

	assert.Equal(t, 1, exitCode(errors.New("setup")))
}
