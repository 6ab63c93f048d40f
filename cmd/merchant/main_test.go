package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alovak/cardflow-accept/merchant"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func TestCharge(t *testing.T) {
	processor := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "\xef\xbb\xbf"+`{"transactionResponse":{"responseCode":"1","authCode":"A1","transId":"T9",`+
			`"messages":[{"code":"1","description":"Approved"}]},"messages":{"resultCode":"Ok","message":[]}}`)
	}))
	t.Cleanup(processor.Close)
	t.Setenv("AUTHNET_ENDPOINT", processor.URL)

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs([]string{"charge", "--nonce-value", "tok"})
	require.NoError(t, cmd.Execute())

	var got map[string]any
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
	require.Equal(t, true, got["isSuccess"])
	require.Equal(t, "T9", got["transactionId"])
}

func TestCharge_RequiresNonce(t *testing.T) {
	cmd := newRootCmd(io.Discard, io.Discard)
	cmd.SetArgs([]string{"charge"})
	require.Error(t, cmd.Execute())
}

func TestServe_StopsOnCancel(t *testing.T) {
	cfg := merchant.DefaultConfig()
	cfg.HTTPAddr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	go func() { done <- serve(ctx, logger, merchant.NewApp(logger, cfg)) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop")
	}
}

type failingServer struct {
	err      error
	shutdown chan struct{}
}

func (s *failingServer) Start() error { return nil }
func (s *failingServer) Wait() error  { return s.err }
func (s *failingServer) Shutdown()    { close(s.shutdown) }

func TestServe_ReturnsServerFailure(t *testing.T) {
	srv := &failingServer{err: errors.New("accept: too many open files"), shutdown: make(chan struct{})}

	done := make(chan error, 1)
	go func() { done <- serve(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)), srv) }()

	select {
	case err := <-done:
		require.ErrorIs(t, err, srv.err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return the server error")
	}

	select {
	case <-srv.shutdown:
	default:
		t.Fatal("server was not shut down after failing")
	}
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	require.Equal(t, slog.LevelWarn, parseLevel("warn"))
	require.Equal(t, slog.LevelError, parseLevel("error"))
	require.Equal(t, slog.LevelInfo, parseLevel(""))
}
