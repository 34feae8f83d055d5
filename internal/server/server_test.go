package server_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/efi-capital/portfolio-tracker/internal/config"
	"github.com/efi-capital/portfolio-tracker/internal/server"
)

func testServerConfig() config.ServerConfig {
	cfg := config.ServerConfig{Port: "0"}
	cfg.Setup()
	return cfg
}

func TestRunStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := server.NewHTTPServer(ctx, testServerConfig(), http.NewServeMux())

	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx)
	}()

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down after cancel")
	}
}

func TestRunReturnsListenError(t *testing.T) {
	ctx := context.Background()
	cfg := testServerConfig()
	cfg.Port = "not-a-port"
	s := server.NewHTTPServer(ctx, cfg, http.NewServeMux())

	err := s.Run(ctx)
	require.Error(t, err)
}
