package server

import (
	"context"
	"net"
	"net/http"

	"github.com/efi-capital/portfolio-tracker/internal/config"
)

type HTTPServer struct {
	s   *http.Server
	cfg config.ServerConfig
}

func NewHTTPServer(ctx context.Context, cfg config.ServerConfig, handler http.Handler) *HTTPServer {
	return &HTTPServer{
		cfg: cfg,
		s: &http.Server{
			Handler:           handler,
			Addr:              ":" + cfg.Port,
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
			BaseContext: func(listener net.Listener) context.Context {
				return ctx
			},
		},
	}
}

func (s *HTTPServer) Start() error {
	return s.s.ListenAndServe()
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.s.Shutdown(ctx)
}

// Run serves until ctx is cancelled, then drains in-flight requests
// for at most the configured shutdown timeout.
func (s *HTTPServer) Run(ctx context.Context) error {
	errCh := make(chan error)
	go func() {
		errCh <- s.Start()
	}()
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
