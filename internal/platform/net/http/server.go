package http

import (
	"context"
	"errors"
	stdhttp "net/http"
	"time"

	"crashrelay/internal/platform/config"
	"crashrelay/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// Server is a thin wrapper over chi + stdlib http.Server
type Server struct {
	addr  string
	grace time.Duration
	mux   *chi.Mux
	srv   *stdhttp.Server
}

// NewServer creates an http server from API_* settings
// opts receive the *chi.Mux so callers can mount routes/mw
func NewServer(cfg config.Conf, opts ...func(*chi.Mux)) *Server {
	ac := cfg.Prefix("API_")
	addr := ac.MayString("PORT", ":5000")
	m := chi.NewRouter()
	for _, o := range opts {
		o(m)
	}
	return &Server{
		addr:  addr,
		grace: ac.MayDuration("SHUTDOWN_GRACE", 15*time.Second),
		mux:   m,
		srv: &stdhttp.Server{
			Addr:              addr,
			Handler:           m,
			ReadHeaderTimeout: 10 * time.Second,
			// uploads and the backend flush both happen inside one request
			ReadTimeout:  ac.MayDuration("READ_TIMEOUT", 2*time.Minute),
			WriteTimeout: ac.MayDuration("WRITE_TIMEOUT", 2*time.Minute),
			IdleTimeout:  ac.MayDuration("IDLE_TIMEOUT", 2*time.Minute),
		},
	}
}

// Router returns a Router facade over the internal chi mux
func (s *Server) Router() Router {
	return AdaptChi(s.mux)
}

// Addr returns the listening address
func (s *Server) Addr() string { return s.addr }

// Run serves until ctx is done or the listener fails; a cancelled ctx drains in-flight requests
func (s *Server) Run(ctx context.Context) error {
	log := logger.Named("http")

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.grace)
			defer cancel()
			if err := s.srv.Shutdown(sctx); err != nil {
				log.Warn().Err(err).Msg("http shutdown")
			}
		case <-stop:
		}
	}()

	log.Info().Str("addr", s.addr).Msg("http listening")
	err := s.srv.ListenAndServe()
	if errors.Is(err, stdhttp.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
