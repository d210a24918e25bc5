package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hallgate/augustlink/internal/activity"
	"github.com/hallgate/augustlink/internal/activitylog"
	"github.com/hallgate/augustlink/internal/infrastructure/config"
	"github.com/hallgate/augustlink/internal/stream"
)

// Commander executes remote lock operations. Implemented by the cloud
// client.
type Commander interface {
	Lock(ctx context.Context, lockID string) ([]activity.Activity, error)
	Unlock(ctx context.Context, lockID string) ([]activity.Activity, error)
}

// History reads persisted activity records. Implemented by the
// activitylog store.
type History interface {
	Recent(ctx context.Context, deviceID string, limit int) ([]activitylog.Record, error)
}

// Logger is the logging surface the server needs.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Server is the local HTTP API.
type Server struct {
	cfg         config.APIConfig
	wsCfg       config.WebSocketConfig
	coordinator *stream.Coordinator
	commander   Commander
	history     History
	logger      Logger

	commandTimeout time.Duration

	httpServer *http.Server
}

// NewServer wires the router. The command timeout bounds remote
// lock/unlock operations, which block while the cloud wakes the lock.
func NewServer(cfg config.APIConfig, wsCfg config.WebSocketConfig,
	coordinator *stream.Coordinator, commander Commander, history History,
	commandTimeout time.Duration, logger Logger) *Server {

	s := &Server{
		cfg:            cfg,
		wsCfg:          wsCfg,
		coordinator:    coordinator,
		commander:      commander,
		history:        history,
		commandTimeout: commandTimeout,
		logger:         logger,
	}

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)

	router.Get("/health", s.handleHealth)
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/locks", s.handleListLocks)
		r.Get("/locks/{deviceID}", s.handleGetLock)
		r.Post("/locks/{deviceID}/lock", s.handleLockCommand("lock"))
		r.Post("/locks/{deviceID}/unlock", s.handleLockCommand("unlock"))
		r.Get("/doorbells", s.handleListDoorbells)
		r.Get("/doorbells/{deviceID}", s.handleGetDoorbell)
		r.Get("/devices/{deviceID}/activities", s.handleDeviceActivities)
	})
	router.Get(wsCfg.Path, s.handleWebSocket)

	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Handler:      router,
		ReadTimeout:  cfg.GetReadTimeout(),
		WriteTimeout: cfg.GetWriteTimeout(),
		IdleTimeout:  cfg.GetIdleTimeout(),
	}

	return s
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run serves until the context is cancelled, then shuts down
// gracefully, allowing the configured write timeout for draining.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("api listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("api server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.GetWriteTimeout())
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("api shutdown: %w", err)
	}
	return nil
}
