// README: API gateway; owns the HTTP server and its lifecycle.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"sirparcel/internal/modules/account"
	"sirparcel/internal/modules/assistant"
	"sirparcel/internal/modules/location"
	"sirparcel/internal/modules/order"
	"sirparcel/internal/modules/pickup"
	"sirparcel/internal/modules/pricing"
	"sirparcel/internal/service"
)

type ServerDeps struct {
	Pricing   *pricing.Service
	Planner   *service.QuotePlanner
	Location  *location.Service
	Order     *order.Service
	Account   *account.Service
	Pickup    *pickup.Service
	Assistant *assistant.Service
	Sessions  sessions.Store
	Log       *zap.Logger
}

type Server struct {
	srv *http.Server
	log *zap.Logger
}

func NewServer(addr string, deps ServerDeps) *Server {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(deps),
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log,
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", zap.String("addr", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.log.Info("http server shutting down")
	return s.srv.Shutdown(shutdownCtx)
}
