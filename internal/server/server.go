// Package server assembles the HTTP router and runs the listener with
// graceful shutdown.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Route is anything that can mount itself on the router.
type Route interface {
	Register(r *mux.Router)
}

// New builds the router from the given routes and wraps it with the standard
// middleware chain: OTel instrumentation outermost, then client attribution
// and request logging.
func New(addr string, routes ...Route) *Server {
	r := mux.NewRouter()
	for _, route := range routes {
		route.Register(r)
	}
	handler := otelhttp.NewHandler(
		ClientInfoMiddleware(RequestLogMiddleware(r)),
		"http.server",
	)
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// Server wraps the HTTP listener.
type Server struct {
	httpServer *http.Server
}

// Start blocks serving requests until Shutdown is called or the listener fails.
func (s *Server) Start() error {
	log.Info().Str("addr", s.httpServer.Addr).Msg("http server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
