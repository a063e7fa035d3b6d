// Package server mounts the HTTP API and owns its lifecycle.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/careloop/coach/internal/handler"
	convhandler "github.com/careloop/coach/internal/handler/conversations"
	obhandler "github.com/careloop/coach/internal/handler/onboarding"
	todohandler "github.com/careloop/coach/internal/handler/todos"
	"github.com/careloop/coach/internal/logging"
	"github.com/careloop/coach/internal/svc"
)

// Run starts the HTTP server and blocks until ctx is cancelled.
func Run(ctx context.Context, svcCtx *svc.ServiceContext) error {
	router := NewRouter(svcCtx)

	addr := fmt.Sprintf(":%d", svcCtx.Config.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Infof("listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// NewRouter builds the chi router with all routes mounted. Split out from
// Run so tests can drive it with httptest.
func NewRouter(svcCtx *svc.ServiceContext) chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/health", handler.HealthCheckHandler())

	r.Route("/api/users/{userID}", func(r chi.Router) {
		r.Post("/conversations", convhandler.IngestConversationHandler(svcCtx))
		r.Get("/conversations", convhandler.ListConversationsHandler(svcCtx))

		r.Post("/signals", obhandler.ProcessSignalsHandler(svcCtx))
		r.Post("/call-context", obhandler.GetCallContextHandler(svcCtx))
		r.Get("/progress", obhandler.GetProgressHandler(svcCtx))

		r.Get("/todos", todohandler.ListTodosHandler(svcCtx))
	})

	r.Post("/api/todos/{todoID}/checkin", todohandler.CheckInTodoHandler(svcCtx))

	return r
}
