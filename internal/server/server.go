// Package server exposes the router over HTTP: an API for resolving and
// building addresses, and a catch-all handler that dispatches every other
// path through the route table.
package server

import (
	"context"
	"net/http"
	"time"

	"library/router/internal/dispatch"
	"library/router/internal/domain/task"
	"library/router/internal/history"

	log "github.com/sirupsen/logrus"
)

// NavigationPublisher receives one event per dispatched view.
type NavigationPublisher interface {
	Publish(ctx context.Context, navigation *task.NavigationTask) error
}

type Options struct {
	SessionCookie string
	Renderer      Renderer
	Publisher     NavigationPublisher // Optional
}

type Server struct {
	table         *dispatch.Table
	history       history.Tracker
	publisher     NavigationPublisher
	renderer      Renderer
	sessionCookie string
	now           func() time.Time
}

func New(table *dispatch.Table, tracker history.Tracker, opts Options) *Server {
	if opts.SessionCookie == "" {
		opts.SessionCookie = "router_session"
	}
	if opts.Renderer == nil {
		opts.Renderer = NewPageRenderer()
	}
	return &Server{
		table:         table,
		history:       tracker,
		publisher:     opts.Publisher,
		renderer:      opts.Renderer,
		sessionCookie: opts.SessionCookie,
		now:           time.Now,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/resolve", s.handleResolve)
	mux.HandleFunc("GET /api/target", s.handleTarget)
	mux.HandleFunc("GET /api/legacy-hash", s.handleLegacyHash)
	mux.HandleFunc("GET /api/history/previous", s.handlePreviousPath)
	mux.HandleFunc("GET /api/routes", s.handleRoutes)
	mux.HandleFunc("GET /", s.handleDispatch)

	return logRequests(errorBoundary(mux))
}

// errorBoundary turns a panicking view collaborator into a 500 instead of a
// dropped connection.
func errorBoundary(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			log.WithFields(log.Fields{
				"path":  r.URL.Path,
				"panic": rec,
			}).Error("💥 View failed")
			http.Error(w, "Something went wrong showing this page.", http.StatusInternalServerError)
		}()

		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		log.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   recorder.status,
			"duration": time.Since(start).Round(time.Microsecond),
		}).Debug("Handled request")
	})
}
