package server

import (
	"errors"
	"fmt"
	"net/http"

	"library/router/internal/dispatch"
	"library/router/internal/domain"
	"library/router/internal/domain/task"
	"library/router/internal/embed"
	"library/router/internal/routing"

	jsoniter "github.com/json-iterator/go"
	log "github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("❌ Failed to encode response: %v", err)
	}
}

type urlResponse struct {
	URL string `json:"url"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	resolver := routing.NewResolver(embed.FromRequest(r))
	writeJSON(w, http.StatusOK, resolver.ResolvePath(r.URL.Query().Get("path")))
}

func (s *Server) handleTarget(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if !query.Has("target") {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "target is required"})
		return
	}

	builder := routing.NewBuilder(routing.NewResolver(embed.FromRequest(r)))
	writeJSON(w, http.StatusOK, urlResponse{URL: builder.BuildURL(query.Get("current"), query.Get("target"))})
}

func (s *Server) handleLegacyHash(w http.ResponseWriter, r *http.Request) {
	target, ok := dispatch.LegacyHashTarget(r.URL.Query().Get("fragment"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no legacy route for fragment"})
		return
	}
	writeJSON(w, http.StatusOK, urlResponse{URL: target})
}

func (s *Server) handlePreviousPath(w http.ResponseWriter, r *http.Request) {
	session := s.existingSession(r)
	if session == "" {
		writeJSON(w, http.StatusOK, map[string]string{"previous": ""})
		return
	}

	previous, err := s.history.Previous(r.Context(), session)
	if err != nil {
		log.Errorf("❌ Failed to read history for session %s: %v", session, err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "history unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"previous": previous})
}

type routeResponse struct {
	Pattern          string `json:"pattern"`
	Kind             string `json:"kind"`
	Target           string `json:"target"`
	RequiresTopLevel bool   `json:"requires_top_level,omitempty"`
}

func (s *Server) handleRoutes(w http.ResponseWriter, _ *http.Request) {
	routes := s.table.Routes()
	body := make([]routeResponse, 0, len(routes))
	for _, route := range routes {
		body = append(body, routeResponse{
			Pattern:          route.Pattern.String(),
			Kind:             route.Kind.String(),
			Target:           route.Target(),
			RequiresTopLevel: route.RequiresTopLevel,
		})
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleDispatch(w http.ResponseWriter, r *http.Request) {
	detector := embed.FromRequest(r)
	// Encoded slashes inside filter values must not split segments
	path := r.URL.EscapedPath()

	outcome, err := s.table.Dispatch(path, detector)
	if err != nil {
		var notAvailable *dispatch.NotAvailableError
		if errors.As(err, &notAvailable) {
			log.Warnf("🚫 %v", err)
			s.renderError(w, r, http.StatusForbidden, fmt.Sprintf("The %s page is not available in embedding.", notAvailable.View))
			return
		}
		s.renderError(w, r, http.StatusNotFound, "Page not found.")
		return
	}

	if outcome.IsRedirect() {
		target := outcome.RedirectTo
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		http.Redirect(w, r, target, http.StatusMovedPermanently)
		return
	}

	session := s.session(w, r)
	previous, err := s.history.Visit(r.Context(), session, path)
	if err != nil {
		log.Errorf("❌ Failed to record visit to %s: %v", path, err)
	}

	page := s.newPage(r, path, outcome.View, previous)
	s.publish(r, session, page, detector.IsEmbedded())

	if err := s.renderer.Render(w, r, page); err != nil {
		log.Errorf("❌ Failed to render %s: %v", path, err)
	}
}

func (s *Server) newPage(r *http.Request, path string, view *domain.View, previous string) Page {
	builder := routing.NewBuilder(routing.NewResolver(embed.FromRequest(r)))
	page := Page{
		Path:         path,
		Title:        tabTitle(r, view),
		View:         view,
		PreviousPath: previous,
	}

	if view.Address != nil {
		page.Breadcrumbs = builder.BreadcrumbTrail(path)
		if view.Address.IsPlayerURL || view.Kind == domain.ViewEmbeddingHost {
			page.Breadcrumbs = nil
		}
		if iso, ok := routing.ContextLangFromURLKey(view.Address.CollectionName); ok {
			page.ContextLangFromURLKey = iso
		}
	}
	if iso, ok := routing.ContextLangFromQuery(r.URL.Query()); ok {
		page.ContextLangFromQuery = iso
	}
	if path == domain.Separator {
		page.HashRules = dispatch.LegacyHashRules()
	}
	return page
}

func (s *Server) publish(r *http.Request, session string, page Page, embedded bool) {
	if s.publisher == nil {
		return
	}

	navigation := &task.NavigationTask{
		Session:      session,
		Path:         page.Path,
		PreviousPath: page.PreviousPath,
		View:         page.View.Kind.String(),
		Embedded:     embedded,
		VisitedAt:    s.now(),
	}
	if page.View.Address != nil {
		navigation.CollectionName = page.View.Address.CollectionName
	}

	if err := s.publisher.Publish(r.Context(), navigation); err != nil {
		log.Warnf("⚠️ Failed to publish navigation to %s: %v", page.Path, err)
	}
}
