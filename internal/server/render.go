package server

import (
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"library/router/internal/dispatch"
	"library/router/internal/domain"
	"library/router/internal/routing"
)

const (
	titlePrefix  = "Bloom Library: "
	loadingTitle = "Loading..."
	// TitleQueryParam lets links such as book playback name the page.
	TitleQueryParam = "title"
)

// Page is everything a view collaborator gets for one request.
type Page struct {
	Path                  string              `json:"path"`
	Title                 string              `json:"title"`
	View                  *domain.View        `json:"view"`
	Breadcrumbs           []routing.Crumb     `json:"breadcrumbs,omitempty"`
	PreviousPath          string              `json:"previous_path,omitempty"`
	ContextLangFromURLKey string              `json:"context_lang_from_url_key,omitempty"`
	ContextLangFromQuery  string              `json:"context_lang_from_query,omitempty"`
	HashRules             []dispatch.HashRule `json:"hash_rules,omitempty"` // Root page only
}

type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, page Page) error
}

type pageRenderer struct {
	page *template.Template
}

// NewPageRenderer renders a JSON view descriptor for API callers and a bare
// HTML document for browsers.
func NewPageRenderer() Renderer {
	return &pageRenderer{page: pageTemplate}
}

func (p *pageRenderer) Render(w http.ResponseWriter, r *http.Request, page Page) error {
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, page)
		return nil
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return p.page.Execute(w, page)
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	if wantsJSON(r) {
		writeJSON(w, status, errorResponse{Error: message})
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = errorTemplate.Execute(w, message)
}

// tabTitle names the browser tab. The title query parameter wins over the
// view's own name. Query values are already unescaped once and must not be
// unescaped again.
func tabTitle(r *http.Request, view *domain.View) string {
	name := viewTitle(view)
	if name == "" {
		return loadingTitle
	}
	if fromURL := r.URL.Query().Get(TitleQueryParam); fromURL != "" {
		name = fromURL
	}
	return titlePrefix + name
}

func viewTitle(view *domain.View) string {
	if view.Address != nil && view.Address.CollectionName != "" && !view.Address.IsRoot() {
		if name, err := url.PathUnescape(view.Address.CollectionName); err == nil {
			return name
		}
		return view.Address.CollectionName
	}
	if key := view.Param(dispatch.ParamURLKey); key != "" {
		return key
	}
	if id := view.Param("id"); id != "" {
		return id
	}
	return ""
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html{{with .ContextLangFromQuery}} lang="{{.}}"{{end}}>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body data-view="{{.View.Kind}}"{{with .View.Address}} data-collection="{{.CollectionName}}"{{end}}>
{{- if .Breadcrumbs}}
<nav class="breadcrumbs">
{{- range .Breadcrumbs}}
<a href="{{.Href}}">{{.Name}}</a>
{{- end}}
</nav>
{{- end}}
<main id="view"></main>
{{- if .HashRules}}
<script>
(function () {
  if (!location.hash || location.hash.indexOf("#/") !== 0) return;
  fetch("/api/legacy-hash?fragment=" + encodeURIComponent(location.hash))
    .then(function (res) { return res.ok ? res.json() : null; })
    .then(function (body) { if (body && body.url) location.replace(body.url); });
})();
</script>
{{- end}}
</body>
</html>
`))

var errorTemplate = template.Must(template.New("error").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Error</title></head>
<body><p class="error">{{.}}</p></body>
</html>
`))
