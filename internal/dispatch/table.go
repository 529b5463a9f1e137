// Package dispatch maps request paths to view collaborators and legacy
// redirects.
package dispatch

import (
	"fmt"
	"maps"

	"library/router/internal/domain"
	"library/router/internal/embed"
	"library/router/internal/routing"
)

// DefaultTable returns the site's routes. Routes are tried in order and the
// first match wins, so the order below is part of the contract: specific
// routes and legacy aliases come before the patterns that would swallow them,
// and the fallback comes last because it matches everything, including "/".
func DefaultTable() *Table {
	return NewTable(
		ViewRoute("/test-embedding/:code*", domain.ViewTestEmbedding),

		// Aliases from the legacy site. "/browse/detail/:id" must precede "/browse".
		Redirect("/browse/detail/:id", "/book/:id"),
		Redirect("/browse", "/"),
		Redirect("/landing", "/"),
		Redirect("/books", "/"),
		Redirect("/download", "/page/create/downloads"),
		Redirect("/downloads", "/page/create/downloads"),
		Redirect("/installers", "/page/create/downloads"),
		Redirect("/readBook/:id", "/player/:id"),
		ViewRoute("/page/create/about", domain.ViewMultiPartPage).WithContentKey("new-about"),
		Redirect("/artofreading", "/page/create/page/art-of-reading"),
		Redirect("/about", "/page/create/about"),
		Redirect("/bloom-reader-privacy-policy", "/page/create/bloom-reader-privacy-policy"),
		Redirect("/support", "/page/support"),
		Redirect("/terms", "/page/termsOfUse"),
		ViewRoute("/sponsorship", domain.ViewContentPage).WithContentKey("sponsorship"),

		ViewRoute("/_previewBanner/:id", domain.ViewBannerPreview),
		ViewRoute("/:breadcrumbs*/book/:id", domain.ViewBookDetail).WithAddress(WholePath),
		ViewRoute("/player/:id", domain.ViewPlayer),
		ViewRoute("/:prefix*/release-notes/:channel", domain.ViewReleaseNotes),
		ViewRoute("/grid/:filter*", domain.ViewGrid),
		ViewRoute("/bulk/:filter*", domain.ViewBulkEdit),
		ViewRoute("/page/:breadcrumbs*/:pageName", domain.ViewContentPage).WithContentKeyParam("pageName"),
		ViewRoute("/:segments*/stats", domain.ViewStats).WithAddress("segments").TopLevelOnly(),
		ViewRoute("/:segments*/report", domain.ViewReport).WithAddress("segments").TopLevelOnly(),

		Fallback("/:segments*"),
	)
}

type Table struct {
	routes []Route
}

func NewTable(routes ...Route) *Table {
	return &Table{routes: routes}
}

// Routes returns the routes in evaluation order.
func (t *Table) Routes() []Route {
	return append([]Route(nil), t.routes...)
}

// Match returns a copy of the first route matching path.
func (t *Table) Match(path string) (Route, map[string]string, bool) {
	for _, route := range t.routes {
		if params, ok := route.Pattern.Match(path); ok {
			return route, params, true
		}
	}
	return Route{}, nil, false
}

// Outcome is either a redirect or a view to render.
type Outcome struct {
	Route      Route
	Params     map[string]string // As captured by the pattern
	RedirectTo string
	View       *domain.View
}

func (o Outcome) IsRedirect() bool {
	return o.RedirectTo != ""
}

// Dispatch matches path and builds what the view layer needs. The only error
// conditions are a missing route and a top-level-only route requested while
// embedded.
func (t *Table) Dispatch(path string, embedded embed.Detector) (Outcome, error) {
	if embedded == nil {
		embedded = embed.Static(false)
	}

	route, params, ok := t.Match(path)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %s", ErrNoRoute, path)
	}
	outcome := Outcome{Route: route, Params: params}
	resolver := routing.NewResolver(embedded)

	switch route.Kind {
	case RouteRedirect:
		outcome.RedirectTo = route.RedirectTo.Expand(params)

	case RouteFallback:
		addr := resolver.ResolvePath(params[fallbackParam(route)])
		view := &domain.View{Address: &addr}
		switch {
		case embedded.IsEmbedded():
			view.Kind = domain.ViewEmbeddingHost
			view.Params = map[string]string{ParamURLSegments: path}
		case addr.IsFiltered():
			view.Kind = domain.ViewCollectionSubset
		default:
			view.Kind = domain.ViewCollection
		}
		outcome.View = view

	default:
		if route.RequiresTopLevel && embedded.IsEmbedded() {
			return Outcome{}, &NotAvailableError{View: route.View, Path: path}
		}

		view := &domain.View{Kind: route.View, Params: maps.Clone(params)}
		switch {
		case route.ContentKey != "":
			view.Params[ParamURLKey] = route.ContentKey
		case route.ContentKeyParam != "":
			view.Params[ParamURLKey] = params[route.ContentKeyParam]
		}
		switch route.AddressParam {
		case "":
		case WholePath:
			addr := resolver.ResolvePath(path)
			view.Address = &addr
		default:
			addr := resolver.ResolvePath(params[route.AddressParam])
			view.Address = &addr
		}
		outcome.View = view
	}

	return outcome, nil
}

// fallbackParam is the name of the fallback pattern's only parameter.
func fallbackParam(route Route) string {
	for _, s := range route.Pattern.segments {
		if s.param != "" {
			return s.param
		}
	}
	return ""
}
