package dispatch

import "library/router/internal/domain"

type RouteKind int

const (
	RouteView RouteKind = iota
	RouteRedirect
	// RouteFallback hands the path to the address resolver.
	RouteFallback
)

func (k RouteKind) String() string {
	switch k {
	case RouteView:
		return "view"
	case RouteRedirect:
		return "redirect"
	case RouteFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// WholePath makes a route resolve its address from the full request path
// instead of a single captured parameter.
const WholePath = "*"

// Param names shared with view collaborators.
const (
	ParamURLKey      = "urlKey"
	ParamURLSegments = "urlSegments"
)

// Route is one entry of a dispatch table.
type Route struct {
	Kind    RouteKind
	Pattern Pattern

	View             domain.ViewKind
	ContentKey       string // Fixed content key passed as urlKey
	ContentKeyParam  string // Parameter passed as urlKey
	AddressParam     string // Parameter resolved into the view's address
	RequiresTopLevel bool

	RedirectTo Pattern
}

func ViewRoute(pattern string, view domain.ViewKind) Route {
	return Route{Kind: RouteView, Pattern: ParsePattern(pattern), View: view}
}

// Redirect is a permanent redirect. Parameters captured by pattern can be
// used in target, e.g. Redirect("/readBook/:id", "/player/:id").
func Redirect(pattern, target string) Route {
	return Route{Kind: RouteRedirect, Pattern: ParsePattern(pattern), RedirectTo: ParsePattern(target)}
}

func Fallback(pattern string) Route {
	return Route{Kind: RouteFallback, Pattern: ParsePattern(pattern)}
}

func (r Route) WithContentKey(key string) Route {
	r.ContentKey = key
	return r
}

func (r Route) WithContentKeyParam(param string) Route {
	r.ContentKeyParam = param
	return r
}

func (r Route) WithAddress(param string) Route {
	r.AddressParam = param
	return r
}

func (r Route) TopLevelOnly() Route {
	r.RequiresTopLevel = true
	return r
}

// Target is the redirect target, or the view for other routes.
func (r Route) Target() string {
	switch r.Kind {
	case RouteRedirect:
		return r.RedirectTo.String()
	case RouteFallback:
		return "address resolver"
	default:
		if r.ContentKey != "" {
			return r.View.String() + " " + r.ContentKey
		}
		return r.View.String()
	}
}
