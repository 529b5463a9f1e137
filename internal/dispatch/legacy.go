package dispatch

import "strings"

// Links into the legacy single-page site put the route in the fragment, which
// never reaches the server. They are resolved on the root page instead.
var legacyHashRoutes = NewTable(
	Redirect("/browse/detail/:id", "/book/:id"),
	Redirect("/terms", "/page/termsOfUse"),
	Redirect("/artofreading", "/page/create/page/art-of-reading"),
)

// LegacyHashTarget maps a legacy fragment such as "#/browse/detail/abc" to
// its current path.
func LegacyHashTarget(fragment string) (string, bool) {
	path := strings.TrimPrefix(fragment, "#")
	if !strings.HasPrefix(path, "/") {
		return "", false
	}

	route, params, ok := legacyHashRoutes.Match(path)
	if !ok {
		return "", false
	}
	return route.RedirectTo.Expand(params), true
}

// HashRule is the client-side form of a legacy fragment redirect.
type HashRule struct {
	Pattern string `json:"pattern"`
	Target  string `json:"target"`
}

func LegacyHashRules() []HashRule {
	rules := make([]HashRule, 0, len(legacyHashRoutes.routes))
	for _, route := range legacyHashRoutes.routes {
		rules = append(rules, HashRule{
			Pattern: route.Pattern.String(),
			Target:  route.RedirectTo.String(),
		})
	}
	return rules
}
