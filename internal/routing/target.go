package routing

import (
	"net/url"
	"strings"

	"library/router/internal/domain"
)

const (
	absolutePrefix = "http"
	playerPrefix   = domain.PlayerKeyword + domain.Separator
)

// Builder produces navigation links relative to the page the user is on.
type Builder struct {
	resolver *Resolver
}

func NewBuilder(resolver *Resolver) *Builder {
	if resolver == nil {
		resolver = NewResolver(nil)
	}
	return &Builder{resolver: resolver}
}

// BuildURL returns the URL (without a leading slash) for target, where target
// is the shortest path naming the wanted collection and filters, e.g.
// "ew-nigeria/:level:1". The collection of currentPath is treated as the parent
// of target, so its breadcrumbs are kept and its name is re-attached when the
// target names a different collection:
//
//	current /enabling-writers,               target ew-nigeria          -> enabling-writers/ew-nigeria
//	current /enabling-writers/ew-nigeria,    target ew-nigeria/:level:1 -> enabling-writers/ew-nigeria/:level:1
//
// Absolute URLs are returned unchanged.
func (b *Builder) BuildURL(currentPath, target string) string {
	if strings.HasPrefix(target, absolutePrefix) {
		return target
	}

	current := b.resolver.ResolvePath(currentPath)
	wanted := b.resolver.ResolvePath(target)

	segments := append([]string{}, current.Breadcrumbs...)
	if wanted.IsPageURL {
		segments = append(segments, domain.PageKeyword)
	}
	if current.CollectionName != "" && wanted.CollectionName != current.CollectionName {
		segments = append(segments, current.CollectionName)
	}

	trimmed := trimLeadingSeparators(target)
	if strings.HasPrefix(trimmed, playerPrefix) {
		// player routes never carry breadcrumbs
		segments = segments[:0]
	}
	segments = append(segments, trimmed)

	switch segments[0] {
	case domain.RootCollection, domain.ReadKeyword, "":
		segments = segments[1:]
	}
	return strings.Join(segments, domain.Separator)
}

// Href is BuildURL in the form used for links: rooted unless absolute.
func (b *Builder) Href(currentPath, target string) string {
	link := b.BuildURL(currentPath, target)
	if strings.HasPrefix(link, absolutePrefix) {
		return link
	}
	return domain.Separator + link
}

// BreadcrumbTrail returns one link per ancestor of the collection at path,
// followed by the collection itself, outermost first.
func (b *Builder) BreadcrumbTrail(path string) []Crumb {
	addr := b.resolver.ResolvePath(path)

	names := append([]string{}, addr.Breadcrumbs...)
	if addr.CollectionName != "" && !addr.IsRoot() {
		names = append(names, addr.CollectionName)
	}

	trail := make([]Crumb, 0, len(names))
	for i, name := range names {
		trail = append(trail, Crumb{
			Name: displayName(name),
			Href: domain.Separator + strings.Join(names[:i+1], domain.Separator),
		})
	}
	return trail
}

// Crumb is one breadcrumb link. Name is unescaped for display while Href
// keeps the path encoding.
type Crumb struct {
	Name string `json:"name"`
	Href string `json:"href"`
}

func displayName(segment string) string {
	if name, err := url.PathUnescape(segment); err == nil {
		return name
	}
	return segment
}
