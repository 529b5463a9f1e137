// Package routing maps URL paths to collection addresses and back.
package routing

import (
	"library/router/internal/domain"
	"library/router/internal/embed"
)

type resolveState int

const (
	scanningFilters resolveState = iota
	foundCollection
	checkingPlayerPrefix
	checkingBookPrefix
	resolved
)

// Resolver turns path segments into a ResolvedAddress. It never fails: any
// input produces a best-effort address.
type Resolver struct {
	embedded embed.Detector
}

func NewResolver(embedded embed.Detector) *Resolver {
	if embedded == nil {
		embedded = embed.Static(false)
	}
	return &Resolver{embedded: embedded}
}

func (r *Resolver) ResolvePath(path string) domain.ResolvedAddress {
	return r.Resolve(Tokenize(path))
}

// Resolve scans segments from the end. Trailing filter segments are the
// filters, the last plain segment is the collection, and the segment before it
// may turn the path into a player or book route.
func (r *Resolver) Resolve(segments []domain.Segment) domain.ResolvedAddress {
	addr := domain.ResolvedAddress{
		Filters:     []string{},
		Breadcrumbs: []string{},
	}
	if len(segments) == 0 {
		addr.CollectionName = domain.RootCollection
		r.applyEmbedded(&addr)
		return addr
	}

	collectionIndex := len(segments) - 1
	firstFilterIndex := len(segments)
	var previous domain.Segment

	state := scanningFilters
	for state != resolved {
		switch state {
		case scanningFilters:
			if collectionIndex >= 0 && segments[collectionIndex].IsFilter() {
				firstFilterIndex = collectionIndex
				collectionIndex--
				continue
			}
			state = foundCollection

		case foundCollection:
			var name string
			if collectionIndex >= 0 {
				name = segments[collectionIndex].String()
			}
			if collectionIndex < 0 || name == "" || name == domain.ReadKeyword {
				name = domain.RootCollection
			}
			addr.CollectionName = name

			state = resolved
			if collectionIndex >= 1 {
				previous = segments[collectionIndex-1]
				state = checkingPlayerPrefix
			}

		case checkingPlayerPrefix:
			if previous == domain.PlayerKeyword {
				addr.IsPlayerURL = true
				// The collection cannot be known from a player path.
				addr.CollectionName = ""
				addr.BookID = segments[collectionIndex].String()
				collectionIndex--
			}
			// Both prefixes are checked against the same previous segment.
			state = checkingBookPrefix

		case checkingBookPrefix:
			if previous == domain.BookKeyword {
				addr.BookID = segments[collectionIndex].String()
				addr.CollectionName = ""
				if collectionIndex >= 2 {
					addr.CollectionName = segments[collectionIndex-2].String()
				}
				// Neither "book" nor the collection owning the book is a breadcrumb.
				collectionIndex -= 2
			}
			state = resolved
		}
	}

	addr.IsPageURL = segments[0] == domain.PageKeyword

	for _, segment := range segments[:max(collectionIndex, 0)] {
		addr.Breadcrumbs = append(addr.Breadcrumbs, segment.String())
	}
	for _, segment := range segments[firstFilterIndex:] {
		addr.Filters = append(addr.Filters, segment.Filter())
	}

	r.applyEmbedded(&addr)
	return addr
}

func (r *Resolver) applyEmbedded(addr *domain.ResolvedAddress) {
	if r.embedded.IsEmbedded() {
		addr.EmbeddedSettingsKey = domain.EmbeddedSettingsPrefix + addr.CollectionName
	}
}
