package dispatch

import (
	"strings"

	"library/router/internal/domain"
)

const restSuffix = "*"

type patternSegment struct {
	literal string
	param   string
	rest    bool // matches zero or more segments
}

// Pattern is a route path such as "/:breadcrumbs*/book/:id". ":name" matches
// exactly one non-empty segment, ":name*" matches any number of segments and
// captures them joined by "/". Everything else must match literally.
type Pattern struct {
	raw      string
	segments []patternSegment
}

func ParsePattern(raw string) Pattern {
	p := Pattern{raw: raw}
	for _, part := range splitPath(raw) {
		switch {
		case strings.HasPrefix(part, domain.FilterPrefix) && strings.HasSuffix(part, restSuffix):
			p.segments = append(p.segments, patternSegment{
				param: strings.TrimSuffix(strings.TrimPrefix(part, domain.FilterPrefix), restSuffix),
				rest:  true,
			})
		case strings.HasPrefix(part, domain.FilterPrefix):
			p.segments = append(p.segments, patternSegment{param: strings.TrimPrefix(part, domain.FilterPrefix)})
		default:
			p.segments = append(p.segments, patternSegment{literal: part})
		}
	}
	return p
}

func (p Pattern) String() string {
	return p.raw
}

// Match reports whether path matches the whole pattern and returns the
// captured parameters. Rest parameters are greedy.
func (p Pattern) Match(path string) (map[string]string, bool) {
	params := make(map[string]string)
	if !matchSegments(p.segments, splitPath(path), params) {
		return nil, false
	}
	return params, true
}

// Expand substitutes params into the pattern, producing a rooted path.
func (p Pattern) Expand(params map[string]string) string {
	parts := make([]string, 0, len(p.segments))
	for _, s := range p.segments {
		switch {
		case s.param == "":
			parts = append(parts, s.literal)
		case params[s.param] != "":
			parts = append(parts, params[s.param])
		case !s.rest:
			parts = append(parts, "")
		}
	}
	return domain.Separator + strings.Join(parts, domain.Separator)
}

func matchSegments(pattern []patternSegment, path []string, params map[string]string) bool {
	if len(pattern) == 0 {
		return len(path) == 0
	}

	head := pattern[0]
	switch {
	case head.rest:
		for n := len(path); n >= 0; n-- {
			if matchSegments(pattern[1:], path[n:], params) {
				params[head.param] = strings.Join(path[:n], domain.Separator)
				return true
			}
		}
		return false

	case head.param != "":
		if len(path) == 0 || path[0] == "" {
			return false
		}
		if !matchSegments(pattern[1:], path[1:], params) {
			return false
		}
		params[head.param] = path[0]
		return true

	default:
		if len(path) == 0 || path[0] != head.literal {
			return false
		}
		return matchSegments(pattern[1:], path[1:], params)
	}
}

// splitPath ignores leading and trailing separators; "/" has no segments.
func splitPath(path string) []string {
	trimmed := strings.Trim(path, domain.Separator)
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, domain.Separator)
}
