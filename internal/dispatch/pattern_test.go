package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatternMatch(t *testing.T) {
	tests := []struct {
		pattern  string
		path     string
		matches  bool
		expected map[string]string
	}{
		{pattern: "/browse", path: "/browse", matches: true, expected: map[string]string{}},
		{pattern: "/browse", path: "/browse/", matches: true, expected: map[string]string{}},
		{pattern: "/browse", path: "/browse/more", matches: false},
		{pattern: "/player/:id", path: "/player/42", matches: true, expected: map[string]string{"id": "42"}},
		{pattern: "/player/:id", path: "/player", matches: false},
		{pattern: "/player/:id", path: "/player/42/x", matches: false},
		{
			pattern:  "/:breadcrumbs*/book/:id",
			path:     "/a/b/book/123",
			matches:  true,
			expected: map[string]string{"breadcrumbs": "a/b", "id": "123"},
		},
		{
			pattern:  "/:breadcrumbs*/book/:id",
			path:     "/book/123",
			matches:  true,
			expected: map[string]string{"breadcrumbs": "", "id": "123"},
		},
		{
			pattern:  "/:breadcrumbs*/book/:id",
			path:     "/a/book/b/book/7",
			matches:  true,
			expected: map[string]string{"breadcrumbs": "a/book/b", "id": "7"},
		},
		{
			pattern:  "/page/:breadcrumbs*/:pageName",
			path:     "/page/create/page/art-of-reading",
			matches:  true,
			expected: map[string]string{"breadcrumbs": "create/page", "pageName": "art-of-reading"},
		},
		{pattern: "/page/:breadcrumbs*/:pageName", path: "/page", matches: false},
		{
			pattern:  "/:segments*",
			path:     "/",
			matches:  true,
			expected: map[string]string{"segments": ""},
		},
		{
			pattern:  "/:segments*",
			path:     "/enabling-writers/:level:1",
			matches:  true,
			expected: map[string]string{"segments": "enabling-writers/:level:1"},
		},
	}

	for _, tt := range tests {
		params, ok := ParsePattern(tt.pattern).Match(tt.path)
		require.Equal(t, tt.matches, ok, "%s against %s", tt.pattern, tt.path)
		if tt.matches {
			assert.Equal(t, tt.expected, params, "%s against %s", tt.pattern, tt.path)
		}
	}
}

func TestPatternExpand(t *testing.T) {
	assert.Equal(t, "/book/abc", ParsePattern("/book/:id").Expand(map[string]string{"id": "abc"}))
	assert.Equal(t, "/", ParsePattern("/").Expand(nil))
	assert.Equal(t, "/grid", ParsePattern("/grid/:filter*").Expand(nil))
	assert.Equal(t, "/grid/a/b", ParsePattern("/grid/:filter*").Expand(map[string]string{"filter": "a/b"}))
}
