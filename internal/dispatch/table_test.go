package dispatch

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library/router/internal/domain"
	"library/router/internal/embed"
)

func TestDispatchRedirects(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{path: "/browse", expected: "/"},
		{path: "/landing", expected: "/"},
		{path: "/books", expected: "/"},
		{path: "/download", expected: "/page/create/downloads"},
		{path: "/downloads", expected: "/page/create/downloads"},
		{path: "/installers", expected: "/page/create/downloads"},
		{path: "/browse/detail/abc123", expected: "/book/abc123"},
		{path: "/readBook/abc123", expected: "/player/abc123"},
		{path: "/artofreading", expected: "/page/create/page/art-of-reading"},
		{path: "/about", expected: "/page/create/about"},
		{path: "/bloom-reader-privacy-policy", expected: "/page/create/bloom-reader-privacy-policy"},
		{path: "/support", expected: "/page/support"},
		{path: "/terms", expected: "/page/termsOfUse"},
	}

	table := DefaultTable()
	for _, tt := range tests {
		outcome, err := table.Dispatch(tt.path, embed.Static(false))
		require.NoError(t, err, tt.path)
		assert.True(t, outcome.IsRedirect(), tt.path)
		assert.Equal(t, tt.expected, outcome.RedirectTo, tt.path)
	}
}

func TestDispatchViews(t *testing.T) {
	tests := []struct {
		path   string
		kind   domain.ViewKind
		params map[string]string
	}{
		{path: "/test-embedding/a/b", kind: domain.ViewTestEmbedding, params: map[string]string{"code": "a/b"}},
		{path: "/page/create/about", kind: domain.ViewMultiPartPage, params: map[string]string{ParamURLKey: "new-about"}},
		{path: "/sponsorship", kind: domain.ViewContentPage, params: map[string]string{ParamURLKey: "sponsorship"}},
		{path: "/_previewBanner/xyz", kind: domain.ViewBannerPreview, params: map[string]string{"id": "xyz"}},
		{path: "/player/42", kind: domain.ViewPlayer, params: map[string]string{"id": "42"}},
		{path: "/a/release-notes/beta", kind: domain.ViewReleaseNotes, params: map[string]string{"prefix": "a", "channel": "beta"}},
		{path: "/grid/:level:1", kind: domain.ViewGrid, params: map[string]string{"filter": ":level:1"}},
		{path: "/bulk", kind: domain.ViewBulkEdit, params: map[string]string{"filter": ""}},
		{
			path:   "/page/create/downloads",
			kind:   domain.ViewContentPage,
			params: map[string]string{"breadcrumbs": "create", "pageName": "downloads", ParamURLKey: "downloads"},
		},
	}

	table := DefaultTable()
	for _, tt := range tests {
		outcome, err := table.Dispatch(tt.path, embed.Static(false))
		require.NoError(t, err, tt.path)
		require.NotNil(t, outcome.View, tt.path)
		assert.Equal(t, tt.kind, outcome.View.Kind, tt.path)
		assert.Equal(t, tt.params, outcome.View.Params, tt.path)
	}
}

func TestDispatchBookDetailCarriesAddress(t *testing.T) {
	outcome, err := DefaultTable().Dispatch("/a/b/book/123", nil)
	require.NoError(t, err)

	assert.Equal(t, domain.ViewBookDetail, outcome.View.Kind)
	assert.Equal(t, "123", outcome.View.Param("id"))
	require.NotNil(t, outcome.View.Address)
	assert.Equal(t, "b", outcome.View.Address.CollectionName)
	assert.Equal(t, []string{"a"}, outcome.View.Address.Breadcrumbs)
}

func TestDispatchFallback(t *testing.T) {
	table := DefaultTable()

	outcome, err := table.Dispatch("/", embed.Static(false))
	require.NoError(t, err)
	assert.Equal(t, domain.ViewCollection, outcome.View.Kind)
	assert.Equal(t, domain.RootCollection, outcome.View.Address.CollectionName)

	outcome, err = table.Dispatch("/enabling-writers/ew-nigeria", embed.Static(false))
	require.NoError(t, err)
	assert.Equal(t, domain.ViewCollection, outcome.View.Kind)
	assert.Equal(t, "ew-nigeria", outcome.View.Address.CollectionName)

	outcome, err = table.Dispatch("/enabling-writers/ew-nigeria/:level:1/:search:dogs", embed.Static(false))
	require.NoError(t, err)
	assert.Equal(t, domain.ViewCollectionSubset, outcome.View.Kind)
	assert.Equal(t, []string{"level:1", "search:dogs"}, outcome.View.Address.Filters)
}

func TestDispatchFallbackWhenEmbedded(t *testing.T) {
	outcome, err := DefaultTable().Dispatch("/enabling-writers", embed.Static(true))
	require.NoError(t, err)

	assert.Equal(t, domain.ViewEmbeddingHost, outcome.View.Kind)
	assert.Equal(t, "/enabling-writers", outcome.View.Param(ParamURLSegments))
	assert.Equal(t, "embed-enabling-writers", outcome.View.Address.EmbeddedSettingsKey)
}

func TestDispatchTopLevelOnly(t *testing.T) {
	table := DefaultTable()

	for _, path := range []string{"/enabling-writers/stats", "/enabling-writers/report"} {
		outcome, err := table.Dispatch(path, embed.Static(false))
		require.NoError(t, err, path)
		assert.Equal(t, "enabling-writers", outcome.View.Address.CollectionName, path)

		_, err = table.Dispatch(path, embed.Static(true))
		require.Error(t, err, path)
		assert.True(t, errors.Is(err, ErrRequiresTopLevel), path)

		var notAvailable *NotAvailableError
		require.True(t, errors.As(err, &notAvailable), path)
		assert.Equal(t, path, notAvailable.Path)
	}
}

func TestDispatchNoRoute(t *testing.T) {
	_, err := NewTable(Redirect("/a", "/b")).Dispatch("/c", nil)
	assert.ErrorIs(t, err, ErrNoRoute)
}

func TestDefaultTableOrder(t *testing.T) {
	routes := DefaultTable().Routes()
	require.NotEmpty(t, routes)

	index := func(pattern string) int {
		for i, r := range routes {
			if r.Pattern.String() == pattern {
				return i
			}
		}
		t.Fatalf("pattern %s not in table", pattern)
		return -1
	}

	assert.Less(t, index("/browse/detail/:id"), index("/browse"))
	assert.Less(t, index("/page/create/about"), index("/page/:breadcrumbs*/:pageName"))
	assert.Less(t, index("/:breadcrumbs*/book/:id"), index("/:segments*/stats"))
	assert.Equal(t, RouteFallback, routes[len(routes)-1].Kind)
}

func TestDispatchLeavesCapturedParamsAlone(t *testing.T) {
	outcome, err := DefaultTable().Dispatch("/page/create/downloads", embed.Static(false))
	require.NoError(t, err)

	assert.Equal(t, "downloads", outcome.View.Param(ParamURLKey))
	assert.NotContains(t, outcome.Params, ParamURLKey)
	assert.Equal(t, map[string]string{"breadcrumbs": "create", "pageName": "downloads"}, outcome.Params)
}

func TestMatchReturnsCopy(t *testing.T) {
	table := DefaultTable()

	route, _, ok := table.Match("/enabling-writers/stats")
	require.True(t, ok)
	require.True(t, route.RequiresTopLevel)
	route.RequiresTopLevel = false

	_, err := table.Dispatch("/enabling-writers/stats", embed.Static(true))
	assert.ErrorIs(t, err, ErrRequiresTopLevel)
}
