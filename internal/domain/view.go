package domain

type ViewKind string

func (v ViewKind) String() string {
	return string(v)
}

const (
	ViewCollection       ViewKind = "collection"
	ViewCollectionSubset ViewKind = "collection-subset"
	ViewEmbeddingHost    ViewKind = "embedding-host"
	ViewBookDetail       ViewKind = "book-detail"
	ViewPlayer           ViewKind = "player"
	ViewGrid             ViewKind = "grid"
	ViewBulkEdit         ViewKind = "bulk-edit"
	ViewContentPage      ViewKind = "content-page"
	ViewMultiPartPage    ViewKind = "multi-part-page"
	ViewStats            ViewKind = "stats"
	ViewReport           ViewKind = "report"
	ViewReleaseNotes     ViewKind = "release-notes"
	ViewBannerPreview    ViewKind = "banner-preview"
	ViewTestEmbedding    ViewKind = "test-embedding"
)

// View tells a view collaborator what to render.
type View struct {
	Kind    ViewKind          `json:"kind"`
	Params  map[string]string `json:"params,omitempty"`  // Path parameters extracted by the route
	Address *ResolvedAddress  `json:"address,omitempty"` // Set for collection-like views
}

func (v View) Param(name string) string {
	return v.Params[name]
}
