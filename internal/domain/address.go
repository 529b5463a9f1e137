package domain

import "strings"

const (
	Separator    = "/"
	FilterPrefix = ":"

	// RootCollection is used whenever a path names no real collection.
	RootCollection = "root.read"
	// ReadKeyword is the legacy short path for the root collection.
	ReadKeyword = "read"

	BookKeyword   = "book"
	PlayerKeyword = "player"
	PageKeyword   = "page"

	EmbeddedSettingsPrefix = "embed-"
)

// Segment is one slash-separated token of a path. Filter segments start with
// a colon and encode a key:value pair, e.g. ":level:1".
type Segment string

func (s Segment) String() string {
	return string(s)
}

func (s Segment) IsFilter() bool {
	return strings.HasPrefix(string(s), FilterPrefix)
}

// Filter returns the segment without its leading colon.
func (s Segment) Filter() string {
	return strings.TrimPrefix(string(s), FilterPrefix)
}

// ResolvedAddress is what a path means: which collection to show, how it is
// filtered and how we got there.
type ResolvedAddress struct {
	CollectionName      string   `json:"collection_name"`
	Filters             []string `json:"filters"`     // Decoded, in path order
	Breadcrumbs         []string `json:"breadcrumbs"` // Ancestor collections, outermost first
	BookID              string   `json:"book_id,omitempty"`
	IsPlayerURL         bool     `json:"is_player_url"`
	IsPageURL           bool     `json:"is_page_url"`
	EmbeddedSettingsKey string   `json:"embedded_settings_key,omitempty"` // Empty unless embedded
}

// IsRoot reports whether the address points at the root collection.
func (a ResolvedAddress) IsRoot() bool {
	return a.CollectionName == RootCollection
}

// IsFiltered reports whether the address is a subset of its collection.
func (a ResolvedAddress) IsFiltered() bool {
	return len(a.Filters) > 0
}
