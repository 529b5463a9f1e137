// Package embed decides whether a request is being served inside another
// site's frame.
package embed

import (
	"net/http"
	"strconv"
)

const (
	// FetchDestHeader is sent by browsers on every navigation. "iframe" and
	// "frame" mean the document is being loaded into a frame.
	FetchDestHeader = "Sec-Fetch-Dest"
	// QueryParam is appended by embedding hosts that want to force embedded mode.
	QueryParam = "embedded"
)

type Detector interface {
	IsEmbedded() bool
}

// Static is a Detector with a fixed answer.
type Static bool

func (s Static) IsEmbedded() bool {
	return bool(s)
}

type requestDetector struct {
	r *http.Request
}

// FromRequest evaluates embedded mode from the request headers and query on
// every call.
func FromRequest(r *http.Request) Detector {
	return requestDetector{r: r}
}

func (d requestDetector) IsEmbedded() bool {
	if d.r == nil {
		return false
	}
	switch d.r.Header.Get(FetchDestHeader) {
	case "iframe", "frame":
		return true
	}
	if d.r.URL == nil {
		return false
	}
	embedded, err := strconv.ParseBool(d.r.URL.Query().Get(QueryParam))
	return err == nil && embedded
}
