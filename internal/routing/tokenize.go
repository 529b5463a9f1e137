package routing

import (
	"strings"

	"library/router/internal/domain"
)

// Tokenize strips every leading separator from path and splits the rest.
// An empty path yields a single empty segment.
func Tokenize(path string) []domain.Segment {
	parts := strings.Split(trimLeadingSeparators(path), domain.Separator)

	segments := make([]domain.Segment, len(parts))
	for i, part := range parts {
		segments[i] = domain.Segment(part)
	}
	return segments
}

func trimLeadingSeparators(path string) string {
	return strings.TrimLeft(path, domain.Separator)
}
