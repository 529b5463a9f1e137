package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLegacyHashTarget(t *testing.T) {
	tests := []struct {
		fragment string
		expected string
		found    bool
	}{
		{fragment: "#/browse/detail/abc", expected: "/book/abc", found: true},
		{fragment: "#/terms", expected: "/page/termsOfUse", found: true},
		{fragment: "#/artofreading", expected: "/page/create/page/art-of-reading", found: true},
		{fragment: "/terms", expected: "/page/termsOfUse", found: true},
		{fragment: "#/somewhere", found: false},
		{fragment: "#terms", found: false},
		{fragment: "", found: false},
	}

	for _, tt := range tests {
		target, found := LegacyHashTarget(tt.fragment)
		assert.Equal(t, tt.found, found, tt.fragment)
		assert.Equal(t, tt.expected, target, tt.fragment)
	}
}

func TestLegacyHashRules(t *testing.T) {
	rules := LegacyHashRules()
	assert.Len(t, rules, 3)
	assert.Contains(t, rules, HashRule{Pattern: "/terms", Target: "/page/termsOfUse"})
}
