package node

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestCloseReason(t *testing.T) {
	tests := map[string]struct {
		reason   string
		expected string
	}{
		"short reason is kept": {
			reason:   "context canceled",
			expected: "context canceled",
		},
		"ascii is cut at the limit": {
			reason:   strings.Repeat("a", closeReasonMaxBytes+10),
			expected: strings.Repeat("a", closeReasonMaxBytes),
		},
		"multi byte rune across the limit is dropped": {
			reason:   strings.Repeat("a", closeReasonMaxBytes-1) + "é",
			expected: strings.Repeat("a", closeReasonMaxBytes-1),
		},
		"three byte runes": {
			reason:   strings.Repeat("€", 50),
			expected: strings.Repeat("€", closeReasonMaxBytes/3),
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got := closeReason(test.reason)
			assert.Equal(t, test.expected, got)
			assert.LessOrEqual(t, len(got), closeReasonMaxBytes)
			assert.True(t, utf8.ValidString(got))
		})
	}
}
