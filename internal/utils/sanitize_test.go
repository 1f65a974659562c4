// internal/utils/sanitize_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeDescription(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"<b>bold</b> claim", "bold claim"},
		{"line<br>break", "linebreak"},
		{"a <a href=\"https://x.test\">link</a>", "a link"},
		{"  padded  ", "padded"},
		{"fish &amp; chips", "fish & chips"},
		{"", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, SanitizeDescription(tc.in), "input %q", tc.in)
	}
}
