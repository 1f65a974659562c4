// internal/utils/sanitize.go
package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// SanitizeDescription strips all HTML tags from operator-entered rich text.
// Tags are removed entirely, not neutralized; entities introduced by the
// sanitizer are unescaped back so stored text stays plain.
func SanitizeDescription(s string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}
