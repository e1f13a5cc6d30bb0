// Package sanitize inspects user-supplied plain text for HTML markup.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// StrictPolicy removes all HTML tags and attributes.
var StrictPolicy = bluemonday.StrictPolicy()

// The HTML tokenizer folds CR and CRLF into LF.
var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Text strips all HTML tags and returns escaped plain text.
func Text(input string) string {
	return StrictPolicy.Sanitize(input)
}

// ContainsMarkup reports whether the strict policy would drop anything from
// input: tags, comments or the bodies of script and style elements.
// Character references such as "&lt;" and bare symbols such as "a < b" or
// "R&D" are text, not markup.
func ContainsMarkup(input string) bool {
	plain := newlines.Replace(input)
	return html.UnescapeString(Text(plain)) != html.UnescapeString(plain)
}
