// Package sanitize strips markup from user-supplied text fields before
// they are stored. Group names, table names, player names, and notes are
// rendered back to clients, so anything that looks like HTML is removed.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Text strips all HTML from s and trims surrounding whitespace.
func Text(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}
