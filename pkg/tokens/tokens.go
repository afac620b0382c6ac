// Package tokens implements the {{ TOKEN }} placeholder syntax shared by
// the site, readme and workflow templates. Values land in generated HTML,
// SVG and markdown, so the package offers two deliberately distinct
// operations: Replace passes values through untouched, ReplaceEscaped
// HTML-escapes every value. Call sites choose one; there is no implicit
// mixing of the two.
package tokens

import (
	"html"
	"regexp"
)

var pattern = regexp.MustCompile(`\{\{\s*([A-Z0-9_]+)\s*\}\}`)

// Replace substitutes placeholders with raw values. Unknown tokens render
// as empty strings.
func Replace(src string, values map[string]string) string {
	return replace(src, values, func(v string) string { return v })
}

// ReplaceEscaped substitutes placeholders with HTML-escaped values. Unknown
// tokens render as empty strings.
func ReplaceEscaped(src string, values map[string]string) string {
	return replace(src, values, html.EscapeString)
}

func replace(src string, values map[string]string, transform func(string) string) string {
	return pattern.ReplaceAllStringFunc(src, func(match string) string {
		key := pattern.FindStringSubmatch(match)[1]
		return transform(values[key])
	})
}

// Has reports whether src contains at least one placeholder.
func Has(src string) bool {
	return pattern.MatchString(src)
}
