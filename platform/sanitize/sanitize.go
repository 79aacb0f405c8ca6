// Package sanitize provides text sanitization utilities for display fallbacks.
package sanitize

import (
	"html"
	"regexp"
	"strings"
)

var (
	// htmlTagRegex matches HTML tags
	htmlTagRegex = regexp.MustCompile(`<[^>]*>`)
	// spaceRegex collapses runs of whitespace left behind by stripped markup
	spaceRegex = regexp.MustCompile(`[ \t]{2,}`)
)

// StripHTML removes all HTML tags from a string and decodes entities, making
// it safe for text-only display. Legacy lead facts and notes columns often
// contain HTML-escaped fragments; this is their last-resort rendering path.
func StripHTML(s string) string {
	// Remove HTML tags
	result := htmlTagRegex.ReplaceAllString(s, "")
	// Decode HTML entities (named and numeric)
	result = html.UnescapeString(result)
	// Re-strip after entity decode to catch encoded tags
	result = htmlTagRegex.ReplaceAllString(result, "")
	result = spaceRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

// Text sanitizes a string for safe text storage by stripping HTML
// and normalizing whitespace.
func Text(s string) string {
	return StripHTML(s)
}

// TextPtr is a helper for optional string pointers
func TextPtr(s *string) *string {
	if s == nil {
		return nil
	}
	result := Text(*s)
	return &result
}
