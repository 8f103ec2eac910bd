package handlers

import (
	"strings"
	"unicode/utf8"
)

// maxRelatedTypeTitleLen is the longest title accepted by the form.
const maxRelatedTypeTitleLen = 255

// validateRelatedType checks a related type title and returns the first
// error found, or an empty string.
func validateRelatedType(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "Title is required."
	}
	if utf8.RuneCountInString(title) > maxRelatedTypeTitleLen {
		return "Title is too long (max 255 characters)."
	}
	return ""
}
