package utils

import "github.com/microcosm-cc/bluemonday"

var bioSanitizer = bluemonday.StrictPolicy()

// SanitizeBio strips all HTML from user-supplied profile text. Bios render as
// plain text in the client, so nothing richer than text survives.
func SanitizeBio(input string) string {
	return bioSanitizer.Sanitize(input)
}
