package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var htmlPolicy = bluemonday.StrictPolicy()

// Display names are echoed back into chat messages, so keep them short.
const maxDisplayNameLen = 64

// FallbackDisplayName replaces names that are empty after cleaning.
const FallbackDisplayName = "无名玩家"

// CleanDisplayName normalizes a platform-provided display name before it is
// stored or rendered into game messages: strips markup, null bytes and
// surrounding whitespace, and caps the length.
func CleanDisplayName(name string) string {
	name = htmlPolicy.Sanitize(name)
	// Sanitize entity-escapes what it keeps; undo that for plain text.
	name = html.UnescapeString(name)
	name = strings.ReplaceAll(name, "\x00", "")
	name = strings.TrimSpace(name)

	if runes := []rune(name); len(runes) > maxDisplayNameLen {
		name = string(runes[:maxDisplayNameLen])
	}

	if name == "" {
		return FallbackDisplayName
	}
	return name
}

// SanitizeText removes markup and control bytes from free-form text such
// as room settings values.
func SanitizeText(input string) string {
	input = htmlPolicy.Sanitize(input)
	input = html.UnescapeString(input)
	input = strings.ReplaceAll(input, "\x00", "")
	input = strings.TrimSpace(input)

	if len(input) > 1000 {
		input = input[:1000]
	}
	return input
}
