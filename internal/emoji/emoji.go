// Package emoji converts between emoji literals and their codepoint forms.
// Message-level extraction and validation happen upstream (the chat
// collaborator delivers exactly two emoji); this package only transforms.
package emoji

import (
	"strings"

	"github.com/MR-MonkeyRay/emojikitchen/internal/domains/kitchen/domain"
)

// Codepoints converts an emoji literal to its codepoint sequence:
// "😀" → [1f600], "❤️" → [2764 fe0f].
func Codepoints(s string) domain.Codepoints {
	var cps domain.Codepoints
	for _, r := range s {
		cps = append(cps, r)
	}
	return cps
}

// ParseArgument accepts either an emoji literal or the hyphenated-hex
// codepoint form ("2764-fe0f") and returns the codepoint sequence.
func ParseArgument(s string) (domain.Codepoints, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, domain.ErrEmptyEmoji
	}
	if isHexForm(s) {
		return domain.ParseCodepoints(s)
	}
	return Codepoints(s), nil
}

// isHexForm reports whether the string can only be the codepoint notation.
// Emoji literals never consist solely of ASCII hex digits and hyphens.
func isHexForm(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		case r == '-':
		default:
			return false
		}
	}
	return true
}
