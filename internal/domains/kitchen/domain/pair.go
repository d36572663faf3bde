package domain

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Codepoints is the Unicode scalar sequence of a single emoji. Most emoji are
// one rune; variation selectors, skin tones, and ZWJ sequences make it longer.
type Codepoints []rune

var (
	ErrEmptyEmoji        = errors.New("emoji has no codepoints")
	ErrInvalidCodepoints = errors.New("invalid codepoint sequence")
)

// ParseCodepoints reads the hyphenated lowercase-hex form, e.g. "2764-fe0f".
func ParseCodepoints(s string) (Codepoints, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrEmptyEmoji
	}
	parts := strings.Split(s, "-")
	cps := make(Codepoints, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseUint(part, 16, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCodepoints, s)
		}
		cps = append(cps, rune(v))
	}
	return cps, nil
}

// Hyphenated renders the canonical form used for cache keys and metadata
// lookups: "1f600", "2764-fe0f".
func (c Codepoints) Hyphenated() string {
	parts := make([]string, len(c))
	for i, r := range c {
		parts[i] = strconv.FormatInt(int64(r), 16)
	}
	return strings.Join(parts, "-")
}

// URLSegment renders the CDN path form: "u1f600", "u2764-ufe0f".
func (c Codepoints) URLSegment() string {
	parts := make([]string, len(c))
	for i, r := range c {
		parts[i] = "u" + strconv.FormatInt(int64(r), 16)
	}
	return strings.Join(parts, "-")
}

// PairKey addresses one emoji pair in the cache and groups its probes.
type PairKey string

// EmojiPair is an immutable pair of emoji codepoint sequences.
type EmojiPair struct {
	left  Codepoints
	right Codepoints
}

// NewPair validates both sides and builds the pair.
func NewPair(left, right Codepoints) (EmojiPair, error) {
	if len(left) == 0 || len(right) == 0 {
		return EmojiPair{}, ErrEmptyEmoji
	}
	return EmojiPair{left: left, right: right}, nil
}

func (p EmojiPair) Left() Codepoints  { return p.left }
func (p EmojiPair) Right() Codepoints { return p.right }

// Key returns the canonical cache key. The CDN serves the same composite for
// both orderings, so the key sorts the two sides to make (A,B) and (B,A)
// address the same entry.
func (p EmojiPair) Key() PairKey {
	parts := []string{p.left.Hyphenated(), p.right.Hyphenated()}
	sort.Strings(parts)
	return PairKey(strings.Join(parts, "_"))
}
