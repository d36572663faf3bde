package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCodepoints(t *testing.T) {
	cps, err := ParseCodepoints("2764-fe0f")
	require.NoError(t, err)
	require.Equal(t, Codepoints{0x2764, 0xfe0f}, cps)
	require.Equal(t, "2764-fe0f", cps.Hyphenated())
	require.Equal(t, "u2764-ufe0f", cps.URLSegment())
}

func TestParseCodepoints_Invalid(t *testing.T) {
	_, err := ParseCodepoints("")
	require.ErrorIs(t, err, ErrEmptyEmoji)

	_, err = ParseCodepoints("not-hex")
	require.ErrorIs(t, err, ErrInvalidCodepoints)
}

func TestPairKey_Commutative(t *testing.T) {
	grin := Codepoints{0x1f600}
	cool := Codepoints{0x1f60e}

	ab, err := NewPair(grin, cool)
	require.NoError(t, err)
	ba, err := NewPair(cool, grin)
	require.NoError(t, err)

	require.Equal(t, ab.Key(), ba.Key())
	require.Equal(t, PairKey("1f600_1f60e"), ab.Key())
}

func TestNewPair_Empty(t *testing.T) {
	_, err := NewPair(Codepoints{0x1f600}, nil)
	require.ErrorIs(t, err, ErrEmptyEmoji)
}
