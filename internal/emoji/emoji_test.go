package emoji

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MR-MonkeyRay/emojikitchen/internal/domains/kitchen/domain"
)

func TestCodepoints(t *testing.T) {
	require.Equal(t, domain.Codepoints{0x1f600}, Codepoints("😀"))
	require.Equal(t, domain.Codepoints{0x2764, 0xfe0f}, Codepoints("❤️"))
}

func TestParseArgument(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  domain.Codepoints
	}{
		{name: "literal", input: "😀", want: domain.Codepoints{0x1f600}},
		{name: "literal with variation selector", input: "❤️", want: domain.Codepoints{0x2764, 0xfe0f}},
		{name: "hex form", input: "1f600", want: domain.Codepoints{0x1f600}},
		{name: "hyphenated hex form", input: "2764-fe0f", want: domain.Codepoints{0x2764, 0xfe0f}},
		{name: "surrounding whitespace", input: " 1f600 ", want: domain.Codepoints{0x1f600}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseArgument(tc.input)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestParseArgument_Empty(t *testing.T) {
	_, err := ParseArgument("  ")
	require.ErrorIs(t, err, domain.ErrEmptyEmoji)
}

func TestParseArgument_MalformedHexForm(t *testing.T) {
	_, err := ParseArgument("2764--fe0f")
	require.ErrorIs(t, err, domain.ErrInvalidCodepoints)
}
