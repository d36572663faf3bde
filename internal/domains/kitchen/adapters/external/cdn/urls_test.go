package cdn

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MR-MonkeyRay/emojikitchen/internal/domains/kitchen/domain"
)

func TestResolveBaseURL(t *testing.T) {
	tests := []struct {
		name   string
		source string
		custom string
		want   string
	}{
		{name: "cn preset", source: "www.gstatic.cn", want: "https://www.gstatic.cn"},
		{name: "com preset", source: "www.gstatic.com", want: "https://www.gstatic.com"},
		{name: "preset wins over custom", source: "www.gstatic.com", custom: "https://mirror.example", want: "https://www.gstatic.com"},
		{name: "custom with trailing slash", source: "custom", custom: "https://mirror.example/", want: "https://mirror.example"},
		{name: "empty falls back to cn", want: "https://www.gstatic.cn"},
		{name: "unknown source without custom falls back", source: "cdn.example", want: "https://www.gstatic.cn"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, ResolveBaseURL(tc.source, tc.custom))
		})
	}
}

func TestURLBuilder_BothOrderings(t *testing.T) {
	left, err := domain.ParseCodepoints("1f600")
	require.NoError(t, err)
	right, err := domain.ParseCodepoints("2764-fe0f")
	require.NoError(t, err)
	pair, err := domain.NewPair(left, right)
	require.NoError(t, err)

	builder := NewURLBuilder("https://www.gstatic.cn/")
	urls := builder.BuildURLs(pair, "20211115")
	require.Equal(t, []string{
		"https://www.gstatic.cn/android/keyboard/emojikitchen/20211115/u1f600/u1f600_u2764-ufe0f.png",
		"https://www.gstatic.cn/android/keyboard/emojikitchen/20211115/u2764-ufe0f/u2764-ufe0f_u1f600.png",
	}, urls)
}
