package cdn

import (
	"strings"

	"github.com/MR-MonkeyRay/emojikitchen/internal/domains/kitchen/domain"
	"github.com/MR-MonkeyRay/emojikitchen/internal/domains/kitchen/ports"
)

var _ ports.URLBuilder = (*URLBuilder)(nil)

const kitchenPath = "/android/keyboard/emojikitchen/"

// ResolveBaseURL maps the configured CDN source onto a concrete base URL.
// Known presets win over the custom URL; an empty or unknown source falls
// back to the gstatic.cn mirror.
func ResolveBaseURL(source, customURL string) string {
	source = strings.TrimSpace(source)
	switch {
	case strings.HasPrefix(source, "www.gstatic.cn"):
		return "https://www.gstatic.cn"
	case strings.HasPrefix(source, "www.gstatic.com"):
		return "https://www.gstatic.com"
	}
	if custom := strings.TrimRight(strings.TrimSpace(customURL), "/"); custom != "" {
		return custom
	}
	return "https://www.gstatic.cn"
}

// URLBuilder renders probe URLs for the Emoji Kitchen CDN layout.
type URLBuilder struct {
	base string
}

// NewURLBuilder wires a builder for the given base URL.
func NewURLBuilder(base string) *URLBuilder {
	return &URLBuilder{base: strings.TrimRight(base, "/")}
}

// BuildURLs returns both ordering variants for the (pair, date) probe. The
// CDN stores each composite under exactly one ordering, which is not
// derivable from the pair, so both are tried.
func (b *URLBuilder) BuildURLs(pair domain.EmojiPair, date domain.CandidateDate) []string {
	left := pair.Left().URLSegment()
	right := pair.Right().URLSegment()
	return []string{
		b.base + kitchenPath + date.String() + "/" + left + "/" + left + "_" + right + ".png",
		b.base + kitchenPath + date.String() + "/" + right + "/" + right + "_" + left + ".png",
	}
}
