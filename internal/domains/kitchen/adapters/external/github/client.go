// Package github fetches candidate dates and combination metadata from the
// emoji-kitchen-backend repository, optionally through a GitHub proxy.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/MR-MonkeyRay/emojikitchen/internal/domains/kitchen/domain"
	"github.com/MR-MonkeyRay/emojikitchen/internal/domains/kitchen/ports"
)

var (
	_ ports.DateSource     = (*Client)(nil)
	_ ports.MetadataSource = (*Client)(nil)
)

const metadataBaseURL = "https://raw.githubusercontent.com/xsalazar/emoji-kitchen-backend/main/emoji/data/"

// sampleCodepoint is the emoji whose metadata doubles as the remote date
// list: its document mentions every generation batch.
const sampleCodepoint = "1f600"

// ResolveProxyURL maps the configured proxy source onto a concrete proxy
// base URL; an empty result means direct access.
func ResolveProxyURL(source, customURL string) string {
	source = strings.TrimSpace(source)
	switch {
	case strings.HasPrefix(source, "ghfast.top"):
		return "https://ghfast.top"
	case strings.HasPrefix(source, "gh-proxy.com"):
		return "https://gh-proxy.com"
	case source == "direct":
		return ""
	}
	if custom := strings.TrimRight(strings.TrimSpace(customURL), "/"); custom != "" {
		return custom
	}
	return "https://ghfast.top"
}

// Client pulls metadata documents from GitHub raw content.
type Client struct {
	httpClient *http.Client
	proxy      string
	timeout    time.Duration
}

// NewClient wires the client; proxy may be empty for direct access.
func NewClient(httpClient *http.Client, proxy string, timeout time.Duration) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{httpClient: httpClient, proxy: strings.TrimRight(proxy, "/"), timeout: timeout}
}

// metadataDocument is the wire shape of emoji/data/<cp>.json.
type metadataDocument struct {
	Combinations map[string][]combinationEntry `json:"combinations"`
}

type combinationEntry struct {
	Date     string `json:"date"`
	IsLatest bool   `json:"isLatest"`
}

// FetchDates pulls the sample metadata document and extracts every
// generation date it mentions.
func (c *Client) FetchDates(ctx context.Context) ([]domain.CandidateDate, error) {
	set, err := c.FetchCombinations(ctx, sampleCodepoint)
	if err != nil {
		return nil, err
	}
	return set.Dates, nil
}

// FetchCombinations pulls and parses one emoji's combination metadata.
func (c *Client) FetchCombinations(ctx context.Context, cp string) (*ports.CombinationSet, error) {
	doc, err := c.fetchDocument(ctx, cp)
	if err != nil {
		return nil, err
	}
	return parseCombinations(doc), nil
}

func (c *Client) fetchDocument(ctx context.Context, cp string) (*metadataDocument, error) {
	url := metadataBaseURL + cp + ".json"
	if c.proxy != "" {
		url = c.proxy + "/" + url
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build metadata request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch metadata %s: %w", cp, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch metadata %s: unexpected status %s", cp, resp.Status)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read metadata %s: %w", cp, err)
	}
	var doc metadataDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse metadata %s: %w", cp, err)
	}
	return &doc, nil
}

// parseCombinations picks the isLatest entry per partner (falling back to the
// first) and collects every valid date in the document.
func parseCombinations(doc *metadataDocument) *ports.CombinationSet {
	set := &ports.CombinationSet{Combos: map[string]domain.CandidateDate{}}
	seen := map[domain.CandidateDate]struct{}{}
	for partner, entries := range doc.Combinations {
		if len(entries) == 0 {
			continue
		}
		chosen := entries[0]
		for _, entry := range entries {
			if entry.IsLatest {
				chosen = entry
				break
			}
		}
		if date, err := domain.ParseCandidateDate(chosen.Date); err == nil {
			set.Combos[partner] = date
		}
		for _, entry := range entries {
			date, err := domain.ParseCandidateDate(entry.Date)
			if err != nil {
				continue
			}
			if _, ok := seen[date]; !ok {
				seen[date] = struct{}{}
				set.Dates = append(set.Dates, date)
			}
		}
	}
	domain.SortNewestFirst(set.Dates)
	return set
}
