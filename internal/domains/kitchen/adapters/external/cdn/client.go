package cdn

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/MR-MonkeyRay/emojikitchen/internal/domains/kitchen/ports"
)

var _ ports.ImageFetcher = (*Client)(nil)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

// Client probes the Emoji Kitchen CDN for composite images.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
}

// NewClient instantiates the CDN client with sane defaults.
func NewClient(httpClient *http.Client, timeout time.Duration) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{httpClient: httpClient, timeout: timeout}
}

// Fetch issues one probe. A 404 maps to ports.ErrNoImage, a 429 to
// ports.ErrRateLimited; any other non-200 status, transport failure, or
// non-PNG body is a transient probe failure.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build probe request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("probe %s: %w", url, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ports.ErrNoImage
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("probe %s: %w", url, ports.ErrRateLimited)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("probe %s: unexpected status %s", url, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read probe body: %w", err)
	}
	if len(data) < len(pngMagic) || !bytes.Equal(data[:len(pngMagic)], pngMagic) {
		return nil, errors.New("probe response is not a PNG")
	}
	return data, nil
}
