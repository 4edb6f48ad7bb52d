package httpfetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	portfetcher "github.com/alanyang/engn/internal/port/fetcher"
)

var _ portfetcher.Fetcher = (*Fetcher)(nil)

// Fetcher resolves sources against a base URL and GETs them.
type Fetcher struct {
	client *http.Client
	base   *url.URL
}

func New(baseURL string, timeout time.Duration) (*Fetcher, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
		base:   base,
	}, nil
}

func (f *Fetcher) Fetch(ctx context.Context, src string) ([]byte, error) {
	ref, err := url.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parsing source %q: %w", src, err)
	}
	target := f.base.ResolveReference(ref)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", target, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("fetching %s: %w", target, portfetcher.ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("fetching %s: %w %d", target, portfetcher.ErrStatus, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading body of %s: %w", target, err)
	}
	return data, nil
}
