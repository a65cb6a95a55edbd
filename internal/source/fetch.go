package source

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"
)

// DefaultUserAgent identifies the pipeline to the sites it pulls from.
const DefaultUserAgent = "Mozilla/5.0 (compatible; evcal/1.0)"

// DefaultTimeout bounds a single source fetch.
const DefaultTimeout = 15 * time.Second

// fetcher retrieves listing pages over plain HTTP or, when render is
// set, through headless Chromium.
type fetcher struct {
	client    *http.Client
	userAgent string
	timeout   time.Duration
	render    bool
}

func newFetcher(opts Options, render bool) *fetcher {
	ua := opts.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	to := opts.Timeout
	if to <= 0 {
		to = DefaultTimeout
	}
	return &fetcher{
		client:    &http.Client{Timeout: to},
		userAgent: ua,
		timeout:   to,
		render:    render,
	}
}

// get returns the page body for url. Any non-2xx status is a fetch
// failure; there is no cache and no fallback.
func (f *fetcher) get(ctx context.Context, url string) ([]byte, error) {
	if f.render {
		return f.getRendered(ctx, url)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, errors.New(resp.Status)
	}

	return io.ReadAll(resp.Body)
}
