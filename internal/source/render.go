package source

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"
)

// getRendered loads url in a headless Chromium instance and returns the
// DOM after scripts have run. Listings that only build their markup
// client-side need this path; everything else should stay on plain HTTP.
func (f *fetcher) getRendered(ctx context.Context, url string) ([]byte, error) {
	cctx, cancel := chromedp.NewContext(ctx)
	defer cancel()

	// Apply the same per-source bound as the HTTP path.
	cctx, timeoutCancel := context.WithTimeout(cctx, f.timeout)
	defer timeoutCancel()

	var html string
	tasks := chromedp.Tasks{
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	}

	if err := chromedp.Run(cctx, tasks); err != nil {
		return nil, fmt.Errorf("source: chromedp run failed: %w", err)
	}

	return []byte(html), nil
}
