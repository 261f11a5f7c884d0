package client

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DownloadResult is the outcome of one locale in DownloadLocales.
type DownloadResult struct {
	Locale string
	Body   string
	Err    error
}

// DownloadLocales downloads fileName for every locale, at most
// WithDownloadConcurrency at a time. It returns one result per locale in
// input order. A failed locale does not stop the others; once ctx is done,
// locales not yet started report ctx's error.
func (c *Client) DownloadLocales(ctx context.Context, locales []string, fileName string) []DownloadResult {
	results := make([]DownloadResult, len(locales))

	var g errgroup.Group
	g.SetLimit(c.opts.downloadConcurrency)

	for i, locale := range locales {
		results[i].Locale = locale
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Body, results[i].Err = c.Download(ctx, locale, fileName)
			return nil
		})
	}

	_ = g.Wait()

	return results
}

// Failed returns the results that carry an error.
func Failed(results []DownloadResult) []DownloadResult {
	var failed []DownloadResult
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}
