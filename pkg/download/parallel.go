package download

import (
	"golang.org/x/sync/errgroup"

	"github.com/go-sdkmirror/pkg/manifest"
)

// DownloadResult represents the outcome of one payload fetch
type DownloadResult struct {
	Payload   manifest.Payload
	LocalPath string
	Err       error
}

// FetchAll downloads payloads with bounded concurrency. Results keep input
// order. Every download runs to completion (including its own retry budget)
// before FetchAll returns; the error is the first failure observed, so the
// caller can abort while still seeing the full result set. One payload's
// retry backoff never blocks the others.
func (c *Client) FetchAll(payloads []manifest.Payload, maxConcurrency int) ([]DownloadResult, error) {
	if maxConcurrency <= 0 {
		maxConcurrency = len(payloads)
	}

	results := make([]DownloadResult, len(payloads))

	var g errgroup.Group
	g.SetLimit(maxConcurrency)

	for i, p := range payloads {
		i, p := i, p
		g.Go(func() error {
			localPath, err := c.FetchPayload(p)
			results[i] = DownloadResult{Payload: p, LocalPath: localPath, Err: err}
			return err
		})
	}

	err := g.Wait()
	return results, err
}
