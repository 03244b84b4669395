package download

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/go-sdkmirror/pkg/manifest"
	"github.com/go-sdkmirror/pkg/utils"
)

// userAgent is sent on every request, matching the original tool's habit of
// identifying itself to the release servers.
const userAgent = "sdkmirror/1.0"

// Client handles checksum-gated HTTP downloads into the cache directory
type Client struct {
	httpClient    *http.Client
	logger        *utils.Logger
	downloadDir   string
	customHeaders map[string]string
	maxAttempts   int
	retryWait     time.Duration
	refresh       bool

	// serializes writers per target path; no two goroutines may write the
	// same cache entry concurrently
	pathLocks sync.Map
}

// NewClient creates a new download client rooted at downloadDir
func NewClient(logger *utils.Logger, downloadDir string) *Client {
	return &Client{
		httpClient:    &http.Client{},
		logger:        logger,
		downloadDir:   downloadDir,
		customHeaders: make(map[string]string),
		maxAttempts:   3,
		retryWait:     3 * time.Second,
	}
}

// SetRetryDefaults sets the attempt budget and the delay between attempts
func (c *Client) SetRetryDefaults(attempts int, wait time.Duration) {
	if attempts > 0 {
		c.maxAttempts = attempts
	}
	if wait > 0 {
		c.retryWait = wait
	}
}

// SetHeaders replaces the custom headers added to every request
func (c *Client) SetHeaders(headers map[string]string) {
	c.customHeaders = make(map[string]string, len(headers))
	for k, v := range headers {
		c.customHeaders[k] = v
	}
}

// SetRefresh forces cached manifest documents to be re-fetched
func (c *Client) SetRefresh(refresh bool) {
	c.refresh = refresh
}

// LocalPath returns where a payload lands in the download cache
func (c *Client) LocalPath(p manifest.Payload) string {
	return filepath.Join(c.downloadDir, filepath.FromSlash(p.RelativePath()))
}

// attempt statuses for a single transfer. The retry loop inspects these
// rather than matching on error identity.
type attemptStatus int

const (
	attemptOK attemptStatus = iota
	attemptTransient
	attemptIntegrity
)

type attemptResult struct {
	status attemptStatus
	err    error
}

// FetchPayload downloads one payload into the cache, verifying its digest.
// A local copy whose digest already matches short-circuits any network I/O,
// which makes the whole pipeline safe to re-run after interruption.
func (c *Client) FetchPayload(p manifest.Payload) (string, error) {
	localPath := c.LocalPath(p)

	unlock := c.lockPath(localPath)
	defer unlock()

	c.logger.Info("Downloading %s ...", p.URL)

	if actual, err := HashFile(localPath); err == nil && HashMatches(actual, p.SHA256) {
		c.logger.Info("Cached: %s", p.BaseName())
		return localPath, nil
	}

	if err := utils.EnsureDirForFile(localPath); err != nil {
		return "", err
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 {
			c.logger.Info("Retrying %s (attempt %d/%d, waiting %v)", p.BaseName(), attempt, c.maxAttempts, c.retryWait)
			time.Sleep(c.retryWait)
		}

		result := c.downloadOnce(p.URL, localPath, p.SHA256)
		if result.status == attemptOK {
			c.logger.Info("OK: %s", p.BaseName())
			return localPath, nil
		}

		lastErr = result.err
		c.logger.Error("Failed: %s: %v", p.BaseName(), result.err)
	}

	return "", fmt.Errorf("download of %s failed after %d attempts: %w", p.URL, c.maxAttempts, lastErr)
}

// downloadOnce performs a single transfer attempt. Bytes are streamed to a
// uniquely named temp file next to the target while the digest accumulates;
// the temp file is renamed onto the final name only after the digest checks
// out, so readers never observe a partial or corrupt cache entry. Failed
// transfers are quarantined under a .failed sibling for inspection.
func (c *Client) downloadOnce(url, localPath, expectedHash string) attemptResult {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return attemptResult{status: attemptTransient, err: fmt.Errorf("failed to create request for %s: %w", url, err)}
	}
	for key, value := range c.customHeaders {
		req.Header.Set(key, value)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return attemptResult{status: attemptTransient, err: fmt.Errorf("failed to download %s: %w", url, err)}
	}
	defer resp.Body.Close()

	c.logger.Debug("HTTP response status: %d", resp.StatusCode)
	if resp.StatusCode != http.StatusOK {
		return attemptResult{status: attemptTransient, err: fmt.Errorf("download failed with status: %d", resp.StatusCode)}
	}

	tmpPath := filepath.Join(filepath.Dir(localPath), "."+filepath.Base(localPath)+".tmp-"+uuid.NewString())
	file, err := os.Create(tmpPath)
	if err != nil {
		return attemptResult{status: attemptTransient, err: fmt.Errorf("failed to create temp file %s: %w", tmpPath, err)}
	}

	hasher := newStreamHasher(file)
	buf := make([]byte, hashChunkSize)
	_, copyErr := io.CopyBuffer(hasher, resp.Body, buf)
	closeErr := file.Close()

	if copyErr != nil || closeErr != nil {
		c.quarantine(tmpPath, localPath)
		if copyErr == nil {
			copyErr = closeErr
		}
		return attemptResult{status: attemptTransient, err: fmt.Errorf("failed to write %s: %w", localPath, copyErr)}
	}

	if actual := hasher.HexDigest(); !HashMatches(actual, expectedHash) {
		c.quarantine(tmpPath, localPath)
		return attemptResult{
			status: attemptIntegrity,
			err:    &IntegrityError{Path: localPath, Expected: expectedHash, Actual: actual},
		}
	}

	if err := os.Rename(tmpPath, localPath); err != nil {
		c.quarantine(tmpPath, localPath)
		return attemptResult{status: attemptTransient, err: fmt.Errorf("failed to finalize %s: %w", localPath, err)}
	}

	return attemptResult{status: attemptOK}
}

// quarantine moves a failed transfer to a .failed sibling of the canonical
// path rather than deleting it, preserving the bytes for inspection.
func (c *Client) quarantine(tmpPath, localPath string) {
	failedPath := localPath + ".failed"
	if err := os.Rename(tmpPath, failedPath); err != nil {
		c.logger.Debug("Failed to quarantine %s: %v", tmpPath, err)
		return
	}
	c.logger.Debug("Quarantined failed transfer as %s", failedPath)
}

func (c *Client) lockPath(path string) func() {
	v, _ := c.pathLocks.LoadOrStore(path, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
