package download

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/go-sdkmirror/pkg/utils"
)

// FetchJSONDocument retrieves a JSON document into v, keeping a local copy
// under the download directory. If a previously fetched copy parses, it is
// returned without a network call. This is a best-effort cache with no
// integrity check: manifest documents publish no digest, unlike payloads.
// An empty name derives the local name from the URL path.
func (c *Client) FetchJSONDocument(rawURL, name string, v interface{}) error {
	c.logger.Info("Downloading %s ...", rawURL)

	if name == "" {
		parsed, err := url.Parse(rawURL)
		if err != nil {
			return fmt.Errorf("invalid document URL %s: %w", rawURL, err)
		}
		name = path.Base(parsed.Path)
	}
	if name == "" || name == "." || name == "/" {
		return fmt.Errorf("attempted to download to invalid file name %q", name)
	}

	localPath := filepath.Join(c.downloadDir, name)

	if !c.refresh {
		if data, err := os.ReadFile(localPath); err == nil {
			if err := json.Unmarshal(data, v); err == nil {
				c.logger.Info("Cached: %s", name)
				return nil
			}
			c.logger.Debug("Cached document %s is unparsable, re-fetching", localPath)
		}
	}

	req, err := http.NewRequest("GET", rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request for %s: %w", rawURL, err)
	}
	for key, value := range c.customHeaders {
		req.Header.Set(key, value)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("document download failed with status: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read document body: %w", err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse document %s: %w", rawURL, err)
	}

	if err := utils.EnsureDirForFile(localPath); err != nil {
		return err
	}
	if err := os.WriteFile(localPath, data, 0644); err != nil {
		return fmt.Errorf("failed to persist document %s: %w", localPath, err)
	}

	c.logger.Info("OK: %s", name)
	return nil
}
