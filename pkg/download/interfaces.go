package download

import "github.com/go-sdkmirror/pkg/manifest"

// Downloader defines what a payload downloader should be able to do
type Downloader interface {
	FetchPayload(p manifest.Payload) (string, error)
	FetchAll(payloads []manifest.Payload, maxConcurrency int) ([]DownloadResult, error)
}
