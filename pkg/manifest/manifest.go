package manifest

import "strings"

// Channel is the top-level release-channel document. It lists manifest
// references; the one matching the configured manifest id points at the full
// package manifest.
type Channel struct {
	ChannelItems []ChannelItem `json:"channelItems"`
}

// ChannelItem is a single reference inside the channel document
type ChannelItem struct {
	ID       string    `json:"id"`
	Version  string    `json:"version,omitempty"`
	Payloads []Payload `json:"payloads,omitempty"`
}

// Manifest is the full package manifest referenced from the channel
type Manifest struct {
	Packages []Package `json:"packages"`
}

// Package is one versioned distributable unit from the manifest
type Package struct {
	ID       string    `json:"id"`
	Version  string    `json:"version,omitempty"`
	Type     string    `json:"type,omitempty"`
	Payloads []Payload `json:"payloads,omitempty"`
}

// Payload is one concrete downloadable file belonging to a package.
// FileName is the logical path as published by the source, with backslash
// separators.
type Payload struct {
	FileName string `json:"fileName"`
	URL      string `json:"url"`
	SHA256   string `json:"sha256,omitempty"`
}

// BaseName returns the final component of the payload's published path.
// This is the retrieval key used for cache placement and for matching
// against cabinet names referenced from inside an installer archive.
func (p Payload) BaseName() string {
	if i := strings.LastIndexByte(p.FileName, '\\'); i >= 0 {
		return p.FileName[i+1:]
	}
	return p.FileName
}

// RelativePath returns the payload's published path with separators
// normalized for local placement under the download cache.
func (p Payload) RelativePath() string {
	return strings.ReplaceAll(p.FileName, "\\", "/")
}
