// genmanifest builds a synthetic channel + manifest JSON pair from a local
// directory of payload files, hashing each file and pointing its URL at a
// base URL. Useful for staging test fixtures and local mirrors.
package main

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-sdkmirror/pkg/manifest"
)

func main() {
	baseURL := flag.String("base-url", "", "Required: Base URL where the payload dir will be hosted")
	payloadDir := flag.String("payload-dir", "", "Required: Directory of payload files to describe")
	output := flag.String("output", "", "Required: Output directory for the generated documents")
	manifestID := flag.String("manifest-id", "Microsoft.VisualStudio.Manifests.VisualStudio", "Channel item id for the manifest reference")
	packageID := flag.String("package-id", "Win10SDK_10.0.1", "Package id for the generated package")
	packageVersion := flag.String("package-version", "10.0.1", "Version for the generated package")

	flag.Parse()

	if *baseURL == "" {
		log.Fatal("base-url is required")
	}
	if *payloadDir == "" {
		log.Fatal("payload-dir is required")
	}
	if *output == "" {
		log.Fatal("output is required")
	}

	payloads, err := collectPayloads(*payloadDir, strings.TrimRight(*baseURL, "/"))
	if err != nil {
		log.Fatalf("Error collecting payloads: %v", err)
	}
	fmt.Printf("Described %d payloads from %s\n", len(payloads), *payloadDir)

	man := manifest.Manifest{
		Packages: []manifest.Package{
			{
				ID:       *packageID,
				Version:  *packageVersion,
				Type:     "Msi",
				Payloads: payloads,
			},
		},
	}

	manifestPath := filepath.Join(*output, "manifest.json")
	if err := writeJSON(manifestPath, man); err != nil {
		log.Fatalf("Error writing manifest: %v", err)
	}
	fmt.Printf("Manifest saved to %s\n", manifestPath)

	channel := manifest.Channel{
		ChannelItems: []manifest.ChannelItem{
			{
				ID:      *manifestID,
				Version: *packageVersion,
				Payloads: []manifest.Payload{
					{FileName: "manifest.json", URL: strings.TrimRight(*baseURL, "/") + "/manifest.json"},
				},
			},
		},
	}

	channelPath := filepath.Join(*output, "channel.json")
	if err := writeJSON(channelPath, channel); err != nil {
		log.Fatalf("Error writing channel: %v", err)
	}
	fmt.Printf("Channel saved to %s\n", channelPath)
}

// collectPayloads walks the payload directory and describes every regular
// file, publishing logical paths with backslash separators the way the real
// manifests do.
func collectPayloads(dir, baseURL string) ([]manifest.Payload, error) {
	var payloads []manifest.Payload

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		hash, err := hashFile(path)
		if err != nil {
			return err
		}

		payloads = append(payloads, manifest.Payload{
			FileName: strings.ReplaceAll(rel, "/", "\\"),
			URL:      baseURL + "/" + rel,
			SHA256:   hash,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payloads, nil
}

func hashFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
