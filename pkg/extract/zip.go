package extract

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-sdkmirror/pkg/utils"
)

// ZipFileExtractor expands zip-based extension archives in-process
type ZipFileExtractor struct {
	logger *utils.Logger
}

// NewZipFileExtractor creates a zip extractor
func NewZipFileExtractor(logger *utils.Logger) *ZipFileExtractor {
	return &ZipFileExtractor{logger: logger}
}

// Extract expands the archive into destDir. Entries that would escape
// destDir are rejected.
func (z *ZipFileExtractor) Extract(path, destDir string) error {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return &ExtractionError{Archive: path, Err: err}
	}
	defer reader.Close()

	for _, entry := range reader.File {
		if err := z.extractEntry(entry, destDir); err != nil {
			return &ExtractionError{Archive: path, Err: err}
		}
	}
	return nil
}

func (z *ZipFileExtractor) extractEntry(entry *zip.File, destDir string) error {
	target := filepath.Join(destDir, filepath.FromSlash(entry.Name))
	if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
		return fmt.Errorf("entry %q escapes destination directory", entry.Name)
	}

	if entry.FileInfo().IsDir() {
		return utils.EnsureDir(target)
	}

	if err := utils.EnsureDirForFile(target); err != nil {
		return err
	}

	src, err := entry.Open()
	if err != nil {
		return fmt.Errorf("failed to open entry %q: %w", entry.Name, err)
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, entry.Mode().Perm()|0200)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", target, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	return dst.Close()
}
