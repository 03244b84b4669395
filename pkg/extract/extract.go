package extract

import (
	"fmt"

	"github.com/go-sdkmirror/pkg/utils"
)

// ExtractionError reports a failed archive extraction, including any
// diagnostic output the external tool produced.
type ExtractionError struct {
	Archive string
	Diag    string
	Err     error
}

func (e *ExtractionError) Error() string {
	switch {
	case e.Err != nil && e.Diag != "":
		return fmt.Sprintf("extraction of %s failed: %v: %s", e.Archive, e.Err, e.Diag)
	case e.Err != nil:
		return fmt.Sprintf("extraction of %s failed: %v", e.Archive, e.Err)
	default:
		return fmt.Sprintf("extraction of %s failed: %s", e.Archive, e.Diag)
	}
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// InstallerExtractor expands an installer archive into a directory
type InstallerExtractor interface {
	Extract(path, destDir string) error
}

// ZipExtractor expands a zip-based extension archive into a directory
type ZipExtractor interface {
	Extract(path, destDir string) error
}

// MsiExtractor extracts installer archives with the msiextract tool.
// msiextract is badly behaved and doesn't always exit non-zero on error, so
// any output on its stderr is treated as a failure regardless of status.
type MsiExtractor struct {
	logger *utils.Logger
	tool   string
}

// NewMsiExtractor creates an extractor backed by the msiextract binary
func NewMsiExtractor(logger *utils.Logger) *MsiExtractor {
	return &MsiExtractor{logger: logger, tool: "msiextract"}
}

// Extract expands one installer archive into destDir
func (m *MsiExtractor) Extract(path, destDir string) error {
	_, stderr, err := utils.RunCommandSplit([]string{m.tool, "-C", destDir, path})
	if err != nil {
		return &ExtractionError{Archive: path, Diag: stderr, Err: err}
	}
	if stderr != "" {
		return &ExtractionError{Archive: path, Diag: stderr}
	}
	return nil
}
