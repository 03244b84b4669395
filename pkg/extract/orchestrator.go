package extract

import (
	"path/filepath"

	"github.com/go-sdkmirror/pkg/utils"
)

// Orchestrator rebuilds the extracted tree from a set of downloaded archives
type Orchestrator struct {
	installer InstallerExtractor
	zip       ZipExtractor
	logger    *utils.Logger
}

// NewOrchestrator creates an orchestrator over the two extraction collaborators
func NewOrchestrator(installer InstallerExtractor, zip ZipExtractor, logger *utils.Logger) *Orchestrator {
	return &Orchestrator{installer: installer, zip: zip, logger: logger}
}

// ExtractAll clears and recreates destDir, then extracts every installer
// archive followed by every zip archive, each in input order. The tree is
// always rebuilt from scratch so stale files from a previous package version
// can never leak into the output. The first failure aborts.
func (o *Orchestrator) ExtractAll(destDir string, installerArchives, zipArchives []string) error {
	if err := utils.ResetDir(destDir); err != nil {
		return err
	}

	for _, archive := range installerArchives {
		o.logger.Info("Extracting %s ...", filepath.Base(archive))
		if err := o.installer.Extract(archive, destDir); err != nil {
			o.logger.Error("Failed: %s", filepath.Base(archive))
			return err
		}
		o.logger.Info("OK: %s", filepath.Base(archive))
	}

	for _, archive := range zipArchives {
		o.logger.Info("Extracting %s ...", filepath.Base(archive))
		if err := o.zip.Extract(archive, destDir); err != nil {
			o.logger.Error("Failed: %s", filepath.Base(archive))
			return err
		}
		o.logger.Info("OK: %s", filepath.Base(archive))
	}

	return nil
}
