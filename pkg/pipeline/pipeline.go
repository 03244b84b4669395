package pipeline

import (
	"fmt"

	"github.com/go-sdkmirror/pkg/config"
	"github.com/go-sdkmirror/pkg/download"
	"github.com/go-sdkmirror/pkg/extract"
	"github.com/go-sdkmirror/pkg/manifest"
	"github.com/go-sdkmirror/pkg/msi"
	"github.com/go-sdkmirror/pkg/utils"
)

// Pipeline sequences one mirror run: resolve the manifest down to a package,
// select and download its payloads, discover and download the cabinets its
// installers reference, then rebuild the extracted tree.
//
// Every stage is sequential and unconditional on success; any component
// error aborts the run at that stage. The only state surviving across runs
// is the download cache, so an interrupted run is resumed by re-running.
type Pipeline struct {
	cfg        *config.Config
	targets    *config.Targets
	logger     *utils.Logger
	resolver   *manifest.Resolver
	downloader download.Downloader
	querier    msi.Querier
	extractor  *extract.Orchestrator
}

// New wires a pipeline from its collaborators
func New(cfg *config.Config, targets *config.Targets, logger *utils.Logger,
	resolver *manifest.Resolver, downloader download.Downloader,
	querier msi.Querier, extractor *extract.Orchestrator) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		targets:    targets,
		logger:     logger,
		resolver:   resolver,
		downloader: downloader,
		querier:    querier,
		extractor:  extractor,
	}
}

// Run executes the full mirror sequence
func (p *Pipeline) Run() error {
	if err := utils.EnsureDir(p.cfg.DownloadDir()); err != nil {
		return err
	}

	pkg, man, err := p.resolver.Resolve(p.cfg.ChannelURL, p.targets.ManifestID, p.targets.PackagePrefix)
	if err != nil {
		return err
	}

	installerPaths, err := p.downloadInstallers(pkg)
	if err != nil {
		return err
	}

	if err := p.downloadCabinets(pkg, installerPaths); err != nil {
		return err
	}

	zipPaths, err := p.downloadExtensions(man)
	if err != nil {
		return err
	}

	p.logger.Info("=== Extracting into %s ===", p.cfg.ExtractedDir())
	if err := p.extractor.ExtractAll(p.cfg.ExtractedDir(), installerPaths, zipPaths); err != nil {
		return err
	}

	p.logger.Info("Mirror complete: %d installer archives, %d extension archives", len(installerPaths), len(zipPaths))
	return nil
}

// downloadInstallers fetches the selected package's wanted installer files
// and returns their local paths in selection order.
func (p *Pipeline) downloadInstallers(pkg manifest.Package) ([]string, error) {
	payloads := manifest.SelectByName(pkg, p.targets.InstallerFiles)
	p.logger.Info("=== Downloading %d installer payloads ===", len(payloads))

	results, err := p.downloader.FetchAll(payloads, p.cfg.DownloadMaxConcurrency)
	if err != nil {
		return nil, err
	}

	paths := make([]string, len(results))
	for i, r := range results {
		paths[i] = r.LocalPath
	}
	return paths, nil
}

// downloadCabinets queries each downloaded installer for its referenced
// cabinet archives and fetches the package payloads matching them. This is
// the one stage that depends on archive content rather than manifest
// metadata.
func (p *Pipeline) downloadCabinets(pkg manifest.Package, installerPaths []string) error {
	cabinetNames := make(map[string]struct{})
	for _, path := range installerPaths {
		cabs, err := msi.Cabinets(p.querier, path)
		if err != nil {
			return fmt.Errorf("cabinet discovery failed for %s: %w", path, err)
		}
		p.logger.Debug("%s references %d cabinets", path, len(cabs))
		for _, cab := range cabs {
			cabinetNames[cab] = struct{}{}
		}
	}

	payloads := manifest.SelectByBaseNameSet(pkg, cabinetNames)
	p.logger.Info("=== Downloading %d cabinet payloads ===", len(payloads))

	_, err := p.downloader.FetchAll(payloads, p.cfg.DownloadMaxConcurrency)
	return err
}

// downloadExtensions fetches the extension archives and returns their local
// paths in target id order.
func (p *Pipeline) downloadExtensions(man *manifest.Manifest) ([]string, error) {
	payloads := manifest.SelectExtensionPayloads(man, p.targets.ExtensionPackages)
	p.logger.Info("=== Downloading %d extension payloads ===", len(payloads))

	results, err := p.downloader.FetchAll(payloads, p.cfg.DownloadMaxConcurrency)
	if err != nil {
		return nil, err
	}

	paths := make([]string, len(results))
	for i, r := range results {
		paths[i] = r.LocalPath
	}
	return paths, nil
}
