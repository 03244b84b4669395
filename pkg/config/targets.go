package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Targets describes what to mirror: which channel item holds the package
// manifest, which package family to version-select, which installer files to
// retrieve from the selected package, and which extension packages to pull
// alongside it.
type Targets struct {
	ManifestID        string   `yaml:"manifest_id"`
	PackagePrefix     string   `yaml:"package_prefix"`
	InstallerFiles    []string `yaml:"installer_files"`
	ExtensionPackages []string `yaml:"extension_packages"`
}

// DefaultTargets returns the built-in target set: the Windows SDK
// headers/libs installers plus the VC++ CRT extension packages.
func DefaultTargets() *Targets {
	return &Targets{
		ManifestID:    "Microsoft.VisualStudio.Manifests.VisualStudio",
		PackagePrefix: "Win10SDK_",
		InstallerFiles: []string{
			"Windows SDK Desktop Headers x86-x86_en-us.msi",
			"Windows SDK Desktop Headers x64-x86_en-us.msi",

			"Windows SDK Desktop Libs x86-x86_en-us.msi",
			"Windows SDK Desktop Libs x64-x86_en-us.msi",

			"Universal CRT Headers Libraries and Sources-x86_en-us.msi",

			"Windows SDK for Windows Store Apps Headers-x86_en-us.msi",
			"Windows SDK for Windows Store Apps Libs-x86_en-us.msi",
		},
		ExtensionPackages: []string{
			"Microsoft.VisualCpp.CRT.Headers",
			"Microsoft.VisualCpp.CRT.x64.Desktop",
			"Microsoft.VisualCpp.CRT.x86.Desktop",
			"Microsoft.VisualCpp.CRT.x86.Store",
			"Microsoft.VisualCpp.CRT.x64.Store",
		},
	}
}

// LoadTargets reads a YAML target-set file. Fields left empty in the file
// fall back to the built-in defaults, so a file can override just the
// installer list.
func LoadTargets(path string) (*Targets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var t Targets
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse targets file %s: %w", path, err)
	}

	defaults := DefaultTargets()
	if t.ManifestID == "" {
		t.ManifestID = defaults.ManifestID
	}
	if t.PackagePrefix == "" {
		t.PackagePrefix = defaults.PackagePrefix
	}
	if len(t.InstallerFiles) == 0 {
		t.InstallerFiles = defaults.InstallerFiles
	}
	if len(t.ExtensionPackages) == 0 {
		t.ExtensionPackages = defaults.ExtensionPackages
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Validate checks the target set for obvious misconfiguration
func (t *Targets) Validate() error {
	if t.ManifestID == "" {
		return fmt.Errorf("manifest_id is required")
	}
	if t.PackagePrefix == "" {
		return fmt.Errorf("package_prefix is required")
	}
	if len(t.InstallerFiles) == 0 && len(t.ExtensionPackages) == 0 {
		return fmt.Errorf("target set selects nothing: no installer_files or extension_packages")
	}
	return nil
}
