package manifest

import (
	"fmt"

	"github.com/go-sdkmirror/pkg/utils"
)

// ResolutionError indicates a structural mismatch with the remote source
// (missing manifest item, no matching package). It is never retried.
type ResolutionError struct {
	Msg string
	Err error
}

func (e *ResolutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// DocumentFetcher retrieves a JSON document into v. Implementations may
// serve a previously fetched local copy (see pkg/download).
type DocumentFetcher interface {
	FetchJSONDocument(url, name string, v interface{}) error
}

// Resolver walks the channel document down to a single selected package
type Resolver struct {
	docs   DocumentFetcher
	logger *utils.Logger
}

// NewResolver creates a resolver on top of a document fetcher
func NewResolver(docs DocumentFetcher, logger *utils.Logger) *Resolver {
	return &Resolver{docs: docs, logger: logger}
}

// Resolve fetches the channel at channelURL, follows the manifest item with
// the given id, and selects the highest-versioned package of the configured
// family. Fetch errors propagate unchanged; structural misses surface as
// *ResolutionError.
func (r *Resolver) Resolve(channelURL, manifestID, packagePrefix string) (Package, *Manifest, error) {
	var channel Channel
	if err := r.docs.FetchJSONDocument(channelURL, "", &channel); err != nil {
		return Package{}, nil, err
	}

	item, ok := findManifestItem(&channel, manifestID)
	if !ok {
		return Package{}, nil, &ResolutionError{Msg: fmt.Sprintf("manifest item not found: %s", manifestID)}
	}
	r.logger.Info("Found manifest, version: %s", item.Version)

	if len(item.Payloads) == 0 {
		return Package{}, nil, &ResolutionError{Msg: fmt.Sprintf("manifest item %s has no payloads", manifestID)}
	}

	var m Manifest
	if err := r.docs.FetchJSONDocument(item.Payloads[0].URL, "", &m); err != nil {
		return Package{}, nil, err
	}

	pkg, err := SelectFamilyPackage(&m, packagePrefix)
	if err != nil {
		return Package{}, nil, err
	}
	r.logger.Info("Selected package: %s / %s / %s", pkg.ID, pkg.Version, pkg.Type)

	return pkg, &m, nil
}

func findManifestItem(channel *Channel, id string) (ChannelItem, bool) {
	for _, item := range channel.ChannelItems {
		if item.ID == id {
			return item, true
		}
	}
	return ChannelItem{}, false
}

// IsVersionedFamilyPackage reports whether a package belongs to the
// version-directed family: its id starts with prefix and the id-embedded
// suffix begins with a digit. Same-prefix siblings with non-numeric
// suffixes (auxiliary packages) are excluded from version selection.
func IsVersionedFamilyPackage(p Package, prefix string) bool {
	if len(p.ID) <= len(prefix) || p.ID[:len(prefix)] != prefix {
		return false
	}
	suffix := p.ID[len(prefix):]
	return suffix[0] >= '0' && suffix[0] <= '9'
}

// SelectFamilyPackage picks the highest-versioned family package from the
// manifest. An empty candidate set or an unparsable candidate version is a
// *ResolutionError.
func SelectFamilyPackage(m *Manifest, prefix string) (Package, error) {
	var candidates []Package
	versions := make(map[string]Version)

	for _, p := range m.Packages {
		if !IsVersionedFamilyPackage(p, prefix) {
			continue
		}
		v, err := ParseVersion(p.Version)
		if err != nil {
			return Package{}, &ResolutionError{Msg: fmt.Sprintf("package %s has unparsable version", p.ID), Err: err}
		}
		candidates = append(candidates, p)
		versions[p.ID] = v
	}

	if len(candidates) == 0 {
		return Package{}, &ResolutionError{Msg: fmt.Sprintf("no matching package for prefix %s", prefix)}
	}

	sortPackagesByVersionDesc(candidates, versions)
	return candidates[0], nil
}
