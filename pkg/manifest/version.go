package manifest

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Version is an ordered sequence of non-negative integers parsed from a
// dot-separated version string.
type Version []int

// ParseVersion parses a dot-separated version string like "10.0.19041".
// Any non-numeric or negative component is an error.
func ParseVersion(s string) (Version, error) {
	if s == "" {
		return nil, fmt.Errorf("empty version string")
	}

	parts := strings.Split(s, ".")
	v := make(Version, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid version component %q in %q", part, s)
		}
		v = append(v, n)
	}
	return v, nil
}

// Compare orders versions element-wise over the common prefix. When all
// shared elements are equal, the longer version sorts higher, so "10.0.1"
// ranks above "10.0". Returns -1, 0, or 1.
func (v Version) Compare(other Version) int {
	n := len(v)
	if len(other) < n {
		n = len(other)
	}
	for i := 0; i < n; i++ {
		switch {
		case v[i] < other[i]:
			return -1
		case v[i] > other[i]:
			return 1
		}
	}
	switch {
	case len(v) < len(other):
		return -1
	case len(v) > len(other):
		return 1
	}
	return 0
}

// String renders the version back in dot-separated form
func (v Version) String() string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ".")
}

// sortPackagesByVersionDesc sorts packages by parsed version, highest first.
// The sort is stable so equal versions keep manifest order.
func sortPackagesByVersionDesc(pkgs []Package, versions map[string]Version) {
	sort.SliceStable(pkgs, func(i, j int) bool {
		return versions[pkgs[i].ID].Compare(versions[pkgs[j].ID]) > 0
	})
}
