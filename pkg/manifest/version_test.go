package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	v, err := ParseVersion("10.0.19041")
	require.NoError(t, err)
	assert.Equal(t, Version{10, 0, 19041}, v)

	_, err = ParseVersion("")
	assert.Error(t, err)

	_, err = ParseVersion("10.0.beta")
	assert.Error(t, err)

	_, err = ParseVersion("10..1")
	assert.Error(t, err)
}

func TestVersionCompare(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"1.2.3", "1.2.3", 0},
		{"1.2.3", "1.2.4", -1},
		{"1.2.4", "1.2.3", 1},
		{"2.0", "1.9.9", 1},
		// equal common prefix: the longer tuple ranks higher
		{"10.0", "10.0.1", -1},
		{"10.0.1", "10.0", 1},
	}

	for _, tc := range cases {
		a, err := ParseVersion(tc.a)
		require.NoError(t, err)
		b, err := ParseVersion(tc.b)
		require.NoError(t, err)
		assert.Equal(t, tc.want, a.Compare(b), "%s vs %s", tc.a, tc.b)
	}
}

func TestSortPackagesByVersionDesc(t *testing.T) {
	pkgs := []Package{
		{ID: "A", Version: "10.0.1"},
		{ID: "B", Version: "10.0.3"},
		{ID: "C", Version: "10.0.2"},
	}
	versions := map[string]Version{}
	for _, p := range pkgs {
		v, err := ParseVersion(p.Version)
		require.NoError(t, err)
		versions[p.ID] = v
	}

	sortPackagesByVersionDesc(pkgs, versions)

	assert.Equal(t, "B", pkgs[0].ID)
	assert.Equal(t, "C", pkgs[1].ID)
	assert.Equal(t, "A", pkgs[2].ID)
}
