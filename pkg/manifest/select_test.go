package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func samplePackage() Package {
	return Package{
		ID: "Win10SDK_10.0.1",
		Payloads: []Payload{
			{FileName: "Installers\\Headers x64.msi", URL: "https://example.com/h64"},
			{FileName: "Installers\\Headers x86.msi", URL: "https://example.com/h86"},
			{FileName: "Installers\\a1.cab", URL: "https://example.com/a1"},
			{FileName: "Installers\\a2.cab", URL: "https://example.com/a2"},
			// duplicate base name under a different logical directory
			{FileName: "Other\\a2.cab", URL: "https://example.com/dup"},
		},
	}
}

func TestSelectByNamePreservesWantedOrder(t *testing.T) {
	pkg := samplePackage()

	got := SelectByName(pkg, []string{"Headers x86.msi", "Headers x64.msi", "missing.msi"})

	assert.Len(t, got, 2)
	assert.Equal(t, "https://example.com/h86", got[0].URL)
	assert.Equal(t, "https://example.com/h64", got[1].URL)
}

func TestSelectByNameMatchesBaseNameOnly(t *testing.T) {
	pkg := samplePackage()

	// full logical paths must not match; only the final component does
	got := SelectByName(pkg, []string{"Installers\\Headers x64.msi"})
	assert.Empty(t, got)
}

func TestSelectByBaseNameSet(t *testing.T) {
	pkg := samplePackage()
	set := map[string]struct{}{"a2.cab": {}, "a1.cab": {}, "nope.cab": {}}

	got := SelectByBaseNameSet(pkg, set)

	assert.Len(t, got, 2, "duplicate base names must collapse to one payload")
	names := []string{got[0].BaseName(), got[1].BaseName()}
	assert.ElementsMatch(t, []string{"a1.cab", "a2.cab"}, names)
}

func TestSelectExtensionPayloads(t *testing.T) {
	m := &Manifest{
		Packages: []Package{
			{ID: "CRT.x64", Payloads: []Payload{{FileName: "x64.vsix", URL: "u1"}, {FileName: "extra.vsix", URL: "u-extra"}}},
			{ID: "CRT.Headers", Payloads: []Payload{{FileName: "h.vsix", URL: "u2"}}},
			{ID: "CRT.Empty"},
		},
	}

	got := SelectExtensionPayloads(m, []string{"CRT.Headers", "CRT.x64", "CRT.Empty", "CRT.Missing"})

	assert.Len(t, got, 2)
	assert.Equal(t, "u2", got[0].URL, "results follow the id list order")
	assert.Equal(t, "u1", got[1].URL, "only the first payload of a package is taken")
}

func TestPayloadBaseNameAndRelativePath(t *testing.T) {
	p := Payload{FileName: "Installers\\sub\\file.msi"}
	assert.Equal(t, "file.msi", p.BaseName())
	assert.Equal(t, "Installers/sub/file.msi", p.RelativePath())

	flat := Payload{FileName: "file.msi"}
	assert.Equal(t, "file.msi", flat.BaseName())
}
