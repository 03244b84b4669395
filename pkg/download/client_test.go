package download

import (
	"crypto/sha256"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-sdkmirror/pkg/manifest"
	"github.com/go-sdkmirror/pkg/utils"
)

func newTestClient(t *testing.T, downloadDir string) *Client {
	t.Helper()
	c := NewClient(utils.NewLogger(false, false), downloadDir)
	c.SetRetryDefaults(3, time.Millisecond)
	return c
}

func digestOf(content []byte) string {
	sum := sha256.Sum256(content)
	return fmt.Sprintf("%x", sum[:])
}

func TestFetchPayloadCacheHitSkipsNetwork(t *testing.T) {
	content := []byte("payload bytes")
	var hits atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write(content)
	}))
	defer server.Close()

	c := newTestClient(t, t.TempDir())
	p := manifest.Payload{
		FileName: "Installers\\file.bin",
		URL:      server.URL + "/file.bin",
		SHA256:   digestOf(content),
	}

	first, err := c.FetchPayload(p)
	require.NoError(t, err)
	assert.FileExists(t, first)

	second, err := c.FetchPayload(p)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	assert.Equal(t, int32(1), hits.Load(), "second fetch must be a cache hit with no network I/O")
}

func TestFetchPayloadUpperCaseDigestIsCacheHit(t *testing.T) {
	content := []byte("cached")
	dir := t.TempDir()

	// seed the cache directly; the URL is unreachable so only a cache hit can succeed
	require.NoError(t, os.WriteFile(filepath.Join(dir, "file.bin"), content, 0644))

	c := newTestClient(t, dir)
	p := manifest.Payload{
		FileName: "file.bin",
		URL:      "http://127.0.0.1:0/unreachable",
		SHA256:   strings.ToUpper(digestOf(content)),
	}

	got, err := c.FetchPayload(p)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "file.bin"), got)
}

func TestFetchPayloadRetriesThenSucceeds(t *testing.T) {
	content := []byte("eventually good")
	var hits atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.Write([]byte("corrupted"))
			return
		}
		w.Write(content)
	}))
	defer server.Close()

	dir := t.TempDir()
	c := newTestClient(t, dir)
	p := manifest.Payload{FileName: "file.bin", URL: server.URL, SHA256: digestOf(content)}

	got, err := c.FetchPayload(p)
	require.NoError(t, err)

	data, err := os.ReadFile(got)
	require.NoError(t, err)
	assert.Equal(t, content, data)
	assert.Equal(t, int32(3), hits.Load())
}

func TestFetchPayloadExhaustedRetriesQuarantines(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("never matches"))
	}))
	defer server.Close()

	dir := t.TempDir()
	c := newTestClient(t, dir)
	p := manifest.Payload{FileName: "file.bin", URL: server.URL, SHA256: digestOf([]byte("expected"))}

	_, err := c.FetchPayload(p)
	require.Error(t, err)

	var intErr *IntegrityError
	assert.ErrorAs(t, err, &intErr, "final error wraps the digest mismatch")

	// the corrupt bytes are quarantined, never placed under the canonical name
	assert.NoFileExists(t, filepath.Join(dir, "file.bin"))
	assert.FileExists(t, filepath.Join(dir, "file.bin.failed"))
}

func TestFetchPayloadServerErrorIsRetriedAndFatal(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := newTestClient(t, t.TempDir())
	p := manifest.Payload{FileName: "file.bin", URL: server.URL, SHA256: digestOf([]byte("x"))}

	_, err := c.FetchPayload(p)
	require.Error(t, err)
	assert.Equal(t, int32(3), hits.Load(), "transient failures consume the full attempt budget")
}

func TestFetchPayloadLeavesNoTempFiles(t *testing.T) {
	content := []byte("clean run")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(content)
	}))
	defer server.Close()

	dir := t.TempDir()
	c := newTestClient(t, dir)
	p := manifest.Payload{FileName: "sub\\file.bin", URL: server.URL, SHA256: digestOf(content)}

	_, err := c.FetchPayload(p)
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(dir, "sub"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "file.bin", entries[0].Name())
}

func TestFetchAllPreservesOrderAndReportsFirstError(t *testing.T) {
	good := []byte("good")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad" {
			w.Write([]byte("garbage"))
			return
		}
		w.Write(good)
	}))
	defer server.Close()

	dir := t.TempDir()
	c := newTestClient(t, dir)

	payloads := []manifest.Payload{
		{FileName: "a.bin", URL: server.URL + "/a", SHA256: digestOf(good)},
		{FileName: "b.bin", URL: server.URL + "/bad", SHA256: digestOf([]byte("expected"))},
		{FileName: "c.bin", URL: server.URL + "/c", SHA256: digestOf(good)},
	}

	results, err := c.FetchAll(payloads, 2)
	require.Error(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "a.bin", results[0].Payload.BaseName())
	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
	assert.NoError(t, results[2].Err, "other downloads run to completion despite the failure")
	assert.FileExists(t, filepath.Join(dir, "c.bin"))
}
