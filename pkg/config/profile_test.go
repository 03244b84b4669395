package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplySettingsMap(t *testing.T) {
	cfg := NewConfig()

	err := cfg.applySettingsMap(map[string]interface{}{
		"ChannelURL":             "https://example.com/channel",
		"TargetsPath":            "/etc/sdkmirror/targets.yaml",
		"Debug":                  true,
		"Verbose":                true,
		"LogFilePath":            "/var/log/sdkmirror.log",
		"MaxRetries":             int64(5),
		"RetryDelay":             "10",
		"DownloadMaxConcurrency": 8,
	})
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/channel", cfg.ChannelURL)
	assert.Equal(t, "/etc/sdkmirror/targets.yaml", cfg.TargetsPath)
	assert.True(t, cfg.Debug)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "/var/log/sdkmirror.log", cfg.LogFilePath)
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, 10, cfg.RetryDelay, "string integers from profiles are accepted")
	assert.Equal(t, 8, cfg.DownloadMaxConcurrency)
}

func TestApplySettingsMapRejectsEmptyChannelURL(t *testing.T) {
	cfg := NewConfig()

	err := cfg.applySettingsMap(map[string]interface{}{"ChannelURL": ""})
	assert.Error(t, err)
}

func TestApplySettingsMapIgnoresWrongTypes(t *testing.T) {
	cfg := NewConfig()

	err := cfg.applySettingsMap(map[string]interface{}{
		"Debug":      "yes",
		"MaxRetries": 3.5,
	})
	require.NoError(t, err)

	assert.False(t, cfg.Debug, "non-boolean values are ignored, not coerced")
	assert.Equal(t, 3, cfg.MaxRetries)
}

func TestApplySettingsMapHeaderForms(t *testing.T) {
	dict := NewConfig()
	require.NoError(t, dict.applySettingsMap(map[string]interface{}{
		"HTTPHeaders": map[string]interface{}{"Authorization": "Bearer token"},
	}))
	assert.Equal(t, "Bearer token", dict.HTTPHeaders["Authorization"])

	array := NewConfig()
	require.NoError(t, array.applySettingsMap(map[string]interface{}{
		"HTTPHeaders": []interface{}{
			map[string]interface{}{"name": "X-Custom", "value": "v1"},
			map[string]interface{}{"name": "", "value": "dropped"},
		},
	}))
	assert.Equal(t, "v1", array.HTTPHeaders["X-Custom"])
	assert.Len(t, array.HTTPHeaders, 1)
}

func TestIntSetting(t *testing.T) {
	cases := []struct {
		in   interface{}
		want int
		ok   bool
	}{
		{int64(7), 7, true},
		{7, 7, true},
		{uint64(7), 7, true},
		{"7", 7, true},
		{"seven", 0, false},
		{7.0, 0, false},
		{nil, 0, false},
	}

	for _, tc := range cases {
		got, ok := intSetting(tc.in)
		assert.Equal(t, tc.ok, ok, "%v", tc.in)
		assert.Equal(t, tc.want, got, "%v", tc.in)
	}
}
