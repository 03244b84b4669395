package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"howett.net/plist"
)

const DefaultProfileDomain = "com.github.go-sdkmirror"

// ProfileResult reports whether a preference profile was applied
type ProfileResult struct {
	ConfigFound bool
	Path        string
}

// ReadFromProfile merges settings from a managed or user preference profile
// into the config. Missing profiles are not an error; command-line flags are
// applied afterwards and win.
func (c *Config) ReadFromProfile(domain string) (*ProfileResult, error) {
	if domain == "" {
		domain = DefaultProfileDomain
	}

	path := fmt.Sprintf("/Library/Managed Preferences/%s.plist", domain)
	prefs := readPlistFile(path)
	if prefs == nil {
		if homeDir, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(homeDir, "Library", "Preferences", domain+".plist")
			prefs = readPlistFile(path)
		}
	}

	if prefs == nil {
		return &ProfileResult{ConfigFound: false}, nil
	}

	if err := c.applySettingsMap(prefs); err != nil {
		return nil, fmt.Errorf("failed to apply profile settings: %w", err)
	}

	return &ProfileResult{ConfigFound: true, Path: path}, nil
}

// readPlistFile reads a plist file and returns its contents
func readPlistFile(path string) map[string]interface{} {
	file, err := os.Open(path)
	if err != nil {
		return nil // File doesn't exist or can't be read
	}
	defer file.Close()

	var prefs map[string]interface{}
	decoder := plist.NewDecoder(file)
	if err := decoder.Decode(&prefs); err != nil {
		return nil // Can't parse plist
	}

	return prefs
}

// applySettingsMap applies a settings map to the config
func (c *Config) applySettingsMap(settings map[string]interface{}) error {
	if val, exists := settings["ChannelURL"]; exists {
		if str, ok := val.(string); ok {
			if str == "" {
				return fmt.Errorf("ChannelURL cannot be empty string - omit the key instead")
			}
			c.ChannelURL = str
		}
	}

	if val, exists := settings["TargetsPath"]; exists {
		if str, ok := val.(string); ok && str != "" {
			c.TargetsPath = str
		}
	}

	if val, exists := settings["Debug"]; exists {
		if b, ok := val.(bool); ok {
			c.Debug = b
		}
	}

	if val, exists := settings["Verbose"]; exists {
		if b, ok := val.(bool); ok {
			c.Verbose = b
		}
	}

	if val, exists := settings["LogFilePath"]; exists {
		if str, ok := val.(string); ok && str != "" {
			c.LogFilePath = str
		}
	}

	if val, exists := settings["MaxRetries"]; exists {
		if i, ok := intSetting(val); ok {
			c.MaxRetries = i
		}
	}

	if val, exists := settings["RetryDelay"]; exists {
		if i, ok := intSetting(val); ok {
			c.RetryDelay = i
		}
	}

	if val, exists := settings["DownloadMaxConcurrency"]; exists {
		if i, ok := intSetting(val); ok {
			c.DownloadMaxConcurrency = i
		}
	}

	// Headers accept both dictionary and name/value array forms
	if val, exists := settings["HTTPHeaders"]; exists {
		if c.HTTPHeaders == nil {
			c.HTTPHeaders = make(map[string]string)
		}
		if headersMap, ok := val.(map[string]interface{}); ok {
			for key, value := range headersMap {
				if strValue, ok := value.(string); ok {
					c.HTTPHeaders[key] = strValue
				}
			}
		} else if headersArray, ok := val.([]interface{}); ok {
			for _, item := range headersArray {
				if headerDict, ok := item.(map[string]interface{}); ok {
					name, nameOk := headerDict["name"].(string)
					value, valueOk := headerDict["value"].(string)
					if nameOk && valueOk && name != "" {
						c.HTTPHeaders[name] = value
					}
				}
			}
		}
	}

	return nil
}

// intSetting normalizes the integer types plist decoding can produce
func intSetting(val interface{}) (int, bool) {
	switch v := val.(type) {
	case int64:
		return int(v), true
	case int:
		return v, true
	case uint64:
		return int(v), true
	case string:
		if i, err := strconv.Atoi(v); err == nil {
			return i, true
		}
	}
	return 0, false
}
