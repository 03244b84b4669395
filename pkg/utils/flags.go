package utils

import (
	"fmt"
	"strings"
)

// NormalizeBooleanFlags rewrites args so that "--flag false" becomes "--flag=false" for known boolean flags.
// This improves UX with Go's flag package which interprets bare boolean flags as true when present.
//
// Pass os.Args and a set of boolean flag names. The returned slice should be assigned back to os.Args.
func NormalizeBooleanFlags(args []string, booleanFlags map[string]struct{}) []string {
	if len(args) <= 2 {
		return args
	}

	normalized := make([]string, 0, len(args))
	normalized = append(normalized, args[0])

	i := 1
	for i < len(args) {
		current := args[i]
		// Stop normalizing after end-of-flags terminator
		if current == "--" {
			normalized = append(normalized, args[i:]...)
			break
		}

		if strings.HasPrefix(current, "-") && !strings.Contains(current, "=") {
			dashPrefix := "-"
			if strings.HasPrefix(current, "--") {
				dashPrefix = "--"
			}
			name := strings.TrimLeft(current, "-")
			if _, ok := booleanFlags[name]; ok && i+1 < len(args) {
				next := strings.ToLower(args[i+1])
				if next == "true" || next == "false" {
					normalized = append(normalized, fmt.Sprintf("%s%s=%s", dashPrefix, name, next))
					i += 2
					continue
				}
			}
		}

		normalized = append(normalized, current)
		i++
	}

	return normalized
}

// HeaderList implements flag.Value to collect repeated -header Name=Value entries.
type HeaderList struct {
	Headers map[string]string
}

func (h *HeaderList) String() string { return "" }

func (h *HeaderList) Set(val string) error {
	if h.Headers == nil {
		h.Headers = map[string]string{}
	}
	name, value, found := strings.Cut(val, "=")
	if !found {
		name, value = val, ""
	}
	if name != "" {
		h.Headers[name] = value
	}
	return nil
}
