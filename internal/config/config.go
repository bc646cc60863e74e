// Package config holds the settings shared by the CLI and the language
// server, read from SCRIPTLENS_* environment variables and an optional .env
// file.
package config

import (
	"strings"
	"time"
)

type Config struct {
	// Extensions lists the file extensions treated as scripts, e.g. ".js".
	Extensions []string
	// Debounce is the delay between the last edit and the re-parse.
	Debounce       time.Duration
	SemicolonCheck bool
	// KnownObjects is the path of the dictionary file, empty for none.
	KnownObjects string
	LogVerbosity int
	LogFile      string
	PollInterval time.Duration
}

// New returns a configuration with default values.
func New() *Config {
	return &Config{
		Extensions:   []string{".js"},
		Debounce:     300 * time.Millisecond,
		PollInterval: time.Second,
	}
}

// parseExtensions splits a comma separated list, adding the leading dot
// where it is missing.
func parseExtensions(list string) []string {
	var exts []string
	for _, ext := range strings.Split(list, ",") {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts = append(exts, ext)
	}
	return exts
}
