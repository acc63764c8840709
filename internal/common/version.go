package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Build identity, stamped via -ldflags at release time. A .version file next
// to the binary fills in whatever the build didn't.
var (
	Version   = "dev"
	Build     = "unknown"
	GitCommit = "unknown"
)

func GetVersion() string {
	return Version
}

func GetBuild() string {
	return Build
}

func GetGitCommit() string {
	return GitCommit
}

// GetFullVersion returns the version with build metadata in one line.
func GetFullVersion() string {
	return fmt.Sprintf("%s (build: %s, commit: %s)", Version, Build, GitCommit)
}

// LoadVersionFromFile reads "key: value" lines from a .version file beside
// the executable. File values never override ldflags-stamped ones, so a
// properly stamped release binary ignores the file entirely.
func LoadVersionFromFile() {
	exe, err := os.Executable()
	if err != nil {
		return
	}

	data, err := os.ReadFile(filepath.Join(filepath.Dir(exe), ".version"))
	if err != nil {
		return
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, val, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		applyVersionValue(strings.TrimSpace(key), strings.TrimSpace(val))
	}
}

func applyVersionValue(key, val string) {
	if val == "" {
		return
	}
	switch key {
	case "version":
		if Version == "dev" {
			Version = val
		}
	case "build":
		if Build == "unknown" {
			Build = val
		}
	case "commit":
		if GitCommit == "unknown" {
			GitCommit = val
		}
	}
}
