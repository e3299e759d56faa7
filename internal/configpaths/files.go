// Package configpaths builds the candidate config-file search paths
// (SPEC_FULL.md §2.2): CWD, user-home, .config, Documents, and on Windows
// %USERPROFILE%\vitaoxipad, modeled on the configpaths file of the same
// name (DefaultConfigDir/ConfigCandidatePaths).
package configpaths

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
)

const configBaseName = "vitaoxipad"

// DefaultConfigDir returns the platform-specific configuration directory.
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "windows":
		if profile := os.Getenv("USERPROFILE"); profile != "" {
			return filepath.Join(profile, "vitaoxipad"), nil
		}
		return "", errors.New("USERPROFILE not set")
	default:
		if home := os.Getenv("HOME"); home != "" {
			return filepath.Join(home, ".config"), nil
		}
		return "", errors.New("HOME not set")
	}
}

// EnsureDir ensures the directory for a given file path exists.
func EnsureDir(filePath string) error {
	return os.MkdirAll(filepath.Dir(filePath), 0o755)
}

// TOMLCandidatePaths builds the TOML config search order from spec.md §6:
// an explicit user path first, then CWD, then home/.config/Documents, then
// (on Windows) %USERPROFILE%\vitaoxipad.
func TOMLCandidatePaths(userPath string) []string {
	var paths []string
	if userPath != "" {
		paths = append(paths, userPath)
	}

	if wd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(wd, configBaseName+".toml"))
	}

	home := os.Getenv("HOME")
	if runtime.GOOS == "windows" {
		home = os.Getenv("USERPROFILE")
	}
	if home != "" {
		paths = append(paths, filepath.Join(home, configBaseName+".toml"))
		paths = append(paths, filepath.Join(home, ".config", configBaseName+".toml"))
		paths = append(paths, filepath.Join(home, "Documents", configBaseName+".toml"))
	}

	if runtime.GOOS == "windows" {
		if profile := os.Getenv("USERPROFILE"); profile != "" {
			paths = append(paths, filepath.Join(profile, "vitaoxipad", configBaseName+".toml"))
		}
	}

	return paths
}

// YAMLCandidatePaths mirrors TOMLCandidatePaths for the secondary YAML
// config format (the format --sample-config-format=yaml writes), swapping
// each path's extension for .yaml.
func YAMLCandidatePaths(userPath string) []string {
	tomlPaths := TOMLCandidatePaths(userPath)
	out := make([]string, 0, len(tomlPaths))
	for _, p := range tomlPaths {
		ext := filepath.Ext(p)
		out = append(out, p[:len(p)-len(ext)]+".yaml")
	}
	return out
}
