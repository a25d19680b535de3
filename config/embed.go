package config

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

//go:embed defaults/*.yaml
var DefaultsFS embed.FS

//go:embed schema/*.json
var SchemaFS embed.FS

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

// Dir is searched before the embedded files, so a file on disk with the same
// name overrides the built-in one.
var Dir = "config"

// Load reads name from Dir, falling back to the embedded defaults.
func Load(name string) ([]byte, error) {
	clean := cleanPath(name, "defaults/")
	if data, err := os.ReadFile(filepath.Join(Dir, filepath.FromSlash(clean))); err == nil {
		return data, nil
	}
	return DefaultsFS.ReadFile("defaults/" + clean)
}

// LoadScript reads a tengo script from Dir/scripts, falling back to the
// embedded scripts. Absolute and ./ paths are read from disk only.
func LoadScript(name string) ([]byte, error) {
	if filepath.IsAbs(name) || strings.HasPrefix(name, "./") {
		return os.ReadFile(name)
	}
	clean := cleanPath(name, "scripts/")
	if data, err := os.ReadFile(filepath.Join(Dir, "scripts", filepath.FromSlash(clean))); err == nil {
		return data, nil
	}
	data, err := ScriptsFS.ReadFile("scripts/" + clean)
	if err != nil {
		return nil, fmt.Errorf("config: script %s: %w", name, err)
	}
	return data, nil
}

func cleanPath(path, prefix string) string {
	s := filepath.ToSlash(path)
	s = strings.TrimPrefix(s, "config/")
	return strings.TrimPrefix(s, prefix)
}

// LoadAsset reads a file referenced by a config, such as a cue's wav. Paths
// are tried as given and then relative to Dir.
func LoadAsset(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil || filepath.IsAbs(path) {
		return data, err
	}
	if data, err2 := os.ReadFile(filepath.Join(Dir, filepath.FromSlash(path))); err2 == nil {
		return data, nil
	}
	return nil, fmt.Errorf("config: asset %s: %w", path, err)
}
