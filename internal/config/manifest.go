package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadYAMLConfig fills the value built by fn from a YAML file. An empty path or a missing
// file returns the defaults from fn without error; an unreadable or malformed file is
// an error.
func LoadYAMLConfig[T any](path string, fn func() *T) (*T, error) {
	cfg := fn()

	path = strings.TrimSpace(path)
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Manifest is the offline worker's precache manifest.
type Manifest struct {
	Version     string   `yaml:"version"`
	CachePrefix string   `yaml:"cache_prefix"`
	Assets      []string `yaml:"assets"`
	DataPaths   []string `yaml:"data_paths"`
	Concurrency int      `yaml:"concurrency"`
}

func DefaultManifest() *Manifest {
	return &Manifest{
		Version:     "1",
		CachePrefix: "jobfinder-cache",
		Assets: []string{
			"./",
			"./index.html",
			"./css/style.css",
			"./js/main.js",
			"./data/jobs.json",
		},
		DataPaths:   []string{"/data/jobs.json"},
		Concurrency: 4,
	}
}

func LoadManifest(path string) (*Manifest, error) {
	m, err := LoadYAMLConfig(path, DefaultManifest)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(m.Version) == "" {
		return nil, errors.New("manifest version must not be empty")
	}
	if len(m.Assets) == 0 {
		return nil, errors.New("manifest must list at least one asset")
	}
	return m, nil
}
