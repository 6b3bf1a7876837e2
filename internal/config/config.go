// Package config handles workspace configuration. A linkage workspace
// is a directory holding a linkage.yml file that names the roster,
// the alias table, the three source tiers, and the cache location.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFile is the workspace marker and configuration file name.
const ConfigFile = "linkage.yml"

// Defaults for paths left unset in linkage.yml, relative to the
// workspace root.
const (
	DefaultRosterFile         = "people.yml"
	DefaultAliasFile          = "aliases.yml"
	DefaultCuratedDir         = "publications"
	DefaultAggregatorSnapshot = "snapshots/crossref.jsonl"
	DefaultRegistrySnapshot   = "snapshots/orcid.jsonl"
	DefaultCacheDB            = ".linkage/cache.db"
	DefaultPublicationsFile   = ".linkage/publications.jsonl"
)

// Config represents workspace configuration stored in linkage.yml.
// Relative paths are resolved against the workspace root.
type Config struct {
	Roster             string `yaml:"roster,omitempty"`
	Aliases            string `yaml:"aliases,omitempty"`
	CuratedDir         string `yaml:"curated_dir,omitempty"`
	AggregatorSnapshot string `yaml:"aggregator_snapshot,omitempty"`
	RegistrySnapshot   string `yaml:"registry_snapshot,omitempty"`
	CacheDB            string `yaml:"cache_db,omitempty"`
	PublicationsFile   string `yaml:"publications_file,omitempty"`
}

// IsWorkspace checks if the given path contains a linkage workspace.
func IsWorkspace(root string) bool {
	info, err := os.Stat(filepath.Join(root, ConfigFile))
	return err == nil && !info.IsDir()
}

// FindWorkspace walks up from the given path to find a workspace
// root. Returns an error if none is found.
func FindWorkspace(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsWorkspace(abs) {
			return abs, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("not in a linkage workspace (no %s found)", ConfigFile)
		}
		abs = parent
	}
}

// Load reads configuration from the workspace at the given root and
// fills in defaults for unset paths.
func Load(root string) (*Config, error) {
	data, err := os.ReadFile(filepath.Join(root, ConfigFile))
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()

	return &cfg, nil
}

// Save writes configuration to the workspace at the given root.
func (c *Config) Save(root string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(filepath.Join(root, ConfigFile), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.Roster == "" {
		c.Roster = DefaultRosterFile
	}
	if c.Aliases == "" {
		c.Aliases = DefaultAliasFile
	}
	if c.CuratedDir == "" {
		c.CuratedDir = DefaultCuratedDir
	}
	if c.AggregatorSnapshot == "" {
		c.AggregatorSnapshot = DefaultAggregatorSnapshot
	}
	if c.RegistrySnapshot == "" {
		c.RegistrySnapshot = DefaultRegistrySnapshot
	}
	if c.CacheDB == "" {
		c.CacheDB = DefaultCacheDB
	}
	if c.PublicationsFile == "" {
		c.PublicationsFile = DefaultPublicationsFile
	}
}

// RosterPath returns the roster file path resolved against root.
func (c *Config) RosterPath(root string) string { return resolve(root, c.Roster) }

// AliasPath returns the alias file path resolved against root.
func (c *Config) AliasPath(root string) string { return resolve(root, c.Aliases) }

// CuratedPath returns the curated records directory resolved against root.
func (c *Config) CuratedPath(root string) string { return resolve(root, c.CuratedDir) }

// AggregatorPath returns the aggregator snapshot path resolved against root.
func (c *Config) AggregatorPath(root string) string { return resolve(root, c.AggregatorSnapshot) }

// RegistryPath returns the registry snapshot path resolved against root.
func (c *Config) RegistryPath(root string) string { return resolve(root, c.RegistrySnapshot) }

// CacheDBPath returns the SQLite cache path resolved against root.
func (c *Config) CacheDBPath(root string) string { return resolve(root, c.CacheDB) }

// PublicationsPath returns the canonical corpus JSONL path resolved
// against root.
func (c *Config) PublicationsPath(root string) string { return resolve(root, c.PublicationsFile) }

func resolve(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

// Validate checks that the roster file exists and that the curated
// directory, when present, is a directory. Snapshot files may be
// absent: they are refreshed out of band.
func (c *Config) Validate(root string) error {
	if _, err := os.Stat(c.RosterPath(root)); err != nil {
		return fmt.Errorf("roster file: %w", err)
	}
	if info, err := os.Stat(c.CuratedPath(root)); err == nil && !info.IsDir() {
		return fmt.Errorf("curated_dir is not a directory: %s", c.CuratedPath(root))
	}
	return nil
}
