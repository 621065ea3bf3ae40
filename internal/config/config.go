// Package config handles pubs configuration stored in pubs.yml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the explicit set of paths and options for a build.
type Config struct {
	InputSources   []string `yaml:"input_sources"`              // BibTeX files, later ones override earlier ones
	OutputPath     string   `yaml:"output_path"`                // Markdown output, overwritten on each build
	HTMLOutputPath string   `yaml:"html_output_path,omitempty"` // Optional HTML rendering of the output
	CutoffYear     int      `yaml:"cutoff_year,omitempty"`      // Years below this share one bucket
	IndexPath      string   `yaml:"index_path,omitempty"`       // SQLite search index

	// Root is the directory relative paths were resolved against. Not stored.
	Root string `yaml:"-"`
}

const (
	ConfigFile       = "pubs.yml"
	BibliographyDir  = "bibliography"
	DefaultOutput    = "publications_by_year.md"
	DefaultCutoff    = 2020
	DefaultIndexPath = ".pubs/pubs.db"

	// EnvConfig overrides the config file location.
	EnvConfig = "PUBS_CONFIG"
	// EnvRoot overrides the directory the config search starts from.
	EnvRoot = "PUBS_ROOT"
)

var (
	ErrConfigNotFound = errors.New("no pubs.yml found")
	ErrNoSources      = errors.New("input_sources is empty")
	ErrNoOutput       = errors.New("output_path is empty")
	ErrInvalidCutoff  = errors.New("cutoff_year must not be negative")
)

// Template returns the conventional layout with relative paths: DBLP export
// first, hand-maintained entries second so they win on key collisions.
func Template() *Config {
	return &Config{
		InputSources: []string{
			filepath.Join(BibliographyDir, "dblp.bib"),
			filepath.Join(BibliographyDir, "manual.bib"),
		},
		OutputPath: DefaultOutput,
		CutoffYear: DefaultCutoff,
		IndexPath:  DefaultIndexPath,
	}
}

// Default returns Template resolved against root.
func Default(root string) *Config {
	cfg := Template()
	cfg.resolve(root)
	return cfg
}

// ConfigPath returns the path to pubs.yml in root.
func ConfigPath(root string) string {
	return filepath.Join(root, ConfigFile)
}

// FindConfig walks up from start to find a pubs.yml.
// Returns the config file path or ErrConfigNotFound.
func FindConfig(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		path := ConfigPath(abs)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", ErrConfigNotFound
		}
		abs = parent
	}
}

// Load reads a config file. Relative paths in it resolve against the file's directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(ExpandPath(path))
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	root, err := filepath.Abs(filepath.Dir(ExpandPath(path)))
	if err != nil {
		return nil, fmt.Errorf("resolving config directory: %w", err)
	}
	cfg.resolve(root)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Resolve finds the configuration for a run. An explicit path wins, then
// $PUBS_CONFIG, then the nearest pubs.yml above start ($PUBS_ROOT if set).
// With no config file, Default(start) is used.
func Resolve(explicit, start string) (*Config, error) {
	if explicit == "" {
		explicit = os.Getenv(EnvConfig)
	}
	if explicit != "" {
		return Load(explicit)
	}

	if root := os.Getenv(EnvRoot); root != "" {
		start = root
	}

	path, err := FindConfig(start)
	if err != nil {
		if errors.Is(err, ErrConfigNotFound) {
			abs, absErr := filepath.Abs(start)
			if absErr != nil {
				return nil, fmt.Errorf("resolving path: %w", absErr)
			}
			return Default(abs), nil
		}
		return nil, err
	}
	return Load(path)
}

// Validate checks required fields.
func (c *Config) Validate() error {
	if len(c.InputSources) == 0 {
		return ErrNoSources
	}
	if c.OutputPath == "" {
		return ErrNoOutput
	}
	if c.CutoffYear < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCutoff, c.CutoffYear)
	}
	return nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// resolve fills defaults and makes every path absolute relative to root.
func (c *Config) resolve(root string) {
	c.Root = root
	if c.CutoffYear == 0 {
		c.CutoffYear = DefaultCutoff
	}
	if c.IndexPath == "" {
		c.IndexPath = DefaultIndexPath
	}

	for i, src := range c.InputSources {
		c.InputSources[i] = absPath(root, src)
	}
	if c.OutputPath != "" {
		c.OutputPath = absPath(root, c.OutputPath)
	}
	if c.HTMLOutputPath != "" {
		c.HTMLOutputPath = absPath(root, c.HTMLOutputPath)
	}
	c.IndexPath = absPath(root, c.IndexPath)
}

func absPath(root, path string) string {
	path = ExpandPath(path)
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}
