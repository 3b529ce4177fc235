package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gorewood/gitinfo/internal/emit"
	"github.com/gorewood/gitinfo/internal/logging"
)

// FileName is the project-level config file looked up in the working directory.
const FileName = ".gitinfo.yaml"

// Config holds generator settings. Zero fields fall back to defaults.
type Config struct {
	// Git is the git executable; a bare name is resolved through PATH.
	Git string `yaml:"git,omitempty"`
	// Dir is the repository directory git runs in; empty means the working directory.
	Dir string `yaml:"dir,omitempty"`
	// Language is the output language name (go, csharp).
	Language string `yaml:"language,omitempty"`
	// Output is the directory generated files are written to.
	Output string `yaml:"output,omitempty"`
	// Log configures the debug logger.
	Log logging.LogConfig `yaml:"log,omitempty"`
	// Targets lists types to generate for when no marker scan is wanted.
	Targets []emit.Target `yaml:"targets,omitempty"`

	// Source is the file the config was read from, empty for defaults.
	Source string `yaml:"-"`
}

// Default returns the settings used when no config file exists.
func Default() *Config {
	return &Config{Git: "git", Language: emit.Go.Name, Output: "."}
}

// Load reads a YAML config file on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	cfg.Source = path
	return cfg, nil
}

// Resolve finds and loads the effective config, then applies environment
// overrides. Lookup order:
//  1. explicit (the --config flag); must exist
//  2. ./.gitinfo.yaml
//  3. Dir()/config.yaml
//  4. built-in defaults
//
// .env.local and .env in the working directory are loaded into the
// environment first; variables already set keep their values.
func Resolve(explicit string) (*Config, error) {
	_ = LoadEnvFile(".env.local")
	_ = LoadEnvFile(".env")

	cfg, err := find(explicit)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	return cfg, nil
}

func find(explicit string) (*Config, error) {
	if explicit != "" {
		return Load(explicit)
	}

	candidates := []string{FileName}
	if dir := Dir(); dir != "" {
		candidates = append(candidates, filepath.Join(dir, "config.yaml"))
	}
	for _, path := range candidates {
		cfg, err := Load(path)
		if err == nil {
			return cfg, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}
	return Default(), nil
}

// ApplyEnv overrides fields from GITINFO_GIT, GITINFO_LANGUAGE and
// GITINFO_LOG_LEVEL when they are set.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("GITINFO_GIT"); v != "" {
		c.Git = v
	}
	if v := os.Getenv("GITINFO_LANGUAGE"); v != "" {
		c.Language = v
	}
	if v := os.Getenv("GITINFO_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// OutputLanguage resolves Language to an emitter language.
func (c *Config) OutputLanguage() (emit.Language, error) {
	return emit.LanguageByName(c.Language)
}

// Validate reports the first problem with the config.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Git) == "" {
		return errors.New("git executable must not be empty")
	}
	if _, err := c.OutputLanguage(); err != nil {
		return err
	}
	seen := make(map[string]bool)
	for i, target := range c.Targets {
		if err := target.Validate(); err != nil {
			return fmt.Errorf("targets[%d]: %w", i, err)
		}
		id := target.Identifier()
		if seen[id] {
			return fmt.Errorf("targets[%d]: %s is listed more than once", i, id)
		}
		seen[id] = true
	}
	return nil
}
