package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ConfigFileNames are searched, in order, by FindConfig.
var ConfigFileNames = []string{
	"evalgroups.yaml",
	"evalgroups.toml",
	"evalgroups.json",
	"group_config.yaml",
}

type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the document format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported config extension %q", filepath.Ext(path))
	}
}

// FindConfig searches dir and its ancestors for a configuration file.
func FindConfig(dir string) string {
	for {
		for _, name := range ConfigFileNames {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Load reads, decodes and validates a configuration file. A relative Root is
// anchored at the directory holding the file.
func Load(path string) (Config, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	cfg, err := Parse(data, format)
	if err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	if cfg.Root != "" && !filepath.IsAbs(cfg.Root) {
		cfg.Root = filepath.Join(filepath.Dir(path), cfg.Root)
	}
	if cfg.LockFile != "" && !filepath.IsAbs(cfg.LockFile) {
		cfg.LockFile = filepath.Join(filepath.Dir(path), cfg.LockFile)
	}
	if verrs := cfg.Validate(); verrs.HasErrors() {
		return Config{}, verrs
	}
	return cfg, nil
}

// Parse decodes a configuration document without validating it.
func Parse(data []byte, format Format) (Config, error) {
	var cfg Config
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &cfg)
	case FormatJSON:
		err = json.Unmarshal(data, &cfg)
	case FormatTOML:
		err = toml.Unmarshal(data, &cfg)
	default:
		err = fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks catalog-wide invariants. Per-task template problems are
// reported later by TaskDescriptor.Validate so other tasks can still run.
func (c Config) Validate() *ValidationErrors {
	errs := &ValidationErrors{}

	if len(c.LanguageGroups) == 0 {
		errs.Add("language_groups", "at least one group is required")
	}
	if len(c.Tasks) == 0 {
		errs.Add("tasks", "at least one task is required")
	}

	groupNames := make(map[string]bool, len(c.LanguageGroups))
	for i, g := range c.LanguageGroups {
		prefix := fmt.Sprintf("language_groups[%d]", i)
		if g.Name == "" {
			errs.Add(prefix, "group name is required")
			continue
		}
		prefix = "language_groups." + g.Name
		if groupNames[g.Name] {
			errs.Add(prefix, "duplicate group name")
		}
		groupNames[g.Name] = true
		if c.IsGlobal(g.Name) {
			continue
		}
		if len(g.Languages) == 0 {
			errs.Add(prefix, "group declares no languages")
		}
		seen := make(map[string]bool, len(g.Languages))
		for _, code := range g.Languages {
			if code == "" {
				errs.Add(prefix, "empty language code")
				continue
			}
			if seen[code] {
				errs.Add(prefix, fmt.Sprintf("language %q listed more than once", code))
			}
			seen[code] = true
		}
	}

	taskNames := make(map[string]bool, len(c.Tasks))
	for i, t := range c.Tasks {
		if t.Name == "" {
			errs.Add(fmt.Sprintf("tasks[%d]", i), "task name is required")
			continue
		}
		if taskNames[t.Name] {
			errs.Add("tasks."+t.Name, "duplicate task name")
		}
		taskNames[t.Name] = true
	}

	if c.Logging.Level != "" {
		switch strings.ToLower(c.Logging.Level) {
		case "debug", "info", "warn", "warning", "error":
		default:
			errs.Add("logging.level", fmt.Sprintf("unknown level %q", c.Logging.Level))
		}
	}

	return errs
}

// DeclaresGlobalLanguages reports whether the configuration binds languages to
// the reserved hierarchical group. Such lists are ignored.
func (c Config) DeclaresGlobalLanguages() bool {
	for _, g := range c.LanguageGroups {
		if c.IsGlobal(g.Name) && len(g.Languages) > 0 {
			return true
		}
	}
	return false
}

// DeclaredLanguages returns the union of codes over every regional group, in
// first-seen order.
func (c Config) DeclaredLanguages() []string {
	seen := make(map[string]bool)
	var out []string
	for _, g := range c.RegionalGroups() {
		for _, code := range g.Languages {
			if !seen[code] {
				seen[code] = true
				out = append(out, code)
			}
		}
	}
	return out
}
