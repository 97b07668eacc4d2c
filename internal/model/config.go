// Package model defines the configuration catalogs consumed by the group generator:
// declared language groups, the language mapping and the task descriptors.
package model

import (
	"path/filepath"
	"slices"
)

// DefaultGlobalGroup is the reserved name of the hierarchical group.
const DefaultGlobalGroup = "global"

type Config struct {
	Root            string            `yaml:"root" json:"root" toml:"root"`
	GlobalGroup     string            `yaml:"global_group" json:"global_group" toml:"global_group"`
	LanguageGroups  GroupCatalog      `yaml:"language_groups" json:"language_groups" toml:"language_groups"`
	LanguageMapping map[string]string `yaml:"language_mapping" json:"language_mapping" toml:"language_mapping"`
	Tasks           TaskCatalog       `yaml:"tasks" json:"tasks" toml:"tasks"`
	Logging         LoggingConfig     `yaml:"logging" json:"logging" toml:"logging"`
	LockFile        string            `yaml:"lock_file" json:"lock_file" toml:"lock_file"`
}

type LoggingConfig struct {
	Level string `yaml:"level" json:"level" toml:"level"`
}

// GroupDecl is a declared group: a name bound to an ordered list of language codes.
type GroupDecl struct {
	Name      string   `yaml:"name" json:"name" toml:"name"`
	Languages []string `yaml:"languages" json:"languages" toml:"languages"`
}

// GlobalName returns the reserved hierarchical group name.
func (c Config) GlobalName() string {
	if c.GlobalGroup == "" {
		return DefaultGlobalGroup
	}
	return c.GlobalGroup
}

// IsGlobal reports whether name refers to the hierarchical group.
func (c Config) IsGlobal(name string) bool {
	return name == c.GlobalName()
}

// RegionalGroups returns the declared groups in declaration order, without the
// hierarchical group.
func (c Config) RegionalGroups() []GroupDecl {
	out := make([]GroupDecl, 0, len(c.LanguageGroups))
	for _, g := range c.LanguageGroups {
		if c.IsGlobal(g.Name) {
			continue
		}
		out = append(out, g)
	}
	return out
}

// Group looks up a declared regional group by name.
func (c Config) Group(name string) (GroupDecl, bool) {
	for _, g := range c.RegionalGroups() {
		if g.Name == name {
			return g, true
		}
	}
	return GroupDecl{}, false
}

// GroupNames lists every requestable group: the regional groups in declaration
// order followed by the global group.
func (c Config) GroupNames() []string {
	regional := c.RegionalGroups()
	names := make([]string, 0, len(regional)+1)
	for _, g := range regional {
		names = append(names, g.Name)
	}
	return append(names, c.GlobalName())
}

// HasGroup reports whether name can be requested.
func (c Config) HasGroup(name string) bool {
	return slices.Contains(c.GroupNames(), name)
}

// Task looks up a task descriptor by name.
func (c Config) Task(name string) (TaskDescriptor, bool) {
	for _, t := range c.Tasks {
		if t.Name == name {
			return t, true
		}
	}
	return TaskDescriptor{}, false
}

// TaskNames lists catalogued tasks in declaration order.
func (c Config) TaskNames() []string {
	names := make([]string, 0, len(c.Tasks))
	for _, t := range c.Tasks {
		names = append(names, t.Name)
	}
	return names
}

// ResolvePath anchors a relative task path at Root.
func (c Config) ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) || c.Root == "" {
		return p
	}
	return filepath.Join(c.Root, p)
}
