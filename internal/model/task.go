package model

import (
	"fmt"
	"slices"

	"github.com/swiss-ai/evalgroups/internal/naming"
)

// TaskDescriptor describes one evaluation benchmark family: where its
// per-language artifacts live, where group files go and how things are named.
type TaskDescriptor struct {
	Name                 string   `yaml:"name" json:"name" toml:"name"`
	BaseDir              string   `yaml:"base_dir" json:"base_dir" toml:"base_dir"`
	OutputDir            string   `yaml:"output_dir" json:"output_dir" toml:"output_dir"`
	TaskPattern          string   `yaml:"task_pattern" json:"task_pattern" toml:"task_pattern"`
	SubjectPattern       string   `yaml:"subject_pattern,omitempty" json:"subject_pattern,omitempty" toml:"subject_pattern"`
	GroupPattern         string   `yaml:"group_pattern" json:"group_pattern" toml:"group_pattern"`
	FilePattern          string   `yaml:"file_pattern,omitempty" json:"file_pattern,omitempty" toml:"file_pattern"`
	SubjectFilePattern   string   `yaml:"subject_file_pattern,omitempty" json:"subject_file_pattern,omitempty" toml:"subject_file_pattern"`
	HasSubjects          bool     `yaml:"has_subjects" json:"has_subjects" toml:"has_subjects"`
	Subjects             []string `yaml:"subjects,omitempty" json:"subjects,omitempty" toml:"subjects"`
	UseFullLanguageNames bool     `yaml:"use_full_language_names" json:"use_full_language_names" toml:"use_full_language_names"`
}

// EffectiveFilePattern is the artifact file name of a subject-less task.
func (t TaskDescriptor) EffectiveFilePattern() string {
	if t.FilePattern != "" {
		return t.FilePattern
	}
	return t.TaskPattern + ".yaml"
}

// EffectiveSubjectPattern is the per-language, per-subject task name.
func (t TaskDescriptor) EffectiveSubjectPattern() string {
	if t.SubjectPattern != "" {
		return t.SubjectPattern
	}
	return t.TaskPattern + "_" + naming.Subject
}

// EffectiveSubjectFilePattern is the subject artifact inside a language directory.
func (t TaskDescriptor) EffectiveSubjectFilePattern() string {
	if t.SubjectFilePattern != "" {
		return t.SubjectFilePattern
	}
	return "_" + t.TaskPattern + "_" + naming.Subject + ".yaml"
}

// Scheme returns the naming convention of the task.
func (t TaskDescriptor) Scheme(names map[string]string) *naming.Scheme {
	return naming.NewScheme(
		t.TaskPattern,
		t.EffectiveSubjectPattern(),
		t.GroupPattern,
		t.EffectiveFilePattern(),
		t.EffectiveSubjectFilePattern(),
		t.UseFullLanguageNames,
		names,
	)
}

// Validate checks the template invariants of the descriptor.
func (t TaskDescriptor) Validate() error {
	fail := func(field, format string, args ...any) error {
		return &ConfigError{Task: t.Name, Field: field, Msg: fmt.Sprintf(format, args...)}
	}

	if t.BaseDir == "" {
		return fail("base_dir", "is required")
	}
	if t.OutputDir == "" {
		return fail("output_dir", "is required")
	}
	if n := naming.CountLanguage(t.TaskPattern); n != 1 {
		return fail("task_pattern", "%q must contain exactly one language placeholder, found %d", t.TaskPattern, n)
	}
	if n := naming.Count(t.GroupPattern, naming.Group); n != 1 {
		return fail("group_pattern", "%q must contain exactly one %s placeholder, found %d", t.GroupPattern, naming.Group, n)
	}

	if !t.HasSubjects {
		if n := naming.CountLanguage(t.EffectiveFilePattern()); n != 1 {
			return fail("file_pattern", "%q must contain exactly one language placeholder, found %d", t.EffectiveFilePattern(), n)
		}
		return nil
	}

	sp := t.EffectiveSubjectPattern()
	if n := naming.CountLanguage(sp); n != 1 {
		return fail("subject_pattern", "%q must contain exactly one language placeholder, found %d", sp, n)
	}
	if n := naming.Count(sp, naming.Subject); n != 1 {
		return fail("subject_pattern", "%q must contain exactly one %s placeholder, found %d", sp, naming.Subject, n)
	}
	if n := naming.Count(t.EffectiveSubjectFilePattern(), naming.Subject); n != 1 {
		return fail("subject_file_pattern", "%q must contain exactly one %s placeholder, found %d", t.EffectiveSubjectFilePattern(), naming.Subject, n)
	}
	if len(t.Subjects) == 0 {
		return fail("subjects", "has_subjects is set but no subjects are listed")
	}
	seen := make(map[string]bool, len(t.Subjects))
	for _, s := range t.Subjects {
		if s == "" {
			return fail("subjects", "empty subject name")
		}
		if seen[s] {
			return fail("subjects", "duplicate subject %q", s)
		}
		seen[s] = true
	}
	return nil
}

// CheckLanguages verifies that every code has a display name when the task's
// naming scheme needs one.
func (t TaskDescriptor) CheckLanguages(codes []string, names map[string]string) error {
	if !t.Scheme(names).NeedsNames() {
		return nil
	}
	var missing []string
	for _, code := range codes {
		if _, ok := names[code]; !ok && !slices.Contains(missing, code) {
			missing = append(missing, code)
		}
	}
	if len(missing) > 0 {
		return &ConfigError{
			Task:  t.Name,
			Field: "language_mapping",
			Msg:   fmt.Sprintf("no display name for %v", missing),
		}
	}
	return nil
}
