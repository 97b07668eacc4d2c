package naming

import (
	"fmt"
)

// Scheme is the naming convention of a single task.
type Scheme struct {
	TaskPattern        string
	SubjectPattern     string
	GroupPattern       string
	FilePattern        string
	SubjectFilePattern string
	FullNames          bool

	names    map[string]string
	byName   map[string]string
	bySlug   map[string]string
	files    *matcher
}

// NewScheme builds a Scheme. names maps language codes to display names.
func NewScheme(taskPattern, subjectPattern, groupPattern, filePattern, subjectFilePattern string, fullNames bool, names map[string]string) *Scheme {
	s := &Scheme{
		TaskPattern:        taskPattern,
		SubjectPattern:     subjectPattern,
		GroupPattern:       groupPattern,
		FilePattern:        filePattern,
		SubjectFilePattern: subjectFilePattern,
		FullNames:          fullNames,
		names:              names,
		byName:             make(map[string]string, len(names)),
		bySlug:             make(map[string]string, len(names)),
	}
	for code, name := range names {
		s.byName[name] = code
		s.bySlug[Slug(name)] = code
	}
	// Invalid file patterns are rejected by task validation; leave files nil.
	s.files, _ = newMatcher(filePattern)
	return s
}

// NeedsNames reports whether rendering requires a display name for every code.
func (s *Scheme) NeedsNames() bool {
	return s.FullNames || UsesLanguageName(s.TaskPattern, s.SubjectPattern, s.FilePattern, s.SubjectFilePattern)
}

func (s *Scheme) vars(code string) (Vars, error) {
	v := Vars{Lang: code, LangDir: code}
	name, ok := s.names[code]
	if !ok {
		if s.NeedsNames() {
			return Vars{}, fmt.Errorf("%w: %s", ErrUnknownLanguage, code)
		}
		return v, nil
	}
	v.LangName = Slug(name)
	if s.FullNames {
		v.LangDir = name
	}
	return v, nil
}

// TaskName renders the per-language task name.
func (s *Scheme) TaskName(code string) (string, error) {
	v, err := s.vars(code)
	if err != nil {
		return "", err
	}
	return Render(s.TaskPattern, v), nil
}

// SubjectTaskName renders the per-language, per-subject task name.
func (s *Scheme) SubjectTaskName(code, subject string) (string, error) {
	v, err := s.vars(code)
	if err != nil {
		return "", err
	}
	v.Subject = subject
	return Render(s.SubjectPattern, v), nil
}

// GroupName renders the group identifier for a declared group.
func (s *Scheme) GroupName(group string) string {
	return Render(s.GroupPattern, Vars{Group: group})
}

// SubjectGroupName renders the identifier of a group's subject-scoped file.
func (s *Scheme) SubjectGroupName(group, subject string) string {
	return s.GroupName(group) + "_" + subject
}

// FileName renders the artifact file name of a subject-less task.
func (s *Scheme) FileName(code string) (string, error) {
	v, err := s.vars(code)
	if err != nil {
		return "", err
	}
	return Render(s.FilePattern, v), nil
}

// LangDir renders the per-language directory name of a subject-bearing task.
func (s *Scheme) LangDir(code string) (string, error) {
	v, err := s.vars(code)
	if err != nil {
		return "", err
	}
	return v.LangDir, nil
}

// SubjectFileName renders the subject artifact file name inside a language directory.
func (s *Scheme) SubjectFileName(code, subject string) (string, error) {
	v, err := s.vars(code)
	if err != nil {
		return "", err
	}
	v.Subject = subject
	return Render(s.SubjectFilePattern, v), nil
}

// CodeFromFile maps an artifact file name back to a language identifier.
// Names that do not fit the file pattern return ok=false. Display names
// absent from the mapping are returned verbatim.
func (s *Scheme) CodeFromFile(name string) (string, bool) {
	if s.files == nil {
		return "", false
	}
	value, ok := s.files.match(name)
	if !ok {
		return "", false
	}
	switch s.files.placeholder {
	case LangName:
		if code, ok := s.bySlug[value]; ok {
			return code, true
		}
	case LangDir:
		return s.CodeFromDir(value), true
	}
	return value, true
}

// CodeFromDir maps a per-language directory name back to a language identifier.
func (s *Scheme) CodeFromDir(dir string) string {
	if !s.FullNames {
		return dir
	}
	if code, ok := s.byName[dir]; ok {
		return code
	}
	return dir
}
