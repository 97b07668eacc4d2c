// Package naming renders task, group and file names from the placeholder
// templates declared per task, and maps rendered names back to language codes.
package naming

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Placeholders understood in templates.
const (
	Lang     = "{lang}"
	LangName = "{lang_name}"
	LangDir  = "{lang_dir}"
	Subject  = "{subject}"
	Group    = "{group}"
)

var languagePlaceholders = []string{Lang, LangName, LangDir}

// ErrUnknownLanguage is returned when a display name is needed for a code that
// the language mapping does not contain.
var ErrUnknownLanguage = errors.New("language code missing from language_mapping")

// Vars holds the values substituted into a template.
type Vars struct {
	Lang     string
	LangName string
	LangDir  string
	Subject  string
	Group    string
}

// Render substitutes every known placeholder in pattern.
func Render(pattern string, v Vars) string {
	return strings.NewReplacer(
		Lang, v.Lang,
		LangName, v.LangName,
		LangDir, v.LangDir,
		Subject, v.Subject,
		Group, v.Group,
	).Replace(pattern)
}

// CountLanguage reports how many language placeholders pattern contains.
func CountLanguage(pattern string) int {
	n := 0
	for _, p := range languagePlaceholders {
		n += strings.Count(pattern, p)
	}
	return n
}

// Count reports how many times placeholder occurs in pattern.
func Count(pattern, placeholder string) int {
	return strings.Count(pattern, placeholder)
}

// UsesLanguageName reports whether any of the patterns needs a display name.
func UsesLanguageName(patterns ...string) bool {
	for _, p := range patterns {
		if strings.Contains(p, LangName) {
			return true
		}
	}
	return false
}

// Slug lowercases a display name and joins its words with underscores.
func Slug(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}

// matcher inverts a template that holds exactly one language placeholder.
type matcher struct {
	re          *regexp.Regexp
	placeholder string
}

func newMatcher(pattern string) (*matcher, error) {
	if CountLanguage(pattern) != 1 {
		return nil, fmt.Errorf("pattern %q must contain exactly one language placeholder", pattern)
	}
	for _, p := range languagePlaceholders {
		i := strings.Index(pattern, p)
		if i < 0 {
			continue
		}
		expr := "^" + regexp.QuoteMeta(pattern[:i]) + "(.+)" + regexp.QuoteMeta(pattern[i+len(p):]) + "$"
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("compile pattern %q: %w", pattern, err)
		}
		return &matcher{re: re, placeholder: p}, nil
	}
	return nil, fmt.Errorf("pattern %q has no language placeholder", pattern)
}

func (m *matcher) match(name string) (string, bool) {
	sub := m.re.FindStringSubmatch(name)
	if sub == nil {
		return "", false
	}
	return sub[1], true
}
