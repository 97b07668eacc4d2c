package probe

import (
	"maps"
	"slices"
)

// Snapshot is the availability of one task, taken once before resolution so
// the resolver and the coverage reporter see the same state.
type Snapshot struct {
	Task     string
	langs    map[string]bool
	subjects map[string]map[string]bool
}

func NewSnapshot(task string) *Snapshot {
	return &Snapshot{
		Task:     task,
		langs:    make(map[string]bool),
		subjects: make(map[string]map[string]bool),
	}
}

// Add records an available identifier and, optionally, its available subjects.
func (s *Snapshot) Add(code string, subjects ...string) {
	s.langs[code] = true
	if len(subjects) == 0 {
		return
	}
	set, ok := s.subjects[code]
	if !ok {
		set = make(map[string]bool, len(subjects))
		s.subjects[code] = set
	}
	for _, subj := range subjects {
		set[subj] = true
	}
}

// Identifiers returns every available identifier, sorted.
func (s *Snapshot) Identifiers() []string {
	return slices.Sorted(maps.Keys(s.langs))
}

func (s *Snapshot) Len() int {
	return len(s.langs)
}

func (s *Snapshot) Has(code string) bool {
	return s.langs[code]
}

func (s *Snapshot) HasSubject(code, subject string) bool {
	return s.subjects[code][subject]
}
