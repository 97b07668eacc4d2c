package probe

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/swiss-ai/evalgroups/internal/model"
	"github.com/swiss-ai/evalgroups/internal/naming"
)

// Probe checks artifact existence for one task. Two layouts are supported:
// flat files per language (task without subjects) and a directory per
// language holding one file per subject.
type Probe struct {
	storage Storage
	task    model.TaskDescriptor
	scheme  *naming.Scheme
	base    string
	ignore  map[string]bool
}

func New(storage Storage, cfg model.Config, task model.TaskDescriptor) *Probe {
	ignore := make(map[string]bool)
	for _, name := range cfg.GroupNames() {
		ignore[name] = true
	}
	return &Probe{
		storage: storage,
		task:    task,
		scheme:  task.Scheme(cfg.LanguageMapping),
		base:    cfg.ResolvePath(task.BaseDir),
		ignore:  ignore,
	}
}

// BaseDir is the resolved directory the probe reads.
func (p *Probe) BaseDir() string {
	return p.base
}

// Exists reports whether the artifact for code exists. For tasks with
// subjects an empty subject checks the language directory, otherwise the
// subject file inside it. Missing paths and unrenderable names report false.
func (p *Probe) Exists(code, subject string) bool {
	if !p.task.HasSubjects {
		name, err := p.scheme.FileName(code)
		if err != nil {
			return false
		}
		return p.storage.Exists(filepath.Join(p.base, name))
	}

	dir, err := p.scheme.LangDir(code)
	if err != nil {
		return false
	}
	if subject == "" {
		return p.storage.IsDir(filepath.Join(p.base, dir))
	}
	file, err := p.scheme.SubjectFileName(code, subject)
	if err != nil {
		return false
	}
	return p.storage.Exists(filepath.Join(p.base, dir, file))
}

// ListAvailable scans the base directory once and returns every identifier
// with at least one backing artifact. A missing base directory yields an
// empty snapshot.
func (p *Probe) ListAvailable() (*Snapshot, error) {
	snap := NewSnapshot(p.task.Name)

	entries, err := p.storage.ReadDir(p.base)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", p.base, err)
	}

	for _, e := range entries {
		if strings.HasPrefix(e.Name, ".") {
			continue
		}
		if p.task.HasSubjects {
			if !e.IsDir || p.ignore[e.Name] {
				continue
			}
			if err := p.scanLanguageDir(snap, e.Name); err != nil {
				return nil, err
			}
			continue
		}
		if e.IsDir {
			continue
		}
		code, ok := p.scheme.CodeFromFile(e.Name)
		if !ok || p.ignore[code] {
			continue
		}
		snap.Add(code)
	}
	return snap, nil
}

func (p *Probe) scanLanguageDir(snap *Snapshot, dir string) error {
	code := p.scheme.CodeFromDir(dir)

	if _, err := p.scheme.LangDir(code); err != nil {
		// Not in the language mapping: subject files cannot be named, so any
		// artifact in the directory makes it available under its raw name.
		entries, err := p.storage.ReadDir(filepath.Join(p.base, dir))
		if err != nil {
			return fmt.Errorf("scan %s: %w", filepath.Join(p.base, dir), err)
		}
		for _, e := range entries {
			if !e.IsDir && !strings.HasPrefix(e.Name, ".") {
				snap.Add(code)
				return nil
			}
		}
		return nil
	}

	var found []string
	for _, subject := range p.task.Subjects {
		if p.Exists(code, subject) {
			found = append(found, subject)
		}
	}
	if len(found) > 0 {
		snap.Add(code, found...)
	}
	return nil
}
