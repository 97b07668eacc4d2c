// Package emit turns resolved groups into group documents and writes them to
// the task's output directory.
package emit

import (
	"fmt"
	"path/filepath"

	"github.com/swiss-ai/evalgroups/internal/model"
	"github.com/swiss-ai/evalgroups/internal/naming"
	"github.com/swiss-ai/evalgroups/internal/probe"
	"github.com/swiss-ai/evalgroups/internal/resolve"
	"github.com/swiss-ai/evalgroups/internal/yaml"
)

// Document is one planned output file.
type Document struct {
	Path    string
	Group   string
	Subject string
	Tasks   []string
}

// Render produces the document bytes.
func (d Document) Render() ([]byte, error) {
	return yaml.MarshalGroupDocument(yaml.NewGroupDocument(d.Group, d.Tasks))
}

// Written reports the outcome of writing one document.
type Written struct {
	Path    string
	Changed bool
}

type Emitter struct {
	task   model.TaskDescriptor
	scheme *naming.Scheme
	outDir string
}

func New(cfg model.Config, task model.TaskDescriptor) *Emitter {
	return &Emitter{
		task:   task,
		scheme: task.Scheme(cfg.LanguageMapping),
		outDir: cfg.ResolvePath(task.OutputDir),
	}
}

// OutputDir is the resolved directory documents are written to.
func (e *Emitter) OutputDir() string {
	return e.outDir
}

// Plan computes the documents for one resolved group. An empty group plans
// nothing. For tasks with subjects the subject documents come first and the
// main document, listing only subjects that produced a document, comes last.
func (e *Emitter) Plan(eff resolve.Effective, snap *probe.Snapshot) ([]Document, error) {
	if eff.Empty() {
		return nil, nil
	}

	switch {
	case eff.Kind == resolve.KindGlobal:
		return e.planGlobal(eff)
	case e.task.HasSubjects:
		return e.planSubjects(eff, snap)
	default:
		return e.planFlat(eff)
	}
}

func (e *Emitter) planFlat(eff resolve.Effective) ([]Document, error) {
	tasks := make([]string, 0, len(eff.Members))
	for _, code := range eff.Members {
		name, err := e.scheme.TaskName(code)
		if err != nil {
			return nil, e.configError(eff.Group, err)
		}
		tasks = append(tasks, name)
	}
	doc, err := e.document(filepath.Join(e.outDir, e.scheme.GroupName(eff.Group)+".yaml"), e.scheme.GroupName(eff.Group), "", tasks)
	if err != nil {
		return nil, err
	}
	return []Document{doc}, nil
}

func (e *Emitter) planSubjects(eff resolve.Effective, snap *probe.Snapshot) ([]Document, error) {
	groupDir := filepath.Join(e.outDir, eff.Group)

	var docs []Document
	var subjectGroups []string
	for _, subject := range e.task.Subjects {
		var tasks []string
		for _, code := range eff.Members {
			if !snap.HasSubject(code, subject) {
				continue
			}
			name, err := e.scheme.SubjectTaskName(code, subject)
			if err != nil {
				return nil, e.configError(eff.Group, err)
			}
			tasks = append(tasks, name)
		}
		if len(tasks) == 0 {
			continue
		}
		id := e.scheme.SubjectGroupName(eff.Group, subject)
		doc, err := e.document(filepath.Join(groupDir, id+".yaml"), id, subject, tasks)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
		subjectGroups = append(subjectGroups, id)
	}
	if len(subjectGroups) == 0 {
		return nil, nil
	}

	id := e.scheme.GroupName(eff.Group)
	main, err := e.document(filepath.Join(groupDir, id+".yaml"), id, "", subjectGroups)
	if err != nil {
		return nil, err
	}
	return append(docs, main), nil
}

func (e *Emitter) planGlobal(eff resolve.Effective) ([]Document, error) {
	tasks := make([]string, 0, len(eff.Members))
	for _, group := range eff.Members {
		tasks = append(tasks, e.scheme.GroupName(group))
	}
	id := e.scheme.GroupName(eff.Group)
	dir := e.outDir
	if e.task.HasSubjects {
		dir = filepath.Join(e.outDir, eff.Group)
	}
	doc, err := e.document(filepath.Join(dir, id+".yaml"), id, "", tasks)
	if err != nil {
		return nil, err
	}
	return []Document{doc}, nil
}

// document rejects duplicate task entries instead of silently dropping them.
func (e *Emitter) document(path, group, subject string, tasks []string) (Document, error) {
	seen := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		if seen[t] {
			return Document{}, &model.ConfigError{
				Task:  e.task.Name,
				Field: "language_groups",
				Msg:   fmt.Sprintf("group %s lists task %q more than once", group, t),
			}
		}
		seen[t] = true
	}
	return Document{Path: path, Group: group, Subject: subject, Tasks: tasks}, nil
}

func (e *Emitter) configError(group string, err error) error {
	return &model.ConfigError{
		Task:  e.task.Name,
		Field: "language_mapping",
		Msg:   fmt.Sprintf("group %s: %v", group, err),
	}
}

// Write renders and writes every document, skipping files whose content is
// already identical. Each document is rendered completely before its write.
func (e *Emitter) Write(docs []Document) ([]Written, error) {
	out := make([]Written, 0, len(docs))
	for _, doc := range docs {
		content, err := doc.Render()
		if err != nil {
			return out, err
		}
		changed, err := yaml.WriteIfChanged(doc.Path, content)
		if err != nil {
			return out, fmt.Errorf("write %s: %w", doc.Path, err)
		}
		out = append(out, Written{Path: doc.Path, Changed: changed})
	}
	return out, nil
}

// Emit plans and writes one resolved group.
func (e *Emitter) Emit(eff resolve.Effective, snap *probe.Snapshot) ([]Written, error) {
	docs, err := e.Plan(eff, snap)
	if err != nil {
		return nil, err
	}
	return e.Write(docs)
}
