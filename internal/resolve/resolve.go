// Package resolve computes the effective, availability-filtered membership of
// declared groups for one task.
package resolve

import (
	"github.com/swiss-ai/evalgroups/internal/model"
	"github.com/swiss-ai/evalgroups/internal/probe"
)

type Kind int

const (
	// KindRegional groups list languages.
	KindRegional Kind = iota
	// KindGlobal groups list regional group names.
	KindGlobal
)

func (k Kind) String() string {
	if k == KindGlobal {
		return "global"
	}
	return "regional"
}

// Effective is the task-specific membership of a declared group: languages for
// regional groups, regional group names for the global group. It is computed
// per run and never persisted.
type Effective struct {
	Group   string
	Kind    Kind
	Members []string
}

// Empty reports whether nothing backs the group; such groups are not emitted.
func (e Effective) Empty() bool {
	return len(e.Members) == 0
}

// Regional filters the declared languages to those available, keeping the
// declared order.
func Regional(decl model.GroupDecl, snap *probe.Snapshot) Effective {
	eff := Effective{Group: decl.Name, Kind: KindRegional}
	for _, code := range decl.Languages {
		if snap.Has(code) {
			eff.Members = append(eff.Members, code)
		}
	}
	return eff
}

// Global references every non-empty regional group, in the order given.
// Only one level of nesting exists: regional inputs never reference groups.
func Global(name string, regional []Effective) Effective {
	eff := Effective{Group: name, Kind: KindGlobal}
	for _, r := range regional {
		if r.Kind != KindRegional || r.Empty() {
			continue
		}
		eff.Members = append(eff.Members, r.Group)
	}
	return eff
}

// Resolution is every group of the configuration resolved against one
// availability snapshot.
type Resolution struct {
	Task     string
	Regional []Effective
	Global   Effective
}

// Resolve resolves all regional groups first and derives the global group
// from their results.
func Resolve(cfg model.Config, snap *probe.Snapshot) Resolution {
	decls := cfg.RegionalGroups()
	res := Resolution{
		Task:     snap.Task,
		Regional: make([]Effective, 0, len(decls)),
	}
	for _, decl := range decls {
		res.Regional = append(res.Regional, Regional(decl, snap))
	}
	res.Global = Global(cfg.GlobalName(), res.Regional)
	return res
}

// Group returns the resolved group with the given name.
func (r Resolution) Group(name string) (Effective, bool) {
	if name == r.Global.Group {
		return r.Global, true
	}
	for _, eff := range r.Regional {
		if eff.Group == name {
			return eff, true
		}
	}
	return Effective{}, false
}

// Overlap is a language that appears in more than one effective group.
type Overlap struct {
	Language string
	Groups   []string
}

// Overlaps lists languages shared between the given regional groups, in
// first-seen order.
func Overlaps(groups []Effective) []Overlap {
	var out []Overlap
	seenIn := make(map[string][]string)
	var order []string
	for _, g := range groups {
		if g.Kind != KindRegional {
			continue
		}
		for _, code := range g.Members {
			if _, ok := seenIn[code]; !ok {
				order = append(order, code)
			}
			seenIn[code] = append(seenIn[code], g.Group)
		}
	}
	for _, code := range order {
		if len(seenIn[code]) < 2 {
			continue
		}
		out = append(out, Overlap{Language: code, Groups: seenIn[code]})
	}
	return out
}
