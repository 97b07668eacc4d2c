// Package coverage reports languages that have artifacts on disk but are not
// declared in any group.
package coverage

import (
	"fmt"
	"io"
	"strings"

	"github.com/swiss-ai/evalgroups/internal/model"
	"github.com/swiss-ai/evalgroups/internal/probe"
)

// Report is the coverage gap of one task.
type Report struct {
	Task      string
	Available int
	Gap       []string
}

// Empty reports whether every available language is declared somewhere.
func (r Report) Empty() bool {
	return len(r.Gap) == 0
}

// String is the one-line diagnostic for a non-empty gap.
func (r Report) String() string {
	return fmt.Sprintf("%s: %d available language(s) not in any group: %s",
		r.Task, len(r.Gap), strings.Join(r.Gap, ", "))
}

// Compute compares available identifiers against the declared membership of
// every regional group. Declared but missing languages are not a gap.
func Compute(snap *probe.Snapshot, groups []model.GroupDecl) Report {
	declared := make(map[string]bool)
	for _, g := range groups {
		for _, code := range g.Languages {
			declared[code] = true
		}
	}

	r := Report{Task: snap.Task, Available: snap.Len()}
	for _, id := range snap.Identifiers() {
		if !declared[id] {
			r.Gap = append(r.Gap, id)
		}
	}
	return r
}

// Write prints the diagnostic line when the gap is non-empty.
func Write(w io.Writer, r Report) error {
	if r.Empty() {
		return nil
	}
	_, err := fmt.Fprintln(w, r.String())
	return err
}
