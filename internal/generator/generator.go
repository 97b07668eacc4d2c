// Package generator drives the pipeline for every requested task: probe the
// base directory once, resolve regional groups then the global group, write
// the group documents and report the coverage gap.
package generator

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/swiss-ai/evalgroups/internal/coverage"
	"github.com/swiss-ai/evalgroups/internal/emit"
	"github.com/swiss-ai/evalgroups/internal/lock"
	"github.com/swiss-ai/evalgroups/internal/model"
	"github.com/swiss-ai/evalgroups/internal/probe"
	"github.com/swiss-ai/evalgroups/internal/resolve"
)

// AllTasks selects every catalogued task.
const AllTasks = "all"

// Options selects what one run generates.
type Options struct {
	// Tasks to process; empty or containing AllTasks means the whole catalog.
	Tasks []string
	// Groups to emit; empty means every regional group plus the global group.
	Groups []string
	// DryRun plans documents without writing them.
	DryRun bool
	// Jobs bounds how many tasks are processed at once. Values below 1 mean 1.
	Jobs int
}

// TaskResult is the outcome of one task.
type TaskResult struct {
	Task      string
	Available []string
	Planned   []emit.Document
	Written   []emit.Written
	Skipped   []string
	Coverage  coverage.Report
}

// Changed counts documents whose content was (re)written.
func (r TaskResult) Changed() int {
	n := 0
	for _, w := range r.Written {
		if w.Changed {
			n++
		}
	}
	return n
}

type Generator struct {
	cfg     model.Config
	storage probe.Storage
	logger  *zap.Logger
	out     io.Writer
	dirs    *lock.KeyedMutex
	flights singleflight.Group
}

// New returns a generator over cfg. Diagnostics (coverage gaps and dry-run
// plans) go to out; progress goes to logger.
func New(cfg model.Config, storage probe.Storage, logger *zap.Logger, out io.Writer) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if out == nil {
		out = io.Discard
	}
	return &Generator{
		cfg:     cfg,
		storage: storage,
		logger:  logger,
		out:     out,
		dirs:    lock.NewKeyedMutex(),
	}
}

// Run processes the requested tasks. A failing task does not stop the others;
// their errors are combined. Unknown group names fail the run before any task
// starts.
func (g *Generator) Run(ctx context.Context, opts Options) ([]TaskResult, error) {
	if !opts.DryRun && g.cfg.LockFile != "" {
		fl := lock.NewFileLock(g.cfg.LockFile)
		if err := fl.TryLock(); err != nil {
			return nil, fmt.Errorf("run lock %s: %w", fl.Path(), err)
		}
		defer fl.Unlock()
	}
	return g.run(ctx, opts)
}

func (g *Generator) run(ctx context.Context, opts Options) ([]TaskResult, error) {
	groups, err := g.selectGroups(opts.Groups)
	if err != nil {
		return nil, err
	}
	tasks := g.selectTasks(opts.Tasks)

	logger := g.logger.With(zap.String("run_id", uuid.NewString()))
	if g.cfg.DeclaresGlobalLanguages() {
		logger.Warn("language list of the global group is ignored; it is composed from regional groups",
			zap.String("group", g.cfg.GlobalName()))
	}

	jobs := opts.Jobs
	if jobs < 1 {
		jobs = 1
	}

	results := make([]TaskResult, len(tasks))
	errs := make([]error, len(tasks))
	var eg errgroup.Group
	eg.SetLimit(jobs)
	for i, name := range tasks {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			results[i], errs[i] = g.runTask(logger.With(zap.String("task", name)), name, groups, opts.DryRun)
			return nil
		})
	}
	_ = eg.Wait()

	for i, res := range results {
		if errs[i] != nil {
			continue
		}
		if opts.DryRun {
			if err := writePlan(g.out, res); err != nil {
				return results, err
			}
		}
		if err := coverage.Write(g.out, res.Coverage); err != nil {
			return results, err
		}
	}
	return results, multierr.Combine(errs...)
}

// selectGroups returns the requested groups in catalog order.
func (g *Generator) selectGroups(requested []string) ([]string, error) {
	all := g.cfg.GroupNames()
	if len(requested) == 0 {
		return all, nil
	}
	var unknown []string
	for _, name := range requested {
		if !g.cfg.HasGroup(name) {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		return nil, &model.ConfigError{
			Field: "groups",
			Msg:   fmt.Sprintf("unknown group(s) %v, declared: %v", unknown, all),
		}
	}
	selected := make([]string, 0, len(requested))
	for _, name := range all {
		if slices.Contains(requested, name) {
			selected = append(selected, name)
		}
	}
	return selected, nil
}

func (g *Generator) selectTasks(requested []string) []string {
	if len(requested) == 0 || slices.Contains(requested, AllTasks) {
		return g.cfg.TaskNames()
	}
	var out []string
	for _, name := range requested {
		if !slices.Contains(out, name) {
			out = append(out, name)
		}
	}
	return out
}

// runTask validates the task, takes one availability snapshot, plans every
// requested group and only then writes, so configuration errors never leave a
// partially generated task behind.
func (g *Generator) runTask(logger *zap.Logger, name string, groups []string, dryRun bool) (TaskResult, error) {
	res := TaskResult{Task: name}

	task, ok := g.cfg.Task(name)
	if !ok {
		return res, &model.ConfigError{
			Task:  name,
			Field: "tasks",
			Msg:   fmt.Sprintf("not in task catalog %v", g.cfg.TaskNames()),
		}
	}
	if err := task.Validate(); err != nil {
		return res, err
	}

	wantGlobal := slices.ContainsFunc(groups, g.cfg.IsGlobal)
	if err := task.CheckLanguages(g.languagesFor(groups, wantGlobal), g.cfg.LanguageMapping); err != nil {
		return res, err
	}

	snap, err := probe.New(g.storage, g.cfg, task).ListAvailable()
	if err != nil {
		return res, fmt.Errorf("task %q: %w", name, err)
	}
	res.Available = snap.Identifiers()
	logger.Info("available languages",
		zap.Int("count", snap.Len()), zap.Strings("languages", res.Available))

	resolution := resolve.Resolve(g.cfg, snap)
	emitter := emit.New(g.cfg, task)

	var regional []resolve.Effective
	for _, group := range groups {
		if g.cfg.IsGlobal(group) {
			continue
		}
		eff, _ := resolution.Group(group)
		regional = append(regional, eff)
		docs, err := g.plan(logger, emitter, eff, snap, &res)
		if err != nil {
			return res, err
		}
		res.Planned = append(res.Planned, docs...)
	}
	for _, o := range resolve.Overlaps(regional) {
		logger.Debug("language included in several groups",
			zap.String("language", o.Language), zap.Strings("groups", o.Groups))
	}

	if wantGlobal {
		eff := resolution.Global
		if missing := notRequested(eff.Members, groups); len(missing) > 0 {
			logger.Warn("global group references groups not generated in this run",
				zap.String("group", eff.Group), zap.Strings("groups", missing))
		}
		docs, err := g.plan(logger, emitter, eff, snap, &res)
		if err != nil {
			return res, err
		}
		res.Planned = append(res.Planned, docs...)
	}

	res.Coverage = coverage.Compute(snap, g.cfg.RegionalGroups())
	if !res.Coverage.Empty() {
		logger.Warn("coverage gap", zap.Strings("languages", res.Coverage.Gap))
	}

	if dryRun || len(res.Planned) == 0 {
		return res, nil
	}

	err = g.dirs.Do(emitter.OutputDir(), func() error {
		written, err := emitter.Write(res.Planned)
		res.Written = written
		return err
	})
	for _, w := range res.Written {
		if w.Changed {
			logger.Info("wrote group document", zap.String("path", w.Path))
		} else {
			logger.Debug("group document unchanged", zap.String("path", w.Path))
		}
	}
	if err != nil {
		return res, fmt.Errorf("task %q: %w", name, err)
	}
	return res, nil
}

func (g *Generator) plan(logger *zap.Logger, emitter *emit.Emitter, eff resolve.Effective, snap *probe.Snapshot, res *TaskResult) ([]emit.Document, error) {
	if eff.Empty() {
		logger.Info("no available languages, group skipped",
			zap.String("group", eff.Group), zap.Stringer("kind", eff.Kind))
		res.Skipped = append(res.Skipped, eff.Group)
		return nil, nil
	}
	docs, err := emitter.Plan(eff, snap)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		res.Skipped = append(res.Skipped, eff.Group)
		return nil, nil
	}
	logger.Info("group resolved",
		zap.String("group", eff.Group),
		zap.Stringer("kind", eff.Kind),
		zap.Int("members", len(eff.Members)),
		zap.Int("documents", len(docs)))
	return docs, nil
}

// languagesFor lists the codes a run over groups may render. The global group
// depends on every regional group.
func (g *Generator) languagesFor(groups []string, wantGlobal bool) []string {
	if wantGlobal {
		return g.cfg.DeclaredLanguages()
	}
	var codes []string
	for _, name := range groups {
		decl, ok := g.cfg.Group(name)
		if !ok {
			continue
		}
		codes = append(codes, decl.Languages...)
	}
	return codes
}

func notRequested(members, requested []string) []string {
	var out []string
	for _, m := range members {
		if !slices.Contains(requested, m) {
			out = append(out, m)
		}
	}
	return out
}

func writePlan(w io.Writer, res TaskResult) error {
	for _, doc := range res.Planned {
		if _, err := fmt.Fprintf(w, "%s (%s)\n", doc.Path, doc.Group); err != nil {
			return err
		}
		for _, t := range doc.Tasks {
			if _, err := fmt.Fprintf(w, "  - %s\n", t); err != nil {
				return err
			}
		}
	}
	return nil
}

// Inspect probes the selected tasks and computes their coverage gap without
// resolving or writing anything.
func (g *Generator) Inspect(tasks []string) ([]TaskResult, error) {
	var errs error
	var results []TaskResult
	for _, name := range g.selectTasks(tasks) {
		task, ok := g.cfg.Task(name)
		if !ok {
			errs = multierr.Append(errs, &model.ConfigError{Task: name, Field: "tasks", Msg: "not in task catalog"})
			continue
		}
		if err := task.Validate(); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		snap, err := probe.New(g.storage, g.cfg, task).ListAvailable()
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("task %q: %w", name, err))
			continue
		}
		results = append(results, TaskResult{
			Task:      name,
			Available: snap.Identifiers(),
			Coverage:  coverage.Compute(snap, g.cfg.RegionalGroups()),
		})
	}
	return results, errs
}
