package emit

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swiss-ai/evalgroups/internal/model"
	"github.com/swiss-ai/evalgroups/internal/probe"
	"github.com/swiss-ai/evalgroups/internal/resolve"
	"github.com/swiss-ai/evalgroups/internal/yaml"
)

func mmluTask(out string) model.TaskDescriptor {
	return model.TaskDescriptor{
		Name:         "mmlu",
		BaseDir:      "in",
		OutputDir:    out,
		TaskPattern:  "mmlu_{lang}",
		GroupPattern: "mmlu_{group}",
		HasSubjects:  true,
		Subjects:     []string{"stem", "humanities", "other"},
	}
}

func hellaswagTask(out string) model.TaskDescriptor {
	return model.TaskDescriptor{
		Name:         "hellaswag",
		BaseDir:      "in",
		OutputDir:    out,
		TaskPattern:  "hellaswag_{lang}",
		GroupPattern: "hellaswag_{group}",
	}
}

func TestPlan_SubjectFilesFilteredPerSubject(t *testing.T) {
	out := t.TempDir()
	e := New(model.Config{}, mmluTask(out))

	snap := probe.NewSnapshot("mmlu")
	snap.Add("de", "stem", "humanities")
	snap.Add("fr", "stem")
	snap.Add("it", "humanities")
	eff := resolve.Effective{Group: "swiss", Kind: resolve.KindRegional, Members: []string{"de", "fr", "it"}}

	docs, err := e.Plan(eff, snap)
	require.NoError(t, err)
	require.Len(t, docs, 3)

	want := []Document{
		{
			Path:    filepath.Join(out, "swiss", "mmlu_swiss_stem.yaml"),
			Group:   "mmlu_swiss_stem",
			Subject: "stem",
			Tasks:   []string{"mmlu_de_stem", "mmlu_fr_stem"},
		},
		{
			Path:    filepath.Join(out, "swiss", "mmlu_swiss_humanities.yaml"),
			Group:   "mmlu_swiss_humanities",
			Subject: "humanities",
			Tasks:   []string{"mmlu_de_humanities", "mmlu_it_humanities"},
		},
		{
			Path:  filepath.Join(out, "swiss", "mmlu_swiss.yaml"),
			Group: "mmlu_swiss",
			Tasks: []string{"mmlu_swiss_stem", "mmlu_swiss_humanities"},
		},
	}
	if diff := cmp.Diff(want, docs); diff != "" {
		t.Errorf("documents mismatch (-want +got):\n%s", diff)
	}
}

func TestPlan_FlatGroup(t *testing.T) {
	out := t.TempDir()
	e := New(model.Config{}, hellaswagTask(out))
	eff := resolve.Effective{Group: "europe", Kind: resolve.KindRegional, Members: []string{"fr", "de"}}

	docs, err := e.Plan(eff, probe.NewSnapshot("hellaswag"))
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, filepath.Join(out, "hellaswag_europe.yaml"), docs[0].Path)
	assert.Equal(t, "hellaswag_europe", docs[0].Group)
	assert.Equal(t, []string{"hellaswag_fr", "hellaswag_de"}, docs[0].Tasks)
}

func TestPlan_GlobalNamesGroups(t *testing.T) {
	out := t.TempDir()
	eff := resolve.Effective{Group: "global", Kind: resolve.KindGlobal, Members: []string{"europe", "asia"}}

	flat, err := New(model.Config{}, hellaswagTask(out)).Plan(eff, probe.NewSnapshot("hellaswag"))
	require.NoError(t, err)
	require.Len(t, flat, 1)
	assert.Equal(t, filepath.Join(out, "hellaswag_global.yaml"), flat[0].Path)
	assert.Equal(t, []string{"hellaswag_europe", "hellaswag_asia"}, flat[0].Tasks)

	nested, err := New(model.Config{}, mmluTask(out)).Plan(eff, probe.NewSnapshot("mmlu"))
	require.NoError(t, err)
	require.Len(t, nested, 1)
	assert.Equal(t, filepath.Join(out, "global", "mmlu_global.yaml"), nested[0].Path)
	assert.Equal(t, []string{"mmlu_europe", "mmlu_asia"}, nested[0].Tasks)
}

func TestPlan_EmptyGroupPlansNothing(t *testing.T) {
	e := New(model.Config{}, hellaswagTask(t.TempDir()))
	docs, err := e.Plan(resolve.Effective{Group: "africa"}, probe.NewSnapshot("hellaswag"))
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestPlan_FullNames(t *testing.T) {
	task := model.TaskDescriptor{
		Name:                 "include",
		OutputDir:            t.TempDir(),
		TaskPattern:          "include_base_44_{lang_name}",
		GroupPattern:         "include_base_44_{group}",
		HasSubjects:          true,
		Subjects:             []string{"stem"},
		UseFullLanguageNames: true,
	}
	cfg := model.Config{LanguageMapping: map[string]string{"zh": "Chinese Simplified"}}
	snap := probe.NewSnapshot("include")
	snap.Add("zh", "stem")
	snap.Add("xx", "stem")

	docs, err := New(cfg, task).Plan(resolve.Effective{Group: "asia", Members: []string{"zh"}}, snap)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, []string{"include_base_44_chinese_simplified_stem"}, docs[0].Tasks)

	_, err = New(cfg, task).Plan(resolve.Effective{Group: "asia", Members: []string{"zh", "xx"}}, snap)
	require.Error(t, err)
	var cerr *model.ConfigError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "include", cerr.Task)
}

func TestPlan_DuplicateTaskIsConfigError(t *testing.T) {
	task := hellaswagTask(t.TempDir())
	task.TaskPattern = "hellaswag_{lang_name}"
	cfg := model.Config{LanguageMapping: map[string]string{"de": "German", "ch": "german"}}

	_, err := New(cfg, task).Plan(resolve.Effective{Group: "swiss", Members: []string{"de", "ch"}}, probe.NewSnapshot("hellaswag"))
	require.Error(t, err)
	var cerr *model.ConfigError
	require.True(t, errors.As(err, &cerr))
	assert.Contains(t, cerr.Msg, `"hellaswag_german" more than once`)
}

func TestEmit_WritesValidDocumentsIdempotently(t *testing.T) {
	out := t.TempDir()
	e := New(model.Config{}, mmluTask(out))
	assert.Equal(t, out, e.OutputDir())

	snap := probe.NewSnapshot("mmlu")
	snap.Add("de", "stem")
	eff := resolve.Effective{Group: "swiss", Members: []string{"de"}}

	first, err := e.Emit(eff, snap)
	require.NoError(t, err)
	require.Len(t, first, 2)
	for _, w := range first {
		assert.True(t, w.Changed, w.Path)
		require.NoError(t, yaml.ValidateGroupDocumentFile(w.Path))
	}
	before, err := os.ReadFile(first[1].Path)
	require.NoError(t, err)

	second, err := e.Emit(eff, snap)
	require.NoError(t, err)
	for _, w := range second {
		assert.False(t, w.Changed, w.Path)
	}
	after, err := os.ReadFile(first[1].Path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}
