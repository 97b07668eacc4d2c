package naming

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNames = map[string]string{
	"de": "German",
	"fr": "French",
	"zh": "Chinese Simplified",
}

func TestRender(t *testing.T) {
	got := Render("global_mmlu_full_{lang}_{subject}", Vars{Lang: "de", Subject: "stem"})
	assert.Equal(t, "global_mmlu_full_de_stem", got)

	got = Render("include_base_44_{lang_name}", Vars{LangName: "chinese_simplified"})
	assert.Equal(t, "include_base_44_chinese_simplified", got)
}

func TestCountLanguage(t *testing.T) {
	tests := []struct {
		pattern string
		want    int
	}{
		{"hellaswag_{lang}", 1},
		{"include_{lang_name}_{subject}", 1},
		{"{lang_dir}/{lang}", 2},
		{"hellaswag", 0},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			assert.Equal(t, tt.want, CountLanguage(tt.pattern))
		})
	}
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "chinese_simplified", Slug("Chinese Simplified"))
	assert.Equal(t, "german", Slug("German"))
}

func TestScheme_CodeNames(t *testing.T) {
	s := NewScheme("global_mmlu_full_{lang}", "global_mmlu_full_{lang}_{subject}",
		"global_mmlu_full_{group}", "global_mmlu_full_{lang}.yaml",
		"_global_mmlu_full_{lang}_{subject}.yaml", false, testNames)

	name, err := s.TaskName("pt")
	require.NoError(t, err)
	assert.Equal(t, "global_mmlu_full_pt", name)

	name, err = s.SubjectTaskName("de", "stem")
	require.NoError(t, err)
	assert.Equal(t, "global_mmlu_full_de_stem", name)

	dir, err := s.LangDir("de")
	require.NoError(t, err)
	assert.Equal(t, "de", dir)

	file, err := s.SubjectFileName("de", "humanities")
	require.NoError(t, err)
	assert.Equal(t, "_global_mmlu_full_de_humanities.yaml", file)

	assert.Equal(t, "global_mmlu_full_swiss", s.GroupName("swiss"))
	assert.Equal(t, "global_mmlu_full_swiss_stem", s.SubjectGroupName("swiss", "stem"))
	assert.False(t, s.NeedsNames())
}

func TestScheme_FullNames(t *testing.T) {
	s := NewScheme("include_base_44_{lang_name}", "include_base_44_{lang_name}_{subject}",
		"include_base_44_{group}", "include_base_44_{lang_name}.yaml",
		"include_base_44_{lang_name}_{subject}.yaml", true, testNames)

	assert.True(t, s.NeedsNames())

	dir, err := s.LangDir("zh")
	require.NoError(t, err)
	assert.Equal(t, "Chinese Simplified", dir)

	name, err := s.SubjectTaskName("zh", "stem")
	require.NoError(t, err)
	assert.Equal(t, "include_base_44_chinese_simplified_stem", name)

	_, err = s.TaskName("xx")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownLanguage))

	assert.Equal(t, "zh", s.CodeFromDir("Chinese Simplified"))
	assert.Equal(t, "Klingon", s.CodeFromDir("Klingon"))
}

func TestScheme_CodeFromFile(t *testing.T) {
	s := NewScheme("hellaswag_{lang}", "", "hellaswag_{group}", "hellaswag_{lang}.yaml", "", false, testNames)

	code, ok := s.CodeFromFile("hellaswag_de.yaml")
	require.True(t, ok)
	assert.Equal(t, "de", code)

	_, ok = s.CodeFromFile("README.md")
	assert.False(t, ok)

	named := NewScheme("belebele_{lang_name}", "", "belebele_{group}", "belebele_{lang_name}.yaml", "", true, testNames)
	code, ok = named.CodeFromFile("belebele_chinese_simplified.yaml")
	require.True(t, ok)
	assert.Equal(t, "zh", code)

	code, ok = named.CodeFromFile("belebele_klingon.yaml")
	require.True(t, ok)
	assert.Equal(t, "klingon", code)
}

func TestScheme_CodeFromFile_InvalidPattern(t *testing.T) {
	s := NewScheme("hellaswag", "", "hellaswag_{group}", "hellaswag.yaml", "", false, nil)
	_, ok := s.CodeFromFile("hellaswag.yaml")
	assert.False(t, ok)
}
