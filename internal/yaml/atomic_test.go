package yaml

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAtomicWriteRaw_Overwrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")

	if err := AtomicWriteRaw(path, []byte("version: 1\n"), ValidateYAML); err != nil {
		t.Fatalf("first write failed: %v", err)
	}
	if err := AtomicWriteRaw(path, []byte("version: 2\n"), ValidateYAML); err != nil {
		t.Fatalf("second write failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(content) != "version: 2\n" {
		t.Errorf("content: got %q", content)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected exactly one file, got %d", len(entries))
	}
}

func TestAtomicWriteRaw_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")

	invalidYAML := []byte(":\n  invalid: [\n    broken")
	err := AtomicWriteRaw(path, invalidYAML, ValidateYAML)
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}

	// Verify file was not created
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("file should not exist after failed write")
	}
}

func TestAtomicWrite_NoTempFileLeftOnFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")

	_ = AtomicWriteRaw(path, []byte("group: x\n"), ValidateGroupDocument)

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}

	for _, entry := range entries {
		t.Errorf("unexpected file remaining: %s", entry.Name())
	}
}

func TestWriteIfChanged(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "hellaswag_swiss.yaml")

	content, err := MarshalGroupDocument(NewGroupDocument("hellaswag_swiss", []string{"hellaswag_de"}))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	changed, err := WriteIfChanged(path, content)
	if err != nil {
		t.Fatalf("first write failed: %v", err)
	}
	if !changed {
		t.Error("first write should report a change")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}

	changed, err = WriteIfChanged(path, content)
	if err != nil {
		t.Fatalf("second write failed: %v", err)
	}
	if changed {
		t.Error("identical content should not be rewritten")
	}

	again, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if !again.ModTime().Equal(info.ModTime()) {
		t.Error("file was touched although content is unchanged")
	}
}

func TestWriteIfChanged_RejectsInvalidDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")

	if _, err := WriteIfChanged(path, []byte("group: only\n")); err == nil {
		t.Fatal("expected validation error")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("invalid document must not be written")
	}
}

func TestIsTempFile(t *testing.T) {
	if !IsTempFile("/out/.evalgroups-tmp-123.yaml") {
		t.Error("temp file not recognised")
	}
	if IsTempFile("/out/hellaswag_swiss.yaml") {
		t.Error("regular file recognised as temp file")
	}
}
