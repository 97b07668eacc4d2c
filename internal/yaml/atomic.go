// Package yaml provides atomic YAML file I/O and the group document wire format.
package yaml

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	yamlv3 "gopkg.in/yaml.v3"
)

const tempPrefix = ".evalgroups-tmp-"

// IsTempFile reports whether name is an in-flight temp file of AtomicWriteRaw.
func IsTempFile(name string) bool {
	return strings.HasPrefix(filepath.Base(name), tempPrefix)
}

// AtomicWriteRaw replaces path with content. The content is written to a temp
// file in the same directory, re-read and checked with validate, then renamed
// over path, so readers never observe a partial document.
func AtomicWriteRaw(path string, content []byte, validate func([]byte) error) error {
	// Step 1: Create temp file and write content
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, tempPrefix+"*.yaml")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	defer func() {
		// Clean up temp file on any failure
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	// Step 2: Validate written content by re-reading temp file
	written, err := os.ReadFile(tmpName)
	if err != nil {
		return fmt.Errorf("read temp file for validation: %w", err)
	}
	if validate != nil {
		if err := validate(written); err != nil {
			return fmt.Errorf("yaml validation failed: %w", err)
		}
	}

	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}

	// Step 3: Atomic rename
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("atomic rename: %w", err)
	}

	return nil
}

// WriteIfChanged writes a group document unless path already holds exactly
// content. It creates missing parent directories and reports whether the
// file was written.
func WriteIfChanged(path string, content []byte) (bool, error) {
	existing, err := os.ReadFile(path)
	if err == nil && bytes.Equal(existing, content) {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, fmt.Errorf("create output dir: %w", err)
	}
	if err := AtomicWriteRaw(path, content, ValidateGroupDocument); err != nil {
		return false, err
	}
	return true, nil
}

// ValidateYAML checks that content parses as YAML.
func ValidateYAML(content []byte) error {
	var v any
	return yamlv3.Unmarshal(content, &v)
}
