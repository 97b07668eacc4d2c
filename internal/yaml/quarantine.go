package yaml

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Quarantine moves an invalid group document into dir so the evaluation
// harness no longer picks it up. The moved file keeps its base name plus a
// timestamp and an .invalid suffix; the new path is returned.
func Quarantine(dir, filePath string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create quarantine dir: %w", err)
	}

	timestamp := time.Now().Format("20060102T150405")
	target := filepath.Join(dir, fmt.Sprintf("%s.%s.invalid", filepath.Base(filePath), timestamp))
	if _, err := os.Stat(target); err == nil {
		return "", fmt.Errorf("quarantine target %s already exists", target)
	}

	if err := os.Rename(filePath, target); err != nil {
		return "", fmt.Errorf("move to quarantine: %w", err)
	}
	return target, nil
}
