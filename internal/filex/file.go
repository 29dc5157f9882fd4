package filex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExportsDir is where the CLI stores downloaded exports, relative to the
// working directory.
const ExportsDir = "exports"

// EnsureSubDir creates dirName under the working directory if needed and
// returns its absolute path.
func EnsureSubDir(dirName string) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}

	dir := filepath.Join(cwd, dirName)

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// ExportPath resolves where a downloaded export named name is written. Only
// the base name is used; ".csv" is appended when missing.
func ExportPath(name string) (string, error) {
	base := filepath.Base(strings.TrimSpace(name))
	if base == "." || base == string(filepath.Separator) || base == "" {
		return "", fmt.Errorf("invalid export name %q", name)
	}
	if !strings.EqualFold(filepath.Ext(base), ".csv") {
		base += ".csv"
	}

	dir, err := EnsureSubDir(ExportsDir)
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, base), nil
}
