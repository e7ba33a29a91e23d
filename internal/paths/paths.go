// Package paths normalizes user-supplied names and verifies that the
// filesystem paths built from them stay inside their root directory.
package paths

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrInvalidPath marks a name whose resolved path escapes its root.
var ErrInvalidPath = errors.New("path escapes its root directory")

// Sanitize keeps [A-Za-z0-9_.-] and replaces every other byte with '_'.
// An empty input yields an empty string.
func Sanitize(name string) string {
	if name == "" {
		return ""
	}
	b := []byte(name)
	for i, c := range b {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '_' || c == '.' || c == '-':
		default:
			b[i] = '_'
		}
	}
	return string(b)
}

// Resolve joins name onto root and returns the absolute result, failing
// with ErrInvalidPath unless it remains strictly inside root. Sanitized
// names cannot traverse, but encoded sequences surviving upstream layers
// must still be caught here before anything touches the filesystem.
func Resolve(root, name string) (string, error) {
	if strings.ContainsRune(name, 0) {
		return "", fmt.Errorf("%w: name contains NUL byte", ErrInvalidPath)
	}
	// An absolute name would disappear into Join's cleaning and re-root
	// itself under root, so it must be refused outright.
	if filepath.IsAbs(name) {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, name)
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve root %s: %w", root, err)
	}
	abs, err := filepath.Abs(filepath.Join(absRoot, name))
	if err != nil {
		return "", fmt.Errorf("resolve name %s: %w", name, err)
	}
	if abs == absRoot || !strings.HasPrefix(abs, absRoot+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, name)
	}
	return abs, nil
}
