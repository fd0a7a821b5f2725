package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SanitizePath trims whitespace from a user supplied directory path, and verifies that
// it is an absolute path to an existing directory.
func SanitizePath(raw string) (string, error) {
	path := strings.TrimSpace(raw)
	if path == "" {
		return "", fmt.Errorf("%w: path cannot be empty", ErrInvalidPath)
	}
	if strings.IndexFunc(path, func(r rune) bool { return r < 0x20 || r == 0x7f }) != -1 {
		return "", fmt.Errorf("%w: path contains invalid characters: %q", ErrInvalidPath, path)
	}
	if !filepath.IsAbs(path) {
		return "", fmt.Errorf("%w: '%v' is not an absolute path", ErrInvalidPath, path)
	}
	st, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%w: '%v' does not exist", ErrInvalidPath, path)
	}
	if !st.IsDir() {
		return "", fmt.Errorf("%w: '%v' is not a directory", ErrInvalidPath, path)
	}
	return filepath.Clean(path), nil
}
