// Package security validates caller-influenced filesystem paths.
package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// forbidden holds shell metacharacters never accepted in a storage path.
var forbidden = []string{";", "&", "|", "$", "`", "<", ">", "!", "\n", "\r", "\x00"}

// ResolveInDir joins name onto baseDir and rejects any result that escapes
// baseDir, contains shell metacharacters, or resolves through a symlink
// pointing outside it.
func ResolveInDir(baseDir, name string) (string, error) {
	if baseDir == "" {
		return "", fmt.Errorf("base directory cannot be empty")
	}
	if name == "" {
		return "", fmt.Errorf("file path cannot be empty")
	}
	for _, c := range forbidden {
		if strings.Contains(name, c) {
			return "", fmt.Errorf("file path contains forbidden character %q", c)
		}
	}

	base, err := filepath.Abs(filepath.Clean(baseDir))
	if err != nil {
		return "", fmt.Errorf("failed to resolve base directory: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(base); err == nil {
		base = resolved
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to resolve base directory: %w", err)
	}

	target := filepath.Join(base, filepath.Clean(string(filepath.Separator)+name))
	if resolved, err := filepath.EvalSymlinks(target); err == nil {
		target = resolved
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to resolve file path: %w", err)
	}

	if target != base && !strings.HasPrefix(target, base+string(filepath.Separator)) {
		return "", fmt.Errorf("file path escapes base directory: %s", name)
	}
	return target, nil
}
