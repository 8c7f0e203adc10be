package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ExpandPath resolves a file argument. A leading "~/" is replaced by the home
// directory; glob metacharacters are expanded and the matches sorted. A
// pattern with no matches, or a plain path that does not exist, is an error.
func ExpandPath(arg string) ([]string, error) {
	if arg == "" {
		return nil, fmt.Errorf("empty path")
	}
	path, err := expandHome(arg)
	if err != nil {
		return nil, err
	}

	if !strings.ContainsAny(path, "*?[") {
		if _, err := os.Stat(path); err != nil {
			return nil, err
		}
		return []string{path}, nil
	}

	matches, err := filepath.Glob(path)
	if err != nil {
		return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no matches for pattern %q", arg)
	}
	sort.Strings(matches)
	return matches, nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expanding %q: %w", path, err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
