package config

import (
	"os"
	"path/filepath"
)

// FindConfig searches for .tsel/config.yaml starting from dir and walking up.
// An empty dir means the current working directory.
func FindConfig(dir string) (string, error) {
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return "", err
		}
	}

	root, ok := findConfigRoot(dir)
	if !ok {
		return "", os.ErrNotExist
	}
	return filepath.Join(root, DirName, FileName), nil
}

// findConfigRoot walks up from dir looking for a directory holding
// .tsel/config.yaml.
func findConfigRoot(dir string) (string, bool) {
	home, _ := os.UserHomeDir()

	for {
		candidate := filepath.Join(dir, DirName, FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return dir, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break // Reached filesystem root
		}
		// Don't go above home directory
		if home != "" && dir == home {
			break
		}
		dir = parent
	}
	return "", false
}
