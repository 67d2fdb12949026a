package utils

import (
	"os"
	"path/filepath"

	"github.com/funvibe/implres/internal/config"
)

// GetModuleDir returns the directory context for a path.
// A declaration file or any other existing regular file yields its directory;
// anything else is taken as a directory itself.
func GetModuleDir(path string) string {
	if config.IsDeclarationFile(path) {
		return filepath.Dir(path)
	}
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return filepath.Dir(path)
	}
	return path
}
