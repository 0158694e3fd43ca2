package fsops

import (
	"os"
	"path/filepath"

	"github.com/openpaw/openpaw/internal/safety"
)

// WriteFile writes content to a file addressed by a relative path under the
// storage root. It validates the path via safety and creates parent
// directories as needed.
func WriteFile(relPath, content string) error {
	root, err := storageRoot()
	if err != nil {
		return err
	}

	absPath, err := safety.ValidateWritePath(root, relPath)
	if err != nil {
		return err // propagate ToolError unchanged
	}

	dir := filepath.Dir(absPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	return os.WriteFile(absPath, []byte(content), 0o644)
}

// DeleteFile removes a single file under the storage root. Directories are
// refused so a bad model call cannot wipe a whole subtree.
func DeleteFile(relPath string) error {
	root, err := storageRoot()
	if err != nil {
		return err
	}

	absPath, err := safety.ValidateWritePath(root, relPath)
	if err != nil {
		return err
	}

	fi, err := os.Stat(absPath)
	if err != nil {
		return err
	}
	if fi.IsDir() {
		return safety.ToolError{Code: "ERR_NOT_A_FILE", Message: "path is a directory"}
	}
	return os.Remove(absPath)
}
