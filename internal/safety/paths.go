// Package safety provides helpers for sandboxed file access.
//
// The file_manager tool operates on relative paths inside a single storage
// root (the assistant's document area). Everything here exists to keep the
// model from reaching outside that root.
package safety

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ToolError is a machine-readable error body surfaced back to the model as JSON.
type ToolError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error returns a compact, single-line JSON string to keep tool outputs small.
func (e ToolError) Error() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// reservedDirs are path prefixes inside the storage root that tools may never
// touch: the conversation database and telemetry events live there.
var reservedDirs = []string{".openpaw"}

// InitStorageRoot resolves the absolute storage root for file tools.
// An empty root defaults to the current working directory.
func InitStorageRoot(root string) (string, error) {
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		root = cwd
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("abs(root): %w", err)
	}

	// Resolve symlinks where possible so later boundary checks are reliable.
	// If EvalSymlinks fails (e.g., not yet created), keep the absolute path.
	if r, err := filepath.EvalSymlinks(abs); err == nil {
		abs = r
	}
	return abs, nil
}

// ValidateRelPath resolves relPath against absRoot and returns an absolute
// path inside the sandbox. It rejects absolute inputs, parent traversal, and
// symlink escapes, and denies access under reserved directories. On violation
// it returns a ToolError.
func ValidateRelPath(absRoot, relPath string) (string, error) {
	// Reject absolute inputs early
	if filepath.IsAbs(relPath) {
		return "", ToolError{Code: "ERR_PATH_OUTSIDE_SANDBOX", Message: "absolute paths are not allowed"}
	}

	cleaned := filepath.Clean(relPath)
	if cleaned == "" {
		cleaned = "."
	}

	candidate := filepath.Join(absRoot, cleaned)

	// Best-effort symlink resolution.
	// 1) Resolve the whole candidate if it exists.
	// 2) Otherwise, resolve the deepest existing ancestor (the parent dir)
	//    and rejoin the final segment. This reveals escapes via a symlinked parent.
	if resolved, err := filepath.EvalSymlinks(candidate); err == nil {
		candidate = resolved
	} else {
		parent := filepath.Dir(candidate)
		if resolvedParent, err2 := filepath.EvalSymlinks(parent); err2 == nil {
			candidate = filepath.Join(resolvedParent, filepath.Base(candidate))
		}
	}

	// Boundary check using filepath.Rel (robust against partial prefix matches)
	rel, err := filepath.Rel(absRoot, candidate)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", ToolError{Code: "ERR_PATH_OUTSIDE_SANDBOX", Message: "requested path resolves outside the storage root"}
	}

	relClean := filepath.ToSlash(rel)
	for _, d := range reservedDirs {
		if relClean == d || strings.HasPrefix(relClean, d+"/") {
			return "", ToolError{Code: "ERR_DENIED", Message: "access under " + d + "/ is not allowed"}
		}
	}

	return candidate, nil
}

// ValidateWritePath is ValidateRelPath for writes. Writes share the read
// boundary rules; the split exists so write-specific denials have a home.
func ValidateWritePath(absRoot, relPath string) (string, error) {
	candidate, err := ValidateRelPath(absRoot, relPath)
	if err != nil {
		return "", err
	}
	// Refuse to clobber the root itself ("." resolves to the root dir).
	if candidate == absRoot {
		return "", ToolError{Code: "ERR_DENIED", Message: "refusing to write the storage root itself"}
	}
	return candidate, nil
}
