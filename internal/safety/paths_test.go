package safety_test

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/openpaw/openpaw/internal/safety"
)

func TestValidateRelPath_BasicRejections(t *testing.T) {
	root := t.TempDir()

	// Absolute path should be rejected (OS-independent)
	abs, err := filepath.Abs(".")
	if err != nil {
		t.Skipf("cannot compute absolute path: %v", err)
	}
	if _, err := safety.ValidateRelPath(root, abs); err == nil {
		t.Fatal("expected error for absolute path")
	}

	// Parent traversal should be rejected
	if _, err := safety.ValidateRelPath(root, "../../x"); err == nil {
		t.Fatal("expected error for parent traversal")
	}
}

func TestValidateRelPath_ReservedDirDenied(t *testing.T) {
	root := t.TempDir()
	_ = os.MkdirAll(filepath.Join(root, ".openpaw", "sub"), 0o755)

	cases := []string{
		".openpaw",
		".openpaw/assistant.db",
		".openpaw/events.jsonl",
		".openpaw/sub/x.txt",
	}
	for _, rel := range cases {
		if _, err := safety.ValidateRelPath(root, rel); err == nil {
			t.Fatalf("expected deny for %q", rel)
		} else if !strings.Contains(err.Error(), "ERR_DENIED") {
			t.Fatalf("expected ERR_DENIED for %q, got: %v", rel, err)
		}
	}
}

func TestValidateRelPath_SymlinkEscape(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()

	if runtime.GOOS == "windows" {
		t.Skip("symlink test skipped on Windows")
	}
	link := filepath.Join(root, "out")
	if err := os.Symlink(outside, link); err != nil {
		t.Skipf("symlink not allowed on this FS: %v", err)
	}

	if _, err := safety.ValidateRelPath(root, "out/escape.txt"); err == nil {
		t.Fatal("expected reject for symlink escape")
	}
}

func TestValidateWritePath_RefusesRoot(t *testing.T) {
	root := t.TempDir()
	// Normalize root to avoid /var vs /private/var mismatches on macOS
	if r, err := filepath.EvalSymlinks(root); err == nil {
		root = r
	}

	if _, err := safety.ValidateWritePath(root, "."); err == nil {
		t.Fatal("expected deny for writing the root itself")
	}
}

func TestValidateWritePath_AllowNormal(t *testing.T) {
	root := t.TempDir()
	if r, err := filepath.EvalSymlinks(root); err == nil {
		root = r
	}
	_ = os.MkdirAll(filepath.Join(root, "notes", "work"), 0o755)

	p, err := safety.ValidateWritePath(root, "notes/work/todo.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(p, root+string(filepath.Separator)) {
		t.Fatalf("resolved path %q not under root %q", p, root)
	}
}

func TestInitStorageRoot_DefaultsToCwd(t *testing.T) {
	got, err := safety.InitStorageRoot("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Fatalf("expected absolute root, got %q", got)
	}
}
