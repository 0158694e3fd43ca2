package fsops_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/openpaw/openpaw/internal/fsops"
)

var sharedDir string

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "fsops-tests-")
	if err != nil {
		panic(err)
	}
	_ = os.Setenv("OPENPAW_FILES_ROOT", dir)
	sharedDir = dir

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

// Helper to create per-test relative paths
func rel(t *testing.T, elems ...string) string {
	return filepath.Join(append([]string{t.Name()}, elems...)...)
}

func TestWriteThenRead_RoundTrip(t *testing.T) {
	p := rel(t, "note.txt")
	if err := fsops.WriteFile(p, "milk, eggs\n"); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := fsops.ReadFile(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got != "milk, eggs\n" {
		t.Fatalf("content mismatch: %q", got)
	}
}

func TestWriteFile_CreatesParents(t *testing.T) {
	p := rel(t, "a", "b", "c.txt")
	if err := fsops.WriteFile(p, "x"); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := os.Stat(filepath.Join(sharedDir, p)); err != nil {
		t.Fatalf("expected file on disk: %v", err)
	}
}

func TestReadFile_DirectoryRejected(t *testing.T) {
	p := rel(t, "somedir")
	if err := os.MkdirAll(filepath.Join(sharedDir, p), 0o755); err != nil {
		t.Fatalf("prep: %v", err)
	}
	if _, err := fsops.ReadFile(p); err == nil {
		t.Fatal("expected error reading a directory")
	} else if !strings.Contains(err.Error(), "ERR_NOT_A_FILE") {
		t.Fatalf("expected ERR_NOT_A_FILE, got: %v", err)
	}
}

func TestReadFile_PolicyViolation(t *testing.T) {
	if _, err := fsops.ReadFile("../outside.txt"); err == nil {
		t.Fatal("expected sandbox violation")
	}
}

func TestListEntries_SortedWithSizes(t *testing.T) {
	base := rel(t)
	if err := fsops.WriteFile(filepath.Join(base, "b.txt"), "22"); err != nil {
		t.Fatalf("prep: %v", err)
	}
	if err := fsops.WriteFile(filepath.Join(base, "a.txt"), "1"); err != nil {
		t.Fatalf("prep: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(sharedDir, base, "sub"), 0o755); err != nil {
		t.Fatalf("prep: %v", err)
	}

	entries, err := fsops.ListEntries(base)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d: %+v", len(entries), entries)
	}
	if entries[0].Name != "a.txt" || entries[0].Size != 1 || entries[0].Dir {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].Name != "b.txt" || entries[1].Size != 2 {
		t.Fatalf("unexpected second entry: %+v", entries[1])
	}
	if entries[2].Name != "sub" || !entries[2].Dir {
		t.Fatalf("unexpected third entry: %+v", entries[2])
	}
}

func TestDeleteFile_FileOnly(t *testing.T) {
	p := rel(t, "gone.txt")
	if err := fsops.WriteFile(p, "x"); err != nil {
		t.Fatalf("prep: %v", err)
	}
	if err := fsops.DeleteFile(p); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := fsops.ReadFile(p); err == nil {
		t.Fatal("expected file to be gone")
	}

	d := rel(t, "dir")
	if err := os.MkdirAll(filepath.Join(sharedDir, d), 0o755); err != nil {
		t.Fatalf("prep: %v", err)
	}
	if err := fsops.DeleteFile(d); err == nil {
		t.Fatal("expected refusal to delete a directory")
	}
}
