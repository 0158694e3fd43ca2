package fsops

import (
	"os"
	"sort"

	"github.com/openpaw/openpaw/internal/safety"
)

// Entry describes one directory entry in a listing.
type Entry struct {
	Name string
	Dir  bool
	Size int64
}

// ListEntries lists non-recursive directory entries for a relative directory
// path under the storage root, sorted by name for deterministic output.
func ListEntries(relDir string) ([]Entry, error) {
	root, err := storageRoot()
	if err != nil {
		return nil, err
	}

	if relDir == "" {
		relDir = "."
	}
	absDir, err := safety.ValidateRelPath(root, relDir)
	if err != nil {
		return nil, err
	}

	dirents, err := os.ReadDir(absDir)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(dirents))
	for _, de := range dirents {
		e := Entry{Name: de.Name(), Dir: de.IsDir()}
		if !e.Dir {
			if fi, err := de.Info(); err == nil {
				e.Size = fi.Size()
			}
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}
