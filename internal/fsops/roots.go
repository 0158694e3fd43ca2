package fsops

import (
	"os"
	"sync"

	"github.com/openpaw/openpaw/internal/safety"
)

var (
	rootOnce    sync.Once
	absRoot     string
	initRootErr error
	configured  string
)

// Configure sets the storage root before first use. Wiring calls this with
// the configured files root; when never called, OPENPAW_FILES_ROOT or the
// working directory applies. Calls after first use have no effect.
func Configure(root string) {
	configured = root
}

func initRoot() {
	root := configured
	if root == "" {
		root = os.Getenv("OPENPAW_FILES_ROOT")
	}
	absRoot, initRootErr = safety.InitStorageRoot(root)
}

// storageRoot returns the cached absolute storage root, initialising it once.
func storageRoot() (string, error) {
	rootOnce.Do(initRoot)
	return absRoot, initRootErr
}
