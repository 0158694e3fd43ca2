package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openpaw/openpaw/internal/fsops"
)

type FileManagerInput struct {
	Action  string `json:"action" jsonschema_description:"Action: 'read', 'write', 'list', or 'delete'."`
	Path    string `json:"path,omitempty" jsonschema_description:"Relative path inside the assistant's storage folder. Required for read, write, and delete."`
	Content string `json:"content,omitempty" jsonschema_description:"File content to write. Required for 'write'."`
}

// FileManager reads, writes, lists, and deletes files inside the sandboxed
// storage folder. Path policy lives in fsops; violations come back as tool
// errors the model can read.
func FileManager() Definition {
	return Definition{
		Name:        "file_manager",
		Description: "Read, write, list, and delete files in the assistant's storage folder. Paths are relative to that folder.",
		InputSchema: GenerateSchema[FileManagerInput](),
		Execute: func(ctx context.Context, input json.RawMessage) (Result, error) {
			var in FileManagerInput
			if err := json.Unmarshal(input, &in); err != nil {
				return Result{}, err
			}

			switch strings.ToLower(in.Action) {
			case "read":
				if in.Path == "" {
					return fail(fmt.Errorf("missing 'path' for read"))
				}
				content, err := fsops.ReadFile(in.Path)
				if err != nil {
					return fail(err)
				}
				return ok(content)

			case "write":
				if in.Path == "" {
					return fail(fmt.Errorf("missing 'path' for write"))
				}
				if err := fsops.WriteFile(in.Path, in.Content); err != nil {
					return fail(err)
				}
				return ok(fmt.Sprintf("Wrote %d bytes to %s", len(in.Content), in.Path))

			case "list":
				entries, err := fsops.ListEntries(in.Path)
				if err != nil {
					return fail(err)
				}
				if len(entries) == 0 {
					return ok("Folder is empty.")
				}
				var b strings.Builder
				for _, e := range entries {
					if e.Dir {
						fmt.Fprintf(&b, "%s/\n", e.Name)
					} else {
						fmt.Fprintf(&b, "%s (%d bytes)\n", e.Name, e.Size)
					}
				}
				return ok(b.String())

			case "delete":
				if in.Path == "" {
					return fail(fmt.Errorf("missing 'path' for delete"))
				}
				if err := fsops.DeleteFile(in.Path); err != nil {
					return fail(err)
				}
				return ok("Deleted " + in.Path)

			default:
				return fail(fmt.Errorf("unknown action %q; use read, write, list, or delete", in.Action))
			}
		},
	}
}
