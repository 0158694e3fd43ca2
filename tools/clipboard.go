package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openpaw/openpaw/internal/device"
)

type ClipboardInput struct {
	Action string `json:"action" jsonschema_description:"Action: 'copy' (write to clipboard) or 'paste' (read from clipboard)."`
	Text   string `json:"text,omitempty" jsonschema_description:"Text to copy. Required for 'copy'."`
}

// Clipboard copies text to the device clipboard or reads what is there.
func Clipboard(cb device.Clipboard) Definition {
	return Definition{
		Name:        "clipboard",
		Description: "Copy text to the clipboard ('copy') or read the current clipboard content ('paste').",
		InputSchema: GenerateSchema[ClipboardInput](),
		Execute: func(ctx context.Context, input json.RawMessage) (Result, error) {
			var in ClipboardInput
			if err := json.Unmarshal(input, &in); err != nil {
				return Result{}, err
			}

			switch strings.ToLower(in.Action) {
			case "copy":
				if in.Text == "" {
					return fail(fmt.Errorf("missing 'text' for copy"))
				}
				if err := cb.Copy(ctx, in.Text); err != nil {
					return fail(err)
				}
				preview := in.Text
				if r := []rune(preview); len(r) > 120 {
					preview = string(r[:120]) + "…"
				}
				return ok(fmt.Sprintf("Copied to clipboard: %q", preview))

			case "paste":
				text, err := cb.Paste(ctx)
				if err != nil {
					return fail(err)
				}
				if text == "" {
					return ok("Clipboard is empty.")
				}
				return ok("Clipboard content:\n" + text)

			default:
				return fail(fmt.Errorf("unknown action %q; use copy or paste", in.Action))
			}
		},
	}
}
