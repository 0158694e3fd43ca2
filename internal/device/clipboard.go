package device

import (
	"context"

	"github.com/atotto/clipboard"
)

// LocalClipboard uses the host machine's clipboard instead of the bridge.
// Used when the assistant runs on a desktop rather than alongside the
// companion app.
type LocalClipboard struct{}

func (LocalClipboard) Copy(_ context.Context, text string) error {
	return clipboard.WriteAll(text)
}

func (LocalClipboard) Paste(_ context.Context) (string, error) {
	return clipboard.ReadAll()
}
