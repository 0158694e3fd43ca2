package telemetry

import (
	"context"

	"github.com/openpaw/openpaw/internal/metrics"
)

// EmitLocalFeatures records cheap size features of the user's input so turn
// cost can be correlated with input shape without persisting the text itself.
func EmitLocalFeatures(ctx context.Context, user string) {
	if !ObserveEnabled() {
		return
	}
	turnID, _ := TurnIDFromContext(ctx)
	f := metrics.CountFeatures(user)
	Emit("local_features", map[string]any{
		"turn_id": turnID,
		"bytes":   f.Bytes,
		"runes":   f.Runes,
		"words":   f.Words,
		"lines":   f.Lines,
	})
}
