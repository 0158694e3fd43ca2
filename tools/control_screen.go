package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openpaw/openpaw/internal/device"
)

type ControlScreenInput struct {
	Action    string `json:"action" jsonschema_description:"What to do: 'read', 'click', 'input', 'scroll', 'swipe', 'tap', 'back', 'home'."`
	Target    string `json:"target,omitempty" jsonschema_description:"For 'click'/'tap': text or label of the element."`
	Text      string `json:"text,omitempty" jsonschema_description:"For 'input': the text to type."`
	Direction string `json:"direction,omitempty" jsonschema_description:"For 'scroll'/'swipe': 'up', 'down', 'left', 'right'."`
}

var controlScreenActions = map[string]bool{
	"read": true, "click": true, "input": true, "scroll": true,
	"swipe": true, "tap": true, "back": true, "home": true,
}

// ControlScreen reads and drives the device UI through the bridge's
// accessibility layer.
func ControlScreen(screen device.Screen) Definition {
	return Definition{
		Name: "control_screen",
		Description: "Read the current screen content or interact with UI elements: " +
			"read text, tap buttons, type into fields, and swipe, just like a human.",
		InputSchema: GenerateSchema[ControlScreenInput](),
		Execute: func(ctx context.Context, input json.RawMessage) (Result, error) {
			var in ControlScreenInput
			if err := json.Unmarshal(input, &in); err != nil {
				return Result{}, err
			}
			if !controlScreenActions[in.Action] {
				return fail(fmt.Errorf("unknown action %q; use read, click, input, scroll, swipe, tap, back, or home", in.Action))
			}
			if (in.Action == "click" || in.Action == "tap") && in.Target == "" {
				return fail(fmt.Errorf("provide 'target' (text of the element)"))
			}
			if in.Action == "input" && in.Text == "" {
				return fail(fmt.Errorf("provide 'text' to type"))
			}
			if (in.Action == "scroll" || in.Action == "swipe") && in.Direction == "" {
				in.Direction = "down"
			}

			desc, err := screen.Act(ctx, device.ScreenRequest{
				Action:    in.Action,
				Target:    in.Target,
				Text:      in.Text,
				Direction: in.Direction,
			})
			if err != nil {
				return fail(err)
			}
			return ok(desc)
		},
	}
}
