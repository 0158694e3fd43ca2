package tools

import (
	"context"
	"encoding/json"

	"github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Result is what a tool reports back to the model. Err is set (and Success
// false) when the tool ran but the action failed; the model sees the
// message and can try another route.
type Result struct {
	Success bool   `json:"success"`
	Output  string `json:"output,omitempty"`
	Err     string `json:"error,omitempty"`

	// NeedsConfirmation marks results where the action was staged but the
	// user still has to confirm it on the device.
	NeedsConfirmation bool `json:"needs_confirmation,omitempty"`
}

func ok(output string) (Result, error) {
	return Result{Success: true, Output: output}, nil
}

func fail(err error) (Result, error) {
	return Result{Success: false, Err: err.Error()}, nil
}

// JSON renders the result for the conversation transcript.
func (r Result) JSON() string {
	b, err := json.Marshal(r)
	if err != nil {
		return `{"success":false,"error":"unencodable tool result"}`
	}
	return string(b)
}

// InputSchema is the derived JSON schema of a tool's argument object.
type InputSchema struct {
	Properties *orderedmap.OrderedMap[string, *jsonschema.Schema]
	Required   []string
}

// Definition binds a tool name to its schema and handler.
//
// Execute returns a non-nil error only when the arguments could not be
// decoded; anything that goes wrong while acting belongs in the Result so
// the model can read it.
type Definition struct {
	Name              string
	Description       string
	InputSchema       InputSchema
	NeedsConfirmation bool
	Execute           func(ctx context.Context, input json.RawMessage) (Result, error)
}

// GenerateSchema derives an InputSchema from a Go struct type.
// jsonschema_description tags become property descriptions; fields without
// omitempty are required.
func GenerateSchema[T any]() InputSchema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	schema := reflector.Reflect(v)
	return InputSchema{
		Properties: schema.Properties,
		Required:   schema.Required,
	}
}
