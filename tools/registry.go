package tools

import (
	"context"
	"encoding/json"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/openpaw/openpaw/internal/llm"
	"github.com/openpaw/openpaw/internal/log"
	"github.com/openpaw/openpaw/internal/telemetry"
)

// Registry holds the wired tool definitions in a stable order, which is
// also the order they are advertised to the model.
type Registry struct {
	defs  []Definition
	index map[string]int
}

// NewRegistry builds a registry from definitions. Duplicate names keep the
// first occurrence.
func NewRegistry(defs ...Definition) *Registry {
	r := &Registry{index: make(map[string]int, len(defs))}
	for _, d := range defs {
		if _, dup := r.index[d.Name]; dup {
			continue
		}
		r.index[d.Name] = len(r.defs)
		r.defs = append(r.defs, d)
	}
	return r
}

// Specs returns the tool descriptions to advertise to the model.
func (r *Registry) Specs() []llm.ToolSpec {
	out := make([]llm.ToolSpec, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, llm.ToolSpec{
			Name:        d.Name,
			Description: d.Description,
			Properties:  d.InputSchema.Properties,
			Required:    d.InputSchema.Required,
		})
	}
	return out
}

// NeedsConfirmation reports whether the named tool is flagged to require
// user confirmation before it acts.
func (r *Registry) NeedsConfirmation(name string) bool {
	if i, found := r.index[name]; found {
		return r.defs[i].NeedsConfirmation
	}
	return false
}

// Invoke validates args against the tool's schema and runs it.
//
// Validation is deliberately loose: required fields must be present, and
// unknown extra fields are logged and ignored rather than rejected. Models
// pad arguments often enough that strictness would fail real requests.
func (r *Registry) Invoke(ctx context.Context, name string, args json.RawMessage) (Result, error) {
	i, found := r.index[name]
	if !found {
		return Result{}, &UnknownToolError{Name: name}
	}
	def := r.defs[i]

	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	if !gjson.ValidBytes(args) {
		return Result{}, &InvalidArgumentsError{Tool: name, Reason: "arguments are not valid JSON"}
	}
	parsed := gjson.ParseBytes(args)
	if !parsed.IsObject() {
		return Result{}, &InvalidArgumentsError{Tool: name, Reason: "arguments must be a JSON object"}
	}
	for _, req := range def.InputSchema.Required {
		if !parsed.Get(req).Exists() {
			return Result{}, &InvalidArgumentsError{Tool: name, Reason: "missing required field " + req}
		}
	}
	if def.InputSchema.Properties != nil {
		parsed.ForEach(func(key, _ gjson.Result) bool {
			if _, known := def.InputSchema.Properties.Get(key.String()); !known {
				log.Debug("ignoring unknown tool argument",
					zap.String("tool", name), zap.String("field", key.String()))
			}
			return true
		})
	}

	turnID, _ := telemetry.TurnIDFromContext(ctx)
	start := time.Now()
	res, err := def.Execute(ctx, args)
	if err != nil {
		telemetry.Emit("tool_exec", map[string]any{
			"turn_id":     turnID,
			"tool_name":   name,
			"duration_ms": time.Since(start).Milliseconds(),
			"error":       "invalid arguments",
		})
		return Result{}, &InvalidArgumentsError{Tool: name, Reason: err.Error()}
	}

	fields := map[string]any{
		"turn_id":     turnID,
		"tool_name":   name,
		"duration_ms": time.Since(start).Milliseconds(),
		"success":     res.Success,
		"output_size": len(res.Output),
	}
	if !res.Success {
		// Generic marker only; the detailed message stays in the transcript.
		fields["error"] = "tool error"
	}
	telemetry.Emit("tool_exec", fields)
	return res, nil
}
