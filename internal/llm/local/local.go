// Package local is the offline fallback provider. It recognises a handful
// of intents with plain string rules and answers everything else with an
// honest "can't reach a model" reply. It never fails: when every remote
// backend is down the engine still produces a turn.
package local

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/openpaw/openpaw/internal/llm"
	"github.com/openpaw/openpaw/internal/settings"
)

// Provider is the rule-based offline backend.
type Provider struct{}

func New() *Provider { return &Provider{} }

func (p *Provider) Name() string { return settings.ProviderLocal }

var alarmTime = regexp.MustCompile(`\b([01]?\d|2[0-3]):([0-5]\d)\b`)

// Generate never returns an error. The latest user message is matched
// against intent rules; anything unmatched gets a canned final answer.
func (p *Provider) Generate(_ context.Context, req llm.Request) (*llm.Turn, error) {
	user := latestUserText(req.Messages)

	// A tool result arriving back means a rule already fired this turn;
	// surface its output and stop rather than loop.
	if last := lastToolResult(req.Messages); user == "" || last != "" {
		text := "Done. (offline mode)"
		if out := gjson.Get(last, "output").String(); out != "" {
			text = out + "\n(offline mode)"
		}
		return &llm.Turn{Text: text}, nil
	}

	lower := strings.ToLower(user)

	if rest, ok := strings.CutPrefix(lower, "remember "); ok {
		return memoryTurn(strings.TrimSpace(rest)), nil
	}
	if strings.Contains(lower, "what do you remember") || strings.HasPrefix(lower, "recall") {
		return toolTurn("manage_memory", map[string]any{"action": "list"}), nil
	}
	if strings.Contains(lower, "alarm") {
		if m := alarmTime.FindStringSubmatch(user); m != nil {
			hour, _ := strconv.Atoi(m[1])
			minutes, _ := strconv.Atoi(m[2])
			return toolTurn("set_alarm", map[string]any{"hour": hour, "minutes": minutes}), nil
		}
	}
	if rest, ok := strings.CutPrefix(lower, "open "); ok {
		app := strings.TrimSpace(rest)
		if app != "" {
			return toolTurn("open_app", map[string]any{"app_name": app}), nil
		}
	}

	return &llm.Turn{
		Text: "I can't reach a language model right now, so I can only handle simple requests like \"remember ...\", \"open <app>\", or setting an alarm. Please try again once you're back online.",
	}, nil
}

func memoryTurn(fact string) *llm.Turn {
	key := fact
	if len(key) > 48 {
		key = key[:48]
	}
	return toolTurn("manage_memory", map[string]any{
		"action": "remember",
		"key":    key,
		"value":  fact,
	})
}

func toolTurn(name string, args map[string]any) *llm.Turn {
	raw := "{}"
	for k, v := range args {
		raw, _ = sjson.Set(raw, k, v)
	}
	return &llm.Turn{ToolCalls: []llm.ToolCall{{
		ID:   "local_" + uuid.NewString(),
		Name: name,
		Args: []byte(raw),
	}}}
}

func latestUserText(msgs []llm.Message) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == llm.RoleUser {
			return msgs[i].Content
		}
	}
	return ""
}

// lastToolResult returns the content of the trailing tool message, or ""
// when the conversation does not end in one.
func lastToolResult(msgs []llm.Message) string {
	if len(msgs) > 0 && msgs[len(msgs)-1].Role == llm.RoleTool {
		return msgs[len(msgs)-1].Content
	}
	return ""
}
