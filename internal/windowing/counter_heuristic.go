package windowing

import (
	"unicode/utf8"

	"github.com/openpaw/openpaw/internal/llm"
)

// TokenCounter estimates input-token cost for messages or groups.
type TokenCounter interface {
	CountMessage(m llm.Message) int
	CountGroup(g Group, all []llm.Message) int
}

// HeuristicCounter is the default deterministic estimator: rune counts of
// content and tool-call arguments plus a small fixed overhead per message.
// Deliberately cheap; it only has to be stable and roughly proportional.
type HeuristicCounter struct{}

// Fixed per-message overhead for deterministic counts; changing this
// requires updating the guard test.
const messageOverhead = 4

func (HeuristicCounter) CountMessage(m llm.Message) int {
	total := utf8.RuneCountInString(m.Content) + messageOverhead
	for _, tc := range m.ToolCalls {
		total += utf8.RuneCountInString(tc.Name) + utf8.RuneCountInString(string(tc.Args))
	}
	return total
}

func (h HeuristicCounter) CountGroup(g Group, all []llm.Message) int {
	total := 0
	for i := g.Start; i < g.End && i < len(all); i++ {
		total += h.CountMessage(all[i])
	}
	return total
}
