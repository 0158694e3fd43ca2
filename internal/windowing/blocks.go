package windowing

import (
	"go.uber.org/zap"

	"github.com/openpaw/openpaw/internal/llm"
	"github.com/openpaw/openpaw/internal/log"
)

// GroupKind denotes the atomic unit type when preparing a send window.
type GroupKind int

const (
	GroupSingleton GroupKind = iota
	GroupToolRound
)

// Group describes a contiguous span of messages [Start, End) in the
// original slice. A tool round is an assistant message carrying tool calls
// plus the tool-result messages that answer them; it must never be split,
// or providers reject the transcript.
type Group struct {
	Kind  GroupKind
	Start int // inclusive index into msgs
	End   int // exclusive index into msgs
}

// GroupBlocks groups messages into atomic units that preserve tool rounds.
// Invariants:
//   - A tool round is an assistant message with tool calls followed
//     immediately by tool messages, one per call.
//   - Every call id must be answered, in any order, with no extras.
//   - Anything that fails validation degrades to singletons.
func GroupBlocks(msgs []llm.Message) []Group {
	groups := make([]Group, 0, len(msgs))
	for i := 0; i < len(msgs); {
		m := msgs[i]
		if m.Role == llm.RoleAssistant && len(m.ToolCalls) > 0 {
			if end, ok := toolRoundEnd(msgs, i); ok {
				groups = append(groups, Group{Kind: GroupToolRound, Start: i, End: end})
				i = end
				continue
			}
			log.Debug("tool round incomplete, grouping as singleton", zap.Int("index", i))
		}
		groups = append(groups, Group{Kind: GroupSingleton, Start: i, End: i + 1})
		i++
	}
	return groups
}

// toolRoundEnd validates the tool messages following the assistant message
// at index i. It returns the exclusive end index of the round when every
// call id is answered exactly once and nothing extra appears.
func toolRoundEnd(msgs []llm.Message, i int) (int, bool) {
	want := make(map[string]struct{}, len(msgs[i].ToolCalls))
	for _, tc := range msgs[i].ToolCalls {
		if tc.ID == "" {
			return 0, false
		}
		want[tc.ID] = struct{}{}
	}

	j := i + 1
	for j < len(msgs) && msgs[j].Role == llm.RoleTool {
		if _, ok := want[msgs[j].ToolCallID]; !ok {
			return 0, false // extra or duplicate result
		}
		delete(want, msgs[j].ToolCallID)
		j++
	}
	if len(want) != 0 {
		return 0, false // unanswered call
	}
	return j, true
}
