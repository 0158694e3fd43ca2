package windowing

import "github.com/openpaw/openpaw/internal/llm"

// Stats summarizes the result of window preparation.
type Stats struct {
	Total            int // estimated tokens for included groups only
	Budget           int
	IncludedGroups   int
	SkippedGroups    int
	OverBudgetNewest bool // the newest group alone exceeds Budget
}

// PrepareSendWindow returns a subslice of msgs (oldest to newest) that fits
// within budget, without splitting groups.
//
// Rules:
//   - Include whole groups scanning newest to oldest while total stays
//     within budget.
//   - If the newest group alone exceeds budget, return an empty window and
//     set OverBudgetNewest.
//   - If budget <= 0, return an empty window.
func PrepareSendWindow(msgs []llm.Message, budget int, c TokenCounter) ([]llm.Message, Stats) {
	if len(msgs) == 0 {
		return nil, Stats{Budget: budget}
	}

	groups := GroupBlocks(msgs)

	if budget <= 0 {
		return nil, Stats{
			Budget:           budget,
			SkippedGroups:    len(groups),
			OverBudgetNewest: len(groups) > 0,
		}
	}

	total := 0
	included := 0
	startIdx := len(groups)

	for gi := len(groups) - 1; gi >= 0; gi-- {
		cost := c.CountGroup(groups[gi], msgs)
		if included == 0 && cost > budget {
			return nil, Stats{
				Budget:           budget,
				SkippedGroups:    len(groups),
				OverBudgetNewest: true,
			}
		}
		if total+cost > budget {
			break
		}
		total += cost
		included++
		startIdx = gi
	}

	if included == 0 {
		return nil, Stats{Budget: budget, SkippedGroups: len(groups)}
	}

	window := msgs[groups[startIdx].Start:]
	return window, Stats{
		Total:          total,
		Budget:         budget,
		IncludedGroups: included,
		SkippedGroups:  len(groups) - included,
	}
}
