// Package engine runs the agent loop: persist the user's message, ask the
// model, execute the tools it requests, and repeat until it produces a
// final answer or hits the reasoning ceiling.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openpaw/openpaw/internal/llm"
	"github.com/openpaw/openpaw/internal/log"
	"github.com/openpaw/openpaw/internal/prompt"
	"github.com/openpaw/openpaw/internal/settings"
	"github.com/openpaw/openpaw/internal/telemetry"
	"github.com/openpaw/openpaw/internal/windowing"
	"github.com/openpaw/openpaw/store"
	"github.com/openpaw/openpaw/tools"
)

// degradedReply is what the user sees when a task would not converge.
const degradedReply = "That task needed too many steps. Please try a simpler request."

// ErrReasoningLimit is returned together with the degraded Reply when a
// turn hits the step ceiling. Callers that only care about the user-facing
// text can ignore it.
var ErrReasoningLimit = errors.New("reasoning step limit exceeded")

// PersistenceError wraps a storage failure that aborted a turn.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Reply is the outcome of one user turn.
type Reply struct {
	Text     string
	Provider string // canonical id of the backend that produced the final text
	Degraded bool   // true when the reasoning ceiling cut the turn short

	// Confirmations names tools that staged an action still awaiting the
	// user's confirmation on the device.
	Confirmations []string
}

// Engine coordinates the model, the tools, and the stores.
type Engine struct {
	provider llm.Provider
	registry *tools.Registry
	conv     store.ConversationStore
	memories store.MemoryStore
	settings *settings.Store

	mu       sync.Mutex
	sessions map[string]*sync.Mutex
}

// New wires an engine. provider is normally the router, but tests pass
// stubs.
func New(provider llm.Provider, registry *tools.Registry, conv store.ConversationStore, memories store.MemoryStore, st *settings.Store) *Engine {
	return &Engine{
		provider: provider,
		registry: registry,
		conv:     conv,
		memories: memories,
		settings: st,
		sessions: make(map[string]*sync.Mutex),
	}
}

// sessionLock returns the mutex serializing turns for one session.
// Different sessions proceed concurrently.
func (e *Engine) sessionLock(sessionID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	m, found := e.sessions[sessionID]
	if !found {
		m = &sync.Mutex{}
		e.sessions[sessionID] = m
	}
	return m
}

// HandleUserMessage runs one full agent turn for the session.
//
// When the reasoning ceiling is hit, the returned Reply is still non-nil
// (the degraded text, already persisted) and err is ErrReasoningLimit.
func (e *Engine) HandleUserMessage(ctx context.Context, sessionID, text string) (*Reply, error) {
	lock := e.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	snap := e.settings.Snapshot()

	turnID := "turn-" + uuid.NewString()
	ctx = telemetry.WithTurnID(ctx, turnID)
	telemetry.Emit("turn_start", map[string]any{
		"turn_id": turnID,
		"session": sessionID,
	})
	telemetry.EmitLocalFeatures(ctx, text)

	if _, err := e.conv.Append(ctx, store.Message{
		SessionID: sessionID,
		Role:      store.RoleUser,
		Content:   text,
	}); err != nil {
		return nil, &PersistenceError{Op: "append user message", Err: err}
	}

	memories, err := e.memories.All(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "load memories", Err: err}
	}
	system := prompt.Build(snap.Persona, memories)

	conv, err := e.loadHistory(ctx, sessionID, snap.HistoryLimit)
	if err != nil {
		return nil, &PersistenceError{Op: "load history", Err: err}
	}

	specs := e.registry.Specs()
	counter := windowing.HeuristicCounter{}
	var confirmations []string

	for step := 0; step < snap.MaxSteps; step++ {
		window, stats := windowing.PrepareSendWindow(conv, snap.TokenBudget, counter)
		if stats.OverBudgetNewest {
			return nil, fmt.Errorf("conversation window: newest messages exceed the token budget")
		}
		telemetry.Emit("window_prepared", map[string]any{
			"turn_id":         turnID,
			"step":            step,
			"budget":          stats.Budget,
			"total_estimated": stats.Total,
			"included_groups": stats.IncludedGroups,
			"skipped_groups":  stats.SkippedGroups,
		})

		turn, err := e.provider.Generate(ctx, llm.Request{
			System:   system,
			Messages: window,
			Tools:    specs,
		})
		if err != nil {
			return nil, err
		}

		if turn.Final() {
			if _, err := e.conv.Append(ctx, store.Message{
				SessionID: sessionID,
				Role:      store.RoleAssistant,
				Content:   turn.Text,
			}); err != nil {
				return nil, &PersistenceError{Op: "append assistant message", Err: err}
			}
			telemetry.Emit("turn_done", map[string]any{
				"turn_id":  turnID,
				"provider": turn.Provider,
				"steps":    step + 1,
			})
			return &Reply{Text: turn.Text, Provider: turn.Provider, Confirmations: confirmations}, nil
		}

		conv = append(conv, llm.Message{
			Role:      llm.RoleAssistant,
			Content:   turn.Text,
			ToolCalls: turn.ToolCalls,
		})

		for _, call := range turn.ToolCalls {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			result := e.runTool(ctx, call)
			// A dispatched tool may finish, but once cancelled its result
			// is not acted on further.
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if result.NeedsConfirmation {
				confirmations = append(confirmations, call.Name)
			}

			content := result.JSON()
			if _, err := e.conv.Append(ctx, store.Message{
				SessionID: sessionID,
				Role:      store.RoleTool,
				Content:   content,
				ToolName:  call.Name,
			}); err != nil {
				return nil, &PersistenceError{Op: "append tool result", Err: err}
			}
			conv = append(conv, llm.Message{
				Role:       llm.RoleTool,
				Content:    content,
				ToolCallID: call.ID,
				ToolName:   call.Name,
			})
		}
	}

	if _, err := e.conv.Append(ctx, store.Message{
		SessionID: sessionID,
		Role:      store.RoleAssistant,
		Content:   degradedReply,
	}); err != nil {
		return nil, &PersistenceError{Op: "append degraded reply", Err: err}
	}
	telemetry.Emit("turn_done", map[string]any{
		"turn_id":  turnID,
		"steps":    snap.MaxSteps,
		"degraded": true,
	})
	return &Reply{Text: degradedReply, Degraded: true, Confirmations: confirmations}, ErrReasoningLimit
}

// runTool dispatches one call. Registry-level failures (unknown tool, bad
// arguments) become tool results the model can read and recover from; they
// never abort the turn.
func (e *Engine) runTool(ctx context.Context, call llm.ToolCall) tools.Result {
	res, err := e.registry.Invoke(ctx, call.Name, call.Args)
	if err != nil {
		log.Warn("tool dispatch failed",
			zap.String("tool", call.Name), zap.Error(err))
		return tools.Result{Success: false, Err: err.Error()}
	}
	return res
}

// loadHistory converts the newest persisted user/assistant exchanges into
// the model conversation. Tool messages belong to past turns' internals
// and stay out of fresh context.
func (e *Engine) loadHistory(ctx context.Context, sessionID string, limit int) ([]llm.Message, error) {
	msgs, err := e.conv.Recent(ctx, sessionID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]llm.Message, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case store.RoleUser:
			out = append(out, llm.Message{Role: llm.RoleUser, Content: m.Content})
		case store.RoleAssistant:
			out = append(out, llm.Message{Role: llm.RoleAssistant, Content: m.Content})
		}
	}
	return out, nil
}

// ListSessions lists known session ids, most recently active first.
func (e *Engine) ListSessions(ctx context.Context) ([]string, error) {
	return e.conv.SessionIDs(ctx)
}

// Previews returns the first user message of each session, newest session
// first, for a session picker.
func (e *Engine) Previews(ctx context.Context) ([]store.Message, error) {
	return e.conv.Previews(ctx)
}

// ClearSession wipes one session's transcript.
func (e *Engine) ClearSession(ctx context.Context, sessionID string) error {
	return e.conv.Clear(ctx, sessionID)
}
