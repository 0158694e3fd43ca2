// Package router picks which provider serves each generation call. The
// preferred provider is read from settings on every call, so a settings
// change applies to the very next turn without a restart.
package router

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/openpaw/openpaw/internal/llm"
	"github.com/openpaw/openpaw/internal/log"
	"github.com/openpaw/openpaw/internal/settings"
	"github.com/openpaw/openpaw/internal/telemetry"
)

// Router is itself an llm.Provider: the engine talks to it exactly like a
// single backend.
type Router struct {
	store     *settings.Store
	providers map[string]llm.Provider
}

// New builds a router over the given backends, keyed by canonical provider
// id. Backends absent from the map are skipped during fallback.
func New(store *settings.Store, providers map[string]llm.Provider) *Router {
	return &Router{store: store, providers: providers}
}

func (r *Router) Name() string { return "router" }

// Generate tries the preferred provider, then the remaining providers in
// fixed fallback order. Only unavailability falls through; a malformed
// response propagates immediately because retrying elsewhere would hide a
// real defect.
func (r *Router) Generate(ctx context.Context, req llm.Request) (*llm.Turn, error) {
	snap := r.store.Snapshot()

	var lastErr error
	for _, id := range candidateOrder(snap.PreferredProvider) {
		if snap.Disabled(id) {
			log.Debug("provider disabled, skipping", zap.String("provider", id))
			continue
		}
		p, ok := r.providers[id]
		if !ok {
			continue
		}

		turn, err := p.Generate(ctx, req)
		if err == nil {
			turn.Provider = id
			turnID, _ := telemetry.TurnIDFromContext(ctx)
			telemetry.Emit("provider_answered", map[string]any{
				"turn_id":  turnID,
				"provider": id,
				"fallback": id != snap.PreferredProvider,
			})
			return turn, err
		}
		if !llm.IsUnavailable(err) {
			return nil, err
		}

		log.Warn("provider unavailable, falling back",
			zap.String("provider", id), zap.Error(err))
		lastErr = err
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no providers configured")
	}
	return nil, &llm.UnavailableError{Provider: "router", Err: lastErr}
}

// candidateOrder puts preferred first, then the fixed fallback order with
// the preferred entry deduplicated.
func candidateOrder(preferred string) []string {
	order := make([]string, 0, len(settings.FallbackOrder)+1)
	order = append(order, preferred)
	for _, id := range settings.FallbackOrder {
		if id != preferred {
			order = append(order, id)
		}
	}
	return order
}
