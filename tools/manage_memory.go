package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openpaw/openpaw/store"
)

type ManageMemoryInput struct {
	Action   string `json:"action" jsonschema_description:"One of: 'remember', 'recall', 'forget', 'list'."`
	Key      string `json:"key,omitempty" jsonschema_description:"The memory key (short identifier, e.g. 'user_name', 'favorite_music')."`
	Value    string `json:"value,omitempty" jsonschema_description:"Value to store (required for 'remember')."`
	Category string `json:"category,omitempty" jsonschema_description:"Category for organizing memories: 'personal', 'preferences', 'work', 'general' (default)."`
}

// ManageMemory stores, retrieves, and deletes facts that persist across
// conversations.
func ManageMemory(mem store.MemoryStore) Definition {
	return Definition{
		Name: "manage_memory",
		Description: "Store, retrieve, or delete facts about the user that should persist across " +
			"conversations. Use this to remember user preferences, important info, etc.",
		InputSchema: GenerateSchema[ManageMemoryInput](),
		Execute: func(ctx context.Context, input json.RawMessage) (Result, error) {
			var in ManageMemoryInput
			if err := json.Unmarshal(input, &in); err != nil {
				return Result{}, err
			}

			switch strings.ToLower(in.Action) {
			case "remember":
				if in.Key == "" || in.Value == "" {
					return fail(fmt.Errorf("'remember' needs both 'key' and 'value'"))
				}
				if _, err := mem.Upsert(ctx, in.Key, in.Value, in.Category); err != nil {
					return fail(err)
				}
				return ok(fmt.Sprintf("Remembered %s = %s", in.Key, in.Value))

			case "recall":
				if in.Key == "" {
					return fail(fmt.Errorf("'recall' needs 'key'"))
				}
				m, found, err := mem.Get(ctx, in.Key)
				if err != nil {
					return fail(err)
				}
				if !found {
					return ok(fmt.Sprintf("No memory stored under %q.", in.Key))
				}
				return ok(fmt.Sprintf("%s = %s", m.Key, m.Value))

			case "forget":
				if in.Key == "" {
					return fail(fmt.Errorf("'forget' needs 'key'"))
				}
				if err := mem.DeleteByKey(ctx, in.Key); err != nil {
					return fail(err)
				}
				return ok(fmt.Sprintf("Forgot %q.", in.Key))

			case "list":
				var (
					mems []store.Memory
					err  error
				)
				if in.Category != "" {
					mems, err = mem.ByCategory(ctx, in.Category)
				} else {
					mems, err = mem.All(ctx)
				}
				if err != nil {
					return fail(err)
				}
				if len(mems) == 0 {
					return ok("No memories stored.")
				}
				var b strings.Builder
				fmt.Fprintf(&b, "%d memories:\n", len(mems))
				for _, m := range mems {
					fmt.Fprintf(&b, "- [%s] %s: %s\n", m.Category, m.Key, m.Value)
				}
				return ok(b.String())

			default:
				return fail(fmt.Errorf("unknown action %q; use remember, recall, forget, or list", in.Action))
			}
		},
	}
}
