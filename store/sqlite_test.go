package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *SQLite {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "openpaw.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestAppendAndRecentChronological(t *testing.T) {
	ctx := context.Background()
	conv := openTestDB(t).Conversations()

	base := time.Now().Add(-time.Minute)
	for i, text := range []string{"first", "second", "third"} {
		_, err := conv.Append(ctx, Message{
			SessionID: "s1",
			Role:      RoleUser,
			Content:   text,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("append %q: %v", text, err)
		}
	}

	msgs, err := conv.Recent(ctx, "s1", 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if msgs[0].Content != "second" || msgs[1].Content != "third" {
		t.Errorf("window not chronological: %q, %q", msgs[0].Content, msgs[1].Content)
	}
}

func TestAppendValidation(t *testing.T) {
	ctx := context.Background()
	conv := openTestDB(t).Conversations()

	cases := []struct {
		name string
		msg  Message
	}{
		{"empty session", Message{Role: RoleUser, Content: "hi"}},
		{"unknown role", Message{SessionID: "s1", Role: "system", Content: "hi"}},
		{"tool role without name", Message{SessionID: "s1", Role: RoleTool, Content: "{}"}},
		{"user role with tool name", Message{SessionID: "s1", Role: RoleUser, Content: "hi", ToolName: "set_alarm"}},
	}
	for _, tc := range cases {
		if _, err := conv.Append(ctx, tc.msg); err == nil {
			t.Errorf("%s: expected error, got nil", tc.name)
		}
	}
}

func TestToolMessageRoundTrip(t *testing.T) {
	ctx := context.Background()
	conv := openTestDB(t).Conversations()

	_, err := conv.Append(ctx, Message{
		SessionID: "s1",
		Role:      RoleTool,
		ToolName:  "set_alarm",
		Content:   `{"success":true}`,
	})
	if err != nil {
		t.Fatalf("append tool message: %v", err)
	}

	msgs, err := conv.Recent(ctx, "s1", 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(msgs) != 1 || msgs[0].ToolName != "set_alarm" || msgs[0].Role != RoleTool {
		t.Fatalf("unexpected round trip: %+v", msgs)
	}
}

func TestSessionIDsMostRecentFirst(t *testing.T) {
	ctx := context.Background()
	conv := openTestDB(t).Conversations()

	base := time.Now().Add(-time.Hour)
	appends := []struct {
		session string
		at      time.Time
	}{
		{"older", base},
		{"newer", base.Add(time.Minute)},
		{"older", base.Add(2 * time.Minute)}, // older becomes most recent
	}
	for _, a := range appends {
		if _, err := conv.Append(ctx, Message{SessionID: a.session, Role: RoleUser, Content: "x", CreatedAt: a.at}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	ids, err := conv.SessionIDs(ctx)
	if err != nil {
		t.Fatalf("session ids: %v", err)
	}
	if len(ids) != 2 || ids[0] != "older" || ids[1] != "newer" {
		t.Errorf("got %v, want [older newer]", ids)
	}
}

func TestPreviewsFirstUserMessagePerSession(t *testing.T) {
	ctx := context.Background()
	conv := openTestDB(t).Conversations()

	base := time.Now().Add(-time.Hour)
	seed := []Message{
		{SessionID: "a", Role: RoleUser, Content: "book a flight", CreatedAt: base},
		{SessionID: "a", Role: RoleAssistant, Content: "sure", CreatedAt: base.Add(time.Second)},
		{SessionID: "a", Role: RoleUser, Content: "to tokyo", CreatedAt: base.Add(2 * time.Second)},
		{SessionID: "b", Role: RoleUser, Content: "set an alarm", CreatedAt: base.Add(time.Minute)},
	}
	for _, m := range seed {
		if _, err := conv.Append(ctx, m); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	previews, err := conv.Previews(ctx)
	if err != nil {
		t.Fatalf("previews: %v", err)
	}
	if len(previews) != 2 {
		t.Fatalf("got %d previews, want 2", len(previews))
	}
	if previews[0].SessionID != "b" || previews[0].Content != "set an alarm" {
		t.Errorf("first preview = %+v, want session b", previews[0])
	}
	if previews[1].SessionID != "a" || previews[1].Content != "book a flight" {
		t.Errorf("second preview = %+v, want first user message of session a", previews[1])
	}
}

func TestClearSessionLeavesOthers(t *testing.T) {
	ctx := context.Background()
	conv := openTestDB(t).Conversations()

	for _, s := range []string{"keep", "drop"} {
		if _, err := conv.Append(ctx, Message{SessionID: s, Role: RoleUser, Content: "hi"}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if err := conv.Clear(ctx, "drop"); err != nil {
		t.Fatalf("clear: %v", err)
	}

	kept, err := conv.Recent(ctx, "keep", 10)
	if err != nil {
		t.Fatalf("recent keep: %v", err)
	}
	dropped, err := conv.Recent(ctx, "drop", 10)
	if err != nil {
		t.Fatalf("recent drop: %v", err)
	}
	if len(kept) != 1 || len(dropped) != 0 {
		t.Errorf("kept=%d dropped=%d, want 1 and 0", len(kept), len(dropped))
	}
}

func TestMemoryUpsertIsIdempotentPerKey(t *testing.T) {
	ctx := context.Background()
	mem := openTestDB(t).Memories()

	id1, err := mem.Upsert(ctx, "coffee", "likes oat milk", "preferences")
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	id2, err := mem.Upsert(ctx, "coffee", "switched to black", "preferences")
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if id1 != id2 {
		t.Errorf("upsert created a new row: id1=%d id2=%d", id1, id2)
	}

	got, ok, err := mem.Get(ctx, "coffee")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.Value != "switched to black" {
		t.Errorf("value = %q, want latest", got.Value)
	}

	all, err := mem.All(ctx)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("got %d memories, want 1", len(all))
	}
}

func TestMemoryByCategoryAndDelete(t *testing.T) {
	ctx := context.Background()
	mem := openTestDB(t).Memories()

	seed := []struct{ key, value, category string }{
		{"coffee", "oat milk", "preferences"},
		{"wifi", "home-5g", "facts"},
		{"gym", "tuesdays", "preferences"},
	}
	for _, s := range seed {
		if _, err := mem.Upsert(ctx, s.key, s.value, s.category); err != nil {
			t.Fatalf("upsert %s: %v", s.key, err)
		}
	}

	prefs, err := mem.ByCategory(ctx, "preferences")
	if err != nil {
		t.Fatalf("by category: %v", err)
	}
	if len(prefs) != 2 {
		t.Errorf("got %d preferences, want 2", len(prefs))
	}

	if err := mem.DeleteByKey(ctx, "wifi"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := mem.Get(ctx, "wifi"); ok {
		t.Error("wifi still present after delete")
	}

	if err := mem.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	all, err := mem.All(ctx)
	if err != nil {
		t.Fatalf("all after clear: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("got %d memories after clear, want 0", len(all))
	}
}

func TestMemoryDefaultCategory(t *testing.T) {
	ctx := context.Background()
	mem := openTestDB(t).Memories()

	if _, err := mem.Upsert(ctx, "note", "something", ""); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, ok, err := mem.Get(ctx, "note")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.Category != "general" {
		t.Errorf("category = %q, want general", got.Category)
	}
}
