package tools_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/openpaw/openpaw/tools"
)

func testRegistry() (*tools.Registry, *fakeAlarm, *fakeLauncher) {
	alarm := &fakeAlarm{}
	launcher := &fakeLauncher{}
	r := tools.NewRegistry(
		tools.SetAlarm(alarm),
		tools.OpenApp(launcher),
		tools.SendWhatsApp(&fakeMessenger{}),
	)
	return r, alarm, launcher
}

func TestRegistry_UnknownTool(t *testing.T) {
	r, _, _ := testRegistry()

	_, err := r.Invoke(context.Background(), "no_such_tool", json.RawMessage(`{}`))
	if !tools.IsUnknownTool(err) {
		t.Fatalf("expected UnknownToolError, got %v", err)
	}
}

func TestRegistry_MissingRequiredField(t *testing.T) {
	r := tools.NewRegistry(tools.SMS(&fakeSMS{}))

	// "action" is required for sms
	_, err := r.Invoke(context.Background(), "sms", json.RawMessage(`{"phone":"+49123"}`))
	if !tools.IsInvalidArguments(err) {
		t.Fatalf("expected InvalidArgumentsError, got %v", err)
	}
}

func TestRegistry_NonObjectArguments(t *testing.T) {
	r, _, _ := testRegistry()

	for _, raw := range []string{`"text"`, `[1,2]`, `{bad json`} {
		_, err := r.Invoke(context.Background(), "open_app", json.RawMessage(raw))
		if !tools.IsInvalidArguments(err) {
			t.Errorf("args %s: expected InvalidArgumentsError, got %v", raw, err)
		}
	}
}

func TestRegistry_UnknownExtraFieldIgnored(t *testing.T) {
	r, _, launcher := testRegistry()

	res, err := r.Invoke(context.Background(), "open_app",
		json.RawMessage(`{"app_name":"spotify","confidence":0.9}`))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !res.Success || launcher.lastPkg != "com.spotify.music" {
		t.Errorf("extra field broke the call: %+v, pkg=%s", res, launcher.lastPkg)
	}
}

func TestRegistry_EmptyArgsTreatedAsEmptyObject(t *testing.T) {
	r, _, _ := testRegistry()

	// set_alarm has no required fields; empty args reach the tool, which
	// reports a readable failure rather than a registry error.
	res, err := r.Invoke(context.Background(), "set_alarm", nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Success {
		t.Errorf("expected tool-level failure, got %+v", res)
	}
}

func TestRegistry_SpecsKeepOrder(t *testing.T) {
	r, _, _ := testRegistry()

	specs := r.Specs()
	want := []string{"set_alarm", "open_app", "send_whatsapp"}
	if len(specs) != len(want) {
		t.Fatalf("got %d specs, want %d", len(specs), len(want))
	}
	for i, name := range want {
		if specs[i].Name != name {
			t.Errorf("specs[%d] = %s, want %s", i, specs[i].Name, name)
		}
	}
	if specs[0].Properties == nil {
		t.Error("spec properties not populated")
	}
}

func TestRegistry_NeedsConfirmation(t *testing.T) {
	r, _, _ := testRegistry()

	if !r.NeedsConfirmation("send_whatsapp") {
		t.Error("send_whatsapp should need confirmation")
	}
	if r.NeedsConfirmation("open_app") {
		t.Error("open_app should not need confirmation")
	}
}

func TestGenerateSchema_RequiredFields(t *testing.T) {
	schema := tools.GenerateSchema[tools.SMSInput]()

	found := false
	for _, req := range schema.Required {
		if req == "action" {
			found = true
		}
		if req == "phone" || req == "message" || req == "count" {
			t.Errorf("optional field %q marked required", req)
		}
	}
	if !found {
		t.Errorf("action not in required list: %v", schema.Required)
	}
	if _, okKey := schema.Properties.Get("phone"); !okKey {
		t.Error("phone missing from properties")
	}
}
