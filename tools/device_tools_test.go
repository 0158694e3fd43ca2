package tools_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/openpaw/openpaw/internal/device"
	"github.com/openpaw/openpaw/tools"
)

func run(t *testing.T, def tools.Definition, args string) tools.Result {
	t.Helper()
	res, err := def.Execute(context.Background(), json.RawMessage(args))
	if err != nil {
		t.Fatalf("%s: unexpected err: %v", def.Name, err)
	}
	return res
}

func TestControlScreen_Tap(t *testing.T) {
	screen := &fakeScreen{resp: "tapped Send"}
	res := run(t, tools.ControlScreen(screen), `{"action":"tap","target":"Send"}`)

	if !res.Success || res.Output != "tapped Send" {
		t.Fatalf("result = %+v", res)
	}
	if screen.lastReq.Action != "tap" || screen.lastReq.Target != "Send" {
		t.Errorf("request = %+v", screen.lastReq)
	}
}

func TestControlScreen_Validation(t *testing.T) {
	def := tools.ControlScreen(&fakeScreen{})
	cases := []string{
		`{"action":"launch"}`, // unknown action
		`{"action":"tap"}`,    // tap without target
		`{"action":"input"}`,  // input without text
	}
	for _, args := range cases {
		if res := run(t, def, args); res.Success {
			t.Errorf("args %s: expected failure, got %+v", args, res)
		}
	}
}

func TestControlScreen_DeviceErrorBecomesToolError(t *testing.T) {
	res := run(t, tools.ControlScreen(&fakeScreen{err: errDeviceDown}), `{"action":"home"}`)
	if res.Success || !strings.Contains(res.Err, "bridge unreachable") {
		t.Fatalf("result = %+v", res)
	}
}

func TestOpenApp_WellKnownNames(t *testing.T) {
	launcher := &fakeLauncher{}
	def := tools.OpenApp(launcher)

	run(t, def, `{"app_name":"Spotify"}`)
	if launcher.lastPkg != "com.spotify.music" {
		t.Errorf("spotify mapped to %s", launcher.lastPkg)
	}
	run(t, def, `{"app_name":"Google Maps"}`)
	if launcher.lastPkg != "com.google.android.apps.maps" {
		t.Errorf("google maps mapped to %s", launcher.lastPkg)
	}
	// explicit package wins over the table
	run(t, def, `{"app_name":"spotify","package_name":"com.example.fork"}`)
	if launcher.lastPkg != "com.example.fork" {
		t.Errorf("package_name not preferred: %s", launcher.lastPkg)
	}
	// unknown names pass through for the launcher to resolve
	run(t, def, `{"app_name":"obscure app"}`)
	if launcher.lastPkg != "obscure app" {
		t.Errorf("unknown name rewritten: %s", launcher.lastPkg)
	}

	if res := run(t, def, `{}`); res.Success {
		t.Errorf("empty input accepted: %+v", res)
	}
}

func TestSendWhatsApp(t *testing.T) {
	m := &fakeMessenger{}
	def := tools.SendWhatsApp(m)

	res := run(t, def, `{"phone":"+49123","message":"running late"}`)
	if !res.Success || !res.NeedsConfirmation {
		t.Fatalf("result = %+v", res)
	}
	if m.lastContact != "+49123" || m.lastMessage != "running late" {
		t.Errorf("call = %s / %s", m.lastContact, m.lastMessage)
	}

	// contact name works when phone is unknown
	run(t, def, `{"contact_name":"Mum","message":"hi"}`)
	if m.lastContact != "Mum" {
		t.Errorf("contact = %s", m.lastContact)
	}

	if res := run(t, def, `{"message":"hi"}`); res.Success {
		t.Errorf("missing recipient accepted: %+v", res)
	}
}

func TestSMS_SendAndRead(t *testing.T) {
	s := &fakeSMS{inbox: []device.SMSMessage{
		{From: "+4477", Body: "hello", At: time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)},
		{From: "+4478", Body: "bye", At: time.Date(2026, 8, 30, 11, 0, 0, 0, time.UTC)},
	}}
	def := tools.SMS(s)

	res := run(t, def, `{"action":"send","phone":"+4477","message":"on my way"}`)
	if !res.Success || s.lastTo != "+4477" {
		t.Fatalf("send result = %+v, to=%s", res, s.lastTo)
	}

	res = run(t, def, `{"action":"read","count":1}`)
	if !res.Success || !strings.Contains(res.Output, "+4477") || strings.Contains(res.Output, "+4478") {
		t.Errorf("read result = %+v", res)
	}

	if res := run(t, def, `{"action":"send","phone":"+4477"}`); res.Success {
		t.Errorf("send without message accepted: %+v", res)
	}
}

func TestSetAlarm(t *testing.T) {
	a := &fakeAlarm{}
	def := tools.SetAlarm(a)

	res := run(t, def, `{"hour":7,"minutes":30,"message":"Gym"}`)
	if !res.Success || a.lastAt != "07:30" || a.lastLabel != "Gym" {
		t.Fatalf("result = %+v, at=%s label=%s", res, a.lastAt, a.lastLabel)
	}

	// hour 0 is a valid alarm time, not a missing field
	run(t, def, `{"hour":0}`)
	if a.lastAt != "00:00" {
		t.Errorf("midnight alarm = %s", a.lastAt)
	}

	if res := run(t, def, `{"hour":24}`); res.Success {
		t.Errorf("invalid hour accepted: %+v", res)
	}
	if res := run(t, def, `{}`); res.Success {
		t.Errorf("empty input accepted: %+v", res)
	}
}

func TestSetAlarm_Timer(t *testing.T) {
	a := &fakeAlarm{}
	res := run(t, tools.SetAlarm(a), `{"timer_seconds":300}`)

	if !res.Success || a.lastSeconds != 300 {
		t.Fatalf("result = %+v, seconds=%d", res, a.lastSeconds)
	}
	if !strings.Contains(res.Output, "5m") {
		t.Errorf("output = %q", res.Output)
	}
}

func TestCreateCalendarEvent(t *testing.T) {
	c := &fakeCalendar{}
	def := tools.CreateCalendarEvent(c)

	res := run(t, def, `{"title":"Dentist","start_time":"2026-09-01T09:00"}`)
	if !res.Success || !res.NeedsConfirmation {
		t.Fatalf("result = %+v", res)
	}
	if c.lastEvent.Title != "Dentist" {
		t.Errorf("event = %+v", c.lastEvent)
	}
	// default end is one hour after start
	if c.lastEvent.End != "2026-09-01T10:00" {
		t.Errorf("end = %s", c.lastEvent.End)
	}

	if res := run(t, def, `{"title":"Bad","start_time":"tomorrow"}`); res.Success {
		t.Errorf("unparseable start accepted: %+v", res)
	}
}

func TestClipboard(t *testing.T) {
	cb := &fakeClipboard{}
	def := tools.Clipboard(cb)

	res := run(t, def, `{"action":"copy","text":"meeting code 4821"}`)
	if !res.Success || cb.content != "meeting code 4821" {
		t.Fatalf("copy result = %+v", res)
	}

	res = run(t, def, `{"action":"paste"}`)
	if !res.Success || !strings.Contains(res.Output, "meeting code 4821") {
		t.Errorf("paste result = %+v", res)
	}

	if res := run(t, def, `{"action":"copy"}`); res.Success {
		t.Errorf("copy without text accepted: %+v", res)
	}
}
