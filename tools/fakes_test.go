package tools_test

import (
	"context"
	"errors"

	"github.com/openpaw/openpaw/internal/device"
)

// Fakes for the device capability interfaces. Each records the last call
// and can be primed to fail.

type fakeScreen struct {
	lastReq device.ScreenRequest
	resp    string
	err     error
}

func (f *fakeScreen) Act(_ context.Context, req device.ScreenRequest) (string, error) {
	f.lastReq = req
	return f.resp, f.err
}

type fakeLauncher struct {
	lastPkg string
	err     error
}

func (f *fakeLauncher) Open(_ context.Context, pkg string) error {
	f.lastPkg = pkg
	return f.err
}

type fakeMessenger struct {
	lastContact string
	lastMessage string
	err         error
}

func (f *fakeMessenger) SendWhatsApp(_ context.Context, contact, message string) error {
	f.lastContact = contact
	f.lastMessage = message
	return f.err
}

type fakeSMS struct {
	lastTo   string
	lastBody string
	inbox    []device.SMSMessage
	err      error
}

func (f *fakeSMS) SendSMS(_ context.Context, to, body string) error {
	f.lastTo = to
	f.lastBody = body
	return f.err
}

func (f *fakeSMS) ReadSMS(_ context.Context, limit int) ([]device.SMSMessage, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit > len(f.inbox) {
		limit = len(f.inbox)
	}
	return f.inbox[:limit], nil
}

type fakeAlarm struct {
	lastAt      string
	lastLabel   string
	lastSeconds int
	err         error
}

func (f *fakeAlarm) SetAlarm(_ context.Context, at, label string) error {
	f.lastAt = at
	f.lastLabel = label
	return f.err
}

func (f *fakeAlarm) SetTimer(_ context.Context, seconds int, label string) error {
	f.lastSeconds = seconds
	f.lastLabel = label
	return f.err
}

type fakeCalendar struct {
	lastEvent device.Event
	err       error
}

func (f *fakeCalendar) CreateEvent(_ context.Context, ev device.Event) error {
	f.lastEvent = ev
	return f.err
}

type fakeClipboard struct {
	content string
	err     error
}

func (f *fakeClipboard) Copy(_ context.Context, text string) error {
	if f.err != nil {
		return f.err
	}
	f.content = text
	return nil
}

func (f *fakeClipboard) Paste(_ context.Context) (string, error) {
	return f.content, f.err
}

var errDeviceDown = errors.New("bridge unreachable")
