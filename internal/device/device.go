// Package device defines the capability interfaces the assistant's tools
// act through, and a client for the companion device bridge that provides
// most of them. Keeping tools behind narrow interfaces means tests run
// against fakes and the bridge stays swappable.
package device

import (
	"context"
	"time"
)

// ScreenRequest is one UI automation step.
type ScreenRequest struct {
	Action    string // read | click | input | scroll | swipe | tap | back | home
	Target    string // element label or description, for click/tap
	Text      string // text to type, for input
	Direction string // up | down | left | right, for scroll/swipe
}

// Screen drives the device UI.
type Screen interface {
	Act(ctx context.Context, req ScreenRequest) (string, error)
}

// AppLauncher opens installed applications.
type AppLauncher interface {
	Open(ctx context.Context, pkg string) error
}

// Messenger sends WhatsApp messages.
type Messenger interface {
	SendWhatsApp(ctx context.Context, contact, message string) error
}

// SMSMessage is one text message as read from the device inbox.
type SMSMessage struct {
	From string    `json:"from"`
	Body string    `json:"body"`
	At   time.Time `json:"at"`
}

// SMS sends and reads text messages.
type SMS interface {
	SendSMS(ctx context.Context, to, body string) error
	ReadSMS(ctx context.Context, limit int) ([]SMSMessage, error)
}

// Alarm sets clock alarms and countdown timers.
type Alarm interface {
	SetAlarm(ctx context.Context, at, label string) error
	SetTimer(ctx context.Context, seconds int, label string) error
}

// Event is a calendar entry to create.
type Event struct {
	Title    string
	Start    string // ISO 8601 or natural device-local "YYYY-MM-DD HH:MM"
	End      string
	Location string
	Notes    string
}

// Calendar creates events.
type Calendar interface {
	CreateEvent(ctx context.Context, ev Event) error
}

// Clipboard copies and pastes text.
type Clipboard interface {
	Copy(ctx context.Context, text string) error
	Paste(ctx context.Context) (string, error)
}
