package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openpaw/openpaw/internal/device"
)

type SetAlarmInput struct {
	Hour         *int   `json:"hour,omitempty" jsonschema_description:"Hour of alarm (0-23, 24-hour format)."`
	Minutes      int    `json:"minutes,omitempty" jsonschema_description:"Minutes of alarm (0-59). Defaults to 0."`
	Message      string `json:"message,omitempty" jsonschema_description:"Label for the alarm (optional)."`
	TimerSeconds int    `json:"timer_seconds,omitempty" jsonschema_description:"Set a countdown timer instead: duration in seconds."`
}

// SetAlarm sets a clock alarm, or a countdown timer when timer_seconds is
// given instead of an hour.
func SetAlarm(a device.Alarm) Definition {
	return Definition{
		Name:        "set_alarm",
		Description: "Set an alarm or countdown timer on the device.",
		InputSchema: GenerateSchema[SetAlarmInput](),
		Execute: func(ctx context.Context, input json.RawMessage) (Result, error) {
			var in SetAlarmInput
			if err := json.Unmarshal(input, &in); err != nil {
				return Result{}, err
			}

			label := in.Message
			if label == "" {
				label = "OpenPaw reminder"
			}

			if in.TimerSeconds > 0 {
				if err := a.SetTimer(ctx, in.TimerSeconds, label); err != nil {
					return fail(fmt.Errorf("could not set timer: %w", err))
				}
				return ok(fmt.Sprintf("Timer set for %s.", fmtSeconds(in.TimerSeconds)))
			}

			if in.Hour == nil {
				return fail(fmt.Errorf("provide 'hour' for alarm or 'timer_seconds' for timer"))
			}
			if *in.Hour < 0 || *in.Hour > 23 || in.Minutes < 0 || in.Minutes > 59 {
				return fail(fmt.Errorf("invalid time %d:%d", *in.Hour, in.Minutes))
			}

			at := fmt.Sprintf("%02d:%02d", *in.Hour, in.Minutes)
			if err := a.SetAlarm(ctx, at, label); err != nil {
				return fail(fmt.Errorf("could not set alarm: %w", err))
			}
			return ok(fmt.Sprintf("Alarm set for %s – %q.", at, label))
		},
	}
}

func fmtSeconds(s int) string {
	switch {
	case s >= 3600:
		return fmt.Sprintf("%dh %dm", s/3600, (s%3600)/60)
	case s >= 60:
		return fmt.Sprintf("%dm %ds", s/60, s%60)
	default:
		return fmt.Sprintf("%ds", s)
	}
}
