package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/openpaw/openpaw/internal/device"
)

type CreateCalendarEventInput struct {
	Title       string `json:"title" jsonschema_description:"Title/name of the event."`
	StartTime   string `json:"start_time" jsonschema_description:"Start time in ISO 8601 format: yyyy-MM-ddTHH:mm, e.g. 2026-03-15T14:00."`
	EndTime     string `json:"end_time,omitempty" jsonschema_description:"End time in ISO 8601 format. Optional, defaults to 1h after start."`
	Description string `json:"description,omitempty" jsonschema_description:"Event description (optional)."`
	Location    string `json:"location,omitempty" jsonschema_description:"Event location (optional)."`
}

const eventTimeLayout = "2006-01-02T15:04"

// CreateCalendarEvent stages a calendar entry; the user saves it in the
// calendar app.
func CreateCalendarEvent(c device.Calendar) Definition {
	return Definition{
		Name:              "create_calendar_event",
		Description:       "Create a calendar event. Opens the calendar app with the event pre-filled for the user to confirm.",
		InputSchema:       GenerateSchema[CreateCalendarEventInput](),
		NeedsConfirmation: true,
		Execute: func(ctx context.Context, input json.RawMessage) (Result, error) {
			var in CreateCalendarEventInput
			if err := json.Unmarshal(input, &in); err != nil {
				return Result{}, err
			}

			start, err := time.Parse(eventTimeLayout, in.StartTime)
			if err != nil {
				return fail(fmt.Errorf("could not parse start_time %q: use yyyy-MM-ddTHH:mm", in.StartTime))
			}
			end := in.EndTime
			if end == "" {
				end = start.Add(time.Hour).Format(eventTimeLayout)
			} else if _, err := time.Parse(eventTimeLayout, end); err != nil {
				return fail(fmt.Errorf("could not parse end_time %q: use yyyy-MM-ddTHH:mm", in.EndTime))
			}

			ev := device.Event{
				Title:    in.Title,
				Start:    in.StartTime,
				End:      end,
				Location: in.Location,
				Notes:    in.Description,
			}
			if err := c.CreateEvent(ctx, ev); err != nil {
				return fail(fmt.Errorf("failed to open calendar: %w", err))
			}
			return Result{
				Success:           true,
				Output:            fmt.Sprintf("Calendar opened with event %q pre-filled. User must save it.", in.Title),
				NeedsConfirmation: true,
			}, nil
		},
	}
}
