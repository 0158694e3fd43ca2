package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openpaw/openpaw/internal/device"
)

type SMSInput struct {
	Action  string `json:"action" jsonschema_description:"Action: 'send' or 'read'."`
	Phone   string `json:"phone,omitempty" jsonschema_description:"Recipient phone number with country code, e.g. +49123456789. Required for 'send'."`
	Message string `json:"message,omitempty" jsonschema_description:"SMS text to send. Required for 'send'."`
	Count   int    `json:"count,omitempty" jsonschema_description:"Number of recent messages to retrieve (default 5, max 20). For 'read'."`
}

// SMS sends classic text messages and reads the inbox.
func SMS(s device.SMS) Definition {
	return Definition{
		Name: "sms",
		Description: "Send or read classic SMS messages (not WhatsApp). For 'send': sends an SMS to a " +
			"phone number. For 'read': reads recent inbox messages.",
		InputSchema:       GenerateSchema[SMSInput](),
		NeedsConfirmation: true,
		Execute: func(ctx context.Context, input json.RawMessage) (Result, error) {
			var in SMSInput
			if err := json.Unmarshal(input, &in); err != nil {
				return Result{}, err
			}

			switch strings.ToLower(in.Action) {
			case "send":
				if in.Phone == "" {
					return fail(fmt.Errorf("missing 'phone' for send"))
				}
				if in.Message == "" {
					return fail(fmt.Errorf("missing 'message' for send"))
				}
				if err := s.SendSMS(ctx, in.Phone, in.Message); err != nil {
					return fail(fmt.Errorf("failed to send SMS: %w", err))
				}
				return ok("SMS sent to " + in.Phone + ".")

			case "read":
				count := in.Count
				if count <= 0 {
					count = 5
				}
				if count > 20 {
					count = 20
				}
				msgs, err := s.ReadSMS(ctx, count)
				if err != nil {
					return fail(fmt.Errorf("cannot read SMS inbox: %w", err))
				}
				if len(msgs) == 0 {
					return ok("SMS inbox is empty.")
				}
				var b strings.Builder
				fmt.Fprintf(&b, "Last %d SMS messages:\n", len(msgs))
				for _, m := range msgs {
					fmt.Fprintf(&b, "- %s (%s): %s\n", m.From, m.At.Format("2006-01-02 15:04"), m.Body)
				}
				return ok(b.String())

			default:
				return fail(fmt.Errorf("unknown action %q; use send or read", in.Action))
			}
		},
	}
}
