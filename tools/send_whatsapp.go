package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openpaw/openpaw/internal/device"
)

type SendWhatsAppInput struct {
	Message     string `json:"message" jsonschema_description:"The message text to send."`
	Phone       string `json:"phone,omitempty" jsonschema_description:"Phone number with country code, e.g. +49123456789. Use 'contact_name' if you don't know the number."`
	ContactName string `json:"contact_name,omitempty" jsonschema_description:"Name of the contact (optional, used if phone is unknown)."`
}

// SendWhatsApp stages a WhatsApp message. The message is pre-filled on the
// device and the user presses send, so the result is flagged for
// confirmation.
func SendWhatsApp(m device.Messenger) Definition {
	return Definition{
		Name: "send_whatsapp",
		Description: "Send a WhatsApp message to a phone number or contact name. " +
			"Opens WhatsApp with the message pre-filled so the user can confirm before sending.",
		InputSchema:       GenerateSchema[SendWhatsAppInput](),
		NeedsConfirmation: true,
		Execute: func(ctx context.Context, input json.RawMessage) (Result, error) {
			var in SendWhatsAppInput
			if err := json.Unmarshal(input, &in); err != nil {
				return Result{}, err
			}

			contact := in.Phone
			if contact == "" {
				contact = in.ContactName
			}
			if contact == "" {
				return fail(fmt.Errorf("provide 'phone' or 'contact_name'"))
			}

			if err := m.SendWhatsApp(ctx, contact, in.Message); err != nil {
				return fail(fmt.Errorf("could not open WhatsApp: %w", err))
			}
			return Result{
				Success:           true,
				Output:            fmt.Sprintf("WhatsApp opened with pre-filled message to %s. User must press send.", contact),
				NeedsConfirmation: true,
			}, nil
		},
	}
}
