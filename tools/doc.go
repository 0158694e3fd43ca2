// Package tools defines the assistant's tool contracts and implementations.
//
// Includes:
//   - Definition: name, description, JSON input schema, handler.
//   - GenerateSchema[T](): derive JSON Schema from Go structs.
//   - Registry: ordered definitions, model-facing specs, validated dispatch.
//   - Device tools: control_screen, open_app, send_whatsapp, sms, set_alarm,
//     create_calendar_event, clipboard.
//   - Data tools: manage_memory, file_manager.
package tools
