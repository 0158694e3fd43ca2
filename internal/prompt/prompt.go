// Package prompt assembles the system prompt: agent persona, behaviour
// rules, user context, and the running memory block.
package prompt

import (
	"strings"

	"github.com/openpaw/openpaw/internal/settings"
	"github.com/openpaw/openpaw/store"
)

const rules = `YOUR TOOLS (use them actively!):
- control_screen: read the screen (action=read), click an element (action=click, target=<label>),
  type text (action=input, text=...), scroll (action=scroll, direction=up/down),
  home button (action=home), back (action=back)
- open_app: launch an app by name, e.g. app_name="Spotify" / "Maps" / "Clock"
- send_whatsapp: send a WhatsApp message: phone or contact_name, message
- sms: send a text (action=send, phone, message) or read the inbox (action=read)
- create_calendar_event: create an event: title, start_time (ISO 8601), end_time, description
- set_alarm: set an alarm (hour, minutes, message) or a countdown timer (timer_seconds)
- manage_memory: store facts (action=remember, key, value), look them up (action=recall),
  forget them (action=forget), or list everything (action=list)
- file_manager: read, write, list, and delete files in your storage folder
- clipboard: copy text (action=copy, text) or paste (action=paste)

RULES FOR DEVICE ACTIONS:
You run inside the assistant app. When the user wants a device action:
1. Go to the home screen first (control_screen action=home)
2. Then do the task directly with open_app or tap, without reading in between
3. Only read the screen when you genuinely don't know what is on it

GENERAL RULES:
- Carry tasks out fully. Act, don't just answer.
- For multi-step tasks, run each step with the matching tool.
- If a tool fails, try an alternative route.
- Ask before sending messages or doing anything irreversible.
- Use manage_memory for user preferences.`

func personalityLine(personality string) string {
	switch personality {
	case "professional":
		return "You are professional, precise, and to the point. No filler."
	case "witty":
		return "You are relaxed and humorous. The occasional pun or emoji is fine."
	case "direct":
		return "You are maximally direct and brief. No long explanations, just the essentials."
	default: // friendly
		return "You are friendly, warm, and helpful."
	}
}

// Build renders the full system prompt for one turn. Memories are embedded
// so the model can use stored facts without a lookup round trip.
func Build(p settings.Persona, memories []store.Memory) string {
	name := p.AgentName
	if name == "" {
		name = "OpenPaw"
	}
	emoji := p.AgentEmoji
	if emoji == "" {
		emoji = "🐾"
	}

	var b strings.Builder
	b.WriteString("You are ")
	b.WriteString(emoji)
	b.WriteString(" ")
	b.WriteString(name)
	b.WriteString(", an AI assistant running directly on the user's phone.\n")
	b.WriteString(personalityLine(p.Personality))
	b.WriteString("\n\n")
	b.WriteString(rules)

	userName := strings.TrimSpace(p.UserName)
	userBio := strings.TrimSpace(p.UserBio)
	if userName != "" || userBio != "" {
		b.WriteString("\n\n— User context —")
		if userName != "" {
			b.WriteString("\nName: ")
			b.WriteString(userName)
		}
		if userBio != "" {
			b.WriteString("\nAbout the user: ")
			b.WriteString(userBio)
		}
	}

	if len(memories) > 0 {
		b.WriteString("\n\n[MEMORY]\n")
		for _, m := range memories {
			b.WriteString("- ")
			b.WriteString(m.Key)
			b.WriteString(": ")
			b.WriteString(m.Value)
			b.WriteString("\n")
		}
	}

	return b.String()
}
