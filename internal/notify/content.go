package notify

import (
	"encoding/json"
	"strings"
)

// Both delivery paths (the in-process dispatcher and the push relay) build
// their notification text here, so the fallback rules live in one place.

const (
	DefaultTitle = "Fila de Espera"
	DefaultBody  = "new customer waiting"

	// DefaultTag groups notifications so a repeat re-alerts instead of
	// stacking. Renotify semantics are applied by the renderer.
	DefaultTag = "queue-update"
)

// VibrationPattern is the fixed on/off millisecond pattern used by every
// notification this layer shows.
var VibrationPattern = []int{200, 100, 200}

type Content struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Tag   string `json:"tag"`
}

type pushPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// BuildContent turns a raw push-delivery body into displayable content.
// Pushes arrive without an encrypted payload, so the body may be structured
// JSON, plain text, or missing entirely; each step falls back to the next and
// a notification is always produced.
func BuildContent(data []byte) Content {
	content := Content{Title: DefaultTitle, Body: DefaultBody, Tag: DefaultTag}

	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return content
	}

	var payload pushPayload
	if err := json.Unmarshal([]byte(trimmed), &payload); err == nil && payload.Title != "" {
		content.Title = payload.Title
		if payload.Body != "" {
			content.Body = payload.Body
		}
		return content
	}

	content.Body = trimmed
	return content
}

// TicketCalledContent is the owned-ticket notification shown by the
// foreground path when the local ticket transitions to called.
func TicketCalledContent(ticketNumber string) Content {
	body := "Chegou a sua vez! Dirija-se ao balcão."
	if ticketNumber != "" {
		body = "Senha " + ticketNumber + ": chegou a sua vez!"
	}
	return Content{Title: DefaultTitle, Body: body, Tag: DefaultTag}
}
