// Package relay is the background notification surface: a process that stays
// up independently of the queue pages, receives push deliveries from the
// remote push service, and renders OS-level notifications. Pushes arrive
// without an encrypted payload, so rendering never depends on the body being
// well formed.
package relay

import (
	"io"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/Lucieverton/bruto-premium-revamp-sub001/internal/notify"
)

const maxPushBody = 16 << 10

type Handler struct {
	renderer notify.Renderer
	windows  Windows
	adminURL string

	mu     sync.Mutex
	active map[string]notify.Content
}

func NewHandler(renderer notify.Renderer, windows Windows, adminURL string) *Handler {
	return &Handler{
		renderer: renderer,
		windows:  windows,
		adminURL: adminURL,
		active:   make(map[string]notify.Content),
	}
}

func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", h.handleHealth)
	mux.HandleFunc("/push", h.handlePush)
	mux.HandleFunc("/notifications/", h.handleNotificationClick)
	return mux
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// handlePush always shows a notification and always tells the push service
// the delivery was handled; render failures are logged, never returned.
func (h *Handler) handlePush(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxPushBody))
	if err != nil {
		body = nil
	}
	content := notify.BuildContent(body)

	h.mu.Lock()
	h.active[content.Tag] = content
	h.mu.Unlock()

	opts := notify.RenderOptions{
		Renotify:           true,
		RequireInteraction: true,
		Vibration:          notify.VibrationPattern,
	}
	if err := h.renderer.Show(r.Context(), content, opts); err != nil {
		log.Printf("push render error tag=%s: %v", content.Tag, err)
	}

	w.WriteHeader(http.StatusOK)
}

// handleNotificationClick closes the clicked notification and routes the user
// to the admin queue: focus an existing window when one is open, otherwise
// open exactly one new window. Never both, never neither.
func (h *Handler) handleNotificationClick(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/notifications/")
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 2 || parts[1] != "click" || parts[0] == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	tag := parts[0]

	h.mu.Lock()
	delete(h.active, tag)
	h.mu.Unlock()

	action := "opened"
	focused, err := h.windows.Focus(r.Context(), h.adminURL)
	if err != nil {
		log.Printf("window focus error: %v", err)
	}
	if focused {
		action = "focused"
	} else if err := h.windows.Open(r.Context(), h.adminURL); err != nil {
		log.Printf("window open error: %v", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"action":"` + action + `"}`))
}

// ActiveTags reports the tags of notifications currently shown.
func (h *Handler) ActiveTags() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	tags := make([]string, 0, len(h.active))
	for tag := range h.active {
		tags = append(tags, tag)
	}
	return tags
}
