package relay

import (
	"context"
	"log"
	"os/exec"
	"strings"
	"sync"
)

// Windows abstracts window routing for notification clicks. Focus reports
// whether an existing window at the URL was brought forward; when it wasn't,
// the caller opens a new one.
type Windows interface {
	Focus(ctx context.Context, url string) (bool, error)
	Open(ctx context.Context, url string) error
}

func NewWindows(kind string) Windows {
	switch kind {
	case "", "log":
		return NewMemoryWindows()
	default:
		if parts := strings.Fields(kind); len(parts) > 0 {
			return &execWindows{command: parts[0], args: parts[1:]}
		}
		return NewMemoryWindows()
	}
}

// MemoryWindows tracks opened URLs in process. Opening the same URL twice
// focuses the existing entry instead.
type MemoryWindows struct {
	mu   sync.Mutex
	open map[string]bool
}

func NewMemoryWindows() *MemoryWindows {
	return &MemoryWindows{open: make(map[string]bool)}
}

func (w *MemoryWindows) Focus(ctx context.Context, url string) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.open[url] {
		log.Printf("focus window url=%s", url)
		return true, nil
	}
	return false, nil
}

func (w *MemoryWindows) Open(ctx context.Context, url string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.open[url] = true
	log.Printf("open window url=%s", url)
	return nil
}

// execWindows shells out to an opener such as xdg-open. It cannot see
// existing windows, so Focus always declines and every click opens.
type execWindows struct {
	command string
	args    []string
}

func (w *execWindows) Focus(ctx context.Context, url string) (bool, error) {
	return false, nil
}

func (w *execWindows) Open(ctx context.Context, url string) error {
	args := append(append([]string(nil), w.args...), url)
	return exec.CommandContext(ctx, w.command, args...).Run()
}
