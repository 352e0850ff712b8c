package notify

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strings"
)

// Renderer shows an OS-level notification. Options carry the renotify and
// persistence semantics a renderer should honor when its backend supports
// them.
type Renderer interface {
	Show(ctx context.Context, content Content, opts RenderOptions) error
}

type RenderOptions struct {
	// Renotify makes a repeat notification with the same tag re-alert the
	// user instead of being silently coalesced.
	Renotify bool
	// RequireInteraction keeps the notification visible until dismissed.
	RequireInteraction bool
	Vibration          []int
}

// Sounder plays the audible cue for an owned-ticket call.
type Sounder interface {
	Play(ctx context.Context) error
}

// Vibrator triggers the device vibration pattern where hardware allows it.
type Vibrator interface {
	Vibrate(ctx context.Context, pattern []int) error
}

func NewRenderer(kind string) Renderer {
	switch kind {
	case "", "log":
		return logRenderer{}
	case "noop":
		return noopRenderer{}
	case "fail":
		return failRenderer{}
	default:
		if parts := strings.Fields(kind); len(parts) > 0 {
			return execRenderer{command: parts[0], args: parts[1:]}
		}
		return logRenderer{}
	}
}

type logRenderer struct{}

func (logRenderer) Show(ctx context.Context, content Content, opts RenderOptions) error {
	log.Printf("notification tag=%s renotify=%v title=%q body=%q", content.Tag, opts.Renotify, content.Title, content.Body)
	return nil
}

type noopRenderer struct{}

func (noopRenderer) Show(context.Context, Content, RenderOptions) error { return nil }

type failRenderer struct{}

func (failRenderer) Show(context.Context, Content, RenderOptions) error {
	return errors.New("renderer failure")
}

// execRenderer shells out to a desktop notifier such as notify-send.
type execRenderer struct {
	command string
	args    []string
}

func (r execRenderer) Show(ctx context.Context, content Content, opts RenderOptions) error {
	args := append(append([]string(nil), r.args...), content.Title, content.Body)
	return exec.CommandContext(ctx, r.command, args...).Run()
}

func NewSounder(kind string) Sounder {
	switch kind {
	case "", "bell":
		return bellSounder{}
	case "noop":
		return noopSounder{}
	default:
		if parts := strings.Fields(kind); len(parts) > 0 {
			return execSounder{command: parts[0], args: parts[1:]}
		}
		return bellSounder{}
	}
}

// bellSounder is the minimal synthesized cue used when no audio player is
// configured or the configured one fails.
type bellSounder struct{}

func (bellSounder) Play(context.Context) error {
	_, err := fmt.Fprint(os.Stdout, "\a")
	return err
}

type noopSounder struct{}

func (noopSounder) Play(context.Context) error { return nil }

type execSounder struct {
	command string
	args    []string
}

func (s execSounder) Play(ctx context.Context) error {
	return exec.CommandContext(ctx, s.command, s.args...).Run()
}

type logVibrator struct{}

func (logVibrator) Vibrate(ctx context.Context, pattern []int) error {
	log.Printf("vibrate pattern=%v", pattern)
	return nil
}

func NewVibrator() Vibrator { return logVibrator{} }
