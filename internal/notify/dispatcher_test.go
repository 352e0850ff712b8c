package notify

import (
	"context"
	"errors"
	"testing"
)

type recordingSounder struct {
	calls int
	err   error
}

func (s *recordingSounder) Play(context.Context) error {
	s.calls++
	return s.err
}

type recordingVibrator struct {
	patterns [][]int
}

func (v *recordingVibrator) Vibrate(ctx context.Context, pattern []int) error {
	v.patterns = append(v.patterns, pattern)
	return nil
}

type recordingRenderer struct {
	shown []Content
	opts  []RenderOptions
	err   error
}

func (r *recordingRenderer) Show(ctx context.Context, content Content, opts RenderOptions) error {
	r.shown = append(r.shown, content)
	r.opts = append(r.opts, opts)
	return r.err
}

func TestTicketCalledUsesRegisteredRenderer(t *testing.T) {
	sounder := &recordingSounder{}
	vibrator := &recordingVibrator{}
	renderer := &recordingRenderer{}
	page := &recordingRenderer{}

	d := NewDispatcher(DispatcherOptions{
		Sounder:           sounder,
		Vibrator:          vibrator,
		Renderer:          renderer,
		PageRenderer:      page,
		PermissionGranted: true,
	})
	d.TicketCalled(context.Background(), "B-003")

	if sounder.calls != 1 {
		t.Fatalf("expected one audio cue, got %d", sounder.calls)
	}
	if len(vibrator.patterns) != 1 {
		t.Fatalf("expected one vibration, got %d", len(vibrator.patterns))
	}
	if len(renderer.shown) != 1 {
		t.Fatalf("expected registered renderer to show, got %d", len(renderer.shown))
	}
	if len(page.shown) != 0 {
		t.Fatalf("page fallback must not fire when a renderer is registered")
	}
	if !renderer.opts[0].Renotify || !renderer.opts[0].RequireInteraction {
		t.Fatalf("expected renotify and requireInteraction, got %+v", renderer.opts[0])
	}
}

func TestTicketCalledPageFallbackRequiresPermission(t *testing.T) {
	page := &recordingRenderer{}
	d := NewDispatcher(DispatcherOptions{
		Sounder:      &recordingSounder{},
		Vibrator:     &recordingVibrator{},
		PageRenderer: page,
	})
	d.TicketCalled(context.Background(), "B-003")
	if len(page.shown) != 0 {
		t.Fatalf("fallback must stay silent without permission")
	}

	granted := NewDispatcher(DispatcherOptions{
		Sounder:           &recordingSounder{},
		Vibrator:          &recordingVibrator{},
		PageRenderer:      page,
		PermissionGranted: true,
	})
	granted.TicketCalled(context.Background(), "B-003")
	if len(page.shown) != 1 {
		t.Fatalf("expected page fallback with permission, got %d", len(page.shown))
	}
}

func TestTicketCalledSwallowsFailures(t *testing.T) {
	d := NewDispatcher(DispatcherOptions{
		Sounder:  &recordingSounder{err: errors.New("blocked")},
		Vibrator: &recordingVibrator{},
		Renderer: &recordingRenderer{err: errors.New("render down")},
	})
	// Must not panic or propagate anything.
	d.TicketCalled(context.Background(), "B-009")
}
