package notify

import (
	"context"
	"log"
)

// Dispatcher is the foreground notification path: it reacts when the locally
// owned ticket is called. Every step is best effort; a blocked sound, a
// missing vibrator, or a failed renderer degrades silently and never fails
// the caller.
type Dispatcher struct {
	sounder  Sounder
	fallback Sounder
	vibrator Vibrator

	// renderer is the registered background surface; pageRenderer is the
	// page-level fallback used only when no background renderer exists and
	// permission was granted earlier.
	renderer          Renderer
	pageRenderer      Renderer
	permissionGranted bool
}

type DispatcherOptions struct {
	Sounder           Sounder
	Vibrator          Vibrator
	Renderer          Renderer
	PageRenderer      Renderer
	PermissionGranted bool
}

func NewDispatcher(opts DispatcherOptions) *Dispatcher {
	d := &Dispatcher{
		sounder:           opts.Sounder,
		fallback:          bellSounder{},
		vibrator:          opts.Vibrator,
		renderer:          opts.Renderer,
		pageRenderer:      opts.PageRenderer,
		permissionGranted: opts.PermissionGranted,
	}
	if d.sounder == nil {
		d.sounder = bellSounder{}
	}
	if d.vibrator == nil {
		d.vibrator = logVibrator{}
	}
	return d
}

// TicketCalled fires the full owned-ticket-called alert: audio cue, vibration
// pattern, and an OS notification through whichever surface is available.
func (d *Dispatcher) TicketCalled(ctx context.Context, ticketNumber string) {
	if err := d.sounder.Play(ctx); err != nil {
		log.Printf("audio cue error, falling back to bell: %v", err)
		if err := d.fallback.Play(ctx); err != nil {
			log.Printf("bell fallback error: %v", err)
		}
	}

	if err := d.vibrator.Vibrate(ctx, VibrationPattern); err != nil {
		log.Printf("vibration error: %v", err)
	}

	content := TicketCalledContent(ticketNumber)
	opts := RenderOptions{Renotify: true, RequireInteraction: true, Vibration: VibrationPattern}

	switch {
	case d.renderer != nil:
		if err := d.renderer.Show(ctx, content, opts); err != nil {
			log.Printf("notification render error: %v", err)
		}
	case d.pageRenderer != nil && d.permissionGranted:
		if err := d.pageRenderer.Show(ctx, content, opts); err != nil {
			log.Printf("page notification error: %v", err)
		}
	}
}
