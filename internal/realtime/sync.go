// Package realtime keeps the local view cache honest: it subscribes to the
// queue and settings change feeds, drops cached views as rows change, and
// spots the moment the locally owned ticket gets called. Invalidation is
// push-based only; nothing here refetches on an interval.
package realtime

import (
	"context"
	"log"
	"time"

	"github.com/Lucieverton/bruto-premium-revamp-sub001/internal/models"
	"github.com/Lucieverton/bruto-premium-revamp-sub001/internal/ticketstore"
	"github.com/Lucieverton/bruto-premium-revamp-sub001/internal/viewcache"
)

const (
	retryBaseDelay = time.Second
	retryMaxDelay  = 30 * time.Second
)

// Notifier receives the owned-ticket-called signal.
type Notifier interface {
	TicketCalled(ctx context.Context, ticketNumber string)
}

type Synchronizer struct {
	feed     Feed
	cache    *viewcache.Cache
	tickets  *ticketstore.Store
	notifier Notifier

	// broadcast, when set, re-publishes queue events to connected
	// dashboards. Optional.
	broadcast func(ChangeEvent)

	retryBase time.Duration
	retryMax  time.Duration

	cancel context.CancelFunc
	done   chan struct{}
}

func NewSynchronizer(feed Feed, cache *viewcache.Cache, tickets *ticketstore.Store, notifier Notifier, broadcast func(ChangeEvent)) *Synchronizer {
	return &Synchronizer{
		feed:      feed,
		cache:     cache,
		tickets:   tickets,
		notifier:  notifier,
		broadcast: broadcast,
		retryBase: retryBaseDelay,
		retryMax:  retryMaxDelay,
		done:      make(chan struct{}),
	}
}

// Start consumes the feed until Close is called or the parent context ends.
// Feed errors do not end the subscription: the loop backs off and keeps
// reading, so a database restart costs at most one retry interval of
// staleness.
func (s *Synchronizer) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	go func() {
		defer close(s.done)
		delay := s.retryBase
		for {
			event, err := s.feed.Next(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Printf("change feed error, retrying in %s: %v", delay, err)
				select {
				case <-ctx.Done():
					return
				case <-time.After(delay):
				}
				delay *= 2
				if delay > s.retryMax {
					delay = s.retryMax
				}
				continue
			}
			delay = s.retryBase
			s.handleEvent(ctx, event)
		}
	}()
}

// Close tears the subscription down deterministically: when it returns, no
// further invalidation callbacks will run.
func (s *Synchronizer) Close(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
		<-s.done
	}
	return s.feed.Close(ctx)
}

func (s *Synchronizer) handleEvent(ctx context.Context, event ChangeEvent) {
	switch event.Table {
	case ChannelQueueSettings:
		// Settings events invalidate without inspection.
		s.cache.Invalidate(viewcache.TagQueueSettings)
		return
	case ChannelQueueItems:
	default:
		return
	}

	s.cache.Invalidate(viewcache.AggregateQueueTags...)

	switch event.Type {
	case EventUpdate:
		if event.New != nil {
			s.cache.InvalidateItem(event.New.ID)
			s.checkOwnedTicket(ctx, event.New)
		}
	case EventDelete:
		if event.Old != nil {
			s.cache.InvalidateItem(event.Old.ID)
		}
	}

	if s.broadcast != nil {
		s.broadcast(event)
	}
}

// checkOwnedTicket fires the called notification when the updated row is this
// device's ticket and it just transitioned to called.
func (s *Synchronizer) checkOwnedTicket(ctx context.Context, row *models.QueueTicket) {
	owned, ok := s.tickets.Get()
	if !ok || owned != row.ID {
		return
	}
	if row.Status != models.StatusCalled || !row.IsCalled {
		return
	}
	if s.notifier != nil {
		s.notifier.TicketCalled(ctx, row.TicketNumber)
	}
}
