// Package gateway wraps the remote queue procedures with typed inputs, the
// per-mutation cache invalidation sets, and the best-effort push dispatch
// that follows every successful mutation. The procedures themselves live in
// the remote database and are opaque to this layer.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/Lucieverton/bruto-premium-revamp-sub001/internal/models"
	"github.com/Lucieverton/bruto-premium-revamp-sub001/internal/notify"
	"github.com/Lucieverton/bruto-premium-revamp-sub001/internal/ticketstore"
	"github.com/Lucieverton/bruto-premium-revamp-sub001/internal/viewcache"
)

// Remote procedure names. Their internals belong to the database.
const (
	ProcJoinQueueGroup = "join_queue_group"
	ProcDirectAdd      = "barber_add_client_direct"
	ProcCallClient     = "barber_call_client"
	ProcTransferClient = "transfer_queue_client"
)

// TicketRef is the slice of a ticket every remote procedure returns: the
// generated id plus the human-readable display number.
type TicketRef struct {
	ID           string `json:"id"`
	TicketNumber string `json:"ticket_number"`
}

// Caller invokes one remote procedure and scans its ticket records.
type Caller interface {
	CallProc(ctx context.Context, proc string, args []interface{}) ([]TicketRef, error)
}

type Gateway struct {
	rpc     Caller
	tickets *ticketstore.Store
	cache   *viewcache.Cache
	pusher  notify.Pusher
}

func New(rpc Caller, tickets *ticketstore.Store, cache *viewcache.Cache, pusher notify.Pusher) *Gateway {
	return &Gateway{rpc: rpc, tickets: tickets, cache: cache, pusher: pusher}
}

type JoinInput struct {
	CustomerName string
	Phone        string
	Services     []string
	BarberID     string
	Priority     string
}

// normalize performs the only client-side shaping this layer does: phone
// digit-stripping and default fallbacks. Real validation is the remote side's
// job.
func (in *JoinInput) normalize() {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.Phone = digitsOnly(in.Phone)
	if in.Priority == "" {
		in.Priority = models.PriorityNormal
	}
}

func digitsOnly(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// JoinQueue places a single customer in the queue and remembers the resulting
// ticket as this device's owned ticket.
func (g *Gateway) JoinQueue(ctx context.Context, input JoinInput) (TicketRef, error) {
	input.normalize()

	refs, err := g.rpc.CallProc(ctx, ProcJoinQueueGroup, []interface{}{
		input.CustomerName, input.Phone, encodeServices(input.Services),
		nullIfEmpty(input.BarberID), input.Priority, "[]",
	})
	if err != nil {
		return TicketRef{}, wrapRemote(ProcJoinQueueGroup, err)
	}
	if len(refs) == 0 {
		return TicketRef{}, wrapRemote(ProcJoinQueueGroup, fmt.Errorf("no ticket returned"))
	}
	leader := refs[0]

	if err := g.tickets.Save(leader.ID); err != nil {
		log.Printf("ticket store save error: %v", err)
	}
	g.cache.InvalidateFor(viewcache.MutationJoin)
	notify.Dispatch(ctx, g.pusher, models.PushRequest{
		Type:         models.PushTypeNewClient,
		CustomerName: input.CustomerName,
		BarberID:     input.BarberID,
		TicketNumber: leader.TicketNumber,
	})
	return leader, nil
}

// JoinQueueGroup places a leader plus companions in one remote call. The
// remote procedure takes the whole companion list as a single encoded
// argument and returns one record per participant, leader first. Only the
// leader's id is stored locally.
func (g *Gateway) JoinQueueGroup(ctx context.Context, leader JoinInput, companions []models.CompanionEntry) ([]TicketRef, error) {
	leader.normalize()

	refs, err := g.rpc.CallProc(ctx, ProcJoinQueueGroup, []interface{}{
		leader.CustomerName, leader.Phone, encodeServices(leader.Services),
		nullIfEmpty(leader.BarberID), leader.Priority, encodeCompanions(companions),
	})
	if err != nil {
		return nil, wrapRemote(ProcJoinQueueGroup, err)
	}
	if len(refs) == 0 {
		return nil, wrapRemote(ProcJoinQueueGroup, fmt.Errorf("no ticket returned"))
	}

	if err := g.tickets.Save(refs[0].ID); err != nil {
		log.Printf("ticket store save error: %v", err)
	}
	g.cache.InvalidateFor(viewcache.MutationGroupJoin)

	name := leader.CustomerName
	if len(companions) > 0 {
		name = fmt.Sprintf("%s +%d", leader.CustomerName, len(companions))
	}
	notify.Dispatch(ctx, g.pusher, models.PushRequest{
		Type:         models.PushTypeNewClient,
		CustomerName: name,
		BarberID:     leader.BarberID,
		TicketNumber: refs[0].TicketNumber,
	})
	return refs, nil
}

// DirectAdd is the barber-initiated variant of join. The created ticket
// belongs to the customer, not to the barber issuing the call, so the local
// ticket store is never touched.
func (g *Gateway) DirectAdd(ctx context.Context, input JoinInput) (TicketRef, error) {
	input.normalize()

	refs, err := g.rpc.CallProc(ctx, ProcDirectAdd, []interface{}{
		input.CustomerName, input.Phone, encodeServices(input.Services),
		nullIfEmpty(input.BarberID), input.Priority,
	})
	if err != nil {
		return TicketRef{}, wrapRemote(ProcDirectAdd, err)
	}
	if len(refs) == 0 {
		return TicketRef{}, wrapRemote(ProcDirectAdd, fmt.Errorf("no ticket returned"))
	}
	ref := refs[0]

	g.cache.InvalidateFor(viewcache.MutationDirectAdd)
	notify.Dispatch(ctx, g.pusher, models.PushRequest{
		Type:         models.PushTypeNewClient,
		CustomerName: input.CustomerName,
		BarberID:     input.BarberID,
		TicketNumber: ref.TicketNumber,
	})
	return ref, nil
}

// CallClient transitions a ticket to called. No outbound push is sent here:
// the owner's device learns about the call through the change feed.
func (g *Gateway) CallClient(ctx context.Context, ticketID, barberID string) error {
	_, err := g.rpc.CallProc(ctx, ProcCallClient, []interface{}{ticketID, barberID})
	if err != nil {
		return wrapRemote(ProcCallClient, err)
	}
	g.cache.InvalidateFor(viewcache.MutationCall)
	return nil
}

// TransferClient moves a ticket to another barber. The push carries the raw
// ticket id as its display text because no display number is fetched at
// transfer time.
func (g *Gateway) TransferClient(ctx context.Context, ticketID, toBarberID, reason string) error {
	_, err := g.rpc.CallProc(ctx, ProcTransferClient, []interface{}{
		ticketID, toBarberID, nullIfEmpty(reason),
	})
	if err != nil {
		return wrapRemote(ProcTransferClient, err)
	}
	g.cache.InvalidateFor(viewcache.MutationTransfer)
	notify.Dispatch(ctx, g.pusher, models.PushRequest{
		Type:         models.PushTypeTransfer,
		CustomerName: "Cliente transferido",
		BarberID:     toBarberID,
		TicketNumber: ticketID,
	})
	return nil
}

func encodeServices(services []string) string {
	if len(services) == 0 {
		return "[]"
	}
	encoded, err := json.Marshal(services)
	if err != nil {
		return "[]"
	}
	return string(encoded)
}

// encodeCompanions always yields a JSON array; a nil slice must reach the
// remote procedure as [] and never as null.
func encodeCompanions(companions []models.CompanionEntry) string {
	if len(companions) == 0 {
		return "[]"
	}
	encoded, err := json.Marshal(companions)
	if err != nil {
		return "[]"
	}
	return string(encoded)
}

func nullIfEmpty(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}
