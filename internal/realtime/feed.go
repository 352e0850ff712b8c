package realtime

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/Lucieverton/bruto-premium-revamp-sub001/internal/models"
)

// Change-feed channels, one per remote table.
const (
	ChannelQueueItems    = "queue_items"
	ChannelQueueSettings = "queue_settings"
)

const (
	EventInsert = "insert"
	EventUpdate = "update"
	EventDelete = "delete"
)

// ChangeEvent is one row-level change delivered by the feed. Delete events
// carry only the prior row; update events carry the new one.
type ChangeEvent struct {
	Table string
	Type  string
	Old   *models.QueueTicket
	New   *models.QueueTicket
}

// Feed delivers change events until its context is cancelled.
type Feed interface {
	Next(ctx context.Context) (ChangeEvent, error)
	Close(ctx context.Context) error
}

// PGFeed consumes LISTEN/NOTIFY on a dedicated connection. The notify
// payload is JSON {type, old, new} emitted by remote triggers. A broken
// connection is dropped and re-established on the next Next call, so the
// subscription survives database restarts.
type PGFeed struct {
	dsn  string
	conn *pgx.Conn
}

func Listen(ctx context.Context, dsn string) (*PGFeed, error) {
	f := &PGFeed{dsn: dsn}
	if err := f.connect(ctx); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *PGFeed) connect(ctx context.Context) error {
	conn, err := pgx.Connect(ctx, f.dsn)
	if err != nil {
		return err
	}
	for _, channel := range []string{ChannelQueueItems, ChannelQueueSettings} {
		if _, err := conn.Exec(ctx, "LISTEN "+channel); err != nil {
			_ = conn.Close(ctx)
			return err
		}
	}
	f.conn = conn
	return nil
}

func (f *PGFeed) Next(ctx context.Context) (ChangeEvent, error) {
	if f.conn == nil || f.conn.IsClosed() {
		if err := f.connect(ctx); err != nil {
			return ChangeEvent{}, err
		}
	}
	notification, err := f.conn.WaitForNotification(ctx)
	if err != nil {
		// The connection is unusable after a wait error. Drop it so the
		// next call reconnects and re-issues LISTEN.
		_ = f.conn.Close(context.Background())
		f.conn = nil
		return ChangeEvent{}, err
	}
	return decodeEvent(notification.Channel, []byte(notification.Payload)), nil
}

func (f *PGFeed) Close(ctx context.Context) error {
	if f.conn == nil || f.conn.IsClosed() {
		return nil
	}
	return f.conn.Close(ctx)
}

type rawEvent struct {
	Type string              `json:"type"`
	Old  *models.QueueTicket `json:"old"`
	New  *models.QueueTicket `json:"new"`
}

// decodeEvent tolerates whatever the trigger sent; an undecodable payload
// still yields an event for its table so the aggregate views get dropped.
func decodeEvent(channel string, payload []byte) ChangeEvent {
	event := ChangeEvent{Table: channel}
	var raw rawEvent
	if err := json.Unmarshal(payload, &raw); err != nil {
		return event
	}
	event.Type = strings.ToLower(raw.Type)
	event.Old = raw.Old
	event.New = raw.New
	return event
}
