// Package views reads the remote derived views this client caches. The rows
// live in the external database; this layer only selects and scans them.
package views

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Lucieverton/bruto-premium-revamp-sub001/internal/models"
)

type PGViews struct {
	pool *pgxpool.Pool
}

func NewPGViews(pool *pgxpool.Pool) *PGViews {
	return &PGViews{pool: pool}
}

// PublicQueue lists today's active tickets in arrival order. Phone numbers
// stay out of the public view.
func (v *PGViews) PublicQueue(ctx context.Context) ([]models.QueueTicket, error) {
	rows, err := v.pool.Query(ctx, `
		SELECT id, ticket_number, customer_name, priority, status, is_called, created_at, called_at, group_id, barber_id
		FROM queue_items
		WHERE status IN ('waiting','called','in_progress')
		  AND created_at >= date_trunc('day', now())
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []models.QueueTicket
	for rows.Next() {
		var ticket models.QueueTicket
		var calledAt sql.NullTime
		var groupID, barberID sql.NullString
		if err := rows.Scan(&ticket.ID, &ticket.TicketNumber, &ticket.CustomerName, &ticket.Priority, &ticket.Status, &ticket.IsCalled, &ticket.CreatedAt, &calledAt, &groupID, &barberID); err != nil {
			return nil, err
		}
		if calledAt.Valid {
			t := calledAt.Time
			ticket.CalledAt = &t
		}
		if groupID.Valid {
			g := groupID.String
			ticket.GroupID = &g
		}
		if barberID.Valid {
			b := barberID.String
			ticket.BarberID = &b
		}
		tickets = append(tickets, ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tickets, nil
}

func (v *PGViews) Settings(ctx context.Context) (models.QueueSettings, error) {
	var settings models.QueueSettings
	row := v.pool.QueryRow(ctx, `
		SELECT opens_at, closes_at, active
		FROM queue_settings
		LIMIT 1
	`)
	if err := row.Scan(&settings.OpensAt, &settings.ClosesAt, &settings.Active); err != nil {
		if err == pgx.ErrNoRows {
			return models.QueueSettings{}, nil
		}
		return models.QueueSettings{}, err
	}
	return settings, nil
}

func (v *PGViews) Stats(ctx context.Context) (models.QueueStats, error) {
	var stats models.QueueStats
	row := v.pool.QueryRow(ctx, `
		SELECT
			count(*) FILTER (WHERE status = 'waiting'),
			count(*) FILTER (WHERE status = 'called'),
			count(*) FILTER (WHERE status = 'in_progress'),
			count(*) FILTER (WHERE status = 'completed'),
			count(*)
		FROM queue_items
		WHERE created_at >= date_trunc('day', now())
	`)
	if err := row.Scan(&stats.Waiting, &stats.Called, &stats.InProgress, &stats.Completed, &stats.TotalToday); err != nil {
		return models.QueueStats{}, err
	}
	return stats, nil
}
