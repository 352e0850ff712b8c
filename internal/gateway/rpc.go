package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PGCaller reaches the remote procedures over a pgx pool. Procedures are
// invoked as set-returning functions; whatever ticket records they return are
// scanned into refs, and an empty result is valid for action-style calls.
type PGCaller struct {
	pool *pgxpool.Pool
}

func NewPGCaller(pool *pgxpool.Pool) *PGCaller {
	return &PGCaller{pool: pool}
}

func (c *PGCaller) CallProc(ctx context.Context, proc string, args []interface{}) ([]TicketRef, error) {
	placeholders := make([]string, len(args))
	for i := range args {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf("SELECT id, ticket_number FROM %s(%s)", proc, strings.Join(placeholders, ", "))

	rows, err := c.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []TicketRef
	for rows.Next() {
		var ref TicketRef
		if err := rows.Scan(&ref.ID, &ref.TicketNumber); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return refs, nil
}
