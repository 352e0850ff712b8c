package models

import "time"

type QueueTicket struct {
	ID           string     `json:"id"`
	TicketNumber string     `json:"ticket_number"`
	CustomerName string     `json:"customer_name"`
	Phone        string     `json:"phone,omitempty"`
	Priority     string     `json:"priority"`
	Status       string     `json:"status"`
	IsCalled     bool       `json:"is_called"`
	CreatedAt    time.Time  `json:"created_at"`
	CalledAt     *time.Time `json:"called_at,omitempty"`
	GroupID      *string    `json:"group_id,omitempty"`
	BarberID     *string    `json:"barber_id,omitempty"`
	Services     []string   `json:"services,omitempty"`
}

const (
	StatusWaiting    = "waiting"
	StatusCalled     = "called"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

const (
	PriorityNormal    = "normal"
	PriorityPreferred = "preferred"
)

type QueueStats struct {
	Waiting    int `json:"waiting"`
	Called     int `json:"called"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
	TotalToday int `json:"total_today"`
}

type QueueSettings struct {
	OpensAt  string `json:"opens_at"`
	ClosesAt string `json:"closes_at"`
	Active   bool   `json:"active"`
}

// CompanionEntry is one extra participant in a group join. It only becomes a
// ticket of its own once the remote procedure materializes it.
type CompanionEntry struct {
	Name     string   `json:"name"`
	Services []string `json:"services,omitempty"`
	BarberID string   `json:"barber_id,omitempty"`
}

const (
	PushTypeNewClient = "new_client"
	PushTypeTransfer  = "transfer"
)

// PushRequest is the transient fire-and-forget message sent to the push
// endpoint after a successful queue mutation. It is never persisted.
type PushRequest struct {
	Type         string `json:"type"`
	CustomerName string `json:"customer_name"`
	BarberID     string `json:"barber_id,omitempty"`
	TicketNumber string `json:"ticket_number"`
}
