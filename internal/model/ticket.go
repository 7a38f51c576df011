package model

import "time"

// Ticket statuses.  Transitions are free-form; the API only validates that
// the stored value is one of these.
const (
	TicketOpen       = "OPEN"
	TicketInProgress = "IN_PROGRESS"
	TicketResolved   = "RESOLVED"
	TicketClosed     = "CLOSED"
)

// Ticket is a work item raised against a hotel (maintenance request,
// guest complaint, supply order and so on).
type Ticket struct {
	ID          uint64    // tickets.id
	HotelID     uint64    // tickets.hotel_id (tenant scope)
	Title       string    // tickets.title
	Description string    // tickets.description
	Status      string    // tickets.status
	Priority    uint8     // tickets.priority (1 = highest)
	CreatedBy   uint64    // tickets.created_by (users.id)
	AssignedTo  uint64    // tickets.assigned_to (users.id, 0 = unassigned)
	CreatedAt   time.Time // tickets.created_at
	UpdatedAt   time.Time // tickets.updated_at
}
