// Package queue defines message payloads exchanged over the message broker.
package queue

// Audit actions published to the audit.events queue.
const (
	ActionSignup        = "auth.signup"
	ActionLogin         = "auth.login"
	ActionPasswordReset = "auth.password_reset"
	ActionTicketCreated = "ticket.created"
	ActionTicketDeleted = "ticket.deleted"
	ActionRoleAssigned  = "role.assigned"
)

// AuditEvent is published when a security-relevant action completes.  It
// carries enough context for downstream consumers to log or alert without
// querying the primary database.  Audit persistence itself lives outside
// this service; the queue is the handoff point.
type AuditEvent struct {
	ID         string `json:"id"` // uuid, for de-duplication downstream
	Action     string `json:"action"`
	ActorID    uint64 `json:"actor_id,omitempty"`
	ActorEmail string `json:"actor_email,omitempty"`
	ResourceID uint64 `json:"resource_id,omitempty"`
	HotelID    uint64 `json:"hotel_id,omitempty"`
	OccurredAt string `json:"occurred_at"` // RFC 3339 UTC
}
