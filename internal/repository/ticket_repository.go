package repository

import (
	"context"
	"database/sql"

	"github.com/stayware/ticketdesk/internal/model"
)

const ticketColumns = "id,hotel_id,title,description,status,priority,created_by,assigned_to,created_at,updated_at"

type TicketRepo struct{ DB *sql.DB }

func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{DB: db} }

// Create inserts a ticket and returns its ID.
func (r *TicketRepo) Create(ctx context.Context, t model.Ticket) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO tickets (hotel_id, title, description, status, priority, created_by, assigned_to) VALUES (?,?,?,?,?,?,?)",
		t.HotelID, t.Title, t.Description, t.Status, t.Priority, t.CreatedBy, nullableID(t.AssignedTo))
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a single ticket.
func (r *TicketRepo) GetByID(ctx context.Context, id uint64) (model.Ticket, error) {
	return r.scan(r.DB.QueryRowContext(ctx,
		"SELECT "+ticketColumns+" FROM tickets WHERE id=? LIMIT 1", id))
}

// ListByHotel returns tickets for one hotel, newest first.
func (r *TicketRepo) ListByHotel(ctx context.Context, hotelID uint64) ([]model.Ticket, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+ticketColumns+" FROM tickets WHERE hotel_id=? ORDER BY created_at DESC", hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Ticket
	for rows.Next() {
		t, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Update rewrites the mutable ticket fields.
func (r *TicketRepo) Update(ctx context.Context, t model.Ticket) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE tickets SET title=?, description=?, status=?, priority=?, assigned_to=?, updated_at=NOW() WHERE id=?",
		t.Title, t.Description, t.Status, t.Priority, nullableID(t.AssignedTo), t.ID)
	return err
}

// Delete removes a ticket.
func (r *TicketRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM tickets WHERE id=?", id)
	return err
}

func (r *TicketRepo) scan(row rowScanner) (model.Ticket, error) {
	var (
		t        model.Ticket
		assigned sql.NullInt64
	)
	err := row.Scan(&t.ID, &t.HotelID, &t.Title, &t.Description, &t.Status,
		&t.Priority, &t.CreatedBy, &assigned, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return model.Ticket{}, err
	}
	if assigned.Valid {
		t.AssignedTo = uint64(assigned.Int64)
	}
	return t, nil
}

func nullableID(id uint64) any {
	if id == 0 {
		return nil
	}
	return id
}
