package repository

import (
	"context"
	"database/sql"

	"github.com/stayware/ticketdesk/internal/model"
)

type CommentRepo struct{ DB *sql.DB }

func NewCommentRepo(db *sql.DB) *CommentRepo { return &CommentRepo{DB: db} }

func (r *CommentRepo) Create(ctx context.Context, c model.Comment) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO comments (hotel_id, author_id, body) VALUES (?,?,?)",
		c.HotelID, c.AuthorID, c.Body)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// ListByHotel returns a hotel's comments, oldest first.
func (r *CommentRepo) ListByHotel(ctx context.Context, hotelID uint64) ([]model.Comment, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, hotel_id, author_id, body, created_at FROM comments WHERE hotel_id=? ORDER BY created_at", hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Comment
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.HotelID, &c.AuthorID, &c.Body, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CommentRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM comments WHERE id=?", id)
	return err
}
