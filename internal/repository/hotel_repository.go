package repository

import (
	"context"
	"database/sql"

	"github.com/stayware/ticketdesk/internal/model"
)

const hotelColumns = "id,name,city,address,stars,is_active,created_at,updated_at"

type HotelRepo struct{ DB *sql.DB }

func NewHotelRepo(db *sql.DB) *HotelRepo { return &HotelRepo{DB: db} }

func (r *HotelRepo) Create(ctx context.Context, h model.Hotel) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO hotels (name, city, address, stars, is_active) VALUES (?,?,?,?,1)",
		h.Name, h.City, h.Address, h.Stars)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

func (r *HotelRepo) GetByID(ctx context.Context, id uint64) (model.Hotel, error) {
	return r.scan(r.DB.QueryRowContext(ctx,
		"SELECT "+hotelColumns+" FROM hotels WHERE id=? LIMIT 1", id))
}

// List returns all active hotels.  Served through the response cache, so
// ordering must be stable.
func (r *HotelRepo) List(ctx context.Context) ([]model.Hotel, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+hotelColumns+" FROM hotels WHERE is_active=1 ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Hotel
	for rows.Next() {
		h, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *HotelRepo) Update(ctx context.Context, h model.Hotel) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE hotels SET name=?, city=?, address=?, stars=?, is_active=?, updated_at=NOW() WHERE id=?",
		h.Name, h.City, h.Address, h.Stars, h.IsActive, h.ID)
	return err
}

func (r *HotelRepo) scan(row rowScanner) (model.Hotel, error) {
	var h model.Hotel
	err := row.Scan(&h.ID, &h.Name, &h.City, &h.Address, &h.Stars,
		&h.IsActive, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return model.Hotel{}, err
	}
	return h, nil
}
