package model

import "time"

// Hotel is a managed property.  Tickets and comments hang off a hotel, and
// users can be scoped to one via User.HotelID.
type Hotel struct {
	ID        uint64    // hotels.id
	Name      string    // hotels.name
	City      string    // hotels.city
	Address   string    // hotels.address
	Stars     uint8     // hotels.stars (1-5)
	IsActive  bool      // hotels.is_active
	CreatedAt time.Time // hotels.created_at
	UpdatedAt time.Time // hotels.updated_at
}

// Comment is a free-form note attached to a hotel by a user.
type Comment struct {
	ID        uint64    // comments.id
	HotelID   uint64    // comments.hotel_id
	AuthorID  uint64    // comments.author_id
	Body      string    // comments.body
	CreatedAt time.Time // comments.created_at
}
