package auth

import "github.com/stayware/ticketdesk/internal/model"

// UserView is the serialized user shape returned by auth endpoints.  The
// legacy single Role label is derived from the role set here and nowhere
// else.
type UserView struct {
	ID          uint64   `json:"id"`
	Email       string   `json:"email"`
	DisplayName string   `json:"name"`
	Provider    string   `json:"provider"`
	AvatarURL   string   `json:"avatar_url,omitempty"`
	HotelID     uint64   `json:"hotel_id,omitempty"`
	Roles       []string `json:"roles"`
	Role        string   `json:"role"` // legacy projection, see PrimaryRole
}

// NewUserView builds the response projection for a user and its roles.
func NewUserView(u model.User, roles []model.Role) UserView {
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.Name)
	}
	return UserView{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Provider:    u.AuthProvider,
		AvatarURL:   u.AvatarURL,
		HotelID:     u.HotelID,
		Roles:       names,
		Role:        PrimaryRole(names),
	}
}
