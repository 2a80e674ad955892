package services

import "academic-registry-api/models"

// Caller is the authenticated principal an operation runs on behalf of. It is
// passed explicitly into every gated service method instead of being read from
// shared global state.
type Caller struct {
	UserID int
	RoleID int
}

func (c Caller) IsAdmin() bool {
	return c.RoleID == models.RoleAdmin
}
