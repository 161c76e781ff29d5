package models

import "time"

// User is the staff member behind a session. Token is a locally signed
// bearer handle, not an identity assertion.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Token    string `json:"token"`
}

// Session is the persisted login state of one client.
type Session struct {
	User      *User     `json:"user"`
	ClientID  string    `json:"clientId"`
	Device    string    `json:"device,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Authenticated reports whether the session carries a user.
func (s *Session) Authenticated() bool {
	return s != nil && s.User != nil
}
