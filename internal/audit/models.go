package audit

import "time"

// Action names what happened.
type Action string

const (
	ActionLogin       Action = "login"
	ActionLoginFailed Action = "login_failed"
	ActionLogout      Action = "logout"
	ActionSearch      Action = "search"
	ActionVoterViewed Action = "voter_viewed"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so sinks can fan out.
type Event struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Action      Action    `json:"action"`
	ClientID    string    `json:"client_id"`
	UserID      string    `json:"user_id,omitempty"`
	Term        string    `json:"term,omitempty"`
	ResultCount int       `json:"result_count,omitempty"`
	VoterID     string    `json:"voter_id,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
}
