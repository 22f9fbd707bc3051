package quote

import "time"

// Status represents the lifecycle state of a quote.
type Status string

const (
	StatusDraft       Status = "draft"
	StatusSent        Status = "sent"
	StatusPending     Status = "pending"
	StatusNegotiating Status = "negotiating"
	StatusOnHold      Status = "on_hold"
	StatusApproved    Status = "approved"
	StatusRejected    Status = "rejected"
	StatusExpired     Status = "expired"
	StatusCancelled   Status = "cancelled"
)

// Valid reports whether s is one of the closed set of quote statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusPending, StatusNegotiating, StatusOnHold,
		StatusApproved, StatusRejected, StatusExpired, StatusCancelled:
		return true
	}

	return false
}

// Terminal reports whether no further transition is permitted out of s.
func (s Status) Terminal() bool {
	switch s {
	case StatusApproved, StatusRejected, StatusExpired, StatusCancelled:
		return true
	}

	return false
}

// transitions lists the allowed moves between non-terminal states. Moves into
// a terminal state are always allowed from a non-terminal one and are not
// listed here.
var transitions = map[Status]map[Status]bool{
	StatusDraft:       {StatusSent: true},
	StatusSent:        {StatusPending: true, StatusNegotiating: true},
	StatusPending:     {StatusNegotiating: true, StatusOnHold: true},
	StatusNegotiating: {StatusPending: true, StatusOnHold: true},
	StatusOnHold:      {StatusPending: true, StatusNegotiating: true},
}

// CanTransition reports whether a quote may move from one status to another.
func CanTransition(from, to Status) bool {
	if from.Terminal() {
		return false
	}

	if to.Terminal() {
		return true
	}

	return transitions[from][to]
}

// Quote represents a priced proposal sent to a client.
type Quote struct {
	ID          string   `json:"id"`
	ClientID    string   `json:"client_id"`
	ClientName  string   `json:"client_name"` // snapshot at creation time
	Items       []string `json:"items"`
	Amount      int64    `json:"amount"` // CLP
	Status      Status   `json:"status"`
	Probability int      `json:"probability"` // close probability, 0-100
	Owner       string   `json:"owner"`
	Notes       string   `json:"notes"`

	// AutomationDone guards the approval automation: the client/project
	// creation runs at most once per quote.
	AutomationDone bool   `json:"automation_done"`
	ProjectID      string `json:"project_id,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	SentAt    *time.Time `json:"sent_at,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}
