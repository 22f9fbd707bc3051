package activity

import "time"

// Type classifies a logged touchpoint with a client.
type Type string

const (
	TypeCall     Type = "call"
	TypeEmail    Type = "email"
	TypeMeeting  Type = "meeting"
	TypeProposal Type = "proposal"
	TypeNote     Type = "note"
)

// Valid reports whether t is one of the closed set of activity types.
func (t Type) Valid() bool {
	switch t {
	case TypeCall, TypeEmail, TypeMeeting, TypeProposal, TypeNote:
		return true
	}

	return false
}

// Status represents the follow-up state of an activity.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusPending   Status = "pending"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is one of the closed set of activity statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusCompleted, StatusPending, StatusCancelled:
		return true
	}

	return false
}

// Activity is one entry in the client activity log. The lifecycle engine
// appends entries for quote events; users log calls, emails and meetings.
type Activity struct {
	ID          string    `json:"id"`
	ClientID    string    `json:"client_id,omitempty"`
	Type        Type      `json:"type"`
	Description string    `json:"description"`
	NextAction  string    `json:"next_action,omitempty"`
	Status      Status    `json:"status"`
	OccurredAt  time.Time `json:"occurred_at"`
	CreatedAt   time.Time `json:"created_at"`
}
