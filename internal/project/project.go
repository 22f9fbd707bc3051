package project

import "time"

// Status represents the delivery state of a project.
type Status string

const (
	StatusPlanning   Status = "planning"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusPaused     Status = "paused"
	StatusCancelled  Status = "cancelled"
)

// Valid reports whether s is one of the closed set of project statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPlanning, StatusInProgress, StatusCompleted, StatusPaused, StatusCancelled:
		return true
	}

	return false
}

// Terminal reports whether no further transition is permitted out of s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

var transitions = map[Status]map[Status]bool{
	StatusPlanning:   {StatusInProgress: true},
	StatusInProgress: {StatusCompleted: true, StatusPaused: true, StatusCancelled: true},
	StatusPaused:     {StatusInProgress: true},
}

// CanTransition reports whether a project may move from one status to another.
func CanTransition(from, to Status) bool {
	return transitions[from][to]
}

// Project represents a piece of delivery work for a client, possibly seeded
// from an approved quote.
type Project struct {
	ID             string     `json:"id"`
	ClientID       string     `json:"client_id"`
	Name           string     `json:"name"`
	Status         Status     `json:"status"`
	Progress       int        `json:"progress"` // 0-100
	Budget         int64      `json:"budget"`   // CLP
	Owner          string     `json:"owner"`
	EstimatedHours int        `json:"estimated_hours"`
	WorkedHours    int        `json:"worked_hours"`
	QuoteID        string     `json:"quote_id,omitempty"` // set when created by the lifecycle engine
	StartDate      *time.Time `json:"start_date,omitempty"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}
