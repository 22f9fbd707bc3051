package client

import "time"

// Status represents the commercial state of a client.
type Status string

const (
	StatusProspect Status = "prospect"
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Valid reports whether s is one of the closed set of client statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusProspect, StatusActive, StatusInactive:
		return true
	}

	return false
}

// Client represents an agency client or prospect.
type Client struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Industry        string     `json:"industry"`
	City            string     `json:"city"`
	ContactName     string     `json:"contact_name"`
	ContactEmail    string     `json:"contact_email"`
	ContactPhone    string     `json:"contact_phone"`
	Status          Status     `json:"status"`
	MonthlyRetainer int64      `json:"monthly_retainer"` // CLP per month, 0 if none
	Notes           string     `json:"notes"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
}
