package invoice

import "time"

// Status represents the payment state of an invoice.
type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusOverdue Status = "overdue"
)

// Valid reports whether s is one of the closed set of invoice statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusOverdue:
		return true
	}

	return false
}

// Invoice represents a bill issued to a client, optionally tied to a project.
//
// Overdue is never persisted: it is derived on every read from the due date,
// so there is no background job flipping statuses.
type Invoice struct {
	ID        string     `json:"id"`
	ClientID  string     `json:"client_id"`
	ProjectID string     `json:"project_id,omitempty"`
	Amount    int64      `json:"amount"` // CLP
	Status    Status     `json:"status"`
	IssuedAt  time.Time  `json:"issued_at"`
	DueAt     time.Time  `json:"due_at"`
	PaidAt    *time.Time `json:"paid_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// EffectiveStatus returns the status as of now: a pending invoice whose due
// date has passed reads as Overdue. Paid is terminal and always reads as Paid.
func (i *Invoice) EffectiveStatus(now time.Time) Status {
	if i.Status == StatusPending && i.DueAt.Before(now) {
		return StatusOverdue
	}

	return i.Status
}
