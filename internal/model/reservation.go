package model

import "time"

// Reservation is a user's claim on a seat at an event. Code is the
// opaque value encoded into the ticket the owner scans at check-in.
type Reservation struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	UserID    string    `json:"user_id"`
	Code      string    `json:"code"`
	Attended  bool      `json:"attended"`
	CreatedAt time.Time `json:"created_at"`
}
