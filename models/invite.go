package models

import (
	"time"
)

type Invite struct {
	ID          string     `json:"id"`
	EventID     string     `json:"event_id"`
	Email       string     `json:"email"`
	Name        string     `json:"name,omitempty"`
	Token       string     `json:"token"`
	Status      string     `json:"status"` // pending, requested, yes, waitlist, no
	SeatNumber  int        `json:"seat_number,omitempty"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// RSVPResult is the wire shape of one RSVP outcome. Captioning the outcome
// for the invitee is the frontend's job.
type RSVPResult struct {
	Status         string   `json:"status"`
	SeatNumber     int      `json:"seat_number,omitempty"`
	Promoted       []Invite `json:"promoted,omitempty"`
	SeatsRemaining int      `json:"seats_remaining"`
}

// BulkInviteResult reports a bulk import back to the admin.
type BulkInviteResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

func (i Invite) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	return i.Email
}
