package models

import (
	"time"
)

// ScreeningRequest is a viewer-submitted suggestion for a future screening.
type ScreeningRequest struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	LetterboxdURL  string    `json:"letterboxd_url,omitempty"`
	PosterURL      string    `json:"poster_url,omitempty"`
	RequesterName  string    `json:"requester_name,omitempty"`
	RequesterEmail string    `json:"requester_email,omitempty"`
	Status         string    `json:"status"` // pending, approved, rejected
	CreatedAt      time.Time `json:"created_at"`
}
