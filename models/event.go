package models

import (
	"time"
)

type Event struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	LetterboxdURL string    `json:"letterboxd_url"`
	PosterURL     string    `json:"poster_url,omitempty"`
	Synopsis      string    `json:"synopsis,omitempty"`
	StartsAt      time.Time `json:"starts_at"`
	Location      string    `json:"location"`
	Capacity      int       `json:"capacity"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// EventSummary is the public listing shape: capacity math included,
// invite details omitted.
type EventSummary struct {
	Event
	ConfirmedCount int `json:"confirmed_count"`
	SeatsRemaining int `json:"seats_remaining"`
}
