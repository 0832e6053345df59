package services

import (
	"context"
	"time"

	"screening-rsvp/models"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
)

// EventService manages the screening events themselves. Capacity is fixed
// at creation but remains editable by the admin; invite seat state is left
// to the RSVP flow.
type EventService struct {
	app      core.App
	metadata *MetadataService
}

func NewEventService(app core.App, metadata *MetadataService) *EventService {
	return &EventService{app: app, metadata: metadata}
}

// EventInput carries the admin-supplied event fields. Empty title,
// synopsis or poster are filled from Letterboxd metadata when available.
type EventInput struct {
	Title         string    `json:"title"`
	LetterboxdURL string    `json:"letterboxd_url"`
	Synopsis      string    `json:"synopsis"`
	PosterURL     string    `json:"poster_url"`
	StartsAt      time.Time `json:"starts_at"`
	Location      string    `json:"location"`
	Capacity      int       `json:"capacity"`
	Notes         string    `json:"notes"`
}

func (in *EventInput) validate() error {
	if in.LetterboxdURL == "" || in.Location == "" || in.StartsAt.IsZero() || in.Capacity < 1 {
		return ErrInvalidEventInput
	}
	return nil
}

// resolveMetadata fills missing descriptive fields from Letterboxd and
// returns a warning when the lookup degraded.
func (s *EventService) resolveMetadata(ctx context.Context, in *EventInput) string {
	normalized, meta, warning := s.metadata.Resolve(ctx, in.LetterboxdURL)
	in.LetterboxdURL = normalized
	if meta != nil {
		if in.Title == "" {
			in.Title = meta.Title
		}
		if in.Synopsis == "" {
			in.Synopsis = meta.Synopsis
		}
		if in.PosterURL == "" {
			in.PosterURL = meta.PosterURL
		}
	}
	if in.Title == "" {
		in.Title = "Untitled screening"
	}
	return warning
}

// Create stores a new event. Returns the event plus a non-fatal warning
// when metadata could not be fetched.
func (s *EventService) Create(ctx context.Context, in EventInput) (*models.Event, string, error) {
	if err := in.validate(); err != nil {
		return nil, "", err
	}
	warning := s.resolveMetadata(ctx, &in)

	collection, err := s.app.FindCollectionByNameOrId("events")
	if err != nil {
		return nil, "", err
	}

	rec := core.NewRecord(collection)
	applyEventInput(rec, in)
	if err := s.app.Save(rec); err != nil {
		return nil, "", err
	}

	event := eventModel(rec)
	return &event, warning, nil
}

// Update rewrites an event's fields, re-resolving metadata. Shrinking the
// capacity never revokes already-assigned seats; the allocator simply
// stops handing out new ones.
func (s *EventService) Update(ctx context.Context, eventID string, in EventInput) (*models.Event, string, error) {
	rec, err := s.app.FindRecordById("events", eventID)
	if err != nil {
		return nil, "", ErrEventNotFound
	}
	if err := in.validate(); err != nil {
		return nil, "", err
	}
	warning := s.resolveMetadata(ctx, &in)

	applyEventInput(rec, in)
	if err := s.app.Save(rec); err != nil {
		return nil, "", err
	}

	event := eventModel(rec)
	return &event, warning, nil
}

// Delete removes an event; the invites relation cascades.
func (s *EventService) Delete(ctx context.Context, eventID string) error {
	rec, err := s.app.FindRecordById("events", eventID)
	if err != nil {
		return ErrEventNotFound
	}
	return s.app.Delete(rec)
}

// Get returns one event with its current occupancy.
func (s *EventService) Get(ctx context.Context, eventID string) (*models.EventSummary, error) {
	rec, err := s.app.FindRecordById("events", eventID)
	if err != nil {
		return nil, ErrEventNotFound
	}
	return s.summarize(rec)
}

// ListUpcoming returns future events in start order plus the most recent
// past events.
func (s *EventService) ListUpcoming(ctx context.Context, pastLimit int) (upcoming, past []models.EventSummary, err error) {
	upcomingRecs, err := s.app.FindRecordsByFilter(
		"events",
		"starts_at >= @now",
		"starts_at",
		0,
		0,
	)
	if err != nil {
		return nil, nil, err
	}
	pastRecs, err := s.app.FindRecordsByFilter(
		"events",
		"starts_at < @now",
		"-starts_at",
		pastLimit,
		0,
	)
	if err != nil {
		return nil, nil, err
	}

	for _, rec := range upcomingRecs {
		summary, err := s.summarize(rec)
		if err != nil {
			return nil, nil, err
		}
		upcoming = append(upcoming, *summary)
	}
	for _, rec := range pastRecs {
		summary, err := s.summarize(rec)
		if err != nil {
			return nil, nil, err
		}
		past = append(past, *summary)
	}
	return upcoming, past, nil
}

func (s *EventService) summarize(rec *core.Record) (*models.EventSummary, error) {
	confirmed, err := s.confirmedCount(rec.Id)
	if err != nil {
		return nil, err
	}

	event := eventModel(rec)
	remaining := event.Capacity - confirmed
	if remaining < 0 {
		remaining = 0
	}
	return &models.EventSummary{
		Event:          event,
		ConfirmedCount: confirmed,
		SeatsRemaining: remaining,
	}, nil
}

func (s *EventService) confirmedCount(eventID string) (int, error) {
	var row struct {
		Confirmed int `db:"confirmed"`
	}
	err := s.app.DB().
		NewQuery("SELECT COUNT(*) AS confirmed FROM invites WHERE event = {:event} AND status = 'yes'").
		Bind(dbx.Params{"event": eventID}).
		One(&row)
	if err != nil {
		return 0, err
	}
	return row.Confirmed, nil
}
