package services

import (
	"screening-rsvp/allocator"
	"screening-rsvp/models"

	"github.com/pocketbase/pocketbase/core"
)

func inviteFromRecord(rec *core.Record) allocator.Invite {
	return allocator.Invite{
		ID:          rec.Id,
		Email:       rec.GetString("email"),
		Name:        rec.GetString("name"),
		Token:       rec.GetString("token"),
		Status:      allocator.Status(rec.GetString("status")),
		SeatNumber:  rec.GetInt("seat_number"),
		RespondedAt: rec.GetDateTime("responded_at").Time(),
		CreatedAt:   rec.GetDateTime("created").Time(),
	}
}

func applyInvite(rec *core.Record, inv allocator.Invite) {
	rec.Set("email", inv.Email)
	rec.Set("name", inv.Name)
	rec.Set("token", inv.Token)
	rec.Set("status", string(inv.Status))
	rec.Set("seat_number", inv.SeatNumber)
	if inv.RespondedAt.IsZero() {
		rec.Set("responded_at", "")
	} else {
		rec.Set("responded_at", inv.RespondedAt)
	}
}

func inviteModel(eventID string, inv allocator.Invite) models.Invite {
	m := models.Invite{
		ID:         inv.ID,
		EventID:    eventID,
		Email:      inv.Email,
		Name:       inv.Name,
		Token:      inv.Token,
		Status:     string(inv.Status),
		SeatNumber: inv.SeatNumber,
		CreatedAt:  inv.CreatedAt,
	}
	if !inv.RespondedAt.IsZero() {
		t := inv.RespondedAt
		m.RespondedAt = &t
	}
	return m
}

func inviteModelFromRecord(rec *core.Record) models.Invite {
	return inviteModel(rec.GetString("event"), inviteFromRecord(rec))
}

func eventModel(rec *core.Record) models.Event {
	return models.Event{
		ID:            rec.Id,
		Title:         rec.GetString("title"),
		LetterboxdURL: rec.GetString("letterboxd_url"),
		PosterURL:     rec.GetString("poster_url"),
		Synopsis:      rec.GetString("synopsis"),
		StartsAt:      rec.GetDateTime("starts_at").Time(),
		Location:      rec.GetString("location"),
		Capacity:      rec.GetInt("capacity"),
		Notes:         rec.GetString("notes"),
		CreatedAt:     rec.GetDateTime("created").Time(),
	}
}

func applyEventInput(rec *core.Record, in EventInput) {
	rec.Set("title", in.Title)
	rec.Set("letterboxd_url", in.LetterboxdURL)
	rec.Set("poster_url", in.PosterURL)
	rec.Set("synopsis", in.Synopsis)
	rec.Set("starts_at", in.StartsAt)
	rec.Set("location", in.Location)
	rec.Set("capacity", in.Capacity)
	rec.Set("notes", in.Notes)
}

func screeningRequestModel(rec *core.Record) models.ScreeningRequest {
	return models.ScreeningRequest{
		ID:             rec.Id,
		Title:          rec.GetString("title"),
		LetterboxdURL:  rec.GetString("letterboxd_url"),
		PosterURL:      rec.GetString("poster_url"),
		RequesterName:  rec.GetString("requester_name"),
		RequesterEmail: rec.GetString("requester_email"),
		Status:         rec.GetString("status"),
		CreatedAt:      rec.GetDateTime("created").Time(),
	}
}
