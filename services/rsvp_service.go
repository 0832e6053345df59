package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"screening-rsvp/allocator"
	"screening-rsvp/models"
	"screening-rsvp/monitoring"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	pubnub "github.com/pubnub/go"
)

// RSVPService runs the transactional load-compute-store cycle around the
// allocator: it loads the event's full invite list, applies one RSVP, and
// persists exactly the invites that changed. A per-event lock plus the
// surrounding transaction gives single-writer-per-event semantics.
type RSVPService struct {
	app    core.App
	pubnub *pubnub.PubNub
	locks  *EventLocker
}

func NewRSVPService(app core.App, pn *pubnub.PubNub, locks *EventLocker) *RSVPService {
	return &RSVPService{
		app:    app,
		pubnub: pn,
		locks:  locks,
	}
}

// Respond applies one RSVP submission addressed by invite token. A
// non-empty name updates the invitee's display name alongside the status
// change. The returned result carries the structured outcome for the
// caller to caption.
func (s *RSVPService) Respond(ctx context.Context, token, requestedStatus, name string) (*models.RSVPResult, error) {
	inviteRec, err := s.app.FindFirstRecordByFilter(
		"invites",
		"token = {:token}",
		dbx.Params{"token": token},
	)
	if err != nil {
		return nil, ErrInviteNotFound
	}

	eventID := inviteRec.GetString("event")
	eventRec, err := s.app.FindRecordById("events", eventID)
	if err != nil {
		return nil, ErrEventNotFound
	}
	capacity := eventRec.GetInt("capacity")

	unlock := s.locks.Lock(eventID)
	defer unlock()

	var result allocator.RespondResult
	var promoted []models.Invite
	var confirmed, waitlisted int

	err = s.app.RunInTransaction(func(txApp core.App) error {
		roster, byID, err := loadRoster(txApp, eventID, capacity)
		if err != nil {
			return err
		}

		if name != "" {
			if idx := rosterIndex(roster, inviteRec.Id); idx >= 0 {
				roster.Invites[idx].Name = name
			}
		}

		orig := snapshotRoster(roster)
		result, err = roster.Respond(inviteRec.Id, allocator.Status(requestedStatus), time.Now().UTC())
		if err != nil {
			return err
		}

		if err := persistRosterChanges(txApp, eventID, roster, orig, byID); err != nil {
			return err
		}

		for _, inv := range result.Promoted {
			promoted = append(promoted, inviteModel(eventID, inv))
		}
		confirmed = roster.ConfirmedCount()
		waitlisted = countStatus(roster, allocator.StatusWaitlist)
		return nil
	})
	if err != nil {
		return nil, err
	}

	monitoring.TrackRSVP(eventID, string(result.Status))
	monitoring.TrackPromotions(eventID, len(promoted))
	monitoring.SetOccupancy(eventID, confirmed, waitlisted)

	s.notifyPromotions(eventID, promoted)
	s.notifyAvailability(eventID, capacity-confirmed)

	return &models.RSVPResult{
		Status:         string(result.Status),
		SeatNumber:     result.Seat,
		Promoted:       promoted,
		SeatsRemaining: capacity - confirmed,
	}, nil
}

// notifyPromotions tells each promoted invitee about their new seat on
// their private invite channel. Delivery is best effort.
func (s *RSVPService) notifyPromotions(eventID string, promoted []models.Invite) {
	if s.pubnub == nil {
		return
	}
	for _, inv := range promoted {
		channel := fmt.Sprintf("invite-%s", inv.Token)
		_, _, err := s.pubnub.Publish().
			Channel(channel).
			Message(map[string]any{
				"type":        "waitlist_promoted",
				"event_id":    eventID,
				"seat_number": inv.SeatNumber,
			}).
			Execute()
		if err != nil {
			slog.Error("failed to publish promotion notice",
				"eventID", eventID,
				"inviteID", inv.ID,
				"error", err,
			)
		}
	}
}

// notifyAvailability broadcasts the remaining seat count on the event
// channel so open invite pages can refresh their counters.
func (s *RSVPService) notifyAvailability(eventID string, seatsRemaining int) {
	if s.pubnub == nil {
		return
	}
	if seatsRemaining < 0 {
		seatsRemaining = 0
	}
	_, _, err := s.pubnub.Publish().
		Channel(fmt.Sprintf("event-%s", eventID)).
		Message(map[string]any{
			"type":            "availability",
			"event_id":        eventID,
			"seats_remaining": seatsRemaining,
		}).
		Execute()
	if err != nil {
		slog.Error("failed to publish availability update", "eventID", eventID, "error", err)
	}
}

// loadRoster reads the event's invites ordered by creation and builds the
// allocator roster plus an id->record index for persisting changes.
func loadRoster(txApp core.App, eventID string, capacity int) (*allocator.Roster, map[string]*core.Record, error) {
	records, err := txApp.FindRecordsByFilter(
		"invites",
		"event = {:event}",
		"created,id",
		0,
		0,
		dbx.Params{"event": eventID},
	)
	if err != nil {
		return nil, nil, err
	}

	byID := make(map[string]*core.Record, len(records))
	invites := make([]allocator.Invite, 0, len(records))
	for _, rec := range records {
		byID[rec.Id] = rec
		invites = append(invites, inviteFromRecord(rec))
	}

	return allocator.NewRoster(capacity, invites), byID, nil
}

// snapshotRoster captures the pre-operation state keyed by invite id so
// persistRosterChanges can write only the delta.
func snapshotRoster(r *allocator.Roster) map[string]allocator.Invite {
	snap := make(map[string]allocator.Invite, len(r.Invites))
	for _, inv := range r.Invites {
		snap[inv.ID] = inv
	}
	return snap
}

// persistRosterChanges saves invites whose state diverged from the
// snapshot and creates records for invites added to the roster.
func persistRosterChanges(txApp core.App, eventID string, roster *allocator.Roster, orig map[string]allocator.Invite, byID map[string]*core.Record) error {
	var collection *core.Collection

	for i := range roster.Invites {
		inv := roster.Invites[i]

		if inv.ID == "" {
			if collection == nil {
				var err error
				collection, err = txApp.FindCollectionByNameOrId("invites")
				if err != nil {
					return err
				}
			}
			rec := core.NewRecord(collection)
			rec.Set("event", eventID)
			applyInvite(rec, inv)
			if err := txApp.Save(rec); err != nil {
				return err
			}
			roster.Invites[i].ID = rec.Id
			continue
		}

		before, known := orig[inv.ID]
		if known && before == inv {
			continue
		}
		rec, ok := byID[inv.ID]
		if !ok {
			continue
		}
		applyInvite(rec, inv)
		if err := txApp.Save(rec); err != nil {
			return err
		}
	}
	return nil
}

func rosterIndex(r *allocator.Roster, inviteID string) int {
	for i := range r.Invites {
		if r.Invites[i].ID == inviteID {
			return i
		}
	}
	return -1
}

func countStatus(r *allocator.Roster, status allocator.Status) int {
	count := 0
	for i := range r.Invites {
		if r.Invites[i].Status == status {
			count++
		}
	}
	return count
}
