package services

import (
	"context"
	"strings"
	"time"

	"screening-rsvp/allocator"
	"screening-rsvp/models"
	"screening-rsvp/monitoring"
	"screening-rsvp/utils"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
)

// InviteService covers the admin-facing invite lifecycle: bulk imports,
// self-service requests and their approval or rejection. Seat state is
// never touched here; that is the RSVP flow's job.
type InviteService struct {
	app   core.App
	locks *EventLocker
}

func NewInviteService(app core.App, locks *EventLocker) *InviteService {
	return &InviteService{
		app:   app,
		locks: locks,
	}
}

// BulkInvite imports a batch of invitees into an event. Existing invites
// are refreshed (name, and a rotated token while still pending), unknown
// emails become new pending invites.
func (s *InviteService) BulkInvite(ctx context.Context, eventID string, emails, names []string, newToken func() string) (*models.BulkInviteResult, error) {
	eventRec, err := s.app.FindRecordById("events", eventID)
	if err != nil {
		return nil, ErrEventNotFound
	}
	capacity := eventRec.GetInt("capacity")

	unlock := s.locks.Lock(eventID)
	defer unlock()

	var result allocator.BulkResult
	err = s.app.RunInTransaction(func(txApp core.App) error {
		roster, byID, err := loadRoster(txApp, eventID, capacity)
		if err != nil {
			return err
		}

		orig := snapshotRoster(roster)
		result = roster.BulkUpsert(emails, names, newToken, time.Now().UTC())

		return persistRosterChanges(txApp, eventID, roster, orig, byID)
	})
	if err != nil {
		return nil, err
	}

	monitoring.TrackBulkInvites(eventID, result.Created, result.Updated)

	return &models.BulkInviteResult{
		Created: result.Created,
		Updated: result.Updated,
	}, nil
}

// RequestInvite creates a self-service invite in requested state, pending
// admin approval. One request per (event, email).
func (s *InviteService) RequestInvite(ctx context.Context, eventID, name, email string) (*models.Invite, error) {
	if _, err := s.app.FindRecordById("events", eventID); err != nil {
		return nil, ErrEventNotFound
	}

	email = allocator.NormalizeEmail(email)
	if email == "" || name == "" {
		return nil, ErrInvalidEventInput
	}

	existing, err := s.app.FindFirstRecordByFilter(
		"invites",
		"event = {:event} && email = {:email}",
		dbx.Params{"event": eventID, "email": email},
	)
	if err == nil && existing != nil {
		return nil, ErrDuplicateInvite
	}

	collection, err := s.app.FindCollectionByNameOrId("invites")
	if err != nil {
		return nil, err
	}

	token, err := utils.GenerateToken()
	if err != nil {
		return nil, err
	}

	rec := core.NewRecord(collection)
	rec.Set("event", eventID)
	rec.Set("email", email)
	rec.Set("name", name)
	rec.Set("token", token)
	rec.Set("status", string(allocator.StatusRequested))
	rec.Set("seat_number", 0)

	if err := s.app.Save(rec); err != nil {
		return nil, err
	}

	invite := inviteModelFromRecord(rec)
	return &invite, nil
}

// ApproveInvite flips a requested invite to pending without touching seat
// state; the invitee may then RSVP through their link.
func (s *InviteService) ApproveInvite(ctx context.Context, inviteID string) (*models.Invite, error) {
	rec, err := s.app.FindRecordById("invites", inviteID)
	if err != nil {
		return nil, ErrInviteNotFound
	}
	if rec.GetString("status") != string(allocator.StatusRequested) {
		return nil, ErrNotRequested
	}

	rec.Set("status", string(allocator.StatusPending))
	if err := s.app.Save(rec); err != nil {
		return nil, err
	}

	invite := inviteModelFromRecord(rec)
	return &invite, nil
}

// RejectInvite deletes a requested invite. Invites that already entered
// the RSVP lifecycle can only disappear with their event.
func (s *InviteService) RejectInvite(ctx context.Context, inviteID string) error {
	rec, err := s.app.FindRecordById("invites", inviteID)
	if err != nil {
		return ErrInviteNotFound
	}
	if rec.GetString("status") != string(allocator.StatusRequested) {
		return ErrNotRequested
	}
	return s.app.Delete(rec)
}

// FindByToken resolves an invite through its capability token.
func (s *InviteService) FindByToken(ctx context.Context, token string) (*models.Invite, error) {
	rec, err := s.app.FindFirstRecordByFilter(
		"invites",
		"token = {:token}",
		dbx.Params{"token": token},
	)
	if err != nil {
		return nil, ErrInviteNotFound
	}
	invite := inviteModelFromRecord(rec)
	return &invite, nil
}

// ListByEvent returns an event's invites in creation order.
func (s *InviteService) ListByEvent(ctx context.Context, eventID string) ([]models.Invite, error) {
	records, err := s.app.FindRecordsByFilter(
		"invites",
		"event = {:event}",
		"created,id",
		0,
		0,
		dbx.Params{"event": eventID},
	)
	if err != nil {
		return nil, err
	}

	invites := make([]models.Invite, 0, len(records))
	for _, rec := range records {
		invites = append(invites, inviteModelFromRecord(rec))
	}
	return invites, nil
}

// SplitRecipients parses the admin's free-form email field: one address
// per line, comma or semicolon separated entries allowed.
func SplitRecipients(raw string) []string {
	raw = strings.ReplaceAll(raw, ";", "\n")
	raw = strings.ReplaceAll(raw, ",", "\n")

	var out []string
	for _, line := range strings.Split(raw, "\n") {
		if entry := strings.TrimSpace(line); entry != "" {
			out = append(out, entry)
		}
	}
	return out
}

// SplitLines parses the matching names field, one name per line.
func SplitLines(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		if entry := strings.TrimSpace(line); entry != "" {
			out = append(out, entry)
		}
	}
	return out
}
