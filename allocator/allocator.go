// Package allocator implements the seat allocation and waitlist promotion
// engine for capacity-limited events. It is pure computation over an
// in-memory roster of one event's invites: the caller loads the invites,
// applies an operation and persists whatever changed. Transactional
// isolation per event is the caller's job.
package allocator

import (
	"errors"
	"sort"
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusRequested Status = "requested"
	StatusYes       Status = "yes"
	StatusWaitlist  Status = "waitlist"
	StatusNo        Status = "no"
)

// ValidResponse reports whether s is one of the statuses an invitee may
// submit through an RSVP. Pending and requested are lifecycle states only.
func ValidResponse(s Status) bool {
	return s == StatusYes || s == StatusNo || s == StatusWaitlist
}

var (
	// ErrInvalidStatus is returned when a response carries a status outside
	// {yes, no, waitlist}. Nothing is mutated.
	ErrInvalidStatus = errors.New("allocator: status must be yes, no or waitlist")

	// ErrUnknownInvite is returned when the acting invite is not part of
	// the roster.
	ErrUnknownInvite = errors.New("allocator: invite not found in roster")

	// ErrSeatInvariant signals that the free-seat scan failed while the
	// capacity counter said a seat should exist. The roster the caller
	// loaded is inconsistent (duplicate seats, seats out of range) and the
	// operation must be aborted rather than persisted.
	ErrSeatInvariant = errors.New("allocator: no free seat despite available capacity")
)

// Invite is one invitee's record for one event. SeatNumber is 0 unless
// Status is yes.
type Invite struct {
	ID          string
	Email       string
	Name        string
	Token       string
	Status      Status
	SeatNumber  int
	RespondedAt time.Time
	CreatedAt   time.Time
}

// DisplayName returns the name when set, the email otherwise.
func (i Invite) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	return i.Email
}

// Roster is the full invite list of one event. Invites are kept ordered by
// creation time (ID as tie-break), which defines waitlist promotion
// fairness: first invited, first promoted.
type Roster struct {
	Capacity int
	Invites  []Invite
}

// NewRoster copies invites into a roster sorted by creation order.
func NewRoster(capacity int, invites []Invite) *Roster {
	r := &Roster{
		Capacity: capacity,
		Invites:  append([]Invite(nil), invites...),
	}
	r.sortByCreation()
	return r
}

func (r *Roster) sortByCreation() {
	sort.SliceStable(r.Invites, func(a, b int) bool {
		if !r.Invites[a].CreatedAt.Equal(r.Invites[b].CreatedAt) {
			return r.Invites[a].CreatedAt.Before(r.Invites[b].CreatedAt)
		}
		return r.Invites[a].ID < r.Invites[b].ID
	})
}

// ConfirmedCount returns the number of invites holding a seat.
func (r *Roster) ConfirmedCount() int {
	count := 0
	for i := range r.Invites {
		if r.Invites[i].Status == StatusYes {
			count++
		}
	}
	return count
}

// AvailableSeats returns the remaining capacity, never negative.
func (r *Roster) AvailableSeats() int {
	free := r.Capacity - r.ConfirmedCount()
	if free < 0 {
		return 0
	}
	return free
}

// NextFreeSeat scans seat numbers 1..capacity ascending and returns the
// first one not held by a confirmed invite. excludeID removes the acting
// invite's own seat from the taken set, so an invite reconfirming is not
// blocked by its previous seat. Vacated low seats are reused before higher
// numbers are handed out.
func (r *Roster) NextFreeSeat(excludeID string) (int, bool) {
	taken := make(map[int]struct{}, r.Capacity)
	for i := range r.Invites {
		inv := &r.Invites[i]
		if inv.Status == StatusYes && inv.SeatNumber > 0 && inv.ID != excludeID {
			taken[inv.SeatNumber] = struct{}{}
		}
	}
	for seat := 1; seat <= r.Capacity; seat++ {
		if _, held := taken[seat]; !held {
			return seat, true
		}
	}
	return 0, false
}

// RespondResult reports the outcome of one RSVP submission. Seat is 0 when
// no seat was assigned. Promoted lists the waitlisted invites that gained a
// seat as a side effect of a cancellation, in promotion order.
type RespondResult struct {
	Status   Status
	Seat     int
	Promoted []Invite
}

// Respond applies one RSVP submission for the given invite and returns the
// resulting state. Resubmission is allowed and re-runs the full transition,
// including promotion side effects. A full event silently redirects a yes
// to the waitlist; that is a normal outcome, not an error.
func (r *Roster) Respond(inviteID string, requested Status, now time.Time) (RespondResult, error) {
	if !ValidResponse(requested) {
		return RespondResult{}, ErrInvalidStatus
	}

	idx := r.indexOf(inviteID)
	if idx < 0 {
		return RespondResult{}, ErrUnknownInvite
	}
	inv := &r.Invites[idx]

	switch requested {
	case StatusWaitlist:
		inv.Status = StatusWaitlist
		inv.SeatNumber = 0
		inv.RespondedAt = now
		return RespondResult{Status: StatusWaitlist}, nil

	case StatusYes:
		otherConfirmed := 0
		for i := range r.Invites {
			if r.Invites[i].Status == StatusYes && r.Invites[i].ID != inviteID {
				otherConfirmed++
			}
		}
		if otherConfirmed >= r.Capacity {
			inv.Status = StatusWaitlist
			inv.SeatNumber = 0
			inv.RespondedAt = now
			return RespondResult{Status: StatusWaitlist}, nil
		}
		seat, ok := r.NextFreeSeat(inviteID)
		if !ok {
			// The count said a seat exists but the scan found none: the
			// loaded roster violates the seat invariants.
			return RespondResult{}, ErrSeatInvariant
		}
		inv.Status = StatusYes
		inv.SeatNumber = seat
		inv.RespondedAt = now
		return RespondResult{Status: StatusYes, Seat: seat}, nil

	default: // StatusNo
		wasConfirmed := inv.Status == StatusYes
		inv.Status = StatusNo
		inv.SeatNumber = 0
		inv.RespondedAt = now

		var promoted []Invite
		if wasConfirmed {
			var err error
			promoted, err = r.PromoteWaitlist(now)
			if err != nil {
				return RespondResult{}, err
			}
		}
		return RespondResult{Status: StatusNo, Promoted: promoted}, nil
	}
}

// PromoteWaitlist sweeps the roster in creation order and assigns freed
// seats to waitlisted invites until capacity runs out. Running it again
// with no intervening cancellation promotes nobody.
func (r *Roster) PromoteWaitlist(now time.Time) ([]Invite, error) {
	var promoted []Invite
	for i := range r.Invites {
		if r.AvailableSeats() <= 0 {
			break
		}
		if r.Invites[i].Status != StatusWaitlist {
			continue
		}
		seat, ok := r.NextFreeSeat("")
		if !ok {
			return promoted, ErrSeatInvariant
		}
		r.Invites[i].Status = StatusYes
		r.Invites[i].SeatNumber = seat
		r.Invites[i].RespondedAt = now
		promoted = append(promoted, r.Invites[i])
	}
	return promoted, nil
}

func (r *Roster) indexOf(inviteID string) int {
	for i := range r.Invites {
		if r.Invites[i].ID == inviteID {
			return i
		}
	}
	return -1
}
