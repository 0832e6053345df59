package allocator

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testBase = time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC)

func makeInvite(id string, order int, status Status, seat int) Invite {
	return Invite{
		ID:         id,
		Email:      id + "@example.com",
		Token:      "tok-" + id,
		Status:     status,
		SeatNumber: seat,
		CreatedAt:  testBase.Add(time.Duration(order) * time.Minute),
	}
}

func assertInvariants(t *testing.T, r *Roster) {
	t.Helper()
	seats := map[int]string{}
	confirmed := 0
	for _, inv := range r.Invites {
		if inv.Status == StatusYes {
			confirmed++
			assert.GreaterOrEqual(t, inv.SeatNumber, 1, "confirmed invite %s must hold a seat", inv.ID)
			assert.LessOrEqual(t, inv.SeatNumber, r.Capacity, "seat of %s out of range", inv.ID)
			holder, dup := seats[inv.SeatNumber]
			assert.False(t, dup, "seat %d held by both %s and %s", inv.SeatNumber, holder, inv.ID)
			seats[inv.SeatNumber] = inv.ID
		} else {
			assert.Zero(t, inv.SeatNumber, "non-confirmed invite %s must not hold a seat", inv.ID)
		}
	}
	assert.LessOrEqual(t, confirmed, r.Capacity, "confirmed count exceeds capacity")
}

func TestNextFreeSeat_LowestFirst(t *testing.T) {
	r := NewRoster(4, []Invite{
		makeInvite("a", 0, StatusYes, 1),
		makeInvite("b", 1, StatusYes, 3),
		makeInvite("c", 2, StatusPending, 0),
	})

	seat, ok := r.NextFreeSeat("")
	require.True(t, ok)
	assert.Equal(t, 2, seat)
}

func TestNextFreeSeat_ExcludesOwnSeat(t *testing.T) {
	r := NewRoster(1, []Invite{
		makeInvite("a", 0, StatusYes, 1),
	})

	// Reconfirming invite is not blocked by the seat it already holds.
	seat, ok := r.NextFreeSeat("a")
	require.True(t, ok)
	assert.Equal(t, 1, seat)

	_, ok = r.NextFreeSeat("")
	assert.False(t, ok)
}

func TestRespond_InvalidStatus(t *testing.T) {
	r := NewRoster(2, []Invite{makeInvite("a", 0, StatusPending, 0)})

	for _, bad := range []Status{StatusPending, StatusRequested, "maybe", ""} {
		t.Run(string(bad), func(t *testing.T) {
			_, err := r.Respond("a", bad, testBase)
			assert.ErrorIs(t, err, ErrInvalidStatus)
			assert.Equal(t, StatusPending, r.Invites[0].Status, "no mutation on invalid status")
		})
	}
}

func TestRespond_UnknownInvite(t *testing.T) {
	r := NewRoster(2, []Invite{makeInvite("a", 0, StatusPending, 0)})

	_, err := r.Respond("ghost", StatusYes, testBase)
	assert.ErrorIs(t, err, ErrUnknownInvite)
}

func TestRespond_YesAssignsSeat(t *testing.T) {
	r := NewRoster(2, []Invite{
		makeInvite("a", 0, StatusPending, 0),
		makeInvite("b", 1, StatusPending, 0),
	})

	res, err := r.Respond("a", StatusYes, testBase)
	require.NoError(t, err)
	assert.Equal(t, StatusYes, res.Status)
	assert.Equal(t, 1, res.Seat)

	res, err = r.Respond("b", StatusYes, testBase)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Seat)

	assertInvariants(t, r)
}

func TestRespond_YesOverflowRedirectsToWaitlist(t *testing.T) {
	r := NewRoster(1, []Invite{
		makeInvite("x", 0, StatusYes, 1),
		makeInvite("y", 1, StatusPending, 0),
	})

	res, err := r.Respond("y", StatusYes, testBase)
	require.NoError(t, err, "a full event is a normal outcome")
	assert.Equal(t, StatusWaitlist, res.Status)
	assert.Zero(t, res.Seat)
	assert.Zero(t, r.Invites[1].SeatNumber)
	assertInvariants(t, r)
}

func TestRespond_ReconfirmKeepsLowestSeat(t *testing.T) {
	r := NewRoster(1, []Invite{makeInvite("a", 0, StatusYes, 1)})

	res, err := r.Respond("a", StatusYes, testBase)
	require.NoError(t, err)
	assert.Equal(t, StatusYes, res.Status)
	assert.Equal(t, 1, res.Seat)
	assertInvariants(t, r)
}

func TestRespond_SeatReuseAfterDecline(t *testing.T) {
	r := NewRoster(1, []Invite{
		makeInvite("x", 0, StatusYes, 1),
		makeInvite("y", 1, StatusPending, 0),
	})

	res, err := r.Respond("x", StatusNo, testBase)
	require.NoError(t, err)
	assert.Equal(t, StatusNo, res.Status)
	assert.Empty(t, res.Promoted, "nobody waitlisted yet")

	res, err = r.Respond("y", StatusYes, testBase)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Seat, "vacated seat 1 is reused")
	assertInvariants(t, r)
}

func TestRespond_DeclineFromConfirmedPromotesWaitlist(t *testing.T) {
	r := NewRoster(2, []Invite{
		makeInvite("x", 0, StatusYes, 1),
		makeInvite("y", 1, StatusYes, 2),
		makeInvite("z", 2, StatusWaitlist, 0),
		makeInvite("w", 3, StatusWaitlist, 0),
	})

	res, err := r.Respond("x", StatusNo, testBase)
	require.NoError(t, err)
	require.Len(t, res.Promoted, 1)
	assert.Equal(t, "z", res.Promoted[0].ID, "earliest-created waitlisted invite is promoted")
	assert.Equal(t, 1, res.Promoted[0].SeatNumber)

	// w stays waitlisted.
	assert.Equal(t, StatusWaitlist, r.Invites[3].Status)
	assertInvariants(t, r)
}

func TestRespond_DeclineFromWaitlistDoesNotPromote(t *testing.T) {
	r := NewRoster(1, []Invite{
		makeInvite("x", 0, StatusYes, 1),
		makeInvite("y", 1, StatusWaitlist, 0),
		makeInvite("z", 2, StatusWaitlist, 0),
	})

	res, err := r.Respond("y", StatusNo, testBase)
	require.NoError(t, err)
	assert.Empty(t, res.Promoted, "no seat was freed")
	assert.Equal(t, StatusWaitlist, r.Invites[2].Status)
}

func TestRespond_WaitlistRequest(t *testing.T) {
	r := NewRoster(3, []Invite{makeInvite("a", 0, StatusYes, 1)})

	res, err := r.Respond("a", StatusWaitlist, testBase)
	require.NoError(t, err)
	assert.Equal(t, StatusWaitlist, res.Status)
	assert.Zero(t, r.Invites[0].SeatNumber, "seat released when moving to waitlist")
	assert.Equal(t, testBase, r.Invites[0].RespondedAt)
}

func TestNextFreeSeat_NoneWhenFull(t *testing.T) {
	r := NewRoster(2, []Invite{
		makeInvite("a", 0, StatusYes, 1),
		makeInvite("b", 1, StatusYes, 2),
	})

	seat, ok := r.NextFreeSeat("")
	assert.False(t, ok)
	assert.Zero(t, seat)
}

func TestPromoteWaitlist_FairnessByCreationOrder(t *testing.T) {
	// B responded to the waitlist before A, but A was invited first.
	a := makeInvite("a", 0, StatusWaitlist, 0)
	a.RespondedAt = testBase.Add(time.Hour)
	b := makeInvite("b", 1, StatusWaitlist, 0)
	b.RespondedAt = testBase

	r := NewRoster(1, []Invite{b, a})

	promoted, err := r.PromoteWaitlist(testBase.Add(2 * time.Hour))
	require.NoError(t, err)
	require.Len(t, promoted, 1)
	assert.Equal(t, "a", promoted[0].ID, "creation order wins, not response order")
}

func TestPromoteWaitlist_TieBreakByID(t *testing.T) {
	same := testBase
	r := NewRoster(1, []Invite{
		{ID: "b", Status: StatusWaitlist, CreatedAt: same},
		{ID: "a", Status: StatusWaitlist, CreatedAt: same},
	})

	promoted, err := r.PromoteWaitlist(testBase)
	require.NoError(t, err)
	require.Len(t, promoted, 1)
	assert.Equal(t, "a", promoted[0].ID)
}

func TestPromoteWaitlist_Idempotent(t *testing.T) {
	r := NewRoster(2, []Invite{
		makeInvite("x", 0, StatusNo, 0),
		makeInvite("z", 1, StatusWaitlist, 0),
		makeInvite("w", 2, StatusWaitlist, 0),
	})

	first, err := r.PromoteWaitlist(testBase)
	require.NoError(t, err)
	assert.Len(t, first, 2)

	second, err := r.PromoteWaitlist(testBase)
	require.NoError(t, err)
	assert.Empty(t, second, "second sweep with no capacity change promotes nobody")
	assertInvariants(t, r)
}

func TestPromoteWaitlist_StopsAtCapacity(t *testing.T) {
	r := NewRoster(2, []Invite{
		makeInvite("a", 0, StatusYes, 1),
		makeInvite("b", 1, StatusWaitlist, 0),
		makeInvite("c", 2, StatusWaitlist, 0),
		makeInvite("d", 3, StatusWaitlist, 0),
	})

	promoted, err := r.PromoteWaitlist(testBase)
	require.NoError(t, err)
	require.Len(t, promoted, 1)
	assert.Equal(t, "b", promoted[0].ID)
	assert.Equal(t, 2, promoted[0].SeatNumber)
	assertInvariants(t, r)
}

func TestPromoteWaitlist_SkipsSweepWhenOverbooked(t *testing.T) {
	// An inconsistent roster with more confirmed invites than capacity:
	// available capacity clamps to zero and the sweep promotes nobody
	// instead of handing out further seats.
	r := &Roster{
		Capacity: 1,
		Invites: []Invite{
			{ID: "a", Status: StatusYes, SeatNumber: 1, CreatedAt: testBase},
			{ID: "b", Status: StatusYes, SeatNumber: 1, CreatedAt: testBase.Add(time.Minute)},
			{ID: "c", Status: StatusWaitlist, CreatedAt: testBase.Add(2 * time.Minute)},
		},
	}

	promoted, err := r.PromoteWaitlist(testBase)
	require.NoError(t, err)
	assert.Empty(t, promoted)
}

func TestRespond_RandomSequencesHoldInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	statuses := []Status{StatusYes, StatusNo, StatusWaitlist}

	for _, capacity := range []int{1, 2, 3, 7} {
		for n := 1; n <= 12; n += 3 {
			t.Run(fmt.Sprintf("cap%d_n%d", capacity, n), func(t *testing.T) {
				invites := make([]Invite, n)
				for i := range invites {
					invites[i] = makeInvite(fmt.Sprintf("inv%02d", i), i, StatusPending, 0)
				}
				r := NewRoster(capacity, invites)

				for step := 0; step < 200; step++ {
					id := fmt.Sprintf("inv%02d", rng.Intn(n))
					_, err := r.Respond(id, statuses[rng.Intn(len(statuses))], testBase.Add(time.Duration(step)*time.Second))
					require.NoError(t, err)
					assertInvariants(t, r)
				}
			})
		}
	}
}

func TestInvite_DisplayName(t *testing.T) {
	inv := Invite{Email: "kim@example.com"}
	assert.Equal(t, "kim@example.com", inv.DisplayName())

	inv.Name = "Kim"
	assert.Equal(t, "Kim", inv.DisplayName())
}
