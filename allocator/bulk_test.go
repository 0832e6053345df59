package allocator

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialTokens() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("tok-%03d", n)
	}
}

func TestBulkUpsert_CreatesPendingInvites(t *testing.T) {
	r := NewRoster(5, nil)

	res := r.BulkUpsert(
		[]string{" Ada@Example.com ", "bea@example.com"},
		[]string{"Ada", "Bea"},
		sequentialTokens(),
		testBase,
	)

	assert.Equal(t, 2, res.Created)
	assert.Equal(t, 0, res.Updated)
	require.Len(t, r.Invites, 2)

	for _, inv := range r.Invites {
		assert.Equal(t, StatusPending, inv.Status)
		assert.NotEmpty(t, inv.Token)
		assert.Zero(t, inv.SeatNumber)
	}
	assert.Equal(t, "ada@example.com", r.Invites[0].Email, "email normalized")
	assert.Equal(t, "Ada", r.Invites[0].Name)
}

func TestBulkUpsert_DeduplicatesInput(t *testing.T) {
	r := NewRoster(5, nil)

	res := r.BulkUpsert(
		[]string{"ada@example.com", "ADA@example.com", " ada@example.com", ""},
		nil,
		sequentialTokens(),
		testBase,
	)

	assert.Equal(t, 1, res.Created)
	assert.Len(t, r.Invites, 1)
}

func TestBulkUpsert_NamesPairWithSortedEmails(t *testing.T) {
	r := NewRoster(5, nil)

	// Emails arrive unsorted; names must be supplied in the sorted order
	// of the deduplicated set.
	r.BulkUpsert(
		[]string{"zoe@example.com", "ada@example.com"},
		[]string{"Ada", "Zoe"},
		sequentialTokens(),
		testBase,
	)

	byEmail := map[string]string{}
	for _, inv := range r.Invites {
		byEmail[inv.Email] = inv.Name
	}
	assert.Equal(t, "Ada", byEmail["ada@example.com"])
	assert.Equal(t, "Zoe", byEmail["zoe@example.com"])
}

func TestBulkUpsert_RotatesTokenOnlyWhilePending(t *testing.T) {
	pending := makeInvite("p", 0, StatusPending, 0)
	confirmed := makeInvite("c", 1, StatusYes, 1)
	pending.Email = "pending@example.com"
	confirmed.Email = "confirmed@example.com"

	r := NewRoster(5, []Invite{pending, confirmed})

	res := r.BulkUpsert(
		[]string{"pending@example.com", "confirmed@example.com"},
		nil,
		sequentialTokens(),
		testBase.Add(time.Hour),
	)

	assert.Equal(t, 0, res.Created)
	assert.Equal(t, 2, res.Updated)

	for _, inv := range r.Invites {
		switch inv.Email {
		case "pending@example.com":
			assert.NotEqual(t, "tok-p", inv.Token, "pending invite gets a fresh token")
		case "confirmed@example.com":
			assert.Equal(t, "tok-c", inv.Token, "responded invite keeps its link")
			assert.Equal(t, 1, inv.SeatNumber, "seat state untouched by bulk update")
		}
	}
}

func TestBulkUpsert_ResubmissionIsIdempotent(t *testing.T) {
	r := NewRoster(5, nil)
	emails := []string{"ada@example.com", "bea@example.com"}
	names := []string{"Ada", "Bea"}

	first := r.BulkUpsert(emails, names, sequentialTokens(), testBase)
	assert.Equal(t, 2, first.Created)

	second := r.BulkUpsert(emails, names, sequentialTokens(), testBase.Add(time.Minute))
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 2, second.Updated)
	assert.Len(t, r.Invites, 2)
}

func TestBulkUpsert_DoesNotTouchSeats(t *testing.T) {
	r := NewRoster(1, []Invite{makeInvite("a", 0, StatusYes, 1)})
	r.Invites[0].Email = "a@example.com"

	r.BulkUpsert([]string{"new@example.com"}, nil, sequentialTokens(), testBase.Add(time.Hour))

	assert.Equal(t, 1, r.ConfirmedCount())
	assert.Zero(t, r.AvailableSeats())
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "kim@example.com", NormalizeEmail("  Kim@Example.COM "))
	assert.Equal(t, "", NormalizeEmail("   "))
}
