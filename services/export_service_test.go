package services

import (
	"encoding/csv"
	"strings"
	"testing"

	"screening-rsvp/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCSV(t *testing.T) {
	svc := NewExportService(nil, "https://movies.example.org/")

	invites := []models.Invite{
		{Email: "late@example.org", Status: "waitlist", Token: "tok-c"},
		{Email: "ada@example.org", Name: "Ada", Status: "yes", SeatNumber: 1, Token: "tok-a"},
		{Email: "quiet@example.org", Status: "pending", Token: "tok-d"},
		{Email: "bob@example.org", Status: "yes", SeatNumber: 2, Token: "tok-b"},
	}

	data, err := svc.buildCSV(invites)
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5)

	assert.Equal(t, []string{"name", "email", "status", "seat", "invite_link"}, rows[0])

	// Confirmed guests come first, waitlist next, then the rest.
	assert.Equal(t, []string{"Ada", "ada@example.org", "yes", "1", "https://movies.example.org/rsvp/tok-a"}, rows[1])
	assert.Equal(t, "bob@example.org", rows[2][1])
	assert.Equal(t, "waitlist", rows[3][2])
	assert.Equal(t, "pending", rows[4][2])

	// Unassigned guests get an empty seat column, not a zero.
	assert.Equal(t, "", rows[3][3])
}

func TestBuildCSV_Empty(t *testing.T) {
	svc := NewExportService(nil, "https://movies.example.org")

	data, err := svc.buildCSV(nil)
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestInviteLink(t *testing.T) {
	svc := NewExportService(nil, "https://movies.example.org/")
	assert.Equal(t, "https://movies.example.org/rsvp/tok", svc.InviteLink("tok"))
}
