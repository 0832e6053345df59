package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"

	"screening-rsvp/models"
)

// ExportService renders a guest list as CSV for the door staff. Links are
// built from the public base URL so they work outside the LAN.
type ExportService struct {
	invites       *InviteService
	publicBaseURL string
}

func NewExportService(invites *InviteService, publicBaseURL string) *ExportService {
	return &ExportService{
		invites:       invites,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// GuestListCSV returns the CSV bytes for one event, confirmed guests
// first, then waitlist, then the rest.
func (s *ExportService) GuestListCSV(ctx context.Context, eventID string) ([]byte, error) {
	invites, err := s.invites.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return s.buildCSV(invites)
}

func (s *ExportService) buildCSV(invites []models.Invite) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"name", "email", "status", "seat", "invite_link"}); err != nil {
		return nil, err
	}

	order := []string{"yes", "waitlist", "pending", "requested", "no"}
	for _, status := range order {
		for _, inv := range invites {
			if inv.Status != status {
				continue
			}
			seat := ""
			if inv.SeatNumber > 0 {
				seat = fmt.Sprintf("%d", inv.SeatNumber)
			}
			row := []string{
				inv.DisplayName(),
				inv.Email,
				inv.Status,
				seat,
				s.InviteLink(inv.Token),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// InviteLink returns the public RSVP URL for a token.
func (s *ExportService) InviteLink(token string) string {
	return s.publicBaseURL + "/rsvp/" + token
}
