package services

import (
	"context"

	"screening-rsvp/models"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
)

// ScreeningRequestService handles guest-submitted film suggestions. An
// approved suggestion simply marks the record; turning it into an event
// is a separate admin action.
type ScreeningRequestService struct {
	app      core.App
	metadata *MetadataService
}

func NewScreeningRequestService(app core.App, metadata *MetadataService) *ScreeningRequestService {
	return &ScreeningRequestService{app: app, metadata: metadata}
}

type ScreeningRequestInput struct {
	Title          string `json:"title"`
	LetterboxdURL  string `json:"letterboxd_url"`
	RequesterName  string `json:"requester_name"`
	RequesterEmail string `json:"requester_email"`
}

// Submit stores a new suggestion in pending state. The Letterboxd link is
// optional; when present it fills in a missing title and poster.
func (s *ScreeningRequestService) Submit(ctx context.Context, in ScreeningRequestInput) (*models.ScreeningRequest, error) {
	if in.Title == "" && in.LetterboxdURL == "" {
		return nil, ErrInvalidEventInput
	}

	posterURL := ""
	if in.LetterboxdURL != "" {
		normalized, meta, _ := s.metadata.Resolve(ctx, in.LetterboxdURL)
		in.LetterboxdURL = normalized
		if meta != nil {
			if in.Title == "" {
				in.Title = meta.Title
			}
			posterURL = meta.PosterURL
		}
	}
	if in.Title == "" {
		in.Title = in.LetterboxdURL
	}

	collection, err := s.app.FindCollectionByNameOrId("screening_requests")
	if err != nil {
		return nil, err
	}

	rec := core.NewRecord(collection)
	rec.Set("title", in.Title)
	rec.Set("letterboxd_url", in.LetterboxdURL)
	rec.Set("poster_url", posterURL)
	rec.Set("requester_name", in.RequesterName)
	rec.Set("requester_email", in.RequesterEmail)
	rec.Set("status", "pending")
	if err := s.app.Save(rec); err != nil {
		return nil, err
	}

	request := screeningRequestModel(rec)
	return &request, nil
}

// List returns suggestions newest first, optionally filtered by status.
func (s *ScreeningRequestService) List(ctx context.Context, status string) ([]models.ScreeningRequest, error) {
	filter := "id != ''"
	params := dbx.Params{}
	if status != "" {
		filter = "status = {:status}"
		params["status"] = status
	}

	recs, err := s.app.FindRecordsByFilter("screening_requests", filter, "-created", 0, 0, params)
	if err != nil {
		return nil, err
	}

	requests := make([]models.ScreeningRequest, 0, len(recs))
	for _, rec := range recs {
		requests = append(requests, screeningRequestModel(rec))
	}
	return requests, nil
}

// Approve marks a pending suggestion as approved.
func (s *ScreeningRequestService) Approve(ctx context.Context, requestID string) (*models.ScreeningRequest, error) {
	return s.setStatus(requestID, "approved")
}

// Reject marks a pending suggestion as rejected.
func (s *ScreeningRequestService) Reject(ctx context.Context, requestID string) (*models.ScreeningRequest, error) {
	return s.setStatus(requestID, "rejected")
}

func (s *ScreeningRequestService) setStatus(requestID, status string) (*models.ScreeningRequest, error) {
	rec, err := s.app.FindRecordById("screening_requests", requestID)
	if err != nil {
		return nil, ErrRequestNotFound
	}

	rec.Set("status", status)
	if err := s.app.Save(rec); err != nil {
		return nil, err
	}

	request := screeningRequestModel(rec)
	return &request, nil
}
