package handlers

import (
	"errors"

	"screening-rsvp/allocator"
	"screening-rsvp/services"

	"github.com/pocketbase/pocketbase/apis"
)

// apiError translates service and allocator errors into API responses.
// Seat bookkeeping corruption is deliberately surfaced as a 500 so it
// shows up in logs instead of being papered over.
func apiError(err error) error {
	switch {
	case errors.Is(err, allocator.ErrInvalidStatus):
		return apis.NewBadRequestError("Unsupported RSVP status.", err)
	case errors.Is(err, allocator.ErrSeatInvariant):
		return apis.NewInternalServerError("Seat assignment state is inconsistent.", err)
	case errors.Is(err, allocator.ErrUnknownInvite),
		errors.Is(err, services.ErrInviteNotFound):
		return apis.NewNotFoundError("Invite not found.", err)
	case errors.Is(err, services.ErrEventNotFound):
		return apis.NewNotFoundError("Event not found.", err)
	case errors.Is(err, services.ErrRequestNotFound):
		return apis.NewNotFoundError("Request not found.", err)
	case errors.Is(err, services.ErrDuplicateInvite):
		return apis.NewBadRequestError("An invite for this email already exists.", err)
	case errors.Is(err, services.ErrNotRequested):
		return apis.NewBadRequestError("Invite is not awaiting approval.", err)
	case errors.Is(err, services.ErrInvalidEventInput):
		return apis.NewBadRequestError("Missing or invalid fields.", err)
	default:
		return apis.NewInternalServerError("Something went wrong.", err)
	}
}
