package handlers

import (
	"net/http"

	"screening-rsvp/security"
	"screening-rsvp/services"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

const pastEventsShown = 3

// EventHandler serves the public event listing plus the self-service
// invite request and film suggestion endpoints.
type EventHandler struct {
	events   *services.EventService
	invites  *services.InviteService
	requests *services.ScreeningRequestService
	limiter  *security.RateLimiter
}

func NewEventHandler(events *services.EventService, invites *services.InviteService, requests *services.ScreeningRequestService, limiter *security.RateLimiter) *EventHandler {
	return &EventHandler{events: events, invites: invites, requests: requests, limiter: limiter}
}

func (h *EventHandler) RegisterRoutes(e *core.ServeEvent) {
	group := e.Router.Group("/api/v1")
	group.BindFunc(h.limiter.BlockBots())

	group.GET("/events", h.listEvents)
	group.GET("/events/{eventId}", h.getEvent)
	group.GET("/screening-requests", h.listRequests)

	limited := group.Group("")
	limited.BindFunc(h.limiter.Limit("public"))
	limited.POST("/events/{eventId}/request-invite", h.requestInvite)
	limited.POST("/screening-requests", h.submitRequest)
}

func (h *EventHandler) listEvents(e *core.RequestEvent) error {
	upcoming, past, err := h.events.ListUpcoming(e.Request.Context(), pastEventsShown)
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, map[string]any{
		"upcoming": upcoming,
		"past":     past,
	})
}

func (h *EventHandler) getEvent(e *core.RequestEvent) error {
	event, err := h.events.Get(e.Request.Context(), e.Request.PathValue("eventId"))
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, event)
}

type requestInviteRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// requestInvite lets an uninvited guest ask for a spot. The invite stays
// in requested state until an admin approves it.
func (h *EventHandler) requestInvite(e *core.RequestEvent) error {
	var req requestInviteRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request body.", err)
	}
	if req.Email == "" {
		return apis.NewBadRequestError("Email is required.", nil)
	}

	invite, err := h.invites.RequestInvite(e.Request.Context(), e.Request.PathValue("eventId"), req.Name, req.Email)
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusCreated, invite)
}

// listRequests shows visitors the approved suggestions so far.
func (h *EventHandler) listRequests(e *core.RequestEvent) error {
	requests, err := h.requests.List(e.Request.Context(), "approved")
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, map[string]any{"requests": requests})
}

func (h *EventHandler) submitRequest(e *core.RequestEvent) error {
	var req services.ScreeningRequestInput
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request body.", err)
	}

	request, err := h.requests.Submit(e.Request.Context(), req)
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusCreated, request)
}
