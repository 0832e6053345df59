package handlers

import (
	"net/http"

	"screening-rsvp/security"
	"screening-rsvp/services"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

// InviteHandler serves the guest-facing RSVP endpoints. Guests only ever
// see their own invite, addressed by its opaque token.
type InviteHandler struct {
	rsvp    *services.RSVPService
	invites *services.InviteService
	events  *services.EventService
	limiter *security.RateLimiter
}

func NewInviteHandler(rsvp *services.RSVPService, invites *services.InviteService, events *services.EventService, limiter *security.RateLimiter) *InviteHandler {
	return &InviteHandler{rsvp: rsvp, invites: invites, events: events, limiter: limiter}
}

func (h *InviteHandler) RegisterRoutes(e *core.ServeEvent) {
	group := e.Router.Group("/api/v1/invites")
	group.BindFunc(h.limiter.BlockBots())
	group.BindFunc(h.limiter.Limit("rsvp"))
	group.GET("/{token}", h.getInvite)
	group.POST("/{token}/respond", h.respond)
}

// getInvite returns the invite together with its event so the RSVP page
// can render film details and remaining seats.
func (h *InviteHandler) getInvite(e *core.RequestEvent) error {
	token := e.Request.PathValue("token")

	invite, err := h.invites.FindByToken(e.Request.Context(), token)
	if err != nil {
		return apiError(err)
	}
	event, err := h.events.Get(e.Request.Context(), invite.EventID)
	if err != nil {
		return apiError(err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"invite": invite,
		"event":  event,
	})
}

type respondRequest struct {
	Status string `json:"status"`
	Name   string `json:"name"`
}

func (h *InviteHandler) respond(e *core.RequestEvent) error {
	token := e.Request.PathValue("token")

	var req respondRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request body.", err)
	}

	result, err := h.rsvp.Respond(e.Request.Context(), token, req.Status, req.Name)
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, result)
}
