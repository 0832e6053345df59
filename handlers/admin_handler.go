package handlers

import (
	"net/http"

	"screening-rsvp/services"
	"screening-rsvp/utils"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

// AdminHandler groups everything the host does: event CRUD, invite
// management, guest list export and suggestion moderation. All routes
// require a superuser session.
type AdminHandler struct {
	events   *services.EventService
	invites  *services.InviteService
	requests *services.ScreeningRequestService
	exports  *services.ExportService
}

func NewAdminHandler(events *services.EventService, invites *services.InviteService, requests *services.ScreeningRequestService, exports *services.ExportService) *AdminHandler {
	return &AdminHandler{events: events, invites: invites, requests: requests, exports: exports}
}

func (h *AdminHandler) RegisterRoutes(e *core.ServeEvent) {
	group := e.Router.Group("/api/v1/admin")
	group.Bind(apis.RequireSuperuserAuth())

	group.POST("/events", h.createEvent)
	group.PATCH("/events/{eventId}", h.updateEvent)
	group.DELETE("/events/{eventId}", h.deleteEvent)

	group.GET("/events/{eventId}/invites", h.listInvites)
	group.POST("/events/{eventId}/invites", h.bulkInvite)
	group.GET("/events/{eventId}/invites/export", h.exportGuestList)

	group.POST("/invites/{inviteId}/approve", h.approveInvite)
	group.POST("/invites/{inviteId}/reject", h.rejectInvite)

	group.GET("/screening-requests", h.listRequests)
	group.POST("/screening-requests/{requestId}/approve", h.approveRequest)
	group.POST("/screening-requests/{requestId}/reject", h.rejectRequest)
}

func (h *AdminHandler) createEvent(e *core.RequestEvent) error {
	var in services.EventInput
	if err := e.BindBody(&in); err != nil {
		return apis.NewBadRequestError("Invalid request body.", err)
	}

	event, warning, err := h.events.Create(e.Request.Context(), in)
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusCreated, map[string]any{
		"event":   event,
		"warning": warning,
	})
}

func (h *AdminHandler) updateEvent(e *core.RequestEvent) error {
	var in services.EventInput
	if err := e.BindBody(&in); err != nil {
		return apis.NewBadRequestError("Invalid request body.", err)
	}

	event, warning, err := h.events.Update(e.Request.Context(), e.Request.PathValue("eventId"), in)
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, map[string]any{
		"event":   event,
		"warning": warning,
	})
}

func (h *AdminHandler) deleteEvent(e *core.RequestEvent) error {
	if err := h.events.Delete(e.Request.Context(), e.Request.PathValue("eventId")); err != nil {
		return apiError(err)
	}
	return e.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) listInvites(e *core.RequestEvent) error {
	invites, err := h.invites.ListByEvent(e.Request.Context(), e.Request.PathValue("eventId"))
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, map[string]any{"invites": invites})
}

type bulkInviteRequest struct {
	Recipients string `json:"recipients"`
	Names      string `json:"names"`
}

// bulkInvite accepts pasted recipient lists. Emails may be separated by
// newlines, commas or semicolons; names are one per line and pair up
// with the deduplicated emails in alphabetical order.
func (h *AdminHandler) bulkInvite(e *core.RequestEvent) error {
	var req bulkInviteRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request body.", err)
	}

	emails := services.SplitRecipients(req.Recipients)
	if len(emails) == 0 {
		return apis.NewBadRequestError("No recipients given.", nil)
	}
	names := services.SplitLines(req.Names)

	result, err := h.invites.BulkInvite(
		e.Request.Context(),
		e.Request.PathValue("eventId"),
		emails,
		names,
		utils.MustGenerateToken,
	)
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, result)
}

func (h *AdminHandler) exportGuestList(e *core.RequestEvent) error {
	eventID := e.Request.PathValue("eventId")

	data, err := h.exports.GuestListCSV(e.Request.Context(), eventID)
	if err != nil {
		return apiError(err)
	}

	e.Response.Header().Set("Content-Disposition", `attachment; filename="guestlist-`+eventID+`.csv"`)
	return e.Blob(http.StatusOK, "text/csv", data)
}

func (h *AdminHandler) approveInvite(e *core.RequestEvent) error {
	invite, err := h.invites.ApproveInvite(e.Request.Context(), e.Request.PathValue("inviteId"))
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, invite)
}

func (h *AdminHandler) rejectInvite(e *core.RequestEvent) error {
	if err := h.invites.RejectInvite(e.Request.Context(), e.Request.PathValue("inviteId")); err != nil {
		return apiError(err)
	}
	return e.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) listRequests(e *core.RequestEvent) error {
	requests, err := h.requests.List(e.Request.Context(), e.Request.URL.Query().Get("status"))
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, map[string]any{"requests": requests})
}

func (h *AdminHandler) approveRequest(e *core.RequestEvent) error {
	request, err := h.requests.Approve(e.Request.Context(), e.Request.PathValue("requestId"))
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, request)
}

func (h *AdminHandler) rejectRequest(e *core.RequestEvent) error {
	request, err := h.requests.Reject(e.Request.Context(), e.Request.PathValue("requestId"))
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, request)
}
