package handler

import (
	"errors"
	"net/http"

	"github.com/Shivanand-hulikatti/eventoz/internal/auth"
	"github.com/Shivanand-hulikatti/eventoz/internal/model"
	"github.com/Shivanand-hulikatti/eventoz/internal/service"
)

// CreateEvent handles POST /createevent. The owner is the authenticated
// user; any userId in the body is ignored.
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req model.CreateEventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	event, err := h.events.Create(r.Context(), auth.UserIDFromContext(r.Context()), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			h.fail(w, r, http.StatusBadRequest, "Invalid event details", err)
		case errors.Is(err, service.ErrUnauthorized):
			h.fail(w, r, http.StatusUnauthorized, "Authentication required", nil)
		default:
			h.fail(w, r, http.StatusInternalServerError, "Error creating event", err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, model.ResultResponse{
		Message: "Event Created Successfully",
		Result:  event,
	})
}

// MyEvents handles GET /myevents
func (h *Handler) MyEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.ListByOwner(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			h.fail(w, r, http.StatusUnauthorized, "Authentication required", nil)
			return
		}
		h.fail(w, r, http.StatusInternalServerError, "Error fetching events", err)
		return
	}

	writeJSON(w, http.StatusOK, model.EventsResponse{
		Message: "Events fetched successfully",
		Events:  events,
	})
}
