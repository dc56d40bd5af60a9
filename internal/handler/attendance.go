package handler

import (
	"errors"
	"net/http"

	"github.com/Shivanand-hulikatti/eventoz/internal/model"
	"github.com/Shivanand-hulikatti/eventoz/internal/service"
	"github.com/go-chi/chi/v5"
)

// RegisterAttendee handles POST /eventregistereduser
func (h *Handler) RegisterAttendee(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterAttendeeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	reg, err := h.attendance.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			h.fail(w, r, http.StatusBadRequest, "Invalid registration details", err)
			return
		}
		h.fail(w, r, http.StatusInternalServerError, "Error registering user for the event", err)
		return
	}

	writeJSON(w, http.StatusCreated, model.ResultResponse{
		Message: "User registered successfully for the event",
		Result:  reg,
	})
}

// RegistrationCount handles GET /event/{id}/registrations
func (h *Handler) RegistrationCount(w http.ResponseWriter, r *http.Request) {
	n, err := h.attendance.CountRegistered(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, http.StatusInternalServerError, "Error fetching registration count", err)
		return
	}
	writeJSON(w, http.StatusOK, model.RegistrationCountResponse{
		Message:           "Registration count fetched successfully",
		RegistrationCount: n,
	})
}

// AttendedCount handles GET /event/{id}/attended
func (h *Handler) AttendedCount(w http.ResponseWriter, r *http.Request) {
	n, err := h.attendance.CountAttended(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, http.StatusInternalServerError, "Error fetching attended count", err)
		return
	}
	writeJSON(w, http.StatusOK, model.AttendedCountResponse{
		Message:       "Attended count fetched successfully",
		AttendedCount: n,
	})
}

// RegisteredUsers handles GET /registeredusers/{formId}
func (h *Handler) RegisteredUsers(w http.ResponseWriter, r *http.Request) {
	regs, err := h.attendance.ListRegistered(r.Context(), chi.URLParam(r, "formId"))
	if err != nil {
		h.fail(w, r, http.StatusInternalServerError, "Error fetching registered users", err)
		return
	}
	writeJSON(w, http.StatusOK, model.RegisteredUsersResponse{
		Message:         "Registered users fetched successfully",
		RegisteredUsers: regs,
	})
}

// AttendedUsers handles GET /attendedusers/{formId}
func (h *Handler) AttendedUsers(w http.ResponseWriter, r *http.Request) {
	regs, err := h.attendance.ListAttended(r.Context(), chi.URLParam(r, "formId"))
	if err != nil {
		h.fail(w, r, http.StatusInternalServerError, "Error fetching attended users", err)
		return
	}
	writeJSON(w, http.StatusOK, model.AttendedUsersResponse{
		Message:       "Attended users fetched successfully",
		AttendedUsers: regs,
	})
}

// UpdateAttendance handles POST /updateAttendance
func (h *Handler) UpdateAttendance(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateAttendanceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	reg, err := h.attendance.MarkAttended(r.Context(), req.ID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			h.fail(w, r, http.StatusBadRequest, "Registration id is required", err)
		case errors.Is(err, service.ErrNotFound):
			h.fail(w, r, http.StatusNotFound, "User or registration not found", nil)
		default:
			h.fail(w, r, http.StatusInternalServerError, "Error updating attendance", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, model.AttendanceResponse{
		Message: "Attendance updated successfully",
		Name:    reg.Name(),
	})
}
