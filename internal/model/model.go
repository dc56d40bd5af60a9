// Package model defines the core domain types for the event management backend.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// User is an account that can log in and own events.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}

// Event is created by an authenticated organizer. ID is supplied by the client.
type Event struct {
	ID          string `json:"id"`
	Name        string `json:"eventName"`
	Description string `json:"eventDesc"`
	Date        string `json:"date"`
	Banner      string `json:"banner"`
	OwnerID     string `json:"userId"`
}

// Registration records an attendee's sign-up for the event identified by
// FormID. Fields holds the attendee-supplied data (name, email, ...) and is
// flattened into the top-level JSON object.
type Registration struct {
	ID         string
	FormID     string
	Fields     map[string]any
	Registered bool
	Attended   bool
	CreatedAt  time.Time
}

// Keys managed by the server; they never live in Registration.Fields.
const (
	keyID         = "id"
	keyFormID     = "formId"
	keyRegistered = "registered"
	keyAttended   = "attended"
	keyCreatedAt  = "createdAt"
)

// IsReservedField reports whether key is one of the registration's own
// columns rather than free-form attendee data.
func IsReservedField(key string) bool {
	switch key {
	case keyID, keyFormID, keyRegistered, keyAttended, keyCreatedAt, "_id":
		return true
	}
	return false
}

// Name returns the attendee's "name" field, if any.
func (r Registration) Name() string {
	name, _ := r.Fields["name"].(string)
	return name
}

func (r Registration) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Fields)+5)
	for k, v := range r.Fields {
		out[k] = v
	}
	out[keyID] = r.ID
	out[keyFormID] = r.FormID
	out[keyRegistered] = r.Registered
	out[keyAttended] = r.Attended
	out[keyCreatedAt] = r.CreatedAt
	return json.Marshal(out)
}

// RegisterUserRequest is the payload for POST /register.
type RegisterUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest is the payload for POST /login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// CreateEventRequest is the payload for POST /createevent.
type CreateEventRequest struct {
	ID          string `json:"id" validate:"required"`
	Name        string `json:"eventName"`
	Description string `json:"eventDesc"`
	Date        string `json:"date"`
	Banner      string `json:"banner"`
}

// RegisterAttendeeRequest is the payload for POST /eventregistereduser.
// Any key other than id and formId is kept as attendee data.
type RegisterAttendeeRequest struct {
	ID     string `validate:"required"`
	FormID string `validate:"required"`
	Fields map[string]any
}

func (r *RegisterAttendeeRequest) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("registration must be a JSON object")
	}

	id, err := idField(raw, keyID)
	if err != nil {
		return err
	}
	formID, err := idField(raw, keyFormID)
	if err != nil {
		return err
	}

	fields := make(map[string]any, len(raw))
	for k, v := range raw {
		if IsReservedField(k) {
			continue
		}
		var val any
		if err := json.Unmarshal(v, &val); err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
		fields[k] = val
	}

	*r = RegisterAttendeeRequest{ID: id, FormID: formID, Fields: fields}
	return nil
}

// idField reads a string or numeric identifier. Numbers keep the exact text
// the client sent, so 1700000000000 is stored as "1700000000000".
func idField(raw map[string]json.RawMessage, key string) (string, error) {
	v, ok := raw[key]
	if !ok {
		return "", nil
	}
	v = bytes.TrimSpace(v)
	switch {
	case len(v) == 0 || string(v) == "null":
		return "", nil
	case v[0] == '"':
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return "", fmt.Errorf("%s: %w", key, err)
		}
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(v, &n); err != nil {
		return "", fmt.Errorf("%s must be a string or number", key)
	}
	return n.String(), nil
}

// UpdateAttendanceRequest is the payload for POST /updateAttendance. The id
// may be sent as a string or a number, like the id it was registered with.
type UpdateAttendanceRequest struct {
	ID string
}

func (r *UpdateAttendanceRequest) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	id, err := idField(raw, keyID)
	if err != nil {
		return err
	}
	*r = UpdateAttendanceRequest{ID: id}
	return nil
}

// MessageResponse is the envelope every endpoint answers with.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the JSON error envelope. Error carries raw detail and is
// only populated outside production.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

type ResultResponse struct {
	Message string `json:"message"`
	Result  any    `json:"result"`
}

type LoginResponse struct {
	Message string    `json:"message"`
	User    LoginUser `json:"user"`
}

type LoginUser struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

type EventsResponse struct {
	Message string  `json:"message"`
	Events  []Event `json:"events"`
}

type RegistrationCountResponse struct {
	Message           string `json:"message"`
	RegistrationCount int64  `json:"registrationCount"`
}

type AttendedCountResponse struct {
	Message       string `json:"message"`
	AttendedCount int64  `json:"attendedCount"`
}

type RegisteredUsersResponse struct {
	Message         string         `json:"message"`
	RegisteredUsers []Registration `json:"registeredUsers"`
}

type AttendedUsersResponse struct {
	Message       string         `json:"message"`
	AttendedUsers []Registration `json:"attendedUsers"`
}

type AttendanceResponse struct {
	Message string `json:"message"`
	Name    string `json:"name"`
}
