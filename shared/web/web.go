// Package web holds the JSON request/response plumbing shared by every API
// handler: body decoding, DTO validation and the structured error shape.
package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// Error codes carried on the wire. Clients branch on the code, never on the
// message text.
const (
	CodeInvalid           = "invalid_request"
	CodeInvalidSession    = "invalid_session"
	CodeOutOfSeason       = "out_of_season"
	CodeWindowClosed      = "window_closed"
	CodeCapacity          = "capacity"
	CodeDuplicate         = "duplicate"
	CodeNotFound          = "not_found"
	CodeAlreadyMarked     = "already_marked"
	CodeUnauthorized      = "unauthorized"
	CodeForbidden         = "forbidden"
	CodeProfileIncomplete = "profile_incomplete"
	CodeInternal          = "internal"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// DecodeJSON reads and validates a request body into dst. Unknown fields are
// rejected so typos surface instead of silently defaulting.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			return fmt.Errorf("field %s failed %s validation", f.Field(), f.Tag())
		}
		return err
	}
	return nil
}

// Validate runs the shared validator against any tagged struct.
func Validate(v any) error {
	return validate.Struct(v)
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ErrorBody is the uniform error envelope.
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, ErrorBody{Error: message, Code: code})
}

// ProfileGateBody is the 409 payload returned when a booking is blocked on a
// missing identity document. The client shows the message, waits DelaySeconds
// and then navigates to Redirect, carrying Next as the return path.
type ProfileGateBody struct {
	Error        string `json:"error"`
	Code         string `json:"code"`
	Redirect     string `json:"redirect"`
	Next         string `json:"next,omitempty"`
	DelaySeconds int    `json:"delay_seconds"`
}

func WriteProfileGate(w http.ResponseWriter, next string) {
	WriteJSON(w, http.StatusConflict, ProfileGateBody{
		Error:        "Please add your Aadhaar or PAN details before booking",
		Code:         CodeProfileIncomplete,
		Redirect:     "/profile/edit",
		Next:         next,
		DelaySeconds: 5,
	})
}
