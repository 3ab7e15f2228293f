package volunteer

import (
	"log/slog"
	"net/http"
	"time"

	"sevabook/infrastructure/audit"
	"sevabook/infrastructure/auth"
	"sevabook/infrastructure/config"
	"sevabook/infrastructure/mailer"
	"sevabook/infrastructure/sqlite"
	"sevabook/profile"
	"sevabook/shared/web"
)

// SignupCommandHandler records a volunteer sign-up for the signed-in devotee.
func SignupCommandHandler(db *sqlite.DB, auditSvc *audit.Service, cfg *config.Config, enq *mailer.Enqueuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			web.WriteError(w, http.StatusUnauthorized, web.CodeUnauthorized, "sign in required")
			return
		}
		var in SignupRequest
		if err := web.DecodeJSON(r, &in); err != nil {
			web.WriteError(w, http.StatusBadRequest, web.CodeInvalid, err.Error())
			return
		}

		if !cfg.Auth.IsAdminEmail(id.Email) {
			hasDoc, err := profile.HasIdentityDocument(r.Context(), db, id.UserID)
			if err != nil {
				slog.Error("identity gate", "err", err, "user_id", id.UserID)
				web.WriteError(w, http.StatusInternalServerError, web.CodeInternal, "failed to check profile")
				return
			}
			if !hasDoc {
				web.WriteProfileGate(w, in.Next)
				return
			}
		}

		booking, err := Signup(r.Context(), db, auditSvc, id.UserID, id.Email, in, time.Now())
		if err != nil {
			slog.Error("volunteer signup", "err", err)
			web.WriteError(w, http.StatusInternalServerError, web.CodeInternal, "signup failed")
			return
		}

		enq.EnqueueConfirmation(r.Context(), mailer.Confirmation{
			Name:        booking.Name,
			Email:       booking.Email,
			BookingType: "Volunteer",
			Date:        booking.Date,
			Slot:        booking.Session + " (" + booking.Role + ")",
			BookingID:   booking.ID,
		})

		web.WriteJSON(w, http.StatusCreated, SignupResponse{
			BookingID: booking.ID,
			Date:      booking.Date,
			Session:   booking.Session,
			Role:      booking.Role,
		})
	}
}

// ListQueryHandler returns filtered sign-ups. Admin-only route.
func ListQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var filter ListFilter
		if err := web.DecodeJSON(r, &filter); err != nil {
			web.WriteError(w, http.StatusBadRequest, web.CodeInvalid, err.Error())
			return
		}
		rows, err := List(r.Context(), db, filter)
		if err != nil {
			slog.Error("list volunteer signups", "err", err)
			web.WriteError(w, http.StatusInternalServerError, web.CodeInternal, "failed to list signups")
			return
		}
		web.WriteJSON(w, http.StatusOK, map[string]any{"bookings": rows})
	}
}
