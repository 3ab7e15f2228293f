package pooja

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"sevabook/calendar"
	"sevabook/infrastructure/audit"
	"sevabook/infrastructure/auth"
	"sevabook/infrastructure/config"
	"sevabook/infrastructure/mailer"
	"sevabook/infrastructure/realtime"
	"sevabook/infrastructure/sqlite"
	"sevabook/pass"
	"sevabook/profile"
	"sevabook/shared/web"
)

// SessionsQueryHandler lists the pooja sessions a devotee can still pick for
// a date: the presentation policy minus the blocked registry.
func SessionsQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date := r.URL.Query().Get("date")
		if _, err := time.ParseInLocation(calendar.DateLayout, date, calendar.IST); err != nil {
			web.WriteError(w, http.StatusBadRequest, web.CodeInvalid, "date must be YYYY-MM-DD")
			return
		}
		blocked, err := LoadBlocked(r.Context(), db)
		if err != nil {
			slog.Error("load blocked registry", "err", err)
			web.WriteError(w, http.StatusInternalServerError, web.CodeInternal, "failed to load sessions")
			return
		}
		visible := calendar.VisiblePoojaSessions(date, time.Now())
		sessions := make([]string, 0, len(visible))
		for _, s := range visible {
			if !isBlocked(blocked, date, s) {
				sessions = append(sessions, s)
			}
		}
		web.WriteJSON(w, http.StatusOK, map[string]any{"date": date, "sessions": sessions})
	}
}

// ReserveCommandHandler books a pooja for the signed-in devotee.
func ReserveCommandHandler(db *sqlite.DB, auditSvc *audit.Service, cfg *config.Config, hub *realtime.Hub, enq *mailer.Enqueuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			web.WriteError(w, http.StatusUnauthorized, web.CodeUnauthorized, "sign in required")
			return
		}
		var in ReserveRequest
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

		booking, err := Reserve(r.Context(), db, auditSvc, id.UserID, id.Email, in, time.Now())
		if err != nil {
			writeReserveError(w, err)
			return
		}

		hub.SlotsChanged("pooja_bookings", booking.Date)
		enq.EnqueueConfirmation(r.Context(), mailer.Confirmation{
			Name:        booking.Name,
			Email:       booking.Email,
			BookingType: "Pooja",
			Date:        booking.Date,
			Slot:        booking.Session,
			BookingID:   booking.ID,
		})

		web.WriteJSON(w, http.StatusCreated, ReserveResponse{
			BookingID: booking.ID,
			Date:      booking.Date,
			Session:   booking.Session,
			QRToken:   booking.QRToken,
			QRPayload: pass.PoojaPayload(booking.ID, booking.QRToken),
		})
	}
}

func writeReserveError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, calendar.ErrInvalidSession):
		web.WriteError(w, http.StatusBadRequest, web.CodeInvalidSession, "unknown session")
	case errors.Is(err, calendar.ErrOutOfSeason):
		web.WriteError(w, http.StatusBadRequest, web.CodeOutOfSeason, "date is outside the seva season")
	case errors.Is(err, calendar.ErrWindowClosed):
		web.WriteError(w, http.StatusConflict, web.CodeWindowClosed, "booking window is closed")
	case errors.Is(err, ErrBlocked):
		web.WriteError(w, http.StatusConflict, web.CodeCapacity, "session is blocked on this date")
	case errors.Is(err, ErrDuplicate):
		web.WriteError(w, http.StatusConflict, web.CodeDuplicate, "already booked for this session")
	default:
		slog.Error("pooja reserve", "err", err)
		web.WriteError(w, http.StatusInternalServerError, web.CodeInternal, "reservation failed")
	}
}

// PassQueryHandler resolves a pooja pass by id and token.
func PassQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := LookupPass(r.Context(), db, r.URL.Query().Get("id"), r.URL.Query().Get("token"))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				web.WriteError(w, http.StatusNotFound, web.CodeNotFound, "pass not found")
				return
			}
			slog.Error("lookup pooja pass", "err", err)
			web.WriteError(w, http.StatusInternalServerError, web.CodeInternal, "failed to load pass")
			return
		}
		web.WriteJSON(w, http.StatusOK, view)
	}
}

// PassPDFQueryHandler renders the printable pooja pass.
func PassPDFQueryHandler(db *sqlite.DB, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("id")
		token := r.URL.Query().Get("token")
		view, err := LookupPass(r.Context(), db, id, token)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				web.WriteError(w, http.StatusNotFound, web.CodeNotFound, "pass not found")
				return
			}
			slog.Error("lookup pooja pass", "err", err)
			web.WriteError(w, http.StatusInternalServerError, web.CodeInternal, "failed to load pass")
			return
		}
		pdfBytes, err := renderPassPDF(view, pass.PoojaPayload(view.ID, token), cfg.Server.LogoPath)
		if err != nil {
			slog.Error("render pooja pass pdf", "err", err, "booking_id", view.ID)
			web.WriteError(w, http.StatusInternalServerError, web.CodeInternal, "failed to render pass")
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `inline; filename="pooja-pass-`+view.ID+`.pdf"`)
		_, _ = w.Write(pdfBytes)
	}
}

// MarkAttendanceCommandHandler confirms attendance for a scanned pooja pass.
// Admin-only route.
func MarkAttendanceCommandHandler(db *sqlite.DB, auditSvc *audit.Service, hub *realtime.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			web.WriteError(w, http.StatusUnauthorized, web.CodeUnauthorized, "sign in required")
			return
		}
		var in MarkAttendanceRequest
		if err := web.DecodeJSON(r, &in); err != nil {
			web.WriteError(w, http.StatusBadRequest, web.CodeInvalid, err.Error())
			return
		}
		id, token := in.ID, in.Token
		if token == "" && in.Payload != "" {
			decoded, err := pass.Decode(in.Payload)
			if err != nil || decoded.Kind != pass.KindPooja {
				web.WriteError(w, http.StatusBadRequest, web.CodeInvalid, "unrecognized pass payload")
				return
			}
			id, token = decoded.ID, decoded.Token
		}
		if id == "" || token == "" {
			web.WriteError(w, http.StatusBadRequest, web.CodeInvalid, "id and token required")
			return
		}

		view, err := MarkAttended(r.Context(), db, auditSvc, adminID.UserID, id, token, time.Now())
		switch {
		case errors.Is(err, ErrNotFound):
			web.WriteError(w, http.StatusNotFound, web.CodeNotFound, "pass not found")
			return
		case errors.Is(err, ErrAlreadyMarked):
			web.WriteJSON(w, http.StatusConflict, map[string]any{
				"error":   "attendance already marked",
				"code":    web.CodeAlreadyMarked,
				"booking": view,
			})
			return
		case err != nil:
			slog.Error("mark pooja attendance", "err", err)
			web.WriteError(w, http.StatusInternalServerError, web.CodeInternal, "failed to mark attendance")
			return
		}

		hub.AttendanceChanged("pooja_bookings", view.Date)
		web.WriteJSON(w, http.StatusOK, map[string]any{"marked": true, "booking": view})
	}
}

// GetBlockedQueryHandler returns the blocked-sessions registry. Admin-only.
func GetBlockedQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blocked, err := LoadBlocked(r.Context(), db)
		if err != nil {
			slog.Error("load blocked registry", "err", err)
			web.WriteError(w, http.StatusInternalServerError, web.CodeInternal, "failed to load registry")
			return
		}
		web.WriteJSON(w, http.StatusOK, map[string]any{"blocked": blocked})
	}
}

// UpdateBlockedCommandHandler replaces the blocked-sessions registry.
// Admin-only; audited.
func UpdateBlockedCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			web.WriteError(w, http.StatusUnauthorized, web.CodeUnauthorized, "sign in required")
			return
		}
		var in UpdateBlockedRequest
		if err := web.DecodeJSON(r, &in); err != nil {
			web.WriteError(w, http.StatusBadRequest, web.CodeInvalid, err.Error())
			return
		}
		for _, b := range in.Blocked {
			if !calendar.IsPoojaSession(b.Session) {
				web.WriteError(w, http.StatusBadRequest, web.CodeInvalidSession, "unknown session "+b.Session)
				return
			}
		}
		saved, err := SaveBlocked(r.Context(), db, auditSvc, adminID.UserID, in.Blocked)
		if err != nil {
			slog.Error("save blocked registry", "err", err)
			web.WriteError(w, http.StatusInternalServerError, web.CodeInternal, "failed to save registry")
			return
		}
		web.WriteJSON(w, http.StatusOK, map[string]any{"blocked": saved})
	}
}
