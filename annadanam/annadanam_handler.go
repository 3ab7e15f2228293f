package annadanam

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

// SlotsQueryHandler serves the per-session availability snapshot for a date.
func SlotsQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date := r.URL.Query().Get("date")
		if _, err := time.ParseInLocation(calendar.DateLayout, date, calendar.IST); err != nil {
			web.WriteError(w, http.StatusBadRequest, web.CodeInvalid, "date must be YYYY-MM-DD")
			return
		}
		slots, err := LoadSlots(r.Context(), db, date)
		if err != nil {
			slog.Error("load annadanam slots", "err", err, "date", date)
			web.WriteError(w, http.StatusInternalServerError, web.CodeInternal, "failed to load slots")
			return
		}
		web.WriteJSON(w, http.StatusOK, map[string]any{"date": date, "slots": slots})
	}
}

// ReserveCommandHandler books one Annadanam seat for the signed-in devotee.
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

		isAdmin := cfg.Auth.IsAdminEmail(id.Email)
		if !isAdmin {
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

		now := time.Now()
		if in.DevTime != "" && isAdmin && !cfg.Server.Production() {
			if simulated, err := calendar.WithDevTime(in.DevTime, now); err == nil {
				now = simulated
			}
		}

		booking, err := Reserve(r.Context(), db, auditSvc, id.UserID, id.Email, in, now)
		if err != nil {
			writeReserveError(w, err)
			return
		}

		hub.SlotsChanged("annadanam_bookings", booking.Date)
		enq.EnqueueConfirmation(r.Context(), mailer.Confirmation{
			Name:        booking.Name,
			Email:       booking.Email,
			BookingType: "Annadanam",
			Date:        booking.Date,
			Slot:        booking.Session,
			BookingID:   booking.ID,
		})

		web.WriteJSON(w, http.StatusCreated, ReserveResponse{
			BookingID: booking.ID,
			Date:      booking.Date,
			Session:   booking.Session,
			Qty:       booking.Qty,
			QRToken:   booking.QRToken,
			PassURL:   pass.AnnadanamURL(cfg.Server.SiteURL, booking.ID, booking.QRToken),
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
	case errors.Is(err, ErrCapacity):
		web.WriteError(w, http.StatusConflict, web.CodeCapacity, "slot full or closed")
	case errors.Is(err, ErrDuplicate):
		web.WriteError(w, http.StatusConflict, web.CodeDuplicate, "already booked for this session")
	default:
		slog.Error("annadanam reserve", "err", err)
		web.WriteError(w, http.StatusInternalServerError, web.CodeInternal, "reservation failed")
	}
}

// PassQueryHandler resolves a pass by its QR token for the pass page and the
// scanner preview.
func PassQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := LookupPass(r.Context(), db, r.URL.Query().Get("token"))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				web.WriteError(w, http.StatusNotFound, web.CodeNotFound, "pass not found")
				return
			}
			slog.Error("lookup annadanam pass", "err", err)
			web.WriteError(w, http.StatusInternalServerError, web.CodeInternal, "failed to load pass")
			return
		}
		web.WriteJSON(w, http.StatusOK, view)
	}
}

// PassPDFQueryHandler renders the printable pass document.
func PassPDFQueryHandler(db *sqlite.DB, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		view, err := LookupPass(r.Context(), db, token)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				web.WriteError(w, http.StatusNotFound, web.CodeNotFound, "pass not found")
				return
			}
			slog.Error("lookup annadanam pass", "err", err)
			web.WriteError(w, http.StatusInternalServerError, web.CodeInternal, "failed to load pass")
			return
		}
		pdfBytes, err := renderPassPDF(view, pass.AnnadanamURL(cfg.Server.SiteURL, view.ID, token), cfg.Server.LogoPath)
		if err != nil {
			slog.Error("render annadanam pass pdf", "err", err, "booking_id", view.ID)
			web.WriteError(w, http.StatusInternalServerError, web.CodeInternal, "failed to render pass")
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `inline; filename="annadanam-pass-`+view.ID+`.pdf"`)
		_, _ = w.Write(pdfBytes)
	}
}

// MarkAttendanceCommandHandler confirms attendance for a scanned pass. It
// accepts either a raw scanner payload or a bare token. Admin-only route.
func MarkAttendanceCommandHandler(db *sqlite.DB, auditSvc *audit.Service, hub *realtime.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			web.WriteError(w, http.StatusUnauthorized, web.CodeUnauthorized, "sign in required")
			return
		}
		var in MarkAttendanceRequest
		if err := web.DecodeJSON(r, &in); err != nil {
			web.WriteError(w, http.StatusBadRequest, web.CodeInvalid, err.Error())
			return
		}
		token := in.Token
		if token == "" && in.Payload != "" {
			decoded, err := pass.Decode(in.Payload)
			if err != nil || decoded.Kind != pass.KindAnnadanam {
				web.WriteError(w, http.StatusBadRequest, web.CodeInvalid, "unrecognized pass payload")
				return
			}
			token = decoded.Token
		}
		if token == "" {
			web.WriteError(w, http.StatusBadRequest, web.CodeInvalid, "token required")
			return
		}

		view, err := MarkAttended(r.Context(), db, auditSvc, id.UserID, token, time.Now())
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
			slog.Error("mark annadanam attendance", "err", err)
			web.WriteError(w, http.StatusInternalServerError, web.CodeInternal, "failed to mark attendance")
			return
		}

		hub.AttendanceChanged("annadanam_bookings", view.Date)
		web.WriteJSON(w, http.StatusOK, map[string]any{"marked": true, "booking": view})
	}
}
