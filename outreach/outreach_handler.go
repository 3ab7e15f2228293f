package outreach

import (
	"log/slog"
	"net/http"
	"time"

	"sevabook/infrastructure/sqlite"
	"sevabook/shared/web"
)

// CreateDonationCommandHandler records a donation pledge.
func CreateDonationCommandHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in DonationRequest
		if err := web.DecodeJSON(r, &in); err != nil {
			web.WriteError(w, http.StatusBadRequest, web.CodeInvalid, err.Error())
			return
		}
		d, err := SaveDonation(r.Context(), db, in, time.Now())
		if err != nil {
			slog.Error("save donation", "err", err)
			web.WriteError(w, http.StatusInternalServerError, web.CodeInternal, "failed to save donation")
			return
		}
		web.WriteJSON(w, http.StatusCreated, map[string]any{"id": d.ID})
	}
}

// CreateContactCommandHandler records an inbound contact-form message.
func CreateContactCommandHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in ContactRequest
		if err := web.DecodeJSON(r, &in); err != nil {
			web.WriteError(w, http.StatusBadRequest, web.CodeInvalid, err.Error())
			return
		}
		m, err := SaveContactMessage(r.Context(), db, in, time.Now())
		if err != nil {
			slog.Error("save contact message", "err", err)
			web.WriteError(w, http.StatusInternalServerError, web.CodeInternal, "failed to save message")
			return
		}
		web.WriteJSON(w, http.StatusCreated, map[string]any{"id": m.ID})
	}
}
