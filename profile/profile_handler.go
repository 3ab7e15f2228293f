package profile

import (
	"log/slog"
	"net/http"

	"sevabook/infrastructure/audit"
	"sevabook/infrastructure/auth"
	"sevabook/infrastructure/sqlite"
	"sevabook/shared/web"
)

// GetProfileQueryHandler returns the caller's profile with the identity flag
// the booking forms key off.
func GetProfileQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			web.WriteError(w, http.StatusUnauthorized, web.CodeUnauthorized, "sign in required")
			return
		}
		view, err := Load(r.Context(), db, id.UserID)
		if err != nil {
			slog.Error("load profile", "err", err, "user_id", id.UserID)
			web.WriteError(w, http.StatusInternalServerError, web.CodeInternal, "failed to load profile")
			return
		}
		web.WriteJSON(w, http.StatusOK, view)
	}
}

// UpdateIdentityCommandHandler records Aadhaar/PAN references for the caller.
func UpdateIdentityCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			web.WriteError(w, http.StatusUnauthorized, web.CodeUnauthorized, "sign in required")
			return
		}
		var in IdentityInput
		if err := web.DecodeJSON(r, &in); err != nil {
			web.WriteError(w, http.StatusBadRequest, web.CodeInvalid, err.Error())
			return
		}
		if in.AadhaarNumber == "" && in.PANNumber == "" && in.Phone == "" {
			web.WriteError(w, http.StatusBadRequest, web.CodeInvalid, "nothing to update")
			return
		}
		if err := UpsertIdentity(r.Context(), db, auditSvc, id.UserID, in); err != nil {
			slog.Error("upsert identity", "err", err, "user_id", id.UserID)
			web.WriteError(w, http.StatusInternalServerError, web.CodeInternal, "failed to save profile")
			return
		}
		view, err := Load(r.Context(), db, id.UserID)
		if err != nil {
			slog.Error("reload profile", "err", err, "user_id", id.UserID)
			web.WriteError(w, http.StatusInternalServerError, web.CodeInternal, "failed to load profile")
			return
		}
		web.WriteJSON(w, http.StatusOK, view)
	}
}
