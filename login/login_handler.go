package login

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"sevabook/infrastructure/auth"
	"sevabook/infrastructure/config"
	"sevabook/infrastructure/sqlite"
	"sevabook/shared/web"
)

// RegisterCommandHandler creates an account and signs the caller in.
func RegisterCommandHandler(db *sqlite.DB, authSvc *auth.Service, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in RegisterRequest
		if err := web.DecodeJSON(r, &in); err != nil {
			web.WriteError(w, http.StatusBadRequest, web.CodeInvalid, err.Error())
			return
		}
		if err := ValidatePasswordPolicy(in.Password); err != nil {
			web.WriteError(w, http.StatusBadRequest, web.CodeInvalid, err.Error())
			return
		}
		user, err := CreateAccount(r.Context(), db, in.Email, in.Name, in.Password, time.Now())
		if err != nil {
			if errors.Is(err, ErrEmailTaken) {
				web.WriteError(w, http.StatusConflict, web.CodeDuplicate, "email already registered")
				return
			}
			slog.Error("create account", "err", err)
			web.WriteError(w, http.StatusInternalServerError, web.CodeInternal, "registration failed")
			return
		}
		writeToken(w, authSvc, cfg, user.ID, user.Email, user.Name)
	}
}

// LoginCommandHandler verifies credentials and issues a bearer token.
func LoginCommandHandler(db *sqlite.DB, authSvc *auth.Service, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in LoginRequest
		if err := web.DecodeJSON(r, &in); err != nil {
			web.WriteError(w, http.StatusBadRequest, web.CodeInvalid, err.Error())
			return
		}
		user, err := Authenticate(r.Context(), db, in.Email, in.Password)
		if err != nil {
			if errors.Is(err, ErrBadCredentials) {
				web.WriteError(w, http.StatusUnauthorized, web.CodeUnauthorized, "invalid email or password")
				return
			}
			slog.Error("authenticate", "err", err)
			web.WriteError(w, http.StatusInternalServerError, web.CodeInternal, "login failed")
			return
		}
		writeToken(w, authSvc, cfg, user.ID, user.Email, user.Name)
	}
}

func writeToken(w http.ResponseWriter, authSvc *auth.Service, cfg *config.Config, userID int64, email, name string) {
	token, err := authSvc.Issue(userID, email, name, time.Now())
	if err != nil {
		slog.Error("issue token", "err", err, "user_id", userID)
		web.WriteError(w, http.StatusInternalServerError, web.CodeInternal, "failed to issue token")
		return
	}
	web.WriteJSON(w, http.StatusOK, TokenResponse{
		Token:   token,
		Email:   email,
		Name:    name,
		IsAdmin: cfg.Auth.IsAdminEmail(email),
	})
}
