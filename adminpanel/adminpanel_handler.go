package adminpanel

import (
	"log/slog"
	"net/http"
	"time"

	"sevabook/calendar"
	"sevabook/infrastructure/audit"
	"sevabook/infrastructure/auth"
	"sevabook/infrastructure/sqlite"
	"sevabook/shared/web"
)

// ListAnnadanamCommandHandler returns bookings for a date, optionally
// filtered to one session. Admin-only route.
func ListAnnadanamCommandHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in ListRequest
		if err := web.DecodeJSON(r, &in); err != nil {
			web.WriteError(w, http.StatusBadRequest, web.CodeInvalid, err.Error())
			return
		}
		rows, err := ListAnnadanam(r.Context(), db, in.Date, in.Session)
		if err != nil {
			slog.Error("admin list annadanam", "err", err)
			web.WriteError(w, http.StatusInternalServerError, web.CodeInternal, "failed to list bookings")
			return
		}
		web.WriteJSON(w, http.StatusOK, map[string]any{"bookings": rows})
	}
}

func ListPoojaCommandHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in ListRequest
		if err := web.DecodeJSON(r, &in); err != nil {
			web.WriteError(w, http.StatusBadRequest, web.CodeInvalid, err.Error())
			return
		}
		rows, err := ListPooja(r.Context(), db, in.Date, in.Session)
		if err != nil {
			slog.Error("admin list pooja", "err", err)
			web.WriteError(w, http.StatusInternalServerError, web.CodeInternal, "failed to list bookings")
			return
		}
		web.WriteJSON(w, http.StatusOK, map[string]any{"bookings": rows})
	}
}

// AnnadanamListPDFQueryHandler renders the day's booking table for printing
// at the serving counter.
func AnnadanamListPDFQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date := r.URL.Query().Get("date")
		session := r.URL.Query().Get("session")
		if session == "" {
			session = "all"
		}
		if _, err := time.ParseInLocation(calendar.DateLayout, date, calendar.IST); err != nil {
			web.WriteError(w, http.StatusBadRequest, web.CodeInvalid, "date must be YYYY-MM-DD")
			return
		}
		rows, err := ListAnnadanam(r.Context(), db, date, session)
		if err != nil {
			slog.Error("admin list annadanam", "err", err)
			web.WriteError(w, http.StatusInternalServerError, web.CodeInternal, "failed to list bookings")
			return
		}
		pdfBytes, err := renderAnnadanamListPDF(date, session, rows)
		if err != nil {
			slog.Error("render annadanam list pdf", "err", err)
			web.WriteError(w, http.StatusInternalServerError, web.CodeInternal, "failed to render pdf")
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="annadanam-`+date+`.pdf"`)
		_, _ = w.Write(pdfBytes)
	}
}

func PoojaListPDFQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date := r.URL.Query().Get("date")
		session := r.URL.Query().Get("session")
		if session == "" {
			session = "all"
		}
		if _, err := time.ParseInLocation(calendar.DateLayout, date, calendar.IST); err != nil {
			web.WriteError(w, http.StatusBadRequest, web.CodeInvalid, "date must be YYYY-MM-DD")
			return
		}
		rows, err := ListPooja(r.Context(), db, date, session)
		if err != nil {
			slog.Error("admin list pooja", "err", err)
			web.WriteError(w, http.StatusInternalServerError, web.CodeInternal, "failed to list bookings")
			return
		}
		pdfBytes, err := renderPoojaListPDF(date, session, rows)
		if err != nil {
			slog.Error("render pooja list pdf", "err", err)
			web.WriteError(w, http.StatusInternalServerError, web.CodeInternal, "failed to render pdf")
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="pooja-`+date+`.pdf"`)
		_, _ = w.Write(pdfBytes)
	}
}

// ExportCommandHandler assembles the date-ranged snapshot. The default body
// is the JSON payload; `?format=csv&table=<name>` streams one table as CSV.
func ExportCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			web.WriteError(w, http.StatusUnauthorized, web.CodeUnauthorized, "sign in required")
			return
		}
		var in ExportRequest
		if err := web.DecodeJSON(r, &in); err != nil {
			web.WriteError(w, http.StatusBadRequest, web.CodeInvalid, err.Error())
			return
		}
		if in.End < in.Start {
			web.WriteError(w, http.StatusBadRequest, web.CodeInvalid, "end must not precede start")
			return
		}
		payload, err := LoadExport(r.Context(), db, auditSvc, id.UserID, in.Start, in.End)
		if err != nil {
			slog.Error("admin export", "err", err)
			web.WriteError(w, http.StatusInternalServerError, web.CodeInternal, "export failed")
			return
		}

		if r.URL.Query().Get("format") == "csv" {
			table := r.URL.Query().Get("table")
			if table == "" {
				table = "annadanam_bookings"
			}
			if !validExportTable(table) {
				web.WriteError(w, http.StatusBadRequest, web.CodeInvalid, "unknown export table")
				return
			}
			w.Header().Set("Content-Type", "text/csv")
			w.Header().Set("Content-Disposition", `attachment; filename="`+table+`-`+in.Start+`-`+in.End+`.csv"`)
			if err := writeExportCSV(w, payload, table); err != nil {
				slog.Error("write export csv", "err", err, "table", table)
			}
			return
		}
		web.WriteJSON(w, http.StatusOK, payload)
	}
}
