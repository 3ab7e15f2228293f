package adminpanel

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

func validExportTable(table string) bool {
	switch table {
	case "users", "profiles", "annadanam_bookings", "pooja_bookings",
		"volunteer_bookings", "donations", "contact_messages":
		return true
	}
	return false
}

// writeExportCSV streams one table of the export payload as RFC4180 CSV.
func writeExportCSV(w io.Writer, payload ExportPayload, table string) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	switch table {
	case "users":
		if err := writer.Write([]string{"id", "email", "name", "created_at"}); err != nil {
			return err
		}
		for _, u := range payload.Users {
			if err := writer.Write([]string{
				strconv.FormatInt(u.ID, 10), u.Email, u.Name, u.CreatedAt.Format(time.RFC3339),
			}); err != nil {
				return err
			}
		}
	case "profiles":
		if err := writer.Write([]string{"user_id", "phone", "aadhaar_number", "pan_number"}); err != nil {
			return err
		}
		for _, p := range payload.Profiles {
			if err := writer.Write([]string{
				strconv.FormatInt(p.UserID, 10), p.Phone, p.AadhaarNumber, p.PANNumber,
			}); err != nil {
				return err
			}
		}
	case "annadanam_bookings":
		if err := writer.Write([]string{"id", "created_at", "date", "session", "name", "email", "phone", "qty", "status", "attended_at"}); err != nil {
			return err
		}
		for _, b := range payload.AnnadanamBookings {
			attended := ""
			if b.AttendedAt != nil {
				attended = b.AttendedAt.Format(time.RFC3339)
			}
			if err := writer.Write([]string{
				b.ID, b.CreatedAt.Format(time.RFC3339), b.Date, b.Session,
				b.Name, b.Email, b.Phone, strconv.FormatInt(b.Qty, 10), b.Status, attended,
			}); err != nil {
				return err
			}
		}
	case "pooja_bookings":
		if err := writer.Write([]string{"id", "created_at", "date", "session", "name", "email", "phone", "nakshatram", "gothram", "status", "attended_at"}); err != nil {
			return err
		}
		for _, b := range payload.PoojaBookings {
			attended := ""
			if b.AttendedAt != nil {
				attended = b.AttendedAt.Format(time.RFC3339)
			}
			if err := writer.Write([]string{
				b.ID, b.CreatedAt.Format(time.RFC3339), b.Date, b.Session,
				b.Name, b.Email, b.Phone, b.Nakshatram, b.Gothram, b.Status, attended,
			}); err != nil {
				return err
			}
		}
	case "volunteer_bookings":
		if err := writer.Write([]string{"id", "created_at", "date", "session", "role", "note", "name", "email", "phone"}); err != nil {
			return err
		}
		for _, b := range payload.VolunteerBookings {
			if err := writer.Write([]string{
				b.ID, b.CreatedAt.Format(time.RFC3339), b.Date, b.Session,
				b.Role, b.Note, b.Name, b.Email, b.Phone,
			}); err != nil {
				return err
			}
		}
	case "donations":
		if err := writer.Write([]string{"id", "created_at", "name", "email", "phone", "amount", "purpose", "note"}); err != nil {
			return err
		}
		for _, d := range payload.Donations {
			if err := writer.Write([]string{
				strconv.FormatInt(d.ID, 10), d.CreatedAt.Format(time.RFC3339),
				d.Name, d.Email, d.Phone, strconv.FormatInt(d.Amount, 10), d.Purpose, d.Note,
			}); err != nil {
				return err
			}
		}
	case "contact_messages":
		if err := writer.Write([]string{"id", "created_at", "name", "email", "subject", "message"}); err != nil {
			return err
		}
		for _, m := range payload.ContactMessages {
			if err := writer.Write([]string{
				strconv.FormatInt(m.ID, 10), m.CreatedAt.Format(time.RFC3339),
				m.Name, m.Email, m.Subject, m.Message,
			}); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("unknown export table %q", table)
	}
	return nil
}
