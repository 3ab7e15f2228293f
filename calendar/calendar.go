// Package calendar owns the seva season window, the fixed session catalog and
// the booking-eligibility clock. All decisions are made in IST regardless of
// the server's local zone, and every ambiguous case fails closed.
package calendar

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// IST is the only zone booking decisions are made in.
var IST = time.FixedZone("IST", 5*3600+30*60)

const DateLayout = "2006-01-02"

// Annadanam session labels, in serving order. These strings are also the
// persisted session keys, so they never change shape.
var (
	AfternoonSessions = []string{
		"1:00 PM - 1:30 PM",
		"1:30 PM - 2:00 PM",
		"2:00 PM - 2:30 PM",
		"2:30 PM - 3:00 PM",
	}
	EveningSessions = []string{
		"8:00 PM - 8:30 PM",
		"8:30 PM - 9:00 PM",
		"9:00 PM - 9:30 PM",
		"9:30 PM - 10:00 PM",
	}
	PoojaSessions = []string{"10:30 AM", "6:30 PM"}
)

// ExtraDates are offered outside the regular season window.
var ExtraDates = []string{"2025-10-31", "2025-11-04"}

// Period says which daily booking window a session belongs to.
type Period string

const (
	PeriodAfternoon Period = "afternoon"
	PeriodEvening   Period = "evening"
)

var (
	ErrInvalidSession = errors.New("unknown session")
	ErrOutOfSeason    = errors.New("date is outside the seva season")
	ErrWindowClosed   = errors.New("booking window is closed")
)

// AnnadanamSessions returns every Annadanam session label in serving order.
func AnnadanamSessions() []string {
	out := make([]string, 0, len(AfternoonSessions)+len(EveningSessions))
	out = append(out, AfternoonSessions...)
	out = append(out, EveningSessions...)
	return out
}

// SessionPeriod classifies an Annadanam session label.
func SessionPeriod(label string) (Period, bool) {
	for _, s := range AfternoonSessions {
		if s == label {
			return PeriodAfternoon, true
		}
	}
	for _, s := range EveningSessions {
		if s == label {
			return PeriodEvening, true
		}
	}
	return "", false
}

// IsPoojaSession reports whether label is one of the fixed pooja sessions.
func IsPoojaSession(label string) bool {
	for _, s := range PoojaSessions {
		if s == label {
			return true
		}
	}
	return false
}

// SessionStart resolves the absolute IST start instant of a session on a date.
// Works for both Annadanam range labels and bare pooja time labels.
func SessionStart(date, label string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, date, IST)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", date, err)
	}
	startLabel := label
	for i := 0; i < len(label); i++ {
		if label[i] == '-' {
			startLabel = label[:i]
			break
		}
	}
	t, err := time.ParseInLocation("3:04 PM", strings.TrimSpace(startLabel), IST)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse session %q: %w", label, err)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, IST), nil
}

// Season is the Nov 5 to Jan 7 Mandala-Makaravilakku window, expressed as
// inclusive IST calendar dates.
type Season struct {
	Start time.Time
	End   time.Time
}

// SeasonFor picks the season surrounding now. From Jan 8 onward the upcoming
// November season is returned; in the Jan 1-7 tail the running season that
// started the previous November is still current.
func SeasonFor(now time.Time) Season {
	n := now.In(IST)
	year := n.Year()
	endOfTail := time.Date(year, time.January, 7, 23, 59, 59, 0, IST)
	if !n.After(endOfTail) {
		return Season{
			Start: time.Date(year-1, time.November, 5, 0, 0, 0, 0, IST),
			End:   time.Date(year, time.January, 7, 0, 0, 0, 0, IST),
		}
	}
	return Season{
		Start: time.Date(year, time.November, 5, 0, 0, 0, 0, IST),
		End:   time.Date(year+1, time.January, 7, 0, 0, 0, 0, IST),
	}
}

// InSeason reports whether a calendar date is bookable territory: inside the
// current season window, or one of the extra dates. Unparseable dates are out.
func InSeason(date string, now time.Time) bool {
	for _, extra := range ExtraDates {
		if extra == date {
			return true
		}
	}
	d, err := time.ParseInLocation(DateLayout, date, IST)
	if err != nil {
		return false
	}
	s := SeasonFor(now)
	return !d.Before(s.Start) && !d.After(s.End)
}

// SeasonDates lists every offered date for the current season in ascending
// order, extra dates included.
func SeasonDates(now time.Time) []string {
	s := SeasonFor(now)
	var dates []string
	for d := s.Start; !d.After(s.End); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(DateLayout))
	}
	for _, extra := range ExtraDates {
		found := false
		for _, d := range dates {
			if d == extra {
				found = true
				break
			}
		}
		if !found {
			dates = append(dates, extra)
		}
	}
	sort.Strings(dates)
	return dates
}

// windowFor returns the inclusive daily booking window for a period on the
// IST day containing n. The window is a property of the current day, not the
// booked date: a future season date is pre-booked inside today's window.
func windowFor(n time.Time, p Period) (open, close time.Time, ok bool) {
	switch p {
	case PeriodAfternoon:
		open = time.Date(n.Year(), n.Month(), n.Day(), 11, 0, 0, 0, IST)
		close = time.Date(n.Year(), n.Month(), n.Day(), 11, 30, 0, 0, IST)
	case PeriodEvening:
		open = time.Date(n.Year(), n.Month(), n.Day(), 15, 0, 0, 0, IST)
		close = time.Date(n.Year(), n.Month(), n.Day(), 19, 30, 0, 0, IST)
	default:
		return time.Time{}, time.Time{}, false
	}
	return open, close, true
}

// BookableNow decides whether an Annadanam session on a date can be booked at
// the instant now. Returns nil when bookable, otherwise one of
// ErrInvalidSession, ErrOutOfSeason or ErrWindowClosed. Only the
// session-start cutoff looks at the booked date; the daily window is
// evaluated against now's own IST day.
func BookableNow(label, date string, now time.Time) error {
	period, ok := SessionPeriod(label)
	if !ok {
		return ErrInvalidSession
	}
	n := now.In(IST)
	if !InSeason(date, n) {
		return ErrOutOfSeason
	}
	open, close, ok := windowFor(n, period)
	if !ok {
		return ErrWindowClosed
	}
	if n.Before(open) || n.After(close) {
		return ErrWindowClosed
	}
	start, err := SessionStart(date, label)
	if err != nil {
		return ErrWindowClosed
	}
	if !n.Before(start) {
		return ErrWindowClosed
	}
	return nil
}

// VisiblePoojaSessions applies the presentation policy for the pooja booking
// form: on the current IST day the morning session disappears after 11:00 and
// both after 21:00. Future dates show everything.
func VisiblePoojaSessions(date string, now time.Time) []string {
	n := now.In(IST)
	if date != n.Format(DateLayout) {
		return append([]string(nil), PoojaSessions...)
	}
	cutoffMorning := time.Date(n.Year(), n.Month(), n.Day(), 11, 0, 0, 0, IST)
	cutoffAll := time.Date(n.Year(), n.Month(), n.Day(), 21, 0, 0, 0, IST)
	if !n.Before(cutoffAll) {
		return []string{}
	}
	if !n.Before(cutoffMorning) {
		return []string{"6:30 PM"}
	}
	return append([]string(nil), PoojaSessions...)
}

// WithDevTime substitutes an HH:MM IST time of day into now, keeping the
// calendar date. Used only by the admin clock override.
func WithDevTime(hhmm string, now time.Time) (time.Time, error) {
	t, err := time.ParseInLocation("15:04", hhmm, IST)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse dev time %q: %w", hhmm, err)
	}
	n := now.In(IST)
	return time.Date(n.Year(), n.Month(), n.Day(), t.Hour(), t.Minute(), 0, 0, IST), nil
}
