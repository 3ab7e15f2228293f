package calendar

import (
	"errors"
	"testing"
	"time"
)

func ist(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, IST)
}

func TestSeasonForRollsOverAtJanuarySeventh(t *testing.T) {
	// Inside the January tail the running season is still current.
	s := SeasonFor(ist(2026, time.January, 3, 12, 0))
	if s.Start.Year() != 2025 || s.Start.Month() != time.November || s.Start.Day() != 5 {
		t.Fatalf("tail season start = %v, want 2025-11-05", s.Start)
	}
	if s.End.Year() != 2026 || s.End.Month() != time.January || s.End.Day() != 7 {
		t.Fatalf("tail season end = %v, want 2026-01-07", s.End)
	}

	// One day past the tail the next season is announced.
	s = SeasonFor(ist(2026, time.January, 8, 0, 1))
	if s.Start.Year() != 2026 || s.End.Year() != 2027 {
		t.Fatalf("post-tail season = %v..%v, want 2026-11-05..2027-01-07", s.Start, s.End)
	}
}

func TestInSeason(t *testing.T) {
	now := ist(2025, time.November, 20, 12, 0)
	cases := []struct {
		date string
		want bool
	}{
		{"2025-11-05", true},
		{"2025-12-25", true},
		{"2026-01-07", true},
		{"2026-01-08", false},
		{"2025-11-04", true}, // extra date
		{"2025-10-31", true}, // extra date
		{"2025-10-30", false},
		{"not-a-date", false},
	}
	for _, tc := range cases {
		if got := InSeason(tc.date, now); got != tc.want {
			t.Errorf("InSeason(%q) = %v, want %v", tc.date, got, tc.want)
		}
	}
}

func TestSeasonDatesSortedAndIncludeExtras(t *testing.T) {
	dates := SeasonDates(ist(2025, time.November, 10, 12, 0))
	if len(dates) == 0 {
		t.Fatal("no season dates")
	}
	for i := 1; i < len(dates); i++ {
		if dates[i-1] >= dates[i] {
			t.Fatalf("dates not strictly ascending at %d: %s >= %s", i, dates[i-1], dates[i])
		}
	}
	if dates[0] != "2025-10-31" {
		t.Fatalf("first date = %s, want extra date 2025-10-31", dates[0])
	}
	last := dates[len(dates)-1]
	if last != "2026-01-07" {
		t.Fatalf("last date = %s, want 2026-01-07", last)
	}
}

func TestSessionStart(t *testing.T) {
	got, err := SessionStart("2025-11-20", "1:30 PM - 2:00 PM")
	if err != nil {
		t.Fatal(err)
	}
	want := ist(2025, time.November, 20, 13, 30)
	if !got.Equal(want) {
		t.Fatalf("start = %v, want %v", got, want)
	}

	got, err = SessionStart("2025-11-20", "6:30 PM")
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(ist(2025, time.November, 20, 18, 30)) {
		t.Fatalf("pooja start = %v", got)
	}
}

func TestBookableNowWindows(t *testing.T) {
	date := "2025-11-20"
	cases := []struct {
		name    string
		session string
		now     time.Time
		wantErr error
	}{
		{"afternoon open edge", AfternoonSessions[0], ist(2025, time.November, 20, 11, 0), nil},
		{"afternoon close edge", AfternoonSessions[0], ist(2025, time.November, 20, 11, 30), nil},
		{"afternoon before open", AfternoonSessions[0], ist(2025, time.November, 20, 10, 59), ErrWindowClosed},
		{"afternoon after close", AfternoonSessions[0], ist(2025, time.November, 20, 11, 31), ErrWindowClosed},
		{"evening open edge", EveningSessions[0], ist(2025, time.November, 20, 15, 0), nil},
		{"evening close edge", EveningSessions[3], ist(2025, time.November, 20, 19, 30), nil},
		{"evening after close", EveningSessions[0], ist(2025, time.November, 20, 19, 31), ErrWindowClosed},
		{"unknown session", "4:00 PM - 4:30 PM", ist(2025, time.November, 20, 11, 0), ErrInvalidSession},
		{"out of season", AfternoonSessions[0], ist(2025, time.March, 20, 11, 0), ErrOutOfSeason},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := date
			if tc.wantErr == ErrOutOfSeason {
				d = "2025-03-20"
			}
			err := BookableNow(tc.session, d, tc.now)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("BookableNow = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestBookableNowFutureDates(t *testing.T) {
	// The daily window belongs to the current day; a future in-season date is
	// pre-bookable inside today's window and rejected outside it.
	cases := []struct {
		name    string
		session string
		date    string
		now     time.Time
		wantErr error
	}{
		{"afternoon future date in window", AfternoonSessions[0], "2025-11-25", ist(2025, time.November, 20, 11, 15), nil},
		{"evening future date in window", EveningSessions[0], "2025-12-25", ist(2025, time.November, 20, 16, 0), nil},
		{"future date outside window", AfternoonSessions[0], "2025-11-25", ist(2025, time.November, 20, 9, 0), ErrWindowClosed},
		{"extra date weeks ahead", AfternoonSessions[1], "2025-11-04", ist(2025, time.October, 20, 11, 10), nil},
		{"season end from season start", EveningSessions[3], "2026-01-07", ist(2025, time.November, 5, 15, 30), nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := BookableNow(tc.session, tc.date, tc.now)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("BookableNow(%q, %q) = %v, want %v", tc.session, tc.date, err, tc.wantErr)
			}
		})
	}
}

func TestBookableNowNeverPastSessionStart(t *testing.T) {
	// 1:00 PM session may not be booked at or after 1:00 PM even if some
	// window were still open; the start check always wins.
	err := BookableNow("1:00 PM - 1:30 PM", "2025-11-20", ist(2025, time.November, 20, 13, 0))
	if !errors.Is(err, ErrWindowClosed) {
		t.Fatalf("got %v, want ErrWindowClosed", err)
	}
}

func TestWithDevTime(t *testing.T) {
	now := ist(2025, time.November, 20, 8, 15)
	got, err := WithDevTime("11:05", now)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(ist(2025, time.November, 20, 11, 5)) {
		t.Fatalf("dev time = %v", got)
	}
	if _, err := WithDevTime("25:99", now); err == nil {
		t.Fatal("expected error for invalid dev time")
	}
}

func TestVisiblePoojaSessions(t *testing.T) {
	today := "2025-11-20"
	if got := VisiblePoojaSessions(today, ist(2025, time.November, 20, 9, 0)); len(got) != 2 {
		t.Fatalf("morning visible = %v", got)
	}
	got := VisiblePoojaSessions(today, ist(2025, time.November, 20, 11, 0))
	if len(got) != 1 || got[0] != "6:30 PM" {
		t.Fatalf("after 11:00 visible = %v", got)
	}
	if got := VisiblePoojaSessions(today, ist(2025, time.November, 20, 21, 0)); len(got) != 0 {
		t.Fatalf("after 21:00 visible = %v", got)
	}
	// A future date always shows both sessions.
	if got := VisiblePoojaSessions("2025-11-21", ist(2025, time.November, 20, 22, 0)); len(got) != 2 {
		t.Fatalf("future date visible = %v", got)
	}
}

func TestSessionPeriod(t *testing.T) {
	if p, ok := SessionPeriod("2:30 PM - 3:00 PM"); !ok || p != PeriodAfternoon {
		t.Fatalf("got %v %v", p, ok)
	}
	if p, ok := SessionPeriod("9:30 PM - 10:00 PM"); !ok || p != PeriodEvening {
		t.Fatalf("got %v %v", p, ok)
	}
	if _, ok := SessionPeriod("10:30 AM"); ok {
		t.Fatal("pooja label must not classify as annadanam session")
	}
}
