package domain

import (
	"testing"
	"time"
)

func at(t *testing.T, y int, m time.Month, d, hh, mm, ss int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Yekaterinburg")
	if err != nil {
		t.Fatalf("load tz: %v", err)
	}
	return time.Date(y, m, d, hh, mm, ss, 0, loc)
}

func TestIsWeekend(t *testing.T) {
	cases := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"saturday noon", at(t, 2023, time.May, 27, 12, 0, 0), true},
		{"monday noon", at(t, 2023, time.May, 29, 12, 0, 0), false},
		{"sunday evening", at(t, 2023, time.May, 28, 23, 59, 0), true},
		// still Friday night service
		{"saturday 00:15", at(t, 2023, time.May, 27, 0, 15, 0), false},
		{"saturday 00:30", at(t, 2023, time.May, 27, 0, 30, 0), true},
		// still Sunday night service
		{"monday 00:20", at(t, 2023, time.May, 29, 0, 20, 0), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsWeekend(tc.now); got != tc.want {
				t.Fatalf("IsWeekend(%s) = %v, want %v", tc.now, got, tc.want)
			}
		})
	}
}

func TestHoursClosed_Boundaries(t *testing.T) {
	h := DefaultHours
	cases := []struct {
		hh, mm, ss int
		want       bool
	}{
		{5, 30, 0, false}, // open time itself is open
		{0, 30, 0, true},  // close time itself is closed
		{0, 29, 59, false},
		{5, 29, 59, true},
		{3, 0, 0, true},
		{12, 0, 0, false},
		{23, 59, 59, false},
		{0, 0, 0, false},
	}
	for _, tc := range cases {
		now := at(t, 2023, time.May, 29, tc.hh, tc.mm, tc.ss)
		if got := h.Closed(now); got != tc.want {
			t.Errorf("Closed(%02d:%02d:%02d) = %v, want %v", tc.hh, tc.mm, tc.ss, got, tc.want)
		}
	}
}

func TestHoursClosed_WrapAroundMidnight(t *testing.T) {
	h := Hours{Open: MustParseClock("06:00"), Close: MustParseClock("23:00")}
	if !h.Closed(at(t, 2023, time.May, 29, 23, 30, 0)) {
		t.Fatal("23:30 should be closed")
	}
	if !h.Closed(at(t, 2023, time.May, 29, 1, 0, 0)) {
		t.Fatal("01:00 should be closed")
	}
	if h.Closed(at(t, 2023, time.May, 29, 6, 0, 0)) {
		t.Fatal("06:00 should be open")
	}
}
