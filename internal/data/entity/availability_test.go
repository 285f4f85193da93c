package entity

import (
	"testing"
	"time"
)

func clockPtr(h, m int) *Clock {
	c := NewClock(h, m)
	return &c
}

func TestAvailabilityValid(t *testing.T) {
	base := func() *Availability {
		return &Availability{Weekday: 0, StartTime: NewClock(9, 0), EndTime: NewClock(17, 0), IsAvailable: true}
	}

	tests := []struct {
		name   string
		mutate func(a *Availability)
		want   bool
	}{
		{"plain window", func(a *Availability) {}, true},
		{"with break", func(a *Availability) { a.BreakStartTime, a.BreakEndTime = clockPtr(12, 0), clockPtr(13, 0) }, true},
		{"end before start", func(a *Availability) { a.EndTime = NewClock(8, 0) }, false},
		{"empty window", func(a *Availability) { a.EndTime = a.StartTime }, false},
		{"weekday out of range", func(a *Availability) { a.Weekday = 7 }, false},
		{"half break", func(a *Availability) { a.BreakStartTime = clockPtr(12, 0) }, false},
		{"break outside window", func(a *Availability) { a.BreakStartTime, a.BreakEndTime = clockPtr(16, 30), clockPtr(17, 30) }, false},
		{"inverted break", func(a *Availability) { a.BreakStartTime, a.BreakEndTime = clockPtr(13, 0), clockPtr(12, 0) }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := base()
			tt.mutate(a)
			if got := a.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMondayWeekday(t *testing.T) {
	// 2026-10-12 is a Monday
	monday := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		if got := MondayWeekday(monday.AddDate(0, 0, i)); got != i {
			t.Errorf("MondayWeekday(+%d) = %d", i, got)
		}
	}
	if WeekdayName(6) != "Sunday" || WeekdayName(7) != "" {
		t.Error("unexpected weekday names")
	}
}
