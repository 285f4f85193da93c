package entity

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    Clock
		wantErr bool
	}{
		{"09:30", NewClock(9, 30), false},
		{"17:45:59", NewClock(17, 45), false},
		{"00:00", 0, false},
		{"24:00", 0, true},
		{"9am", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseClock(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseClock(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestClockAddClamps(t *testing.T) {
	c := NewClock(23, 30)
	if got := c.Add(15 * time.Minute); got != NewClock(23, 45) {
		t.Errorf("Add() = %s", got)
	}
	if got := c.Add(2 * time.Hour); got != Clock(minutesPerDay) {
		t.Errorf("Add() past midnight = %d, want %d", got, minutesPerDay)
	}
	if got := NewClock(0, 10).Add(-time.Hour); got != 0 {
		t.Errorf("Add() before midnight = %s, want 00:00", got)
	}
}

func TestClockJSON(t *testing.T) {
	var payload struct {
		At Clock `json:"at"`
	}
	if err := json.Unmarshal([]byte(`{"at":"08:05"}`), &payload); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if payload.At != NewClock(8, 5) {
		t.Errorf("At = %s, want 08:05", payload.At)
	}

	out, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(out) != `{"at":"08:05"}` {
		t.Errorf("Marshal() = %s", out)
	}

	if err := json.Unmarshal([]byte(`{"at":"late"}`), &payload); err == nil {
		t.Error("Unmarshal() accepted an invalid time")
	}
}

func TestClockPgTime(t *testing.T) {
	v, err := NewClock(14, 20).TimeValue()
	if err != nil {
		t.Fatalf("TimeValue() error = %v", err)
	}
	if want := int64(14*time.Hour+20*time.Minute) / int64(time.Microsecond); v.Microseconds != want {
		t.Errorf("Microseconds = %d, want %d", v.Microseconds, want)
	}

	var c Clock
	v.Valid = false
	if err := c.ScanTime(v); err == nil {
		t.Error("ScanTime() accepted NULL")
	}
}
