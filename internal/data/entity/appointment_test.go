package entity

import (
	"testing"
	"time"
)

func TestAppointmentTransitions(t *testing.T) {
	tests := []struct {
		from, to AppointmentStatus
		want     bool
	}{
		{AppointmentPending, AppointmentConfirmed, true},
		{AppointmentPending, AppointmentCancelled, true},
		{AppointmentPending, AppointmentCompleted, false},
		{AppointmentPending, AppointmentNoShow, false},
		{AppointmentConfirmed, AppointmentCompleted, true},
		{AppointmentConfirmed, AppointmentNoShow, true},
		{AppointmentConfirmed, AppointmentPending, false},
		{AppointmentRescheduled, AppointmentRescheduled, true},
		{AppointmentRescheduled, AppointmentCompleted, true},
		{AppointmentCompleted, AppointmentCancelled, false},
		{AppointmentCancelled, AppointmentConfirmed, false},
		{AppointmentNoShow, AppointmentCompleted, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
				t.Errorf("CanTransitionTo() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTerminalStatusesHaveNoExits(t *testing.T) {
	all := []AppointmentStatus{
		AppointmentPending, AppointmentConfirmed, AppointmentCompleted,
		AppointmentCancelled, AppointmentRescheduled, AppointmentNoShow,
	}
	for _, from := range all {
		if !from.IsTerminal() {
			continue
		}
		for _, to := range all {
			if from.CanTransitionTo(to) {
				t.Errorf("%s should not transition to %s", from, to)
			}
		}
	}
	if AppointmentStatus("archived").IsValid() {
		t.Error("unknown status reported valid")
	}
}

func TestAppointmentStartsAtPrefersConfirmed(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	confirmedDate := time.Date(2026, 10, 21, 0, 0, 0, 0, time.UTC)
	confirmedTime := NewClock(15, 30)

	appt := &Appointment{
		RequestedDate: time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC),
		RequestedTime: NewClock(10, 0),
	}
	if want := time.Date(2026, 10, 20, 10, 0, 0, 0, loc); !appt.StartsAt(loc).Equal(want) {
		t.Errorf("StartsAt() = %v, want %v", appt.StartsAt(loc), want)
	}

	appt.ConfirmedDate, appt.ConfirmedTime = &confirmedDate, &confirmedTime
	if want := time.Date(2026, 10, 21, 15, 30, 0, 0, loc); !appt.StartsAt(loc).Equal(want) {
		t.Errorf("StartsAt() = %v, want %v", appt.StartsAt(loc), want)
	}
}

func TestLawyerTransitions(t *testing.T) {
	if !LawyerPending.CanTransitionTo(LawyerApproved) || !LawyerPending.CanTransitionTo(LawyerRejected) {
		t.Error("pending should be decidable")
	}
	if LawyerRejected.CanTransitionTo(LawyerApproved) {
		t.Error("rejected is final")
	}
	if !LawyerApproved.CanTransitionTo(LawyerSuspended) || !LawyerSuspended.CanTransitionTo(LawyerApproved) {
		t.Error("suspension should be reversible")
	}
	if LawyerPending.CanTransitionTo(LawyerSuspended) {
		t.Error("pending cannot be suspended")
	}
}
