package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"legal-marketplace/internal/data/entity"
	"legal-marketplace/internal/data/repository"
	"legal-marketplace/pkg/events"
	"legal-marketplace/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type mockAppointmentRepo struct {
	repository.AppointmentRepository
	due      []*entity.Appointment
	from, to time.Time
	marked   []uuid.UUID
}

func (m *mockAppointmentRepo) ListDueReminders(ctx context.Context, fromDate, toDate time.Time) ([]*entity.Appointment, error) {
	m.from, m.to = fromDate, toDate
	return m.due, nil
}

func (m *mockAppointmentRepo) MarkRemindersSent(ctx context.Context, id uuid.UUID) error {
	m.marked = append(m.marked, id)
	return nil
}

type mockSessionRepo struct {
	repository.SessionRepository
	cleaned int64
	err     error
}

func (m *mockSessionRepo) CleanExpiredSessions(ctx context.Context) (int64, error) {
	return m.cleaned, m.err
}

type publisher struct {
	events []events.Event
	err    error
}

func (p *publisher) Publish(ctx context.Context, evs ...events.Event) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, evs...)
	return nil
}

func (p *publisher) Close() error { return nil }

func appointmentAt(status entity.AppointmentStatus, start time.Time) *entity.Appointment {
	appt := &entity.Appointment{
		UserID:          uuid.New(),
		LawyerID:        uuid.New(),
		Title:           "Contract review",
		MeetingType:     entity.MeetingVideoCall,
		RequestedDate:   time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC),
		RequestedTime:   entity.ClockOf(start),
		DurationMinutes: 60,
		Status:          status,
	}
	appt.ID = uuid.New()
	return appt
}

func newScheduler(appts *mockAppointmentRepo, sessions *mockSessionRepo, pub events.Publisher, now time.Time) *Scheduler {
	repo := &repository.Repository{Appointment: appts, Session: sessions}
	s := New(repo, pub, utils.JobsConfig{ReminderLead: time.Hour}, time.UTC, zap.NewNop())
	s.now = func() time.Time { return now }
	return s
}

func TestDueForReminder(t *testing.T) {
	now := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

	sent := appointmentAt(entity.AppointmentConfirmed, now.Add(30*time.Minute))
	sent.ReminderSentToUser, sent.ReminderSentToLawyer = true, true

	tests := []struct {
		name string
		appt *entity.Appointment
		want bool
	}{
		{"within lead", appointmentAt(entity.AppointmentConfirmed, now.Add(30*time.Minute)), true},
		{"at lead boundary", appointmentAt(entity.AppointmentRescheduled, now.Add(time.Hour)), true},
		{"beyond lead", appointmentAt(entity.AppointmentConfirmed, now.Add(2*time.Hour)), false},
		{"already started", appointmentAt(entity.AppointmentConfirmed, now.Add(-time.Minute)), false},
		{"pending", appointmentAt(entity.AppointmentPending, now.Add(30*time.Minute)), false},
		{"already reminded", sent, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dueForReminder(tt.appt, now, time.Hour, time.UTC); got != tt.want {
				t.Errorf("dueForReminder() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSendReminders(t *testing.T) {
	now := time.Date(2026, 10, 14, 23, 30, 0, 0, time.UTC)
	soon := appointmentAt(entity.AppointmentConfirmed, now.Add(20*time.Minute))
	later := appointmentAt(entity.AppointmentConfirmed, now.Add(5*time.Hour))

	appts := &mockAppointmentRepo{due: []*entity.Appointment{soon, later}}
	pub := &publisher{}
	s := newScheduler(appts, &mockSessionRepo{}, pub, now)

	if err := s.SendReminders(context.Background()); err != nil {
		t.Fatalf("SendReminders() error = %v", err)
	}

	if want := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC); !appts.from.Equal(want) {
		t.Errorf("from = %v, want %v", appts.from, want)
	}
	if want := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC); !appts.to.Equal(want) {
		t.Errorf("to = %v, want %v", appts.to, want)
	}

	if len(pub.events) != 1 || pub.events[0].Type != events.AppointmentReminder {
		t.Fatalf("events = %+v, want one reminder", pub.events)
	}
	if pub.events[0].Key != soon.ID.String() {
		t.Errorf("event key = %q, want %q", pub.events[0].Key, soon.ID)
	}
	if len(appts.marked) != 1 || appts.marked[0] != soon.ID {
		t.Errorf("marked = %v, want [%s]", appts.marked, soon.ID)
	}
}

func TestSendRemindersLeavesUnpublishedUnmarked(t *testing.T) {
	now := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	appts := &mockAppointmentRepo{due: []*entity.Appointment{appointmentAt(entity.AppointmentConfirmed, now.Add(10*time.Minute))}}
	s := newScheduler(appts, &mockSessionRepo{}, &publisher{err: errors.New("broker down")}, now)

	if err := s.SendReminders(context.Background()); err != nil {
		t.Fatalf("SendReminders() error = %v", err)
	}
	if len(appts.marked) != 0 {
		t.Errorf("marked = %v, want none", appts.marked)
	}
}

func TestCleanSessions(t *testing.T) {
	s := newScheduler(&mockAppointmentRepo{}, &mockSessionRepo{cleaned: 3}, &publisher{}, time.Now())
	if err := s.CleanSessions(context.Background()); err != nil {
		t.Fatalf("CleanSessions() error = %v", err)
	}

	s = newScheduler(&mockAppointmentRepo{}, &mockSessionRepo{err: errors.New("db down")}, &publisher{}, time.Now())
	if err := s.CleanSessions(context.Background()); err == nil {
		t.Fatal("CleanSessions() error = nil, want error")
	}
}

func TestStartRejectsBadSpec(t *testing.T) {
	repo := &repository.Repository{Appointment: &mockAppointmentRepo{}, Session: &mockSessionRepo{}}
	s := New(repo, &publisher{}, utils.JobsConfig{ReminderSpec: "not a cron"}, time.UTC, zap.NewNop())
	if err := s.Start(); err == nil {
		s.Stop(context.Background())
		t.Fatal("Start() error = nil, want error")
	}
}
