package jobs

import (
	"context"
	"fmt"
	"time"

	"legal-marketplace/internal/data/entity"
	"legal-marketplace/internal/data/repository"
	"legal-marketplace/pkg/events"
	"legal-marketplace/pkg/utils"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const jobTimeout = 2 * time.Minute

// Scheduler runs the periodic maintenance jobs
type Scheduler struct {
	cron   *cron.Cron
	repo   *repository.Repository
	events events.Publisher
	cfg    utils.JobsConfig
	loc    *time.Location
	log    *zap.Logger
	now    func() time.Time
}

func New(repo *repository.Repository, pub events.Publisher, cfg utils.JobsConfig, loc *time.Location, log *zap.Logger) *Scheduler {
	log = log.With(zap.String("component", "jobs"))
	cl := cronLogger{log.Sugar()}

	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		repo:   repo,
		events: pub,
		cfg:    cfg,
		loc:    loc,
		log:    log,
		now:    time.Now,
	}
}

// Start registers the jobs and starts the cron loop in its own goroutine
func (s *Scheduler) Start() error {
	jobs := []struct {
		name string
		spec string
		run  func(ctx context.Context) error
	}{
		{"appointment reminders", s.cfg.ReminderSpec, s.SendReminders},
		{"session cleanup", s.cfg.SessionCleanupSpec, s.CleanSessions},
	}

	for _, job := range jobs {
		if job.spec == "" {
			s.log.Info("Job disabled", zap.String("job", job.name))
			continue
		}
		if _, err := s.cron.AddFunc(job.spec, func() { s.run(job.name, job.run) }); err != nil {
			return fmt.Errorf("schedule %s (%q): %w", job.name, job.spec, err)
		}
		s.log.Info("Job scheduled", zap.String("job", job.name), zap.String("spec", job.spec))
	}

	s.cron.Start()
	return nil
}

// Stop waits for running jobs until ctx expires
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn("Jobs still running at shutdown")
	}
}

func (s *Scheduler) run(name string, fn func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := s.now()
	if err := fn(ctx); err != nil {
		s.log.Error("Job failed", zap.String("job", name), zap.Error(err))
		return
	}
	s.log.Debug("Job finished", zap.String("job", name), zap.Duration("took", s.now().Sub(start)))
}

// dueForReminder reports whether appt starts within lead from now
func dueForReminder(appt *entity.Appointment, now time.Time, lead time.Duration, loc *time.Location) bool {
	if !appt.Status.IsScheduled() || (appt.ReminderSentToUser && appt.ReminderSentToLawyer) {
		return false
	}
	starts := appt.StartsAt(loc)
	return !starts.Before(now) && !starts.After(now.Add(lead))
}

func calendarDate(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SendReminders emits appointment.reminder for scheduled appointments starting soon
func (s *Scheduler) SendReminders(ctx context.Context) error {
	now := s.now().In(s.loc)
	lead := s.cfg.ReminderLead

	candidates, err := s.repo.Appointment.ListDueReminders(ctx, calendarDate(now, s.loc), calendarDate(now.Add(lead), s.loc))
	if err != nil {
		return fmt.Errorf("list due reminders: %w", err)
	}

	sent := 0
	for _, appt := range candidates {
		if !dueForReminder(appt, now, lead, s.loc) {
			continue
		}

		data := map[string]any{
			"appointment_id": appt.ID.String(),
			"user_id":        appt.UserID.String(),
			"lawyer_id":      appt.LawyerID.String(),
			"title":          appt.Title,
			"starts_at":      appt.StartsAt(s.loc),
			"meeting_type":   appt.MeetingType,
		}
		if appt.MeetingLink != nil {
			data["meeting_link"] = *appt.MeetingLink
		}

		if err := s.events.Publish(ctx, events.New(events.AppointmentReminder, appt.ID.String(), data)); err != nil {
			// left unflagged so the next run retries
			s.log.Warn("Failed to publish reminder", zap.Error(err), zap.String("appointment_id", appt.ID.String()))
			continue
		}
		if err := s.repo.Appointment.MarkRemindersSent(ctx, appt.ID); err != nil {
			return fmt.Errorf("mark reminder sent: %w", err)
		}
		sent++
	}

	if sent > 0 {
		s.log.Info("Appointment reminders sent", zap.Int("count", sent))
	}
	return nil
}

// CleanSessions deletes expired and revoked sessions
func (s *Scheduler) CleanSessions(ctx context.Context) error {
	n, err := s.repo.Session.CleanExpiredSessions(ctx)
	if err != nil {
		return fmt.Errorf("clean sessions: %w", err)
	}
	if n > 0 {
		s.log.Info("Expired sessions removed", zap.Int64("count", n))
	}
	return nil
}

// cronLogger adapts zap to cron.Logger
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
