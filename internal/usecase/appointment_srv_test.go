package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"legal-marketplace/internal/data/entity"
	"legal-marketplace/internal/data/repository"
	"legal-marketplace/internal/dto/request"
	"legal-marketplace/pkg/events"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type appointmentFixture struct {
	client      *entity.User
	lawyer      *entity.User
	appt        *entity.Appointment
	appts       *mockAppointmentRepo
	reschedules *mockRescheduleRepo
	feedback    *mockFeedbackRepo
	lawyers     *mockLawyerRepo
	profile     *entity.LawyerProfile
	cache       *recordingCache
	pub         *recordingPublisher
	svc         *appointmentService
}

func newAppointmentFixture(status entity.AppointmentStatus) *appointmentFixture {
	f := &appointmentFixture{
		client: newUser(entity.RoleUser),
		lawyer: newUser(entity.RoleLawyer),
		cache:  &recordingCache{},
		pub:    &recordingPublisher{},
	}
	f.appt = &entity.Appointment{
		UserID:          f.client.ID,
		LawyerID:        f.lawyer.ID,
		RequestedDate:   time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC),
		RequestedTime:   entity.NewClock(10, 0),
		DurationMinutes: 60,
		Status:          status,
	}
	f.appt.ID = uuid.New()

	f.appts = &mockAppointmentRepo{appts: map[uuid.UUID]*entity.Appointment{f.appt.ID: f.appt}}
	f.reschedules = &mockRescheduleRepo{requests: make(map[uuid.UUID]*entity.RescheduleRequest), appts: f.appts}
	f.feedback = &mockFeedbackRepo{}
	var profiles map[uuid.UUID]*entity.LawyerProfile
	f.lawyers, profiles = profilesOf(f.lawyer)
	f.profile = profiles[f.lawyer.ID]

	repo := &repository.Repository{
		User:        usersOf(f.client, f.lawyer),
		Lawyer:      f.lawyers,
		Appointment: f.appts,
		Reschedule:  f.reschedules,
		Feedback:    f.feedback,
	}
	f.svc = NewAppointmentService(repo, f.pub, f.cache, time.UTC, zap.NewNop()).(*appointmentService)
	f.svc.now = fixedClock(time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC))
	return f
}

func (f *appointmentFixture) asClient() Actor { return Actor{ID: f.client.ID, Role: entity.RoleUser} }
func (f *appointmentFixture) asLawyer() Actor { return Actor{ID: f.lawyer.ID, Role: entity.RoleLawyer} }

func TestAppointmentConfirm(t *testing.T) {
	t.Run("lawyer confirms with defaults", func(t *testing.T) {
		f := newAppointmentFixture(entity.AppointmentPending)
		link := "https://meet.example/abc"

		resp, err := f.svc.Confirm(context.Background(), f.asLawyer(), f.appt.ID, &request.ConfirmAppointmentRequest{MeetingLink: &link})
		if err != nil {
			t.Fatalf("Confirm() error = %v", err)
		}
		if resp.Status != entity.AppointmentConfirmed {
			t.Errorf("status = %s, want confirmed", resp.Status)
		}
		if resp.ConfirmedDate == nil || *resp.ConfirmedDate != "2026-10-20" {
			t.Errorf("confirmed date = %v, want requested date", resp.ConfirmedDate)
		}
		if resp.ConfirmedTime == nil || *resp.ConfirmedTime != entity.NewClock(10, 0) {
			t.Errorf("confirmed time = %v, want 10:00", resp.ConfirmedTime)
		}
		if got := f.pub.types(); len(got) != 1 || got[0] != events.AppointmentConfirmed {
			t.Errorf("events = %v", got)
		}
	})

	t.Run("client cannot confirm", func(t *testing.T) {
		f := newAppointmentFixture(entity.AppointmentPending)
		_, err := f.svc.Confirm(context.Background(), f.asClient(), f.appt.ID, &request.ConfirmAppointmentRequest{})
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("Confirm() error = %v, want ErrForbidden", err)
		}
	})

	t.Run("outsider cannot see it", func(t *testing.T) {
		f := newAppointmentFixture(entity.AppointmentPending)
		_, err := f.svc.Get(context.Background(), Actor{ID: uuid.New(), Role: entity.RoleUser}, f.appt.ID)
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("Get() error = %v, want ErrForbidden", err)
		}
	})

	t.Run("admin can see it", func(t *testing.T) {
		f := newAppointmentFixture(entity.AppointmentPending)
		if _, err := f.svc.Get(context.Background(), Actor{ID: uuid.New(), Role: entity.RoleAdmin}, f.appt.ID); err != nil {
			t.Fatalf("Get() error = %v", err)
		}
	})
}

func TestAppointmentTerminalStatesAreFinal(t *testing.T) {
	for _, status := range []entity.AppointmentStatus{entity.AppointmentCompleted, entity.AppointmentCancelled, entity.AppointmentNoShow} {
		t.Run(string(status), func(t *testing.T) {
			f := newAppointmentFixture(status)
			ctx := context.Background()

			if _, err := f.svc.Confirm(ctx, f.asLawyer(), f.appt.ID, &request.ConfirmAppointmentRequest{}); !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("Confirm() error = %v, want ErrInvalidTransition", err)
			}
			if _, err := f.svc.Cancel(ctx, f.asClient(), f.appt.ID, &request.CancelAppointmentRequest{Reason: "x"}); !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("Cancel() error = %v, want ErrInvalidTransition", err)
			}
			if len(f.appts.updateCalls) != 0 {
				t.Errorf("terminal appointment was written: %v", f.appts.updateCalls)
			}
		})
	}
}

func TestAppointmentCompleteCountsConsultation(t *testing.T) {
	f := newAppointmentFixture(entity.AppointmentConfirmed)
	notes := "discussed custody options"

	resp, err := f.svc.Complete(context.Background(), f.asLawyer(), f.appt.ID, &request.CompleteAppointmentRequest{MeetingNotes: &notes})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if resp.Status != entity.AppointmentCompleted || resp.MeetingNotes == nil {
		t.Errorf("Complete() = %+v", resp)
	}
	if f.lawyers.incrementCalls != 1 {
		t.Errorf("IncrementConsultations called %d times, want 1", f.lawyers.incrementCalls)
	}
	if want := lawyerCacheKey(f.profile.ID); len(f.cache.deleted) != 1 || f.cache.deleted[0] != want {
		t.Errorf("evicted %v, want [%s]", f.cache.deleted, want)
	}
}

func TestAppointmentCancelRecordsActor(t *testing.T) {
	f := newAppointmentFixture(entity.AppointmentConfirmed)

	resp, err := f.svc.Cancel(context.Background(), f.asClient(), f.appt.ID, &request.CancelAppointmentRequest{Reason: "travelling"})
	if err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if resp.CancelledBy == nil || *resp.CancelledBy != f.client.ID.String() || resp.CancelledAt == nil {
		t.Errorf("cancellation not recorded: %+v", resp)
	}
	if resp.CancellationReason == nil || *resp.CancellationReason != "travelling" {
		t.Errorf("reason = %v", resp.CancellationReason)
	}
}

func TestAppointmentRescheduleFlow(t *testing.T) {
	f := newAppointmentFixture(entity.AppointmentConfirmed)
	ctx := context.Background()

	rr := &entity.RescheduleRequest{
		AppointmentID:    f.appt.ID,
		RequestedBy:      f.client.ID,
		NewRequestedDate: time.Date(2026, 10, 22, 0, 0, 0, 0, time.UTC),
		NewRequestedTime: entity.NewClock(15, 30),
		Status:           entity.ReschedulePending,
	}
	rr.ID = uuid.New()
	f.reschedules.requests[rr.ID] = rr

	if _, err := f.svc.RespondReschedule(ctx, f.asClient(), rr.ID, &request.RespondRescheduleRequest{Action: "approve"}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("proposer RespondReschedule() error = %v, want ErrForbidden", err)
	}

	resp, err := f.svc.RespondReschedule(ctx, f.asLawyer(), rr.ID, &request.RespondRescheduleRequest{Action: "approve"})
	if err != nil {
		t.Fatalf("RespondReschedule() error = %v", err)
	}
	if resp.Status != entity.RescheduleApproved {
		t.Errorf("request status = %s, want approved", resp.Status)
	}

	stored := f.appts.appts[f.appt.ID]
	if stored.Status != entity.AppointmentRescheduled {
		t.Errorf("appointment status = %s, want rescheduled", stored.Status)
	}
	if stored.ConfirmedTime == nil || *stored.ConfirmedTime != entity.NewClock(15, 30) {
		t.Errorf("confirmed time = %v, want 15:30", stored.ConfirmedTime)
	}
	if got := f.pub.types(); len(got) != 1 || got[0] != events.AppointmentRescheduled {
		t.Errorf("events = %v", got)
	}

	if _, err := f.svc.RespondReschedule(ctx, f.asLawyer(), rr.ID, &request.RespondRescheduleRequest{Action: "reject"}); !errors.Is(err, ErrConflict) {
		t.Fatalf("second RespondReschedule() error = %v, want ErrConflict", err)
	}
}

func TestAppointmentRescheduleResetsReminders(t *testing.T) {
	f := newAppointmentFixture(entity.AppointmentConfirmed)
	f.appt.ReminderSentToUser, f.appt.ReminderSentToLawyer = true, true

	rr := &entity.RescheduleRequest{
		AppointmentID:    f.appt.ID,
		RequestedBy:      f.client.ID,
		NewRequestedDate: time.Date(2026, 10, 22, 0, 0, 0, 0, time.UTC),
		NewRequestedTime: entity.NewClock(15, 30),
		Status:           entity.ReschedulePending,
	}
	rr.ID = uuid.New()
	f.reschedules.requests[rr.ID] = rr

	if _, err := f.svc.RespondReschedule(context.Background(), f.asLawyer(), rr.ID, &request.RespondRescheduleRequest{Action: "approve"}); err != nil {
		t.Fatalf("RespondReschedule() error = %v", err)
	}

	stored := f.appts.appts[f.appt.ID]
	if stored.ReminderSentToUser || stored.ReminderSentToLawyer {
		t.Errorf("reminder flags = %v/%v after reschedule, want both cleared", stored.ReminderSentToUser, stored.ReminderSentToLawyer)
	}
}

func TestAppointmentRequestRescheduleRejectsPastDate(t *testing.T) {
	f := newAppointmentFixture(entity.AppointmentConfirmed)
	_, err := f.svc.RequestReschedule(context.Background(), f.asClient(), f.appt.ID, &request.CreateRescheduleRequest{
		NewDate: "2026-10-01",
		NewTime: "10:00",
		Reason:  "conflict",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("RequestReschedule() error = %v, want ErrInvalidInput", err)
	}
}

func TestAppointmentFeedback(t *testing.T) {
	t.Run("rejected before completion", func(t *testing.T) {
		f := newAppointmentFixture(entity.AppointmentConfirmed)
		rating := 5
		_, err := f.svc.SubmitFeedback(context.Background(), f.asClient(), f.appt.ID, &request.FeedbackRequest{Rating: &rating})
		if !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("SubmitFeedback() error = %v, want ErrInvalidTransition", err)
		}
	})

	t.Run("each side fills its own half", func(t *testing.T) {
		f := newAppointmentFixture(entity.AppointmentCompleted)
		ctx := context.Background()
		userRating, lawyerRating := 4, 5
		recommend := true

		if _, err := f.svc.SubmitFeedback(ctx, f.asClient(), f.appt.ID, &request.FeedbackRequest{Rating: &userRating, WouldRecommend: &recommend}); err != nil {
			t.Fatalf("client SubmitFeedback() error = %v", err)
		}
		resp, err := f.svc.SubmitFeedback(ctx, f.asLawyer(), f.appt.ID, &request.FeedbackRequest{Rating: &lawyerRating})
		if err != nil {
			t.Fatalf("lawyer SubmitFeedback() error = %v", err)
		}

		if resp.UserRating == nil || *resp.UserRating != 4 {
			t.Errorf("user rating = %v, want 4", resp.UserRating)
		}
		if resp.LawyerRating == nil || *resp.LawyerRating != 5 {
			t.Errorf("lawyer rating = %v, want 5", resp.LawyerRating)
		}
		if resp.UserWouldRecommend == nil || !*resp.UserWouldRecommend {
			t.Error("would recommend lost")
		}
	})
}

func TestAppointmentCreateRules(t *testing.T) {
	f := newAppointmentFixture(entity.AppointmentPending)
	ctx := context.Background()

	base := request.CreateAppointmentRequest{
		LawyerID:      f.lawyer.ID.String(),
		Title:         "Property dispute",
		Description:   "Boundary wall",
		RequestedDate: "2026-10-20",
		RequestedTime: "11:00",
	}

	self := base
	self.LawyerID = f.client.ID.String()
	if _, err := f.svc.Create(ctx, f.client.ID, &self); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("self booking error = %v, want ErrInvalidInput", err)
	}

	past := base
	past.RequestedDate = "2026-10-13"
	if _, err := f.svc.Create(ctx, f.client.ID, &past); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("past date error = %v, want ErrInvalidInput", err)
	}

	notLawyer := base
	notLawyer.LawyerID = uuid.NewString()
	if _, err := f.svc.Create(ctx, f.client.ID, &notLawyer); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown lawyer error = %v, want ErrNotFound", err)
	}

	f.lawyers.findByUserIDFunc = func(ctx context.Context, userID uuid.UUID) (*entity.LawyerProfile, error) {
		return &entity.LawyerProfile{UserID: userID, Status: entity.LawyerPending}, nil
	}
	if _, err := f.svc.Create(ctx, f.client.ID, &base); !errors.Is(err, ErrForbidden) {
		t.Errorf("unapproved lawyer error = %v, want ErrForbidden", err)
	}
}
