package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"legal-marketplace/internal/data/entity"
	"legal-marketplace/internal/data/repository"
	"legal-marketplace/internal/dto/request"
	"legal-marketplace/pkg/cache"
	"legal-marketplace/pkg/events"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newListing(status entity.LawyerStatus) *entity.LawyerListing {
	owner := newUser(entity.RoleLawyer)
	l := &entity.LawyerListing{User: *owner}
	l.Profile.ID = uuid.New()
	l.Profile.UserID = owner.ID
	l.Profile.Status = status
	return l
}

func TestLawyerDecide(t *testing.T) {
	adminID := uuid.New()
	now := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		status    entity.LawyerStatus
		action    string
		wantErr   error
		wantState entity.LawyerStatus
		wantEvent string
	}{
		{"approve pending", entity.LawyerPending, "approve", nil, entity.LawyerApproved, events.LawyerApproved},
		{"reject pending", entity.LawyerPending, "reject", nil, entity.LawyerRejected, events.LawyerRejected},
		{"approve already approved", entity.LawyerApproved, "approve", ErrInvalidTransition, "", ""},
		{"reject rejected", entity.LawyerRejected, "reject", ErrInvalidTransition, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			listing := newListing(tt.status)
			var savedFrom entity.LawyerStatus
			var saved *entity.LawyerProfile
			lawyers := &mockLawyerRepo{
				findListingFunc: func(ctx context.Context, id uuid.UUID) (*entity.LawyerListing, error) {
					return listing, nil
				},
				updateStatusFunc: func(ctx context.Context, p *entity.LawyerProfile, from entity.LawyerStatus) error {
					savedFrom, saved = from, p
					return nil
				},
			}
			pub := &recordingPublisher{}
			svc := NewLawyerService(&repository.Repository{Lawyer: lawyers}, nil, cache.Noop{}, pub, zap.NewNop()).(*lawyerService)
			svc.now = fixedClock(now)

			reason := "incomplete documents"
			resp, err := svc.Decide(context.Background(), adminID, listing.Profile.ID, &request.LawyerDecisionRequest{Action: tt.action, Reason: &reason})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Decide() error = %v, want %v", err, tt.wantErr)
				}
				if saved != nil {
					t.Error("status must not be written on an invalid transition")
				}
				return
			}
			if err != nil {
				t.Fatalf("Decide() error = %v", err)
			}
			if resp.Status != tt.wantState || saved.Status != tt.wantState {
				t.Errorf("status = %s, want %s", resp.Status, tt.wantState)
			}
			if savedFrom != tt.status {
				t.Errorf("guarded from = %s, want %s", savedFrom, tt.status)
			}
			if got := pub.types(); len(got) != 1 || got[0] != tt.wantEvent {
				t.Errorf("events = %v, want [%s]", got, tt.wantEvent)
			}
			if tt.wantState == entity.LawyerApproved {
				if saved.VerifiedBy == nil || *saved.VerifiedBy != adminID || saved.VerificationDate == nil {
					t.Error("approval must record the verifying admin and date")
				}
			} else if saved.RejectionReason == nil || *saved.RejectionReason != reason {
				t.Error("rejection must keep the reason")
			}
		})
	}
}

func TestLawyerDecideLostRace(t *testing.T) {
	listing := newListing(entity.LawyerPending)
	lawyers := &mockLawyerRepo{
		findListingFunc: func(ctx context.Context, id uuid.UUID) (*entity.LawyerListing, error) {
			return listing, nil
		},
		updateStatusFunc: func(ctx context.Context, p *entity.LawyerProfile, from entity.LawyerStatus) error {
			return repository.ErrStale
		},
	}
	svc := NewLawyerService(&repository.Repository{Lawyer: lawyers}, nil, cache.Noop{}, &recordingPublisher{}, zap.NewNop())

	_, err := svc.Decide(context.Background(), uuid.New(), listing.Profile.ID, &request.LawyerDecisionRequest{Action: "approve"})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("Decide() error = %v, want ErrConflict", err)
	}
}

func TestLawyerSuspendAndReinstate(t *testing.T) {
	listing := newListing(entity.LawyerApproved)
	lawyers := &mockLawyerRepo{
		findListingFunc: func(ctx context.Context, id uuid.UUID) (*entity.LawyerListing, error) {
			return listing, nil
		},
		updateStatusFunc: func(ctx context.Context, p *entity.LawyerProfile, from entity.LawyerStatus) error {
			return nil
		},
	}
	pub := &recordingPublisher{}
	svc := NewLawyerService(&repository.Repository{Lawyer: lawyers}, nil, cache.Noop{}, pub, zap.NewNop())
	ctx := context.Background()

	if _, err := svc.Suspend(ctx, uuid.New(), listing.Profile.ID, nil); err != nil {
		t.Fatalf("Suspend() error = %v", err)
	}
	if listing.Profile.Status != entity.LawyerSuspended {
		t.Fatalf("status = %s, want suspended", listing.Profile.Status)
	}
	if _, err := svc.Suspend(ctx, uuid.New(), listing.Profile.ID, nil); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("second Suspend() error = %v, want ErrInvalidTransition", err)
	}
	if _, err := svc.Reinstate(ctx, uuid.New(), listing.Profile.ID); err != nil {
		t.Fatalf("Reinstate() error = %v", err)
	}
	if got := pub.types(); len(got) != 2 || got[0] != events.LawyerSuspended || got[1] != events.LawyerReinstated {
		t.Errorf("events = %v", got)
	}
}

func TestLawyerGetPublicHidesUnapproved(t *testing.T) {
	listing := newListing(entity.LawyerPending)
	lawyers := &mockLawyerRepo{
		findListingFunc: func(ctx context.Context, id uuid.UUID) (*entity.LawyerListing, error) {
			return listing, nil
		},
	}
	svc := NewLawyerService(&repository.Repository{Lawyer: lawyers}, nil, cache.Noop{}, &recordingPublisher{}, zap.NewNop())

	if _, err := svc.GetPublic(context.Background(), listing.Profile.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetPublic() error = %v, want ErrNotFound", err)
	}

	listing.Profile.Status = entity.LawyerApproved
	resp, err := svc.GetPublic(context.Background(), listing.Profile.ID)
	if err != nil {
		t.Fatalf("GetPublic() error = %v", err)
	}
	if resp.Private != nil {
		t.Error("public detail must not expose verification fields")
	}
}

func TestLawyerCreateProfileValidation(t *testing.T) {
	svc := NewLawyerService(&repository.Repository{}, nil, cache.Noop{}, &recordingPublisher{}, zap.NewNop())
	start, end := "18:00", "09:00"

	tests := []struct {
		name string
		req  *request.CreateLawyerProfileRequest
	}{
		{"unknown specialization", &request.CreateLawyerProfileRequest{Specializations: []string{"maritime"}}},
		{"hours reversed", &request.CreateLawyerProfileRequest{
			Specializations:    []string{"family"},
			AvailableTimeStart: &start,
			AvailableTimeEnd:   &end,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateProfile(context.Background(), uuid.New(), tt.req); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("CreateProfile() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestRatingRate(t *testing.T) {
	rater := newUser(entity.RoleUser)
	listing := newListing(entity.LawyerApproved)

	profileRepo := func(status entity.LawyerStatus) *mockLawyerRepo {
		return &mockLawyerRepo{
			findByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.LawyerProfile, error) {
				p := listing.Profile
				p.Status = status
				return &p, nil
			},
		}
	}
	noRating := func(ctx context.Context, lawyerID, userID uuid.UUID) (*entity.LawyerRating, error) {
		return nil, nil
	}

	tests := []struct {
		name    string
		raterID uuid.UUID
		status  entity.LawyerStatus
		ratings *mockRatingRepo
		wantErr error
	}{
		{
			name:    "ok",
			raterID: rater.ID,
			status:  entity.LawyerApproved,
			ratings: &mockRatingRepo{
				findByLawyerAndUserFunc: noRating,
				createFunc: func(ctx context.Context, r *entity.LawyerRating) (*entity.RatingSummary, error) {
					return &entity.RatingSummary{AverageRating: 4.5, TotalReviews: 2}, nil
				},
			},
		},
		{
			name:    "self rating",
			raterID: listing.Profile.UserID,
			status:  entity.LawyerApproved,
			ratings: &mockRatingRepo{findByLawyerAndUserFunc: noRating},
			wantErr: ErrForbidden,
		},
		{
			name:    "lawyer not approved",
			raterID: rater.ID,
			status:  entity.LawyerPending,
			ratings: &mockRatingRepo{findByLawyerAndUserFunc: noRating},
			wantErr: ErrNotFound,
		},
		{
			name:    "already rated",
			raterID: rater.ID,
			status:  entity.LawyerApproved,
			ratings: &mockRatingRepo{
				findByLawyerAndUserFunc: func(ctx context.Context, lawyerID, userID uuid.UUID) (*entity.LawyerRating, error) {
					return &entity.LawyerRating{}, nil
				},
			},
			wantErr: ErrConflict,
		},
		{
			name:    "unique violation",
			raterID: rater.ID,
			status:  entity.LawyerApproved,
			ratings: &mockRatingRepo{
				findByLawyerAndUserFunc: noRating,
				createFunc: func(ctx context.Context, r *entity.LawyerRating) (*entity.RatingSummary, error) {
					return nil, repository.ErrDuplicate
				},
			},
			wantErr: ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &repository.Repository{
				Lawyer: profileRepo(tt.status),
				Rating: tt.ratings,
				User:   usersOf(rater),
			}
			svc := NewRatingService(repo, cache.Noop{}, zap.NewNop())

			resp, err := svc.Rate(context.Background(), tt.raterID, &request.RateLawyerRequest{
				LawyerID: listing.Profile.ID.String(),
				Rating:   5,
			})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Rate() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Rate() error = %v", err)
			}
			if resp.AverageRating != 4.5 || resp.TotalReviews != 2 || resp.Rating == nil {
				t.Errorf("Rate() = %+v", resp)
			}
		})
	}
}
