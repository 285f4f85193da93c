package usecase

import (
	"context"
	"strings"
	"testing"

	"legal-marketplace/internal/data/entity"
	"legal-marketplace/internal/data/repository"
	"legal-marketplace/internal/dto/request"

	"go.uber.org/zap"
)

func TestUserUpdatesEvictLawyerDetail(t *testing.T) {
	lawyer := newUser(entity.RoleLawyer)
	client := newUser(entity.RoleUser)
	lawyers, profiles := profilesOf(lawyer)
	city := "Pune"

	tests := []struct {
		name   string
		user   *entity.User
		update func(svc UserService, user *entity.User) error
		want   []string
	}{
		{
			name: "lawyer profile",
			user: lawyer,
			update: func(svc UserService, user *entity.User) error {
				_, err := svc.UpdateProfile(context.Background(), user.ID, &request.UpdateProfileRequest{City: &city})
				return err
			},
			want: []string{lawyerCacheKey(profiles[lawyer.ID].ID)},
		},
		{
			name: "lawyer picture",
			user: lawyer,
			update: func(svc UserService, user *entity.User) error {
				_, err := svc.UploadProfilePicture(context.Background(), user.ID, strings.NewReader("png"), "me.png")
				return err
			},
			want: []string{lawyerCacheKey(profiles[lawyer.ID].ID)},
		},
		{
			name: "client profile",
			user: client,
			update: func(svc UserService, user *entity.User) error {
				_, err := svc.UpdateProfile(context.Background(), user.ID, &request.UpdateProfileRequest{City: &city})
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evicted := &recordingCache{}
			repo := &repository.Repository{User: usersOf(lawyer, client), Lawyer: lawyers}
			svc := NewUserService(repo, &mockStorage{}, evicted, zap.NewNop())

			if err := tt.update(svc, tt.user); err != nil {
				t.Fatalf("update error = %v", err)
			}
			if len(evicted.deleted) != len(tt.want) {
				t.Fatalf("evicted %v, want %v", evicted.deleted, tt.want)
			}
			for i := range tt.want {
				if evicted.deleted[i] != tt.want[i] {
					t.Errorf("evicted %v, want %v", evicted.deleted, tt.want)
				}
			}
		})
	}
}
