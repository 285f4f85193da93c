package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"legal-marketplace/internal/data/entity"
	"legal-marketplace/internal/data/repository"
	"legal-marketplace/internal/dto/request"
	"legal-marketplace/internal/dto/response"
	"legal-marketplace/pkg/cache"
	"legal-marketplace/pkg/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService interface {
	// GetCurrentUser returns the caller with their lawyer profile id when they have one
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileRequest) (*response.UserResponse, error)
	UploadProfilePicture(ctx context.Context, userID uuid.UUID, file io.Reader, filename string) (*response.UserResponse, error)
	GetProfileDetails(ctx context.Context, userID uuid.UUID) (*response.UserProfileResponse, error)
	UpdateProfileDetails(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileDetailsRequest) (*response.UserProfileResponse, error)
}

type userService struct {
	repo    *repository.Repository
	storage storage.MediaStorage
	cache   cache.Cache
	log     *zap.Logger
	now     func() time.Time
}

func NewUserService(repo *repository.Repository, store storage.MediaStorage, c cache.Cache, log *zap.Logger) UserService {
	return &userService{
		repo:    repo,
		storage: store,
		cache:   c,
		log:     log.With(zap.String("service", "user")),
		now:     time.Now,
	}
}

var pictureExtensions = map[string]bool{"jpg": true, "jpeg": true, "png": true, "gif": true, "webp": true}

func (us *userService) findUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := us.repo.User.FindByID(ctx, userID)
	if err != nil {
		us.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, notFound("user")
	}
	return user, nil
}

func (us *userService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error) {
	user, err := us.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := response.UserToResponse(user)
	if user.IsLawyer() {
		profile, err := us.repo.Lawyer.FindByUserID(ctx, user.ID)
		if err != nil {
			us.log.Error("Failed to find lawyer profile", zap.Error(err), zap.String("user_id", userID.String()))
			return nil, fmt.Errorf("find lawyer profile: %w", err)
		}
		if profile != nil {
			id := profile.ID.String()
			resp.LawyerProfileID = &id
		}
	}
	return &resp, nil
}

func (us *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error) {
	user, err := us.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileRequest) (*response.UserResponse, error) {
	user, err := us.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.DateOfBirth != nil {
		dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			return nil, invalid("invalid date_of_birth")
		}
		if dob.After(us.now()) {
			return nil, invalid("date_of_birth cannot be in the future")
		}
		user.DateOfBirth = &dob
	}
	if req.Address != nil {
		user.Address = req.Address
	}
	if req.City != nil {
		user.City = req.City
	}
	if req.State != nil {
		user.State = req.State
	}
	if req.Pincode != nil {
		user.Pincode = req.Pincode
	}
	user.Touch(us.now())

	if err := us.repo.User.Update(ctx, user); err != nil {
		us.log.Error("Failed to update user", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("update profile: %w", err)
	}

	if user.IsLawyer() {
		dropLawyerDetailOf(ctx, us.repo, us.cache, us.log, user.ID)
	}

	us.log.Info("Profile updated", zap.String("user_id", userID.String()))

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) UploadProfilePicture(ctx context.Context, userID uuid.UUID, file io.Reader, filename string) (*response.UserResponse, error) {
	if !pictureExtensions[storage.Extension(filename)] {
		return nil, invalid("profile picture must be an image (jpg, jpeg, png, gif, webp)")
	}

	user, err := us.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	obj, err := us.storage.Upload(ctx, file, "profile_pictures", filename)
	if err != nil {
		if errors.Is(err, storage.ErrUnavailable) {
			return nil, newError(ErrUpstream, "file uploads are not available")
		}
		us.log.Error("Failed to upload profile picture", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, newError(ErrUpstream, "failed to upload profile picture")
	}

	user.ProfilePicture = &obj.URL
	user.Touch(us.now())
	if err := us.repo.User.Update(ctx, user); err != nil {
		us.log.Error("Failed to save profile picture", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("save profile picture: %w", err)
	}
	if user.IsLawyer() {
		dropLawyerDetailOf(ctx, us.repo, us.cache, us.log, user.ID)
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

// profileFor returns the stored profile, or a fresh default one for accounts created without it
func (us *userService) profileFor(ctx context.Context, userID uuid.UUID) (*entity.UserProfile, error) {
	profile, err := us.repo.UserProfile.FindByUserID(ctx, userID)
	if err != nil {
		us.log.Error("Failed to find user profile", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("find user profile: %w", err)
	}
	if profile == nil {
		profile = entity.NewUserProfile(userID, us.now())
	}
	return profile, nil
}

func (us *userService) GetProfileDetails(ctx context.Context, userID uuid.UUID) (*response.UserProfileResponse, error) {
	profile, err := us.profileFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := response.UserProfileToResponse(profile)
	return &resp, nil
}

func (us *userService) UpdateProfileDetails(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileDetailsRequest) (*response.UserProfileResponse, error) {
	profile, err := us.profileFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Bio != nil {
		profile.Bio = req.Bio
	}
	if req.EmergencyContactName != nil {
		profile.EmergencyContactName = req.EmergencyContactName
	}
	if req.EmergencyContactPhone != nil {
		profile.EmergencyContactPhone = req.EmergencyContactPhone
	}
	if req.PreferredLanguage != nil {
		profile.PreferredLanguage = *req.PreferredLanguage
	}
	if req.ThemePreference != nil {
		profile.ThemePreference = entity.Theme(*req.ThemePreference)
	}
	if req.EmailNotifications != nil {
		profile.EmailNotifications = *req.EmailNotifications
	}
	if req.SMSNotifications != nil {
		profile.SMSNotifications = *req.SMSNotifications
	}
	profile.Touch(us.now())

	if err := us.repo.UserProfile.Save(ctx, profile); err != nil {
		us.log.Error("Failed to save user profile", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("save profile details: %w", err)
	}

	resp := response.UserProfileToResponse(profile)
	return &resp, nil
}
