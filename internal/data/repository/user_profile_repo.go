package repository

import (
	"context"
	"fmt"

	"legal-marketplace/internal/data/entity"
	"legal-marketplace/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserProfileRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.UserProfile, error)
	// Save inserts the profile or overwrites the existing one for the same user
	Save(ctx context.Context, profile *entity.UserProfile) error
}

type userProfileRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewUserProfileRepository(db database.PgxIface, log *zap.Logger) UserProfileRepository {
	return &userProfileRepository{
		db:  db,
		log: log.With(zap.String("repository", "user_profile")),
	}
}

const upsertUserProfile = `
	INSERT INTO user_profiles (id, user_id, bio, emergency_contact_name, emergency_contact_phone,
	                           preferred_language, theme_preference, email_notifications,
	                           sms_notifications, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (user_id) DO UPDATE
	SET bio = EXCLUDED.bio,
	    emergency_contact_name = EXCLUDED.emergency_contact_name,
	    emergency_contact_phone = EXCLUDED.emergency_contact_phone,
	    preferred_language = EXCLUDED.preferred_language,
	    theme_preference = EXCLUDED.theme_preference,
	    email_notifications = EXCLUDED.email_notifications,
	    sms_notifications = EXCLUDED.sms_notifications,
	    updated_at = EXCLUDED.updated_at
`

func insertUserProfile(ctx context.Context, q querier, profile *entity.UserProfile) error {
	_, err := q.Exec(ctx, upsertUserProfile,
		profile.ID,
		profile.UserID,
		profile.Bio,
		profile.EmergencyContactName,
		profile.EmergencyContactPhone,
		profile.PreferredLanguage,
		profile.ThemePreference,
		profile.EmailNotifications,
		profile.SMSNotifications,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	return err
}

func (r *userProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.UserProfile, error) {
	query := `
		SELECT id, user_id, bio, emergency_contact_name, emergency_contact_phone,
		       preferred_language, theme_preference, email_notifications,
		       sms_notifications, created_at, updated_at
		FROM user_profiles
		WHERE user_id = $1
	`

	var profile entity.UserProfile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.Bio,
		&profile.EmergencyContactName,
		&profile.EmergencyContactPhone,
		&profile.PreferredLanguage,
		&profile.ThemePreference,
		&profile.EmailNotifications,
		&profile.SMSNotifications,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)

	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find user profile",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find profile for user %s: %w", userID.String(), err)
	}

	return &profile, nil
}

func (r *userProfileRepository) Save(ctx context.Context, profile *entity.UserProfile) error {
	if err := insertUserProfile(ctx, r.db, profile); err != nil {
		r.log.Error("Failed to save user profile",
			zap.Error(err),
			zap.String("user_id", profile.UserID.String()),
		)
		return fmt.Errorf("save profile for user %s: %w", profile.UserID.String(), err)
	}
	return nil
}
