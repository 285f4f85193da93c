package repository

import (
	"context"
	"fmt"

	"legal-marketplace/internal/data/entity"
	"legal-marketplace/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type FeedbackRepository interface {
	FindByAppointment(ctx context.Context, appointmentID uuid.UUID) (*entity.AppointmentFeedback, error)
	// Save writes the single feedback row of the appointment, creating it on first use
	Save(ctx context.Context, fb *entity.AppointmentFeedback) error
}

type feedbackRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewFeedbackRepository(db database.PgxIface, log *zap.Logger) FeedbackRepository {
	return &feedbackRepository{
		db:  db,
		log: log.With(zap.String("repository", "feedback")),
	}
}

func (r *feedbackRepository) FindByAppointment(ctx context.Context, appointmentID uuid.UUID) (*entity.AppointmentFeedback, error) {
	query := `
		SELECT id, appointment_id, user_rating, user_feedback, user_would_recommend,
		       lawyer_rating, lawyer_feedback, meeting_quality, technical_issues,
		       technical_issues_description, created_at
		FROM appointment_feedback
		WHERE appointment_id = $1
	`

	var fb entity.AppointmentFeedback
	err := r.db.QueryRow(ctx, query, appointmentID).Scan(
		&fb.ID,
		&fb.AppointmentID,
		&fb.UserRating,
		&fb.UserFeedback,
		&fb.UserWouldRecommend,
		&fb.LawyerRating,
		&fb.LawyerFeedback,
		&fb.MeetingQuality,
		&fb.TechnicalIssues,
		&fb.TechnicalIssuesDescription,
		&fb.CreatedAt,
	)

	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find feedback", zap.Error(err), zap.String("appointment_id", appointmentID.String()))
		return nil, fmt.Errorf("find feedback for %s: %w", appointmentID.String(), err)
	}
	return &fb, nil
}

func (r *feedbackRepository) Save(ctx context.Context, fb *entity.AppointmentFeedback) error {
	query := `
		INSERT INTO appointment_feedback (id, appointment_id, user_rating, user_feedback,
		                                  user_would_recommend, lawyer_rating, lawyer_feedback,
		                                  meeting_quality, technical_issues,
		                                  technical_issues_description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (appointment_id) DO UPDATE
		SET user_rating = EXCLUDED.user_rating,
		    user_feedback = EXCLUDED.user_feedback,
		    user_would_recommend = EXCLUDED.user_would_recommend,
		    lawyer_rating = EXCLUDED.lawyer_rating,
		    lawyer_feedback = EXCLUDED.lawyer_feedback,
		    meeting_quality = EXCLUDED.meeting_quality,
		    technical_issues = EXCLUDED.technical_issues,
		    technical_issues_description = EXCLUDED.technical_issues_description
	`

	_, err := r.db.Exec(ctx, query,
		fb.ID,
		fb.AppointmentID,
		fb.UserRating,
		fb.UserFeedback,
		fb.UserWouldRecommend,
		fb.LawyerRating,
		fb.LawyerFeedback,
		fb.MeetingQuality,
		fb.TechnicalIssues,
		fb.TechnicalIssuesDescription,
		fb.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to save feedback", zap.Error(err), zap.String("appointment_id", fb.AppointmentID.String()))
		return fmt.Errorf("save feedback for %s: %w", fb.AppointmentID.String(), err)
	}
	return nil
}
