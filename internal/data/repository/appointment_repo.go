package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"legal-marketplace/internal/data/entity"
	"legal-marketplace/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AppointmentFilter struct {
	ParticipantID uuid.UUID
	// As narrows to appointments where the participant is the "user" or the "lawyer"
	As     string
	Status entity.AppointmentStatus
	Limit  int
	Offset int
}

type AppointmentRepository interface {
	Create(ctx context.Context, appt *entity.Appointment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error)
	List(ctx context.Context, filter AppointmentFilter) ([]*entity.Appointment, int64, error)
	// UpdateState persists a lifecycle change; ErrStale when the status is no longer from
	UpdateState(ctx context.Context, appt *entity.Appointment, from entity.AppointmentStatus) error
	// ListBusy returns the lawyer's non-terminal appointments falling on date
	ListBusy(ctx context.Context, lawyerID uuid.UUID, date time.Time) ([]*entity.Appointment, error)
	ListDueReminders(ctx context.Context, fromDate, toDate time.Time) ([]*entity.Appointment, error)
	MarkRemindersSent(ctx context.Context, id uuid.UUID) error
}

type appointmentRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewAppointmentRepository(db database.PgxIface, log *zap.Logger) AppointmentRepository {
	return &appointmentRepository{
		db:  db,
		log: log.With(zap.String("repository", "appointment")),
	}
}

const appointmentColumns = `id, user_id, lawyer_id, title, description, appointment_type, meeting_type,
		       requested_date, requested_time, confirmed_date, confirmed_time, duration_minutes,
		       status, priority, meeting_link, meeting_location, meeting_notes,
		       consultation_fee::float8, is_paid, payment_reference, reminder_sent_to_user,
		       reminder_sent_to_lawyer, cancellation_reason, cancelled_by, cancelled_at,
		       created_at, updated_at`

func scanAppointment(row scanner, a *entity.Appointment) error {
	return row.Scan(
		&a.ID,
		&a.UserID,
		&a.LawyerID,
		&a.Title,
		&a.Description,
		&a.AppointmentType,
		&a.MeetingType,
		&a.RequestedDate,
		&a.RequestedTime,
		&a.ConfirmedDate,
		&a.ConfirmedTime,
		&a.DurationMinutes,
		&a.Status,
		&a.Priority,
		&a.MeetingLink,
		&a.MeetingLocation,
		&a.MeetingNotes,
		&a.ConsultationFee,
		&a.IsPaid,
		&a.PaymentReference,
		&a.ReminderSentToUser,
		&a.ReminderSentToLawyer,
		&a.CancellationReason,
		&a.CancelledBy,
		&a.CancelledAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
}

func (r *appointmentRepository) Create(ctx context.Context, appt *entity.Appointment) error {
	query := `
		INSERT INTO appointments (id, user_id, lawyer_id, title, description, appointment_type,
		                          meeting_type, requested_date, requested_time, duration_minutes,
		                          status, priority, meeting_location, consultation_fee,
		                          created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := r.db.Exec(ctx, query,
		appt.ID,
		appt.UserID,
		appt.LawyerID,
		appt.Title,
		appt.Description,
		appt.AppointmentType,
		appt.MeetingType,
		appt.RequestedDate,
		appt.RequestedTime,
		appt.DurationMinutes,
		appt.Status,
		appt.Priority,
		appt.MeetingLocation,
		appt.ConsultationFee,
		appt.CreatedAt,
		appt.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create appointment",
			zap.Error(err),
			zap.String("user_id", appt.UserID.String()),
			zap.String("lawyer_id", appt.LawyerID.String()),
		)
		return fmt.Errorf("create appointment: %w", err)
	}

	return nil
}

func (r *appointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	return findAppointment(ctx, r.db, r.log, id)
}

func findAppointment(ctx context.Context, q querier, log *zap.Logger, id uuid.UUID) (*entity.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`

	var appt entity.Appointment
	err := scanAppointment(q.QueryRow(ctx, query, id), &appt)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		log.Error("Failed to find appointment", zap.Error(err), zap.String("appointment_id", id.String()))
		return nil, fmt.Errorf("find appointment %s: %w", id.String(), err)
	}
	return &appt, nil
}

func (r *appointmentRepository) List(ctx context.Context, filter AppointmentFilter) ([]*entity.Appointment, int64, error) {
	w := &whereBuilder{}
	switch filter.As {
	case "user":
		w.add("user_id = $%[1]d", filter.ParticipantID)
	case "lawyer":
		w.add("lawyer_id = $%[1]d", filter.ParticipantID)
	default:
		w.add("(user_id = $%[1]d OR lawyer_id = $%[1]d)", filter.ParticipantID)
	}
	if filter.Status != "" {
		w.add("status = $%[1]d", filter.Status)
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM appointments`+w.sql(), w.args...).Scan(&total); err != nil {
		r.log.Error("Failed to count appointments", zap.Error(err))
		return nil, 0, fmt.Errorf("count appointments: %w", err)
	}

	args := append(w.args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM appointments%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		appointmentColumns, w.sql(), len(args)-1, len(args))

	appts, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return appts, total, nil
}

func (r *appointmentRepository) query(ctx context.Context, query string, args ...any) ([]*entity.Appointment, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to query appointments", zap.Error(err))
		return nil, fmt.Errorf("query appointments: %w", err)
	}
	defer rows.Close()

	var appts []*entity.Appointment
	for rows.Next() {
		var appt entity.Appointment
		if err := scanAppointment(rows, &appt); err != nil {
			r.log.Error("Failed to scan appointment row", zap.Error(err))
			return nil, fmt.Errorf("scan appointment row: %w", err)
		}
		appts = append(appts, &appt)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate appointment rows: %w", err)
	}
	return appts, nil
}

const updateAppointmentState = `
	UPDATE appointments
	SET status = $2, confirmed_date = $3, confirmed_time = $4, meeting_link = $5,
	    meeting_location = $6, meeting_notes = $7, is_paid = $8, payment_reference = $9,
	    cancellation_reason = $10, cancelled_by = $11, cancelled_at = $12,
	    reminder_sent_to_user = $13, reminder_sent_to_lawyer = $14, updated_at = $15
	WHERE id = $1 AND status = $16
`

func execAppointmentState(ctx context.Context, q querier, appt *entity.Appointment, from entity.AppointmentStatus) error {
	result, err := q.Exec(ctx, updateAppointmentState,
		appt.ID,
		appt.Status,
		appt.ConfirmedDate,
		appt.ConfirmedTime,
		appt.MeetingLink,
		appt.MeetingLocation,
		appt.MeetingNotes,
		appt.IsPaid,
		appt.PaymentReference,
		appt.CancellationReason,
		appt.CancelledBy,
		appt.CancelledAt,
		appt.ReminderSentToUser,
		appt.ReminderSentToLawyer,
		appt.UpdatedAt,
		from,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrStale
	}
	return nil
}

func (r *appointmentRepository) UpdateState(ctx context.Context, appt *entity.Appointment, from entity.AppointmentStatus) error {
	if err := execAppointmentState(ctx, r.db, appt, from); err != nil {
		if !errors.Is(err, ErrStale) {
			r.log.Error("Failed to update appointment",
				zap.Error(err),
				zap.String("appointment_id", appt.ID.String()),
				zap.String("status", string(appt.Status)),
			)
		}
		return fmt.Errorf("update appointment %s: %w", appt.ID.String(), err)
	}
	return nil
}

func (r *appointmentRepository) ListBusy(ctx context.Context, lawyerID uuid.UUID, date time.Time) ([]*entity.Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE lawyer_id = $1
		  AND COALESCE(confirmed_date, requested_date) = $2
		  AND status IN ('pending', 'confirmed', 'rescheduled')
		ORDER BY COALESCE(confirmed_time, requested_time)`

	return r.query(ctx, query, lawyerID, date)
}

func (r *appointmentRepository) ListDueReminders(ctx context.Context, fromDate, toDate time.Time) ([]*entity.Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE status IN ('confirmed', 'rescheduled')
		  AND COALESCE(confirmed_date, requested_date) BETWEEN $1 AND $2
		  AND NOT (reminder_sent_to_user AND reminder_sent_to_lawyer)`

	return r.query(ctx, query, fromDate, toDate)
}

func (r *appointmentRepository) MarkRemindersSent(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE appointments
		SET reminder_sent_to_user = TRUE, reminder_sent_to_lawyer = TRUE, updated_at = NOW()
		WHERE id = $1
	`

	if _, err := r.db.Exec(ctx, query, id); err != nil {
		r.log.Error("Failed to mark reminders sent", zap.Error(err), zap.String("appointment_id", id.String()))
		return fmt.Errorf("mark reminders sent for %s: %w", id.String(), err)
	}
	return nil
}
