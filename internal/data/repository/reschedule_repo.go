package repository

import (
	"context"
	"errors"
	"fmt"

	"legal-marketplace/internal/data/entity"
	"legal-marketplace/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type RescheduleRepository interface {
	// Create fails with ErrDuplicate while another request for the appointment is pending
	Create(ctx context.Context, req *entity.RescheduleRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.RescheduleRequest, error)
	ListByAppointment(ctx context.Context, appointmentID uuid.UUID) ([]*entity.RescheduleRequest, error)
	// Approve marks the request approved and moves the appointment to the new
	// slot in one transaction; appt must already carry the new state.
	Approve(ctx context.Context, req *entity.RescheduleRequest, appt *entity.Appointment, from entity.AppointmentStatus) error
	Reject(ctx context.Context, req *entity.RescheduleRequest) error
}

type rescheduleRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewRescheduleRepository(db database.PgxIface, log *zap.Logger) RescheduleRepository {
	return &rescheduleRepository{
		db:  db,
		log: log.With(zap.String("repository", "reschedule")),
	}
}

const rescheduleColumns = `id, appointment_id, requested_by, new_requested_date, new_requested_time,
		       reason, status, response_message, responded_by, responded_at, created_at`

func scanReschedule(row scanner, req *entity.RescheduleRequest) error {
	return row.Scan(
		&req.ID,
		&req.AppointmentID,
		&req.RequestedBy,
		&req.NewRequestedDate,
		&req.NewRequestedTime,
		&req.Reason,
		&req.Status,
		&req.ResponseMessage,
		&req.RespondedBy,
		&req.RespondedAt,
		&req.CreatedAt,
	)
}

func (r *rescheduleRepository) Create(ctx context.Context, req *entity.RescheduleRequest) error {
	query := `
		INSERT INTO appointment_reschedule_requests (id, appointment_id, requested_by, new_requested_date,
		                                             new_requested_time, reason, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		req.ID,
		req.AppointmentID,
		req.RequestedBy,
		req.NewRequestedDate,
		req.NewRequestedTime,
		req.Reason,
		req.Status,
		req.CreatedAt,
	)

	if isUniqueViolation(err) {
		return fmt.Errorf("reschedule appointment %s: %w", req.AppointmentID.String(), ErrDuplicate)
	}
	if err != nil {
		r.log.Error("Failed to create reschedule request",
			zap.Error(err),
			zap.String("appointment_id", req.AppointmentID.String()),
		)
		return fmt.Errorf("reschedule appointment %s: %w", req.AppointmentID.String(), err)
	}
	return nil
}

func (r *rescheduleRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.RescheduleRequest, error) {
	query := `SELECT ` + rescheduleColumns + ` FROM appointment_reschedule_requests WHERE id = $1`

	var req entity.RescheduleRequest
	err := scanReschedule(r.db.QueryRow(ctx, query, id), &req)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find reschedule request", zap.Error(err), zap.String("request_id", id.String()))
		return nil, fmt.Errorf("find reschedule request %s: %w", id.String(), err)
	}
	return &req, nil
}

func (r *rescheduleRepository) ListByAppointment(ctx context.Context, appointmentID uuid.UUID) ([]*entity.RescheduleRequest, error) {
	query := `SELECT ` + rescheduleColumns + `
		FROM appointment_reschedule_requests
		WHERE appointment_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, appointmentID)
	if err != nil {
		r.log.Error("Failed to list reschedule requests",
			zap.Error(err),
			zap.String("appointment_id", appointmentID.String()),
		)
		return nil, fmt.Errorf("list reschedule requests for %s: %w", appointmentID.String(), err)
	}
	defer rows.Close()

	var reqs []*entity.RescheduleRequest
	for rows.Next() {
		var req entity.RescheduleRequest
		if err := scanReschedule(rows, &req); err != nil {
			r.log.Error("Failed to scan reschedule row", zap.Error(err))
			return nil, fmt.Errorf("scan reschedule row: %w", err)
		}
		reqs = append(reqs, &req)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate reschedule rows: %w", err)
	}
	return reqs, nil
}

const respondReschedule = `
	UPDATE appointment_reschedule_requests
	SET status = $2, response_message = $3, responded_by = $4, responded_at = $5
	WHERE id = $1 AND status = 'pending'
`

func execRespond(ctx context.Context, q querier, req *entity.RescheduleRequest) error {
	result, err := q.Exec(ctx, respondReschedule,
		req.ID,
		req.Status,
		req.ResponseMessage,
		req.RespondedBy,
		req.RespondedAt,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrStale
	}
	return nil
}

func (r *rescheduleRepository) Approve(ctx context.Context, req *entity.RescheduleRequest, appt *entity.Appointment, from entity.AppointmentStatus) error {
	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := execRespond(ctx, tx, req); err != nil {
			return err
		}
		return execAppointmentState(ctx, tx, appt, from)
	})

	if err != nil {
		if !errors.Is(err, ErrStale) {
			r.log.Error("Failed to approve reschedule request",
				zap.Error(err),
				zap.String("request_id", req.ID.String()),
				zap.String("appointment_id", appt.ID.String()),
			)
		}
		return fmt.Errorf("approve reschedule request %s: %w", req.ID.String(), err)
	}
	return nil
}

func (r *rescheduleRepository) Reject(ctx context.Context, req *entity.RescheduleRequest) error {
	if err := execRespond(ctx, r.db, req); err != nil {
		if !errors.Is(err, ErrStale) {
			r.log.Error("Failed to reject reschedule request", zap.Error(err), zap.String("request_id", req.ID.String()))
		}
		return fmt.Errorf("reject reschedule request %s: %w", req.ID.String(), err)
	}
	return nil
}
