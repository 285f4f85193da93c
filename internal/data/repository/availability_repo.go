package repository

import (
	"context"
	"fmt"
	"time"

	"legal-marketplace/internal/data/entity"
	"legal-marketplace/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AvailabilityRepository interface {
	Create(ctx context.Context, slot *entity.Availability) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Availability, error)
	ListByLawyer(ctx context.Context, lawyerID uuid.UUID) ([]*entity.Availability, error)
	// ListForDate returns the weekly rows for the date's weekday plus any override rows for the date itself
	ListForDate(ctx context.Context, lawyerID uuid.UUID, date time.Time) ([]*entity.Availability, error)
	Update(ctx context.Context, slot *entity.Availability) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type availabilityRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewAvailabilityRepository(db database.PgxIface, log *zap.Logger) AvailabilityRepository {
	return &availabilityRepository{
		db:  db,
		log: log.With(zap.String("repository", "availability")),
	}
}

const availabilityColumns = `id, lawyer_id, weekday, start_time, end_time, is_available,
		       break_start_time, break_end_time, special_date, is_holiday, created_at, updated_at`

func scanAvailability(row scanner, a *entity.Availability) error {
	return row.Scan(
		&a.ID,
		&a.LawyerID,
		&a.Weekday,
		&a.StartTime,
		&a.EndTime,
		&a.IsAvailable,
		&a.BreakStartTime,
		&a.BreakEndTime,
		&a.SpecialDate,
		&a.IsHoliday,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
}

func (r *availabilityRepository) Create(ctx context.Context, slot *entity.Availability) error {
	query := `
		INSERT INTO lawyer_availability (id, lawyer_id, weekday, start_time, end_time, is_available,
		                                 break_start_time, break_end_time, special_date, is_holiday,
		                                 created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.Exec(ctx, query,
		slot.ID,
		slot.LawyerID,
		slot.Weekday,
		slot.StartTime,
		slot.EndTime,
		slot.IsAvailable,
		slot.BreakStartTime,
		slot.BreakEndTime,
		slot.SpecialDate,
		slot.IsHoliday,
		slot.CreatedAt,
		slot.UpdatedAt,
	)

	if isUniqueViolation(err) {
		return fmt.Errorf("create availability: %w", ErrDuplicate)
	}
	if err != nil {
		r.log.Error("Failed to create availability",
			zap.Error(err),
			zap.String("lawyer_id", slot.LawyerID.String()),
		)
		return fmt.Errorf("create availability: %w", err)
	}
	return nil
}

func (r *availabilityRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Availability, error) {
	query := `SELECT ` + availabilityColumns + ` FROM lawyer_availability WHERE id = $1`

	var slot entity.Availability
	err := scanAvailability(r.db.QueryRow(ctx, query, id), &slot)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find availability", zap.Error(err), zap.String("availability_id", id.String()))
		return nil, fmt.Errorf("find availability %s: %w", id.String(), err)
	}
	return &slot, nil
}

func (r *availabilityRepository) ListByLawyer(ctx context.Context, lawyerID uuid.UUID) ([]*entity.Availability, error) {
	query := `SELECT ` + availabilityColumns + `
		FROM lawyer_availability
		WHERE lawyer_id = $1
		ORDER BY special_date NULLS FIRST, weekday, start_time`

	return r.query(ctx, query, lawyerID)
}

func (r *availabilityRepository) ListForDate(ctx context.Context, lawyerID uuid.UUID, date time.Time) ([]*entity.Availability, error) {
	query := `SELECT ` + availabilityColumns + `
		FROM lawyer_availability
		WHERE lawyer_id = $1
		  AND ((special_date IS NULL AND weekday = $2) OR special_date = $3)
		ORDER BY start_time`

	return r.query(ctx, query, lawyerID, entity.MondayWeekday(date), date)
}

func (r *availabilityRepository) query(ctx context.Context, query string, args ...any) ([]*entity.Availability, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to query availability", zap.Error(err))
		return nil, fmt.Errorf("query availability: %w", err)
	}
	defer rows.Close()

	var slots []*entity.Availability
	for rows.Next() {
		var slot entity.Availability
		if err := scanAvailability(rows, &slot); err != nil {
			r.log.Error("Failed to scan availability row", zap.Error(err))
			return nil, fmt.Errorf("scan availability row: %w", err)
		}
		slots = append(slots, &slot)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate availability rows: %w", err)
	}
	return slots, nil
}

func (r *availabilityRepository) Update(ctx context.Context, slot *entity.Availability) error {
	query := `
		UPDATE lawyer_availability
		SET weekday = $2, start_time = $3, end_time = $4, is_available = $5,
		    break_start_time = $6, break_end_time = $7, special_date = $8, is_holiday = $9,
		    updated_at = $10
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		slot.ID,
		slot.Weekday,
		slot.StartTime,
		slot.EndTime,
		slot.IsAvailable,
		slot.BreakStartTime,
		slot.BreakEndTime,
		slot.SpecialDate,
		slot.IsHoliday,
		slot.UpdatedAt,
	)

	if isUniqueViolation(err) {
		return fmt.Errorf("update availability %s: %w", slot.ID.String(), ErrDuplicate)
	}
	if err != nil {
		r.log.Error("Failed to update availability", zap.Error(err), zap.String("availability_id", slot.ID.String()))
		return fmt.Errorf("update availability %s: %w", slot.ID.String(), err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("update availability %s: %w", slot.ID.String(), ErrNotFound)
	}
	return nil
}

func (r *availabilityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM lawyer_availability WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete availability", zap.Error(err), zap.String("availability_id", id.String()))
		return fmt.Errorf("delete availability %s: %w", id.String(), err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete availability %s: %w", id.String(), ErrNotFound)
	}
	return nil
}
