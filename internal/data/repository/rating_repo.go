package repository

import (
	"context"
	"fmt"

	"legal-marketplace/internal/data/entity"
	"legal-marketplace/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// RatingRepository writes ratings and the lawyer's aggregate in the same
// transaction, holding the profile row lock so concurrent raters serialize.
type RatingRepository interface {
	Create(ctx context.Context, rating *entity.LawyerRating) (*entity.RatingSummary, error)
	Update(ctx context.Context, rating *entity.LawyerRating) (*entity.RatingSummary, error)
	Delete(ctx context.Context, rating *entity.LawyerRating) (*entity.RatingSummary, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.LawyerRating, error)
	FindByLawyerAndUser(ctx context.Context, lawyerID, userID uuid.UUID) (*entity.LawyerRating, error)
	ListByLawyer(ctx context.Context, lawyerID uuid.UUID, limit, offset int) ([]*entity.LawyerRating, int64, error)
}

type ratingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewRatingRepository(db database.PgxIface, log *zap.Logger) RatingRepository {
	return &ratingRepository{
		db:  db,
		log: log.With(zap.String("repository", "rating")),
	}
}

func lockLawyer(ctx context.Context, tx pgx.Tx, lawyerID uuid.UUID) error {
	var id uuid.UUID
	err := tx.QueryRow(ctx, `SELECT id FROM lawyer_profiles WHERE id = $1 FOR UPDATE`, lawyerID).Scan(&id)
	if isNoRows(err) {
		return fmt.Errorf("lawyer %s: %w", lawyerID.String(), ErrNotFound)
	}
	return err
}

// recomputeRating rewrites the denormalized average (2dp) and count from the live ratings
func recomputeRating(ctx context.Context, tx pgx.Tx, lawyerID uuid.UUID) (*entity.RatingSummary, error) {
	query := `
		UPDATE lawyer_profiles lp
		SET average_rating = COALESCE(agg.average, 0),
		    total_reviews = agg.total,
		    updated_at = NOW()
		FROM (
			SELECT ROUND(AVG(rating)::numeric, 2) AS average, COUNT(*) AS total
			FROM lawyer_ratings
			WHERE lawyer_id = $1 AND deleted_at IS NULL
		) agg
		WHERE lp.id = $1
		RETURNING lp.average_rating::float8, lp.total_reviews
	`

	var summary entity.RatingSummary
	if err := tx.QueryRow(ctx, query, lawyerID).Scan(&summary.AverageRating, &summary.TotalReviews); err != nil {
		return nil, fmt.Errorf("recompute rating: %w", err)
	}
	return &summary, nil
}

func (r *ratingRepository) Create(ctx context.Context, rating *entity.LawyerRating) (*entity.RatingSummary, error) {
	var summary *entity.RatingSummary
	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := lockLawyer(ctx, tx, rating.LawyerID); err != nil {
			return err
		}

		_, err := tx.Exec(ctx, `
			INSERT INTO lawyer_ratings (id, lawyer_id, user_id, rating, review, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`,
			rating.ID,
			rating.LawyerID,
			rating.UserID,
			rating.Rating,
			rating.Review,
			rating.CreatedAt,
			rating.UpdatedAt,
		)
		if err != nil {
			return err
		}

		summary, err = recomputeRating(ctx, tx, rating.LawyerID)
		return err
	})

	if isUniqueViolation(err) {
		return nil, fmt.Errorf("rate lawyer %s: %w", rating.LawyerID.String(), ErrDuplicate)
	}
	if err != nil {
		r.log.Error("Failed to create rating",
			zap.Error(err),
			zap.String("lawyer_id", rating.LawyerID.String()),
			zap.String("user_id", rating.UserID.String()),
		)
		return nil, fmt.Errorf("rate lawyer %s: %w", rating.LawyerID.String(), err)
	}

	return summary, nil
}

func (r *ratingRepository) Update(ctx context.Context, rating *entity.LawyerRating) (*entity.RatingSummary, error) {
	var summary *entity.RatingSummary
	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := lockLawyer(ctx, tx, rating.LawyerID); err != nil {
			return err
		}

		result, err := tx.Exec(ctx, `
			UPDATE lawyer_ratings
			SET rating = $2, review = $3, updated_at = $4
			WHERE id = $1 AND deleted_at IS NULL
		`, rating.ID, rating.Rating, rating.Review, rating.UpdatedAt)
		if err != nil {
			return err
		}
		if result.RowsAffected() == 0 {
			return ErrNotFound
		}

		summary, err = recomputeRating(ctx, tx, rating.LawyerID)
		return err
	})

	if err != nil {
		r.log.Error("Failed to update rating", zap.Error(err), zap.String("rating_id", rating.ID.String()))
		return nil, fmt.Errorf("update rating %s: %w", rating.ID.String(), err)
	}
	return summary, nil
}

func (r *ratingRepository) Delete(ctx context.Context, rating *entity.LawyerRating) (*entity.RatingSummary, error) {
	var summary *entity.RatingSummary
	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := lockLawyer(ctx, tx, rating.LawyerID); err != nil {
			return err
		}

		result, err := tx.Exec(ctx,
			`UPDATE lawyer_ratings SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`,
			rating.ID,
		)
		if err != nil {
			return err
		}
		if result.RowsAffected() == 0 {
			return ErrNotFound
		}

		summary, err = recomputeRating(ctx, tx, rating.LawyerID)
		return err
	})

	if err != nil {
		r.log.Error("Failed to delete rating", zap.Error(err), zap.String("rating_id", rating.ID.String()))
		return nil, fmt.Errorf("delete rating %s: %w", rating.ID.String(), err)
	}

	r.log.Info("Rating deleted", zap.String("rating_id", rating.ID.String()))
	return summary, nil
}

const ratingColumns = `id, lawyer_id, user_id, rating, review, created_at, updated_at, deleted_at`

func scanRating(row scanner, rating *entity.LawyerRating) error {
	return row.Scan(
		&rating.ID,
		&rating.LawyerID,
		&rating.UserID,
		&rating.Rating,
		&rating.Review,
		&rating.CreatedAt,
		&rating.UpdatedAt,
		&rating.DeletedAt,
	)
}

func (r *ratingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.LawyerRating, error) {
	query := `SELECT ` + ratingColumns + ` FROM lawyer_ratings WHERE id = $1 AND deleted_at IS NULL`

	var rating entity.LawyerRating
	err := scanRating(r.db.QueryRow(ctx, query, id), &rating)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find rating by ID", zap.Error(err), zap.String("rating_id", id.String()))
		return nil, fmt.Errorf("find rating by ID %s: %w", id.String(), err)
	}
	return &rating, nil
}

func (r *ratingRepository) FindByLawyerAndUser(ctx context.Context, lawyerID, userID uuid.UUID) (*entity.LawyerRating, error) {
	query := `SELECT ` + ratingColumns + `
		FROM lawyer_ratings
		WHERE lawyer_id = $1 AND user_id = $2 AND deleted_at IS NULL`

	var rating entity.LawyerRating
	err := scanRating(r.db.QueryRow(ctx, query, lawyerID, userID), &rating)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find rating",
			zap.Error(err),
			zap.String("lawyer_id", lawyerID.String()),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find rating of lawyer %s by user %s: %w", lawyerID.String(), userID.String(), err)
	}
	return &rating, nil
}

func (r *ratingRepository) ListByLawyer(ctx context.Context, lawyerID uuid.UUID, limit, offset int) ([]*entity.LawyerRating, int64, error) {
	var total int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM lawyer_ratings WHERE lawyer_id = $1 AND deleted_at IS NULL`,
		lawyerID,
	).Scan(&total)
	if err != nil {
		r.log.Error("Failed to count ratings", zap.Error(err), zap.String("lawyer_id", lawyerID.String()))
		return nil, 0, fmt.Errorf("count ratings of lawyer %s: %w", lawyerID.String(), err)
	}

	query := `SELECT ` + ratingColumns + `
		FROM lawyer_ratings
		WHERE lawyer_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, lawyerID, limit, offset)
	if err != nil {
		r.log.Error("Failed to list ratings",
			zap.Error(err),
			zap.String("lawyer_id", lawyerID.String()),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, 0, fmt.Errorf("list ratings of lawyer %s: %w", lawyerID.String(), err)
	}
	defer rows.Close()

	var ratings []*entity.LawyerRating
	for rows.Next() {
		var rating entity.LawyerRating
		if err := scanRating(rows, &rating); err != nil {
			r.log.Error("Failed to scan rating row", zap.Error(err))
			return nil, 0, fmt.Errorf("scan rating row: %w", err)
		}
		ratings = append(ratings, &rating)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, 0, fmt.Errorf("iterate rating rows: %w", err)
	}

	return ratings, total, nil
}
