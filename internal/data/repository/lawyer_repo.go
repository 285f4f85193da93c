package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"legal-marketplace/internal/data/entity"
	"legal-marketplace/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type LawyerFilter struct {
	Specialization string
	MinExperience  *int
	MaxFee         *float64
	Language       string
	City           string
	Search         string
	Ordering       []string
	Limit          int
	Offset         int
}

type LawyerRepository interface {
	// Create stores the profile and promotes the owning account to the lawyer role
	Create(ctx context.Context, profile *entity.LawyerProfile) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.LawyerProfile, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.LawyerProfile, error)
	FindListing(ctx context.Context, id uuid.UUID) (*entity.LawyerListing, error)
	ListPublic(ctx context.Context, filter LawyerFilter) ([]*entity.LawyerListing, int64, error)
	ListByStatus(ctx context.Context, status entity.LawyerStatus, limit, offset int) ([]*entity.LawyerListing, int64, error)
	Update(ctx context.Context, profile *entity.LawyerProfile) error
	SetUpload(ctx context.Context, id uuid.UUID, kind entity.DocumentKind, url string) error
	// UpdateStatus moves the profile out of from; ErrStale when another admin got there first
	UpdateStatus(ctx context.Context, profile *entity.LawyerProfile, from entity.LawyerStatus) error
	IncrementConsultations(ctx context.Context, lawyerUserID uuid.UUID) error
}

type lawyerRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewLawyerRepository(db database.PgxIface, log *zap.Logger) LawyerRepository {
	return &lawyerRepository{
		db:  db,
		log: log.With(zap.String("repository", "lawyer")),
	}
}

const lawyerColumns = `lp.id, lp.user_id, lp.bar_council_id, lp.bar_council_certificate, lp.specializations,
		       lp.years_of_experience, lp.education, lp.law_firm_name, lp.office_address,
		       lp.consultation_fee::float8, lp.languages_spoken, lp.bio, lp.status, lp.available_days,
		       lp.available_time_start, lp.available_time_end, lp.identity_proof, lp.degree_certificate,
		       lp.average_rating::float8, lp.total_reviews, lp.total_consultations, lp.verified_by,
		       lp.verification_date, lp.rejection_reason, lp.created_at, lp.updated_at`

const listingColumns = lawyerColumns + `,
		       u.id, u.username, u.email, u.password, u.first_name, u.last_name, u.role, u.phone,
		       u.profile_picture, u.date_of_birth, u.address, u.city, u.state, u.pincode,
		       u.is_verified, u.is_active, u.created_at, u.updated_at, u.deleted_at`

func lawyerDest(p *entity.LawyerProfile) []any {
	return []any{
		&p.ID,
		&p.UserID,
		&p.BarCouncilID,
		&p.BarCouncilCertificate,
		&p.Specializations,
		&p.YearsOfExperience,
		&p.Education,
		&p.LawFirmName,
		&p.OfficeAddress,
		&p.ConsultationFee,
		&p.LanguagesSpoken,
		&p.Bio,
		&p.Status,
		&p.AvailableDays,
		&p.AvailableTimeStart,
		&p.AvailableTimeEnd,
		&p.IdentityProof,
		&p.DegreeCertificate,
		&p.AverageRating,
		&p.TotalReviews,
		&p.TotalConsultations,
		&p.VerifiedBy,
		&p.VerificationDate,
		&p.RejectionReason,
		&p.CreatedAt,
		&p.UpdatedAt,
	}
}

func listingDest(l *entity.LawyerListing) []any {
	u := &l.User
	return append(lawyerDest(&l.Profile),
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.FirstName,
		&u.LastName,
		&u.Role,
		&u.Phone,
		&u.ProfilePicture,
		&u.DateOfBirth,
		&u.Address,
		&u.City,
		&u.State,
		&u.Pincode,
		&u.IsVerified,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.DeletedAt,
	)
}

// columns a client may order the public directory by
var lawyerOrderColumns = map[string]string{
	"average_rating":      "lp.average_rating",
	"total_reviews":       "lp.total_reviews",
	"consultation_fee":    "lp.consultation_fee",
	"years_of_experience": "lp.years_of_experience",
}

var defaultLawyerOrdering = []string{"-average_rating", "-total_reviews"}

// LawyerOrderClause turns "-field" style keys into an ORDER BY list, dropping unknown keys
func LawyerOrderClause(ordering []string) string {
	var parts []string
	for _, key := range ordering {
		key = strings.TrimSpace(key)
		dir := "ASC"
		if strings.HasPrefix(key, "-") {
			dir = "DESC"
			key = key[1:]
		}
		col, ok := lawyerOrderColumns[key]
		if !ok {
			continue
		}
		nulls := ""
		if key == "consultation_fee" {
			nulls = " NULLS LAST"
		}
		parts = append(parts, col+" "+dir+nulls)
	}
	if len(parts) == 0 {
		return LawyerOrderClause(defaultLawyerOrdering)
	}
	return strings.Join(append(parts, "lp.created_at DESC"), ", ")
}

// whereBuilder numbers placeholders as clauses are added; format takes the arg index via %[1]d
type whereBuilder struct {
	clauses []string
	args    []any
}

func (w *whereBuilder) add(format string, arg any) {
	w.args = append(w.args, arg)
	w.clauses = append(w.clauses, fmt.Sprintf(format, len(w.args)))
}

func (w *whereBuilder) sql() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes user input match literally inside a LIKE pattern
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func publicLawyerWhere(filter LawyerFilter) *whereBuilder {
	w := &whereBuilder{}
	w.add("lp.status = $%[1]d", entity.LawyerApproved)
	w.clauses = append(w.clauses, "u.deleted_at IS NULL", "u.is_active")

	if filter.Specialization != "" {
		w.add("$%[1]d = ANY(lp.specializations)", filter.Specialization)
	}
	if filter.MinExperience != nil {
		w.add("lp.years_of_experience >= $%[1]d", *filter.MinExperience)
	}
	if filter.MaxFee != nil {
		w.add("lp.consultation_fee <= $%[1]d", *filter.MaxFee)
	}
	if filter.Language != "" {
		w.add(`EXISTS (SELECT 1 FROM unnest(lp.languages_spoken) lang WHERE lang ILIKE $%[1]d ESCAPE '\')`, escapeLike(filter.Language))
	}
	if filter.City != "" {
		w.add(`u.city ILIKE $%[1]d ESCAPE '\'`, "%"+escapeLike(filter.City)+"%")
	}
	if filter.Search != "" {
		w.add(`(u.first_name ILIKE $%[1]d ESCAPE '\' OR u.last_name ILIKE $%[1]d ESCAPE '\'
		       OR lp.law_firm_name ILIKE $%[1]d ESCAPE '\' OR lp.bio ILIKE $%[1]d ESCAPE '\')`, "%"+escapeLike(filter.Search)+"%")
	}
	return w
}

func (r *lawyerRepository) Create(ctx context.Context, profile *entity.LawyerProfile) error {
	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO lawyer_profiles (id, user_id, bar_council_id, specializations, years_of_experience,
			                             education, law_firm_name, office_address, consultation_fee,
			                             languages_spoken, bio, status, available_days,
			                             available_time_start, available_time_end, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		`,
			profile.ID,
			profile.UserID,
			profile.BarCouncilID,
			profile.Specializations,
			profile.YearsOfExperience,
			profile.Education,
			profile.LawFirmName,
			profile.OfficeAddress,
			profile.ConsultationFee,
			profile.LanguagesSpoken,
			profile.Bio,
			profile.Status,
			profile.AvailableDays,
			profile.AvailableTimeStart,
			profile.AvailableTimeEnd,
			profile.CreatedAt,
			profile.UpdatedAt,
		)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx,
			`UPDATE users SET role = $2, updated_at = NOW() WHERE id = $1 AND role <> $3`,
			profile.UserID, entity.RoleLawyer, entity.RoleAdmin,
		)
		return err
	})

	if isUniqueViolation(err) {
		return fmt.Errorf("create lawyer profile for user %s: %w", profile.UserID.String(), ErrDuplicate)
	}
	if err != nil {
		r.log.Error("Failed to create lawyer profile",
			zap.Error(err),
			zap.String("user_id", profile.UserID.String()),
		)
		return fmt.Errorf("create lawyer profile for user %s: %w", profile.UserID.String(), err)
	}

	return nil
}

func (r *lawyerRepository) findOne(ctx context.Context, where string, arg any) (*entity.LawyerProfile, error) {
	query := `SELECT ` + lawyerColumns + ` FROM lawyer_profiles lp WHERE ` + where

	var profile entity.LawyerProfile
	err := r.db.QueryRow(ctx, query, arg).Scan(lawyerDest(&profile)...)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find lawyer profile", zap.Error(err), zap.Any("key", arg))
		return nil, fmt.Errorf("find lawyer profile %v: %w", arg, err)
	}
	return &profile, nil
}

func (r *lawyerRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.LawyerProfile, error) {
	return r.findOne(ctx, "lp.id = $1", id)
}

func (r *lawyerRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.LawyerProfile, error) {
	return r.findOne(ctx, "lp.user_id = $1", userID)
}

func (r *lawyerRepository) FindListing(ctx context.Context, id uuid.UUID) (*entity.LawyerListing, error) {
	query := `
		SELECT ` + listingColumns + `
		FROM lawyer_profiles lp
		JOIN users u ON u.id = lp.user_id
		WHERE lp.id = $1 AND u.deleted_at IS NULL
	`

	var listing entity.LawyerListing
	err := r.db.QueryRow(ctx, query, id).Scan(listingDest(&listing)...)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find lawyer listing", zap.Error(err), zap.String("lawyer_id", id.String()))
		return nil, fmt.Errorf("find lawyer listing %s: %w", id.String(), err)
	}
	return &listing, nil
}

func (r *lawyerRepository) ListPublic(ctx context.Context, filter LawyerFilter) ([]*entity.LawyerListing, int64, error) {
	w := publicLawyerWhere(filter)
	return r.list(ctx, w, LawyerOrderClause(filter.Ordering), filter.Limit, filter.Offset)
}

func (r *lawyerRepository) ListByStatus(ctx context.Context, status entity.LawyerStatus, limit, offset int) ([]*entity.LawyerListing, int64, error) {
	w := &whereBuilder{}
	w.add("lp.status = $%[1]d", status)
	w.clauses = append(w.clauses, "u.deleted_at IS NULL")
	return r.list(ctx, w, "lp.created_at ASC", limit, offset)
}

func (r *lawyerRepository) list(ctx context.Context, w *whereBuilder, orderBy string, limit, offset int) ([]*entity.LawyerListing, int64, error) {
	from := ` FROM lawyer_profiles lp JOIN users u ON u.id = lp.user_id` + w.sql()

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*)`+from, w.args...).Scan(&total); err != nil {
		r.log.Error("Failed to count lawyers", zap.Error(err))
		return nil, 0, fmt.Errorf("count lawyers: %w", err)
	}

	args := append(w.args, limit, offset)
	query := fmt.Sprintf(`SELECT %s%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		listingColumns, from, orderBy, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list lawyers",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, 0, fmt.Errorf("list lawyers limit %d offset %d: %w", limit, offset, err)
	}
	defer rows.Close()

	var listings []*entity.LawyerListing
	for rows.Next() {
		var listing entity.LawyerListing
		if err := rows.Scan(listingDest(&listing)...); err != nil {
			r.log.Error("Failed to scan lawyer row", zap.Error(err))
			return nil, 0, fmt.Errorf("scan lawyer row: %w", err)
		}
		listings = append(listings, &listing)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, 0, fmt.Errorf("iterate lawyer rows: %w", err)
	}

	return listings, total, nil
}

func (r *lawyerRepository) Update(ctx context.Context, profile *entity.LawyerProfile) error {
	query := `
		UPDATE lawyer_profiles
		SET specializations = $2, years_of_experience = $3, education = $4, law_firm_name = $5,
		    office_address = $6, consultation_fee = $7, languages_spoken = $8, bio = $9,
		    available_days = $10, available_time_start = $11, available_time_end = $12,
		    updated_at = $13
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		profile.ID,
		profile.Specializations,
		profile.YearsOfExperience,
		profile.Education,
		profile.LawFirmName,
		profile.OfficeAddress,
		profile.ConsultationFee,
		profile.LanguagesSpoken,
		profile.Bio,
		profile.AvailableDays,
		profile.AvailableTimeStart,
		profile.AvailableTimeEnd,
		profile.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update lawyer profile",
			zap.Error(err),
			zap.String("lawyer_id", profile.ID.String()),
		)
		return fmt.Errorf("update lawyer profile %s: %w", profile.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update lawyer profile %s: %w", profile.ID.String(), ErrNotFound)
	}
	return nil
}

func (r *lawyerRepository) SetUpload(ctx context.Context, id uuid.UUID, kind entity.DocumentKind, url string) error {
	if !kind.IsValid() {
		return fmt.Errorf("unknown upload kind %q", kind)
	}

	// kind is whitelisted above, so it is safe as a column name
	query := fmt.Sprintf(`UPDATE lawyer_profiles SET %s = $2, updated_at = NOW() WHERE id = $1`, kind)

	result, err := r.db.Exec(ctx, query, id, url)
	if err != nil {
		r.log.Error("Failed to store lawyer upload",
			zap.Error(err),
			zap.String("lawyer_id", id.String()),
			zap.String("kind", string(kind)),
		)
		return fmt.Errorf("store %s for lawyer %s: %w", kind, id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("store %s for lawyer %s: %w", kind, id.String(), ErrNotFound)
	}
	return nil
}

func (r *lawyerRepository) UpdateStatus(ctx context.Context, profile *entity.LawyerProfile, from entity.LawyerStatus) error {
	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		result, err := tx.Exec(ctx, `
			UPDATE lawyer_profiles
			SET status = $2, verified_by = $3, verification_date = $4, rejection_reason = $5,
			    updated_at = $6
			WHERE id = $1 AND status = $7
		`,
			profile.ID,
			profile.Status,
			profile.VerifiedBy,
			profile.VerificationDate,
			profile.RejectionReason,
			profile.UpdatedAt,
			from,
		)
		if err != nil {
			return err
		}
		if result.RowsAffected() == 0 {
			return ErrStale
		}

		if profile.Status == entity.LawyerApproved {
			_, err = tx.Exec(ctx,
				`UPDATE users SET is_verified = TRUE, updated_at = NOW() WHERE id = $1`,
				profile.UserID,
			)
		}
		return err
	})

	if err != nil && !errors.Is(err, ErrStale) {
		r.log.Error("Failed to update lawyer status",
			zap.Error(err),
			zap.String("lawyer_id", profile.ID.String()),
			zap.String("status", string(profile.Status)),
		)
	}
	if err != nil {
		return fmt.Errorf("update status of lawyer %s: %w", profile.ID.String(), err)
	}
	return nil
}

func (r *lawyerRepository) IncrementConsultations(ctx context.Context, lawyerUserID uuid.UUID) error {
	query := `
		UPDATE lawyer_profiles
		SET total_consultations = total_consultations + 1, updated_at = NOW()
		WHERE user_id = $1
	`

	if _, err := r.db.Exec(ctx, query, lawyerUserID); err != nil {
		r.log.Error("Failed to increment consultations",
			zap.Error(err),
			zap.String("lawyer_user_id", lawyerUserID.String()),
		)
		return fmt.Errorf("increment consultations for %s: %w", lawyerUserID.String(), err)
	}
	return nil
}
