package repository

import (
	"context"
	"errors"

	"legal-marketplace/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned by writes that matched no row; reads return (nil, nil) instead
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert hits a unique constraint
	ErrDuplicate = errors.New("duplicate record")
	// ErrStale is returned when a guarded update finds the row already changed
	ErrStale = errors.New("record was modified concurrently")
)

// querier is satisfied by both the pool and an open transaction
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type Repository struct {
	User         UserRepository
	UserProfile  UserProfileRepository
	Session      SessionRepository
	Lawyer       LawyerRepository
	Rating       RatingRepository
	Appointment  AppointmentRepository
	Reschedule   RescheduleRepository
	Feedback     FeedbackRepository
	Availability AvailabilityRepository
	ChatSession  ChatSessionRepository
	ChatMessage  ChatMessageRepository
	AIResponse   AIResponseRepository
	Conversation ConversationRepository
	Document     DocumentRepository
	Share        DocumentShareRepository
	Comment      DocumentCommentRepository

	db database.PgxIface
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:         NewUserRepository(db, log),
		UserProfile:  NewUserProfileRepository(db, log),
		Session:      NewSessionRepository(db, log),
		Lawyer:       NewLawyerRepository(db, log),
		Rating:       NewRatingRepository(db, log),
		Appointment:  NewAppointmentRepository(db, log),
		Reschedule:   NewRescheduleRepository(db, log),
		Feedback:     NewFeedbackRepository(db, log),
		Availability: NewAvailabilityRepository(db, log),
		ChatSession:  NewChatSessionRepository(db, log),
		ChatMessage:  NewChatMessageRepository(db, log),
		AIResponse:   NewAIResponseRepository(db, log),
		Conversation: NewConversationRepository(db, log),
		Document:     NewDocumentRepository(db, log),
		Share:        NewDocumentShareRepository(db, log),
		Comment:      NewDocumentCommentRepository(db, log),
		db:           db,
	}
}

// Ping checks the database connection
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
