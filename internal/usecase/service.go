package usecase

import (
	"context"

	"legal-marketplace/internal/data/entity"
	"legal-marketplace/internal/data/repository"
	"legal-marketplace/pkg/cache"
	"legal-marketplace/pkg/events"
	"legal-marketplace/pkg/llm"
	"legal-marketplace/pkg/storage"
	"legal-marketplace/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Deps are the external systems the services talk to
type Deps struct {
	Storage storage.MediaStorage
	LLM     llm.Completer
	Cache   cache.Cache
	Events  events.Publisher
}

type Service struct {
	Auth         AuthService
	User         UserService
	Lawyer       LawyerService
	Rating       RatingService
	Appointment  AppointmentService
	Availability AvailabilityService
	Chat         ChatService
	Conversation ConversationService
	Document     DocumentService
}

func NewService(repo *repository.Repository, deps Deps, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Auth:         NewAuthService(repo, config, log),
		User:         NewUserService(repo, deps.Storage, deps.Cache, log),
		Lawyer:       NewLawyerService(repo, deps.Storage, deps.Cache, deps.Events, log),
		Rating:       NewRatingService(repo, deps.Cache, log),
		Appointment:  NewAppointmentService(repo, deps.Events, deps.Cache, config.App.Location(), log),
		Availability: NewAvailabilityService(repo, config.App.Location(), log),
		Chat:         NewChatService(repo, deps.LLM, config.AI, log),
		Conversation: NewConversationService(repo, log),
		Document:     NewDocumentService(repo, deps.Storage, deps.LLM, config.App.MaxUploadMB, log),
	}
}

// Actor is the authenticated caller of an operation
type Actor struct {
	ID   uuid.UUID
	Role entity.UserRole
}

func (a Actor) IsAdmin() bool  { return a.Role == entity.RoleAdmin }
func (a Actor) IsLawyer() bool { return a.Role == entity.RoleLawyer }

// publish never fails the caller; the state change is already committed
func publish(ctx context.Context, pub events.Publisher, log *zap.Logger, e events.Event) {
	if err := pub.Publish(ctx, e); err != nil {
		log.Warn("Failed to publish event", zap.Error(err), zap.String("type", e.Type))
	}
}
