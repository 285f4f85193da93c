package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"legal-marketplace/internal/data/entity"
	"legal-marketplace/internal/data/repository"
	"legal-marketplace/internal/dto/request"
	"legal-marketplace/internal/dto/response"
	"legal-marketplace/pkg/cache"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RatingService interface {
	Rate(ctx context.Context, userID uuid.UUID, req *request.RateLawyerRequest) (*response.RatingResultResponse, error)
	ListByLawyer(ctx context.Context, lawyerID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.RatingResponse], error)
	Update(ctx context.Context, ratingID, userID uuid.UUID, req *request.UpdateRatingRequest) (*response.RatingResultResponse, error)
	Delete(ctx context.Context, ratingID, userID uuid.UUID) (*response.RatingResultResponse, error)
}

type ratingService struct {
	repo  *repository.Repository
	cache cache.Cache
	log   *zap.Logger
	now   func() time.Time
}

func NewRatingService(repo *repository.Repository, c cache.Cache, log *zap.Logger) RatingService {
	return &ratingService{
		repo:  repo,
		cache: c,
		log:   log.With(zap.String("service", "rating")),
		now:   time.Now,
	}
}

func (s *ratingService) Rate(ctx context.Context, userID uuid.UUID, req *request.RateLawyerRequest) (*response.RatingResultResponse, error) {
	lawyerID, err := uuid.Parse(req.LawyerID)
	if err != nil {
		return nil, invalid("invalid lawyer id")
	}

	// Only approved lawyers can be rated
	profile, err := s.repo.Lawyer.FindByID(ctx, lawyerID)
	if err != nil {
		s.log.Error("Failed to find lawyer", zap.Error(err), zap.String("lawyer_id", lawyerID.String()))
		return nil, fmt.Errorf("find lawyer: %w", err)
	}
	if profile == nil || profile.Status != entity.LawyerApproved {
		return nil, notFound("lawyer")
	}
	if profile.UserID == userID {
		return nil, forbidden("you cannot rate yourself")
	}

	// Check if user has already rated this lawyer
	existing, err := s.repo.Rating.FindByLawyerAndUser(ctx, lawyerID, userID)
	if err != nil {
		s.log.Error("Failed to check existing rating", zap.Error(err))
		return nil, fmt.Errorf("check existing rating: %w", err)
	}
	if existing != nil {
		return nil, conflict("you have already rated this lawyer")
	}

	now := s.now()
	rating := &entity.LawyerRating{
		Base:     entity.NewBase(now),
		LawyerID: lawyerID,
		UserID:   userID,
		Rating:   req.Rating,
		Review:   req.Review,
	}

	summary, err := s.repo.Rating.Create(ctx, rating)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflict("you have already rated this lawyer")
		}
		s.log.Error("Failed to create rating",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("lawyer_id", lawyerID.String()),
		)
		return nil, fmt.Errorf("create rating: %w", err)
	}
	s.invalidate(ctx, lawyerID)

	s.log.Info("Lawyer rated",
		zap.String("rating_id", rating.ID.String()),
		zap.String("lawyer_id", lawyerID.String()),
		zap.Int("rating", req.Rating),
		zap.Float64("average", summary.AverageRating),
	)

	return s.result(ctx, rating, summary), nil
}

func (s *ratingService) ListByLawyer(ctx context.Context, lawyerID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.RatingResponse], error) {
	ratings, total, err := s.repo.Rating.ListByLawyer(ctx, lawyerID, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to list ratings", zap.Error(err), zap.String("lawyer_id", lawyerID.String()))
		return nil, fmt.Errorf("list ratings: %w", err)
	}

	ids := make([]uuid.UUID, len(ratings))
	for i, r := range ratings {
		ids[i] = r.UserID
	}
	users, err := s.repo.User.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load raters: %w", err)
	}

	data := make([]response.RatingResponse, len(ratings))
	for i, r := range ratings {
		data[i] = response.RatingToResponse(r, users[r.UserID])
	}

	return response.NewPaginatedResponse(data, req.Page, req.Limit(), total), nil
}

// owned loads a rating written by userID
func (s *ratingService) owned(ctx context.Context, ratingID, userID uuid.UUID) (*entity.LawyerRating, error) {
	rating, err := s.repo.Rating.FindByID(ctx, ratingID)
	if err != nil {
		s.log.Error("Failed to find rating", zap.Error(err), zap.String("rating_id", ratingID.String()))
		return nil, fmt.Errorf("find rating: %w", err)
	}
	if rating == nil || rating.IsDeleted() {
		return nil, notFound("rating")
	}
	if rating.UserID != userID {
		return nil, forbidden("you can only change your own rating")
	}
	return rating, nil
}

func (s *ratingService) Update(ctx context.Context, ratingID, userID uuid.UUID, req *request.UpdateRatingRequest) (*response.RatingResultResponse, error) {
	rating, err := s.owned(ctx, ratingID, userID)
	if err != nil {
		return nil, err
	}

	rating.Rating = req.Rating
	if req.Review != nil {
		rating.Review = req.Review
	}
	rating.Touch(s.now())

	summary, err := s.repo.Rating.Update(ctx, rating)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("rating")
		}
		return nil, fmt.Errorf("update rating: %w", err)
	}
	s.invalidate(ctx, rating.LawyerID)

	s.log.Info("Rating updated", zap.String("rating_id", ratingID.String()), zap.Int("rating", req.Rating))

	return s.result(ctx, rating, summary), nil
}

func (s *ratingService) Delete(ctx context.Context, ratingID, userID uuid.UUID) (*response.RatingResultResponse, error) {
	rating, err := s.owned(ctx, ratingID, userID)
	if err != nil {
		return nil, err
	}

	summary, err := s.repo.Rating.Delete(ctx, rating)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("rating")
		}
		return nil, fmt.Errorf("delete rating: %w", err)
	}
	s.invalidate(ctx, rating.LawyerID)

	s.log.Info("Rating deleted", zap.String("rating_id", ratingID.String()))

	return &response.RatingResultResponse{
		AverageRating: summary.AverageRating,
		TotalReviews:  summary.TotalReviews,
	}, nil
}

func (s *ratingService) result(ctx context.Context, rating *entity.LawyerRating, summary *entity.RatingSummary) *response.RatingResultResponse {
	user, err := s.repo.User.FindByID(ctx, rating.UserID)
	if err != nil {
		s.log.Warn("Failed to load rater", zap.Error(err))
	}

	resp := response.RatingToResponse(rating, user)
	return &response.RatingResultResponse{
		Rating:        &resp,
		AverageRating: summary.AverageRating,
		TotalReviews:  summary.TotalReviews,
	}
}

func (s *ratingService) invalidate(ctx context.Context, lawyerID uuid.UUID) {
	dropLawyerDetail(ctx, s.cache, s.log, lawyerID)
}
