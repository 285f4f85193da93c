package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"legal-marketplace/internal/data/entity"
	"legal-marketplace/internal/data/repository"
	"legal-marketplace/internal/dto/request"
	"legal-marketplace/internal/dto/response"
	"legal-marketplace/pkg/cache"
	"legal-marketplace/pkg/events"
	"legal-marketplace/pkg/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type LawyerService interface {
	CreateProfile(ctx context.Context, userID uuid.UUID, req *request.CreateLawyerProfileRequest) (*response.LawyerResponse, error)
	GetOwnProfile(ctx context.Context, userID uuid.UUID) (*response.LawyerResponse, error)
	UpdateOwnProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateLawyerProfileRequest) (*response.LawyerResponse, error)
	UploadVerificationDocument(ctx context.Context, userID uuid.UUID, kind entity.DocumentKind, file io.Reader, filename string) (*response.LawyerResponse, error)

	// Public directory
	ListPublic(ctx context.Context, req *request.LawyerListRequest) (*response.PaginatedResponse[response.LawyerResponse], error)
	GetPublic(ctx context.Context, lawyerID uuid.UUID) (*response.LawyerResponse, error)
	Specializations() []entity.Specialization

	// Admin verification
	ListPending(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.LawyerResponse], error)
	Decide(ctx context.Context, adminID, lawyerID uuid.UUID, req *request.LawyerDecisionRequest) (*response.LawyerResponse, error)
	Suspend(ctx context.Context, adminID, lawyerID uuid.UUID, reason *string) (*response.LawyerResponse, error)
	Reinstate(ctx context.Context, adminID, lawyerID uuid.UUID) (*response.LawyerResponse, error)
}

type lawyerService struct {
	repo    *repository.Repository
	storage storage.MediaStorage
	cache   cache.Cache
	events  events.Publisher
	log     *zap.Logger
	now     func() time.Time
}

func NewLawyerService(
	repo *repository.Repository,
	store storage.MediaStorage,
	c cache.Cache,
	pub events.Publisher,
	log *zap.Logger,
) LawyerService {
	return &lawyerService{
		repo:    repo,
		storage: store,
		cache:   c,
		events:  pub,
		log:     log.With(zap.String("service", "lawyer")),
		now:     time.Now,
	}
}

var uploadExtensions = map[string]bool{"pdf": true, "jpg": true, "jpeg": true, "png": true}

func lawyerCacheKey(id uuid.UUID) string {
	return "lawyer:" + id.String()
}

// dropLawyerDetail evicts the cached public detail of a lawyer profile
func dropLawyerDetail(ctx context.Context, c cache.Cache, log *zap.Logger, lawyerID uuid.UUID) {
	if err := c.Delete(ctx, lawyerCacheKey(lawyerID)); err != nil {
		log.Warn("Failed to invalidate lawyer cache", zap.Error(err), zap.String("lawyer_id", lawyerID.String()))
	}
}

// dropLawyerDetailOf evicts the cached detail of the profile owned by a lawyer account
func dropLawyerDetailOf(ctx context.Context, repo *repository.Repository, c cache.Cache, log *zap.Logger, userID uuid.UUID) {
	profile, err := repo.Lawyer.FindByUserID(ctx, userID)
	if err != nil {
		log.Warn("Failed to resolve lawyer profile for cache invalidation", zap.Error(err), zap.String("user_id", userID.String()))
		return
	}
	if profile != nil {
		dropLawyerDetail(ctx, c, log, profile.ID)
	}
}

func validateSpecializations(values []string) error {
	for _, v := range values {
		if !entity.IsSpecialization(v) {
			return invalid("unknown specialization %q", v)
		}
	}
	return nil
}

func parseClockPtr(value *string, field string) (*entity.Clock, error) {
	if value == nil {
		return nil, nil
	}
	c, err := entity.ParseClock(*value)
	if err != nil {
		return nil, invalid("invalid %s", field)
	}
	return &c, nil
}

func checkWorkingHours(start, end *entity.Clock) error {
	if start != nil && end != nil && *start >= *end {
		return invalid("available_time_start must be before available_time_end")
	}
	return nil
}

func (s *lawyerService) CreateProfile(ctx context.Context, userID uuid.UUID, req *request.CreateLawyerProfileRequest) (*response.LawyerResponse, error) {
	if err := validateSpecializations(req.Specializations); err != nil {
		return nil, err
	}
	start, err := parseClockPtr(req.AvailableTimeStart, "available_time_start")
	if err != nil {
		return nil, err
	}
	end, err := parseClockPtr(req.AvailableTimeEnd, "available_time_end")
	if err != nil {
		return nil, err
	}
	if err := checkWorkingHours(start, end); err != nil {
		return nil, err
	}

	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, notFound("user")
	}

	existing, err := s.repo.Lawyer.FindByUserID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to check lawyer profile", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("check lawyer profile: %w", err)
	}
	if existing != nil {
		return nil, conflict("lawyer profile already exists")
	}

	now := s.now()
	profile := &entity.LawyerProfile{
		BaseNoDelete:       entity.NewBaseNoDelete(now),
		UserID:             userID,
		BarCouncilID:       strings.TrimSpace(req.BarCouncilID),
		Specializations:    req.Specializations,
		YearsOfExperience:  req.YearsOfExperience,
		Education:          req.Education,
		LawFirmName:        req.LawFirmName,
		OfficeAddress:      req.OfficeAddress,
		ConsultationFee:    req.ConsultationFee,
		LanguagesSpoken:    req.LanguagesSpoken,
		Bio:                req.Bio,
		Status:             entity.LawyerPending,
		AvailableDays:      req.AvailableDays,
		AvailableTimeStart: start,
		AvailableTimeEnd:   end,
	}

	if err := s.repo.Lawyer.Create(ctx, profile); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflict("a lawyer profile with this bar council id already exists")
		}
		return nil, fmt.Errorf("create lawyer profile: %w", err)
	}
	if user.Role != entity.RoleAdmin {
		user.Role = entity.RoleLawyer
	}

	s.log.Info("Lawyer profile created",
		zap.String("lawyer_id", profile.ID.String()),
		zap.String("user_id", userID.String()))

	resp := response.LawyerToResponse(profile, user, true)
	return &resp, nil
}

// ownListing loads the caller's profile together with their account
func (s *lawyerService) ownListing(ctx context.Context, userID uuid.UUID) (*entity.LawyerListing, error) {
	profile, err := s.repo.Lawyer.FindByUserID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to find lawyer profile", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("find lawyer profile: %w", err)
	}
	if profile == nil {
		return nil, notFound("lawyer profile")
	}

	listing, err := s.repo.Lawyer.FindListing(ctx, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("find lawyer listing: %w", err)
	}
	if listing == nil {
		return nil, notFound("lawyer profile")
	}
	return listing, nil
}

func (s *lawyerService) GetOwnProfile(ctx context.Context, userID uuid.UUID) (*response.LawyerResponse, error) {
	listing, err := s.ownListing(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := response.ListingToResponse(listing, true)
	return &resp, nil
}

func (s *lawyerService) UpdateOwnProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateLawyerProfileRequest) (*response.LawyerResponse, error) {
	listing, err := s.ownListing(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile := &listing.Profile

	if req.Specializations != nil {
		if err := validateSpecializations(req.Specializations); err != nil {
			return nil, err
		}
		profile.Specializations = req.Specializations
	}
	if req.YearsOfExperience != nil {
		profile.YearsOfExperience = *req.YearsOfExperience
	}
	if req.Education != nil {
		profile.Education = *req.Education
	}
	if req.LawFirmName != nil {
		profile.LawFirmName = req.LawFirmName
	}
	if req.OfficeAddress != nil {
		profile.OfficeAddress = *req.OfficeAddress
	}
	if req.ConsultationFee != nil {
		profile.ConsultationFee = req.ConsultationFee
	}
	if req.LanguagesSpoken != nil {
		profile.LanguagesSpoken = req.LanguagesSpoken
	}
	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.AvailableDays != nil {
		profile.AvailableDays = req.AvailableDays
	}
	if req.AvailableTimeStart != nil {
		if profile.AvailableTimeStart, err = parseClockPtr(req.AvailableTimeStart, "available_time_start"); err != nil {
			return nil, err
		}
	}
	if req.AvailableTimeEnd != nil {
		if profile.AvailableTimeEnd, err = parseClockPtr(req.AvailableTimeEnd, "available_time_end"); err != nil {
			return nil, err
		}
	}
	if err := checkWorkingHours(profile.AvailableTimeStart, profile.AvailableTimeEnd); err != nil {
		return nil, err
	}
	profile.Touch(s.now())

	if err := s.repo.Lawyer.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("update lawyer profile: %w", err)
	}
	s.invalidate(ctx, profile.ID)

	s.log.Info("Lawyer profile updated", zap.String("lawyer_id", profile.ID.String()))

	resp := response.ListingToResponse(listing, true)
	return &resp, nil
}

func (s *lawyerService) UploadVerificationDocument(ctx context.Context, userID uuid.UUID, kind entity.DocumentKind, file io.Reader, filename string) (*response.LawyerResponse, error) {
	if !kind.IsValid() {
		return nil, invalid("unknown document kind %q", kind)
	}
	if !uploadExtensions[storage.Extension(filename)] {
		return nil, invalid("verification documents must be pdf, jpg, jpeg or png")
	}

	listing, err := s.ownListing(ctx, userID)
	if err != nil {
		return nil, err
	}

	obj, err := s.storage.Upload(ctx, file, "lawyer_documents/"+string(kind), filename)
	if err != nil {
		s.log.Error("Failed to upload verification document",
			zap.Error(err),
			zap.String("lawyer_id", listing.Profile.ID.String()),
			zap.String("kind", string(kind)))
		return nil, newError(ErrUpstream, "failed to upload document")
	}

	if err := s.repo.Lawyer.SetUpload(ctx, listing.Profile.ID, kind, obj.URL); err != nil {
		return nil, fmt.Errorf("store %s: %w", kind, err)
	}

	switch kind {
	case entity.UploadBarCouncilCertificate:
		listing.Profile.BarCouncilCertificate = &obj.URL
	case entity.UploadIdentityProof:
		listing.Profile.IdentityProof = &obj.URL
	case entity.UploadDegreeCertificate:
		listing.Profile.DegreeCertificate = &obj.URL
	}

	resp := response.ListingToResponse(listing, true)
	return &resp, nil
}

func (s *lawyerService) ListPublic(ctx context.Context, req *request.LawyerListRequest) (*response.PaginatedResponse[response.LawyerResponse], error) {
	filter := repository.LawyerFilter{
		Specialization: req.Specialization,
		MinExperience:  req.MinExperience,
		MaxFee:         req.MaxFee,
		Language:       req.Language,
		City:           req.City,
		Search:         strings.TrimSpace(req.Search),
		Ordering:       req.Ordering,
		Limit:          req.Limit(),
		Offset:         req.Offset(),
	}

	listings, total, err := s.repo.Lawyer.ListPublic(ctx, filter)
	if err != nil {
		s.log.Error("Failed to list lawyers", zap.Error(err))
		return nil, fmt.Errorf("list lawyers: %w", err)
	}

	data := make([]response.LawyerResponse, len(listings))
	for i, l := range listings {
		data[i] = response.ListingToResponse(l, false)
	}

	return response.NewPaginatedResponse(data, req.Page, req.Limit(), total), nil
}

func (s *lawyerService) GetPublic(ctx context.Context, lawyerID uuid.UUID) (*response.LawyerResponse, error) {
	var cached response.LawyerResponse
	if found, _ := s.cache.Get(ctx, lawyerCacheKey(lawyerID), &cached); found {
		return &cached, nil
	}

	listing, err := s.repo.Lawyer.FindListing(ctx, lawyerID)
	if err != nil {
		s.log.Error("Failed to find lawyer", zap.Error(err), zap.String("lawyer_id", lawyerID.String()))
		return nil, fmt.Errorf("find lawyer: %w", err)
	}
	if listing == nil || listing.Profile.Status != entity.LawyerApproved || !listing.User.IsActive {
		return nil, notFound("lawyer")
	}

	resp := response.ListingToResponse(listing, false)
	if err := s.cache.Set(ctx, lawyerCacheKey(lawyerID), resp); err != nil {
		s.log.Debug("Lawyer detail not cached", zap.Error(err))
	}
	return &resp, nil
}

func (s *lawyerService) Specializations() []entity.Specialization {
	return entity.Specializations
}

func (s *lawyerService) ListPending(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.LawyerResponse], error) {
	listings, total, err := s.repo.Lawyer.ListByStatus(ctx, entity.LawyerPending, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to list pending lawyers", zap.Error(err))
		return nil, fmt.Errorf("list pending lawyers: %w", err)
	}

	data := make([]response.LawyerResponse, len(listings))
	for i, l := range listings {
		data[i] = response.ListingToResponse(l, true)
	}

	return response.NewPaginatedResponse(data, req.Page, req.Limit(), total), nil
}

func (s *lawyerService) Decide(ctx context.Context, adminID, lawyerID uuid.UUID, req *request.LawyerDecisionRequest) (*response.LawyerResponse, error) {
	next := entity.LawyerApproved
	eventType := events.LawyerApproved
	if req.Action == "reject" {
		next = entity.LawyerRejected
		eventType = events.LawyerRejected
	}
	return s.transition(ctx, adminID, lawyerID, next, req.Reason, eventType)
}

func (s *lawyerService) Suspend(ctx context.Context, adminID, lawyerID uuid.UUID, reason *string) (*response.LawyerResponse, error) {
	return s.transition(ctx, adminID, lawyerID, entity.LawyerSuspended, reason, events.LawyerSuspended)
}

func (s *lawyerService) Reinstate(ctx context.Context, adminID, lawyerID uuid.UUID) (*response.LawyerResponse, error) {
	return s.transition(ctx, adminID, lawyerID, entity.LawyerApproved, nil, events.LawyerReinstated)
}

// transition moves a profile along the verification state machine
func (s *lawyerService) transition(
	ctx context.Context,
	adminID, lawyerID uuid.UUID,
	next entity.LawyerStatus,
	reason *string,
	eventType string,
) (*response.LawyerResponse, error) {
	listing, err := s.repo.Lawyer.FindListing(ctx, lawyerID)
	if err != nil {
		s.log.Error("Failed to find lawyer", zap.Error(err), zap.String("lawyer_id", lawyerID.String()))
		return nil, fmt.Errorf("find lawyer: %w", err)
	}
	if listing == nil {
		return nil, notFound("lawyer")
	}

	profile := &listing.Profile
	from := profile.Status
	if !from.CanTransitionTo(next) {
		return nil, newError(ErrInvalidTransition, "cannot move lawyer from %s to %s", from, next)
	}

	now := s.now()
	profile.Status = next
	profile.Touch(now)
	switch next {
	case entity.LawyerApproved:
		profile.VerifiedBy = &adminID
		profile.VerificationDate = &now
		profile.RejectionReason = nil
		listing.User.IsVerified = true
	case entity.LawyerRejected, entity.LawyerSuspended:
		profile.RejectionReason = reason
	}

	if err := s.repo.Lawyer.UpdateStatus(ctx, profile, from); err != nil {
		if errors.Is(err, repository.ErrStale) {
			return nil, conflict("lawyer status was changed by someone else")
		}
		return nil, fmt.Errorf("update lawyer status: %w", err)
	}
	s.invalidate(ctx, profile.ID)

	s.log.Info("Lawyer status changed",
		zap.String("lawyer_id", profile.ID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(next)),
		zap.String("admin_id", adminID.String()))

	publish(ctx, s.events, s.log, events.New(eventType, profile.ID.String(), map[string]any{
		"lawyer_id": profile.ID,
		"user_id":   profile.UserID,
		"status":    next,
		"admin_id":  adminID,
		"reason":    reason,
	}))

	resp := response.ListingToResponse(listing, true)
	return &resp, nil
}

func (s *lawyerService) invalidate(ctx context.Context, lawyerID uuid.UUID) {
	dropLawyerDetail(ctx, s.cache, s.log, lawyerID)
}
