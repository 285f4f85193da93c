package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"legal-marketplace/internal/data/entity"
	"legal-marketplace/internal/data/repository"
	"legal-marketplace/internal/dto/request"
	"legal-marketplace/internal/dto/response"
	"legal-marketplace/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ClientInfo is recorded on the session a login creates
type ClientInfo struct {
	UserAgent string
	IP        string
}

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest, client ClientInfo) (*response.AuthResponse, error)
	Login(ctx context.Context, req *request.LoginRequest, client ClientInfo) (*response.AuthResponse, error)
	Logout(ctx context.Context, token string) error
	ChangePassword(ctx context.Context, userID uuid.UUID, token string, req *request.ChangePasswordRequest) error
}

type authService struct {
	repo   *repository.Repository // groups userRepo, profileRepo and sessionRepo
	config *utils.Config
	log    *zap.Logger
	now    func() time.Time
}

func NewAuthService(
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		config: config,
		log:    log.With(zap.String("service", "auth")),
		now:    time.Now,
	}
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest, client ClientInfo) (*response.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	// 1. Email must be free
	existingUser, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to check email", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existingUser != nil {
		return nil, conflict("email already registered")
	}

	// 2. Username must be free
	existingUser, err = s.repo.User.FindByUsername(ctx, req.Username)
	if err != nil {
		s.log.Error("Failed to check username", zap.Error(err), zap.String("username", req.Username))
		return nil, fmt.Errorf("check username: %w", err)
	}
	if existingUser != nil {
		return nil, conflict("username already taken")
	}

	// 3. Hash password
	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// 4. Build the account; self-registration is always a plain user
	now := s.now()
	user := &entity.User{
		Base:         entity.NewBase(now),
		Username:     req.Username,
		Email:        email,
		PasswordHash: hashedPassword,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Phone:        req.Phone,
		Role:         entity.RoleUser,
		IsActive:     true,
	}

	// 5. Save user with its profile
	if err := s.repo.User.CreateWithProfile(ctx, user, entity.NewUserProfile(user.ID, now)); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflict("email or username already registered")
		}
		s.log.Error("Failed to create user", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("create account: %w", err)
	}

	// 6. Auto login
	session, err := s.createSession(ctx, user.ID, client)
	if err != nil {
		s.log.Warn("Failed to create session after register",
			zap.Error(err), zap.String("user_id", user.ID.String()))
		// the account exists; the client can log in normally
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	resp := response.AuthToResponse(user, session)
	return &resp, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest, client ClientInfo) (*response.AuthResponse, error) {
	identifier := strings.TrimSpace(req.Username)

	// 1. Find user by email, then by username
	var user *entity.User
	var err error

	if strings.Contains(identifier, "@") {
		user, err = s.repo.User.FindByEmail(ctx, identifier)
		if err != nil {
			s.log.Error("Failed to find user by email", zap.Error(err), zap.String("identifier", identifier))
			return nil, fmt.Errorf("find user: %w", err)
		}
	}

	if user == nil {
		user, err = s.repo.User.FindByUsername(ctx, identifier)
		if err != nil {
			s.log.Error("Failed to find user by username", zap.Error(err), zap.String("identifier", identifier))
			return nil, fmt.Errorf("find user: %w", err)
		}
	}

	// 2. Unknown user and wrong password look the same
	if user == nil || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid credentials", zap.String("identifier", identifier))
		return nil, newError(ErrUnauthorized, "invalid credentials")
	}

	// 3. Check if user is active
	if !user.IsActive {
		s.log.Warn("Inactive user tried to login", zap.String("user_id", user.ID.String()))
		return nil, forbidden("account is deactivated")
	}

	// 4. Create session
	session, err := s.createSession(ctx, user.ID, client)
	if err != nil {
		s.log.Error("Failed to create session", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.log.Info("User logged in", zap.String("user_id", user.ID.String()))

	resp := response.AuthToResponse(user, session)
	return &resp, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	tokenID, err := uuid.Parse(token)
	if err != nil {
		return newError(ErrUnauthorized, "invalid session token")
	}

	if err := s.repo.Session.Revoke(ctx, tokenID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return newError(ErrUnauthorized, "session already ended")
		}
		s.log.Error("Failed to revoke session", zap.Error(err))
		return fmt.Errorf("revoke session: %w", err)
	}

	s.log.Info("Session revoked")
	return nil
}

func (s *authService) ChangePassword(ctx context.Context, userID uuid.UUID, token string, req *request.ChangePasswordRequest) error {
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", userID.String()))
		return fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return notFound("user")
	}

	if !utils.CheckPasswordHash(req.OldPassword, user.PasswordHash) {
		return invalid("old password is incorrect")
	}
	if req.OldPassword == req.NewPassword {
		return invalid("new password must differ from the old one")
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.repo.User.UpdatePassword(ctx, user.ID, hash); err != nil {
		s.log.Error("Failed to update password", zap.Error(err), zap.String("user_id", userID.String()))
		return fmt.Errorf("update password: %w", err)
	}

	// every other device has to log in again
	keep, _ := uuid.Parse(token)
	revoked, err := s.repo.Session.RevokeOtherSessions(ctx, user.ID, keep)
	if err != nil {
		s.log.Warn("Failed to revoke other sessions", zap.Error(err), zap.String("user_id", userID.String()))
	}

	s.log.Info("Password changed",
		zap.String("user_id", userID.String()),
		zap.Int64("sessions_revoked", revoked))
	return nil
}

// ==================== HELPER METHODS ====================

func (s *authService) createSession(ctx context.Context, userID uuid.UUID, client ClientInfo) (*entity.Session, error) {
	ttl := time.Duration(s.config.Session.ExpiryHours) * time.Hour
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	session := entity.NewSession(userID, ttl, client.UserAgent, client.IP, s.now())
	if err := s.repo.Session.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}
