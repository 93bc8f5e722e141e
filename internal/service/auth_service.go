package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/hr-helpdesk/internal/auth"
	"github.com/spec-kit/hr-helpdesk/internal/config"
	"github.com/spec-kit/hr-helpdesk/internal/domain"
	"github.com/spec-kit/hr-helpdesk/internal/repository"
	apperrors "github.com/spec-kit/hr-helpdesk/pkg/util/errorutil"
)

// SeedAccount is an account created at startup when missing.
type SeedAccount struct {
	Username string
	Password string
	Role     domain.Role
}

// AuthService coordinates login and seed account creation.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
	seeds      []SeedAccount
	logger     *zap.Logger
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo repository.UserRepository
	Logger   *zap.Logger
}

// NewAuthService builds the service. The seed accounts are the fixed admin and employee users.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      deps.UserRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
		seeds: []SeedAccount{
			{Username: "admin", Password: cfg.Auth.AdminPassword, Role: domain.RoleAdmin},
			{Username: "employee", Password: cfg.Auth.EmployeePassword, Role: domain.RoleEmployee},
		},
		logger: logger,
	}
}

// EnsureSeedAccounts creates each seed account whose username does not exist yet.
// Existing accounts are left untouched, so running it on every start is safe.
func (s *AuthService) EnsureSeedAccounts(ctx context.Context) error {
	for _, seed := range s.seeds {
		_, err := s.users.GetByUsername(ctx, seed.Username)
		if err == nil {
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		hash, err := auth.HashPassword(seed.Password, s.bcryptCost)
		if err != nil {
			return err
		}
		user := &domain.User{
			Username:     seed.Username,
			PasswordHash: hash,
			Role:         seed.Role,
			IsActive:     true,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return err
		}
		s.logger.Info("seed account created", zap.String("username", user.Username), zap.String("role", string(user.Role)))
	}
	return nil
}

// IssueToken verifies the password and returns a signed token carrying username and role.
// Unknown users, inactive users and wrong passwords get the same error.
func (s *AuthService) IssueToken(ctx context.Context, username, password string) (*domain.Token, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errInvalidCredentials()
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, errInvalidCredentials()
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, errInvalidCredentials()
	}
	return s.tokenMgr.GenerateToken(user.Username, user.Role)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func errInvalidCredentials() error {
	return apperrors.NewUnauthorized("incorrect username or password")
}
