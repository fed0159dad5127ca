package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	cfotel "github.com/Strob0t/SkillSprint/internal/adapter/otel"
	"github.com/Strob0t/SkillSprint/internal/config"
	"github.com/Strob0t/SkillSprint/internal/domain"
	"github.com/Strob0t/SkillSprint/internal/domain/user"
	"github.com/Strob0t/SkillSprint/internal/port/database"
)

// AuthService handles registration, password verification and the admin
// account operations.
type AuthService struct {
	store   database.Store
	cfg     *config.Auth
	metrics *cfotel.Metrics

	dummyOnce sync.Once
	dummyHash []byte
}

// NewAuthService creates a new authentication service.
func NewAuthService(store database.Store, cfg *config.Auth) *AuthService {
	return &AuthService{store: store, cfg: cfg}
}

// SetMetrics attaches metric instruments. Nil disables them.
func (s *AuthService) SetMetrics(m *cfotel.Metrics) { s.metrics = m }

// Register creates a new user with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, req *user.CreateRequest) (*user.User, error) {
	req.Normalize()
	if err := req.Validate(s.cfg.MinPasswordLength); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &user.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	if s.metrics != nil {
		s.metrics.Registrations.Add(ctx, 1)
	}
	return u, nil
}

// Login verifies the email and password. An unknown email and a wrong
// password both return domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, req user.LoginRequest) (*user.User, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := req.Validate(); err != nil {
		s.loginFailed(ctx)
		return nil, err
	}

	u, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Spend the same time as a real comparison.
			_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(req.Password))
			s.loginFailed(ctx)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		s.loginFailed(ctx)
		return nil, domain.ErrInvalidCredentials
	}

	if s.metrics != nil {
		s.metrics.Logins.Add(ctx, 1)
	}
	return u, nil
}

// ListUsers returns every registered user.
func (s *AuthService) ListUsers(ctx context.Context) ([]user.User, error) {
	return s.store.ListUsers(ctx)
}

// ResetPassword replaces the password of the user with the given email.
func (s *AuthService) ResetPassword(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return domain.Validation("email is required")
	}
	if err := user.ValidatePassword(password, s.cfg.MinPasswordLength); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.store.UpdateUserPassword(ctx, email, string(hash)); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	return nil
}

func (s *AuthService) loginFailed(ctx context.Context) {
	if s.metrics != nil {
		s.metrics.LoginFailures.Add(ctx, 1)
	}
}

func (s *AuthService) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("skillsprint-dummy-password"), s.cfg.BcryptCost)
	})
	return s.dummyHash
}
