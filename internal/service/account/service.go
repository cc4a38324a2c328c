// Package account signs the terminal operator in and out and manages their
// profile on the backend.
package account

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"pos-terminal/internal/backend"
	"pos-terminal/internal/domain"
	userrepo "pos-terminal/internal/repository/user"
)

// ErrInvalidCredentials is returned when the backend rejects a login.
var ErrInvalidCredentials = errors.New("invalid credentials")

type tokenStore interface {
	Save(ctx context.Context, sess domain.AuthSession) error
	Clear(ctx context.Context) error
}

type Service struct {
	repo        userrepo.Repository
	tokens      tokenStore
	logger      *zap.Logger
	passwordMin int
}

func New(repo userrepo.Repository, tokens tokenStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, tokens: tokens, logger: logger, passwordMin: 8}
}

// Login signs in with the backend and stores the returned token.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, domain.Invalid("email required")
	}
	if strings.TrimSpace(password) == "" {
		return nil, domain.Invalid("password required")
	}
	sess, err := s.repo.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) || backend.IsStatus(err, http.StatusBadRequest) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := s.tokens.Save(ctx, *sess); err != nil {
		return nil, fmt.Errorf("store token: %w", err)
	}
	return &sess.User, nil
}

func (s *Service) Register(ctx context.Context, reg domain.Registration) (*domain.User, error) {
	reg.Email = strings.TrimSpace(strings.ToLower(reg.Email))
	reg.FullName = strings.TrimSpace(reg.FullName)
	if reg.Email == "" {
		return nil, domain.Invalid("email required")
	}
	if reg.FullName == "" {
		return nil, domain.Invalid("full name required")
	}
	if err := validatePassword(reg.Password, s.passwordMin); err != nil {
		return nil, err
	}
	sess, err := s.repo.Register(ctx, reg)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.Save(ctx, *sess); err != nil {
		return nil, fmt.Errorf("store token: %w", err)
	}
	return &sess.User, nil
}

// Logout tells the backend and drops the local token even when the backend
// call fails.
func (s *Service) Logout(ctx context.Context) error {
	remoteErr := s.repo.Logout(ctx)
	if remoteErr != nil {
		s.logger.Warn("backend logout failed; clearing local token anyway", zap.Error(remoteErr))
	}
	if err := s.tokens.Clear(ctx); err != nil {
		return err
	}
	return nil
}

func (s *Service) Me(ctx context.Context) (*domain.User, error) {
	return s.repo.Me(ctx)
}

func (s *Service) Profile(ctx context.Context) (*domain.User, error) {
	return s.repo.Profile(ctx)
}

func (s *Service) UpdateProfile(ctx context.Context, upd domain.ProfileUpdate) (*domain.User, error) {
	upd.FullName = strings.TrimSpace(upd.FullName)
	upd.Phone = strings.TrimSpace(upd.Phone)
	upd.Address = strings.TrimSpace(upd.Address)
	if upd.FullName == "" {
		return nil, domain.Invalid("full name required")
	}
	return s.repo.UpdateProfile(ctx, upd)
}

func (s *Service) ChangePassword(ctx context.Context, change domain.PasswordChange) error {
	if change.Current == "" {
		return domain.Invalid("current password required")
	}
	if err := validatePassword(change.New, s.passwordMin); err != nil {
		return err
	}
	if change.New != change.Confirm {
		return domain.Invalid("new password and confirmation do not match")
	}
	return s.repo.ChangePassword(ctx, change)
}

func validatePassword(p string, min int) error {
	if len(strings.TrimSpace(p)) < min {
		return domain.Invalid(fmt.Sprintf("password must be at least %d characters", min))
	}
	return nil
}
