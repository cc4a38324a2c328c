// Package auth keeps the terminal's backend credentials between restarts.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"pos-terminal/internal/domain"
	tokenrepo "pos-terminal/internal/repository/token"
)

// Store is the bearer token source for the backend client.
type Store struct {
	repo   tokenrepo.Repository
	logger *zap.Logger
	now    func() time.Time
}

func NewStore(repo tokenrepo.Repository, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{repo: repo, logger: logger, now: time.Now}
}

// Token returns the stored token, or "" when none is stored or it expired.
// Expired tokens are removed.
func (s *Store) Token(ctx context.Context) (string, error) {
	t, ok, err := s.current(ctx)
	if err != nil || !ok {
		return "", err
	}
	return t.Token, nil
}

// Current returns the stored token record if it is still usable.
func (s *Store) Current(ctx context.Context) (tokenrepo.Token, bool) {
	t, ok, err := s.current(ctx)
	if err != nil {
		s.logger.Warn("read token failed", zap.Error(err))
		return tokenrepo.Token{}, false
	}
	return t, ok
}

// Save persists the token of a fresh backend session.
func (s *Store) Save(ctx context.Context, sess domain.AuthSession) error {
	if sess.Token == "" {
		return errors.New("token required")
	}
	t := tokenrepo.Token{
		Token:     sess.Token,
		UserID:    sess.User.ID,
		Email:     sess.User.Email,
		ExpiresAt: ExpiryOf(sess.Token),
		CreatedAt: s.now(),
	}
	if err := s.repo.Save(ctx, t); err != nil {
		return err
	}
	s.logger.Info("signed in", zap.Int64("user_id", t.UserID), zap.Time("expires_at", t.ExpiresAt))
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	return s.repo.Delete(ctx)
}

func (s *Store) current(ctx context.Context) (tokenrepo.Token, bool, error) {
	t, err := s.repo.Get(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return tokenrepo.Token{}, false, nil
	}
	if err != nil {
		return tokenrepo.Token{}, false, err
	}
	if t.Expired(s.now()) {
		s.logger.Info("stored token expired", zap.Time("expires_at", t.ExpiresAt))
		_ = s.repo.Delete(ctx)
		return tokenrepo.Token{}, false, nil
	}
	return *t, true, nil
}

// ExpiryOf reads the exp claim of a JWT without verifying its signature; the
// backend does that. Opaque tokens and tokens without exp yield the zero time.
func ExpiryOf(token string) time.Time {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
