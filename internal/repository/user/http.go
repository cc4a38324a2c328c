package user

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"pos-terminal/internal/backend"
	"pos-terminal/internal/domain"
)

type httpRepo struct {
	client backend.Doer
	logger *zap.Logger
}

func NewHTTP(client backend.Doer, logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &httpRepo{client: client, logger: logger}
}

type authResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    domain.User `json:"user"`
}

type userResponse struct {
	Success bool        `json:"success"`
	User    domain.User `json:"user"`
}

func (r *httpRepo) Login(ctx context.Context, email, password string) (*domain.AuthSession, error) {
	body := map[string]string{"email": email, "password": password}
	var resp authResponse
	if err := r.client.Do(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		r.logger.Info("user repo: login rejected", zap.String("email", email), zap.Error(err))
		return nil, err
	}
	r.logger.Info("user repo: login", zap.Int64("user_id", resp.User.ID))
	return &domain.AuthSession{Token: resp.Token, User: resp.User}, nil
}

func (r *httpRepo) Register(ctx context.Context, reg domain.Registration) (*domain.AuthSession, error) {
	body := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"fullName"`
		Phone    string `json:"phone,omitempty"`
		Address  string `json:"address,omitempty"`
	}{reg.Email, reg.Password, reg.FullName, reg.Phone, reg.Address}

	var resp authResponse
	if err := r.client.Do(ctx, http.MethodPost, "/auth/register", body, &resp); err != nil {
		r.logger.Info("user repo: register rejected", zap.String("email", reg.Email), zap.Error(err))
		return nil, err
	}
	r.logger.Info("user repo: registered", zap.Int64("user_id", resp.User.ID))
	return &domain.AuthSession{Token: resp.Token, User: resp.User}, nil
}

func (r *httpRepo) Logout(ctx context.Context) error {
	if err := r.client.Do(ctx, http.MethodPost, "/auth/logout", nil, nil); err != nil {
		r.logger.Warn("user repo: logout", zap.Error(err))
		return err
	}
	return nil
}

func (r *httpRepo) Me(ctx context.Context) (*domain.User, error) {
	return r.fetchUser(ctx, "/auth/me")
}

func (r *httpRepo) Profile(ctx context.Context) (*domain.User, error) {
	return r.fetchUser(ctx, "/profile")
}

func (r *httpRepo) UpdateProfile(ctx context.Context, upd domain.ProfileUpdate) (*domain.User, error) {
	body := struct {
		FullName string `json:"fullName"`
		Phone    string `json:"phone"`
		Address  string `json:"address"`
	}{upd.FullName, upd.Phone, upd.Address}

	var resp userResponse
	if err := r.client.Do(ctx, http.MethodPut, "/profile", body, &resp); err != nil {
		r.logger.Warn("user repo: update profile", zap.Error(err))
		return nil, err
	}
	return &resp.User, nil
}

func (r *httpRepo) ChangePassword(ctx context.Context, change domain.PasswordChange) error {
	body := struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
		ConfirmPassword string `json:"confirmPassword"`
	}{change.Current, change.New, change.Confirm}

	if err := r.client.Do(ctx, http.MethodPut, "/profile/password", body, nil); err != nil {
		r.logger.Info("user repo: change password rejected", zap.Error(err))
		return err
	}
	return nil
}

func (r *httpRepo) fetchUser(ctx context.Context, path string) (*domain.User, error) {
	var resp userResponse
	if err := r.client.Do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		r.logger.Debug("user repo: fetch", zap.String("path", path), zap.Error(err))
		return nil, err
	}
	return &resp.User, nil
}
