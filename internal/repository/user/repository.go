package user

import (
	"context"

	"pos-terminal/internal/domain"
)

// Repository talks to the backend account endpoints. Credentials are checked
// by the backend; nothing here stores passwords.
type Repository interface {
	Login(ctx context.Context, email, password string) (*domain.AuthSession, error)
	Register(ctx context.Context, reg domain.Registration) (*domain.AuthSession, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*domain.User, error)
	Profile(ctx context.Context) (*domain.User, error)
	UpdateProfile(ctx context.Context, upd domain.ProfileUpdate) (*domain.User, error)
	ChangePassword(ctx context.Context, change domain.PasswordChange) error
}
