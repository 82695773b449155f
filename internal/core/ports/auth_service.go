package ports

import (
	"context"

	"github.com/opencity/tender-marketplace/internal/core/domain"
)

// RegisterInput carries the fields needed to create an account.
type RegisterInput struct {
	Username         string
	Password         string
	Role             string
	OrganizationName string
}

// TokenPair is an access token plus its single-use refresh companion.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, *TokenPair, error)
	Login(ctx context.Context, username, password string) (*domain.User, *TokenPair, error)
	// Refresh rotates a refresh token: the presented token is invalidated and
	// a fresh pair is issued. Reusing a consumed token fails.
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
}
