package handlers

import (
	"context"

	"github.com/vidvault/backend/internal/auth"
	"github.com/vidvault/backend/internal/models"
	"github.com/vidvault/backend/internal/repositories"
)

// UserStore captures the persistence operations required by the auth handlers.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByUsername(ctx context.Context, username string) (models.User, error)
}

// TokenManager issues and verifies stateless bearer tokens.
type TokenManager interface {
	Issue(userID string) (string, error)
	Verify(token string) (auth.Identity, error)
}

// PasswordHasher derives and checks salted password hashes.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// VideoStore captures persistence for the per-user video catalog.
type VideoStore interface {
	Create(ctx context.Context, video models.Video) error
	ListByOwner(ctx context.Context, ownerID string, filter repositories.VideoFilter, offset, limit int) (repositories.VideoPage, error)
}
