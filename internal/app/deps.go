package app

import (
	"github.com/vidvault/backend/internal/auth"
	"github.com/vidvault/backend/internal/config"
	"github.com/vidvault/backend/internal/db"
	"github.com/vidvault/backend/internal/handlers"
	"github.com/vidvault/backend/internal/repositories"
)

// buildDependencies wires together concrete implementations used by the HTTP handlers.
func buildDependencies(pool db.Pool, cfg config.Config) handlers.Dependencies {
	return handlers.Dependencies{
		Users:     repositories.NewPostgresUserRepository(pool),
		Videos:    repositories.NewPostgresVideoRepository(pool),
		Tokens:    auth.NewTokenManager([]byte(cfg.TokenSecret), cfg.TokenTTL),
		Passwords: auth.NewHasher(cfg.BcryptCost),
	}
}
