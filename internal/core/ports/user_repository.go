package ports

import (
	"context"
	"time"

	"github.com/ragevaluator/account-service/internal/core/domain"
)

// UserRepository defines the persistence contract for user accounts.
// Implementations return domain.ErrUserNotFound when no document matches and
// domain.ErrEmailTaken on unique-email violations.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdatePassword(ctx context.Context, email, passwordHash string, at time.Time) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
}
