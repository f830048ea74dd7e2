package ports

import (
	"context"

	"github.com/ragevaluator/account-service/internal/core/domain"
)

// RegistrationInput carries the candidate account submitted at the start of
// the OTP registration flow. Role and Status default to developer/active when
// empty.
type RegistrationInput struct {
	Name     string
	Email    string
	Password string
	Role     string
	Status   domain.UserStatus
}

// AuthService is the account and session workflow surface consumed by the
// HTTP handlers.
type AuthService interface {
	RequestRegistrationOTP(ctx context.Context, input RegistrationInput) error
	VerifyRegistrationOTP(ctx context.Context, email, code string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	RequestPasswordReset(ctx context.Context, email string) error
	VerifyResetOTP(ctx context.Context, email, code string) (string, error)
	ResetPassword(ctx context.Context, resetToken, newPassword string) error
	DeleteAccount(ctx context.Context, userID string) error
	DeleteUserByID(ctx context.Context, callerRole, targetID string) error
}
