package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ragevaluator/account-service/internal/api/metrics"
	"github.com/ragevaluator/account-service/internal/core/domain"
	"github.com/ragevaluator/account-service/internal/core/ports"
)

// mailTimeout bounds a single best-effort OTP delivery attempt.
const mailTimeout = 10 * time.Second

// AuthService orchestrates the registration, login, password-reset and
// account-deletion workflows against the user store, the OTP ledger and the
// token service.
type AuthService struct {
	repo   ports.UserRepository
	ledger ports.OTPLedger
	tokens *TokenService
	mailer ports.Mailer
	logger zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, ledger ports.OTPLedger, tokens *TokenService, mailer ports.Mailer, logger zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, ledger: ledger, tokens: tokens, mailer: mailer, logger: logger}
}

// RequestRegistrationOTP stores the candidate account as a pending
// registration and sends a verification code to its email. A request for an
// email that already has a pending registration overwrites it.
func (s *AuthService) RequestRegistrationOTP(ctx context.Context, input ports.RegistrationInput) error {
	if _, err := s.repo.FindByEmail(ctx, input.Email); err == nil {
		return domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("check email availability: %w", err)
	}

	pending := domain.PendingRegistration{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
		Role:     input.Role,
		Status:   input.Status,
	}
	if pending.Role == "" {
		pending.Role = domain.RoleDeveloper
	}
	if pending.Status == "" {
		pending.Status = domain.StatusActive
	}
	if !domain.ValidRole(pending.Role) || !domain.ValidStatus(pending.Status) {
		return domain.ErrInvalidRegistration
	}

	payload, err := json.Marshal(pending)
	if err != nil {
		return fmt.Errorf("encode pending registration: %w", err)
	}

	code, err := s.ledger.Issue(ctx, domain.ChallengeRegistration, input.Email, payload)
	if err != nil {
		return fmt.Errorf("issue registration challenge: %w", err)
	}
	metrics.OTPIssuedTotal.WithLabelValues(string(domain.ChallengeRegistration)).Inc()

	s.deliverOTP(input.Email, code, domain.ChallengeRegistration)
	s.logger.Info().Str("email", input.Email).Msg("registration otp issued")
	return nil
}

// VerifyRegistrationOTP consumes the pending registration and creates the
// account. The challenge is gone once consumed: if the store write fails
// afterwards the caller has to restart registration.
func (s *AuthService) VerifyRegistrationOTP(ctx context.Context, email, code string) (*domain.User, error) {
	payload, err := s.consume(ctx, domain.ChallengeRegistration, email, code)
	if err != nil {
		return nil, err
	}

	var pending domain.PendingRegistration
	if err := json.Unmarshal(payload, &pending); err != nil {
		return nil, fmt.Errorf("decode pending registration: %w", err)
	}

	hash, err := HashPassword(pending.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Name:         pending.Name,
		Email:        pending.Email,
		PasswordHash: hash,
		Role:         pending.Role,
		Status:       pending.Status,
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("account creation failed after otp consumption")
		return nil, err
	}

	s.logger.Info().Str("email", email).Str("user_id", created.ID).Msg("account created")
	return created, nil
}

// Login verifies credentials and issues an access token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			return "", domain.ErrInvalidCredentials
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	if !CheckPassword(password, user.PasswordHash) {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.IssueAccess(user.ID, user.Role, domain.AccessTokenTTL)
	if err != nil {
		return "", fmt.Errorf("issue access token: %w", err)
	}

	if err := s.repo.UpdateLastLogin(ctx, user.ID, time.Now().UTC()); err != nil {
		// last_login is informational; a failed stamp must not fail the login
		s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("last_login update failed")
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.logger.Info().Str("user_id", user.ID).Msg("login succeeded")
	return token, nil
}

// RequestPasswordReset issues a reset challenge for an existing account and
// sends the code by email.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	if _, err := s.repo.FindByEmail(ctx, email); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	code, err := s.ledger.Issue(ctx, domain.ChallengeReset, email, nil)
	if err != nil {
		return fmt.Errorf("issue reset challenge: %w", err)
	}
	metrics.OTPIssuedTotal.WithLabelValues(string(domain.ChallengeReset)).Inc()

	s.deliverOTP(email, code, domain.ChallengeReset)
	s.logger.Info().Str("email", email).Msg("password reset otp issued")
	return nil
}

// VerifyResetOTP consumes the reset challenge and returns a short-lived reset
// token authorizing exactly one operation: ResetPassword for that email.
func (s *AuthService) VerifyResetOTP(ctx context.Context, email, code string) (string, error) {
	if _, err := s.consume(ctx, domain.ChallengeReset, email, code); err != nil {
		return "", err
	}

	token, err := s.tokens.IssueReset(email)
	if err != nil {
		return "", fmt.Errorf("issue reset token: %w", err)
	}
	return token, nil
}

// ResetPassword validates the reset token and replaces the account password.
func (s *AuthService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	email, err := s.tokens.VerifyReset(resetToken)
	if err != nil {
		return err
	}

	if _, err := s.repo.FindByEmail(ctx, email); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.repo.UpdatePassword(ctx, email, hash, time.Now().UTC()); err != nil {
		return err
	}

	s.logger.Info().Str("email", email).Msg("password reset")
	return nil
}

// DeleteAccount removes the caller's own account.
func (s *AuthService) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.repo.Delete(ctx, userID); err != nil {
		return err
	}
	metrics.AccountsDeletedTotal.WithLabelValues("self").Inc()
	s.logger.Info().Str("user_id", userID).Msg("account deleted")
	return nil
}

// DeleteUserByID removes an arbitrary account; only admins may call it.
func (s *AuthService) DeleteUserByID(ctx context.Context, callerRole, targetID string) error {
	if callerRole != domain.RoleAdmin {
		return domain.ErrForbidden
	}
	if err := s.repo.Delete(ctx, targetID); err != nil {
		return err
	}
	metrics.AccountsDeletedTotal.WithLabelValues("admin").Inc()
	s.logger.Info().Str("user_id", targetID).Msg("account deleted by admin")
	return nil
}

func (s *AuthService) consume(ctx context.Context, kind domain.ChallengeKind, email, code string) ([]byte, error) {
	payload, err := s.ledger.Consume(ctx, kind, email, code)
	if err != nil {
		metrics.OTPConsumedTotal.WithLabelValues(string(kind), "failure").Inc()
		return nil, err
	}
	metrics.OTPConsumedTotal.WithLabelValues(string(kind), "success").Inc()
	return payload, nil
}

// deliverOTP sends the code in a fire-and-forget goroutine with a bounded
// timeout. Exactly one attempt is made per challenge and failure never reaches
// the triggering request.
func (s *AuthService) deliverOTP(email, code string, kind domain.ChallengeKind) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), mailTimeout)
		defer cancel()

		if err := s.mailer.SendOTP(ctx, email, code, kind); err != nil {
			metrics.MailDeliveriesTotal.WithLabelValues("failure").Inc()
			s.logger.Error().Err(err).Str("email", email).Str("kind", string(kind)).Msg("otp delivery failed")
			return
		}
		metrics.MailDeliveriesTotal.WithLabelValues("success").Inc()
	}()
}
