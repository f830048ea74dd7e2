package domain

import (
	"errors"
	"time"
)

// AccessTokenTTL is the default lifetime of a login-issued access token.
const AccessTokenTTL = time.Hour

// ResetTokenTTL bounds how long a verified password reset stays authorized.
const ResetTokenTTL = 10 * time.Minute

var ErrInvalidToken = errors.New("invalid token")
var ErrMissingSubject = errors.New("invalid token payload")
var ErrInvalidResetToken = errors.New("invalid or expired reset token")

// AccessClaims is the decoded identity carried by a verified access token.
type AccessClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}
