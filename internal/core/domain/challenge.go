package domain

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"
)

// ChallengeKind discriminates the two OTP flows sharing the ledger.
type ChallengeKind string

const (
	ChallengeRegistration ChallengeKind = "registration"
	ChallengeReset        ChallengeKind = "reset"
)

// ChallengeTTL is how long an issued OTP code stays consumable.
const ChallengeTTL = 10 * time.Minute

var ErrOTPNotFound = errors.New("no otp request found for this email")
var ErrOTPExpired = errors.New("otp has expired")
var ErrOTPMismatch = errors.New("invalid otp")

// PendingRegistration is the candidate account held in the ledger until the
// registration OTP is verified. Password is the raw password; it is hashed
// only after a successful verification.
type PendingRegistration struct {
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Role     string     `json:"role"`
	Status   UserStatus `json:"status"`
}

// GenerateOTPCode returns a 6-digit code drawn uniformly from [100000, 999999].
func GenerateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
