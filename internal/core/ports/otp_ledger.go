package ports

import (
	"context"

	"github.com/ragevaluator/account-service/internal/core/domain"
)

// OTPLedger is the transient store of outstanding OTP challenges.
//
// Issue generates a fresh 6-digit code and stores it with the optional payload
// under (kind, email), overwriting any unconsumed challenge for that key.
// Consume is exactly-once and atomic per key: on a correct code it deletes the
// entry and returns the stored payload; otherwise it fails with
// domain.ErrOTPNotFound, domain.ErrOTPExpired (deleting the stale entry) or
// domain.ErrOTPMismatch (leaving the entry untouched).
type OTPLedger interface {
	Issue(ctx context.Context, kind domain.ChallengeKind, email string, payload []byte) (string, error)
	Consume(ctx context.Context, kind domain.ChallengeKind, email, code string) ([]byte, error)
}
