package ports

import (
	"context"

	"github.com/ragevaluator/account-service/internal/core/domain"
)

// Mailer delivers OTP codes to users. Delivery is best-effort: callers log
// failures and never propagate them into the triggering request.
type Mailer interface {
	SendOTP(ctx context.Context, to, code string, kind domain.ChallengeKind) error
}
