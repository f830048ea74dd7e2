// Package memory provides an in-process OTP ledger for deployments without
// Redis and for tests.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ragevaluator/account-service/internal/core/domain"
)

type entry struct {
	code      string
	payload   []byte
	expiresAt time.Time
}

// OTPLedger keeps challenges in a mutex-guarded map. Each Consume holds the
// lock across the full check-expiry-check-code-delete sequence, so two
// concurrent consumptions of the same valid code cannot both succeed.
type OTPLedger struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

func NewOTPLedger(ttl time.Duration) *OTPLedger {
	if ttl <= 0 {
		ttl = domain.ChallengeTTL
	}
	return &OTPLedger{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (l *OTPLedger) Issue(_ context.Context, kind domain.ChallengeKind, email string, payload []byte) (string, error) {
	code, err := domain.GenerateOTPCode()
	if err != nil {
		return "", err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// overwrites any unconsumed challenge for the same key: last write wins
	l.entries[key(kind, email)] = entry{
		code:      code,
		payload:   payload,
		expiresAt: l.now().Add(l.ttl),
	}
	return code, nil
}

func (l *OTPLedger) Consume(_ context.Context, kind domain.ChallengeKind, email, code string) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	k := key(kind, email)
	e, ok := l.entries[k]
	if !ok {
		return nil, domain.ErrOTPNotFound
	}
	if l.now().After(e.expiresAt) {
		delete(l.entries, k)
		return nil, domain.ErrOTPExpired
	}
	if e.code != code {
		return nil, domain.ErrOTPMismatch
	}

	delete(l.entries, k)
	return e.payload, nil
}

func key(kind domain.ChallengeKind, email string) string {
	return fmt.Sprintf("%s:%s", kind, email)
}
