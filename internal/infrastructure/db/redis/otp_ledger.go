package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ragevaluator/account-service/internal/core/domain"
)

const keyPrefix = "otp"

// expiryGrace keeps an entry in Redis slightly past its logical expiry so a
// late consumption attempt can be reported as expired rather than absent.
const expiryGrace = time.Minute

// OTPLedger stores OTP challenges in Redis. Expiry is enforced twice: the key
// TTL bounds storage, and the expires_at embedded in the value is what the
// consume script checks. Consumption is a single Lua EVAL, so the
// check-then-delete step is atomic per key.
type OTPLedger struct {
	client *redis.Client
	ttl    time.Duration
}

func NewOTPLedger(client *redis.Client, ttl time.Duration) *OTPLedger {
	if ttl <= 0 {
		ttl = domain.ChallengeTTL
	}
	return &OTPLedger{client: client, ttl: ttl}
}

type challengeEntry struct {
	Code      string          `json:"code"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	ExpiresAt int64           `json:"expires_at"`
}

// consumeScript loads, checks and deletes a challenge in one atomic step.
// Status codes: 0 not found, 1 expired (entry deleted), 2 mismatch (entry
// kept), 3 consumed (raw entry returned).
var consumeScript = redis.NewScript(`
local raw = redis.call('GET', KEYS[1])
if not raw then
	return {0}
end
local entry = cjson.decode(raw)
if tonumber(ARGV[2]) > tonumber(entry.expires_at) then
	redis.call('DEL', KEYS[1])
	return {1}
end
if entry.code ~= ARGV[1] then
	return {2}
end
redis.call('DEL', KEYS[1])
return {3, raw}
`)

func (l *OTPLedger) Issue(ctx context.Context, kind domain.ChallengeKind, email string, payload []byte) (string, error) {
	code, err := domain.GenerateOTPCode()
	if err != nil {
		return "", err
	}

	raw, err := json.Marshal(challengeEntry{
		Code:      code,
		Payload:   payload,
		ExpiresAt: time.Now().Add(l.ttl).Unix(),
	})
	if err != nil {
		return "", fmt.Errorf("encode challenge: %w", err)
	}

	// SET overwrites any unconsumed challenge for the same key: last write wins.
	if err := l.client.Set(ctx, l.key(kind, email), raw, l.ttl+expiryGrace).Err(); err != nil {
		return "", fmt.Errorf("store challenge: %w", err)
	}
	return code, nil
}

func (l *OTPLedger) Consume(ctx context.Context, kind domain.ChallengeKind, email, code string) ([]byte, error) {
	res, err := consumeScript.Run(ctx, l.client, []string{l.key(kind, email)}, code, time.Now().Unix()).Slice()
	if err != nil {
		return nil, fmt.Errorf("consume challenge: %w", err)
	}
	if len(res) == 0 {
		return nil, fmt.Errorf("consume challenge: empty script reply")
	}

	status, _ := res[0].(int64)
	switch status {
	case 0:
		return nil, domain.ErrOTPNotFound
	case 1:
		return nil, domain.ErrOTPExpired
	case 2:
		return nil, domain.ErrOTPMismatch
	}

	raw, _ := res[1].(string)
	var entry challengeEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return nil, fmt.Errorf("decode challenge: %w", err)
	}
	return entry.Payload, nil
}

func (l *OTPLedger) key(kind domain.ChallengeKind, email string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, kind, email)
}
