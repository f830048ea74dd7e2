package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ragevaluator/account-service/internal/core/domain"
)

func TestOTPLedger_IssueAndConsume(t *testing.T) {
	l := NewOTPLedger(time.Minute)
	ctx := context.Background()

	code, err := l.Issue(ctx, domain.ChallengeRegistration, "a@x.com", []byte(`{"name":"a"}`))
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if len(code) != 6 {
		t.Fatalf("expected 6-digit code, got %q", code)
	}

	payload, err := l.Consume(ctx, domain.ChallengeRegistration, "a@x.com", code)
	if err != nil {
		t.Fatalf("Consume returned error: %v", err)
	}
	if string(payload) != `{"name":"a"}` {
		t.Fatalf("unexpected payload: %s", payload)
	}

	// exactly-once: the entry is gone after a success
	if _, err := l.Consume(ctx, domain.ChallengeRegistration, "a@x.com", code); !errors.Is(err, domain.ErrOTPNotFound) {
		t.Fatalf("expected ErrOTPNotFound on replay, got %v", err)
	}
}

func TestOTPLedger_MismatchKeepsEntry(t *testing.T) {
	l := NewOTPLedger(time.Minute)
	ctx := context.Background()

	code, err := l.Issue(ctx, domain.ChallengeReset, "a@x.com", nil)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := l.Consume(ctx, domain.ChallengeReset, "a@x.com", "000000"); !errors.Is(err, domain.ErrOTPMismatch) {
			t.Fatalf("attempt %d: expected ErrOTPMismatch, got %v", i, err)
		}
	}

	if _, err := l.Consume(ctx, domain.ChallengeReset, "a@x.com", code); err != nil {
		t.Fatalf("correct code rejected after mismatches: %v", err)
	}
}

func TestOTPLedger_UnknownKey(t *testing.T) {
	l := NewOTPLedger(time.Minute)
	if _, err := l.Consume(context.Background(), domain.ChallengeReset, "ghost@x.com", "123456"); !errors.Is(err, domain.ErrOTPNotFound) {
		t.Fatalf("expected ErrOTPNotFound, got %v", err)
	}
}

func TestOTPLedger_KindsAreIndependent(t *testing.T) {
	l := NewOTPLedger(time.Minute)
	ctx := context.Background()

	code, err := l.Issue(ctx, domain.ChallengeRegistration, "a@x.com", nil)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := l.Consume(ctx, domain.ChallengeReset, "a@x.com", code); !errors.Is(err, domain.ErrOTPNotFound) {
		t.Fatalf("registration challenge visible under reset kind: %v", err)
	}
}

func TestOTPLedger_Expiry(t *testing.T) {
	l := NewOTPLedger(10 * time.Minute)
	ctx := context.Background()

	issued := time.Now()
	l.now = func() time.Time { return issued }

	code, err := l.Issue(ctx, domain.ChallengeReset, "a@x.com", nil)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	l.now = func() time.Time { return issued.Add(11 * time.Minute) }

	// even the correct code fails once expired, and the stale entry is removed
	if _, err := l.Consume(ctx, domain.ChallengeReset, "a@x.com", code); !errors.Is(err, domain.ErrOTPExpired) {
		t.Fatalf("expected ErrOTPExpired, got %v", err)
	}
	if _, err := l.Consume(ctx, domain.ChallengeReset, "a@x.com", code); !errors.Is(err, domain.ErrOTPNotFound) {
		t.Fatalf("expected ErrOTPNotFound after stale delete, got %v", err)
	}
}

func TestOTPLedger_ReissueOverwrites(t *testing.T) {
	l := NewOTPLedger(time.Minute)
	ctx := context.Background()

	first, err := l.Issue(ctx, domain.ChallengeReset, "a@x.com", nil)
	if err != nil {
		t.Fatalf("first Issue returned error: %v", err)
	}
	second, err := l.Issue(ctx, domain.ChallengeReset, "a@x.com", nil)
	if err != nil {
		t.Fatalf("second Issue returned error: %v", err)
	}
	if first == second {
		// 1-in-900000 collision; reissue to keep the test meaningful
		second, _ = l.Issue(ctx, domain.ChallengeReset, "a@x.com", nil)
	}

	if _, err := l.Consume(ctx, domain.ChallengeReset, "a@x.com", first); !errors.Is(err, domain.ErrOTPMismatch) {
		t.Fatalf("expected ErrOTPMismatch for overwritten code, got %v", err)
	}
	if _, err := l.Consume(ctx, domain.ChallengeReset, "a@x.com", second); err != nil {
		t.Fatalf("latest code rejected: %v", err)
	}
}

func TestOTPLedger_ConcurrentConsumeIsExactlyOnce(t *testing.T) {
	l := NewOTPLedger(time.Minute)
	ctx := context.Background()

	code, err := l.Issue(ctx, domain.ChallengeReset, "a@x.com", nil)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	const racers = 16
	var wg sync.WaitGroup
	results := make(chan error, racers)

	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.Consume(ctx, domain.ChallengeReset, "a@x.com", code)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, notFound int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, domain.ErrOTPNotFound):
			notFound++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if successes != 1 {
		t.Fatalf("expected exactly one successful consume, got %d", successes)
	}
	if notFound != racers-1 {
		t.Fatalf("expected %d ErrOTPNotFound, got %d", racers-1, notFound)
	}
}
