package httpretry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type emptyBody struct{}

func (emptyBody) Error() string   { return "empty body" }
func (emptyBody) Retryable() bool { return true }

func TestDoRetriesTransientStatus(t *testing.T) {
	var sleeps []time.Duration
	policy := Policy{MaxAttempts: 3, BaseDelay: time.Second, MaxDelay: 10 * time.Second, Sleeper: func(d time.Duration) { sleeps = append(sleeps, d) }}

	calls := 0
	err := policy.Do(context.Background(), "op", func(context.Context) error {
		calls++
		if calls < 3 {
			return &StatusError{StatusCode: http.StatusServiceUnavailable}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do returned error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
	if len(sleeps) != 2 || sleeps[0] != time.Second || sleeps[1] != 2*time.Second {
		t.Fatalf("unexpected backoff %v", sleeps)
	}
}

func TestDoStopsOnPermanentError(t *testing.T) {
	policy := Policy{MaxAttempts: 5, BaseDelay: time.Millisecond, Sleeper: func(time.Duration) {}}
	calls := 0
	err := policy.Do(context.Background(), "op", func(context.Context) error {
		calls++
		return &StatusError{StatusCode: http.StatusUnauthorized, Body: "bad key"}
	})
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected status error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected single call, got %d", calls)
	}
}

func TestDoExhaustsAttempts(t *testing.T) {
	policy := Policy{MaxAttempts: 2, BaseDelay: time.Millisecond, Sleeper: func(time.Duration) {}}
	err := policy.Do(context.Background(), "synthesize", func(context.Context) error { return emptyBody{} })
	if err == nil || !strings.Contains(err.Error(), "synthesize: failed after 2 attempts") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestDelayHonoursRetryAfterAndCap(t *testing.T) {
	policy := Policy{MaxAttempts: 5, BaseDelay: time.Second, MaxDelay: 5 * time.Second}
	delay, ok := policy.Delay(context.Background(), &StatusError{StatusCode: 429, RetryAfter: 30 * time.Second}, 1)
	if !ok || delay != 5*time.Second {
		t.Fatalf("expected capped retry-after, got %v %v", delay, ok)
	}
	if got := policy.Backoff(4); got != 5*time.Second {
		t.Fatalf("expected backoff cap, got %v", got)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, ok := policy.Delay(ctx, &StatusError{StatusCode: 500}, 1); ok {
		t.Fatal("cancelled context must not retry")
	}
}

func TestCheckResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "3")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(" slow down "))
	}))
	defer server.Close()

	resp, err := http.Get(server.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	err = CheckResponse("voice", resp)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected status error, got %v", err)
	}
	if statusErr.RetryAfter != 3*time.Second || statusErr.Body != "slow down" {
		t.Fatalf("unexpected status error %+v", statusErr)
	}
	if !strings.HasPrefix(err.Error(), "voice: http 429") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestParseRetryAfter(t *testing.T) {
	if d, ok := ParseRetryAfter("7"); !ok || d != 7*time.Second {
		t.Fatalf("unexpected %v %v", d, ok)
	}
	if _, ok := ParseRetryAfter("-1"); ok {
		t.Fatal("negative values are invalid")
	}
	if _, ok := ParseRetryAfter("soon"); ok {
		t.Fatal("garbage is invalid")
	}
}
