package services

import (
	"context"
	"testing"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	if _, ok := RequestIDFromContext(ctx); ok {
		t.Fatal("expected no request id on empty context")
	}
	ctx = WithRequestID(ctx, "abc")
	ctx = WithStep(ctx, "voice")
	if id, ok := RequestIDFromContext(ctx); !ok || id != "abc" {
		t.Fatalf("unexpected request id %q (ok=%v)", id, ok)
	}
	if step, ok := StepFromContext(ctx); !ok || step != "voice" {
		t.Fatalf("unexpected step %q (ok=%v)", step, ok)
	}
	if WithStep(ctx, "") != ctx {
		t.Fatal("expected empty step to return the same context")
	}
}
