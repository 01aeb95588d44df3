package gemini

import (
	"context"
	"testing"
	"time"
)

func TestGenerationContextAppliesConfiguredTimeout(t *testing.T) {
	ctx, cancel := generationContext(context.Background(), 5*time.Minute)
	defer cancel()

	deadline, ok := ctx.Deadline()
	if !ok {
		t.Fatal("expected a deadline on the generation context")
	}
	remaining := time.Until(deadline)
	if remaining <= 0 || remaining > 5*time.Minute {
		t.Errorf("deadline %v away, expected at most the configured 5m", remaining)
	}
}

func TestGenerationContextKeepsEarlierCallerDeadline(t *testing.T) {
	parent, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	ctx, cancel2 := generationContext(parent, 5*time.Minute)
	defer cancel2()

	deadline, ok := ctx.Deadline()
	if !ok {
		t.Fatal("expected a deadline on the generation context")
	}
	if time.Until(deadline) > time.Minute {
		t.Error("a tighter caller deadline must not be extended")
	}
}

func TestGenerationContextWithoutTimeout(t *testing.T) {
	ctx, cancel := generationContext(context.Background(), 0)
	defer cancel()

	if _, ok := ctx.Deadline(); ok {
		t.Error("no timeout configured, no deadline expected")
	}
}
