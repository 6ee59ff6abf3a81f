package middleware

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testOp() *Op {
	return &Op{Name: OpApprove, DocumentID: 7, Caller: "bob"}
}

func TestChainOrder(t *testing.T) {
	t.Parallel()

	var order []string
	mk := func(name string) Middleware {
		return func(ctx context.Context, _ *Op, next Handler) error {
			order = append(order, name+"-before")
			err := next(ctx)
			order = append(order, name+"-after")
			return err
		}
	}

	chain := Chain(mk("outer"), mk("inner"))
	err := chain(context.Background(), testOp(), func(_ context.Context) error {
		order = append(order, "handler")
		return nil
	})
	if err != nil {
		t.Fatalf("chain returned error: %v", err)
	}

	want := "outer-before,inner-before,handler,inner-after,outer-after"
	if got := strings.Join(order, ","); got != want {
		t.Errorf("execution order = %s, want %s", got, want)
	}
}

func TestChainEmpty(t *testing.T) {
	t.Parallel()

	called := false
	err := Chain()(context.Background(), testOp(), func(_ context.Context) error {
		called = true
		return nil
	})
	if err != nil {
		t.Fatalf("empty chain returned error: %v", err)
	}
	if !called {
		t.Error("handler not called through empty chain")
	}
}

func TestChainPropagatesError(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("handler failed")
	err := Chain(Logging(testLogger()))(context.Background(), testOp(), func(_ context.Context) error {
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Errorf("got error %v, want %v", err, sentinel)
	}
}

func TestRecoverConvertsPanic(t *testing.T) {
	t.Parallel()

	err := Recover(testLogger())(context.Background(), testOp(), func(_ context.Context) error {
		panic("boom")
	})
	if err == nil {
		t.Fatal("expected error from panicking handler")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("error %q does not mention the panic value", err)
	}
}

func TestTimeoutCancelsContext(t *testing.T) {
	t.Parallel()

	err := Timeout(10*time.Millisecond)(context.Background(), testOp(), func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
			return nil
		}
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("got error %v, want DeadlineExceeded", err)
	}
}

func TestTimeoutZeroIsPassThrough(t *testing.T) {
	t.Parallel()

	err := Timeout(0)(context.Background(), testOp(), func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); ok {
			t.Error("unexpected deadline on context")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRateLimit(t *testing.T) {
	t.Parallel()

	// 1 op/s with burst 2: first two pass, third is limited.
	mw := RateLimit(1, 2)
	ok := func(_ context.Context) error { return nil }

	for i := 0; i < 2; i++ {
		if err := mw(context.Background(), testOp(), ok); err != nil {
			t.Fatalf("call %d unexpectedly limited: %v", i, err)
		}
	}
	if err := mw(context.Background(), testOp(), ok); !errors.Is(err, ErrRateLimited) {
		t.Errorf("got error %v, want ErrRateLimited", err)
	}
}
