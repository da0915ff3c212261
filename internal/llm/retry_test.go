package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

func retryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 1 * time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2.0,
	}
}

func down() MockResponse {
	return MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}}
}

func TestRetry(t *testing.T) {
	tests := []struct {
		name      string
		responses []MockResponse
		wantErr   bool
		wantCalls int
	}{
		{"first attempt succeeds", []MockResponse{MockText(`{"ok":true}`)}, false, 1},
		{"transient then success", []MockResponse{down(), MockText(`{"ok":true}`)}, false, 2},
		{"all attempts fail", []MockResponse{down(), down(), down()}, true, 3},
		{"max tokens not retried", []MockResponse{{Err: &ErrMaxTokensExceeded{}}}, true, 1},
		{
			"invalid response retried once",
			[]MockResponse{
				{Err: &ErrInvalidResponse{Err: errors.New("bad")}},
				{Err: &ErrInvalidResponse{Err: errors.New("bad")}},
				MockText(`{"ok":true}`),
			},
			true, 2,
		},
		{
			"rate limit honours retry-after",
			[]MockResponse{{Err: &ErrRateLimit{RetryAfter: time.Millisecond, Err: errors.New("429")}}, MockText(`{}`)},
			false, 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.responses...)
			p := WithRetry(mock, retryConfig())

			_, err := p.Generate(context.Background(), Request{})
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if mock.CallCount() != tt.wantCalls {
				t.Fatalf("expected %d calls, got %d", tt.wantCalls, mock.CallCount())
			}
		})
	}
}

func TestRetry_ContextCancellation(t *testing.T) {
	mock := NewMockProvider(down(), down(), MockText(`{"ok":true}`))
	p := WithRetry(mock, RetryConfig{MaxAttempts: 3, InitialWait: time.Second, MaxWait: time.Second, Multiplier: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Generate(ctx, Request{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRetry_ZeroAttemptsStillCallsOnce(t *testing.T) {
	mock := NewMockProvider(MockText(`{}`))
	p := WithRetry(mock, RetryConfig{})

	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
}

func TestRetry_ModelIDDelegates(t *testing.T) {
	p := WithRetry(NewMockProvider(), retryConfig())
	if p.ModelID() != "mock" {
		t.Fatalf("expected 'mock', got %q", p.ModelID())
	}
}

type blockingProvider struct{}

func (blockingProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (blockingProvider) ModelID() string { return "blocking" }

func TestTimeout_CancelsSlowProvider(t *testing.T) {
	p := WithTimeout(blockingProvider{}, 5*time.Millisecond)

	_, err := p.Generate(context.Background(), Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if p.ModelID() != "blocking" {
		t.Fatalf("unexpected model id %q", p.ModelID())
	}
}

func TestTimeout_ZeroIsPassThrough(t *testing.T) {
	mock := NewMockProvider()
	if WithTimeout(mock, 0) != Provider(mock) {
		t.Fatal("expected the provider unchanged")
	}
}
