package retry

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

func fastConfig() Config {
	return Config{
		MaxRetries:      2,
		BaseDelay:       time.Millisecond,
		MaxDelay:        5 * time.Millisecond,
		BackoffMultiple: 2.0,
	}
}

func TestExecute_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	body, err := Execute(context.Background(), Options{Config: fastConfig(), APIName: "test"}, func(attempt int) (int, []byte, error) {
		calls++
		return http.StatusOK, []byte("ok"), nil
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if string(body) != "ok" {
		t.Errorf("expected body 'ok', got %q", body)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestExecute_RetriesServerError(t *testing.T) {
	calls := 0
	body, err := Execute(context.Background(), Options{Config: fastConfig(), APIName: "test"}, func(attempt int) (int, []byte, error) {
		calls++
		if calls < 3 {
			return http.StatusInternalServerError, []byte("boom"), nil
		}
		return http.StatusOK, []byte("recovered"), nil
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if string(body) != "recovered" {
		t.Errorf("expected recovered body, got %q", body)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestExecute_PermanentErrorNotRetried(t *testing.T) {
	calls := 0
	_, err := Execute(context.Background(), Options{Config: fastConfig(), APIName: "test"}, func(attempt int) (int, []byte, error) {
		calls++
		return http.StatusUnauthorized, []byte("bad key"), nil
	})
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
	if calls != 1 {
		t.Errorf("expected 1 call for permanent error, got %d", calls)
	}
}

func TestExecute_ExhaustsRetries(t *testing.T) {
	netErr := errors.New("connection refused")
	calls := 0
	_, err := Execute(context.Background(), Options{Config: fastConfig(), APIName: "test"}, func(attempt int) (int, []byte, error) {
		calls++
		return 0, nil, netErr
	})
	if !errors.Is(err, netErr) {
		t.Fatalf("expected last network error, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls (1 + 2 retries), got %d", calls)
	}
}

func TestExecute_ContextCancelledDuringDelay(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := fastConfig()
	cfg.BaseDelay = time.Second

	calls := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	_, err := Execute(ctx, Options{Config: cfg, APIName: "test"}, func(attempt int) (int, []byte, error) {
		calls++
		return http.StatusInternalServerError, nil, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestHTTPErrorChecker(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		want   bool
	}{
		{"network error", errors.New("timeout"), 0, true},
		{"500", nil, 500, true},
		{"429", nil, 429, true},
		{"401", nil, 401, false},
		{"200", nil, 200, false},
	}
	for _, tc := range cases {
		if got := HTTPErrorChecker(tc.err, tc.status, nil); got != tc.want {
			t.Errorf("%s: HTTPErrorChecker = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestCalculateDelay_Capped(t *testing.T) {
	cfg := Config{BaseDelay: time.Second, MaxDelay: 3 * time.Second, BackoffMultiple: 2.0}
	if d := cfg.calculateDelay(5); d != 3*time.Second {
		t.Errorf("expected delay capped at 3s, got %v", d)
	}
}
