package lastfm

import (
	"context"
	"errors"
	"testing"
	"testing/synctest"
	"time"
)

func TestWaitForToken_ReceivesToken(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		as := &AuthServer{tokenChan: make(chan string, 1)}
		as.tokenChan <- "test-token-123"

		token, err := as.WaitForToken(context.Background(), 5*time.Minute)
		if err != nil {
			t.Fatalf("WaitForToken() error = %v", err)
		}
		if token != "test-token-123" {
			t.Errorf("token = %q, want %q", token, "test-token-123")
		}
	})
}

func TestWaitForToken_EmptyTokenIsFailure(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		as := &AuthServer{tokenChan: make(chan string, 1)}
		as.tokenChan <- ""

		_, err := as.WaitForToken(context.Background(), 5*time.Minute)
		if err == nil {
			t.Fatal("expected error for empty token")
		}
	})
}

func TestWaitForToken_Timeout(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		as := &AuthServer{tokenChan: make(chan string)}

		type result struct {
			token string
			err   error
		}
		done := make(chan result)
		go func() {
			token, err := as.WaitForToken(context.Background(), 5*time.Minute)
			done <- result{token, err}
		}()

		// Advance time past the timeout
		time.Sleep(5*time.Minute + time.Second)
		synctest.Wait()

		res := <-done
		if !errors.Is(res.err, ErrAuthTimeout) {
			t.Errorf("err = %v, want ErrAuthTimeout", res.err)
		}
	})
}

func TestWaitForToken_ContextCancelled(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		as := &AuthServer{tokenChan: make(chan string)}

		ctx, cancel := context.WithCancel(context.Background())

		type result struct {
			err error
		}
		done := make(chan result)
		go func() {
			_, err := as.WaitForToken(ctx, 5*time.Minute)
			done <- result{err}
		}()

		cancel()
		synctest.Wait()

		res := <-done
		if !errors.Is(res.err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", res.err)
		}
	})
}
