package sender

import (
	"context"
	"errors"
	"fmt"
	"testing"

	tele "gopkg.in/telebot.v4"
)

func TestClassifyError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"timeout", context.DeadlineExceeded, "timeout"},
		{"wrapped timeout", fmt.Errorf("send: %w", context.DeadlineExceeded), "timeout"},
		{"server", &tele.Error{Code: 502}, "http_5xx"},
		{"client", &tele.Error{Code: 403}, "http_4xx"},
		{"other", errors.New("boom"), "unknown"},
	}
	for _, tc := range cases {
		if got := classifyError(tc.err); got != tc.want {
			t.Errorf("%s: classifyError = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestSanitizeErrorMessage(t *testing.T) {
	err := errors.New(`Post "https://api.telegram.org/bot12345:AAH-secret_token/sendMessage": EOF`)
	got := sanitizeErrorMessage(err)
	if want := `Post "https://api.telegram.org/bot<redacted>/sendMessage": EOF`; got != want {
		t.Errorf("sanitizeErrorMessage = %q, want %q", got, want)
	}
	if sanitizeErrorMessage(nil) != "" {
		t.Error("nil error must sanitize to empty string")
	}
}

func TestCloseConcurrentWithEnqueue(t *testing.T) {
	d := NewDispatcher(Options{Workers: 2, QueueSize: 4})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			err := d.Enqueue(context.Background(), "send.text", "sendMessage", func() error { return nil })
			if err != nil && !errors.Is(err, ErrQueueClosed) && !errors.Is(err, ErrQueueFull) {
				t.Errorf("Enqueue: %v", err)
				return
			}
		}
	}()
	d.Close()
	<-done

	err := d.Enqueue(context.Background(), "send.text", "sendMessage", func() error { return nil })
	if !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("Enqueue after Close = %v, want ErrQueueClosed", err)
	}
}

func TestEnqueueAfterClose(t *testing.T) {
	d := NewDispatcher(Options{Workers: 1, QueueSize: 1})
	d.Close()
	err := d.Enqueue(context.Background(), "send.text", "sendMessage", func() error { return nil })
	if !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("Enqueue after Close = %v, want ErrQueueClosed", err)
	}
}
