package mqttclient

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeToken struct {
	completes bool
	err       error
	done      chan struct{}
}

func newFakeToken(completes bool, err error) *fakeToken {
	t := &fakeToken{completes: completes, err: err, done: make(chan struct{})}
	if completes {
		close(t.done)
	}
	return t
}

func (t *fakeToken) Wait() bool                     { return t.completes }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return t.completes }
func (t *fakeToken) Done() <-chan struct{}          { return t.done }
func (t *fakeToken) Error() error                   { return t.err }

func TestWaitTimeout(t *testing.T) {
	if err := waitTimeout(newFakeToken(true, nil), time.Second); err != nil {
		t.Fatalf("completed token: %v", err)
	}

	refused := errors.New("not authorized")
	if err := waitTimeout(newFakeToken(true, refused), time.Second); !errors.Is(err, refused) {
		t.Fatalf("expected broker error, got %v", err)
	}

	if err := waitTimeout(newFakeToken(false, nil), time.Millisecond); !errors.Is(err, ErrTimeout) {
		t.Fatalf("a token that never completes must report ErrTimeout, got %v", err)
	}
}

func TestWait_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := wait(ctx, newFakeToken(false, nil)); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
