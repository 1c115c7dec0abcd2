// Package runctx builds the root context of a CLI run.
package runctx

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"time"
)

// stopper releases the signal watcher of a run context exactly once.
type stopper struct {
	cancel context.CancelFunc
	once   sync.Once
	done   chan struct{}
	ch     chan os.Signal
}

func (s *stopper) stop() {
	s.once.Do(func() {
		signal.Stop(s.ch)
		s.cancel()
		close(s.done)
	})
}

// WithSignal returns a context canceled when one of sigs arrives. The
// returned cancel function must be called to release the watcher.
func WithSignal(parent context.Context, sigs ...os.Signal) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	return watch(ctx, cancel, sigs)
}

// WithSignalTimeout is WithSignal with a deadline. A timeout <= 0 means no
// deadline.
func WithSignalTimeout(parent context.Context, timeout time.Duration, sigs ...os.Signal) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return WithSignal(parent, sigs...)
	}
	ctx, cancel := context.WithTimeout(parent, timeout)
	return watch(ctx, cancel, sigs)
}

func watch(ctx context.Context, cancel context.CancelFunc, sigs []os.Signal) (context.Context, context.CancelFunc) {
	s := &stopper{
		cancel: cancel,
		done:   make(chan struct{}),
		// buffered so a signal arriving before the goroutine runs is kept
		ch: make(chan os.Signal, 1),
	}
	signal.Notify(s.ch, sigs...)

	go func() {
		select {
		case <-s.ch:
			cancel()
		case <-s.done:
		case <-ctx.Done():
		}
	}()
	return ctx, s.stop
}
