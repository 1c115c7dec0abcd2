package runctx

import (
	"context"
	"errors"
	"os"
	"syscall"
	"testing"
	"time"
)

func TestWithSignalCancelOnSignal(t *testing.T) {
	ctx, cancel := WithSignal(context.Background(), syscall.SIGUSR1)
	defer cancel()

	if err := syscall.Kill(os.Getpid(), syscall.SIGUSR1); err != nil {
		t.Fatalf("kill: %v", err)
	}
	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("context not canceled by signal")
	}
}

func TestWithSignalCancelFunc(t *testing.T) {
	ctx, cancel := WithSignal(context.Background(), syscall.SIGUSR2)
	cancel()
	cancel()
	if !errors.Is(ctx.Err(), context.Canceled) {
		t.Errorf("ctx.Err() = %v", ctx.Err())
	}
}

func TestWithSignalTimeout(t *testing.T) {
	ctx, cancel := WithSignalTimeout(context.Background(), 20*time.Millisecond, syscall.SIGUSR2)
	defer cancel()
	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("deadline not applied")
	}
	if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
		t.Errorf("ctx.Err() = %v", ctx.Err())
	}

	noDeadline, cancel2 := WithSignalTimeout(context.Background(), 0, syscall.SIGUSR2)
	defer cancel2()
	if _, ok := noDeadline.Deadline(); ok {
		t.Error("timeout 0 should not set a deadline")
	}
}
