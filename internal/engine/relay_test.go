package engine

import (
	"os"
	"syscall"
	"testing"
	"time"
)

func TestRelaySetsFlagOnFirstSignal(t *testing.T) {
	relay := NewRelay()
	if relay.Triggered() {
		t.Fatal("relay triggered before any signal")
	}
	select {
	case <-relay.Done():
		t.Fatal("done channel closed before any signal")
	default:
	}

	if err := syscall.Kill(os.Getpid(), syscall.SIGTERM); err != nil {
		t.Fatalf("send signal: %v", err)
	}

	select {
	case <-relay.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("relay did not observe the signal")
	}
	if !relay.Triggered() {
		t.Fatal("flag not set after signal")
	}
	if got := SignalName(relay.Signal()); got != "SIGTERM" {
		t.Fatalf("signal = %s, want SIGTERM", got)
	}
}

func TestSignalName(t *testing.T) {
	if got := SignalName(syscall.SIGINT); got != "SIGINT" {
		t.Fatalf("SIGINT rendered as %q", got)
	}
	if got := SignalName(syscall.SIGKILL); got != "SIGKILL" {
		t.Fatalf("SIGKILL rendered as %q", got)
	}
	if got := SignalName(nil); got != "signal" {
		t.Fatalf("nil rendered as %q", got)
	}
}
