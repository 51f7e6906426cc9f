package engine

import (
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
)

// Relay bridges asynchronous SIGINT/SIGTERM delivery into a cooperative flag
// polled by the control loop. The first signal sets the flag and restores the
// platform default dispositions, so a repeated signal performs the default,
// non-overridable action as an operator escape hatch. No process control
// happens on the relay goroutine; all of that stays on the control thread.
type Relay struct {
	triggered atomic.Bool
	received  atomic.Value // os.Signal
	done      chan struct{}
	sigCh     chan os.Signal
}

// NewRelay installs the handlers and starts relaying.
func NewRelay() *Relay {
	r := &Relay{
		done:  make(chan struct{}),
		sigCh: make(chan os.Signal, 1),
	}
	signal.Notify(r.sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-r.sigCh
		r.received.Store(sig)
		r.triggered.Store(true)
		signal.Reset(os.Interrupt, syscall.SIGTERM)
		close(r.done)
	}()
	return r
}

// Triggered reports whether a shutdown signal has been received.
func (r *Relay) Triggered() bool { return r.triggered.Load() }

// Done returns a channel closed on the first shutdown signal, allowing
// bounded waits to wake early instead of sleeping out their timeout.
func (r *Relay) Done() <-chan struct{} { return r.done }

// Signal returns the shutdown signal received, or nil before Triggered.
func (r *Relay) Signal() os.Signal {
	sig, _ := r.received.Load().(os.Signal)
	return sig
}
