package engine

import (
	"os/exec"
	"syscall"
)

// Handle is a process this supervisor spawned itself and owns exclusively, as
// opposed to one rediscovered by scanning. A dedicated goroutine reaps the
// exit status into waitCh; the control thread observes it through Exited.
type Handle struct {
	spec    string
	cmd     *exec.Cmd
	waitCh  chan error
	done    bool
	waitErr error
}

func newHandle(raw string, cmd *exec.Cmd) *Handle {
	h := &Handle{spec: raw, cmd: cmd, waitCh: make(chan error, 1)}
	go func() {
		h.waitCh <- cmd.Wait()
	}()
	return h
}

// Spec returns the commandline spec the process was spawned from.
func (h *Handle) Spec() string { return h.spec }

// Pid returns the child's process ID.
func (h *Handle) Pid() int { return h.cmd.Process.Pid }

// Exited reports whether the child has exited, without blocking. Once the
// exit status has been observed it is retained and re-reported.
func (h *Handle) Exited() bool {
	if h.done {
		return true
	}
	select {
	case err := <-h.waitCh:
		h.done = true
		h.waitErr = err
		return true
	default:
		return false
	}
}

// ExitErr returns the recorded exit status once Exited has reported true.
func (h *Handle) ExitErr() error { return h.waitErr }

// Signal delivers sig to the child. Signaling an already-exited process is
// not an error; the send is simply skipped.
func (h *Handle) Signal(sig syscall.Signal) error {
	if h.Exited() {
		return nil
	}
	return sendSignal(h.Pid(), sig)
}
