package engine

import (
	"fmt"
	"syscall"
	"time"

	"github.com/Paintersrp/apphub/internal/metrics"
)

const defaultPollInterval = 200 * time.Millisecond

// Inventory matches live processes to commandline specs.
type Inventory interface {
	FindPids(specs []string, exclude []int) ([]int, error)
}

// Terminator drives the stop-then-kill escalation against externally matched
// processes and owned handles.
type Terminator struct {
	inventory Inventory
	events    Sink

	// Swapped out in tests.
	kill     func(pid int, sig syscall.Signal) error
	interval time.Duration
}

// NewTerminator returns a terminator scanning through inv and reporting
// progress to events.
func NewTerminator(inv Inventory, events Sink) *Terminator {
	return &Terminator{
		inventory: inv,
		events:    events,
		kill:      sendSignal,
		interval:  defaultPollInterval,
	}
}

// Outcome summarizes one termination pass.
type Outcome struct {
	Initial  int  // victims present when the pass began
	TimedOut bool // graceful window elapsed with survivors
	Killed   int  // victims that received SIGKILL
}

// Terminate stops every live process matching specs plus every live owned
// handle. With graceful > 0 a cooperative SIGTERM phase precedes escalation:
// remaining victims are re-counted every poll interval until none are left or
// the window elapses. Survivors then receive SIGKILL, fire-and-forget, since
// that signal cannot be caught or ignored. Victims that exit between
// selection and signaling are skipped silently.
func (t *Terminator) Terminate(specs []string, graceful time.Duration, handles []*Handle) Outcome {
	pids := t.findExternal(specs, handles)
	live := liveHandles(handles)

	out := Outcome{Initial: len(pids) + len(live)}
	if out.Initial == 0 {
		return out
	}
	emit(t.events, LevelInfo, fmt.Sprintf("terminating %d process(es)", out.Initial), "", 0)

	if graceful > 0 {
		emit(t.events, LevelInfo, "sending SIGTERM", "", 0)
		t.signalAll(pids, live, syscall.SIGTERM)
		started := time.Now()
		for len(pids)+len(live) > 0 && time.Since(started) < graceful {
			time.Sleep(t.interval)
			pids = t.findExternal(specs, handles)
			live = liveHandles(handles)
		}
		if n := len(pids) + len(live); n > 0 {
			out.TimedOut = true
			emit(t.events, LevelWarn, fmt.Sprintf("graceful window elapsed, %d process(es) still alive", n), "", 0)
		} else {
			emit(t.events, LevelInfo, fmt.Sprintf("all terminated after %.1fs", time.Since(started).Seconds()), "", 0)
		}
	}

	if n := len(pids) + len(live); n > 0 {
		emit(t.events, LevelInfo, "sending SIGKILL", "", 0)
		t.signalAll(pids, live, syscall.SIGKILL)
		out.Killed = n
	}
	return out
}

// findExternal returns the currently matching external PIDs. A failed scan
// never blocks termination; externals are simply invisible for that round.
func (t *Terminator) findExternal(specs []string, handles []*Handle) []int {
	pids, err := t.inventory.FindPids(specs, handlePids(handles))
	if err != nil {
		emit(t.events, LevelWarn, fmt.Sprintf("process scan failed: %v", err), "", 0)
		return nil
	}
	return pids
}

func (t *Terminator) signalAll(pids []int, handles []*Handle, sig syscall.Signal) {
	sent := 0
	for _, pid := range pids {
		if err := t.kill(pid, sig); err != nil {
			emit(t.events, LevelWarn, fmt.Sprintf("signal pid %d: %v", pid, err), "", pid)
			continue
		}
		sent++
	}
	for _, h := range handles {
		if h.Exited() {
			continue
		}
		if err := t.kill(h.Pid(), sig); err != nil {
			emit(t.events, LevelWarn, fmt.Sprintf("signal pid %d: %v", h.Pid(), err), h.Spec(), h.Pid())
			continue
		}
		sent++
	}
	metrics.AddTerminationSignals(SignalName(sig), sent)
}

func liveHandles(handles []*Handle) []*Handle {
	var live []*Handle
	for _, h := range handles {
		if !h.Exited() {
			live = append(live, h)
		}
	}
	return live
}

func handlePids(handles []*Handle) []int {
	pids := make([]int, 0, len(handles))
	for _, h := range handles {
		pids = append(pids, h.Pid())
	}
	return pids
}
