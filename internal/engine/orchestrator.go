// Package engine contains the supervisor's decision logic: the lifecycle
// orchestrator applying the three-category start policy, the termination
// state machine escalating from SIGTERM to SIGKILL, and the signal relay
// bridging host shutdown signals into the control loop.
//
// All orchestration runs on a single control thread; children execute
// independently at the OS level. The only state crossing a goroutine boundary
// is the relay's shutdown flag and each handle's buffered wait channel.
package engine

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/user"
	"strings"
	"time"

	"github.com/Paintersrp/apphub/internal/config"
	"github.com/Paintersrp/apphub/internal/metrics"
	"github.com/Paintersrp/apphub/internal/spec"
)

// GracefulTimeout is the cooperative window granted before escalating to
// SIGKILL, both for the terminate-and-run sweep at startup and for shutdown.
const GracefulTimeout = 9 * time.Second

// ErrNotPermitted marks a spawn request for another user account by a
// non-root caller. It is fatal to the whole startup sequence.
var ErrNotPermitted = errors.New("not permitted to run as requested user")

// Orchestrator applies the three-category start policy and exclusively owns
// the list of processes it spawned.
type Orchestrator struct {
	inventory Inventory
	term      *Terminator
	events    Sink

	// username is the account this supervisor runs as. It gates spawning
	// commands scoped to other users.
	username string

	// graceful is the cooperative window for the startup sweep. Shortened in
	// tests.
	graceful time.Duration

	handles []*Handle
}

// New constructs an orchestrator scanning through inv and reporting progress
// to events.
func New(inv Inventory, events Sink) *Orchestrator {
	return &Orchestrator{
		inventory: inv,
		term:      NewTerminator(inv, events),
		events:    events,
		username:  currentUsername(),
		graceful:  GracefulTimeout,
	}
}

// Start applies the run plan. Terminate-and-run entries are swept first
// (stop-then-kill over the whole category), then every category is started in
// insertion order: run entries unconditionally, run-once entries only when no
// live match exists, terminate-and-run entries unconditionally after the
// sweep. Spawn failures and authorization failures abort the sequence; the
// handles spawned so far remain tracked.
func (o *Orchestrator) Start(plan *config.RunPlan) ([]*Handle, error) {
	o.term.Terminate(plan.TerminateAndRun, o.graceful, nil)

	emit(o.events, LevelInfo, fmt.Sprintf("starting %d process(es)", plan.Len()), "", 0)

	for _, raw := range plan.Run {
		if err := o.spawn(raw); err != nil {
			return o.handles, err
		}
	}
	for _, raw := range plan.RunOnce {
		pids, err := o.inventory.FindPids([]string{raw}, nil)
		if err != nil {
			return o.handles, fmt.Errorf("scan processes for %q: %w", raw, err)
		}
		if len(pids) > 0 {
			emit(o.events, LevelInfo, "already running", raw, pids[0])
			continue
		}
		if err := o.spawn(raw); err != nil {
			return o.handles, err
		}
	}
	for _, raw := range plan.TerminateAndRun {
		if err := o.spawn(raw); err != nil {
			return o.handles, err
		}
	}
	return o.handles, nil
}

// spawn starts one commandline spec and appends the resulting handle. A user
// prefix requires the caller to be root or that very user. Commandlines
// containing a pipe run through the shell; everything else execs the
// tokenized argv directly. Children are placed in a new session.
func (o *Orchestrator) spawn(raw string) error {
	username, cmdline := spec.Split(raw)
	if username != "" && o.username != "root" && o.username != username {
		return fmt.Errorf("run %q as user %s: %w", cmdline, username, ErrNotPermitted)
	}

	var cmd *exec.Cmd
	if strings.Contains(cmdline, "|") {
		cmd = exec.Command("/bin/sh", "-c", cmdline)
	} else {
		exe, args, err := spec.Tokenize(cmdline)
		if err != nil {
			return err
		}
		cmd = exec.Command(exe, args...)
	}
	// Children write to the supervisor's console; log capture is out of scope.
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	configureSession(cmd)
	if username != "" && username != o.username {
		if err := configureUser(cmd, username); err != nil {
			return err
		}
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %q: %w", cmdline, err)
	}
	metrics.IncSpawned()

	h := newHandle(raw, cmd)
	o.handles = append(o.handles, h)
	emit(o.events, LevelInfo, "started", raw, h.Pid())
	return nil
}

// Shutdown terminates every process matching the given specs together with
// all tracked handles, then drops the handles whose exit was observed.
func (o *Orchestrator) Shutdown(specs []string, graceful time.Duration) Outcome {
	out := o.term.Terminate(specs, graceful, o.handles)
	o.Reap()
	return out
}

// Reap drops handles whose processes have exited, returning how many exits
// were observed and how many handles remain. Called periodically by the
// control loop so finished children do not accumulate unreaped.
func (o *Orchestrator) Reap() (exited, remaining int) {
	live := o.handles[:0]
	for _, h := range o.handles {
		if h.Exited() {
			exited++
			continue
		}
		live = append(live, h)
	}
	o.handles = live
	if exited > 0 {
		metrics.AddReaped(exited)
	}
	return exited, len(o.handles)
}

// Handles returns the currently tracked handles.
func (o *Orchestrator) Handles() []*Handle { return o.handles }

func currentUsername() string {
	u, err := user.Current()
	if err != nil {
		return ""
	}
	return u.Username
}
