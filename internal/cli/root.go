// Package cli wires the supervisor's single command surface.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Paintersrp/apphub/internal/cliutil"
	"github.com/Paintersrp/apphub/internal/config"
	"github.com/Paintersrp/apphub/internal/engine"
	"github.com/Paintersrp/apphub/internal/proc"
)

// reapInterval bounds the block loop's wait so exited children are reaped
// periodically even when no shutdown signal arrives.
const reapInterval = time.Second

func NewRootCmd() *cobra.Command {
	var (
		run             []string
		runOnce         []string
		terminateAndRun []string
		runfilePath     string
		block           bool
		logFormat       string
	)

	root := &cobra.Command{
		Use:   "apphub",
		Short: "Single-host process supervisor",
		Long: "Runs multiple processes and forwards SIGTERM/SIGINT to them. " +
			"Commands may be long-running applications as well as shell pipelines.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if runtime.GOOS == "windows" {
				return errors.New("apphub requires a unix host")
			}
			sink, err := newSink(cmd, logFormat)
			if err != nil {
				return err
			}

			plan := &config.RunPlan{}
			plan.Append(run, runOnce, terminateAndRun)
			if runfilePath != "" {
				doc, err := config.LoadRunfile(runfilePath)
				if err != nil {
					return err
				}
				n := plan.Append(doc.Run, doc.RunOnce, doc.TerminateAndRun)
				info(sink, fmt.Sprintf("read %d entries from runfile %s", n, runfilePath))
			}
			if plan.Len() == 0 {
				info(sink, "no run commands given, exiting")
				return nil
			}
			if err := plan.Validate(); err != nil {
				return err
			}
			reportPlan(sink, plan)

			orch := engine.New(proc.NewInventory(), sink)
			if _, err := orch.Start(plan); err != nil {
				return err
			}
			if !block {
				return nil
			}

			relay := engine.NewRelay()
			info(sink, "blocking until SIGINT/SIGTERM is received")
			ticker := time.NewTicker(reapInterval)
			defer ticker.Stop()
			for !relay.Triggered() {
				select {
				case <-relay.Done():
				case <-ticker.C:
				}
				if exited, remaining := orch.Reap(); exited > 0 {
					info(sink, fmt.Sprintf("%d process(es) exited, %d still running", exited, remaining))
				}
			}
			info(sink, fmt.Sprintf("received %s, terminating processes", engine.SignalName(relay.Signal())))
			orch.Shutdown(plan.Specs(), engine.GracefulTimeout)
			return nil
		},
	}

	root.Flags().StringArrayVarP(&run, "run", "r", nil, "Run a command, regardless of whether it already runs (repeatable)")
	root.Flags().StringArrayVar(&runOnce, "run-once", nil, "Run a command only if no matching process is alive (repeatable)")
	root.Flags().StringArrayVar(&terminateAndRun, "terminate-and-run", nil, "Terminate all matching processes before running the command (repeatable)")
	root.Flags().StringVarP(&runfilePath, "file", "f", "", "Runfile (YAML) providing run/run_once/terminate_and_run lists")
	root.Flags().BoolVar(&block, "block", false, "Block after starting and forward SIGTERM/SIGINT to started processes")
	root.Flags().StringVar(&logFormat, "log-format", "auto", "Log output format: auto, plain or json")

	root.SilenceUsage = true
	root.SilenceErrors = true

	return root
}

// Execute runs the CLI entrypoint.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newSink builds the event renderer. Format auto resolves to plain on a
// terminal and JSON everywhere else.
func newSink(cmd *cobra.Command, format string) (engine.Sink, error) {
	out := cmd.OutOrStdout()
	if format == "auto" {
		format = "json"
		if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			format = "plain"
		}
	}
	switch format {
	case "plain":
		return func(event engine.Event) {
			cliutil.RenderLogEvent(out, event)
		}, nil
	case "json":
		enc := json.NewEncoder(out)
		stderr := cmd.ErrOrStderr()
		return func(event engine.Event) {
			cliutil.EncodeLogEvent(enc, stderr, event)
		}, nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

func info(sink engine.Sink, message string) {
	sink(engine.Event{Timestamp: time.Now(), Level: engine.LevelInfo, Message: message})
}

func reportPlan(sink engine.Sink, plan *config.RunPlan) {
	for _, category := range []struct {
		name    string
		entries []string
	}{
		{"run", plan.Run},
		{"run_once", plan.RunOnce},
		{"terminate_and_run", plan.TerminateAndRun},
	} {
		if len(category.entries) == 0 {
			continue
		}
		info(sink, fmt.Sprintf("%s = %v", category.name, category.entries))
	}
}
