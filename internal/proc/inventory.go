// Package proc attributes live OS processes to commandline specs. Every
// query re-enumerates the full process table rather than caching, so results
// stay correct against processes started or stopped outside this supervisor.
package proc

import (
	"slices"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/Paintersrp/apphub/internal/spec"
)

// Descriptor is a point-in-time view of one live OS process. Descriptors are
// re-derived on every scan and never retained across calls.
type Descriptor struct {
	Pid        int
	Executable string
	Args       []string
	Zombie     bool
}

// Inventory scans live OS processes and applies the matching heuristic to
// produce PID sets per spec.
type Inventory struct {
	// snapshot enumerates the current live process set. Swapped out in tests.
	snapshot func() ([]Descriptor, error)
}

// NewInventory returns an inventory backed by the host's process table.
func NewInventory() *Inventory {
	return &Inventory{snapshot: systemSnapshot}
}

// FindPids returns, in ascending order, the PIDs of all live processes that
// match any of the given specs. PID 1, zombies and the explicitly excluded
// PIDs (typically processes this supervisor spawned itself) are never
// reported. User prefixes on the specs are ignored for matching.
func (inv *Inventory) FindPids(specs []string, exclude []int) ([]int, error) {
	procs, err := inv.snapshot()
	if err != nil {
		return nil, err
	}

	seen := make(map[int]struct{})
	for _, raw := range specs {
		_, cmdline := spec.Split(raw)
		for _, p := range procs {
			if p.Pid == 1 || p.Zombie {
				continue
			}
			if Matches(cmdline, p.Executable, p.Args) {
				seen[p.Pid] = struct{}{}
			}
		}
	}
	for _, pid := range exclude {
		delete(seen, pid)
	}

	pids := make([]int, 0, len(seen))
	for pid := range seen {
		pids = append(pids, pid)
	}
	slices.Sort(pids)
	return pids, nil
}

// systemSnapshot reads the host process table. A process vanishing between
// enumeration and attribute read is skipped, never an error.
func systemSnapshot() ([]Descriptor, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, err
	}
	out := make([]Descriptor, 0, len(procs))
	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			continue
		}
		args, err := p.CmdlineSlice()
		if err != nil {
			continue
		}
		status, err := p.Status()
		if err != nil {
			continue
		}
		out = append(out, Descriptor{
			Pid:        int(p.Pid),
			Executable: name,
			Args:       args,
			Zombie:     slices.Contains(status, process.Zombie),
		})
	}
	return out, nil
}
