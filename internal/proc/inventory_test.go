package proc

import (
	"errors"
	"testing"
)

func fixedSnapshot(descriptors []Descriptor) func() ([]Descriptor, error) {
	return func() ([]Descriptor, error) {
		return descriptors, nil
	}
}

func TestFindPidsMatchesAndUnions(t *testing.T) {
	inv := NewInventory()
	inv.snapshot = fixedSnapshot([]Descriptor{
		{Pid: 10, Executable: "python3", Args: []string{"python3", "server.py"}},
		{Pid: 12, Executable: "sshd", Args: []string{"sshd", "-D"}},
		{Pid: 13, Executable: "nginx", Args: []string{"nginx"}},
		{Pid: 14, Executable: "python3", Args: []string{"python3", "worker.py"}},
	})

	pids, err := inv.FindPids([]string{
		"§USER=svc§python3 server.py", // user prefix is stripped before matching
		"python3 worker.py",
		"sshd -D",
	}, nil)
	if err != nil {
		t.Fatalf("find pids: %v", err)
	}
	want := []int{10, 12, 14}
	if len(pids) != len(want) {
		t.Fatalf("pids = %v, want %v", pids, want)
	}
	for i := range want {
		if pids[i] != want[i] {
			t.Fatalf("pids = %v, want %v", pids, want)
		}
	}
}

func TestFindPidsSkipsInitZombiesAndExcluded(t *testing.T) {
	inv := NewInventory()
	inv.snapshot = fixedSnapshot([]Descriptor{
		{Pid: 1, Executable: "python3", Args: []string{"python3", "server.py"}},
		{Pid: 10, Executable: "python3", Args: []string{"python3", "server.py"}, Zombie: true},
		{Pid: 11, Executable: "python3", Args: []string{"python3", "server.py"}},
		{Pid: 12, Executable: "python3", Args: []string{"python3", "server.py"}},
	})

	pids, err := inv.FindPids([]string{"python3 server.py"}, []int{12})
	if err != nil {
		t.Fatalf("find pids: %v", err)
	}
	if len(pids) != 1 || pids[0] != 11 {
		t.Fatalf("pids = %v, want [11]", pids)
	}
}

func TestFindPidsPropagatesScanError(t *testing.T) {
	scanErr := errors.New("proc table unavailable")
	inv := NewInventory()
	inv.snapshot = func() ([]Descriptor, error) { return nil, scanErr }

	if _, err := inv.FindPids([]string{"nginx"}, nil); !errors.Is(err, scanErr) {
		t.Fatalf("err = %v, want %v", err, scanErr)
	}
}

func TestSystemSnapshotEnumeratesLiveProcesses(t *testing.T) {
	descriptors, err := systemSnapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(descriptors) == 0 {
		t.Fatal("expected at least one live process")
	}
	for _, d := range descriptors {
		if d.Pid <= 0 {
			t.Fatalf("descriptor with invalid pid: %+v", d)
		}
	}
}
