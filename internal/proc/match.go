package proc

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/Paintersrp/apphub/internal/spec"
)

// Matches decides whether a live process was plausibly created from the given
// commandline. The heuristic tolerates benign variation between the declared
// command and what the kernel reports (symlinked install paths, interpreter
// version suffixes such as python vs python3, runtime-injected arguments) but
// biases toward false negatives: claiming an unrelated process would later get
// it killed, which is the worse failure.
//
// A match requires all of:
//   - when both executables carry a path, their resolved directories are equal
//   - one executable basename is a prefix of the other
//   - every spec argument occurs verbatim in the process argument vector
func Matches(cmdline, procExe string, procArgs []string) bool {
	specExe, specArgs, err := spec.Tokenize(cmdline)
	if err != nil {
		return false
	}
	specArgs = normalizeArgs(specArgs)
	procArgs = normalizeArgs(procArgs)

	if strings.Contains(specExe, "/") && strings.Contains(procExe, "/") {
		specDir, err1 := filepath.Abs(filepath.Dir(specExe))
		procDir, err2 := filepath.Abs(filepath.Dir(procExe))
		if err1 != nil || err2 != nil || specDir != procDir {
			return false
		}
	}

	specBase := filepath.Base(specExe)
	procBase := filepath.Base(procExe)
	if !strings.HasPrefix(specBase, procBase) && !strings.HasPrefix(procBase, specBase) {
		return false
	}

	for _, arg := range specArgs {
		if !slices.Contains(procArgs, arg) {
			return false
		}
	}
	return true
}

// normalizeArgs trims surrounding whitespace and collapses doubled path
// separators per token, so "/root//test.py" and "/root/test.py" compare equal.
func normalizeArgs(args []string) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		arg = strings.TrimSpace(arg)
		for strings.Contains(arg, "//") {
			arg = strings.ReplaceAll(arg, "//", "/")
		}
		out[i] = arg
	}
	return out
}
