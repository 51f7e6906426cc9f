package proc

import "testing"

func TestMatchExecutable(t *testing.T) {
	cases := []struct {
		name     string
		cmdline  string
		procExe  string
		procArgs []string
		want     bool
	}{
		{"identical path", "/bin/python", "/bin/python", nil, true},
		{"path vs bare name", "/bin/python", "python", nil, true},
		{"path vs versioned name", "/bin/python", "python3", nil, true},
		{"version suffix on spec", "python3", "python", nil, true},
		{"version suffix on process", "python", "python3", nil, true},
		{"bare identical", "python", "python", nil, true},
		{"bare vs path", "python", "/bin/python", nil, true},
		{"directory mismatch", "/etc/bin/python", "/bin/python", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Matches(tc.cmdline, tc.procExe, tc.procArgs); got != tc.want {
				t.Fatalf("Matches(%q, %q, %q) = %v, want %v", tc.cmdline, tc.procExe, tc.procArgs, got, tc.want)
			}
		})
	}
}

func TestMatchExtraProcessArgs(t *testing.T) {
	if !Matches("python", "python", []string{"test.py"}) {
		t.Fatal("extra process args must not break a match")
	}
	if !Matches("python -c test.py", "python", []string{"-c", "test.py", "--some_arg"}) {
		t.Fatal("runtime-injected args must not break a match")
	}
}

func TestMatchRequiresEverySpecArg(t *testing.T) {
	if Matches("python test.py", "python", nil) {
		t.Fatal("spec arg absent from process args must not match")
	}
	if !Matches("python test.py", "python", []string{"test.py"}) {
		t.Fatal("contained spec arg must match")
	}
	if Matches("python test2.py", "python", []string{"test.py"}) {
		t.Fatal("differing arg must not match")
	}
}

func TestMatchNormalizesDoubledSeparators(t *testing.T) {
	if !Matches("python /root/test.py", "python", []string{"/root//test.py"}) {
		t.Fatal("doubled separator in process arg must normalize")
	}
	if !Matches("python /root//test.py", "python", []string{"/root//test.py"}) {
		t.Fatal("doubled separator on both sides must normalize")
	}
}

func TestMatchRejectsConcatenatedPath(t *testing.T) {
	// A directory literally named like the interpreter must not match it:
	// comparison is per path component, never raw substring prefixing.
	if Matches("python/src/test.py", "python", []string{"test.py"}) {
		t.Fatal("concatenated path must not match bare executable")
	}
}

func TestMatchRejectsUntokenizableCommandline(t *testing.T) {
	if Matches("sh -c 'unterminated", "sh", nil) {
		t.Fatal("untokenizable commandline must never match")
	}
}
