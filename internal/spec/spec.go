// Package spec implements the commandline spec grammar: an optional
// §USER=<ident>§ prefix scoping the command to a user account, followed by
// the commandline itself. The delimiter character may not appear anywhere in
// the commandline.
package spec

import "regexp"

// Delimiter encloses the user prefix, e.g. "§USER=svc§python3 worker.py".
const Delimiter = "§"

var (
	validPattern = regexp.MustCompile(`(?i)^(§USER=[a-zA-Z0-9_]+§)?[^§]+$`)
	splitPattern = regexp.MustCompile(`(?i)^§USER=([a-zA-Z0-9_]+)§([^§]+)$`)
)

// Valid reports whether raw conforms to the spec grammar. Commands failing
// the grammar must be rejected before any process is started.
func Valid(raw string) bool {
	return validPattern.MatchString(raw)
}

// Split separates the optional user prefix from the commandline, e.g.
// "§USER=svc§python3 worker.py" -> ("svc", "python3 worker.py"). It returns
// ("", raw) whenever no well-formed prefix is present; malformed prefixes are
// left for Valid to reject.
func Split(raw string) (user, cmdline string) {
	m := splitPattern.FindStringSubmatch(raw)
	if m == nil {
		return "", raw
	}
	return m[1], m[2]
}
