package spec

import (
	"fmt"

	"github.com/kballard/go-shellquote"
)

// Tokenize splits a commandline into executable and argument vector using
// shell-word rules. Quoting is respected; a single-token commandline yields
// an empty argument vector.
func Tokenize(cmdline string) (exe string, args []string, err error) {
	words, err := shellquote.Split(cmdline)
	if err != nil {
		return "", nil, fmt.Errorf("tokenize %q: %w", cmdline, err)
	}
	if len(words) == 0 {
		return "", nil, fmt.Errorf("tokenize %q: empty commandline", cmdline)
	}
	return words[0], words[1:], nil
}
