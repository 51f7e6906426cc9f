// Package config loads runfiles and assembles the effective run plan.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Paintersrp/apphub/internal/spec"
)

// ErrInvalidSpec reports a run command failing the spec grammar.
var ErrInvalidSpec = errors.New("invalid run command")

// Runfile is the on-disk YAML form of a run plan.
type Runfile struct {
	Run             []string `yaml:"run"`
	RunOnce         []string `yaml:"run_once"`
	TerminateAndRun []string `yaml:"terminate_and_run"`
}

// ParseRunfile reads a runfile definition from YAML. Unknown keys are
// rejected; an empty document yields an empty runfile.
func ParseRunfile(r io.Reader) (*Runfile, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc Runfile
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &Runfile{}, nil
		}
		return nil, fmt.Errorf("decode runfile: %w", err)
	}
	return &doc, nil
}

// LoadRunfile parses the runfile at path.
func LoadRunfile(path string) (*Runfile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open runfile: %w", err)
	}
	defer f.Close()
	doc, err := ParseRunfile(f)
	if err != nil {
		return nil, fmt.Errorf("runfile %s: %w", path, err)
	}
	return doc, nil
}

// RunPlan holds the effective commands per start category, ordered and
// de-duplicated. Order affects start sequence and output only.
type RunPlan struct {
	Run             []string
	RunOnce         []string
	TerminateAndRun []string
}

// Append adds entries to each category, trimming surrounding whitespace and
// dropping exact duplicates while preserving insertion order. It returns the
// number of entries actually added.
func (p *RunPlan) Append(run, runOnce, terminateAndRun []string) int {
	added := 0
	add := func(dst *[]string, entries []string) {
		for _, entry := range entries {
			entry = strings.TrimSpace(entry)
			if entry == "" || slices.Contains(*dst, entry) {
				continue
			}
			*dst = append(*dst, entry)
			added++
		}
	}
	add(&p.Run, run)
	add(&p.RunOnce, runOnce)
	add(&p.TerminateAndRun, terminateAndRun)
	return added
}

// Specs returns every command in the plan, categories in declaration order.
func (p *RunPlan) Specs() []string {
	specs := make([]string, 0, p.Len())
	specs = append(specs, p.Run...)
	specs = append(specs, p.RunOnce...)
	specs = append(specs, p.TerminateAndRun...)
	return specs
}

// Len returns the total number of commands in the plan.
func (p *RunPlan) Len() int {
	return len(p.Run) + len(p.RunOnce) + len(p.TerminateAndRun)
}

// Validate checks every command against the spec grammar. Any malformed
// command fails the whole plan; nothing may start in that case.
func (p *RunPlan) Validate() error {
	for _, raw := range p.Specs() {
		if !spec.Valid(raw) {
			return fmt.Errorf("%w: %q", ErrInvalidSpec, raw)
		}
	}
	return nil
}
