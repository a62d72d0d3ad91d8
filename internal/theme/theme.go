// Package theme defines growth-diorama themes: the day range, visual base
// style, and phase tables that map each simulated day to a scene description.
package theme

import (
	"fmt"
	"strings"

	"github.com/dioramalab/diorama/internal/refs"
)

// Phase covers a contiguous run of days with a description generator.
type Phase struct {
	Start    int
	End      int
	Describe func(day int) string
}

// Theme is a complete diorama storyline. A valid theme maps every day in
// 1..Days to a non-empty scene description.
type Theme struct {
	Name        string
	Summary     string
	Days        int
	BaseStyle   string
	Phases      []Phase
	Refs        refs.Policy
	RefHint     string // printed by the themes command

	// Milestones lists days generated in a first pass before the full
	// sweep, so later days have stable references to chain from.
	Milestones []int

	// CheckpointInterval > 0 enables the anchor ledger: every Nth day's
	// image is analyzed and the description threaded into later prompts.
	CheckpointInterval int

	// Improvements names the irreversible change a day introduces, keyed
	// by day. Once recorded, an improvement appears in every later prompt.
	Improvements map[int]string

	// RetryWithoutRefs drops reference images on the retry attempt, to
	// isolate a bad reference as the failure cause.
	RetryWithoutRefs bool
}

// Describe returns the scene description for a day. The second return is
// false for days outside 1..Days.
func (t *Theme) Describe(day int) (string, bool) {
	if day < 1 || day > t.Days {
		return "", false
	}
	for _, p := range t.Phases {
		if day >= p.Start && day <= p.End {
			return p.Describe(day), true
		}
	}
	return "", false
}

// Improvement returns the irreversible change introduced on a day, if any.
func (t *Theme) Improvement(day int) (string, bool) {
	s, ok := t.Improvements[day]
	return s, ok
}

// PromptContext carries ledger-derived additions into prompt assembly.
type PromptContext struct {
	AnchorDay    int
	AnchorText   string
	Improvements []string
}

// Prompt assembles the full generation prompt for a day: base style, anchor
// lock, cumulative improvements, then the day's scene description.
func (t *Theme) Prompt(day int, pc PromptContext) (string, bool) {
	desc, ok := t.Describe(day)
	if !ok {
		return "", false
	}

	var b strings.Builder
	b.WriteString(strings.TrimSpace(t.BaseStyle))
	b.WriteString("\n")

	if pc.AnchorText != "" {
		fmt.Fprintf(&b, `
MANDATORY SCENE LOCK - reproduce EXACTLY from Day %d:
- the same object positions and orientations
- the same platform appearance
- the same construction state

ANCHOR DESCRIPTION:
%s
`, pc.AnchorDay, strings.TrimSpace(pc.AnchorText))
	}

	if len(pc.Improvements) > 0 {
		b.WriteString("\nCUMULATIVE IMPROVEMENTS (all must be visible - cannot be undone):\n")
		for _, imp := range pc.Improvements {
			fmt.Fprintf(&b, "  - %s\n", imp)
		}
	}

	fmt.Fprintf(&b, "\nDAY %d OF %d - %s\n\n%s\n", day, t.Days, strings.ToUpper(t.Name), strings.TrimSpace(desc))
	return b.String(), true
}

// Validate checks that the phase table is an explicit, complete state
// machine: contiguous, non-overlapping coverage of 1..Days. A day missing
// from the table is a configuration error, not a silent empty prompt.
func (t *Theme) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("theme has no name")
	}
	if t.Days < 1 {
		return fmt.Errorf("theme %q: day count must be positive, got %d", t.Name, t.Days)
	}
	if len(t.Phases) == 0 {
		return fmt.Errorf("theme %q: no phases defined", t.Name)
	}

	next := 1
	for i, p := range t.Phases {
		if p.Describe == nil {
			return fmt.Errorf("theme %q: phase %d has no description generator", t.Name, i)
		}
		if p.Start != next {
			if p.Start > next {
				return fmt.Errorf("theme %q: days %d-%d are not covered by any phase", t.Name, next, p.Start-1)
			}
			return fmt.Errorf("theme %q: phase %d (days %d-%d) overlaps the previous phase", t.Name, i, p.Start, p.End)
		}
		if p.End < p.Start {
			return fmt.Errorf("theme %q: phase %d has end day %d before start day %d", t.Name, i, p.End, p.Start)
		}
		next = p.End + 1
	}
	if next != t.Days+1 {
		return fmt.Errorf("theme %q: days %d-%d are not covered by any phase", t.Name, next, t.Days)
	}

	prev := 0
	for _, m := range t.Milestones {
		if m < 1 || m > t.Days {
			return fmt.Errorf("theme %q: milestone day %d outside 1-%d", t.Name, m, t.Days)
		}
		if m <= prev {
			return fmt.Errorf("theme %q: milestone days must be ascending", t.Name)
		}
		prev = m
	}

	if t.CheckpointInterval < 0 {
		return fmt.Errorf("theme %q: negative checkpoint interval", t.Name)
	}
	for day := range t.Improvements {
		if day < 1 || day > t.Days {
			return fmt.Errorf("theme %q: improvement on day %d outside 1-%d", t.Name, day, t.Days)
		}
	}
	return nil
}

// static returns a Describe func that ignores the day.
func static(text string) func(int) string {
	return func(int) string { return text }
}
