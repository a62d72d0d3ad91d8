package theme

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dioramalab/diorama/internal/refs"
)

// fileTheme is the YAML form of a custom theme.
type fileTheme struct {
	Name               string         `yaml:"name"`
	Summary            string         `yaml:"summary"`
	Days               int            `yaml:"days"`
	BaseStyle          string         `yaml:"base_style"`
	References         string         `yaml:"references"` // none, previous, milestone, dual
	Milestones         []int          `yaml:"milestones"`
	CheckpointInterval int            `yaml:"checkpoint_interval"`
	ResetInterval      int            `yaml:"reset_interval"`
	ResetUntil         int            `yaml:"reset_until"`
	RetryWithoutRefs   bool           `yaml:"retry_without_refs"`
	Improvements       map[int]string `yaml:"improvements"`
	Phases             []filePhase    `yaml:"phases"`
}

type filePhase struct {
	Start int    `yaml:"start"`
	End   int    `yaml:"end"`
	Text  string `yaml:"text"`
}

// LoadFile reads a custom theme definition from a YAML file. Phase text may
// contain {day} (absolute day) and {phase_day} (day within the phase,
// 1-based) placeholders. The result is validated like a built-in theme.
func LoadFile(path string) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read theme file: %w", err)
	}

	var ft fileTheme
	if err := yaml.Unmarshal(data, &ft); err != nil {
		return nil, fmt.Errorf("cannot parse theme file %s: %w", path, err)
	}

	t := &Theme{
		Name:               ft.Name,
		Summary:            ft.Summary,
		Days:               ft.Days,
		BaseStyle:          ft.BaseStyle,
		Milestones:         ft.Milestones,
		CheckpointInterval: ft.CheckpointInterval,
		Improvements:       ft.Improvements,
		RetryWithoutRefs:   ft.RetryWithoutRefs,
	}

	switch ft.References {
	case "", "none":
		t.Refs = refs.None{}
		t.RefHint = "none (each day independent)"
	case "previous":
		t.Refs = refs.Previous{}
		t.RefHint = "previous day"
	case "milestone":
		if len(ft.Milestones) == 0 {
			return nil, fmt.Errorf("theme file %s: references: milestone requires a milestones list", path)
		}
		t.Refs = refs.Milestone{Days: ft.Milestones}
		t.RefHint = fmt.Sprintf("nearest lower milestone of %v", ft.Milestones)
	case "dual":
		t.Refs = refs.Dual{Anchor: 1, ResetInterval: ft.ResetInterval, ResetUntil: ft.ResetUntil}
		t.RefHint = "day 1 + previous day"
	default:
		return nil, fmt.Errorf("theme file %s: unknown reference policy %q", path, ft.References)
	}

	for _, fp := range ft.Phases {
		fp := fp
		t.Phases = append(t.Phases, Phase{
			Start: fp.Start,
			End:   fp.End,
			Describe: func(day int) string {
				return expandPlaceholders(fp.Text, day, day-fp.Start+1)
			},
		})
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func expandPlaceholders(text string, day, phaseDay int) string {
	r := strings.NewReplacer(
		"{day}", strconv.Itoa(day),
		"{phase_day}", strconv.Itoa(phaseDay),
	)
	return r.Replace(text)
}
