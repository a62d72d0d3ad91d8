package theme

import (
	"strings"
	"testing"

	"github.com/dioramalab/diorama/internal/refs"
)

func TestBuiltinsValid(t *testing.T) {
	for _, th := range All() {
		if err := th.Validate(); err != nil {
			t.Errorf("theme %q invalid: %v", th.Name, err)
		}
	}
}

func TestBuiltinsDescribeEveryDay(t *testing.T) {
	for _, th := range All() {
		for day := 1; day <= th.Days; day++ {
			desc, ok := th.Describe(day)
			if !ok {
				t.Fatalf("theme %q: no description for day %d", th.Name, day)
			}
			if strings.TrimSpace(desc) == "" {
				t.Fatalf("theme %q: empty description for day %d", th.Name, day)
			}
		}
	}
}

func TestDescribeDeterministic(t *testing.T) {
	for _, th := range All() {
		for _, day := range []int{1, 2, 50, 100, 199, th.Days} {
			a, _ := th.Describe(day)
			b, _ := th.Describe(day)
			if a != b {
				t.Errorf("theme %q: day %d description not deterministic", th.Name, day)
			}
		}
	}
}

func TestDescribeOutOfRange(t *testing.T) {
	th := Garden()
	for _, day := range []int{0, -5, th.Days + 1} {
		if _, ok := th.Describe(day); ok {
			t.Errorf("day %d should be out of range", day)
		}
	}
}

func testTheme(phases []Phase, days int) *Theme {
	return &Theme{Name: "test", Days: days, BaseStyle: "style", Refs: refs.None{}, Phases: phases}
}

func TestValidateGap(t *testing.T) {
	th := testTheme([]Phase{
		{Start: 1, End: 3, Describe: static("a")},
		{Start: 5, End: 10, Describe: static("b")},
	}, 10)
	if err := th.Validate(); err == nil {
		t.Error("expected error for gap in phase coverage")
	}
}

func TestValidateOverlap(t *testing.T) {
	th := testTheme([]Phase{
		{Start: 1, End: 5, Describe: static("a")},
		{Start: 4, End: 10, Describe: static("b")},
	}, 10)
	if err := th.Validate(); err == nil {
		t.Error("expected error for overlapping phases")
	}
}

func TestValidateUncoveredTail(t *testing.T) {
	th := testTheme([]Phase{
		{Start: 1, End: 7, Describe: static("a")},
	}, 10)
	if err := th.Validate(); err == nil {
		t.Error("expected error for uncovered tail days")
	}
}

func TestValidateMilestones(t *testing.T) {
	th := testTheme([]Phase{{Start: 1, End: 10, Describe: static("a")}}, 10)
	th.Milestones = []int{1, 5, 11}
	if err := th.Validate(); err == nil {
		t.Error("expected error for milestone outside day range")
	}
	th.Milestones = []int{5, 5}
	if err := th.Validate(); err == nil {
		t.Error("expected error for non-ascending milestones")
	}
	th.Milestones = []int{1, 5, 10}
	if err := th.Validate(); err != nil {
		t.Errorf("valid milestones rejected: %v", err)
	}
}

func TestPromptIncludesLedgerContext(t *testing.T) {
	th := testTheme([]Phase{{Start: 1, End: 10, Describe: static("the scene")}}, 10)

	prompt, ok := th.Prompt(4, PromptContext{
		AnchorDay:    3,
		AnchorText:   "the car faces bottom-left",
		Improvements: []string{"engine installed", "wheels mounted"},
	})
	if !ok {
		t.Fatal("expected a prompt for day 4")
	}
	for _, want := range []string{"style", "Day 3", "the car faces bottom-left", "engine installed", "wheels mounted", "DAY 4 OF 10", "the scene"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestPromptWithoutLedgerContext(t *testing.T) {
	th := testTheme([]Phase{{Start: 1, End: 10, Describe: static("the scene")}}, 10)

	prompt, ok := th.Prompt(1, PromptContext{})
	if !ok {
		t.Fatal("expected a prompt for day 1")
	}
	if strings.Contains(prompt, "ANCHOR") || strings.Contains(prompt, "IMPROVEMENTS") {
		t.Errorf("empty context should not add ledger sections:\n%s", prompt)
	}
}

func TestImprovementLookup(t *testing.T) {
	th := Restoration()
	if imp, ok := th.Improvement(23); !ok || imp == "" {
		t.Error("day 23 should name an improvement")
	}
	if _, ok := th.Improvement(3); ok {
		t.Error("day 3 should not name an improvement")
	}
}

func TestBuiltinLookup(t *testing.T) {
	if _, err := Builtin("terrarium"); err != nil {
		t.Errorf("terrarium should exist: %v", err)
	}
	if _, err := Builtin("volcano"); err == nil {
		t.Error("expected error for unknown theme")
	}
	if len(Names()) != 4 {
		t.Errorf("expected 4 built-in themes, got %v", Names())
	}
}
