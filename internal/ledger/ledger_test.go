package ledger

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadMissingFile(t *testing.T) {
	l, err := Load(filepath.Join(t.TempDir(), "anchors.json"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(l.Anchors) != 0 || len(l.Improvements) != 0 {
		t.Error("missing file should yield an empty ledger")
	}
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anchors.json")

	l, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	l.RecordAnchor(3, "car faces bottom-left, toolbox in far corner")
	l.RecordAnchor(6, "engine on workbench, two chrome rims")
	l.AddImprovement("first rim polished")
	l.AddImprovement("engine assembled")
	if err := l.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if !reflect.DeepEqual(reloaded.Anchors, l.Anchors) {
		t.Errorf("anchors changed across round trip: %v vs %v", reloaded.Anchors, l.Anchors)
	}
	if !reflect.DeepEqual(reloaded.Improvements, l.Improvements) {
		t.Errorf("improvements changed across round trip: %v vs %v", reloaded.Improvements, l.Improvements)
	}
}

func TestAddImprovementDedupes(t *testing.T) {
	l := &Ledger{Anchors: map[string]string{}}

	if !l.AddImprovement("engine installed") {
		t.Error("first add should report a change")
	}
	if l.AddImprovement("engine installed") {
		t.Error("duplicate add should report no change")
	}
	if len(l.Improvements) != 1 {
		t.Errorf("expected 1 improvement, got %v", l.Improvements)
	}
}

func TestAnchorFor(t *testing.T) {
	l := &Ledger{Anchors: map[string]string{}}

	if _, _, ok := l.AnchorFor(10); ok {
		t.Error("empty ledger should have no anchor")
	}

	l.RecordAnchor(3, "day three")
	l.RecordAnchor(6, "day six")
	l.RecordAnchor(9, "day nine")

	day, text, ok := l.AnchorFor(8)
	if !ok || day != 6 || text != "day six" {
		t.Errorf("expected day 6 anchor, got day=%d text=%q ok=%v", day, text, ok)
	}

	// Anchors are strictly earlier than the requested day.
	day, _, ok = l.AnchorFor(9)
	if !ok || day != 6 {
		t.Errorf("day 9 should fall back to day 6, got %d", day)
	}

	// Days before the first checkpoint have no anchor.
	if _, _, ok := l.AnchorFor(3); ok {
		t.Error("day 3 should have no earlier anchor")
	}
}

// A gap in recorded checkpoints (a failed analysis call) falls back to the
// nearest earlier one that did record.
func TestAnchorForSkipsGaps(t *testing.T) {
	l := &Ledger{Anchors: map[string]string{}}
	l.RecordAnchor(3, "day three")
	// day 6 checkpoint failed and was never recorded
	l.RecordAnchor(9, "day nine")

	day, _, ok := l.AnchorFor(8)
	if !ok || day != 3 {
		t.Errorf("expected fallback to day 3, got day=%d ok=%v", day, ok)
	}
}

func TestSaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "anchors.json")

	l, _ := Load(path)
	l.RecordAnchor(1, "x")
	if err := l.Save(); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "anchors.json" {
		t.Errorf("expected only anchors.json, got %v", entries)
	}
}
