package scanner

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("fake"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestScan(t *testing.T) {
	dir := t.TempDir()

	for _, f := range []string{"day-003.png", "day-001.png", "day-002.png"} {
		touch(t, dir, f)
	}
	for _, f := range []string{"anchors.json", "day-004.jpg", "notes.txt", "day-5.png"} {
		touch(t, dir, f)
	}
	if err := os.Mkdir(filepath.Join(dir, "nobg"), 0755); err != nil {
		t.Fatal(err)
	}

	result, err := Scan(dir)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if !reflect.DeepEqual(result.Days, []int{1, 2, 3}) {
		t.Errorf("expected days [1 2 3], got %v", result.Days)
	}
	if result.SkippedCount != 4 {
		t.Errorf("expected 4 skipped entries, got %d", result.SkippedCount)
	}
	for i, day := range result.Days {
		if result.Paths[i] != DayPath(dir, day) {
			t.Errorf("path mismatch for day %d: %s", day, result.Paths[i])
		}
	}
}

func TestScanMissingDir(t *testing.T) {
	result, err := Scan(filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil {
		t.Fatalf("missing directory should not be an error: %v", err)
	}
	if len(result.Days) != 0 {
		t.Errorf("expected no days, got %v", result.Days)
	}
}

func TestDone(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "day-001.png")
	touch(t, dir, "day-007.png")

	result, err := Scan(dir)
	if err != nil {
		t.Fatal(err)
	}
	done := result.Done()
	if !done[1] || !done[7] || done[2] {
		t.Errorf("unexpected done set: %v", done)
	}
}

func TestDayPath(t *testing.T) {
	got := DayPath("/out", 7)
	want := filepath.Join("/out", "day-007.png")
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}
