package driver

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/dioramalab/diorama/internal/gen"
	"github.com/dioramalab/diorama/internal/ledger"
	"github.com/dioramalab/diorama/internal/refs"
	"github.com/dioramalab/diorama/internal/scanner"
	"github.com/dioramalab/diorama/internal/theme"
)

// stubGen records every request and answers from a per-call function.
type stubGen struct {
	calls []gen.Request
	reply func(call int, req gen.Request) ([]byte, error)
}

func (s *stubGen) Generate(_ context.Context, req gen.Request) ([]byte, error) {
	s.calls = append(s.calls, req)
	return s.reply(len(s.calls), req)
}

// onePixelPNG returns a valid 1x1 PNG, distinct per seed byte.
func onePixelPNG(t *testing.T, seed byte) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Pix[0] = seed
	img.Pix[3] = 255
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// promptDay extracts the day a prompt is for.
func promptDay(t *testing.T, prompt string) int {
	t.Helper()
	var day, total int
	idx := strings.Index(prompt, "DAY ")
	if idx < 0 {
		t.Fatalf("no day marker in prompt: %q", prompt)
	}
	if _, err := fmt.Sscanf(prompt[idx:], "DAY %d OF %d", &day, &total); err != nil {
		t.Fatalf("cannot parse day marker: %v", err)
	}
	return day
}

func chainTheme(days int) *theme.Theme {
	return &theme.Theme{
		Name:      "seedling",
		Days:      days,
		BaseStyle: "a seed on a plate",
		Refs:      refs.Previous{},
		Phases: []theme.Phase{
			{Start: 1, End: days, Describe: func(day int) string {
				return fmt.Sprintf("the seed on day %d", day)
			}},
		},
	}
}

func run(t *testing.T, cfg Config) *Summary {
	t.Helper()
	sum, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	return sum
}

// Days chain visually: each call after the first must carry the previous
// day's exact bytes as its only reference.
func TestRunChainsReferences(t *testing.T) {
	dir := t.TempDir()
	images := map[int][]byte{}
	stub := &stubGen{reply: func(_ int, req gen.Request) ([]byte, error) {
		day := promptDay(t, req.Prompt)
		img := onePixelPNG(t, byte(day))
		images[day] = img
		return img, nil
	}}

	sum := run(t, Config{Theme: chainTheme(3), OutDir: dir, Generator: stub})

	if sum.Generated != 3 || sum.Failed != 0 {
		t.Fatalf("expected 3 generated, got %+v", sum)
	}
	for day := 1; day <= 3; day++ {
		data, err := os.ReadFile(scanner.DayPath(dir, day))
		if err != nil {
			t.Fatalf("day %d image missing: %v", day, err)
		}
		if !bytes.Equal(data, images[day]) {
			t.Errorf("day %d file does not match generated bytes", day)
		}
	}

	if len(stub.calls) != 3 {
		t.Fatalf("expected 3 calls, got %d", len(stub.calls))
	}
	if len(stub.calls[0].References) != 0 {
		t.Errorf("day 1 should have no references")
	}
	for i, day := range []int{2, 3} {
		call := stub.calls[i+1]
		if len(call.References) != 1 {
			t.Fatalf("day %d: expected 1 reference, got %d", day, len(call.References))
		}
		if !bytes.Equal(call.References[0], images[day-1]) {
			t.Errorf("day %d reference should be day %d's bytes", day, day-1)
		}
	}
}

func TestRunIdempotent(t *testing.T) {
	dir := t.TempDir()
	stub := &stubGen{reply: func(_ int, req gen.Request) ([]byte, error) {
		return onePixelPNG(t, byte(promptDay(t, req.Prompt))), nil
	}}
	th := chainTheme(3)

	run(t, Config{Theme: th, OutDir: dir, Generator: stub})
	firstCalls := len(stub.calls)

	before := map[int][]byte{}
	for day := 1; day <= 3; day++ {
		data, _ := os.ReadFile(scanner.DayPath(dir, day))
		before[day] = data
	}

	sum := run(t, Config{Theme: th, OutDir: dir, Generator: stub})

	if len(stub.calls) != firstCalls {
		t.Errorf("second run made %d extra calls", len(stub.calls)-firstCalls)
	}
	if sum.Skipped != 3 || sum.Generated != 0 {
		t.Errorf("second run should skip everything: %+v", sum)
	}
	for day := 1; day <= 3; day++ {
		data, _ := os.ReadFile(scanner.DayPath(dir, day))
		if !bytes.Equal(data, before[day]) {
			t.Errorf("day %d file changed on second run", day)
		}
	}
}

func TestRunResumes(t *testing.T) {
	dir := t.TempDir()
	for day := 1; day <= 2; day++ {
		if err := os.WriteFile(scanner.DayPath(dir, day), onePixelPNG(t, byte(day)), 0644); err != nil {
			t.Fatal(err)
		}
	}
	stub := &stubGen{reply: func(_ int, req gen.Request) ([]byte, error) {
		return onePixelPNG(t, byte(promptDay(t, req.Prompt))), nil
	}}

	sum := run(t, Config{Theme: chainTheme(4), OutDir: dir, Generator: stub})

	if sum.Skipped != 2 || sum.Generated != 2 {
		t.Fatalf("expected 2 skipped + 2 generated, got %+v", sum)
	}
	days := []int{promptDay(t, stub.calls[0].Prompt), promptDay(t, stub.calls[1].Prompt)}
	if !reflect.DeepEqual(days, []int{3, 4}) {
		t.Errorf("expected calls for days [3 4], got %v", days)
	}
}

// A day whose reference was never generated still produces an image.
func TestRunReferenceFallback(t *testing.T) {
	dir := t.TempDir()
	stub := &stubGen{reply: func(_ int, req gen.Request) ([]byte, error) {
		if promptDay(t, req.Prompt) == 1 {
			return nil, fmt.Errorf("service unavailable")
		}
		return onePixelPNG(t, 2), nil
	}}

	sum := run(t, Config{
		Theme:     chainTheme(2),
		OutDir:    dir,
		Generator: stub,
		Sleep:     func(time.Duration) {},
	})

	if !reflect.DeepEqual(sum.FailedDays, []int{1}) {
		t.Fatalf("expected day 1 to fail, got %+v", sum)
	}
	if _, err := os.Stat(scanner.DayPath(dir, 2)); err != nil {
		t.Error("day 2 should exist even though its reference is missing")
	}
	// The day 2 call must have fallen back to no references.
	last := stub.calls[len(stub.calls)-1]
	if len(last.References) != 0 {
		t.Errorf("day 2 should have generated without references, got %d", len(last.References))
	}
}

func TestRunRetryBound(t *testing.T) {
	dir := t.TempDir()
	var slept []time.Duration
	stub := &stubGen{reply: func(int, gen.Request) ([]byte, error) {
		return nil, fmt.Errorf("always down")
	}}

	sum := run(t, Config{
		Theme:     chainTheme(3),
		OutDir:    dir,
		Generator: stub,
		Attempts:  2,
		Backoff:   3 * time.Second,
		Sleep:     func(d time.Duration) { slept = append(slept, d) },
	})

	if len(stub.calls) != 6 {
		t.Errorf("expected 2 attempts x 3 days = 6 calls, got %d", len(stub.calls))
	}
	if sum.Failed != 3 || !reflect.DeepEqual(sum.FailedDays, []int{1, 2, 3}) {
		t.Errorf("expected all days failed, got %+v", sum)
	}
	if sum.Present != 0 {
		t.Errorf("no files should exist, got %d", sum.Present)
	}
	for _, d := range slept {
		if d != 3*time.Second {
			t.Errorf("unexpected backoff %v", d)
		}
	}
	if len(slept) != 3 {
		t.Errorf("expected one backoff per day, got %d", len(slept))
	}
}

// Themes with RetryWithoutRefs drop the references on the second attempt.
func TestRunRetryDropsReferences(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(scanner.DayPath(dir, 1), onePixelPNG(t, 1), 0644); err != nil {
		t.Fatal(err)
	}
	th := chainTheme(2)
	th.RetryWithoutRefs = true

	stub := &stubGen{reply: func(_ int, req gen.Request) ([]byte, error) {
		if len(req.References) > 0 {
			return nil, fmt.Errorf("reference rejected")
		}
		return onePixelPNG(t, 2), nil
	}}

	sum := run(t, Config{
		Theme:     th,
		OutDir:    dir,
		Generator: stub,
		Sleep:     func(time.Duration) {},
	})

	if sum.Generated != 1 || sum.Failed != 0 {
		t.Fatalf("day 2 should succeed on retry, got %+v", sum)
	}
	if len(stub.calls) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(stub.calls))
	}
	if len(stub.calls[0].References) != 1 || len(stub.calls[1].References) != 0 {
		t.Error("first attempt should carry the reference, retry should drop it")
	}
}

func checkpointTheme(days int) *theme.Theme {
	th := chainTheme(days)
	th.Name = "anchored"
	th.CheckpointInterval = 2
	th.Improvements = map[int]string{2: "trellis installed"}
	return th
}

func TestRunCheckpoints(t *testing.T) {
	dir := t.TempDir()
	stub := &stubGen{reply: func(_ int, req gen.Request) ([]byte, error) {
		return onePixelPNG(t, byte(promptDay(t, req.Prompt))), nil
	}}
	analyzer := gen.AnalyzerFunc(func(_ context.Context, _ string, img []byte) (string, error) {
		return fmt.Sprintf("scene with %d-byte image", len(img)), nil
	})

	run(t, Config{Theme: checkpointTheme(4), OutDir: dir, Generator: stub, Analyzer: analyzer})

	led, err := ledger.Load(filepath.Join(dir, LedgerFile))
	if err != nil {
		t.Fatal(err)
	}
	if len(led.Anchors) != 2 {
		t.Errorf("expected anchors for days 2 and 4, got %v", led.Anchors)
	}
	if !reflect.DeepEqual(led.Improvements, []string{"trellis installed"}) {
		t.Errorf("unexpected improvements: %v", led.Improvements)
	}

	// Days after a checkpoint carry its description and the improvements.
	day3 := stub.calls[2].Prompt
	if !strings.Contains(day3, "scene with") || !strings.Contains(day3, "Day 2") {
		t.Errorf("day 3 prompt should include the day-2 anchor:\n%s", day3)
	}
	if !strings.Contains(day3, "trellis installed") {
		t.Errorf("day 3 prompt should list the improvement:\n%s", day3)
	}
	// Day 1 predates any anchor.
	if strings.Contains(stub.calls[0].Prompt, "ANCHOR DESCRIPTION") {
		t.Error("day 1 prompt should have no anchor section")
	}
}

func TestRunAnalyzerFailureNonFatal(t *testing.T) {
	dir := t.TempDir()
	stub := &stubGen{reply: func(_ int, req gen.Request) ([]byte, error) {
		return onePixelPNG(t, byte(promptDay(t, req.Prompt))), nil
	}}
	analyzer := gen.AnalyzerFunc(func(context.Context, string, []byte) (string, error) {
		return "", fmt.Errorf("vision model overloaded")
	})

	sum := run(t, Config{Theme: checkpointTheme(4), OutDir: dir, Generator: stub, Analyzer: analyzer})

	if sum.Generated != 4 || sum.Failed != 0 {
		t.Fatalf("analysis failures must not fail days: %+v", sum)
	}
	led, err := ledger.Load(filepath.Join(dir, LedgerFile))
	if err != nil {
		t.Fatal(err)
	}
	if len(led.Anchors) != 0 {
		t.Errorf("failed checkpoints must not be recorded, got %v", led.Anchors)
	}
}

// Milestone themes generate their milestone days before the full sweep.
func TestRunMilestonesFirst(t *testing.T) {
	dir := t.TempDir()
	th := chainTheme(5)
	th.Refs = refs.Milestone{Days: []int{1, 3, 5}}
	th.Milestones = []int{1, 3, 5}

	stub := &stubGen{reply: func(_ int, req gen.Request) ([]byte, error) {
		return onePixelPNG(t, byte(promptDay(t, req.Prompt))), nil
	}}

	sum := run(t, Config{Theme: th, OutDir: dir, Generator: stub})

	if sum.Generated != 5 {
		t.Fatalf("expected 5 generated, got %+v", sum)
	}
	var order []int
	for _, call := range stub.calls {
		order = append(order, promptDay(t, call.Prompt))
	}
	if !reflect.DeepEqual(order, []int{1, 3, 5, 2, 4}) {
		t.Errorf("expected milestone-first order [1 3 5 2 4], got %v", order)
	}
}

type countingLimiter struct{ waits int }

func (c *countingLimiter) Wait(context.Context) error {
	c.waits++
	return nil
}

func TestRunPacesEveryAttempt(t *testing.T) {
	dir := t.TempDir()
	lim := &countingLimiter{}
	stub := &stubGen{reply: func(_ int, req gen.Request) ([]byte, error) {
		return onePixelPNG(t, byte(promptDay(t, req.Prompt))), nil
	}}

	run(t, Config{Theme: chainTheme(3), OutDir: dir, Generator: stub, Limiter: lim})

	if lim.waits != 3 {
		t.Errorf("expected 3 limiter waits, got %d", lim.waits)
	}
}

func TestRunProgressOutput(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	stub := &stubGen{reply: func(_ int, req gen.Request) ([]byte, error) {
		return onePixelPNG(t, byte(promptDay(t, req.Prompt))), nil
	}}

	run(t, Config{Theme: chainTheme(2), OutDir: dir, Generator: stub, Progress: &out})

	text := out.String()
	if !strings.Contains(text, "Day   1: generating... done") {
		t.Errorf("missing day 1 progress line:\n%s", text)
	}
}
