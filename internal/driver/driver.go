// Package driver runs the day-by-day generation loop for a theme.
package driver

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/dioramalab/diorama/internal/gen"
	"github.com/dioramalab/diorama/internal/ledger"
	"github.com/dioramalab/diorama/internal/scanner"
	"github.com/dioramalab/diorama/internal/theme"
)

// LedgerFile is the ledger's filename inside the output directory.
const LedgerFile = "anchors.json"

// analysisPrompt asks the vision model for a description precise enough to
// lock scene composition in later prompts.
const analysisPrompt = `Analyze this diorama image in extreme detail for use as a consistency
reference in future image generation. Describe precisely:

1. ORIENTATION: which direction the main subject faces and its angle
   relative to the platform edges.
2. CONSTRUCTION STATE: what is built, installed, or missing; surface
   condition and colors.
3. OBJECTS & POSITIONS: every object in the scene and its exact position
   (e.g. "red toolbox in the back-left corner").
4. PLATFORM: edge appearance, surface details, markings.

Be extremely specific; this description will be reproduced verbatim as a
constraint in later prompts.`

// Limiter paces external calls. *rate.Limiter satisfies it.
type Limiter interface {
	Wait(ctx context.Context) error
}

// Config wires the driver's collaborators. Generator is required; everything
// else has a usable default.
type Config struct {
	Theme     *theme.Theme
	OutDir    string
	Generator gen.Generator
	Analyzer  gen.Analyzer // nil disables checkpoints even for ledger themes

	Limiter  Limiter             // nil means no pacing
	Sleep    func(time.Duration) // retry backoff; nil means time.Sleep
	Backoff  time.Duration       // default 3s
	Attempts int                 // total attempts per day, default 2
	Days     int                 // 0 means Theme.Days

	Logger   *zap.Logger
	Progress io.Writer
}

// Summary reports a completed run. Per-day failures are contained: the run
// itself succeeds even if every day failed.
type Summary struct {
	Theme      string
	Target     int
	Generated  int
	Skipped    int
	Failed     int
	FailedDays []int
	Present    int // day images present in the output directory after the run
}

type runner struct {
	cfg    Config
	days   int
	led    *ledger.Ledger
	sum    *Summary
	done   map[int]bool // days handled this run
}

// Run executes the generation loop. It returns an error only for startup
// problems or context cancellation; failed days are reported in the Summary.
func Run(ctx context.Context, cfg Config) (*Summary, error) {
	if cfg.Theme == nil {
		return nil, fmt.Errorf("no theme configured")
	}
	if err := cfg.Theme.Validate(); err != nil {
		return nil, err
	}
	if cfg.Generator == nil {
		return nil, fmt.Errorf("no generator configured")
	}
	if cfg.Attempts <= 0 {
		cfg.Attempts = 2
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = 3 * time.Second
	}
	if cfg.Sleep == nil {
		cfg.Sleep = time.Sleep
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Progress == nil {
		cfg.Progress = io.Discard
	}

	days := cfg.Days
	if days == 0 || days > cfg.Theme.Days {
		days = cfg.Theme.Days
	}

	if err := os.MkdirAll(cfg.OutDir, 0755); err != nil {
		return nil, fmt.Errorf("cannot create output directory: %w", err)
	}

	r := &runner{
		cfg:  cfg,
		days: days,
		sum:  &Summary{Theme: cfg.Theme.Name, Target: days},
		done: make(map[int]bool),
	}

	if cfg.Theme.CheckpointInterval > 0 {
		led, err := ledger.Load(filepath.Join(cfg.OutDir, LedgerFile))
		if err != nil {
			return nil, err
		}
		r.led = led
	}

	// Milestone days first, so the full sweep always has stable references
	// to chain from.
	for _, day := range cfg.Theme.Milestones {
		if day > days {
			continue
		}
		if err := ctx.Err(); err != nil {
			return r.finish(), err
		}
		r.processDay(ctx, day)
	}

	for day := 1; day <= days; day++ {
		if r.done[day] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return r.finish(), err
		}
		r.processDay(ctx, day)
	}

	return r.finish(), nil
}

func (r *runner) finish() *Summary {
	sort.Ints(r.sum.FailedDays)
	if scanned, err := scanner.Scan(r.cfg.OutDir); err == nil {
		for _, d := range scanned.Days {
			if d <= r.days {
				r.sum.Present++
			}
		}
	}
	return r.sum
}

func (r *runner) processDay(ctx context.Context, day int) {
	r.done[day] = true
	path := scanner.DayPath(r.cfg.OutDir, day)

	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(r.cfg.Progress, "Day %3d: exists, skipping\n", day)
		r.sum.Skipped++
		return
	}

	prompt, ok := r.cfg.Theme.Prompt(day, r.promptContext(day))
	if !ok {
		// Unreachable for a validated theme; recorded as a failure anyway.
		r.fail(day, fmt.Errorf("no prompt for day %d", day))
		return
	}

	references := r.loadReferences(day)

	fmt.Fprintf(r.cfg.Progress, "Day %3d: generating...", day)
	img, err := r.generate(ctx, day, prompt, references)
	if err != nil {
		fmt.Fprintf(r.cfg.Progress, " failed (%v)\n", err)
		r.fail(day, err)
		return
	}

	if err := os.WriteFile(path, img, 0644); err != nil {
		fmt.Fprintf(r.cfg.Progress, " failed (%v)\n", err)
		r.fail(day, err)
		return
	}
	fmt.Fprintf(r.cfg.Progress, " done\n")
	r.sum.Generated++

	r.recordImprovement(day)
	r.checkpoint(ctx, day, img)
}

// generate makes up to cfg.Attempts calls. When the theme asks for it, the
// retry drops reference images to isolate a corrupt reference as the cause.
func (r *runner) generate(ctx context.Context, day int, prompt string, references [][]byte) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= r.cfg.Attempts; attempt++ {
		if attempt > 1 {
			if r.cfg.Theme.RetryWithoutRefs {
				references = nil
			}
			r.cfg.Sleep(r.cfg.Backoff)
		}
		if r.cfg.Limiter != nil {
			if err := r.cfg.Limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		img, err := r.cfg.Generator.Generate(ctx, gen.Request{
			Prompt:     prompt,
			References: references,
		})
		if err == nil {
			return img, nil
		}
		lastErr = err
		r.cfg.Logger.Warn("generation attempt failed",
			zap.Int("day", day),
			zap.Int("attempt", attempt),
			zap.Error(err))
	}
	return nil, lastErr
}

func (r *runner) promptContext(day int) theme.PromptContext {
	if r.led == nil {
		return theme.PromptContext{}
	}
	pc := theme.PromptContext{Improvements: r.led.Improvements}
	if anchorDay, text, ok := r.led.AnchorFor(day); ok {
		pc.AnchorDay = anchorDay
		pc.AnchorText = text
	}
	return pc
}

// loadReferences reads the selected reference images, silently dropping any
// that are missing: a day must still generate when its reference never got
// made.
func (r *runner) loadReferences(day int) [][]byte {
	var references [][]byte
	for _, refDay := range r.cfg.Theme.Refs.Refs(day) {
		data, err := os.ReadFile(scanner.DayPath(r.cfg.OutDir, refDay))
		if err != nil {
			r.cfg.Logger.Warn("reference image unavailable, generating without it",
				zap.Int("day", day),
				zap.Int("reference", refDay),
				zap.Error(err))
			continue
		}
		references = append(references, data)
	}
	return references
}

func (r *runner) recordImprovement(day int) {
	imp, ok := r.cfg.Theme.Improvement(day)
	if !ok || r.led == nil {
		return
	}
	if r.led.AddImprovement(imp) {
		if err := r.led.Save(); err != nil {
			r.cfg.Logger.Warn("cannot save ledger", zap.Int("day", day), zap.Error(err))
		}
	}
}

// checkpoint analyzes the just-generated image on checkpoint days and stores
// the description as an anchor. Analysis failure only costs the checkpoint;
// later days fall back to the previous recorded anchor.
func (r *runner) checkpoint(ctx context.Context, day int, img []byte) {
	interval := r.cfg.Theme.CheckpointInterval
	if r.led == nil || r.cfg.Analyzer == nil || interval <= 0 || day%interval != 0 {
		return
	}

	fmt.Fprintf(r.cfg.Progress, "Day %3d: analyzing checkpoint...", day)
	text, err := r.cfg.Analyzer.Analyze(ctx, analysisPrompt, img)
	if err != nil {
		fmt.Fprintf(r.cfg.Progress, " failed (%v)\n", err)
		r.cfg.Logger.Warn("checkpoint analysis failed", zap.Int("day", day), zap.Error(err))
		return
	}
	r.led.RecordAnchor(day, text)
	if err := r.led.Save(); err != nil {
		r.cfg.Logger.Warn("cannot save ledger", zap.Int("day", day), zap.Error(err))
		return
	}
	fmt.Fprintf(r.cfg.Progress, " saved\n")
}

func (r *runner) fail(day int, err error) {
	r.cfg.Logger.Warn("day failed", zap.Int("day", day), zap.Error(err))
	r.sum.Failed++
	r.sum.FailedDays = append(r.sum.FailedDays, day)
}
