package rembg

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dioramalab/diorama/internal/scanner"
)

// BatchConfig wires a background-removal pass over a directory.
type BatchConfig struct {
	InputDir  string
	OutputDir string
	Engine    Engine
	Workers   int // default 1
	Logger    *zap.Logger
	Progress  io.Writer
}

// BatchSummary reports a completed batch.
type BatchSummary struct {
	Inputs    int
	Processed int
	Skipped   int // outputs that already existed
	Failed    int
}

// RunBatch removes the background from every day image in InputDir that has
// no counterpart in OutputDir yet. Files are independent, so the batch runs
// Workers files in parallel; a single file's failure is logged and the batch
// continues.
func RunBatch(ctx context.Context, cfg BatchConfig) (*BatchSummary, error) {
	if cfg.Engine == nil {
		return nil, fmt.Errorf("no engine configured")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Progress == nil {
		cfg.Progress = io.Discard
	}

	scanned, err := scanner.Scan(cfg.InputDir)
	if err != nil {
		return nil, err
	}
	if len(scanned.Paths) == 0 {
		return nil, fmt.Errorf("no day images found in %s", cfg.InputDir)
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("cannot create output directory: %w", err)
	}

	var processed, skipped, failed atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for _, inputPath := range scanned.Paths {
		inputPath := inputPath
		outputPath := filepath.Join(cfg.OutputDir, filepath.Base(inputPath))

		if _, err := os.Stat(outputPath); err == nil {
			skipped.Add(1)
			continue
		}

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := processFile(cfg.Engine, inputPath, outputPath); err != nil {
				cfg.Logger.Warn("background removal failed",
					zap.String("file", filepath.Base(inputPath)),
					zap.Error(err))
				fmt.Fprintf(cfg.Progress, "  %s: failed (%v)\n", filepath.Base(inputPath), err)
				failed.Add(1)
				return nil
			}
			fmt.Fprintf(cfg.Progress, "  %s: done\n", filepath.Base(inputPath))
			processed.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &BatchSummary{
		Inputs:    len(scanned.Paths),
		Processed: int(processed.Load()),
		Skipped:   int(skipped.Load()),
		Failed:    int(failed.Load()),
	}, nil
}

func processFile(engine Engine, inputPath, outputPath string) error {
	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("cannot open image: %w", err)
	}
	img, _, err := image.Decode(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("cannot decode image: %w", err)
	}

	result, err := engine.Process(img)
	if err != nil {
		return err
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("cannot create output: %w", err)
	}
	if err := png.Encode(out, result); err != nil {
		out.Close()
		os.Remove(outputPath)
		return fmt.Errorf("cannot encode output: %w", err)
	}
	return out.Close()
}
