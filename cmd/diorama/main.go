package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/dioramalab/diorama/internal/driver"
	"github.com/dioramalab/diorama/internal/gen"
	"github.com/dioramalab/diorama/internal/rembg"
	"github.com/dioramalab/diorama/internal/report"
	"github.com/dioramalab/diorama/internal/scanner"
	"github.com/dioramalab/diorama/internal/theme"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "diorama",
		Short: "Generate and post-process growth-diorama image sequences",
		Long: `diorama drives a generative image model through a themed "growth"
storyline: one image per simulated day, chained together with reference
images and anchor descriptions for visual continuity.

Generation is resumable: a day whose image already exists is skipped, so an
interrupted run picks up where it left off when re-run.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newRembgCmd())
	rootCmd.AddCommand(newThemesCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

func newGenerateCmd() *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate <theme>",
		Short: "Generate a theme's day images via the Gemini API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.outDir, "out", "", "Output directory (default out/<theme>)")
	cmd.Flags().StringVar(&opts.themeFile, "theme-file", "", "Load the theme from a YAML file instead of the built-ins")
	cmd.Flags().IntVar(&opts.days, "days", 0, "Generate only the first N days (default: the theme's full range)")
	cmd.Flags().DurationVar(&opts.rate, "rate", 2*time.Second, "Minimum spacing between generation calls")
	cmd.Flags().DurationVar(&opts.backoff, "backoff", 3*time.Second, "Wait before retrying a failed day")
	cmd.Flags().IntVar(&opts.attempts, "attempts", 2, "Attempts per day before marking it failed")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Show which days would be generated without calling the API")

	return cmd
}

type generateOptions struct {
	outDir    string
	themeFile string
	days      int
	rate      time.Duration
	backoff   time.Duration
	attempts  int
	dryRun    bool
}

func runGenerate(themeName string, opts generateOptions) error {
	var th *theme.Theme
	var err error
	if opts.themeFile != "" {
		th, err = theme.LoadFile(opts.themeFile)
	} else {
		th, err = theme.Builtin(themeName)
	}
	if err != nil {
		return err
	}

	outDir := opts.outDir
	if outDir == "" {
		outDir = fmt.Sprintf("out/%s", th.Name)
	}

	if opts.dryRun {
		return dryRun(th, outDir, opts.days)
	}

	// The credential is the only startup-fatal piece of environment.
	apiKey, err := gen.APIKeyFromEnv()
	if err != nil {
		return err
	}

	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx := context.Background()
	gemini, err := gen.NewGemini(ctx, apiKey)
	if err != nil {
		return err
	}

	fmt.Printf("Theme: %s (%s)\n", th.Name, th.Summary)
	fmt.Printf("References: %s\n", th.RefHint)
	fmt.Printf("Output: %s\n\n", outDir)

	summary, err := driver.Run(ctx, driver.Config{
		Theme:     th,
		OutDir:    outDir,
		Generator: gemini,
		Analyzer:  gemini,
		Limiter:   rate.NewLimiter(rate.Every(opts.rate), 1),
		Backoff:   opts.backoff,
		Attempts:  opts.attempts,
		Days:      opts.days,
		Logger:    logger,
		Progress:  os.Stdout,
	})
	if err != nil {
		return err
	}

	// Per-day failures are reported in the summary, not the exit code:
	// the loop completing is success, re-running fills the gaps.
	report.Print(os.Stdout, summary)
	return nil
}

// dryRun reports which days a run would skip and which it would generate,
// without touching the API.
func dryRun(th *theme.Theme, outDir string, days int) error {
	if err := th.Validate(); err != nil {
		return err
	}
	if days == 0 || days > th.Days {
		days = th.Days
	}

	scanned, err := scanner.Scan(outDir)
	if err != nil {
		return err
	}
	done := scanned.Done()

	pending := 0
	for day := 1; day <= days; day++ {
		if done[day] {
			continue
		}
		pending++
	}

	fmt.Printf("Theme: %s (%s)\n", th.Name, th.Summary)
	fmt.Printf("Output: %s\n", outDir)
	fmt.Printf("Days 1-%d: %d done, %d to generate\n", days, days-pending, pending)
	if len(th.Milestones) > 0 {
		fmt.Printf("Milestone days generated first: %v\n", th.Milestones)
	}
	return nil
}

func newRembgCmd() *cobra.Command {
	var (
		engineName string
		workers    int
		threshold  float64
	)

	cmd := &cobra.Command{
		Use:   "rembg <input-dir> <output-dir>",
		Short: "Write transparent-background copies of generated images",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRembg(args[0], args[1], engineName, workers, threshold)
		},
	}

	cmd.Flags().StringVar(&engineName, "engine", "u2net", "Removal engine: u2net (segmentation model) or chroma (solid-backdrop keying)")
	cmd.Flags().IntVar(&workers, "workers", 4, "Parallel workers (chroma only; u2net runs serialized)")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "Chroma keying distance threshold (0 = default)")

	return cmd
}

func runRembg(inputDir, outputDir, engineName string, workers int, threshold float64) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	var engine rembg.Engine
	switch engineName {
	case "u2net":
		fmt.Println("Checking segmentation model...")
		err := rembg.EnsureModel(func(filename string, downloaded, total int64) {
			if total > 0 {
				pct := float64(downloaded) / float64(total) * 100
				fmt.Printf("\rDownloading %s... %.0f%%", filename, pct)
			} else {
				fmt.Printf("\rDownloading %s... %d bytes", filename, downloaded)
			}
		})
		if err != nil {
			return fmt.Errorf("model setup failed: %w", err)
		}

		fmt.Println("Loading segmentation model...")
		u2net, err := rembg.NewU2Net("")
		if err != nil {
			return fmt.Errorf("cannot load segmentation model: %w", err)
		}
		defer u2net.Destroy()
		engine = u2net
		workers = 1
	case "chroma":
		engine = rembg.Chroma{Threshold: threshold}
	default:
		return fmt.Errorf("unknown engine %q (want u2net or chroma)", engineName)
	}

	fmt.Printf("Removing backgrounds: %s -> %s\n", inputDir, outputDir)
	summary, err := rembg.RunBatch(context.Background(), rembg.BatchConfig{
		InputDir:  inputDir,
		OutputDir: outputDir,
		Engine:    engine,
		Workers:   workers,
		Logger:    logger,
		Progress:  os.Stdout,
	})
	if err != nil {
		return err
	}

	fmt.Printf("\nDone! Processed %d/%d images (%d already present, %d failed)\n",
		summary.Processed, summary.Inputs, summary.Skipped, summary.Failed)
	return nil
}

func newThemesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List the built-in themes",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, th := range theme.All() {
				fmt.Printf("%-12s %3d days  %s\n", th.Name, th.Days, th.Summary)
				fmt.Printf("%-12s           references: %s\n", "", th.RefHint)
				if th.CheckpointInterval > 0 {
					fmt.Printf("%-12s           anchor checkpoints every %d days\n", "", th.CheckpointInterval)
				}
			}
		},
	}
}
