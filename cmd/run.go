package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/spf13/cobra"

	"github.com/cwbudde/primitivefit/internal/engine"
	"github.com/cwbudde/primitivefit/internal/jobrunner"
	"github.com/cwbudde/primitivefit/internal/raster"
	"github.com/cwbudde/primitivefit/internal/shape"
	"github.com/cwbudde/primitivefit/internal/svgexport"
)

var (
	refPath           string
	outPath           string
	svgPath           string
	numShapes         int
	alpha             int
	seedCount         int
	maxAge            int
	passes            int
	workers           int
	seed              uint64
	convergenceEnable bool
	patience          int
	threshold         float64
	cpuProfile        string
	memProfile        string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run single-shot approximation",
	Long:  `Runs primitive fitting against a reference image and writes an output PNG and SVG.`,
	RunE:  runApproximation,
}

func init() {
	runCmd.Flags().StringVar(&refPath, "ref", "", "Reference image path (required)")
	runCmd.Flags().StringVar(&outPath, "out", "out.png", "Output PNG path")
	runCmd.Flags().StringVar(&svgPath, "svg", "", "Output SVG path (optional)")
	runCmd.Flags().IntVar(&numShapes, "shapes", 100, "Number of shapes to commit")
	runCmd.Flags().IntVar(&alpha, "alpha", 128, "Shape alpha (0-255)")
	runCmd.Flags().IntVar(&seedCount, "n", 100, "Random seed shapes per pass")
	runCmd.Flags().IntVar(&maxAge, "max-age", 100, "Hill-climb patience (consecutive rejections before stopping)")
	runCmd.Flags().IntVar(&passes, "passes", 10, "Random restarts per step")
	runCmd.Flags().IntVar(&workers, "workers", 0, "Parallel workers (0 = GOMAXPROCS)")
	runCmd.Flags().Uint64Var(&seed, "seed", 1, "Random seed")

	runCmd.Flags().BoolVar(&convergenceEnable, "convergence", false, "Stop early once additional shapes stop improving the score")
	runCmd.Flags().IntVar(&patience, "patience", 3, "Stop after N shapes with no significant improvement")
	runCmd.Flags().Float64Var(&threshold, "threshold", 0.001, "Minimum relative improvement required (0.001 = 0.1%)")

	runCmd.Flags().StringVar(&cpuProfile, "cpuprofile", "", "Write CPU profile to file")
	runCmd.Flags().StringVar(&memProfile, "memprofile", "", "Write memory profile to file")

	runCmd.MarkFlagRequired("ref")
	rootCmd.AddCommand(runCmd)
}

func runApproximation(cmd *cobra.Command, args []string) error {
	if cpuProfile != "" {
		f, err := os.Create(cpuProfile)
		if err != nil {
			return fmt.Errorf("create CPU profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("start CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
		slog.Info("CPU profiling enabled", "output", cpuProfile)
	}

	slog.Info("starting approximation", "shapes", numShapes, "alpha", alpha)

	target, err := jobrunner.LoadTarget(refPath)
	if err != nil {
		return fmt.Errorf("load reference: %w", err)
	}
	slog.Info("loaded reference", "width", target.Width(), "height", target.Height())

	cfg := engine.Config{
		ShapeTypes: shape.AllTags,
		Alpha:      alpha,
		N:          seedCount,
		MaxAge:     maxAge,
		Passes:     passes,
		Workers:    workers,
		Seed:       seed,
	}
	model := engine.NewModel(target, raster.RGBA{R: 255, G: 255, B: 255, A: 255}, cfg)
	initialScore := model.Score()

	tracker := jobrunner.NewConvergenceTracker(jobrunner.ConvergenceConfig{
		Enabled:   convergenceEnable,
		Patience:  patience,
		Threshold: threshold,
	})

	doc := svgexport.New(target.Width(), target.Height(), raster.RGBA{R: 255, G: 255, B: 255, A: 255})

	start := time.Now()
	committed := 0
	for i := 0; i < numShapes; i++ {
		result := model.Step()
		doc.Add(result.Shape, result.Color)
		committed++
		if tracker.Update(result.Score) {
			slog.Info("stopping early, converged", "shapes", committed)
			break
		}
	}
	elapsed := time.Since(start)

	outFile, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer outFile.Close()
	if err := jobrunner.EncodePNG(outFile, model.Current()); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}

	if svgPath != "" {
		if err := os.WriteFile(svgPath, []byte(doc.Build()), 0644); err != nil {
			return fmt.Errorf("write SVG: %w", err)
		}
	}

	shapesPerSecond := float64(committed) / elapsed.Seconds()
	slog.Info("approximation complete",
		"elapsed", elapsed,
		"initial_score", initialScore,
		"final_score", model.Score(),
		"shapes_committed", committed,
		"shapes_requested", numShapes,
		"shapes_per_second", fmt.Sprintf("%.1f", shapesPerSecond),
	)

	if committed < numShapes {
		fmt.Printf("Wrote %s (score: %.4f -> %.4f, %d/%d shapes, %.1f shapes/sec) - converged early!\n",
			outPath, initialScore, model.Score(), committed, numShapes, shapesPerSecond)
	} else {
		fmt.Printf("Wrote %s (score: %.4f -> %.4f, %d shapes, %.1f shapes/sec)\n",
			outPath, initialScore, model.Score(), committed, shapesPerSecond)
	}

	if memProfile != "" {
		f, err := os.Create(memProfile)
		if err != nil {
			return fmt.Errorf("create memory profile: %w", err)
		}
		defer f.Close()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			return fmt.Errorf("write memory profile: %w", err)
		}
		slog.Info("memory profile written", "output", memProfile)
	}

	return nil
}
