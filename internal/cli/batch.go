package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/ppiankov/clipsift/internal/model"
	"github.com/ppiankov/clipsift/internal/pipeline"
	"github.com/ppiankov/clipsift/internal/worker"
	"github.com/spf13/cobra"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	batchJSON    bool
	batchReport  bool
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Clean every annotation export in a directory in parallel",
	Long: `Batch cleans a directory of annotation exports concurrently:
- Pick up every .txt export in the directory
- Clean exports in parallel with a configurable worker count
- Write one markdown digest per export into the output directory

Example:
  clipsift batch ./exports
  clipsift batch ./exports --concurrency 8 --output-dir ./digests
  clipsift batch ./exports --json --report`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Concurrency flags
	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./clipsift-digests", "output directory for digests")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().BoolVar(&batchJSON, "json", false, "also write a JSON digest per export")
	batchCmd.Flags().BoolVar(&batchReport, "report", false, "also write a YAML statistics report per export")

	// Shared dedup flags
	batchCmd.Flags().Int64Var(&timeTolerance, "time-tolerance", 300, "seconds between captures still considered close")
	batchCmd.Flags().IntVar(&clauseMinLen, "clause-min-len", 12, "minimum clause length for clause matching")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the digest cache (force a fresh clean)")
	batchCmd.Flags().BoolVar(&noBOM, "no-bom", false, "omit the UTF-8 byte-order mark from markdown output")
}

func runBatch(cmd *cobra.Command, args []string) error {
	dir := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyCleanFlags(cmd, cfg)
	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency.Workers = concurrency
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Clipsift Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input dir:    %s\n", dir)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	paths, err := worker.ListExportFiles(dir)
	if err != nil {
		return fmt.Errorf("list exports: %w", err)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no .txt exports found in %s", dir)
	}
	fmt.Fprintf(os.Stderr, "✓ Found %d exports\n", len(paths))

	// Create output directory
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	// Create pipeline and batch processor
	p := pipeline.NewPipeline(cfg)
	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers)

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "⚙️  Cleaning exports with %d workers...\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "\n")

	results := processor.ProcessFiles(ctx, paths)

	renderer := pipeline.NewRenderer(cfg.Output.BOM)
	successCount := 0
	failureCount := 0
	var totals model.Stats

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Path, result.Error)
			continue
		}

		stem := sanitizeFilename(strings.TrimSuffix(filepath.Base(result.Path), filepath.Ext(result.Path)))
		mdPath := filepath.Join(outputDir, stem+"_digest.md")

		if err := renderer.RenderMarkdown(result.Digest, mdPath); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write markdown: %v\n", result.Path, err)
			continue
		}
		if batchJSON {
			jsonPath := filepath.Join(outputDir, stem+"_digest.json")
			if err := renderer.RenderJSON(result.Digest, jsonPath); err != nil {
				fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", result.Path, err)
			}
		}
		if batchReport {
			reportPath := filepath.Join(outputDir, stem+"_stats.yaml")
			if err := renderer.RenderReport(result.Digest, reportPath); err != nil {
				fmt.Fprintf(os.Stderr, "✗ %s: failed to write report: %v\n", result.Path, err)
			}
		}

		successCount++
		totals.Add(result.Digest.Stats)

		st := result.Digest.Stats
		fmt.Fprintf(os.Stderr, "✓ %s: kept %d of %d entries across %d documents\n",
			filepath.Base(result.Path), st.Kept, st.Entries, st.Documents)
	}

	// Summary
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:      %d exports\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:    %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:   %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Kept:       %d of %d entries\n", totals.Kept, totals.Entries)
	fmt.Fprintf(os.Stderr, "  Duplicates: %d\n", totals.Duplicates())
	fmt.Fprintf(os.Stderr, "  Output:     %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

// sanitizeFilename makes a string safe to use as a filename
func sanitizeFilename(s string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "-",
	)
	s = replacer.Replace(s)

	// Limit length
	if len(s) > 100 {
		s = s[:100]
	}

	return s
}
