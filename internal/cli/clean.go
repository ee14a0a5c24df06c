package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/clipsift/internal/model"
	"github.com/ppiankov/clipsift/internal/pipeline"
	"github.com/ppiankov/clipsift/internal/worker"
	"github.com/spf13/cobra"
)

var (
	outMD         string
	outJSON       string
	outReport     string
	timeTolerance int64
	clauseMinLen  int
	trace         bool
	noCache       bool
	noBOM         bool
)

// cleanCmd represents the clean command
var cleanCmd = &cobra.Command{
	Use:   "clean <export>",
	Short: "Clean one annotation export into a deduplicated digest",
	Long: `Clean parses a reader annotation export ("My Clippings" style),
removes duplicate highlights, notes and bookmarks per document, and
writes an ordered markdown digest.

Repeated captures of the same passage are detected by text similarity,
corroborated by overlapping location ranges and close capture times.
The latest capture of each duplicate group survives.

Example:
  clipsift clean clippings.txt
  clipsift clean clippings.txt --out digest.md --json digest.json
  clipsift clean clippings.txt --time-tolerance 600 --trace`,
	Args: cobra.ExactArgs(1),
	RunE: runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)

	// Output flags
	cleanCmd.Flags().StringVar(&outMD, "out", "", "output markdown path (default: <export>_digest.md)")
	cleanCmd.Flags().StringVar(&outJSON, "json", "", "output JSON digest path (optional)")
	cleanCmd.Flags().StringVar(&outReport, "report", "", "output statistics path, YAML or .json (optional)")

	// Dedup flags
	cleanCmd.Flags().Int64Var(&timeTolerance, "time-tolerance", 300, "seconds between captures still considered close")
	cleanCmd.Flags().IntVar(&clauseMinLen, "clause-min-len", 12, "minimum clause length for clause matching")
	cleanCmd.Flags().BoolVar(&trace, "trace", false, "print duplicate decision diagnostics to stderr")
	cleanCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the digest cache (force a fresh clean)")
	cleanCmd.Flags().BoolVar(&noBOM, "no-bom", false, "omit the UTF-8 byte-order mark from markdown output")
}

func runClean(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyCleanFlags(cmd, cfg)

	mdPath := outMD
	if mdPath == "" {
		mdPath = defaultDigestPath(path)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Cleaning: %s\n", path)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	content, err := worker.ReadExportFile(path)
	if err != nil {
		return fmt.Errorf("read export: %w", err)
	}

	// Create pipeline
	p := pipeline.NewPipeline(cfg)

	result, err := p.Clean(ctx, content)
	if err != nil {
		return fmt.Errorf("clean failed: %w", err)
	}

	if verbose {
		st := result.Digest.Stats
		if result.FromCache {
			fmt.Fprintf(os.Stderr, "✓ Digest served from cache\n")
		}
		fmt.Fprintf(os.Stderr, "✓ Parsed %d of %d blocks\n", st.Entries, st.Blocks)
		fmt.Fprintf(os.Stderr, "✓ Dropped %d duplicates, %d empty entries\n", st.Duplicates(), st.FilteredEmpty)
		fmt.Fprintln(os.Stderr)
	}

	// Render outputs
	if err := p.RenderDigest(result.Digest, mdPath, outJSON, outReport, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}

// applyCleanFlags overlays explicitly set flags onto the configuration
func applyCleanFlags(cmd *cobra.Command, cfg *model.Config) {
	if cmd.Flags().Changed("time-tolerance") {
		cfg.Dedup.TimeTolerance = timeTolerance
	}
	if cmd.Flags().Changed("clause-min-len") {
		cfg.Dedup.ClauseMinLength = clauseMinLen
	}
	if trace {
		cfg.Dedup.Trace = true
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if noBOM {
		cfg.Output.BOM = false
	}
	if verbose {
		cfg.Output.Verbose = true
	}
}

// defaultDigestPath derives the markdown output path from the export
// path: clippings.txt becomes clippings_digest.md next to it.
func defaultDigestPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_digest.md"
}
