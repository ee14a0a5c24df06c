package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ppiankov/clipsift/internal/cache"
	"github.com/ppiankov/clipsift/internal/dedup"
	"github.com/ppiankov/clipsift/internal/match"
	"github.com/ppiankov/clipsift/internal/model"
	"github.com/ppiankov/clipsift/internal/parse"
)

// Pipeline orchestrates the complete cleaning process
type Pipeline struct {
	parser   *parse.Parser
	engine   *dedup.Engine
	renderer *Renderer
	cache    cache.Cache // nil when caching is disabled
	config   *model.Config
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config) *Pipeline {
	var trace match.TraceFunc
	if cfg.Dedup.Trace {
		trace = func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, "trace: "+format+"\n", args...)
		}
	}

	var store cache.Cache
	if cfg.Cache.Enabled {
		store = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.TTL)
	}

	return &Pipeline{
		parser:   parse.NewParser(),
		engine:   dedup.NewEngine(cfg, match.NewClassifier(cfg, trace)),
		renderer: NewRenderer(cfg.Output.BOM),
		cache:    store,
		config:   cfg,
	}
}

// Result contains a cleaned digest and where it came from
type Result struct {
	Digest    *model.Digest
	FromCache bool
}

// Clean parses an export and deduplicates it into a digest
func (p *Pipeline) Clean(ctx context.Context, content string) (*Result, error) {
	// 1. Cache lookup
	key := p.cacheKey(content)
	if p.cache != nil {
		if data, found := p.cache.Get(key); found {
			var digest model.Digest
			if err := json.Unmarshal(data, &digest); err == nil {
				return &Result{Digest: &digest, FromCache: true}, nil
			}
			// Corrupt entry: drop it and clean from scratch
			_ = p.cache.Delete(key)
		}
	}

	// 2. Split the export into record blocks
	blocks := parse.SplitBlocks(content)

	// 3. Parse blocks into entries
	entries := make([]model.Entry, 0, len(blocks))
	skipped := 0
	for i, block := range blocks {
		entry, ok := p.parser.Parse(block, i)
		if !ok {
			skipped++
			continue
		}
		entries = append(entries, *entry)
	}

	// 4. Deduplicate per document
	digest, err := p.engine.Dedup(ctx, entries)
	if err != nil {
		return nil, fmt.Errorf("dedup: %w", err)
	}

	digest.Stats.Blocks = len(blocks)
	digest.Stats.Entries = len(entries)
	digest.Stats.SkippedBlocks = skipped

	// 5. Cache the digest for repeat runs
	if p.cache != nil {
		if data, err := json.Marshal(digest); err == nil {
			_ = p.cache.Set(key, data, 0)
		}
	}

	return &Result{Digest: digest}, nil
}

// cacheKey fingerprints the matching settings alongside the content,
// so tuning a threshold never serves a digest cleaned under the old
// one. Trace stays out of the fingerprint: it changes diagnostics,
// not results.
func (p *Pipeline) cacheKey(content string) string {
	fingerprint := fmt.Sprintf("tol=%d;clause=%d;match=%+v",
		p.config.Dedup.TimeTolerance,
		p.config.Dedup.ClauseMinLength,
		p.config.Match,
	)
	return cache.Key(content, fingerprint)
}

// RenderDigest renders the digest to the requested outputs and prints
// the summary line.
func (p *Pipeline) RenderDigest(digest *model.Digest, mdPath, jsonPath, reportPath string, verbose bool) error {
	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(digest, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	if jsonPath != "" {
		if err := p.renderer.RenderJSON(digest, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if reportPath != "" {
		if err := p.renderer.RenderReport(digest, reportPath); err != nil {
			return fmt.Errorf("render report: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote Report: %s\n", reportPath)
		}
	}

	p.renderer.RenderSummary(digest)
	return nil
}
