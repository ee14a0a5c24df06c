package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/clipsift/internal/model"
	"github.com/ppiankov/clipsift/internal/pipeline"
)

// Cleaner defines the interface for cleaning one export's content
type Cleaner interface {
	Clean(ctx context.Context, content string) (*pipeline.Result, error)
}

// CleanJob represents one export file to clean
type CleanJob struct {
	Path    string
	Cleaner Cleaner
}

// Execute reads and cleans the export file
func (j *CleanJob) Execute(ctx context.Context) Result {
	content, err := ReadExportFile(j.Path)
	if err != nil {
		return &CleanResult{Path: j.Path, Error: err}
	}

	result, err := j.Cleaner.Clean(ctx, content)
	if err != nil {
		return &CleanResult{Path: j.Path, Error: err}
	}

	return &CleanResult{
		Path:      j.Path,
		Digest:    result.Digest,
		FromCache: result.FromCache,
	}
}

// CleanResult represents the result of cleaning one export file
type CleanResult struct {
	Path      string
	Digest    *model.Digest
	FromCache bool
	Error     error
}

// GetError returns the error from the clean result
func (r *CleanResult) GetError() error {
	return r.Error
}

// BatchProcessor cleans multiple export files concurrently
type BatchProcessor struct {
	cleaner     Cleaner
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(cleaner Cleaner, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		cleaner:     cleaner,
		concurrency: concurrency,
	}
}

// ProcessFiles cleans the given export files concurrently
func (b *BatchProcessor) ProcessFiles(ctx context.Context, paths []string) []*CleanResult {
	if len(paths) == 0 {
		return []*CleanResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for _, path := range paths {
		pool.Submit(&CleanJob{Path: path, Cleaner: b.cleaner})
	}

	results := pool.Wait()

	cleanResults := make([]*CleanResult, len(results))
	for i, result := range results {
		cleanResults[i] = result.(*CleanResult)
	}
	return cleanResults
}

// ProcessDir cleans every export file found in dir
func (b *BatchProcessor) ProcessDir(ctx context.Context, dir string) ([]*CleanResult, error) {
	paths, err := ListExportFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("list exports: %w", err)
	}
	return b.ProcessFiles(ctx, paths), nil
}

// ListExportFiles returns the .txt files in dir, sorted by name
func ListExportFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".txt") {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	return paths, nil
}

// ReadExportFile reads an export, dropping any bytes that are not
// valid UTF-8. Reader devices occasionally write mangled sequences and
// the rest of the file is still worth cleaning.
func ReadExportFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return strings.ToValidUTF8(string(data), ""), nil
}
