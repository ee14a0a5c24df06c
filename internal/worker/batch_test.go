package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ppiankov/clipsift/internal/model"
	"github.com/ppiankov/clipsift/internal/pipeline"
)

// MockCleaner implements Cleaner
type MockCleaner struct {
	ShouldError bool
}

func (m *MockCleaner) Clean(ctx context.Context, content string) (*pipeline.Result, error) {
	time.Sleep(10 * time.Millisecond) // Simulate work
	if m.ShouldError {
		return nil, errors.New("clean error")
	}
	return &pipeline.Result{
		Digest: &model.Digest{
			Stats: model.Stats{Blocks: 1, Entries: 1, Kept: 1, Documents: 1},
		},
	}, nil
}

func writeExport(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s failed: %v", name, err)
	}
	return path
}

func TestBatchProcessor_ProcessFiles(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeExport(t, dir, "one.txt", "Book One\n- Meta\n\nText one.\n"),
		writeExport(t, dir, "two.txt", "Book Two\n- Meta\n\nText two.\n"),
		writeExport(t, dir, "three.txt", "Book Three\n- Meta\n\nText three.\n"),
	}

	processor := NewBatchProcessor(&MockCleaner{}, 2)
	results := processor.ProcessFiles(context.Background(), paths)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for _, res := range results {
		if res.Error != nil {
			t.Errorf("unexpected error for %s: %v", res.Path, res.Error)
		}
		if res.Digest == nil {
			t.Errorf("expected digest for %s", res.Path)
		}
	}
}

func TestBatchProcessor_ProcessFiles_CleanerError(t *testing.T) {
	dir := t.TempDir()
	path := writeExport(t, dir, "one.txt", "Book\n- Meta\n\nText.\n")

	processor := NewBatchProcessor(&MockCleaner{ShouldError: true}, 2)
	results := processor.ProcessFiles(context.Background(), []string{path})

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Error == nil {
		t.Error("expected error, got nil")
	}
	if results[0].Digest != nil {
		t.Error("expected nil digest on error")
	}
}

func TestBatchProcessor_ProcessFiles_UnreadableFile(t *testing.T) {
	processor := NewBatchProcessor(&MockCleaner{}, 2)
	results := processor.ProcessFiles(context.Background(), []string{"no_such_export.txt"})

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Error == nil {
		t.Error("expected error for unreadable file, got nil")
	}
}

func TestBatchProcessor_ProcessFiles_Empty(t *testing.T) {
	processor := NewBatchProcessor(&MockCleaner{}, 2)

	results := processor.ProcessFiles(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestBatchProcessor_ProcessDir(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, dir, "clippings.txt", "Book\n- Meta\n\nText.\n")
	writeExport(t, dir, "older.TXT", "Book\n- Meta\n\nText.\n")
	writeExport(t, dir, "notes.md", "not an export")
	if err := os.Mkdir(filepath.Join(dir, "nested.txt"), 0755); err != nil {
		t.Fatal(err)
	}

	processor := NewBatchProcessor(&MockCleaner{}, 2)
	results, err := processor.ProcessDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("ProcessDir failed: %v", err)
	}

	if len(results) != 2 {
		t.Errorf("expected 2 results, got %d", len(results))
	}
}

func TestBatchProcessor_ProcessDir_NonExistent(t *testing.T) {
	processor := NewBatchProcessor(&MockCleaner{}, 2)

	_, err := processor.ProcessDir(context.Background(), "no_such_dir")
	if err == nil {
		t.Error("expected error for non-existent directory, got nil")
	}
}

func TestListExportFiles_SortedAndFiltered(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, dir, "beta.txt", "b")
	writeExport(t, dir, "alpha.txt", "a")
	writeExport(t, dir, "readme.md", "skip")

	paths, err := ListExportFiles(dir)
	if err != nil {
		t.Fatalf("ListExportFiles failed: %v", err)
	}

	expected := []string{
		filepath.Join(dir, "alpha.txt"),
		filepath.Join(dir, "beta.txt"),
	}
	if len(paths) != len(expected) {
		t.Fatalf("expected %d paths, got %d", len(expected), len(paths))
	}
	for i, path := range paths {
		if path != expected[i] {
			t.Errorf("expected %s at index %d, got %s", expected[i], i, path)
		}
	}
}

func TestReadExportFile_DropsInvalidUTF8(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mangled.txt")
	if err := os.WriteFile(path, []byte("caf\xe9 latte"), 0644); err != nil {
		t.Fatal(err)
	}

	content, err := ReadExportFile(path)
	if err != nil {
		t.Fatalf("ReadExportFile failed: %v", err)
	}
	if content != "caf latte" {
		t.Errorf("expected invalid bytes dropped, got %q", content)
	}
}

func TestReadExportFile_NonExistent(t *testing.T) {
	_, err := ReadExportFile("no_such_export.txt")
	if err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestCleanResult_GetError(t *testing.T) {
	r1 := &CleanResult{Path: "ok.txt", Error: nil}
	if r1.GetError() != nil {
		t.Errorf("expected nil error, got %v", r1.GetError())
	}

	expected := errors.New("clean failed")
	r2 := &CleanResult{Path: "bad.txt", Error: expected}
	if r2.GetError() != expected {
		t.Errorf("expected %v, got %v", expected, r2.GetError())
	}
}
