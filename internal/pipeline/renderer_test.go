package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/ppiankov/clipsift/internal/model"
)

func testDigest() *model.Digest {
	return &model.Digest{
		Documents: []model.Document{
			{
				Title: "Deep Work",
				Entries: []model.Entry{
					{Index: 0, Title: "Deep Work", Kind: model.KindHighlight, Body: "Focus is the new IQ."},
					{Index: 1, Title: "Deep Work", Kind: model.KindNote, Body: "Revisit chapter two."},
				},
			},
		},
		Stats: model.Stats{Blocks: 3, Entries: 3, Kept: 2, Documents: 1, DuplicateHighlights: 1},
	}
}

func TestRenderer_MarkdownLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "digest.md")

	if err := NewRenderer(true).RenderMarkdown(testDigest(), path); err != nil {
		t.Fatalf("RenderMarkdown failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Reading output failed: %v", err)
	}
	content := string(data)

	if !strings.HasPrefix(content, "\ufeff") {
		t.Error("Expected output to start with a byte-order mark")
	}
	if !strings.Contains(content, "## Deep Work\n\n") {
		t.Error("Expected a heading per document")
	}
	if !strings.Contains(content, "Focus is the new IQ.\n\nRevisit chapter two.\n\n") {
		t.Error("Expected entries as blank-line separated paragraphs")
	}
}

func TestRenderer_MarkdownWithoutBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "digest.md")

	if err := NewRenderer(false).RenderMarkdown(testDigest(), path); err != nil {
		t.Fatalf("RenderMarkdown failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Reading output failed: %v", err)
	}
	if strings.HasPrefix(string(data), "\ufeff") {
		t.Error("Expected no byte-order mark")
	}
}

func TestRenderer_MarkdownPlaceholderForBodilessEntries(t *testing.T) {
	digest := &model.Digest{
		Documents: []model.Document{
			{
				Title: "Atlas",
				Entries: []model.Entry{
					{Kind: model.KindBookmark, Meta: "- Bookmark | Location 50", Body: ""},
				},
			},
		},
	}

	path := filepath.Join(t.TempDir(), "digest.md")
	if err := NewRenderer(false).RenderMarkdown(digest, path); err != nil {
		t.Fatalf("RenderMarkdown failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Reading output failed: %v", err)
	}
	if !strings.Contains(string(data), "[bookmark] - Bookmark | Location 50\n\n") {
		t.Errorf("Expected a kind and metadata placeholder, got %q", data)
	}
}

func TestRenderer_JSONRoundtrip(t *testing.T) {
	digest := testDigest()
	path := filepath.Join(t.TempDir(), "digest.json")

	if err := NewRenderer(false).RenderJSON(digest, path); err != nil {
		t.Fatalf("RenderJSON failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Reading output failed: %v", err)
	}

	var loaded model.Digest
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !reflect.DeepEqual(digest, &loaded) {
		t.Error("Expected the written digest to load back unchanged")
	}
}

func TestRenderer_ReportFormats(t *testing.T) {
	digest := testDigest()
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "stats.yaml")
	if err := NewRenderer(false).RenderReport(digest, yamlPath); err != nil {
		t.Fatalf("RenderReport failed: %v", err)
	}
	data, err := os.ReadFile(yamlPath)
	if err != nil {
		t.Fatalf("Reading output failed: %v", err)
	}
	if !strings.Contains(string(data), "kept: 2") {
		t.Errorf("Expected YAML stats, got %q", data)
	}

	jsonPath := filepath.Join(dir, "stats.json")
	if err := NewRenderer(false).RenderReport(digest, jsonPath); err != nil {
		t.Fatalf("RenderReport failed: %v", err)
	}
	data, err = os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("Reading output failed: %v", err)
	}

	var stats model.Stats
	if err := json.Unmarshal(data, &stats); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if stats != digest.Stats {
		t.Errorf("Expected stats to load back unchanged, got %+v", stats)
	}
}
