package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/clipsift/internal/model"
)

// Renderer writes digests to their output formats
type Renderer struct {
	bom bool
}

// NewRenderer creates a renderer. When bom is set, markdown output
// starts with a UTF-8 byte-order mark so older reader apps detect the
// encoding.
func NewRenderer(bom bool) *Renderer {
	return &Renderer{bom: bom}
}

// RenderMarkdown writes the digest as a markdown file, one section per
// document with its surviving entries as paragraphs.
func (r *Renderer) RenderMarkdown(digest *model.Digest, path string) error {
	var b strings.Builder

	if r.bom {
		b.WriteString("\ufeff")
	}

	for _, doc := range digest.Documents {
		fmt.Fprintf(&b, "## %s\n\n", doc.Title)
		for _, entry := range doc.Entries {
			if entry.Body != "" {
				fmt.Fprintf(&b, "%s\n\n", entry.Body)
			} else {
				// A bodiless entry still marks a position worth keeping.
				fmt.Fprintf(&b, "[%s] %s\n\n", entry.Kind, entry.Meta)
			}
		}
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

// RenderJSON writes the complete digest, entries included, as
// indented JSON.
func (r *Renderer) RenderJSON(digest *model.Digest, path string) error {
	data, err := json.MarshalIndent(digest, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal digest: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write JSON: %w", err)
	}
	return nil
}

// RenderReport writes the run statistics on their own, as YAML by
// default or JSON when the path asks for it.
func (r *Renderer) RenderReport(digest *model.Digest, path string) error {
	var (
		data []byte
		err  error
	)
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		data, err = json.MarshalIndent(digest.Stats, "", "  ")
		if err == nil {
			data = append(data, '\n')
		}
	} else {
		data, err = yaml.Marshal(digest.Stats)
	}
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderSummary prints a one-line digest summary to stdout
func (r *Renderer) RenderSummary(digest *model.Digest) {
	st := digest.Stats
	fmt.Printf("Kept %d of %d entries across %d documents (%d duplicates, %d empty)\n",
		st.Kept, st.Entries, st.Documents, st.Duplicates(), st.FilteredEmpty)
}
