package model

// Document groups the surviving entries of one source document,
// ordered highlights first, then notes, then bookmarks.
type Document struct {
	Title   string  `json:"title"`
	Entries []Entry `json:"entries"`
}

// Digest is the complete result of one cleaning run. Documents appear
// in first-seen title order; the order is deterministic but carries no
// meaning beyond reproducibility.
type Digest struct {
	Documents []Document `json:"documents"`
	Stats     Stats      `json:"stats"`
}

// Stats summarizes what a cleaning run saw and dropped
type Stats struct {
	Blocks              int `json:"blocks" yaml:"blocks"`                             // Raw record blocks in the export
	Entries             int `json:"entries" yaml:"entries"`                           // Blocks that parsed into entries
	SkippedBlocks       int `json:"skipped_blocks" yaml:"skipped_blocks"`             // Degenerate blocks (fewer than two lines)
	FilteredEmpty       int `json:"filtered_empty" yaml:"filtered_empty"`             // Empty-body entries dropped as noise
	DuplicateHighlights int `json:"duplicate_highlights" yaml:"duplicate_highlights"` // Includes unknown-kind entries
	DuplicateNotes      int `json:"duplicate_notes" yaml:"duplicate_notes"`
	DuplicateBookmarks  int `json:"duplicate_bookmarks" yaml:"duplicate_bookmarks"`
	Documents           int `json:"documents" yaml:"documents"` // Distinct source documents
	Kept                int `json:"kept" yaml:"kept"`           // Entries surviving into the digest
}

// Add accumulates another run's counters into s
func (s *Stats) Add(o Stats) {
	s.Blocks += o.Blocks
	s.Entries += o.Entries
	s.SkippedBlocks += o.SkippedBlocks
	s.FilteredEmpty += o.FilteredEmpty
	s.DuplicateHighlights += o.DuplicateHighlights
	s.DuplicateNotes += o.DuplicateNotes
	s.DuplicateBookmarks += o.DuplicateBookmarks
	s.Documents += o.Documents
	s.Kept += o.Kept
}

// Duplicates returns the total duplicate entries dropped across kinds
func (s Stats) Duplicates() int {
	return s.DuplicateHighlights + s.DuplicateNotes + s.DuplicateBookmarks
}
