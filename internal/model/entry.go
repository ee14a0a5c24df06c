package model

// Kind categorizes an annotation entry
type Kind string

const (
	KindHighlight Kind = "highlight" // Passage marked in the source document
	KindNote      Kind = "note"      // Text authored by the reader
	KindBookmark  Kind = "bookmark"  // Position marker, usually without body text
	KindUnknown   Kind = "unknown"   // Metadata matched no known phrasing
)

// Location is an annotation's start/end offset range within its
// source document. Start <= End always holds; inverted input ranges
// are swapped at parse time.
type Location struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Entry represents one parsed annotation record. Entries are
// immutable once parsed; deduplication selects and reorders them but
// never changes a field.
type Entry struct {
	Index   int       `json:"index"`              // Position in the export, stable tie-breaker
	Title   string    `json:"title"`              // Source document title (grouping key, exact match)
	Meta    string    `json:"meta"`               // Raw metadata line as exported
	Kind    Kind      `json:"kind"`               // Annotation category
	Loc     *Location `json:"loc,omitempty"`      // nil when the metadata carried no parseable range
	TimeRaw string    `json:"time_raw,omitempty"` // Capture-time phrase as exported
	Time    *int64    `json:"time,omitempty"`     // Epoch seconds, nil when unparseable
	Body    string    `json:"body"`               // Trimmed passage text; may be empty
	Norm    string    `json:"norm"`               // Comparison-normalized form of Body
	Hash    string    `json:"hash"`               // Digest of Norm, fast-path equality only
	Clauses []string  `json:"clauses,omitempty"`  // Norm split at clause boundaries
}
