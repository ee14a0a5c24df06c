package dedup

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/ppiankov/clipsift/internal/match"
	"github.com/ppiankov/clipsift/internal/model"
)

// Engine groups entries by document and removes duplicate annotations
// within each group. Documents never influence each other.
type Engine struct {
	classifier *match.Classifier
	workers    int
}

// NewEngine creates an engine using the given classifier for fuzzy
// highlight comparison.
func NewEngine(cfg *model.Config, classifier *match.Classifier) *Engine {
	workers := cfg.Concurrency.DocumentWorkers
	if workers < 1 {
		workers = 1
	}
	return &Engine{
		classifier: classifier,
		workers:    workers,
	}
}

// Dedup partitions entries by document title and deduplicates each
// document independently. Documents come back in first-seen order, so
// repeated runs over the same export produce identical digests.
func (e *Engine) Dedup(ctx context.Context, entries []model.Entry) (*model.Digest, error) {
	titles, groups := groupByTitle(entries)

	docs := make([]model.Document, len(titles))
	stats := make([]model.Stats, len(titles))

	if e.workers <= 1 || len(titles) <= 1 {
		for i, title := range titles {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			docs[i], stats[i] = e.dedupDocument(title, groups[title])
		}
	} else {
		var wg sync.WaitGroup
		sem := make(chan struct{}, e.workers)

		for i, title := range titles {
			wg.Add(1)
			go func(i int, title string) {
				defer wg.Done()

				select {
				case <-ctx.Done():
					return
				case sem <- struct{}{}:
				}
				defer func() { <-sem }()

				docs[i], stats[i] = e.dedupDocument(title, groups[title])
			}(i, title)
		}
		wg.Wait()

		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	digest := &model.Digest{Documents: docs}
	for i := range stats {
		digest.Stats.Add(stats[i])
	}
	digest.Stats.Documents = len(docs)
	return digest, nil
}

// groupByTitle buckets entries per document, remembering the order in
// which titles first appear in the export.
func groupByTitle(entries []model.Entry) ([]string, map[string][]model.Entry) {
	var titles []string
	groups := make(map[string][]model.Entry)
	for _, entry := range entries {
		if _, ok := groups[entry.Title]; !ok {
			titles = append(titles, entry.Title)
		}
		groups[entry.Title] = append(groups[entry.Title], entry)
	}
	return titles, groups
}

// dedupDocument scans a document's entries from the end of the export
// backwards, so when two entries duplicate each other the later
// re-capture survives. Highlights use the fuzzy classifier, notes
// match on normalized text only, and bookmarks match on their
// metadata line.
func (e *Engine) dedupDocument(title string, entries []model.Entry) (model.Document, model.Stats) {
	var st model.Stats

	var highlights, notes, bookmarks []model.Entry
	seenNotes := make(map[string]struct{})
	seenMarks := make(map[string]struct{})

	for i := len(entries) - 1; i >= 0; i-- {
		cur := entries[i]

		// An entry with no body carries nothing worth keeping.
		if strings.TrimSpace(cur.Body) == "" {
			st.FilteredEmpty++
			continue
		}

		switch cur.Kind {
		case model.KindNote:
			if _, ok := seenNotes[cur.Norm]; ok {
				st.DuplicateNotes++
				continue
			}
			seenNotes[cur.Norm] = struct{}{}
			notes = append(notes, cur)
		case model.KindBookmark:
			if _, ok := seenMarks[cur.Meta]; ok {
				st.DuplicateBookmarks++
				continue
			}
			seenMarks[cur.Meta] = struct{}{}
			bookmarks = append(bookmarks, cur)
		default:
			// Unrecognized kinds are treated as highlights so a new
			// locale's captures still deduplicate.
			if e.matchesKept(&cur, highlights) {
				st.DuplicateHighlights++
				continue
			}
			highlights = append(highlights, cur)
		}
	}

	sortEntries(highlights)
	sortEntries(notes)
	sortEntries(bookmarks)

	kept := make([]model.Entry, 0, len(highlights)+len(notes)+len(bookmarks))
	kept = append(kept, highlights...)
	kept = append(kept, notes...)
	kept = append(kept, bookmarks...)

	st.Kept = len(kept)
	return model.Document{Title: title, Entries: kept}, st
}

func (e *Engine) matchesKept(cur *model.Entry, kept []model.Entry) bool {
	for i := range kept {
		if e.classifier.IsDuplicate(cur, &kept[i]) {
			return true
		}
	}
	return false
}

func sortEntries(entries []model.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entryLess(&entries[i], &entries[j])
	})
}

// entryLess orders located entries by range start and places
// unlocated ones after them, newest first. Original export position
// breaks every tie.
func entryLess(a, b *model.Entry) bool {
	aLoc, bLoc := a.Loc != nil, b.Loc != nil
	if aLoc != bLoc {
		return aLoc
	}
	if aLoc {
		if a.Loc.Start != b.Loc.Start {
			return a.Loc.Start < b.Loc.Start
		}
		return a.Index < b.Index
	}

	var at, bt int64
	if a.Time != nil {
		at = *a.Time
	}
	if b.Time != nil {
		bt = *b.Time
	}
	if at != bt {
		return at > bt
	}
	return a.Index < b.Index
}
