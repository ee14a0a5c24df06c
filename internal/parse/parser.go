package parse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ppiankov/clipsift/internal/model"
	"github.com/ppiankov/clipsift/internal/normalize"
)

// Each metadata field is scanned by an ordered list of locale
// phrasings, first match wins. New locales are supported by appending
// a pattern, never by widening an existing one.
var (
	kindPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Your\s+(Highlight|Note|Bookmark)`),
		regexp.MustCompile(`您在.*?的(标注|笔记|书签)`),
	}

	locPatterns = []*regexp.Regexp{
		regexp.MustCompile(`位置\s*#?(\d+)(?:-(\d+))?`),
		regexp.MustCompile(`(?i)Location(?:s)?\s*#?(\d+)(?:-(\d+))?`),
		regexp.MustCompile(`(?i)loc\.\s*(\d+)(?:-(\d+))?`),
	}

	timePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Added on\s+(.+)`),
		regexp.MustCompile(`添加于\s+(.+)`),
	}
)

// kindNames maps matched kind words, lowercased, to their category
var kindNames = map[string]model.Kind{
	"highlight": model.KindHighlight,
	"note":      model.KindNote,
	"bookmark":  model.KindBookmark,
	"标注":        model.KindHighlight,
	"笔记":        model.KindNote,
	"书签":        model.KindBookmark,
}

// Parser turns raw export blocks into entries
type Parser struct{}

// NewParser creates a new parser
func NewParser() *Parser {
	return &Parser{}
}

// Parse parses one record block at the given export position. It
// reports false for degenerate blocks (fewer than two lines); every
// other block yields an entry. Metadata fields that match no phrasing
// are recorded as unknown or absent, never as a failure.
func (p *Parser) Parse(block string, index int) (*model.Entry, bool) {
	lines := strings.Split(block, "\n")
	if len(lines) < 2 {
		return nil, false
	}

	title := stripBOM(lines[0])
	meta := strings.TrimSpace(lines[1])
	body := joinBody(lines[2:])

	timeRaw := parseTimePhrase(meta)
	norm := normalize.ForCompare(body)

	return &model.Entry{
		Index:   index,
		Title:   title,
		Meta:    meta,
		Kind:    parseKind(meta),
		Loc:     parseLocation(meta),
		TimeRaw: timeRaw,
		Time:    parseEpoch(timeRaw),
		Body:    body,
		Norm:    norm,
		Hash:    normalize.HashContent(norm),
		Clauses: normalize.SplitClauses(norm),
	}, true
}

// stripBOM removes any leading byte-order marks and surrounding
// whitespace from a title line.
func stripBOM(s string) string {
	return strings.TrimSpace(strings.TrimLeft(s, "\ufeff"))
}

// joinBody joins body lines after dropping leading blank ones
func joinBody(lines []string) string {
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// parseKind scans the metadata line for an annotation kind
func parseKind(meta string) model.Kind {
	for _, re := range kindPatterns {
		m := re.FindStringSubmatch(meta)
		if m == nil {
			continue
		}
		if kind, ok := kindNames[strings.ToLower(m[1])]; ok {
			return kind
		}
	}
	return model.KindUnknown
}

// parseLocation scans the metadata line for a numeric location range.
// A single number stands for a one-unit range; an inverted pair is
// swapped so Start <= End.
func parseLocation(meta string) *model.Location {
	for _, re := range locPatterns {
		m := re.FindStringSubmatch(meta)
		if m == nil {
			continue
		}

		start, _ := strconv.Atoi(m[1])
		end := start
		if m[2] != "" {
			end, _ = strconv.Atoi(m[2])
		}
		if start > end {
			start, end = end, start
		}
		return &model.Location{Start: start, End: end}
	}
	return nil
}

// parseTimePhrase scans the metadata line for the capture-time phrase
func parseTimePhrase(meta string) string {
	for _, re := range timePatterns {
		if m := re.FindStringSubmatch(meta); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}
