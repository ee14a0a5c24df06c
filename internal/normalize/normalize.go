package normalize

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"unicode"
)

// ideographThreshold is the share of CJK runes at which text counts as
// a dense-script passage. Dense scripts carry no inter-word spaces, so
// any whitespace inside them is OCR or export noise.
const ideographThreshold = 0.3

// ForCompare canonicalizes text for duplicate comparison: line endings
// unified, whitespace runs collapsed, all whitespace removed from
// dense-script text, and trailing sentence punctuation stripped. The
// result is for matching only and is never rendered.
func ForCompare(text string) string {
	if text == "" {
		return ""
	}
	t := strings.ReplaceAll(text, "\r\n", "\n")
	t = strings.ReplaceAll(t, "\r", "\n")
	t = strings.TrimSpace(t)
	t = collapseSpace(t)
	if MostlyIdeographic(t) {
		t = stripSpace(t)
	}
	return trimTerminalPunct(t)
}

// MostlyIdeographic reports whether at least ideographThreshold of the
// text's runes are CJK ideographs (U+4E00..U+9FFF).
func MostlyIdeographic(text string) bool {
	if text == "" {
		return false
	}
	total, cjk := 0, 0
	for _, r := range text {
		total++
		if r >= 0x4E00 && r <= 0x9FFF {
			cjk++
		}
	}
	return float64(cjk)/float64(total) >= ideographThreshold
}

// clauseDelims are the sentence/clause boundaries recognized by
// SplitClauses, covering ASCII and fullwidth punctuation.
var clauseDelims = map[rune]bool{
	'。': true, '！': true, '？': true, '；': true,
	';': true, '.': true, '!': true, '?': true, '\n': true,
}

// SplitClauses splits text into trimmed clause fragments. A non-empty
// input always yields at least one clause: when the text contains
// nothing but delimiters, the whole trimmed text is returned as a
// single clause.
func SplitClauses(text string) []string {
	if text == "" {
		return nil
	}

	parts := strings.FieldsFunc(text, func(r rune) bool { return clauseDelims[r] })

	clauses := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			clauses = append(clauses, p)
		}
	}

	if len(clauses) == 0 {
		return []string{strings.TrimSpace(text)}
	}
	return clauses
}

// HashContent returns the md5 hex digest of a normalized body. The
// hash is a fast-path equality check; it is never the sole duplicate
// signal.
func HashContent(norm string) string {
	sum := md5.Sum([]byte(norm))
	return hex.EncodeToString(sum[:])
}

// collapseSpace folds every whitespace run into a single ASCII space
func collapseSpace(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	pending := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			pending = true
			continue
		}
		if pending && b.Len() > 0 {
			b.WriteByte(' ')
		}
		pending = false
		b.WriteRune(r)
	}
	return b.String()
}

// stripSpace removes every whitespace rune
func stripSpace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if !unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// terminalPunct is sentence-terminal punctuation, ASCII and fullwidth
var terminalPunct = map[rune]bool{
	'。': true, '！': true, '？': true, '…': true,
	'.': true, '!': true, '?': true,
}

// trimTerminalPunct strips one trailing run of terminal punctuation
func trimTerminalPunct(s string) string {
	return strings.TrimRightFunc(s, func(r rune) bool { return terminalPunct[r] })
}
