// Package match implements the similarity tests and the duplicate
// classifier that decide whether two annotation entries captured the
// same passage. The heuristics are tuned for short highlighted
// passages, not long documents.
package match

import (
	"strings"
	"unicode/utf8"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/ppiankov/clipsift/internal/model"
)

// Subset reports whether one string literally contains the other.
// Both must be at least floor runes long; very short fragments contain
// each other too easily to mean anything.
func Subset(a, b string, floor int) bool {
	if a == "" || b == "" {
		return false
	}
	if minRunes(a, b) < floor {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// Ratio returns a character-level similarity in [0,1]: the sequence
// matcher ratio computed over runes, so multi-byte scripts compare the
// same as ASCII.
func Ratio(a, b string) float64 {
	return difflib.NewMatcher(runeSeq(a), runeSeq(b)).Ratio()
}

// CloseEnough reports near-equality at the given ratio threshold.
// Strings under shortFloor runes compare by equality only; ratios on
// very short strings are unreliable.
func CloseEnough(a, b string, threshold float64, shortFloor int) bool {
	if a == "" || b == "" {
		return false
	}
	if minRunes(a, b) < shortFloor {
		return a == b
	}
	return Ratio(a, b) >= threshold
}

// ClauseOverlap reports whether any clause of a matches any clause of
// b, by containment either way or by ratio at or above threshold.
// Clauses shorter than minLen runes are skipped on both sides. This
// catches one capture extending another, and shared core clauses that
// differ only in punctuation or quoting.
func ClauseOverlap(a, b []string, minLen int, threshold float64) bool {
	for _, ca := range a {
		if utf8.RuneCountInString(ca) < minLen {
			continue
		}
		for _, cb := range b {
			if utf8.RuneCountInString(cb) < minLen {
				continue
			}
			if strings.Contains(ca, cb) || strings.Contains(cb, ca) {
				return true
			}
			if Ratio(ca, cb) >= threshold {
				return true
			}
		}
	}
	return false
}

// RangesOverlap reports whether two location ranges intersect after
// each is widened by tol units on both ends, so captures a few units
// apart still count. Entries without a range never overlap.
func RangesOverlap(a, b *model.Location, tol int) bool {
	if a == nil || b == nil {
		return false
	}
	return !(a.End+tol < b.Start || b.End+tol < a.Start)
}

// TimeClose reports whether two capture times are within tol seconds
// of each other. Entries without a time are never close.
func TimeClose(a, b *int64, tol int64) bool {
	if a == nil || b == nil {
		return false
	}
	d := *a - *b
	if d < 0 {
		d = -d
	}
	return d <= tol
}

// runeSeq explodes a string into one-rune elements for the matcher
func runeSeq(s string) []string {
	out := make([]string, 0, utf8.RuneCountInString(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

func minRunes(a, b string) int {
	la := utf8.RuneCountInString(a)
	lb := utf8.RuneCountInString(b)
	if la < lb {
		return la
	}
	return lb
}
