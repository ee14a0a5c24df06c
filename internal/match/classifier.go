package match

import (
	"github.com/ppiankov/clipsift/internal/model"
)

// TraceFunc receives one line per positive duplicate decision naming
// the rule that fired. Tracing never alters results.
type TraceFunc func(format string, args ...interface{})

// Classifier decides whether two entries of the same kind captured the
// same passage. All thresholds come from configuration so they can be
// tuned and tested without touching the decision procedure.
type Classifier struct {
	match           model.MatchConfig
	timeTolerance   int64
	clauseMinLength int
	trace           TraceFunc
}

// NewClassifier builds a classifier from the configured thresholds.
// trace may be nil.
func NewClassifier(cfg *model.Config, trace TraceFunc) *Classifier {
	return &Classifier{
		match:           cfg.Match,
		timeTolerance:   cfg.Dedup.TimeTolerance,
		clauseMinLength: cfg.Dedup.ClauseMinLength,
		trace:           trace,
	}
}

// IsDuplicate reports whether cur captures the same passage as kept.
// The decision is commutative in effect. Corroborating structural
// signals relax the textual bar: overlapping location ranges, or
// capture times within the tolerance, each admit weaker text matches,
// while a pair with neither signal must be near-identical.
func (c *Classifier) IsDuplicate(cur, kept *model.Entry) bool {
	a, b := cur.Norm, kept.Norm
	if a == "" || b == "" {
		return false
	}

	// Hash narrows, equality confirms.
	if cur.Hash == kept.Hash && a == b {
		c.tracef("dup exact: %q", snippet(a))
		return true
	}

	overlap := RangesOverlap(cur.Loc, kept.Loc, c.match.LocationTolerance)
	timeClose := TimeClose(cur.Time, kept.Time, c.timeTolerance)

	clauseRatio := c.match.ClauseRatio
	if timeClose {
		clauseRatio = c.match.ClauseRatioTimeClose
	}
	clauseMatch := ClauseOverlap(cur.Clauses, kept.Clauses, c.clauseMinLength, clauseRatio)

	if overlap {
		switch {
		case clauseMatch:
			c.tracef("dup overlap+clause: %q ~ %q", snippet(a), snippet(b))
			return true
		case Subset(a, b, c.match.OverlapSubsetFloor):
			c.tracef("dup overlap+subset: %q ~ %q", snippet(a), snippet(b))
			return true
		case CloseEnough(a, b, c.match.OverlapRatio, c.match.RatioShortFloor):
			c.tracef("dup overlap+ratio: %q ~ %q", snippet(a), snippet(b))
			return true
		}
		return false
	}

	subsetFloor := c.match.SubsetFloor
	ratio := c.match.Ratio
	if timeClose {
		subsetFloor = c.match.SubsetFloorTimeClose
		ratio = c.match.RatioTimeClose
	}

	switch {
	case clauseMatch:
		c.tracef("dup clause: %q ~ %q", snippet(a), snippet(b))
		return true
	case Subset(a, b, subsetFloor):
		c.tracef("dup subset: %q ~ %q", snippet(a), snippet(b))
		return true
	case CloseEnough(a, b, ratio, c.match.RatioShortFloor):
		c.tracef("dup ratio: %q ~ %q", snippet(a), snippet(b))
		return true
	}
	return false
}

func (c *Classifier) tracef(format string, args ...interface{}) {
	if c.trace != nil {
		c.trace(format, args...)
	}
}

// snippet shortens a normalized body for trace output
func snippet(s string) string {
	const max = 40
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
