package strategy

import (
	"sort"

	"SignalSentinel/internal/model"
)

// Engine evaluates annotated series. A nil Patterns memo classifies every pass from scratch.
type Engine struct {
	Patterns *PatternMemo
}

// NewEngine creates an engine using memo for pattern classification.
func NewEngine(memo *PatternMemo) *Engine {
	return &Engine{Patterns: memo}
}

// Evaluate assigns signals, pattern, interpretation and volume tag to every
// bar of an annotated series. It reads only derived columns and bars, so
// evaluating the same series again yields the same labels.
func (e *Engine) Evaluate(s *model.Series, th model.Thresholds) {
	var patterns []PatternResult
	if e != nil && e.Patterns != nil {
		patterns = e.Patterns.Classify(s, th)
	} else {
		patterns = classifyAll(s, th)
	}

	last := s.Len() - 1
	for i := range s.Rows {
		r := &s.Rows[i]
		r.Signals = SignalsAt(NewCursor(s, i), th)
		r.Pattern = patterns[i].Category
		r.Interpretation = patterns[i].Interpretation
		r.VolumeTag = volumeTag(r)
		r.Provisional = i == last
	}
}

// Evaluate runs an engine without memoization.
func Evaluate(s *model.Series, th model.Thresholds) {
	var e Engine
	e.Evaluate(s, th)
}

// SignalsAt evaluates every registered rule at the cursor and returns the
// fired labels in catalog order, adding the critical-pivot composite when
// more than th.CriticalPivotMin labels fired.
func SignalsAt(c Cursor, th model.Thresholds) []model.Label {
	var out []model.Label
	for _, rule := range Rules {
		if rule.Fires(c, th) {
			out = append(out, rule.Label)
		}
	}
	if len(out) > th.CriticalPivotMin {
		out = append(out, model.LabelCriticalPivot)
	}
	sortLabels(out)
	return out
}

func sortLabels(labels []model.Label) {
	sort.SliceStable(labels, func(i, j int) bool {
		return labels[i].Order() < labels[j].Order()
	})
}

// Report bundles everything a presentation sink renders for one ticker.
type Report struct {
	Series      *model.Series
	Stats       []model.SignalStats
	Summary     string
	Percentiles []PercentileRange
}

// Analyze evaluates s and derives its statistics, summary and percentile table.
func (e *Engine) Analyze(s *model.Series, th model.Thresholds) *Report {
	e.Evaluate(s, th)
	return &Report{
		Series:      s,
		Stats:       Score(s),
		Summary:     Summarize(s, th),
		Percentiles: PercentileRanges(s, th.PercentileCut),
	}
}
