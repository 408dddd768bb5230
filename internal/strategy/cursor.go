package strategy

import "SignalSentinel/internal/model"

// Cursor is a bounded-lookback view of an annotated series positioned at one bar.
// Lookups outside the series report ok=false instead of panicking.
type Cursor struct {
	rows []model.Row
	i    int
}

// NewCursor positions a cursor at bar i of s.
func NewCursor(s *model.Series, i int) Cursor {
	return Cursor{rows: s.Rows, i: i}
}

func (c Cursor) Index() int { return c.i }

// Current returns the bar under the cursor.
func (c Cursor) Current() *model.Row { return &c.rows[c.i] }

// At returns the bar offset positions away from the cursor.
func (c Cursor) At(offset int) (*model.Row, bool) {
	j := c.i + offset
	if j < 0 || j >= len(c.rows) {
		return nil, false
	}
	return &c.rows[j], true
}

// Prev returns the previous bar.
func (c Cursor) Prev() (*model.Row, bool) { return c.At(-1) }

// Next returns the following bar. Only retrospective classifications use it.
func (c Cursor) Next() (*model.Row, bool) { return c.At(1) }

// MeanClose averages the closes of the n bars ending offset bars before the
// cursor (exclusive). It reports false when fewer than n such bars exist.
func (c Cursor) MeanClose(n, offset int) (float64, bool) {
	end := c.i - offset
	start := end - n
	if n <= 0 || start < 0 || end > len(c.rows) {
		return 0, false
	}
	sum := 0.0
	for _, r := range c.rows[start:end] {
		sum += r.Close
	}
	return sum / float64(n), true
}
