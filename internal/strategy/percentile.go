package strategy

import (
	"math"
	"sort"

	"SignalSentinel/internal/model"
)

// PercentileRange is the value span of the top and bottom cut% of one column.
type PercentileRange struct {
	Column     string
	Count      int
	TopLow     float64
	TopHigh    float64
	BottomLow  float64
	BottomHigh float64
}

var percentileColumns = []struct {
	name string
	get  func(r *model.Row) float64
}{
	{"price change %", func(r *model.Row) float64 { return r.PriceChangePct }},
	{"volume change %", func(r *model.Row) float64 { return r.VolumeChangePct }},
	{"volume", func(r *model.Row) float64 { return r.Volume }},
	{"price surge %", func(r *model.Row) float64 { return r.PriceSurgePct }},
	{"volume surge %", func(r *model.Row) float64 { return r.VolumeSurgePct }},
}

// PercentileRanges reports, per column, the range covered by the highest and
// lowest cut percent of defined values. Columns without defined values are
// omitted.
func PercentileRanges(s *model.Series, cut float64) []PercentileRange {
	if cut <= 0 || cut > 100 {
		return nil
	}
	var out []PercentileRange
	for _, col := range percentileColumns {
		values := make([]float64, 0, s.Len())
		for i := range s.Rows {
			if v := col.get(&s.Rows[i]); model.Defined(v) {
				values = append(values, v)
			}
		}
		n := len(values)
		if n == 0 {
			continue
		}
		sort.Float64s(values)
		k := int(math.Ceil(float64(n) * cut / 100))
		if k < 1 {
			k = 1
		}
		out = append(out, PercentileRange{
			Column:     col.name,
			Count:      k,
			TopLow:     values[n-k],
			TopHigh:    values[n-1],
			BottomLow:  values[0],
			BottomHigh: values[k-1],
		})
	}
	return out
}
