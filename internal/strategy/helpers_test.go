package strategy

import (
	"math"
	"time"

	"SignalSentinel/internal/calculator"
	"SignalSentinel/internal/model"
)

var t0 = time.Date(2024, 3, 4, 14, 30, 0, 0, time.UTC)

// flatSeries builds n identical bars with undefined indicators, then applies fill.
func flatSeries(n int, fill func(i int, r *model.Row)) *model.Series {
	bars := make([]model.Bar, n)
	for i := range bars {
		bars[i] = model.Bar{
			Time: t0.Add(time.Duration(i) * 5 * time.Minute),
			Open: 100, High: 101, Low: 99, Close: 100, Volume: 1000,
		}
	}
	s := model.NewSeries("TEST", "5d", "5m", bars)
	if fill != nil {
		for i := range s.Rows {
			fill(i, &s.Rows[i])
		}
	}
	return s
}

// ohlc builds a series from explicit bars with undefined indicators.
func ohlc(bars ...model.Bar) *model.Series {
	for i := range bars {
		bars[i].Time = t0.Add(time.Duration(i) * 5 * time.Minute)
	}
	return model.NewSeries("TEST", "5d", "5m", bars)
}

func uptrendSeries(n int) *model.Series {
	bars := make([]model.Bar, n)
	for i := range bars {
		c := 100 + float64(i)
		bars[i] = model.Bar{
			Time: t0.Add(time.Duration(i) * 5 * time.Minute),
			Open: c - 0.5, High: c + 0.5, Low: c - 1, Close: c, Volume: 1000,
		}
	}
	return model.NewSeries("UP", "5d", "5m", bars)
}

// wavySeries is a deterministic oscillating series with varying volume.
func wavySeries(n int) *model.Series {
	bars := make([]model.Bar, n)
	prev := 100.0
	for i := range bars {
		c := 100 + 6*math.Sin(float64(i)/3) + 0.05*float64(i)
		open := prev + 0.8*math.Cos(float64(i))
		bars[i] = model.Bar{
			Time:   t0.Add(time.Duration(i) * 5 * time.Minute),
			Open:   open,
			High:   math.Max(open, c) + 0.4 + 0.3*math.Abs(math.Sin(float64(i)*1.7)),
			Low:    math.Min(open, c) - 0.4 - 0.3*math.Abs(math.Cos(float64(i)*1.3)),
			Close:  c,
			Volume: 1000 + 600*math.Abs(math.Sin(float64(i)/2)),
		}
		prev = c
	}
	s := model.NewSeries("WAVE", "5d", "5m", bars)
	vix := make([]model.Bar, n)
	for i := range vix {
		vix[i] = model.Bar{Time: bars[i].Time, Close: 25 + 8*math.Sin(float64(i)/4)}
	}
	calculator.MergeVolatility(s, vix)
	return s
}

func firedAt(s *model.Series, label model.Label) []int {
	var out []int
	for i := range s.Rows {
		if s.Rows[i].HasSignal(label) {
			out = append(out, i)
		}
	}
	return out
}
