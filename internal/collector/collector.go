package collector

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"SignalSentinel/internal/calculator"
	"SignalSentinel/internal/model"
)

// Collector fetches a ticker's bars plus the volatility series and
// returns the fully annotated Series.
type Collector struct {
	Fetcher          Fetcher
	VolatilitySymbol string
	Period           string
	Interval         string
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, volatilitySymbol, period, interval string) *Collector {
	return &Collector{
		Fetcher:          fetcher,
		VolatilitySymbol: volatilitySymbol,
		Period:           period,
		Interval:         interval,
	}
}

// Collect fetches market data and computes all indicator columns.
// A volatility fetch failure is logged and leaves the VIX columns undefined.
func (c *Collector) Collect(ctx context.Context, ticker string, th model.Thresholds) (*model.Series, error) {
	bars, err := c.Fetcher.FetchBars(ctx, ticker, c.Period, c.Interval)
	if err != nil {
		return nil, fmt.Errorf("fetch %s bars: %w", ticker, err)
	}
	if len(bars) < 2 {
		return nil, fmt.Errorf("%s: %d bars: %w", ticker, len(bars), ErrInsufficientBars)
	}

	s := model.NewSeries(ticker, c.Period, c.Interval, bars)
	if c.VolatilitySymbol != "" {
		vix, err := c.Fetcher.FetchBars(ctx, c.VolatilitySymbol, c.Period, c.Interval)
		if err != nil {
			log.WithField("ticker", ticker).Warnf("volatility fetch failed: %v", err)
		} else {
			matched := calculator.MergeVolatility(s, vix)
			log.WithField("ticker", ticker).Debugf("merged %d/%d volatility bars", matched, s.Len())
		}
	}
	calculator.Annotate(s, th)
	return s, nil
}
