package model

import "fmt"

// Label names one entry of the signal catalog.
type Label string

// Direction is the outcome a label predicts for the next bar.
type Direction string

const (
	Bullish Direction = "bullish"
	Bearish Direction = "bearish"
)

const (
	LabelVolumePrice Label = "volume-price"
	LabelRangeUp     Label = "low above prior high"
	LabelRangeDown   Label = "high below prior low"

	LabelMACDBuy  Label = "MACD buy crossover"
	LabelMACDSell Label = "MACD sell crossover"
	LabelEMABuy   Label = "EMA buy crossover"
	LabelEMASell  Label = "EMA sell crossover"

	LabelTrendBuy           Label = "price-trend buy"
	LabelTrendSell          Label = "price-trend sell"
	LabelTrendVolumeBuy     Label = "price-trend buy (volume)"
	LabelTrendVolumeSell    Label = "price-trend sell (volume)"
	LabelTrendVolumePctBuy  Label = "price-trend buy (volume %)"
	LabelTrendVolumePctSell Label = "price-trend sell (volume %)"

	LabelGapCommonUp       Label = "common gap up"
	LabelGapBreakawayUp    Label = "breakaway gap up"
	LabelGapRunawayUp      Label = "runaway gap up"
	LabelGapExhaustionUp   Label = "exhaustion gap up"
	LabelGapCommonDown     Label = "common gap down"
	LabelGapBreakawayDown  Label = "breakaway gap down"
	LabelGapRunawayDown    Label = "runaway gap down"
	LabelGapExhaustionDown Label = "exhaustion gap down"

	LabelContinuousUpBuy    Label = "continuous up-buy"
	LabelContinuousDownSell Label = "continuous down-sell"

	LabelSMA50Up      Label = "SMA50 uptrend"
	LabelSMA50Down    Label = "SMA50 downtrend"
	LabelSMA50200Up   Label = "SMA50/200 uptrend"
	LabelSMA50200Down Label = "SMA50/200 downtrend"

	LabelNewBuy        Label = "new buy"
	LabelNewSell       Label = "new sell"
	LabelNewPivot      Label = "new pivot"
	LabelCriticalPivot Label = "critical pivot"

	LabelRSIMACDOversold     Label = "RSI-MACD oversold crossover"
	LabelEMASMAUptrendBuy    Label = "EMA-SMA uptrend buy"
	LabelVolumeMACDBuy       Label = "volume-MACD buy"
	LabelRSIMACDOverbought   Label = "RSI-MACD overbought crossover"
	LabelEMASMADowntrendSell Label = "EMA-SMA downtrend sell"
	LabelVolumeMACDSell      Label = "volume-MACD sell"

	LabelEMA1030Buy        Label = "EMA10/30 buy"
	LabelEMA1030StrongBuy  Label = "EMA10/30/40 strong buy"
	LabelEMA1030Sell       Label = "EMA10/30 sell"
	LabelEMA1030StrongSell Label = "EMA10/30/40 strong sell"

	LabelBullishEngulfing Label = "bullish engulfing"
	LabelBearishEngulfing Label = "bearish engulfing"
	LabelHammer           Label = "hammer"
	LabelHangingMan       Label = "hanging man"
	LabelMorningStar      Label = "morning star"
	LabelEveningStar      Label = "evening star"
	LabelDarkCloudCover   Label = "dark cloud cover"
	LabelPiercingLine     Label = "piercing line"

	LabelVWAPBuy  Label = "VWAP buy"
	LabelVWAPSell Label = "VWAP sell"

	LabelMFIBullDivergence Label = "MFI bullish divergence"
	LabelMFIBearDivergence Label = "MFI bearish divergence"

	LabelOBVBuy  Label = "OBV breakout buy"
	LabelOBVSell Label = "OBV breakdown sell"

	LabelVIXPanicSell    Label = "VIX panic sell"
	LabelVIXCalmBuy      Label = "VIX calm buy"
	LabelVIXUptrendSell  Label = "VIX uptrend sell"
	LabelVIXDowntrendBuy Label = "VIX downtrend buy"
)

// CatalogEntry declares a label's scoring direction and whether it counts
// toward the broad "interesting bar" alert.
type CatalogEntry struct {
	Label     Label
	Direction Direction
	Alerting  bool
}

// Catalog lists every label in display order.
var Catalog = []CatalogEntry{
	{LabelVolumePrice, Bullish, true},
	{LabelRangeUp, Bullish, true},
	{LabelRangeDown, Bearish, true},
	{LabelMACDBuy, Bullish, true},
	{LabelMACDSell, Bearish, true},
	{LabelEMABuy, Bullish, true},
	{LabelEMASell, Bearish, true},
	{LabelTrendBuy, Bullish, true},
	{LabelTrendSell, Bearish, true},
	{LabelTrendVolumeBuy, Bullish, true},
	{LabelTrendVolumeSell, Bearish, true},
	{LabelTrendVolumePctBuy, Bullish, true},
	{LabelTrendVolumePctSell, Bearish, true},
	{LabelGapCommonUp, Bullish, true},
	{LabelGapBreakawayUp, Bullish, true},
	{LabelGapRunawayUp, Bullish, true},
	{LabelGapExhaustionUp, Bullish, true},
	{LabelGapCommonDown, Bearish, true},
	{LabelGapBreakawayDown, Bearish, true},
	{LabelGapRunawayDown, Bearish, true},
	{LabelGapExhaustionDown, Bearish, true},
	{LabelContinuousUpBuy, Bullish, true},
	{LabelContinuousDownSell, Bearish, true},
	{LabelSMA50Up, Bullish, true},
	{LabelSMA50Down, Bearish, true},
	{LabelSMA50200Up, Bullish, true},
	{LabelSMA50200Down, Bearish, true},
	{LabelNewBuy, Bullish, true},
	{LabelNewSell, Bearish, true},
	{LabelNewPivot, Bullish, true},
	{LabelCriticalPivot, Bullish, false},
	{LabelRSIMACDOversold, Bullish, false},
	{LabelEMASMAUptrendBuy, Bullish, false},
	{LabelVolumeMACDBuy, Bullish, false},
	{LabelRSIMACDOverbought, Bearish, false},
	{LabelEMASMADowntrendSell, Bearish, false},
	{LabelVolumeMACDSell, Bearish, false},
	{LabelEMA1030Buy, Bullish, true},
	{LabelEMA1030StrongBuy, Bullish, true},
	{LabelEMA1030Sell, Bearish, true},
	{LabelEMA1030StrongSell, Bearish, true},
	{LabelBullishEngulfing, Bullish, true},
	{LabelBearishEngulfing, Bearish, true},
	{LabelHammer, Bullish, true},
	{LabelHangingMan, Bearish, true},
	{LabelMorningStar, Bullish, true},
	{LabelEveningStar, Bearish, true},
	{LabelDarkCloudCover, Bearish, false},
	{LabelPiercingLine, Bullish, false},
	{LabelVWAPBuy, Bullish, true},
	{LabelVWAPSell, Bearish, true},
	{LabelMFIBullDivergence, Bullish, true},
	{LabelMFIBearDivergence, Bearish, true},
	{LabelOBVBuy, Bullish, true},
	{LabelOBVSell, Bearish, true},
	{LabelVIXPanicSell, Bearish, true},
	{LabelVIXCalmBuy, Bullish, true},
	{LabelVIXUptrendSell, Bearish, true},
	{LabelVIXDowntrendBuy, Bullish, true},
}

var catalogIndex = func() map[Label]int {
	m := make(map[Label]int, len(Catalog))
	for i, e := range Catalog {
		m[e.Label] = i
	}
	return m
}()

// Direction returns the label's declared direction. Unknown labels are bullish.
func (l Label) Direction() Direction {
	if i, ok := catalogIndex[l]; ok {
		return Catalog[i].Direction
	}
	return Bullish
}

// Alerting reports whether the label participates in the broad alert decision.
func (l Label) Alerting() bool {
	if i, ok := catalogIndex[l]; ok {
		return Catalog[i].Alerting
	}
	return false
}

// Order returns the label's position in the catalog, or -1.
func (l Label) Order() int {
	if i, ok := catalogIndex[l]; ok {
		return i
	}
	return -1
}

// ParseLabel resolves a catalog label by its name.
func ParseLabel(name string) (Label, error) {
	l := Label(name)
	if _, ok := catalogIndex[l]; !ok {
		return "", fmt.Errorf("unknown signal label %q", name)
	}
	return l, nil
}

// SignalStats is the per-label success-rate record for one evaluation pass.
type SignalStats struct {
	Label       Label
	Direction   Direction
	Triggers    int
	Successes   int
	SuccessRate float64 // 0..100
}
