package model

// PatternCategory is the single candlestick classification assigned to a bar.
type PatternCategory string

const (
	PatternNone             PatternCategory = "ordinary bar"
	PatternHammer           PatternCategory = "hammer"
	PatternShootingStar     PatternCategory = "shooting star"
	PatternDoji             PatternCategory = "doji"
	PatternStrongBull       PatternCategory = "strong bull"
	PatternStrongBear       PatternCategory = "strong bear"
	PatternBullishEngulfing PatternCategory = "bullish engulfing"
	PatternBearishEngulfing PatternCategory = "bearish engulfing"
	PatternDarkCloudCover   PatternCategory = "dark cloud cover"
	PatternPiercing         PatternCategory = "piercing pattern"
	PatternMorningStar      PatternCategory = "morning star"
	PatternEveningStar      PatternCategory = "evening star"
)

// Bias groups patterns for the multi-bar summary.
type Bias int

const (
	BiasNeutral Bias = iota
	BiasBullish
	BiasBearish
)

func (p PatternCategory) Bias() Bias {
	switch p {
	case PatternHammer, PatternStrongBull, PatternBullishEngulfing, PatternPiercing, PatternMorningStar:
		return BiasBullish
	case PatternShootingStar, PatternStrongBear, PatternBearishEngulfing, PatternDarkCloudCover, PatternEveningStar:
		return BiasBearish
	default:
		return BiasNeutral
	}
}

// VolumeTag compares a bar's volume to its trailing-5 average.
type VolumeTag string

const (
	HighVolume VolumeTag = "high volume"
	LowVolume  VolumeTag = "low volume"
)
