package model

// Thresholds is the immutable parameter set handed to every evaluation.
// It is passed by value so a pass can never observe a change mid-cycle.
type Thresholds struct {
	PriceSurge  float64 // volume-price co-move, % above trailing mean
	VolumeSurge float64

	PivotPriceChange  float64
	PivotVolumeChange float64
	CriticalPivotMin  int // label count that must be exceeded

	Gap float64 // percent

	ContinuousUp   int
	ContinuousDown int
	// StreakRSIGate blocks streak signals once RSI is already beyond
	// StreakRSIUpper (up streaks) or StreakRSILower (down streaks).
	StreakRSIGate  bool
	StreakRSIUpper float64
	StreakRSILower float64

	VolumeChangeConfirm float64 // price-trend (volume %) variant

	PercentileCut float64

	BodyRatio       float64 // small body, fraction of range
	ShadowRatio     float64 // shadow length as multiple of body
	DojiRatio       float64
	StrongBodyRatio float64
	StarBodyRatio   float64 // middle star body vs first body

	MFIDivergenceWindow int
	OBVWindow           int

	VIXHigh     float64
	VIXLow      float64
	VIXFastSpan int
	VIXSlowSpan int
}

// DefaultThresholds returns the stock parameter set.
func DefaultThresholds() Thresholds {
	return Thresholds{
		PriceSurge:          80,
		VolumeSurge:         80,
		PivotPriceChange:    5,
		PivotVolumeChange:   10,
		CriticalPivotMin:    8,
		Gap:                 1.0,
		ContinuousUp:        3,
		ContinuousDown:      3,
		StreakRSIUpper:      70,
		StreakRSILower:      30,
		VolumeChangeConfirm: 15,
		PercentileCut:       5,
		BodyRatio:           0.3,
		ShadowRatio:         2.0,
		DojiRatio:           0.1,
		StrongBodyRatio:     0.6,
		StarBodyRatio:       0.3,
		MFIDivergenceWindow: 5,
		OBVWindow:           20,
		VIXHigh:             30,
		VIXLow:              20,
		VIXFastSpan:         5,
		VIXSlowSpan:         10,
	}
}
