package alert

import (
	"math"

	"SignalSentinel/internal/model"
)

// Decision is the reduction of the latest bar into notification outcomes.
type Decision struct {
	// Fire is the broad decision: any alerting label fired or price and
	// volume moved together beyond their thresholds.
	Fire bool
	// Triggered lists the alerting labels present on the bar.
	Triggered []model.Label
	CoMove    bool
	// StrictMatch holds when every selected label is present at once.
	StrictMatch bool
	Missing     []model.Label
}

// Decide evaluates the latest row. It keeps no state between calls.
// An empty selection never produces a strict match.
func Decide(latest *model.Row, selected []model.Label, th model.Thresholds) Decision {
	var d Decision
	if latest == nil {
		return d
	}
	for _, l := range latest.Signals {
		if l.Alerting() {
			d.Triggered = append(d.Triggered, l)
		}
	}
	d.CoMove = model.Defined(latest.PriceChangePct, latest.VolumeChangePct) &&
		math.Abs(latest.PriceChangePct) >= th.PriceSurge &&
		math.Abs(latest.VolumeChangePct) >= th.VolumeSurge
	d.Fire = d.CoMove || len(d.Triggered) > 0

	if len(selected) == 0 {
		return d
	}
	for _, l := range selected {
		if !latest.HasSignal(l) {
			d.Missing = append(d.Missing, l)
		}
	}
	d.StrictMatch = len(d.Missing) == 0
	return d
}
