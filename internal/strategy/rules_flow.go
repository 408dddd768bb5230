package strategy

import "SignalSentinel/internal/model"

func vwapBuy(cur, prev *model.Row, _ model.Thresholds) bool {
	return model.Defined(cur.VWAP, prev.VWAP) && cur.Close > cur.VWAP && prev.Close <= prev.VWAP
}

func vwapSell(cur, prev *model.Row, _ model.Thresholds) bool {
	return model.Defined(cur.VWAP, prev.VWAP) && cur.Close < cur.VWAP && prev.Close >= prev.VWAP
}

// divergenceReady reports whether the divergence window has elapsed and
// MFI is known on this bar and on the prior bar's rolling extreme.
func divergenceReady(c Cursor, th model.Thresholds) (cur, prev *model.Row, ok bool) {
	if th.MFIDivergenceWindow <= 0 || c.Index() < th.MFIDivergenceWindow {
		return nil, nil, false
	}
	prev, ok = c.Prev()
	if !ok {
		return nil, nil, false
	}
	cur = c.Current()
	return cur, prev, model.Defined(cur.MFI)
}

// mfiBullDivergence: close makes a new window low while MFI stays above
// its prior window low.
func mfiBullDivergence(c Cursor, th model.Thresholds) bool {
	cur, prev, ok := divergenceReady(c, th)
	if !ok || !model.Defined(cur.CloseRollMin, prev.MFIRollMin) {
		return false
	}
	return cur.Close == cur.CloseRollMin && cur.MFI > prev.MFIRollMin
}

func mfiBearDivergence(c Cursor, th model.Thresholds) bool {
	cur, prev, ok := divergenceReady(c, th)
	if !ok || !model.Defined(cur.CloseRollMax, prev.MFIRollMax) {
		return false
	}
	return cur.Close == cur.CloseRollMax && cur.MFI < prev.MFIRollMax
}

// OBV breakouts compare against the prior bar's rolling extreme so the
// current OBV never confirms itself.
func obvBuy(cur, prev *model.Row, _ model.Thresholds) bool {
	return cur.Close > prev.Close && model.Defined(prev.OBVRollMax) && cur.OBV > prev.OBVRollMax
}

func obvSell(cur, prev *model.Row, _ model.Thresholds) bool {
	return cur.Close < prev.Close && model.Defined(prev.OBVRollMin) && cur.OBV < prev.OBVRollMin
}

func vixPanic(cur, prev *model.Row, th model.Thresholds) bool {
	return model.Defined(cur.VIX, prev.VIX) && cur.VIX > th.VIXHigh && cur.VIX > prev.VIX
}

func vixCalm(cur, prev *model.Row, th model.Thresholds) bool {
	return model.Defined(cur.VIX, prev.VIX) && cur.VIX < th.VIXLow && cur.VIX < prev.VIX
}

func vixTrendDefined(cur, prev *model.Row) bool {
	return model.Defined(cur.VIXEMAFast, cur.VIXEMASlow, prev.VIXEMAFast, prev.VIXEMASlow)
}

func vixUptrend(cur, prev *model.Row, _ model.Thresholds) bool {
	return vixTrendDefined(cur, prev) && cur.VIXEMAFast > cur.VIXEMASlow && prev.VIXEMAFast <= prev.VIXEMASlow
}

func vixDowntrend(cur, prev *model.Row, _ model.Thresholds) bool {
	return vixTrendDefined(cur, prev) && cur.VIXEMAFast < cur.VIXEMASlow && prev.VIXEMAFast >= prev.VIXEMASlow
}
