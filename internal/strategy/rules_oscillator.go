package strategy

import "SignalSentinel/internal/model"

func macdDefined(cur, prev *model.Row) bool {
	return model.Defined(cur.MACD, prev.MACD)
}

func macdBuy(cur, prev *model.Row, _ model.Thresholds) bool {
	return macdDefined(cur, prev) && cur.MACD > 0 && prev.MACD <= 0 && rsiBelow(cur, 50)
}

func macdSell(cur, prev *model.Row, _ model.Thresholds) bool {
	return macdDefined(cur, prev) && cur.MACD <= 0 && prev.MACD > 0 && rsiAbove(cur, 50)
}

func emaBuy(cur, prev *model.Row, _ model.Thresholds) bool {
	if !model.Defined(cur.EMA5, cur.EMA10, prev.EMA5, prev.EMA10) {
		return false
	}
	return cur.EMA5 > cur.EMA10 && prev.EMA5 <= prev.EMA10 &&
		cur.Volume > prev.Volume && rsiBelow(cur, 50)
}

func emaSell(cur, prev *model.Row, _ model.Thresholds) bool {
	if !model.Defined(cur.EMA5, cur.EMA10, prev.EMA5, prev.EMA10) {
		return false
	}
	return cur.EMA5 < cur.EMA10 && prev.EMA5 >= prev.EMA10 &&
		cur.Volume > prev.Volume && rsiAbove(cur, 50)
}

func sma50Up(r *model.Row, _ model.Thresholds) bool {
	return model.Defined(r.SMA50, r.MACD) && r.Close > r.SMA50 && r.MACD > 0
}

func sma50Down(r *model.Row, _ model.Thresholds) bool {
	return model.Defined(r.SMA50, r.MACD) && r.Close < r.SMA50 && r.MACD < 0
}

func sma50200Up(r *model.Row, _ model.Thresholds) bool {
	return model.Defined(r.SMA50, r.SMA200, r.MACD) &&
		r.Close > r.SMA50 && r.SMA50 > r.SMA200 && r.MACD > 0
}

func sma50200Down(r *model.Row, _ model.Thresholds) bool {
	return model.Defined(r.SMA50, r.SMA200, r.MACD) &&
		r.Close < r.SMA50 && r.SMA50 < r.SMA200 && r.MACD < 0
}

func rsiMACDOversold(cur, prev *model.Row, _ model.Thresholds) bool {
	return macdDefined(cur, prev) && rsiBelow(cur, 30) && cur.MACD > 0 && prev.MACD <= 0
}

func rsiMACDOverbought(cur, prev *model.Row, _ model.Thresholds) bool {
	return macdDefined(cur, prev) && rsiAbove(cur, 70) && cur.MACD < 0 && prev.MACD >= 0
}

func emaSMAUptrend(r *model.Row, _ model.Thresholds) bool {
	return model.Defined(r.EMA5, r.EMA10, r.SMA50) && r.EMA5 > r.EMA10 && r.Close > r.SMA50
}

func emaSMADowntrend(r *model.Row, _ model.Thresholds) bool {
	return model.Defined(r.EMA5, r.EMA10, r.SMA50) && r.EMA5 < r.EMA10 && r.Close < r.SMA50
}

func volumeMACDBuy(cur, prev *model.Row, _ model.Thresholds) bool {
	return macdDefined(cur, prev) && aboveAvgVolume(cur) && cur.MACD > 0 && prev.MACD <= 0
}

func volumeMACDSell(cur, prev *model.Row, _ model.Thresholds) bool {
	return macdDefined(cur, prev) && aboveAvgVolume(cur) && cur.MACD < 0 && prev.MACD >= 0
}

func ema1030Defined(cur, prev *model.Row) bool {
	return model.Defined(cur.EMA10, cur.EMA30, prev.EMA10, prev.EMA30)
}

func ema1030Buy(cur, prev *model.Row, _ model.Thresholds) bool {
	return ema1030Defined(cur, prev) && cur.EMA10 > cur.EMA30 && prev.EMA10 <= prev.EMA30
}

func ema1030StrongBuy(cur, prev *model.Row, th model.Thresholds) bool {
	return ema1030Buy(cur, prev, th) && model.Defined(cur.EMA40) && cur.EMA10 > cur.EMA40
}

func ema1030Sell(cur, prev *model.Row, _ model.Thresholds) bool {
	return ema1030Defined(cur, prev) && cur.EMA10 < cur.EMA30 && prev.EMA10 >= prev.EMA30
}

func ema1030StrongSell(cur, prev *model.Row, th model.Thresholds) bool {
	return ema1030Sell(cur, prev, th) && model.Defined(cur.EMA40) && cur.EMA10 < cur.EMA40
}
