package indicators

import (
	"math"

	"github.com/rustyeddy/algotrader/market"
)

// ADX computes Wilder's Average Directional Index (trend strength) over
// period. Warmup needs 2*period bars after the first seed bar:
//   - period bars to initialize the smoothed TR/+DM/-DM averages
//   - period DX values to seed ADX itself
func ADX(bars []market.Bar, period int) []float64 {
	out := nanSlice(len(bars))
	if period <= 0 || len(bars) < 2*period+1 {
		return out
	}

	p := float64(period)
	var tr14, pdm14, mdm14 float64
	var adx, dxSum float64
	ready := false

	for i := 1; i < len(bars); i++ {
		cur, prev := bars[i], bars[i-1]

		upMove := cur.High - prev.High
		downMove := prev.Low - cur.Low

		var pdm, mdm float64
		if upMove > downMove && upMove > 0 {
			pdm = upMove
		}
		if downMove > upMove && downMove > 0 {
			mdm = downMove
		}
		tr := trueRange(cur, prev)

		// Warmup phase A: accumulate initial TR/DM averages.
		if i <= period {
			tr14 += tr
			pdm14 += pdm
			mdm14 += mdm
			if i == period {
				tr14 /= p
				pdm14 /= p
				mdm14 /= p
			}
			continue
		}

		tr14 = (tr14*(p-1) + tr) / p
		pdm14 = (pdm14*(p-1) + pdm) / p
		mdm14 = (mdm14*(p-1) + mdm) / p

		if tr14 == 0 {
			continue
		}
		pdi := 100 * pdm14 / tr14
		mdi := 100 * mdm14 / tr14
		den := pdi + mdi
		if den == 0 {
			continue
		}
		dx := 100 * math.Abs(pdi-mdi) / den

		// Warmup phase B: seed ADX with the average of the first period DX
		// values, then switch to Wilder smoothing.
		if !ready {
			dxSum += dx
			if i == 2*period {
				adx = dxSum / p
				ready = true
				out[i] = adx
			}
			continue
		}

		adx = (adx*(p-1) + dx) / p
		out[i] = adx
	}
	return out
}

func trueRange(cur, prev market.Bar) float64 {
	hl := cur.High - cur.Low
	hc := math.Abs(cur.High - prev.Close)
	lc := math.Abs(cur.Low - prev.Close)
	return math.Max(hl, math.Max(hc, lc))
}
