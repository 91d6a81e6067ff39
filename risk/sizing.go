package risk

import (
	"errors"
	"math"
)

// ErrInvalidRisk is returned when a signal's entry and stop coincide, leaving
// no per-share risk to divide capital by. The signal is discarded; not fatal.
var ErrInvalidRisk = errors.New("risk: entry price equals stop price")

// PositionSize converts available capital into a trade quantity:
// floor(capital * riskFraction / |entry - stop|), with a minimum of one
// share.
func PositionSize(entry, stop, capital, riskFraction float64) (int, error) {
	perShare := math.Abs(entry - stop)
	if perShare == 0 {
		return 0, ErrInvalidRisk
	}

	qty := int(math.Floor(capital * riskFraction / perShare))
	if qty < 1 {
		qty = 1
	}
	return qty, nil
}
