package risk

import "math"

// RewardRisk returns the reward:risk ratio of a proposed trade: distance to
// target divided by distance to stop. Returns 0 when the stop distance is
// zero.
func RewardRisk(entry, stop, target float64) float64 {
	r := math.Abs(entry - stop)
	if r == 0 {
		return 0
	}
	return math.Abs(target-entry) / r
}
