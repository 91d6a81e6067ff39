// Package market defines the core market-data types shared by every component.
package market

import "time"

// Bar represents one OHLCV price bar. Bars are always handled in
// chronological order; no gap requirement is assumed.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// LastClose returns the close of the final bar, or 0 if the slice is empty.
func LastClose(bars []Bar) float64 {
	if len(bars) == 0 {
		return 0
	}
	return bars[len(bars)-1].Close
}

// SortedByTime reports whether bars are in non-decreasing time order.
func SortedByTime(bars []Bar) bool {
	for i := 1; i < len(bars); i++ {
		if bars[i].Time.Before(bars[i-1].Time) {
			return false
		}
	}
	return true
}
