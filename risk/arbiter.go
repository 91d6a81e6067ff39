package risk

import (
	"fmt"
	"sort"

	"github.com/rustyeddy/algotrader/strategies"
)

// Violation codes attached to a rejected decision.
const (
	CodeLowConfidence = "LOW_CONFIDENCE"
	CodeRRTooLow      = "RR_TOO_LOW"
	CodePositionOpen  = "POSITION_EXISTS"
	CodeMaxPositions  = "MAX_POSITIONS"
)

type Violation struct {
	Code string
	Msg  string
}

// Decision is the arbiter's verdict for one instrument's signals on one tick.
// Signal is the chosen candidate (nil when none survived the confidence
// filter); Allowed reports whether it may proceed to sizing and execution.
type Decision struct {
	Signal     *strategies.Signal
	Allowed    bool
	RewardRisk float64
	Violations []Violation
}

func (d *Decision) add(code, msg string) {
	d.Violations = append(d.Violations, Violation{Code: code, Msg: msg})
	d.Allowed = false
}

// PortfolioView is the slice of ledger state the arbiter needs.
type PortfolioView interface {
	HasOpen(symbol string) bool
	OpenCount() int
}

// Select arbitrates among the signals produced for one instrument at one
// tick: drop those below the confidence floor, keep the single
// highest-confidence survivor (ties broken by fixed strategy priority), then
// reject it if the reward:risk ratio is too low, the instrument already has
// an open position, or the portfolio is at capacity.
func Select(p Policy, signals []*strategies.Signal, view PortfolioView) Decision {
	d := Decision{}

	survivors := make([]*strategies.Signal, 0, len(signals))
	for _, s := range signals {
		if s == nil {
			continue
		}
		if s.Confidence < p.MinConfidence {
			continue
		}
		survivors = append(survivors, s)
	}
	if len(survivors) == 0 {
		d.add(CodeLowConfidence, fmt.Sprintf("no signal at or above confidence %.2f", p.MinConfidence))
		return d
	}

	sort.SliceStable(survivors, func(i, j int) bool {
		if survivors[i].Confidence != survivors[j].Confidence {
			return survivors[i].Confidence > survivors[j].Confidence
		}
		return strategies.Priority(survivors[i].Strategy) < strategies.Priority(survivors[j].Strategy)
	})

	best := survivors[0]
	d.Signal = best
	d.Allowed = true
	d.RewardRisk = RewardRisk(best.Entry, best.Stop, best.Target)

	if d.RewardRisk < p.MinRewardRisk {
		d.add(CodeRRTooLow, fmt.Sprintf("reward:risk %.2f below minimum %.2f", d.RewardRisk, p.MinRewardRisk))
	}
	if view.HasOpen(best.Symbol) {
		d.add(CodePositionOpen, fmt.Sprintf("%s already has an open position", best.Symbol))
	}
	if view.OpenCount() >= p.MaxPositions {
		d.add(CodeMaxPositions, fmt.Sprintf("open positions %d >= max %d", view.OpenCount(), p.MaxPositions))
	}

	return d
}
