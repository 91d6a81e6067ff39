package engine

import (
	"sync"
	"time"
)

// AlertKind labels the risk condition an alert reports.
type AlertKind string

const (
	AlertDailyLoss      AlertKind = "DAILY_LOSS"
	AlertDrawdown       AlertKind = "DRAWDOWN"
	AlertConcentration  AlertKind = "CONCENTRATION"
	AlertStopApproach   AlertKind = "STOP_APPROACH"
	AlertTargetApproach AlertKind = "TARGET_APPROACH"
	AlertPositionLoss   AlertKind = "POSITION_LOSS"
)

// Alert is one risk observation. Alerts inform; only the daily-loss and
// drawdown kinds also halt new entries.
type Alert struct {
	Kind    AlertKind
	Symbol  string
	Message string
	Time    time.Time
}

const maxRecentAlerts = 100

// alertLog keeps the most recent alerts for the snapshot endpoint.
type alertLog struct {
	mu     sync.Mutex
	recent []Alert
}

func (l *alertLog) add(a Alert) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.recent = append(l.recent, a)
	if len(l.recent) > maxRecentAlerts {
		l.recent = l.recent[len(l.recent)-maxRecentAlerts:]
	}
}

func (l *alertLog) list() []Alert {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Alert, len(l.recent))
	copy(out, l.recent)
	return out
}
