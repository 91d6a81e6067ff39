// Package engine schedules the live trading loop: signal generation, position
// pricing and risk alerting run as independent periodic tasks over a shared
// position ledger and execution queue.
package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/algotrader/broker"
	"github.com/rustyeddy/algotrader/config"
	"github.com/rustyeddy/algotrader/execution"
	"github.com/rustyeddy/algotrader/indicators"
	"github.com/rustyeddy/algotrader/journal"
	"github.com/rustyeddy/algotrader/market"
	"github.com/rustyeddy/algotrader/metrics"
	"github.com/rustyeddy/algotrader/pkg/id"
	"github.com/rustyeddy/algotrader/portfolio"
	"github.com/rustyeddy/algotrader/risk"
	"github.com/rustyeddy/algotrader/strategies"
)

// Engine wires the broker, the strategy set, the risk policy, the position
// ledger and the execution queue into a scheduled trading session.
type Engine struct {
	cfg    *config.Config
	broker broker.Client
	ledger *portfolio.Repository
	queue  *execution.Queue
	jour   journal.Journal
	log    zerolog.Logger
	loc    *time.Location

	// tradingEnabled gates new entries only. Exits always run, so a halted
	// session can still flatten its book.
	tradingEnabled atomic.Bool

	mu      sync.Mutex
	pending map[string]*strategies.Signal // order ID -> originating signal
	day     int                           // year*1000 + yday of the current session

	perf   perfTracker
	alerts alertLog
}

// New assembles an engine from validated configuration and a broker client.
func New(cfg *config.Config, client broker.Client, jour journal.Journal, log zerolog.Logger) *Engine {
	e := &Engine{
		cfg:     cfg,
		broker:  client,
		ledger:  portfolio.NewRepository(),
		jour:    jour,
		log:     log.With().Str("component", "engine").Logger(),
		loc:     cfg.Location(),
		pending: make(map[string]*strategies.Signal),
	}
	e.tradingEnabled.Store(true)
	e.queue = execution.NewQueue(client, log,
		execution.OnExecuted(e.onExecuted),
		execution.OnFailed(e.onFailed),
	)
	return e
}

// TradingEnabled reports whether new entries are currently allowed.
func (e *Engine) TradingEnabled() bool { return e.tradingEnabled.Load() }

// Run blocks until the context is cancelled, then stops the scheduler and the
// execution queue and closes the journal. Orders still pending at shutdown
// are not submitted.
func (e *Engine) Run(ctx context.Context) error {
	e.queue.Start(ctx)

	sched := NewScheduler(e.log,
		Task{Name: "signals", Interval: e.cfg.Engine.SignalInterval.Std(), Run: e.signalTick},
		Task{Name: "pricing", Interval: e.cfg.Engine.PricingInterval.Std(), Run: e.pricingTick},
		Task{Name: "alerts", Interval: e.cfg.Engine.AlertInterval.Std(), Run: e.alertTick},
	)
	sched.Start(ctx)

	e.log.Info().
		Int("universe", len(e.cfg.Universe)).
		Str("mode", e.cfg.Broker.Mode).
		Msg("engine started")

	<-ctx.Done()
	sched.Wait()
	e.queue.Close()

	if err := e.jour.Close(); err != nil {
		e.log.Error().Err(err).Msg("close journal")
	}
	e.log.Info().Msg("engine stopped")
	return nil
}

// signalTick scans the universe, evaluates every strategy and enqueues a buy
// order for the winning signal of each instrument.
func (e *Engine) signalTick(ctx context.Context) {
	now := time.Now().In(e.loc)
	e.rollDay(now)

	if !e.inSession(now) {
		return
	}
	if !e.tradingEnabled.Load() {
		return
	}

	for _, inst := range e.cfg.Universe {
		if ctx.Err() != nil {
			return
		}
		if e.ledger.HasOpen(inst.Symbol) {
			continue
		}
		e.evaluateInstrument(ctx, inst, now)
	}
}

func (e *Engine) evaluateInstrument(ctx context.Context, inst market.Instrument, now time.Time) {
	bars, err := e.broker.GetHistoricalBars(ctx, inst, e.cfg.Engine.LookbackDays)
	if err != nil {
		if errors.Is(err, broker.ErrDataUnavailable) {
			e.log.Debug().Str("symbol", inst.Symbol).Msg("no data, skipping")
		} else {
			e.log.Warn().Err(err).Str("symbol", inst.Symbol).Msg("fetch bars")
		}
		return
	}

	frame := indicators.Compute(bars)
	latest, prev, ok := frame.Latest()
	if !ok {
		return
	}

	var signals []*strategies.Signal
	for _, ev := range strategies.All() {
		sig := ev.Evaluate(inst.Symbol, latest, prev)
		if sig == nil {
			continue
		}
		sig.Time = now
		signals = append(signals, sig)
		metrics.SignalsTotal.WithLabelValues(string(sig.Strategy)).Inc()
	}
	if len(signals) == 0 {
		return
	}

	decision := risk.Select(e.cfg.Risk, signals, e.ledger)
	if !decision.Allowed {
		for _, v := range decision.Violations {
			e.log.Debug().
				Str("symbol", inst.Symbol).
				Str("code", v.Code).
				Str("reason", v.Msg).
				Msg("signal rejected")
		}
		return
	}
	sig := decision.Signal
	metrics.SignalsAccepted.WithLabelValues(string(sig.Strategy)).Inc()

	capital, err := e.broker.GetAvailableCapital(ctx)
	if err != nil {
		e.log.Warn().Err(err).Msg("fetch capital")
		return
	}
	if capital < e.cfg.Risk.MinCapital {
		e.log.Info().
			Float64("capital", capital).
			Float64("min", e.cfg.Risk.MinCapital).
			Msg("capital below floor, skipping entry")
		return
	}

	qty, err := risk.PositionSize(sig.Entry, sig.Stop, capital, e.cfg.Risk.MaxRiskPerTrade)
	if err != nil {
		e.log.Warn().Err(err).Str("symbol", sig.Symbol).Msg("size position")
		return
	}

	order := execution.Order{
		ID:         id.New(),
		Symbol:     inst.Symbol,
		SecurityID: inst.SecurityID,
		Segment:    inst.Segment,
		Side:       execution.Buy,
		Quantity:   qty,
		Type:       "MARKET",
		Reason:     string(sig.Strategy),
	}

	e.mu.Lock()
	e.pending[order.ID] = sig
	e.mu.Unlock()

	if err := e.queue.Enqueue(order); err != nil {
		e.mu.Lock()
		delete(e.pending, order.ID)
		e.mu.Unlock()
		e.log.Warn().Err(err).Str("symbol", sig.Symbol).Msg("entry not queued")
		return
	}
	e.log.Info().
		Str("symbol", sig.Symbol).
		Str("strategy", string(sig.Strategy)).
		Float64("confidence", sig.Confidence).
		Float64("entry", sig.Entry).
		Float64("stop", sig.Stop).
		Float64("target", sig.Target).
		Int("quantity", qty).
		Msg("entry queued")
}

// onExecuted runs on the queue consumer goroutine when the broker confirms an
// order. Buy fills open a ledger position from the signal that produced them.
func (e *Engine) onExecuted(o execution.Order) {
	metrics.OrdersExecuted.WithLabelValues(string(o.Side)).Inc()

	if o.Side != execution.Buy {
		return
	}

	e.mu.Lock()
	sig, ok := e.pending[o.ID]
	delete(e.pending, o.ID)
	e.mu.Unlock()
	if !ok {
		e.log.Error().Str("order_id", o.ID).Msg("fill for unknown order")
		return
	}

	pos := portfolio.Position{
		ID:         o.ID,
		Symbol:     o.Symbol,
		SecurityID: o.SecurityID,
		Segment:    o.Segment,
		Quantity:   o.Quantity,
		EntryPrice: sig.Entry,
		Stop:       sig.Stop,
		Target:     sig.Target,
		EntryTime:  sig.Time,
		Strategy:   sig.Strategy,
	}
	if err := e.ledger.Add(pos); err != nil {
		e.log.Error().Err(err).Str("symbol", o.Symbol).Msg("record fill")
		return
	}
	metrics.OpenPositions.Set(float64(e.ledger.OpenCount()))
	e.log.Info().
		Str("symbol", o.Symbol).
		Int("quantity", o.Quantity).
		Float64("entry", sig.Entry).
		Msg("position opened")
}

func (e *Engine) onFailed(o execution.Order) {
	metrics.OrdersFailed.Inc()

	e.mu.Lock()
	delete(e.pending, o.ID)
	e.mu.Unlock()

	e.log.Error().
		Str("order_id", o.ID).
		Str("symbol", o.Symbol).
		Str("side", string(o.Side)).
		Msg("order abandoned after retries")
}

// pricingTick marks every open position to the latest close and closes those
// whose exit conditions fire.
func (e *Engine) pricingTick(ctx context.Context) {
	now := time.Now().In(e.loc)

	for _, pos := range e.ledger.Snapshot() {
		if ctx.Err() != nil {
			return
		}

		price, ok := e.latestPrice(ctx, pos)
		if !ok {
			continue
		}
		e.ledger.MarkPrice(pos.Symbol, price)

		reason, hit := portfolio.CheckExit(
			price, pos.Stop, pos.Target,
			now.Sub(pos.EntryTime), e.cfg.Risk.MaxHold(),
			e.ledger.DailyPnL(), e.cfg.Risk.MaxDailyLoss,
		)
		if !hit {
			continue
		}
		e.closePosition(pos.Symbol, price, reason, now)
	}

	metrics.OpenPositions.Set(float64(e.ledger.OpenCount()))
	metrics.DailyPnL.Set(e.ledger.DailyPnL())
}

func (e *Engine) latestPrice(ctx context.Context, pos portfolio.Position) (float64, bool) {
	inst := market.Instrument{Symbol: pos.Symbol, SecurityID: pos.SecurityID, Segment: pos.Segment}
	bars, err := e.broker.GetHistoricalBars(ctx, inst, 5)
	if err != nil || len(bars) == 0 {
		e.log.Debug().Str("symbol", pos.Symbol).Msg("no price update")
		return 0, false
	}
	return market.LastClose(bars), true
}

func (e *Engine) closePosition(symbol string, price float64, reason portfolio.ExitReason, now time.Time) {
	closed, err := e.ledger.Close(symbol, price)
	if err != nil {
		e.log.Error().Err(err).Str("symbol", symbol).Msg("close position")
		return
	}

	rec := journal.TradeRecord{
		TradeID:     closed.ID,
		Symbol:      closed.Symbol,
		Strategy:    string(closed.Strategy),
		Quantity:    closed.Quantity,
		EntryPrice:  closed.EntryPrice,
		ExitPrice:   price,
		EntryTime:   closed.EntryTime,
		ExitTime:    now,
		RealizedPnL: closed.Realized,
		Reason:      string(reason),
	}
	if err := e.jour.RecordTrade(rec); err != nil {
		e.log.Error().Err(err).Str("symbol", symbol).Msg("journal trade")
	}

	if err := e.queue.Enqueue(execution.Order{
		ID:         id.New(),
		Symbol:     closed.Symbol,
		SecurityID: closed.SecurityID,
		Segment:    closed.Segment,
		Side:       execution.Sell,
		Quantity:   closed.Quantity,
		Type:       "MARKET",
		Reason:     string(reason),
	}); err != nil {
		e.log.Warn().Err(err).Str("symbol", symbol).Msg("exit order not queued")
	}

	e.log.Info().
		Str("symbol", symbol).
		Str("reason", string(reason)).
		Float64("exit", price).
		Float64("pnl", closed.Realized).
		Msg("position closed")
}

// alertTick evaluates the portfolio-level circuit breakers and per-position
// warnings, journals an equity snapshot and updates the gauges.
func (e *Engine) alertTick(ctx context.Context) {
	now := time.Now().In(e.loc)

	capital, err := e.broker.GetAvailableCapital(ctx)
	if err != nil {
		e.log.Warn().Err(err).Msg("fetch capital for alerts")
		return
	}

	positions := e.ledger.Snapshot()
	daily := e.ledger.DailyPnL()
	unrealized := e.ledger.UnrealizedPnL()

	var exposure float64
	for _, p := range positions {
		exposure += p.Current * float64(p.Quantity)
	}
	equity := capital + exposure

	// The breaker keys on realized daily pnl only; open unrealized gains do
	// not offset a realized loss below the floor.
	if daily < e.cfg.Risk.MaxDailyLoss && e.tradingEnabled.Load() {
		e.halt(Alert{
			Kind:    AlertDailyLoss,
			Message: "daily loss limit breached, halting new entries",
			Time:    now,
		})
	}

	if dd := e.perf.Observe(equity); dd > e.cfg.Risk.MaxDrawdownPct && e.tradingEnabled.Load() {
		e.halt(Alert{
			Kind:    AlertDrawdown,
			Message: "drawdown limit breached, halting new entries",
			Time:    now,
		})
	}

	for _, p := range positions {
		e.checkPosition(p, equity, now)
	}

	snap := journal.EquitySnapshot{
		Time:          now,
		Capital:       capital,
		UnrealizedPnL: unrealized,
		DailyPnL:      daily,
		OpenPositions: len(positions),
	}
	if err := e.jour.RecordEquity(snap); err != nil {
		e.log.Error().Err(err).Msg("journal equity")
	}

	metrics.DailyPnL.Set(daily)
	metrics.OpenPositions.Set(float64(len(positions)))
}

// proximityPct is how close (as a fraction of the level) price must be to a
// stop or target before a heads-up alert fires.
const proximityPct = 0.005

// positionLossAlert is the per-position unrealized loss that triggers a
// warning.
const positionLossAlert = -1000.0

func (e *Engine) checkPosition(p portfolio.Position, equity float64, now time.Time) {
	if equity > 0 {
		pct := p.Current * float64(p.Quantity) / equity * 100
		if pct > e.cfg.Risk.MaxConcentrationPct {
			e.raise(Alert{
				Kind:    AlertConcentration,
				Symbol:  p.Symbol,
				Message: "position exceeds concentration limit",
				Time:    now,
			})
		}
	}

	if p.Stop > 0 && (p.Current-p.Stop)/p.Stop < proximityPct {
		e.raise(Alert{
			Kind:    AlertStopApproach,
			Symbol:  p.Symbol,
			Message: "price approaching stop loss",
			Time:    now,
		})
	}
	if p.Target > 0 && (p.Target-p.Current)/p.Target < proximityPct {
		e.raise(Alert{
			Kind:    AlertTargetApproach,
			Symbol:  p.Symbol,
			Message: "price approaching target",
			Time:    now,
		})
	}
	if p.Unrealized < positionLossAlert {
		e.raise(Alert{
			Kind:    AlertPositionLoss,
			Symbol:  p.Symbol,
			Message: "position loss exceeds warning threshold",
			Time:    now,
		})
	}
}

func (e *Engine) raise(a Alert) {
	e.alerts.add(a)
	metrics.AlertsTotal.WithLabelValues(string(a.Kind)).Inc()
	e.log.Warn().
		Str("kind", string(a.Kind)).
		Str("symbol", a.Symbol).
		Msg(a.Message)
}

func (e *Engine) halt(a Alert) {
	e.tradingEnabled.Store(false)
	e.raise(a)
}

// inSession reports whether now falls inside the configured trading window on
// a weekday.
func (e *Engine) inSession(now time.Time) bool {
	switch now.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	minutes := now.Hour()*60 + now.Minute()
	return minutes >= e.cfg.SessionOpen() && minutes <= e.cfg.SessionClose()
}

// rollDay resets the daily pnl aggregate and re-enables trading at the first
// tick of a new calendar day.
func (e *Engine) rollDay(now time.Time) {
	key := now.Year()*1000 + now.YearDay()

	e.mu.Lock()
	changed := key != e.day
	if changed {
		e.day = key
	}
	e.mu.Unlock()

	if changed {
		e.ledger.ResetDaily()
		e.tradingEnabled.Store(true)
		e.log.Info().Msg("new trading day")
	}
}

// Snapshot is a point-in-time view of the engine for status reporting.
type Snapshot struct {
	Time           time.Time
	TradingEnabled bool
	Positions      []portfolio.Position
	DailyPnL       float64
	UnrealizedPnL  float64
	PendingOrders  int
	FailedOrders   []execution.Order
	RecentAlerts   []Alert
}

// Status assembles a snapshot of positions, pnl, queue depth and alerts.
func (e *Engine) Status() Snapshot {
	return Snapshot{
		Time:           time.Now().In(e.loc),
		TradingEnabled: e.tradingEnabled.Load(),
		Positions:      e.ledger.Snapshot(),
		DailyPnL:       e.ledger.DailyPnL(),
		UnrealizedPnL:  e.ledger.UnrealizedPnL(),
		PendingOrders:  e.queue.Pending(),
		FailedOrders:   e.queue.Failed(),
		RecentAlerts:   e.alerts.list(),
	}
}
