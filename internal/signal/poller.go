package signal

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/signaldesk/internal/logging"
	"github.com/dmitrijs2005/signaldesk/internal/metrics"
)

const (
	DashboardInterval = 3 * time.Second
	PreviewInterval   = 10 * time.Second
	TickInterval      = time.Second
)

type State int

const (
	StateIdle State = iota
	StateLoading
	StateUnavailable
	StateLoaded
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateUnavailable:
		return "unavailable"
	case StateLoaded:
		return "loaded"
	default:
		return "idle"
	}
}

// Snapshot is a consistent view of the poller. Signal is nil unless State
// is StateLoaded; its Timer then holds the live countdown.
type Snapshot struct {
	Pair      string
	State     State
	Signal    *Signal
	Countdown int
	UpdatedAt time.Time
}

type PollerOption func(*Poller)

func WithScheduler(s Scheduler) PollerOption {
	return func(p *Poller) { p.sched = s }
}

func WithLogger(l logging.Logger) PollerOption {
	return func(p *Poller) { p.logger = l }
}

func WithClock(now func() time.Time) PollerOption {
	return func(p *Poller) { p.now = now }
}

// Poller keeps the signal of one pair fresh. It fetches immediately and
// then every interval, and counts the signal's timer down once a second.
//
// Every pair switch or stop bumps a generation counter; fetch results and
// ticks carrying an older generation are dropped, so a late response for
// a previous pair never overwrites the current one.
type Poller struct {
	fetcher  Fetcher
	interval time.Duration
	sched    Scheduler
	logger   logging.Logger
	now      func() time.Time
	spawn    func(func())

	mu        sync.Mutex
	parent    context.Context
	running   bool
	pair      string
	gen       uint64
	tickSeq   uint64
	state     State
	sig       *Signal
	countdown int
	updatedAt time.Time
	stopFetch func()
	stopTick  func()
	cancelReq context.CancelFunc
	stopWatch func() bool
	listeners []func(Snapshot)
	changeSeq uint64

	// deliverMu orders listener calls; delivered is the last changeSeq sent.
	deliverMu sync.Mutex
	delivered uint64
}

func NewPoller(fetcher Fetcher, interval time.Duration, opts ...PollerOption) *Poller {
	p := &Poller{
		fetcher:  fetcher,
		interval: interval,
		sched:    TickerScheduler{},
		logger:   logging.Discard(),
		now:      time.Now,
		spawn:    func(fn func()) { go fn() },
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Start begins polling pair. Cancelling ctx stops the poller. Starting a
// running poller switches it to pair.
func (p *Poller) Start(ctx context.Context, pair string) error {
	if pair == "" {
		return ErrUnknownPair
	}

	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return p.SetPair(pair)
	}
	p.parent = ctx
	p.running = true
	p.stopWatch = context.AfterFunc(ctx, p.Stop)
	gen, reqCtx := p.restartLocked(pair)
	snap, seq := p.changeLocked()
	p.mu.Unlock()

	p.logger.Info(ctx, "signal polling started", "pair", pair, "interval", p.interval)
	p.notify(snap, seq)
	p.fetch(reqCtx, gen)
	return nil
}

// SetPair switches a running poller to another pair. The previous pair's
// timers are stopped and its in-flight request is abandoned.
func (p *Poller) SetPair(pair string) error {
	if pair == "" {
		return ErrUnknownPair
	}

	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return ErrNotRunning
	}
	if pair == p.pair {
		p.mu.Unlock()
		return nil
	}
	gen, reqCtx := p.restartLocked(pair)
	snap, seq := p.changeLocked()
	p.mu.Unlock()

	p.logger.Info(reqCtx, "signal pair switched", "pair", pair)
	p.notify(snap, seq)
	p.fetch(reqCtx, gen)
	return nil
}

// Stop cancels all timers. Results arriving afterwards are discarded.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	p.gen++
	p.haltLocked()
	if p.stopWatch != nil {
		p.stopWatch()
		p.stopWatch = nil
	}
	p.state = StateIdle
	p.sig = nil
	p.countdown = 0
	snap, seq := p.changeLocked()
	p.mu.Unlock()

	p.notify(snap, seq)
}

func (p *Poller) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

// Available reports whether a valid signal is currently held.
func (p *Poller) Available() bool {
	return p.Snapshot().State == StateLoaded
}

// OnChange registers fn to receive a snapshot after every state change and
// countdown tick. Snapshots arrive one at a time and in order; one that is
// overtaken by a newer change is skipped. fn runs on the poller's goroutines,
// must not block and must not call Start, SetPair or Stop.
func (p *Poller) OnChange(fn func(Snapshot)) {
	p.mu.Lock()
	p.listeners = append(p.listeners, fn)
	p.mu.Unlock()
}

func (p *Poller) restartLocked(pair string) (uint64, context.Context) {
	p.haltLocked()
	p.gen++
	gen := p.gen

	p.pair = pair
	p.sig = nil
	p.countdown = 0
	p.state = StateLoading

	reqCtx, cancel := context.WithCancel(p.parent)
	p.cancelReq = cancel
	p.stopFetch = p.sched.Every(p.interval, func() { p.fetch(reqCtx, gen) })
	return gen, reqCtx
}

func (p *Poller) haltLocked() {
	if p.stopFetch != nil {
		p.stopFetch()
		p.stopFetch = nil
	}
	p.stopTickLocked()
	if p.cancelReq != nil {
		p.cancelReq()
		p.cancelReq = nil
	}
}

func (p *Poller) stopTickLocked() {
	if p.stopTick != nil {
		p.stopTick()
		p.stopTick = nil
	}
}

func (p *Poller) fetch(ctx context.Context, gen uint64) {
	p.mu.Lock()
	if !p.running || gen != p.gen {
		p.mu.Unlock()
		return
	}
	pair := p.pair
	p.mu.Unlock()

	p.spawn(func() {
		start := time.Now()
		sig, err := p.fetcher.Fetch(ctx, pair)
		metrics.FetchSeconds.WithLabelValues(pair).Observe(time.Since(start).Seconds())
		p.apply(ctx, gen, pair, sig, err)
	})
}

func (p *Poller) apply(ctx context.Context, gen uint64, pair string, sig *Signal, err error) {
	p.mu.Lock()
	if !p.running || gen != p.gen {
		p.mu.Unlock()
		metrics.FetchesTotal.WithLabelValues(pair, metrics.OutcomeDiscarded).Inc()
		p.logger.Debug(ctx, "discarding stale signal", "pair", pair)
		return
	}

	secs := 0
	if err == nil && sig == nil {
		err = ErrSignalUnavailable
	}
	if err == nil {
		secs, err = ParseTimer(sig.Timer)
	}

	outcome := metrics.OutcomeOK
	if err != nil {
		outcome = metrics.OutcomeUnavailable
		p.stopTickLocked()
		p.state = StateUnavailable
		p.sig = nil
		p.countdown = 0
	} else {
		cp := *sig
		p.state = StateLoaded
		p.sig = &cp
		p.countdown = secs
		p.updatedAt = p.now()
		p.armTickLocked(gen)
	}
	snap, seq := p.changeLocked()
	p.mu.Unlock()

	metrics.FetchesTotal.WithLabelValues(pair, outcome).Inc()
	metrics.Countdown.WithLabelValues(pair).Set(float64(snap.Countdown))
	if err != nil {
		p.logger.Warn(ctx, "signal unavailable", "pair", pair, "error", err)
	} else {
		p.logger.Debug(ctx, "signal fetched", "pair", pair, "direction", sig.Direction, "countdown", secs)
	}
	p.notify(snap, seq)
}

// armTickLocked replaces the countdown task, so repeated fetches never
// stack tickers.
func (p *Poller) armTickLocked(gen uint64) {
	p.stopTickLocked()
	if p.countdown == 0 {
		return
	}
	p.tickSeq++
	seq := p.tickSeq
	p.stopTick = p.sched.Every(TickInterval, func() { p.tick(gen, seq) })
}

func (p *Poller) tick(gen, seq uint64) {
	p.mu.Lock()
	if !p.running || gen != p.gen || seq != p.tickSeq || p.stopTick == nil {
		p.mu.Unlock()
		return
	}
	p.countdown = Tick(p.countdown)
	if p.countdown == 0 {
		p.stopTickLocked()
	}
	snap, seq := p.changeLocked()
	p.mu.Unlock()

	metrics.Countdown.WithLabelValues(snap.Pair).Set(float64(snap.Countdown))
	p.notify(snap, seq)
}

func (p *Poller) snapshotLocked() Snapshot {
	s := Snapshot{
		Pair:      p.pair,
		State:     p.state,
		Countdown: p.countdown,
		UpdatedAt: p.updatedAt,
	}
	if p.sig != nil {
		cp := *p.sig
		cp.Timer = FormatTimer(p.countdown)
		s.Signal = &cp
	}
	return s
}

// changeLocked stamps the current state with the next change number.
func (p *Poller) changeLocked() (Snapshot, uint64) {
	p.changeSeq++
	return p.snapshotLocked(), p.changeSeq
}

func (p *Poller) notify(s Snapshot, seq uint64) {
	p.deliverMu.Lock()
	defer p.deliverMu.Unlock()
	if seq <= p.delivered {
		return
	}
	p.delivered = seq

	p.mu.Lock()
	ls := make([]func(Snapshot), len(p.listeners))
	copy(ls, p.listeners)
	p.mu.Unlock()

	for _, fn := range ls {
		fn(s)
	}
}
