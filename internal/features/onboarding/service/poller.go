package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"crypto-ramp-backend/internal/common/logger"
)

type PollState string

const (
	PollIdle     PollState = "idle"
	PollPolling  PollState = "polling"
	PollResolved PollState = "resolved"
	PollTimedOut PollState = "timed_out"
	PollFailed   PollState = "failed"
)

const (
	defaultPollInterval = 5 * time.Second
	defaultPollMaxTicks = 60
)

var ErrPollerActive = errors.New("poller already running")

// PollFunc performs one fetch and reports whether the awaited condition has
// been reached. Any error stops the loop (no silent retries).
type PollFunc func(ctx context.Context) (done bool, err error)

// Poller re-fetches remote state until a condition holds, a tick ceiling is
// reached, or a fetch fails. Tick 0 fires immediately, later ticks every
// Interval. Ticks are strictly sequential: the loop never issues a fetch
// while the previous one is in flight, so two racing responses can never
// resolve out of order.
//
// The same machine serves both the KYC waiting screen and the external
// login-confirmation flow; only the PollFunc differs.
type Poller struct {
	Interval time.Duration
	MaxTicks int

	// Optional transition hooks, invoked from the polling goroutine.
	OnResolved func()
	OnTimedOut func()
	OnFailed   func(err error)

	fn PollFunc

	mu     sync.Mutex
	state  PollState
	cancel context.CancelFunc
	done   chan struct{}
}

func NewPoller(fn PollFunc) *Poller {
	return &Poller{
		Interval: defaultPollInterval,
		MaxTicks: defaultPollMaxTicks,
		fn:       fn,
		state:    PollIdle,
	}
}

func (p *Poller) State() PollState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Start enters Polling from tick 0. It is also how a manual retry re-enters
// the loop after TimedOut or Failed.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.state == PollPolling {
		p.mu.Unlock()
		return ErrPollerActive
	}
	runCtx, cancel := context.WithCancel(ctx)
	p.state = PollPolling
	p.cancel = cancel
	p.done = make(chan struct{})
	done := p.done
	p.mu.Unlock()

	go p.loop(runCtx, done)
	return nil
}

// Stop is the teardown path: it stops the timer and guarantees no tick fires
// afterwards. An in-flight fetch is allowed to resolve, but its result is
// discarded against the cancelled context before any transition.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	done := p.done
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// Wait blocks until the current run exits. Intended for tests and for
// callers sequencing teardown.
func (p *Poller) Wait() {
	p.mu.Lock()
	done := p.done
	p.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (p *Poller) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	for tick := 0; ; tick++ {
		ok, err := p.fn(ctx)

		// Teardown may have happened while the fetch was in flight; the
		// result is then discarded rather than acted upon.
		if ctx.Err() != nil {
			p.setState(PollIdle)
			return
		}

		if err != nil {
			p.setState(PollFailed)
			logger.Warn().Err(err).Int("tick", tick).Msg("Polling fetch failed")
			if p.OnFailed != nil {
				p.OnFailed(err)
			}
			return
		}
		if ok {
			p.setState(PollResolved)
			if p.OnResolved != nil {
				p.OnResolved()
			}
			return
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			p.setState(PollIdle)
			return
		}

		// The slot after the last allowed fetch times the loop out instead
		// of fetching again.
		if tick+1 >= p.MaxTicks {
			p.setState(PollTimedOut)
			if p.OnTimedOut != nil {
				p.OnTimedOut()
			}
			return
		}
	}
}

func (p *Poller) setState(s PollState) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}
